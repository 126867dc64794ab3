package handlers

import (
	"net/http"

	"studyhall-backend/internal/services"
	"studyhall-backend/internal/store"
)

type ReportHandler struct {
	registry *store.Registry
	reports  *services.ReportService
}

func NewReportHandler(registry *store.Registry, reports *services.ReportService) *ReportHandler {
	return &ReportHandler{
		registry: registry,
		reports:  reports,
	}
}

func (h *ReportHandler) Progress(w http.ResponseWriter, r *http.Request) {
	pdf, err := h.reports.ProgressReport(sessionStore(h.registry, r))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	servePDF(w, "progress_report.pdf", pdf)
}

func (h *ReportHandler) StudyGuide(w http.ResponseWriter, r *http.Request) {
	pdf, err := h.reports.StudyGuideReport(sessionStore(h.registry, r))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	servePDF(w, "study_guide.pdf", pdf)
}

func servePDF(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write(data)
}
