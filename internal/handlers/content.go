package handlers

import (
	"errors"
	"net/http"

	"studyhall-backend/internal/services"
)

type ContentHandler struct {
	extract        *services.FileExtractService
	maxUploadBytes int64
}

func NewContentHandler(extract *services.FileExtractService, maxUploadBytes int64) *ContentHandler {
	return &ContentHandler{
		extract:        extract,
		maxUploadBytes: maxUploadBytes,
	}
}

// Extract accepts a multipart upload and returns its plain text, ready to
// feed into a generator.
func (h *ContentHandler) Extract(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "Uploaded file exceeds the size limit", r))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Missing file field", r))
		return
	}
	defer file.Close()

	text, err := h.extract.ExtractText(header.Filename, file)
	if err != nil {
		var valErr *services.ValidationError
		if errors.As(err, &valErr) {
			writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Unsupported file", valErr.Fields, r))
			return
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("EXTRACTION_FAILED", "Could not extract text from the uploaded file", r))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"filename": header.Filename,
		"text":     text,
		"chars":    len(text),
	})
}

// SupportedFormats lists the accepted upload extensions.
func (h *ContentHandler) SupportedFormats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"formats":          services.SupportedUploadFormats,
		"max_upload_bytes": h.maxUploadBytes,
	})
}
