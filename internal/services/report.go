package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/wcharczuk/go-chart/v2"

	"studyhall-backend/internal/models"
	"studyhall-backend/internal/store"
)

// ReportService renders PDF reports from a session snapshot. Rendering is
// done fully in memory; on any renderer error the caller gets a
// ReportError and no partial bytes.
type ReportService struct {
	progress *ProgressService
}

func NewReportService(progress *ProgressService) *ReportService {
	return &ReportService{progress: progress}
}

// ProgressReport builds the study progress report: summary table, subject
// performance table, strengths and improvement areas, and a score trend
// chart when there is enough data to draw one.
func (s *ReportService) ProgressReport(st *store.Store) ([]byte, error) {
	now := time.Now()
	snapshot := st.Snapshot()
	overview := s.progress.Overview(st)
	subjects := s.progress.Subjects(st)
	trend := s.progress.Trend(st, 30)

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	// Title block
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(20, 40, 90)
	pdf.CellFormat(0, 12, "Study Progress Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 6, "Generated on: "+now.Format("January 2, 2006"), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Study period: "+studyPeriod(snapshot.Activity, now), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	// Executive summary
	sectionHeader(pdf, "Executive Summary")
	summaryRows := [][2]string{
		{"Notes created", fmt.Sprintf("%d", overview.TotalNotes)},
		{"Flashcards created", fmt.Sprintf("%d", overview.TotalFlashcards)},
		{"Quizzes taken", fmt.Sprintf("%d", overview.TotalAttempts)},
		{"Cards reviewed", fmt.Sprintf("%d", overview.TotalReviews)},
		{"Study streak", fmt.Sprintf("%d day(s)", overview.StreakDays)},
	}
	if overview.AverageScore != nil {
		summaryRows = append(summaryRows, [2]string{"Average quiz score", fmt.Sprintf("%.1f%%", *overview.AverageScore)})
	} else {
		summaryRows = append(summaryRows, [2]string{"Average quiz score", "no data"})
	}
	twoColumnTable(pdf, tr, summaryRows)
	pdf.Ln(6)

	// Subject performance
	sectionHeader(pdf, "Subject Performance")
	if len(subjects) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.CellFormat(0, 6, "No subjects recorded yet.", "", 1, "L", false, 0, "")
	} else {
		subjectTable(pdf, tr, subjects)
	}
	pdf.Ln(6)

	// Strengths / improvement areas
	strengths, weaknesses := splitStrengths(subjects)
	sectionHeader(pdf, "Strengths & Areas for Improvement")
	bulletList(pdf, tr, "Strengths:", strengths, "Keep practicing to build a track record.")
	bulletList(pdf, tr, "Needs improvement:", weaknesses, "Nothing flagged yet.")
	pdf.Ln(4)

	// Trend chart needs at least two dated points to draw a line.
	if len(trend) >= 2 {
		png, err := renderTrendChart(trend)
		if err != nil {
			return nil, &ReportError{Message: "Report chart rendering failed.", Err: err}
		}
		sectionHeader(pdf, "Score Trend (30 days)")
		opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		pdf.RegisterImageOptionsReader("trend", opts, bytes.NewReader(png))
		pdf.ImageOptions("trend", 15, pdf.GetY(), 180, 0, true, opts, 0, "")
	}

	return outputPDF(pdf)
}

// StudyGuideReport serializes the session's notes and flashcards into a
// printable document.
func (s *ReportService) StudyGuideReport(st *store.Store) ([]byte, error) {
	snapshot := st.Snapshot()

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(20, 40, 90)
	pdf.CellFormat(0, 12, "Study Guide", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 6, "Generated on: "+time.Now().Format("January 2, 2006"), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	if len(snapshot.Notes) == 0 && len(snapshot.Flashcards) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.CellFormat(0, 6, "No study material in this session yet.", "", 1, "L", false, 0, "")
	}

	if len(snapshot.Notes) > 0 {
		sectionHeader(pdf, "Notes")
		for _, n := range snapshot.Notes {
			pdf.SetFont("Helvetica", "B", 12)
			pdf.MultiCell(0, 6, tr(n.Title+"  ["+n.Category+"]"), "", "L", false)
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(n.Body), "", "L", false)
			pdf.Ln(4)
		}
	}

	if len(snapshot.Flashcards) > 0 {
		pdf.AddPage()
		sectionHeader(pdf, "Flashcards")
		for i, c := range snapshot.Flashcards {
			pdf.SetFont("Helvetica", "B", 10)
			pdf.MultiCell(0, 5, tr(fmt.Sprintf("%d. %s", i+1, c.Front)), "", "L", false)
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr("   "+c.Back), "", "L", false)
			pdf.Ln(2)
		}
	}

	return outputPDF(pdf)
}

func outputPDF(pdf *fpdf.Fpdf) ([]byte, error) {
	if pdf.Err() {
		return nil, &ReportError{Message: "Report rendering failed.", Err: pdf.Error()}
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &ReportError{Message: "Report rendering failed.", Err: err}
	}
	return buf.Bytes(), nil
}

func sectionHeader(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(20, 90, 50)
	pdf.CellFormat(0, 9, title, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(1)
}

func twoColumnTable(pdf *fpdf.Fpdf, tr func(string) string, rows [][2]string) {
	pdf.SetFont("Helvetica", "", 10)
	for i, row := range rows {
		fill := i%2 == 1
		pdf.SetFillColor(240, 240, 235)
		pdf.CellFormat(70, 7, tr(row[0]), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(50, 7, tr(row[1]), "1", 1, "L", fill, 0, "")
	}
}

func subjectTable(pdf *fpdf.Fpdf, tr func(string) string, subjects []models.SubjectStats) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(20, 90, 50)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(50, 7, "Subject", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Attempts", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Avg Score", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Card Pass Rate", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Trend", "1", 1, "C", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(235, 245, 235)
	for i, s := range subjects {
		fill := i%2 == 1

		avg := "no data"
		if s.HasData {
			avg = fmt.Sprintf("%.1f%%", s.AverageScore)
		}
		passRate := "-"
		if s.CardPassRate != nil {
			passRate = fmt.Sprintf("%.0f%%", *s.CardPassRate)
		}

		pdf.CellFormat(50, 7, tr(s.Subject), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", s.Attempts), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(30, 7, avg, "1", 0, "C", fill, 0, "")
		pdf.CellFormat(35, 7, passRate, "1", 0, "C", fill, 0, "")
		pdf.CellFormat(30, 7, s.Trend, "1", 1, "C", fill, 0, "")
	}
}

func bulletList(pdf *fpdf.Fpdf, tr func(string) string, title string, items []string, emptyText string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 6, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	if len(items) == 0 {
		pdf.CellFormat(0, 5, tr("  "+emptyText), "", 1, "L", false, 0, "")
		return
	}
	for _, item := range items {
		pdf.CellFormat(0, 5, tr("  - "+item), "", 1, "L", false, 0, "")
	}
}

func splitStrengths(subjects []models.SubjectStats) (strengths, weaknesses []string) {
	for _, s := range subjects {
		if !s.HasData {
			continue
		}
		switch {
		case s.AverageScore >= 80:
			strengths = append(strengths, fmt.Sprintf("%s (%.0f%% average)", s.Subject, s.AverageScore))
		case s.AverageScore < 70:
			weaknesses = append(weaknesses, fmt.Sprintf("%s (%.0f%% average)", s.Subject, s.AverageScore))
		}
	}
	return strengths, weaknesses
}

func renderTrendChart(trend []models.TrendPoint) ([]byte, error) {
	xs := make([]time.Time, len(trend))
	ys := make([]float64, len(trend))
	for i, p := range trend {
		t, err := time.Parse("2006-01-02", p.Date)
		if err != nil {
			return nil, err
		}
		xs[i] = t
		ys[i] = p.AverageScore
	}

	graph := chart.Chart{
		Width:  900,
		Height: 320,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Average score",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
					StrokeWidth: 2.5,
					DotColor:    chart.ColorBlue,
					DotWidth:    3,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func studyPeriod(activity []models.ActivityRecord, now time.Time) string {
	if len(activity) == 0 {
		return "no activity yet"
	}
	earliest := activity[0].Timestamp
	for _, a := range activity[1:] {
		if a.Timestamp.Before(earliest) {
			earliest = a.Timestamp
		}
	}
	return earliest.Format("Jan 2, 2006") + " - " + now.Format("Jan 2, 2006")
}
