package services

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"studyhall-backend/internal/models"
	"studyhall-backend/internal/store"
)

// ExportService handles the plain-text flashcard deck format, the
// versioned JSON full-session backup and the grouped notes export.
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

// ExportDeck writes one record per card:
//
//	Q: front
//	A: back
//	D: difficulty
//	C: category
//
// separated by blank lines. Newlines inside fields are flattened to spaces
// so the format stays line-oriented; an export-import round trip rebuilds
// the same (front, back, difficulty) set.
func (e *ExportService) ExportDeck(cards []models.Flashcard) string {
	var b strings.Builder

	b.WriteString("# Studyhall flashcard deck\n")
	b.WriteString(fmt.Sprintf("# Exported: %s\n", time.Now().Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("# Cards: %d\n\n", len(cards)))

	for _, c := range cards {
		b.WriteString("Q: " + flattenLine(c.Front) + "\n")
		b.WriteString("A: " + flattenLine(c.Back) + "\n")
		b.WriteString("D: " + c.Difficulty + "\n")
		b.WriteString("C: " + flattenLine(c.Category) + "\n")
		b.WriteString("\n")
	}

	return b.String()
}

// ImportDeck parses the deck format back into cards. Comment lines are
// skipped; a record needs at least Q and A, difficulty and category fall
// back to defaults.
func (e *ExportService) ImportDeck(r io.Reader) ([]models.Flashcard, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var cards []models.Flashcard
	var current models.Flashcard

	flush := func() {
		if current.Front != "" && current.Back != "" {
			if current.Difficulty == "" {
				current.Difficulty = "medium"
			}
			if current.Category == "" {
				current.Category = "General"
			}
			cards = append(cards, current)
		}
		current = models.Flashcard{}
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "#"):
			continue
		case strings.HasPrefix(line, "Q: "):
			current.Front = strings.TrimSpace(line[3:])
		case strings.HasPrefix(line, "A: "):
			current.Back = strings.TrimSpace(line[3:])
		case strings.HasPrefix(line, "D: "):
			if d := normalizeDifficulty(line[3:]); d != "" {
				current.Difficulty = d
			}
		case strings.HasPrefix(line, "C: "):
			current.Category = strings.TrimSpace(line[3:])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read deck file: %w", err)
	}
	flush()

	if len(cards) == 0 {
		return nil, &ValidationError{Fields: map[string]string{"file": "no flashcard records found in file"}}
	}
	return cards, nil
}

// ExportBackup serializes the whole session.
func (e *ExportService) ExportBackup(st *store.Store) ([]byte, error) {
	return json.MarshalIndent(st.Snapshot(), "", "  ")
}

// ImportBackup validates the backup shape and atomically replaces the
// session's data with its contents.
func (e *ExportService) ImportBackup(st *store.Store, data []byte) error {
	var b models.Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return &ValidationError{Fields: map[string]string{"file": "not a valid backup file"}}
	}
	if b.Version == "" {
		return &ValidationError{Fields: map[string]string{"file": "backup file has no version marker"}}
	}
	for _, q := range b.Quizzes {
		if len(q.Questions) == 0 {
			return &ValidationError{Fields: map[string]string{"file": "backup contains a quiz with no questions"}}
		}
	}

	st.Restore(b)
	st.AppendActivity(models.EventDataImport, "General", nil)
	return nil
}

// ExportNotesText renders notes as a plain-text document grouped by
// category.
func (e *ExportService) ExportNotesText(notes []models.Note) string {
	if len(notes) == 0 {
		return "No notes to export.\n"
	}

	var b strings.Builder
	b.WriteString("Study Notes Export\n")
	b.WriteString("Exported on: " + time.Now().Format("2006-01-02 15:04:05") + "\n")
	b.WriteString(strings.Repeat("=", 50) + "\n\n")

	byCategory := make(map[string][]models.Note)
	for _, n := range notes {
		byCategory[n.Category] = append(byCategory[n.Category], n)
	}
	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	for _, category := range categories {
		b.WriteString("CATEGORY: " + strings.ToUpper(category) + "\n")
		b.WriteString(strings.Repeat("-", 30) + "\n\n")

		for _, n := range byCategory[category] {
			b.WriteString("Title: " + n.Title + "\n")
			b.WriteString("Created: " + n.CreatedAt.Format(time.RFC3339) + "\n")
			b.WriteString(strings.Repeat("-", 20) + "\n")
			b.WriteString(n.Body + "\n")
			b.WriteString("\n" + strings.Repeat("=", 50) + "\n\n")
		}
	}

	return b.String()
}

func flattenLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}
