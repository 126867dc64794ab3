package services

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"studyhall-backend/internal/models"
	"studyhall-backend/internal/store"
)

func TestDeckRoundTrip(t *testing.T) {
	e := NewExportService()

	original := []models.Flashcard{
		{Front: "What is ATP?", Back: "Energy currency of the cell", Difficulty: "easy", Category: "Biology"},
		{Front: "Multi\nline front", Back: "And a\nmulti line back", Difficulty: "hard", Category: "Chemistry"},
		{Front: "Define entropy", Back: "Measure of disorder", Difficulty: "medium", Category: "Physics"},
	}

	deck := e.ExportDeck(original)
	imported, err := e.ImportDeck(strings.NewReader(deck))
	if err != nil {
		t.Fatalf("ImportDeck failed: %v", err)
	}
	if len(imported) != len(original) {
		t.Fatalf("Expected %d cards, got %d", len(original), len(imported))
	}

	// Newlines are flattened on export, so compare against the flattened set.
	type key struct{ front, back, difficulty string }
	want := make(map[key]bool)
	for _, c := range original {
		want[key{flattenLine(c.Front), flattenLine(c.Back), c.Difficulty}] = true
	}
	for _, c := range imported {
		if !want[key{c.Front, c.Back, c.Difficulty}] {
			t.Errorf("Unexpected imported card: %+v", c)
		}
	}
}

func TestImportDeck_DefaultsAndComments(t *testing.T) {
	e := NewExportService()

	deck := `# a comment
Q: What is osmosis?
A: Water diffusion

Q: incomplete record with no answer
`

	cards, err := e.ImportDeck(strings.NewReader(deck))
	if err != nil {
		t.Fatalf("ImportDeck failed: %v", err)
	}
	if len(cards) != 1 {
		t.Fatalf("Expected 1 card, got %d", len(cards))
	}
	if cards[0].Difficulty != "medium" || cards[0].Category != "General" {
		t.Errorf("Expected defaults applied, got %+v", cards[0])
	}
}

func TestImportDeck_EmptyFile(t *testing.T) {
	e := NewExportService()

	_, err := e.ImportDeck(strings.NewReader("# nothing here\n"))

	var valErr *ValidationError
	if !errors.As(err, &valErr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
}

func TestBackupRoundTrip(t *testing.T) {
	e := NewExportService()
	st := store.New()

	st.AddNote(models.Note{Title: "note", Body: "body", Category: "Math"})
	st.AddCards([]models.Flashcard{{Front: "f", Back: "b", Category: "Math", Difficulty: "easy"}})
	quiz := st.AddQuiz(models.Quiz{Title: "quiz", Category: "Math", Questions: []models.QuizQuestion{
		{Prompt: "p", Type: models.QuestionShortAnswer, CorrectAnswer: "a"},
	}})
	score := 88.0
	if _, err := st.AddAttempt(models.QuizAttempt{QuizID: quiz.ID, Answers: []string{"a"}, Score: &score}); err != nil {
		t.Fatal(err)
	}

	data, err := e.ExportBackup(st)
	if err != nil {
		t.Fatalf("ExportBackup failed: %v", err)
	}

	var b models.Backup
	if err := json.Unmarshal(data, &b); err != nil {
		t.Fatalf("Export is not valid JSON: %v", err)
	}
	if b.Version != models.BackupVersion {
		t.Errorf("Expected version %q, got %q", models.BackupVersion, b.Version)
	}

	fresh := store.New()
	if err := e.ImportBackup(fresh, data); err != nil {
		t.Fatalf("ImportBackup failed: %v", err)
	}

	notes, cards, quizzes, attempts := fresh.Counts()
	if notes != 1 || cards != 1 || quizzes != 1 || attempts != 1 {
		t.Errorf("Unexpected counts after import: %d/%d/%d/%d", notes, cards, quizzes, attempts)
	}
}

func TestImportBackup_RejectsBadPayloads(t *testing.T) {
	e := NewExportService()

	tests := []struct {
		name string
		data string
	}{
		{"not json", "definitely not json"},
		{"missing version", `{"notes": []}`},
		{"questionless quiz", `{"version": "2.0", "quizzes": [{"title": "empty"}]}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			st := store.New()
			st.AddNote(models.Note{Title: "keep me", Body: "b"})

			err := e.ImportBackup(st, []byte(tc.data))

			var valErr *ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if notes := st.ListNotes(); len(notes) != 1 {
				t.Error("Existing data must survive a rejected import")
			}
		})
	}
}

func TestExportNotesText_GroupsByCategory(t *testing.T) {
	e := NewExportService()

	text := e.ExportNotesText([]models.Note{
		{Title: "Algebra", Body: "x", Category: "Math"},
		{Title: "Cells", Body: "y", Category: "Biology"},
	})

	bioIdx := strings.Index(text, "CATEGORY: BIOLOGY")
	mathIdx := strings.Index(text, "CATEGORY: MATH")
	if bioIdx < 0 || mathIdx < 0 {
		t.Fatalf("Expected category headers, got:\n%s", text)
	}
	if bioIdx > mathIdx {
		t.Error("Expected categories in sorted order")
	}
}

func TestExportNotesText_Empty(t *testing.T) {
	e := NewExportService()
	if text := e.ExportNotesText(nil); !strings.Contains(text, "No notes") {
		t.Errorf("Expected empty-export message, got %q", text)
	}
}
