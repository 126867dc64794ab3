package store

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"studyhall-backend/internal/models"
)

func TestAddNote_AssignsUniqueIDs(t *testing.T) {
	st := New()

	seen := make(map[uuid.UUID]bool)
	for i := 0; i < 50; i++ {
		n := st.AddNote(models.Note{Title: "n", Body: "b", Category: "General"})
		if n.ID == uuid.Nil {
			t.Fatal("Expected a non-nil ID")
		}
		if seen[n.ID] {
			t.Fatalf("Duplicate ID assigned: %s", n.ID)
		}
		seen[n.ID] = true
	}
}

func TestStamp_MonotonicAcrossClockStepback(t *testing.T) {
	st := New()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	st.now = func() time.Time { return clock }

	first := st.AddNote(models.Note{Title: "a", Body: "b"})

	// Wall clock steps backwards
	clock = base.Add(-time.Hour)
	second := st.AddNote(models.Note{Title: "c", Body: "d"})

	if second.CreatedAt.Before(first.CreatedAt) {
		t.Errorf("Timestamps went backwards: %v then %v", first.CreatedAt, second.CreatedAt)
	}
}

func TestDeleteQuiz_CascadesAttempts(t *testing.T) {
	st := New()

	quiz := st.AddQuiz(models.Quiz{Title: "q", Category: "Math", Questions: []models.QuizQuestion{
		{Prompt: "2+2?", Type: models.QuestionShortAnswer, CorrectAnswer: "4"},
	}})
	other := st.AddQuiz(models.Quiz{Title: "other", Category: "Math"})

	score := 100.0
	if _, err := st.AddAttempt(models.QuizAttempt{QuizID: quiz.ID, Answers: []string{"4"}, Score: &score}); err != nil {
		t.Fatalf("AddAttempt failed: %v", err)
	}
	kept, err := st.AddAttempt(models.QuizAttempt{QuizID: other.ID, Score: &score})
	if err != nil {
		t.Fatalf("AddAttempt failed: %v", err)
	}

	if err := st.DeleteQuiz(quiz.ID); err != nil {
		t.Fatalf("DeleteQuiz failed: %v", err)
	}

	if got := st.ListAttempts(quiz.ID); len(got) != 0 {
		t.Errorf("Expected cascade to remove attempts, found %d", len(got))
	}
	if _, err := st.GetAttempt(kept.ID); err != nil {
		t.Errorf("Attempt on another quiz should survive: %v", err)
	}
}

func TestAddAttempt_RequiresQuiz(t *testing.T) {
	st := New()

	_, err := st.AddAttempt(models.QuizAttempt{QuizID: uuid.New()})
	if err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestRecordReview_AppendsHistoryAndActivity(t *testing.T) {
	st := New()

	cards := st.AddCards([]models.Flashcard{{Front: "f", Back: "b", Category: "Bio", Difficulty: "easy"}})
	card := cards[0]

	updated, err := st.RecordReview(card.ID, true)
	if err != nil {
		t.Fatalf("RecordReview failed: %v", err)
	}
	if len(updated.ReviewHistory) != 1 || !updated.ReviewHistory[0].Passed {
		t.Errorf("Expected one passed review, got %+v", updated.ReviewHistory)
	}
	if updated.LastReviewedAt == nil {
		t.Error("Expected LastReviewedAt to be set")
	}

	snap := st.Snapshot()
	found := false
	for _, a := range snap.Activity {
		if a.EventType == models.EventFlashcardReview && a.Subject == "Bio" {
			found = true
		}
	}
	if !found {
		t.Error("Expected a flashcard_review activity record")
	}
}

func TestDueCards_NeverReviewedFirst(t *testing.T) {
	st := New()

	cards := st.AddCards([]models.Flashcard{
		{Front: "one", Back: "b"},
		{Front: "two", Back: "b"},
		{Front: "three", Back: "b"},
	})

	// Review the first two; "three" stays unreviewed.
	if _, err := st.RecordReview(cards[0].ID, true); err != nil {
		t.Fatal(err)
	}
	if _, err := st.RecordReview(cards[1].ID, false); err != nil {
		t.Fatal(err)
	}

	due := st.DueCards(10)
	if len(due) != 3 {
		t.Fatalf("Expected 3 due cards, got %d", len(due))
	}
	if due[0].Front != "three" {
		t.Errorf("Expected never-reviewed card first, got %q", due[0].Front)
	}
}

func TestRestore_DropsOrphanAttempts(t *testing.T) {
	st := New()

	quizID := uuid.New()
	score := 80.0
	st.Restore(models.Backup{
		Version: models.BackupVersion,
		Quizzes: []models.Quiz{{ID: quizID, Title: "kept", Category: "Math"}},
		Attempts: []models.QuizAttempt{
			{ID: uuid.New(), QuizID: quizID, Score: &score},
			{ID: uuid.New(), QuizID: uuid.New(), Score: &score}, // orphan
		},
	})

	_, _, quizzes, attempts := st.Counts()
	if quizzes != 1 {
		t.Errorf("Expected 1 quiz, got %d", quizzes)
	}
	if attempts != 1 {
		t.Errorf("Expected orphan attempt to be dropped, got %d attempts", attempts)
	}
}

func TestRestore_ReplacesExistingData(t *testing.T) {
	st := New()
	st.AddNote(models.Note{Title: "old", Body: "b"})

	st.Restore(models.Backup{
		Version: models.BackupVersion,
		Notes:   []models.Note{{ID: uuid.New(), Title: "new", Body: "b"}},
	})

	notes := st.ListNotes()
	if len(notes) != 1 || notes[0].Title != "new" {
		t.Errorf("Expected restore to replace data, got %+v", notes)
	}
}

func TestClear_WipesEverything(t *testing.T) {
	st := New()
	st.AddNote(models.Note{Title: "n", Body: "b"})
	st.AddCards([]models.Flashcard{{Front: "f", Back: "b"}})
	st.AddQuiz(models.Quiz{Title: "q"})

	st.Clear()

	notes, cards, quizzes, attempts := st.Counts()
	if notes+cards+quizzes+attempts != 0 {
		t.Errorf("Expected empty store, got %d/%d/%d/%d", notes, cards, quizzes, attempts)
	}
	if len(st.Snapshot().Activity) != 0 {
		t.Error("Expected activity log to be cleared")
	}
}

func TestRegistry_GetCreatesOncePerSession(t *testing.T) {
	r := NewRegistry(time.Hour)
	defer r.Stop()

	id := uuid.New()
	a := r.Get(id)
	b := r.Get(id)
	if a != b {
		t.Error("Expected the same store for the same session")
	}
	if r.Len() != 1 {
		t.Errorf("Expected 1 session, got %d", r.Len())
	}

	r.Remove(id)
	if r.Len() != 0 {
		t.Errorf("Expected 0 sessions after remove, got %d", r.Len())
	}
}
