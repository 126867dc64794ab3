package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"studyhall-backend/internal/models"
)

var ErrNotFound = errors.New("not found")

// Store holds every study artifact for one session. All entities live in
// memory for the lifetime of the session; there is no durable persistence.
// A single mutex guards all collections so multi-entity operations (quiz
// delete cascade, backup restore) are atomic.
type Store struct {
	mu       sync.Mutex
	notes    map[uuid.UUID]models.Note
	cards    map[uuid.UUID]models.Flashcard
	quizzes  map[uuid.UUID]models.Quiz
	attempts map[uuid.UUID]models.QuizAttempt
	activity []models.ActivityRecord

	lastStamp time.Time
	lastSeen  time.Time
	now       func() time.Time
}

func New() *Store {
	return &Store{
		notes:    make(map[uuid.UUID]models.Note),
		cards:    make(map[uuid.UUID]models.Flashcard),
		quizzes:  make(map[uuid.UUID]models.Quiz),
		attempts: make(map[uuid.UUID]models.QuizAttempt),
		now:      time.Now,
		lastSeen: time.Now(),
	}
}

// stamp returns a timestamp guaranteed to be monotonically non-decreasing
// within the session, even if the wall clock steps backwards.
func (s *Store) stamp() time.Time {
	t := s.now()
	if t.Before(s.lastStamp) {
		t = s.lastStamp
	}
	s.lastStamp = t
	return t
}

func (s *Store) touch() {
	s.lastSeen = s.now()
}

// LastSeen reports when the session last performed any store operation.
func (s *Store) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Notes

func (s *Store) AddNote(n models.Note) models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	n.ID = uuid.New()
	n.CreatedAt = s.stamp()
	s.notes[n.ID] = n
	return n
}

func (s *Store) GetNote(id uuid.UUID) (models.Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	n, ok := s.notes[id]
	if !ok {
		return models.Note{}, ErrNotFound
	}
	return n, nil
}

func (s *Store) ListNotes() []models.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	out := make([]models.Note, 0, len(s.notes))
	for _, n := range s.notes {
		out = append(out, n)
	}
	sortNewestFirst(out, func(n models.Note) time.Time { return n.CreatedAt })
	return out
}

func (s *Store) DeleteNote(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if _, ok := s.notes[id]; !ok {
		return ErrNotFound
	}
	delete(s.notes, id)
	return nil
}

// Flashcards

// AddCards inserts a batch of generated cards in one critical section so a
// generation either lands fully or not at all.
func (s *Store) AddCards(cards []models.Flashcard) []models.Flashcard {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	out := make([]models.Flashcard, len(cards))
	for i, c := range cards {
		c.ID = uuid.New()
		c.CreatedAt = s.stamp()
		s.cards[c.ID] = c
		out[i] = c
	}
	return out
}

func (s *Store) GetCard(id uuid.UUID) (models.Flashcard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	c, ok := s.cards[id]
	if !ok {
		return models.Flashcard{}, ErrNotFound
	}
	return copyCard(c), nil
}

func (s *Store) ListCards() []models.Flashcard {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	out := make([]models.Flashcard, 0, len(s.cards))
	for _, c := range s.cards {
		out = append(out, copyCard(c))
	}
	sortNewestFirst(out, func(c models.Flashcard) time.Time { return c.CreatedAt })
	return out
}

func (s *Store) DeleteCard(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if _, ok := s.cards[id]; !ok {
		return ErrNotFound
	}
	delete(s.cards, id)
	return nil
}

// RecordReview appends a pass/fail outcome to the card's review history and
// logs the matching activity record.
func (s *Store) RecordReview(id uuid.UUID, passed bool) (models.Flashcard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	c, ok := s.cards[id]
	if !ok {
		return models.Flashcard{}, ErrNotFound
	}

	t := s.stamp()
	c.ReviewHistory = append(c.ReviewHistory, models.ReviewOutcome{Passed: passed, ReviewedAt: t})
	c.LastReviewedAt = &t
	s.cards[id] = c

	outcome := 0.0
	if passed {
		outcome = 1.0
	}
	s.activity = append(s.activity, models.ActivityRecord{
		EventType: models.EventFlashcardReview,
		Subject:   c.Category,
		Timestamp: t,
		Outcome:   &outcome,
	})

	return copyCard(c), nil
}

// DueCards returns up to limit cards ordered by least recently reviewed,
// never-reviewed cards first.
func (s *Store) DueCards(limit int) []models.Flashcard {
	cards := s.ListCards()

	sort.SliceStable(cards, func(i, j int) bool {
		a, b := cards[i].LastReviewedAt, cards[j].LastReviewedAt
		switch {
		case a == nil && b == nil:
			return cards[i].CreatedAt.Before(cards[j].CreatedAt)
		case a == nil:
			return true
		case b == nil:
			return false
		default:
			return a.Before(*b)
		}
	})

	if limit > 0 && len(cards) > limit {
		cards = cards[:limit]
	}
	return cards
}

// Quizzes

func (s *Store) AddQuiz(q models.Quiz) models.Quiz {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	q.ID = uuid.New()
	q.CreatedAt = s.stamp()
	s.quizzes[q.ID] = q
	return q
}

func (s *Store) GetQuiz(id uuid.UUID) (models.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	q, ok := s.quizzes[id]
	if !ok {
		return models.Quiz{}, ErrNotFound
	}
	return q, nil
}

func (s *Store) ListQuizzes() []models.Quiz {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	out := make([]models.Quiz, 0, len(s.quizzes))
	for _, q := range s.quizzes {
		out = append(out, q)
	}
	sortNewestFirst(out, func(q models.Quiz) time.Time { return q.CreatedAt })
	return out
}

// DeleteQuiz removes the quiz and cascades to its attempts, so an attempt
// can never reference a quiz that no longer exists.
func (s *Store) DeleteQuiz(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if _, ok := s.quizzes[id]; !ok {
		return ErrNotFound
	}
	delete(s.quizzes, id)
	for aid, a := range s.attempts {
		if a.QuizID == id {
			delete(s.attempts, aid)
		}
	}
	return nil
}

// Attempts

// AddAttempt stores a graded (or grading-failed) attempt. The referenced
// quiz must exist.
func (s *Store) AddAttempt(a models.QuizAttempt) (models.QuizAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	q, ok := s.quizzes[a.QuizID]
	if !ok {
		return models.QuizAttempt{}, ErrNotFound
	}

	a.ID = uuid.New()
	a.CreatedAt = s.stamp()
	s.attempts[a.ID] = a

	s.activity = append(s.activity, models.ActivityRecord{
		EventType: models.EventQuizAttempt,
		Subject:   q.Category,
		Timestamp: a.CreatedAt,
		Outcome:   a.Score,
	})

	return a, nil
}

func (s *Store) GetAttempt(id uuid.UUID) (models.QuizAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	a, ok := s.attempts[id]
	if !ok {
		return models.QuizAttempt{}, ErrNotFound
	}
	return a, nil
}

func (s *Store) ListAttempts(quizID uuid.UUID) []models.QuizAttempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	var out []models.QuizAttempt
	for _, a := range s.attempts {
		if a.QuizID == quizID {
			out = append(out, a)
		}
	}
	sortNewestFirst(out, func(a models.QuizAttempt) time.Time { return a.CreatedAt })
	return out
}

// Activity log

func (s *Store) AppendActivity(eventType, subject string, outcome *float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.activity = append(s.activity, models.ActivityRecord{
		EventType: eventType,
		Subject:   subject,
		Timestamp: s.stamp(),
		Outcome:   outcome,
	})
}

// Snapshot / restore

// Snapshot copies the entire session state, newest first per collection.
func (s *Store) Snapshot() models.Backup {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	b := models.Backup{
		Version:    models.BackupVersion,
		ExportedAt: s.now(),
	}
	for _, n := range s.notes {
		b.Notes = append(b.Notes, n)
	}
	for _, c := range s.cards {
		b.Flashcards = append(b.Flashcards, copyCard(c))
	}
	for _, q := range s.quizzes {
		b.Quizzes = append(b.Quizzes, q)
	}
	for _, a := range s.attempts {
		b.Attempts = append(b.Attempts, a)
	}
	b.Activity = append(b.Activity, s.activity...)

	sortNewestFirst(b.Notes, func(n models.Note) time.Time { return n.CreatedAt })
	sortNewestFirst(b.Flashcards, func(c models.Flashcard) time.Time { return c.CreatedAt })
	sortNewestFirst(b.Quizzes, func(q models.Quiz) time.Time { return q.CreatedAt })
	sortNewestFirst(b.Attempts, func(a models.QuizAttempt) time.Time { return a.CreatedAt })

	return b
}

// Restore atomically replaces all session data with the backup contents.
// IDs from the backup are preserved unless they collide, in which case the
// entity is re-keyed; attempts referencing a quiz missing from the backup
// are dropped.
func (s *Store) Restore(b models.Backup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.notes = make(map[uuid.UUID]models.Note, len(b.Notes))
	s.cards = make(map[uuid.UUID]models.Flashcard, len(b.Flashcards))
	s.quizzes = make(map[uuid.UUID]models.Quiz, len(b.Quizzes))
	s.attempts = make(map[uuid.UUID]models.QuizAttempt, len(b.Attempts))
	s.activity = append([]models.ActivityRecord(nil), b.Activity...)

	for _, n := range b.Notes {
		if n.ID == uuid.Nil {
			n.ID = uuid.New()
		}
		if _, dup := s.notes[n.ID]; dup {
			n.ID = uuid.New()
		}
		s.notes[n.ID] = n
		s.advanceStamp(n.CreatedAt)
	}
	for _, c := range b.Flashcards {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		if _, dup := s.cards[c.ID]; dup {
			c.ID = uuid.New()
		}
		s.cards[c.ID] = copyCard(c)
		s.advanceStamp(c.CreatedAt)
	}
	for _, q := range b.Quizzes {
		if q.ID == uuid.Nil {
			q.ID = uuid.New()
		}
		if _, dup := s.quizzes[q.ID]; dup {
			q.ID = uuid.New()
		}
		s.quizzes[q.ID] = q
		s.advanceStamp(q.CreatedAt)
	}
	for _, a := range b.Attempts {
		if _, ok := s.quizzes[a.QuizID]; !ok {
			continue
		}
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		if _, dup := s.attempts[a.ID]; dup {
			a.ID = uuid.New()
		}
		s.attempts[a.ID] = a
		s.advanceStamp(a.CreatedAt)
	}
}

func (s *Store) advanceStamp(t time.Time) {
	if t.After(s.lastStamp) {
		s.lastStamp = t
	}
}

// Clear wipes every collection.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	s.notes = make(map[uuid.UUID]models.Note)
	s.cards = make(map[uuid.UUID]models.Flashcard)
	s.quizzes = make(map[uuid.UUID]models.Quiz)
	s.attempts = make(map[uuid.UUID]models.QuizAttempt)
	s.activity = nil
}

// Counts returns collection sizes (notes, cards, quizzes, attempts).
func (s *Store) Counts() (int, int, int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.notes), len(s.cards), len(s.quizzes), len(s.attempts)
}

// copyCard deep-copies the review history so callers cannot mutate stored
// state through the returned slice.
func copyCard(c models.Flashcard) models.Flashcard {
	if c.ReviewHistory != nil {
		c.ReviewHistory = append([]models.ReviewOutcome(nil), c.ReviewHistory...)
	}
	return c
}

func sortNewestFirst[T any](items []T, createdAt func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return createdAt(items[i]).After(createdAt(items[j]))
	})
}
