package services

import (
	"sort"
	"time"

	"studyhall-backend/internal/models"
	"studyhall-backend/internal/store"
)

// ProgressService derives aggregate statistics from a session snapshot.
// Everything here is a pure computation recomputed on demand; no state is
// kept and nothing is written back.
type ProgressService struct{}

func NewProgressService() *ProgressService {
	return &ProgressService{}
}

func (p *ProgressService) Overview(st *store.Store) models.ProgressOverview {
	return computeOverview(st.Snapshot(), time.Now())
}

func (p *ProgressService) Subjects(st *store.Store) []models.SubjectStats {
	return computeSubjectStats(st.Snapshot())
}

func (p *ProgressService) Trend(st *store.Store, days int) []models.TrendPoint {
	return computeTrend(st.Snapshot(), days, time.Now())
}

func (p *ProgressService) WeakSubjects(st *store.Store, limit int) []models.WeakSubject {
	return computeWeakSubjects(st.Snapshot(), limit)
}

func computeOverview(b models.Backup, now time.Time) models.ProgressOverview {
	o := models.ProgressOverview{
		TotalNotes:      len(b.Notes),
		TotalFlashcards: len(b.Flashcards),
		TotalQuizzes:    len(b.Quizzes),
		TotalAttempts:   len(b.Attempts),
	}
	for _, c := range b.Flashcards {
		o.TotalReviews += len(c.ReviewHistory)
	}

	var sum float64
	var scored int
	for _, a := range b.Attempts {
		if a.Score != nil {
			sum += *a.Score
			scored++
		}
	}
	if scored > 0 {
		avg := sum / float64(scored)
		o.AverageScore = &avg
	}

	o.StreakDays = computeStreak(b.Activity, now)
	return o
}

// computeStreak counts consecutive days with any activity, ending today or
// yesterday (a streak survives until a full day is missed).
func computeStreak(activity []models.ActivityRecord, now time.Time) int {
	days := make(map[string]bool, len(activity))
	for _, a := range activity {
		days[a.Timestamp.Format("2006-01-02")] = true
	}
	if len(days) == 0 {
		return 0
	}

	day := now
	if !days[day.Format("2006-01-02")] {
		day = day.AddDate(0, 0, -1)
		if !days[day.Format("2006-01-02")] {
			return 0
		}
	}

	streak := 0
	for days[day.Format("2006-01-02")] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func computeSubjectStats(b models.Backup) []models.SubjectStats {
	quizCategory := make(map[string]string, len(b.Quizzes))
	subjects := make(map[string]bool)
	for _, q := range b.Quizzes {
		quizCategory[q.ID.String()] = q.Category
		subjects[q.Category] = true
	}
	for _, c := range b.Flashcards {
		subjects[c.Category] = true
	}
	for _, n := range b.Notes {
		subjects[n.Category] = true
	}

	scoresBySubject := make(map[string][]scoredAttempt)
	for _, a := range b.Attempts {
		if a.Score == nil {
			continue
		}
		subject, ok := quizCategory[a.QuizID.String()]
		if !ok {
			continue
		}
		scoresBySubject[subject] = append(scoresBySubject[subject], scoredAttempt{score: *a.Score, at: a.CreatedAt})
	}

	passBySubject := make(map[string][2]int) // passed, total
	for _, c := range b.Flashcards {
		counts := passBySubject[c.Category]
		for _, r := range c.ReviewHistory {
			counts[1]++
			if r.Passed {
				counts[0]++
			}
		}
		passBySubject[c.Category] = counts
	}

	var out []models.SubjectStats
	for subject := range subjects {
		stats := models.SubjectStats{Subject: subject, Trend: models.TrendInsufficient}

		scores := scoresBySubject[subject]
		if len(scores) > 0 {
			stats.HasData = true
			stats.Attempts = len(scores)
			var sum float64
			for _, s := range scores {
				sum += s.score
			}
			stats.AverageScore = sum / float64(len(scores))
			stats.Trend = improvementTrend(scores)
		}

		if counts := passBySubject[subject]; counts[1] > 0 {
			rate := float64(counts[0]) / float64(counts[1]) * 100
			stats.CardPassRate = &rate
		}

		out = append(out, stats)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Subject < out[j].Subject })
	return out
}

type scoredAttempt struct {
	score float64
	at    time.Time
}

// improvementTrend compares the older and newer halves of the last five
// scored attempts; a swing over five points either way breaks "stable".
func improvementTrend(scores []scoredAttempt) string {
	if len(scores) < 2 {
		return models.TrendInsufficient
	}

	sorted := append([]scoredAttempt(nil), scores...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].at.Before(sorted[j].at) })
	if len(sorted) > 5 {
		sorted = sorted[len(sorted)-5:]
	}

	half := len(sorted) / 2
	var first, second float64
	for _, s := range sorted[:half] {
		first += s.score
	}
	for _, s := range sorted[half:] {
		second += s.score
	}
	first /= float64(half)
	second /= float64(len(sorted) - half)

	switch diff := second - first; {
	case diff > 5:
		return models.TrendImproving
	case diff < -5:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

func computeTrend(b models.Backup, days int, now time.Time) []models.TrendPoint {
	if days <= 0 {
		days = 30
	}
	cutoff := now.AddDate(0, 0, -days)

	type bucket struct {
		sum   float64
		count int
	}
	buckets := make(map[string]*bucket)
	for _, a := range b.Attempts {
		if a.Score == nil || a.CreatedAt.Before(cutoff) {
			continue
		}
		key := a.CreatedAt.Format("2006-01-02")
		bk, ok := buckets[key]
		if !ok {
			bk = &bucket{}
			buckets[key] = bk
		}
		bk.sum += *a.Score
		bk.count++
	}

	out := make([]models.TrendPoint, 0, len(buckets))
	for date, bk := range buckets {
		out = append(out, models.TrendPoint{
			Date:         date,
			AverageScore: bk.sum / float64(bk.count),
			Attempts:     bk.count,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// computeWeakSubjects ranks subjects ascending by accuracy over their most
// recent attempts. Subjects with no graded attempts are excluded rather
// than reported as zero.
func computeWeakSubjects(b models.Backup, limit int) []models.WeakSubject {
	quizCategory := make(map[string]string, len(b.Quizzes))
	for _, q := range b.Quizzes {
		quizCategory[q.ID.String()] = q.Category
	}

	bySubject := make(map[string][]scoredAttempt)
	for _, a := range b.Attempts {
		if a.Score == nil {
			continue
		}
		subject, ok := quizCategory[a.QuizID.String()]
		if !ok {
			continue
		}
		bySubject[subject] = append(bySubject[subject], scoredAttempt{score: *a.Score, at: a.CreatedAt})
	}

	var out []models.WeakSubject
	for subject, scores := range bySubject {
		sort.Slice(scores, func(i, j int) bool { return scores[i].at.Before(scores[j].at) })
		recent := scores
		if len(recent) > 5 {
			recent = recent[len(recent)-5:]
		}
		var sum float64
		for _, s := range recent {
			sum += s.score
		}
		out = append(out, models.WeakSubject{
			Subject:        subject,
			RecentAccuracy: sum / float64(len(recent)),
			Attempts:       len(scores),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].RecentAccuracy != out[j].RecentAccuracy {
			return out[i].RecentAccuracy < out[j].RecentAccuracy
		}
		return out[i].Subject < out[j].Subject
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
