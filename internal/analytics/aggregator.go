package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mederva/boardprep-backend/internal/model"
)

// RecomputeLifetimeStats derives the lifetime stat singleton from the full
// history log. History order is not assumed: the first-session timestamp is
// found by scanning, even though the log is stored most-recent-first.
func RecomputeLifetimeStats(history []model.HistoricalSession, now time.Time) model.LifetimeStats {
	if len(history) == 0 {
		return model.LifetimeStats{FirstSessionAt: now}
	}

	var totalQuestions, totalCorrect int
	var totalMs int64
	first := history[0].CompletedAt

	for _, h := range history {
		totalQuestions += h.TotalQuestions
		totalCorrect += h.CorrectAnswers
		totalMs += h.ElapsedMs
		if h.CompletedAt.Before(first) {
			first = h.CompletedAt
		}
	}

	accuracy := 0
	if totalQuestions > 0 {
		accuracy = int(math.Round(100 * float64(totalCorrect) / float64(totalQuestions)))
	}

	// Hours to one decimal place.
	hours := math.Round(float64(totalMs)/3600000*10) / 10

	return model.LifetimeStats{
		TotalQuestions:  totalQuestions,
		TotalCorrect:    totalCorrect,
		TotalHours:      hours,
		AverageAccuracy: accuracy,
		FirstSessionAt:  first,
	}
}

// AppendSession prepends entry to history (most-recent-first) and
// recomputes lifetime stats from the updated log. The returned pair is the
// atomic unit of change: callers commit both or neither.
func AppendSession(history []model.HistoricalSession, entry model.HistoricalSession, now time.Time) ([]model.HistoricalSession, model.LifetimeStats) {
	updated := make([]model.HistoricalSession, 0, len(history)+1)
	updated = append(updated, entry)
	updated = append(updated, history...)
	return updated, RecomputeLifetimeStats(updated, now)
}

// SortOrder controls breakdown row ordering.
type SortOrder string

const (
	SortWeakestFirst   SortOrder = "WEAKEST_FIRST"
	SortStrongestFirst SortOrder = "STRONGEST_FIRST"
	SortAlphabetical   SortOrder = "ALPHABETICAL"
)

// BreakdownRow is one group in an on-demand performance breakdown.
type BreakdownRow struct {
	Label    string `json:"label"`
	Total    int    `json:"total"`
	Correct  int    `json:"correct"`
	Accuracy int    `json:"accuracy"`
}

// GroupBy selects the question attribute a breakdown groups on.
type GroupBy string

const (
	GroupBySpecialty  GroupBy = "SPECIALTY"
	GroupByExamType   GroupBy = "EXAM_TYPE"
	GroupByComplexity GroupBy = "COMPLEXITY"
	GroupByTag        GroupBy = "TAG"
)

// Breakdown computes a per-group accuracy breakdown from the history log
// joined against the question library. Sessions without per-question
// detail contribute nothing. Questions missing from the library are
// skipped. Tag grouping counts a question once per tag.
func Breakdown(history []model.HistoricalSession, library map[uuid.UUID]model.Question, groupBy GroupBy, order SortOrder) []BreakdownRow {
	type bucket struct {
		total   int
		correct int
	}
	buckets := make(map[string]*bucket)

	tally := func(label string, correct bool) {
		if label == "" {
			return
		}
		b, ok := buckets[label]
		if !ok {
			b = &bucket{}
			buckets[label] = b
		}
		b.total++
		if correct {
			b.correct++
		}
	}

	for _, h := range history {
		for _, d := range h.Details {
			q, ok := library[d.QuestionID]
			if !ok {
				continue
			}
			switch groupBy {
			case GroupBySpecialty:
				tally(q.Specialty, d.Correct)
			case GroupByExamType:
				tally(q.ExamType, d.Correct)
			case GroupByComplexity:
				tally(string(q.Complexity), d.Correct)
			case GroupByTag:
				for _, tag := range q.Tags {
					tally(tag, d.Correct)
				}
			}
		}
	}

	rows := make([]BreakdownRow, 0, len(buckets))
	for label, b := range buckets {
		rows = append(rows, BreakdownRow{
			Label:    label,
			Total:    b.total,
			Correct:  b.correct,
			Accuracy: int(math.Round(100 * float64(b.correct) / float64(b.total))),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		switch order {
		case SortWeakestFirst:
			if rows[i].Accuracy != rows[j].Accuracy {
				return rows[i].Accuracy < rows[j].Accuracy
			}
		case SortStrongestFirst:
			if rows[i].Accuracy != rows[j].Accuracy {
				return rows[i].Accuracy > rows[j].Accuracy
			}
		}
		return rows[i].Label < rows[j].Label
	})

	return rows
}
