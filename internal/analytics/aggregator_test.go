package analytics

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mederva/boardprep-backend/internal/model"
)

var statsNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func entry(completed time.Time, total, correct int, elapsedMs int64) model.HistoricalSession {
	return model.HistoricalSession{
		ID:             uuid.New(),
		CompletedAt:    completed,
		TotalQuestions: total,
		CorrectAnswers: correct,
		ElapsedMs:      elapsedMs,
	}
}

func TestRecomputeLifetimeStatsEmptyHistory(t *testing.T) {
	got := RecomputeLifetimeStats(nil, statsNow)

	if got.TotalQuestions != 0 || got.TotalCorrect != 0 || got.TotalHours != 0 || got.AverageAccuracy != 0 {
		t.Errorf("empty history must zero all counts, got %+v", got)
	}
	if !got.FirstSessionAt.Equal(statsNow) {
		t.Errorf("FirstSessionAt = %s, want now (%s)", got.FirstSessionAt, statsNow)
	}
}

func TestRecomputeLifetimeStats(t *testing.T) {
	earliest := statsNow.Add(-72 * time.Hour)
	// Reverse-chronological storage, but the earliest entry is deliberately
	// placed mid-list: recompute must scan, not assume order.
	history := []model.HistoricalSession{
		entry(statsNow, 20, 15, 30*60*1000),
		entry(earliest, 10, 4, 45*60*1000),
		entry(statsNow.Add(-24*time.Hour), 10, 8, 15*60*1000),
	}

	got := RecomputeLifetimeStats(history, statsNow)

	if got.TotalQuestions != 40 {
		t.Errorf("TotalQuestions = %d, want 40", got.TotalQuestions)
	}
	if got.TotalCorrect != 27 {
		t.Errorf("TotalCorrect = %d, want 27", got.TotalCorrect)
	}
	// 90 minutes = 1.5 hours.
	if got.TotalHours != 1.5 {
		t.Errorf("TotalHours = %v, want 1.5", got.TotalHours)
	}
	// 27/40 = 67.5% → 68.
	if got.AverageAccuracy != 68 {
		t.Errorf("AverageAccuracy = %d, want 68", got.AverageAccuracy)
	}
	if !got.FirstSessionAt.Equal(earliest) {
		t.Errorf("FirstSessionAt = %s, want %s", got.FirstSessionAt, earliest)
	}
}

func TestRecomputeLifetimeStatsRoundsHoursToOneDecimal(t *testing.T) {
	// 100 minutes = 1.666... hours → 1.7.
	history := []model.HistoricalSession{entry(statsNow, 5, 5, 100*60*1000)}

	got := RecomputeLifetimeStats(history, statsNow)
	if got.TotalHours != 1.7 {
		t.Errorf("TotalHours = %v, want 1.7", got.TotalHours)
	}
}

func TestAppendSessionPrepends(t *testing.T) {
	a := entry(statsNow.Add(-time.Hour), 10, 7, 1000)
	b := entry(statsNow, 5, 5, 2000)

	history, _ := AppendSession(nil, a, statsNow)
	history, stats := AppendSession(history, b, statsNow)

	if len(history) != 2 {
		t.Fatalf("len(history) = %d, want 2", len(history))
	}
	if history[0].ID != b.ID {
		t.Errorf("newest entry must be first, got %s", history[0].ID)
	}
	if stats.TotalQuestions != 15 || stats.TotalCorrect != 12 {
		t.Errorf("stats = %+v, want totals 15/12", stats)
	}
}

func TestAppendSessionMatchesDirectRecompute(t *testing.T) {
	// Appending A then B must yield the same stats as recomputing from
	// [B, A] directly: aggregation is order-independent.
	a := entry(statsNow.Add(-time.Hour), 12, 9, 90000)
	b := entry(statsNow, 8, 2, 45000)

	history, _ := AppendSession(nil, a, statsNow)
	_, incremental := AppendSession(history, b, statsNow)

	direct := RecomputeLifetimeStats([]model.HistoricalSession{b, a}, statsNow)

	if incremental != direct {
		t.Errorf("incremental stats %+v != direct recompute %+v", incremental, direct)
	}
}

func TestAppendSessionDoesNotMutateInput(t *testing.T) {
	a := entry(statsNow.Add(-time.Hour), 10, 7, 1000)
	original := []model.HistoricalSession{a}

	updated, _ := AppendSession(original, entry(statsNow, 5, 5, 2000), statsNow)

	if len(original) != 1 || original[0].ID != a.ID {
		t.Errorf("input history mutated")
	}
	if len(updated) != 2 {
		t.Errorf("len(updated) = %d, want 2", len(updated))
	}
}

func TestBreakdown(t *testing.T) {
	cardio := model.Question{ID: uuid.New(), Specialty: "Cardiology", ExamType: "USMLE_STEP1", Complexity: model.ComplexityBasic, Tags: []string{"ecg", "ischemia"}}
	renal := model.Question{ID: uuid.New(), Specialty: "Nephrology", ExamType: "USMLE_STEP1", Complexity: model.ComplexityAdvanced, Tags: []string{"acid-base"}}
	pulm := model.Question{ID: uuid.New(), Specialty: "Pulmonology", ExamType: "USMLE_STEP2", Complexity: model.ComplexityBasic}

	library := map[uuid.UUID]model.Question{
		cardio.ID: cardio,
		renal.ID:  renal,
		pulm.ID:   pulm,
	}

	history := []model.HistoricalSession{
		{
			CompletedAt:    statsNow,
			TotalQuestions: 3,
			CorrectAnswers: 2,
			Details: []model.AnswerDetail{
				{QuestionID: cardio.ID, Correct: true},
				{QuestionID: renal.ID, Correct: false},
				{QuestionID: pulm.ID, Correct: true},
			},
		},
		{
			CompletedAt:    statsNow.Add(-time.Hour),
			TotalQuestions: 1,
			CorrectAnswers: 0,
			Details: []model.AnswerDetail{
				{QuestionID: cardio.ID, Correct: false},
			},
		},
	}

	t.Run("by specialty weakest first", func(t *testing.T) {
		rows := Breakdown(history, library, GroupBySpecialty, SortWeakestFirst)
		if len(rows) != 3 {
			t.Fatalf("len(rows) = %d, want 3", len(rows))
		}
		if rows[0].Label != "Nephrology" || rows[0].Accuracy != 0 {
			t.Errorf("weakest = %+v, want Nephrology at 0%%", rows[0])
		}
		if rows[2].Label != "Pulmonology" || rows[2].Accuracy != 100 {
			t.Errorf("strongest last = %+v, want Pulmonology at 100%%", rows[2])
		}
		// Cardiology: 1 of 2 correct.
		if rows[1].Label != "Cardiology" || rows[1].Total != 2 || rows[1].Correct != 1 || rows[1].Accuracy != 50 {
			t.Errorf("middle = %+v, want Cardiology 1/2 (50%%)", rows[1])
		}
	})

	t.Run("by exam type alphabetical", func(t *testing.T) {
		rows := Breakdown(history, library, GroupByExamType, SortAlphabetical)
		if len(rows) != 2 {
			t.Fatalf("len(rows) = %d, want 2", len(rows))
		}
		if rows[0].Label != "USMLE_STEP1" || rows[1].Label != "USMLE_STEP2" {
			t.Errorf("labels = %s, %s; want alphabetical", rows[0].Label, rows[1].Label)
		}
		if rows[0].Total != 3 {
			t.Errorf("USMLE_STEP1 total = %d, want 3", rows[0].Total)
		}
	})

	t.Run("by tag counts volume per tag", func(t *testing.T) {
		rows := Breakdown(history, library, GroupByTag, SortStrongestFirst)
		if len(rows) != 3 {
			t.Fatalf("len(rows) = %d, want 3 (ecg, ischemia, acid-base)", len(rows))
		}
		for _, row := range rows {
			switch row.Label {
			case "ecg", "ischemia":
				if row.Total != 2 || row.Accuracy != 50 {
					t.Errorf("%s = %+v, want 2 answers at 50%%", row.Label, row)
				}
			case "acid-base":
				if row.Total != 1 || row.Accuracy != 0 {
					t.Errorf("acid-base = %+v, want 1 answer at 0%%", row)
				}
			default:
				t.Errorf("unexpected tag %q", row.Label)
			}
		}
		if rows[len(rows)-1].Label != "acid-base" {
			t.Errorf("strongest-first must place acid-base (0%%) last, got %s", rows[len(rows)-1].Label)
		}
	})

	t.Run("unknown questions are skipped", func(t *testing.T) {
		orphan := []model.HistoricalSession{
			{Details: []model.AnswerDetail{{QuestionID: uuid.New(), Correct: true}}},
		}
		rows := Breakdown(orphan, library, GroupBySpecialty, SortAlphabetical)
		if len(rows) != 0 {
			t.Errorf("len(rows) = %d, want 0", len(rows))
		}
	})
}
