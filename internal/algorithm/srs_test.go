package algorithm

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mederva/boardprep-backend/internal/model"
)

var testNow = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func state(interval int, ease float64, reps int) model.SRSState {
	return model.SRSState{
		ItemID:       uuid.New(),
		IntervalDays: interval,
		Ease:         ease,
		Repetitions:  reps,
	}
}

func TestNewStateDefaults(t *testing.T) {
	id := uuid.New()
	s := NewState(id, testNow)

	if s.ItemID != id {
		t.Errorf("ItemID = %s, want %s", s.ItemID, id)
	}
	if s.IntervalDays != 0 {
		t.Errorf("IntervalDays = %d, want 0", s.IntervalDays)
	}
	if s.Ease != DefaultEase {
		t.Errorf("Ease = %v, want %v", s.Ease, DefaultEase)
	}
	if s.Repetitions != 0 {
		t.Errorf("Repetitions = %d, want 0", s.Repetitions)
	}
	if s.NextReviewAt != testNow.UnixMilli() {
		t.Errorf("NextReviewAt = %d, want %d (due immediately)", s.NextReviewAt, testNow.UnixMilli())
	}
}

func TestReviewAgain(t *testing.T) {
	tests := []struct {
		name     string
		in       model.SRSState
		wantEase float64
	}{
		{"fresh item", state(0, DefaultEase, 0), 2.1},
		{"mature item", state(30, 2.5, 7), 2.3},
		{"ease at floor stays at floor", state(14, 1.3, 3), 1.3},
		{"ease just above floor clamps", state(14, 1.4, 3), 1.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Review(tt.in, model.RatingAgain, testNow)

			if got.Repetitions != 0 {
				t.Errorf("Repetitions = %d, want 0", got.Repetitions)
			}
			if got.IntervalDays != 0 {
				t.Errorf("IntervalDays = %d, want 0", got.IntervalDays)
			}
			if math.Abs(got.Ease-tt.wantEase) > 1e-9 {
				t.Errorf("Ease = %v, want %v", got.Ease, tt.wantEase)
			}
			if got.NextReviewAt != testNow.UnixMilli() {
				t.Errorf("NextReviewAt = %d, want now (%d)", got.NextReviewAt, testNow.UnixMilli())
			}
		})
	}
}

func TestReviewGraduationSteps(t *testing.T) {
	// First successful review always yields 1 day, second always 6,
	// regardless of rating.
	for _, rating := range []model.Rating{model.RatingHard, model.RatingGood, model.RatingEasy} {
		t.Run(string(rating), func(t *testing.T) {
			first := Review(state(0, DefaultEase, 0), rating, testNow)
			if first.IntervalDays != 1 {
				t.Errorf("first interval = %d, want 1", first.IntervalDays)
			}
			if first.Repetitions != 1 {
				t.Errorf("first repetitions = %d, want 1", first.Repetitions)
			}

			second := Review(state(1, DefaultEase, 1), rating, testNow)
			if second.IntervalDays != 6 {
				t.Errorf("second interval = %d, want 6", second.IntervalDays)
			}
			if second.Repetitions != 2 {
				t.Errorf("second repetitions = %d, want 2", second.Repetitions)
			}
		})
	}
}

func TestReviewMatureIntervals(t *testing.T) {
	tests := []struct {
		name         string
		in           model.SRSState
		rating       model.Rating
		wantInterval int
		wantEase     float64
	}{
		{"hard multiplies by 1.2", state(10, 2.3, 2), model.RatingHard, 12, 2.15},
		{"hard rounds up", state(7, 2.3, 4), model.RatingHard, 9, 2.15}, // 8.4 → 9
		{"hard ease floors at 1.3", state(10, 1.35, 2), model.RatingHard, 12, 1.3},
		{"good multiplies by ease", state(10, 2.3, 2), model.RatingGood, 23, 2.3},
		{"good rounds up", state(6, 2.3, 2), model.RatingGood, 14, 2.3}, // 13.8 → 14
		{"easy multiplies by 1.5x ease", state(10, 2.0, 2), model.RatingEasy, 30, 2.15},
		{"easy rounds up", state(7, 2.3, 2), model.RatingEasy, 25, 2.45}, // 24.15 → 25
		{"easy ease is uncapped", state(10, 3.5, 5), model.RatingEasy, 53, 3.65}, // 52.5 → 53
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Review(tt.in, tt.rating, testNow)

			if got.IntervalDays != tt.wantInterval {
				t.Errorf("IntervalDays = %d, want %d", got.IntervalDays, tt.wantInterval)
			}
			if math.Abs(got.Ease-tt.wantEase) > 1e-9 {
				t.Errorf("Ease = %v, want %v", got.Ease, tt.wantEase)
			}
			if got.Repetitions != tt.in.Repetitions+1 {
				t.Errorf("Repetitions = %d, want %d", got.Repetitions, tt.in.Repetitions+1)
			}

			wantDue := testNow.AddDate(0, 0, tt.wantInterval).UnixMilli()
			if got.NextReviewAt != wantDue {
				t.Errorf("NextReviewAt = %d, want %d", got.NextReviewAt, wantDue)
			}
		})
	}
}

func TestEaseFloorHoldsUnderAnySequence(t *testing.T) {
	// Grind an item through a long mixed sequence heavy on failures; ease
	// must never dip below the floor.
	ratings := []model.Rating{
		model.RatingAgain, model.RatingHard, model.RatingAgain, model.RatingAgain,
		model.RatingHard, model.RatingHard, model.RatingGood, model.RatingAgain,
		model.RatingHard, model.RatingAgain, model.RatingHard, model.RatingAgain,
	}

	s := NewState(uuid.New(), testNow)
	now := testNow
	for i, r := range ratings {
		s = Review(s, r, now)
		if s.Ease < MinEase {
			t.Fatalf("after rating %d (%s): ease %v dropped below %v", i, r, s.Ease, MinEase)
		}
		if s.IntervalDays < 0 {
			t.Fatalf("after rating %d (%s): negative interval %d", i, r, s.IntervalDays)
		}
		now = now.AddDate(0, 0, s.IntervalDays)
	}
}

func TestReviewDoesNotMutateInput(t *testing.T) {
	in := state(10, 2.3, 2)
	before := in
	_ = Review(in, model.RatingEasy, testNow)

	if in != before {
		t.Errorf("input state mutated: %+v != %+v", in, before)
	}
}
