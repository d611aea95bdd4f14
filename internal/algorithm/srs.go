package algorithm

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/mederva/boardprep-backend/internal/model"
)

// Default schedule values for a never-reviewed item.
const (
	DefaultEase = 2.3
	MinEase     = 1.3
)

// NewState returns the default schedule for an item that has never been
// reviewed: due immediately, interval 0, ease 2.3.
func NewState(itemID uuid.UUID, now time.Time) model.SRSState {
	return model.SRSState{
		ItemID:       itemID,
		NextReviewAt: now.UnixMilli(),
		IntervalDays: 0,
		Ease:         DefaultEase,
		Repetitions:  0,
	}
}

// Review maps (current schedule, rating) to the next schedule. Pure: the
// input state is not mutated.
//
// "Again" is a lapse: repetitions and interval reset to zero, ease drops
// by 0.2 (floored at 1.3) and the item is due immediately. Any other
// rating graduates the item through the 1-day then 6-day steps, after
// which the interval multiplies by 1.2 (hard), the current ease (good) or
// 1.5x ease (easy), rounded up to whole days. Hard also drops ease by
// 0.15 (floored at 1.3); easy raises it by 0.15, uncapped.
func Review(s model.SRSState, rating model.Rating, now time.Time) model.SRSState {
	next := s

	if rating == model.RatingAgain {
		next.Repetitions = 0
		next.IntervalDays = 0
		next.Ease = floorEase(s.Ease - 0.2)
		next.NextReviewAt = now.UnixMilli()
		return next
	}

	switch {
	case s.Repetitions == 0:
		next.IntervalDays = 1
	case s.Repetitions == 1:
		next.IntervalDays = 6
	default:
		var factor float64
		switch rating {
		case model.RatingHard:
			factor = 1.2
		case model.RatingEasy:
			factor = 1.5 * s.Ease
		default: // good
			factor = s.Ease
		}
		next.IntervalDays = int(math.Ceil(float64(s.IntervalDays) * factor))
	}

	next.Repetitions = s.Repetitions + 1

	switch rating {
	case model.RatingHard:
		next.Ease = floorEase(s.Ease - 0.15)
	case model.RatingEasy:
		next.Ease = s.Ease + 0.15
	}

	next.NextReviewAt = now.AddDate(0, 0, next.IntervalDays).UnixMilli()
	return next
}

func floorEase(e float64) float64 {
	if e < MinEase {
		return MinEase
	}
	return e
}
