package model

import (
	"github.com/google/uuid"
)

// Rating is the user's assessment of recall quality for a due item.
type Rating string

const (
	RatingAgain Rating = "AGAIN"
	RatingHard  Rating = "HARD"
	RatingGood  Rating = "GOOD"
	RatingEasy  Rating = "EASY"
)

// IsValid reports whether r is a recognized rating.
func (r Rating) IsValid() bool {
	switch r {
	case RatingAgain, RatingHard, RatingGood, RatingEasy:
		return true
	}
	return false
}

// SRSState is the spaced-repetition schedule for one reviewable item,
// keyed by that item's identifier. NextReviewAt is unix milliseconds.
type SRSState struct {
	ItemID       uuid.UUID `json:"item_id"`
	NextReviewAt int64     `json:"next_review_at"`
	IntervalDays int       `json:"interval_days"`
	Ease         float64   `json:"ease"`
	Repetitions  int       `json:"repetitions"`
}

// ReviewItemKind discriminates the two reviewable shapes.
type ReviewItemKind string

const (
	ReviewItemVignette ReviewItemKind = "VIGNETTE"
	ReviewItemCard     ReviewItemKind = "CARD"
)

// ReviewItem is a due reviewable entity: either a bookmarked vignette or a
// mastery card, tagged by Kind. Exactly one of Question/Card is set.
type ReviewItem struct {
	Kind     ReviewItemKind `json:"kind"`
	Question *Question      `json:"question,omitempty"`
	Card     *MasteryCard   `json:"card,omitempty"`
	State    SRSState       `json:"state"`
}

// RateRequest applies a rating to a reviewable item.
type RateRequest struct {
	ItemID string `json:"item_id" binding:"required,uuid"`
	Rating Rating `json:"rating" binding:"required,oneof=AGAIN HARD GOOD EASY"`
}

// BookmarkRequest marks a library question for spaced review.
type BookmarkRequest struct {
	QuestionID string `json:"question_id" binding:"required,uuid"`
}
