package model

import (
	"github.com/google/uuid"
)

// CardCategory enumerates the four fixed mastery-card kinds synthesized
// from a dissected question.
type CardCategory string

const (
	CardCategoryMechanism    CardCategory = "MECHANISM"
	CardCategoryPresentation CardCategory = "PRESENTATION"
	CardCategoryDiagnostics  CardCategory = "DIAGNOSTICS"
	CardCategoryManagement   CardCategory = "MANAGEMENT"
)

// CardCategories lists all categories in synthesis order. A dissection
// produces exactly one card per category.
var CardCategories = []CardCategory{
	CardCategoryMechanism,
	CardCategoryPresentation,
	CardCategoryDiagnostics,
	CardCategoryManagement,
}

// MasteryCard is a flash card distilled from a parent question.
// Immutable after creation.
type MasteryCard struct {
	ID         uuid.UUID    `json:"id"`
	QuestionID uuid.UUID    `json:"question_id"`
	Category   CardCategory `json:"category"`
	Front      string       `json:"front"`
	Back       string       `json:"back"`
}
