package model

import (
	"github.com/google/uuid"
)

// Complexity enumerates vignette difficulty tiers.
type Complexity string

const (
	ComplexityBasic        Complexity = "BASIC"
	ComplexityIntermediate Complexity = "INTERMEDIATE"
	ComplexityAdvanced     Complexity = "ADVANCED"
)

// Explanation is the structured rationale attached to a question.
type Explanation struct {
	Correct   string `json:"correct"`
	Incorrect string `json:"incorrect"`
	KeyPoint  string `json:"key_point"`
}

// Question is a single generated clinical vignette. Immutable once created:
// it is inserted into the question library exactly once (first write wins)
// and referenced by identifier everywhere else.
type Question struct {
	ID           uuid.UUID   `json:"id"`
	Vignette     string      `json:"vignette"`
	Options      []string    `json:"options"`
	CorrectIndex int         `json:"correct_index"`
	Explanation  Explanation `json:"explanation"`
	Specialty    string      `json:"specialty"`
	ExamType     string      `json:"exam_type"`
	Complexity   Complexity  `json:"complexity"`
	Tags         []string    `json:"tags,omitempty"`
}

// QuizFilter is the criteria a question set was generated from. It is
// recorded on the session and on every history entry.
type QuizFilter struct {
	Specialties []string   `json:"specialties"`
	ExamTypes   []string   `json:"exam_types"`
	Complexity  Complexity `json:"complexity"`
	Topics      []string   `json:"topics,omitempty"`
}

// HasSource reports whether the filter names at least one specialty or
// free-text topic. A quiz cannot be generated from an empty source.
func (f QuizFilter) HasSource() bool {
	return len(f.Specialties) > 0 || len(f.Topics) > 0
}
