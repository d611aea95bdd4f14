package model

import (
	"time"

	"github.com/google/uuid"
)

// AnswerDetail is the per-question correctness record attached to a
// completed session.
type AnswerDetail struct {
	QuestionID    uuid.UUID `json:"question_id"`
	SelectedIndex int       `json:"selected_index"`
	Correct       bool      `json:"correct"`
	Skipped       bool      `json:"skipped,omitempty"`
}

// HistoricalSession is an immutable record of a completed quiz. The
// history log is append-only, stored most-recent-first.
type HistoricalSession struct {
	ID             uuid.UUID      `json:"id"`
	CompletedAt    time.Time      `json:"completed_at"`
	TotalQuestions int            `json:"total_questions"`
	CorrectAnswers int            `json:"correct_answers"`
	ElapsedMs      int64          `json:"elapsed_ms"`
	Filter         QuizFilter     `json:"filter"`
	Details        []AnswerDetail `json:"details,omitempty"`
}

// LifetimeStats is a derived singleton recomputed from the full history
// whenever history changes.
type LifetimeStats struct {
	TotalQuestions  int       `json:"total_questions"`
	TotalCorrect    int       `json:"total_correct"`
	TotalHours      float64   `json:"total_hours"`
	AverageAccuracy int       `json:"average_accuracy"`
	FirstSessionAt  time.Time `json:"first_session_at"`
}
