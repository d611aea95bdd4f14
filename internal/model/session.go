package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus enumerates quiz session states.
type SessionStatus string

const (
	SessionStatusIdle       SessionStatus = "IDLE"
	SessionStatusInProgress SessionStatus = "IN_PROGRESS"
	SessionStatusCompleted  SessionStatus = "COMPLETED"
)

// QuizSession is the single active quiz. At most one exists at a time.
// It embeds full question copies so a restored session survives
// independently of later library mutations. Answers is a sparse map of
// position → selected option index. Graded marks positions whose recorded
// answer has already been evaluated by an advance, so revisiting a
// question never re-triggers remediation.
type QuizSession struct {
	ID            uuid.UUID    `json:"id"`
	Questions     []Question   `json:"questions"`
	Position      int          `json:"position"`
	Answers       map[int]int  `json:"answers"`
	Graded        map[int]bool `json:"graded"`
	StartedAt     time.Time    `json:"started_at"`
	Filter        QuizFilter   `json:"filter"`
	SkippedIDs    []uuid.UUID  `json:"skipped_ids,omitempty"`
	AutoRemediate bool         `json:"auto_remediate"`
}

// AnswerAt returns the recorded answer at pos, if any.
func (s *QuizSession) AnswerAt(pos int) (int, bool) {
	idx, ok := s.Answers[pos]
	return idx, ok
}

// StartSessionRequest is the payload for starting a quiz session.
// At least one specialty or free-text topic is required; the service
// enforces that cross-field rule.
type StartSessionRequest struct {
	Specialties   []string `json:"specialties"`
	Topics        []string `json:"topics"`
	ExamTypes     []string `json:"exam_types" binding:"required,min=1,dive,min=1"`
	Complexity    string   `json:"complexity" binding:"required,oneof=BASIC INTERMEDIATE ADVANCED"`
	Count         int      `json:"count" binding:"required,min=1,max=40"`
	AutoRemediate bool     `json:"auto_remediate"`
}

// AnswerRequest records an option choice at the current position.
// SelectedIndex is a pointer so index 0 passes required validation.
type AnswerRequest struct {
	SelectedIndex *int `json:"selected_index" binding:"required,min=0"`
}

// AdvanceRequest moves the session forward one position.
type AdvanceRequest struct {
	FocusText      string `json:"focus_text" binding:"max=500"`
	ForceRemediate bool   `json:"force_remediate"`
}
