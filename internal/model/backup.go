package model

import (
	"github.com/google/uuid"
)

// Backup is the full JSON export of every tracked collection. The same
// shape is accepted back by import.
type Backup struct {
	ExportedAt    int64                       `json:"exported_at"`
	History       []HistoricalSession         `json:"history"`
	Bookmarks     []uuid.UUID                 `json:"bookmarks"`
	MasteryCards  map[uuid.UUID][]MasteryCard `json:"mastery_cards"`
	SRSStates     map[uuid.UUID]SRSState      `json:"srs_states"`
	Library       map[uuid.UUID]Question      `json:"question_library"`
	StudyPlan     *StudyPlan                  `json:"study_plan,omitempty"`
	LifetimeStats *LifetimeStats              `json:"lifetime_stats,omitempty"`
	ActiveSession *QuizSession                `json:"active_session,omitempty"`
}
