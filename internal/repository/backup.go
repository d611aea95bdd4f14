package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mederva/boardprep-backend/internal/config"
	"github.com/mederva/boardprep-backend/internal/model"
)

// ImportValidationError reports why an uploaded backup was rejected.
// Nothing is written to the store when one is returned.
type ImportValidationError struct {
	Missing []string
	Reason  string
}

func (e *ImportValidationError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("backup missing required field(s): %s", strings.Join(e.Missing, ", "))
	}
	return fmt.Sprintf("backup rejected: %s", e.Reason)
}

// Required sequence fields. A backup without these is either truncated
// or from something that is not this application.
var requiredBackupArrays = []string{"history", "bookmarks"}

// ParseBackup validates a raw export payload and decodes it. Presence
// checks run against the raw JSON so absent fields are distinguished
// from empty ones, then the whole document is decoded in one pass.
func ParseBackup(raw []byte) (*model.Backup, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, &ImportValidationError{Reason: "payload is not a JSON object"}
	}

	var missing []string
	for _, name := range requiredBackupArrays {
		val, ok := fields[name]
		if !ok || !isJSONArray(val) {
			missing = append(missing, name)
		}
	}
	if _, ok := fields[config.StoreKey.QuestionLibrary]; !ok {
		missing = append(missing, config.StoreKey.QuestionLibrary)
	}
	if len(missing) > 0 {
		return nil, &ImportValidationError{Missing: missing}
	}

	var backup model.Backup
	if err := json.Unmarshal(raw, &backup); err != nil {
		return nil, &ImportValidationError{Reason: err.Error()}
	}

	if backup.ActiveSession != nil {
		if err := validateSession(backup.ActiveSession); err != nil {
			return nil, err
		}
	}

	if backup.MasteryCards == nil {
		backup.MasteryCards = make(map[uuid.UUID][]model.MasteryCard)
	}
	if backup.SRSStates == nil {
		backup.SRSStates = make(map[uuid.UUID]model.SRSState)
	}
	if backup.Library == nil {
		backup.Library = make(map[uuid.UUID]model.Question)
	}

	return &backup, nil
}

// validateSession checks that an embedded live session is internally
// consistent before the session layer adopts it. Position and every
// recorded answer must point at a real question and option; anything
// else would index past the question list on the next interaction.
func validateSession(s *model.QuizSession) error {
	if len(s.Questions) == 0 {
		return &ImportValidationError{Reason: "active_session has no questions"}
	}
	if s.Position < 0 || s.Position >= len(s.Questions) {
		return &ImportValidationError{
			Reason: fmt.Sprintf("active_session position %d out of range for %d questions", s.Position, len(s.Questions)),
		}
	}
	for pos, idx := range s.Answers {
		if pos < 0 || pos >= len(s.Questions) {
			return &ImportValidationError{
				Reason: fmt.Sprintf("active_session answer at position %d has no question", pos),
			}
		}
		if idx < 0 || idx >= len(s.Questions[pos].Options) {
			return &ImportValidationError{
				Reason: fmt.Sprintf("active_session answer %d at position %d out of option range", idx, pos),
			}
		}
	}
	return nil
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}
