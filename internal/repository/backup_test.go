package repository

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/mederva/boardprep-backend/internal/model"
)

func TestParseBackup(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantMissing []string
		wantErr     bool
	}{
		{
			name: "minimal valid",
			raw:  `{"history": [], "bookmarks": [], "question_library": {}}`,
		},
		{
			name:        "missing bookmarks",
			raw:         `{"history": [], "question_library": {}}`,
			wantMissing: []string{"bookmarks"},
			wantErr:     true,
		},
		{
			name:        "bookmarks wrong shape",
			raw:         `{"history": [], "bookmarks": {}, "question_library": {}}`,
			wantMissing: []string{"bookmarks"},
			wantErr:     true,
		},
		{
			name:        "everything missing",
			raw:         `{}`,
			wantMissing: []string{"history", "bookmarks", "question_library"},
			wantErr:     true,
		},
		{
			name:    "not an object",
			raw:     `[1,2,3]`,
			wantErr: true,
		},
		{
			name:    "not json",
			raw:     `hello`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backup, err := ParseBackup([]byte(tt.raw))
			if tt.wantErr {
				validationErr, ok := err.(*ImportValidationError)
				if !ok {
					t.Fatalf("err = %v, want *ImportValidationError", err)
				}
				if len(tt.wantMissing) > 0 {
					if len(validationErr.Missing) != len(tt.wantMissing) {
						t.Fatalf("missing = %v, want %v", validationErr.Missing, tt.wantMissing)
					}
					for i, name := range tt.wantMissing {
						if validationErr.Missing[i] != name {
							t.Errorf("missing[%d] = %s, want %s", i, validationErr.Missing[i], name)
						}
					}
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseBackup: %v", err)
			}
			if backup.Library == nil || backup.SRSStates == nil || backup.MasteryCards == nil {
				t.Error("maps must be allocated on a valid parse")
			}
		})
	}
}

func sessionBackupJSON(t *testing.T, mutate func(*model.QuizSession)) []byte {
	t.Helper()
	session := &model.QuizSession{
		ID: uuid.New(),
		Questions: []model.Question{
			{
				ID:           uuid.New(),
				Vignette:     "A 60-year-old presents with acute dyspnea.",
				Options:      []string{"A", "B", "C"},
				CorrectIndex: 1,
			},
		},
		Answers: map[int]int{},
		Graded:  map[int]bool{},
	}
	mutate(session)

	backup := model.Backup{
		History:       []model.HistoricalSession{},
		Bookmarks:     []uuid.UUID{},
		Library:       map[uuid.UUID]model.Question{},
		ActiveSession: session,
	}
	raw, err := json.Marshal(backup)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return raw
}

func TestParseBackupRejectsInconsistentSession(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.QuizSession)
		valid  bool
	}{
		{
			name:   "position in range",
			mutate: func(s *model.QuizSession) {},
			valid:  true,
		},
		{
			name:   "position past question list",
			mutate: func(s *model.QuizSession) { s.Position = 3 },
		},
		{
			name:   "negative position",
			mutate: func(s *model.QuizSession) { s.Position = -1 },
		},
		{
			name:   "no questions at all",
			mutate: func(s *model.QuizSession) { s.Questions = nil },
		},
		{
			name:   "answer at phantom position",
			mutate: func(s *model.QuizSession) { s.Answers[5] = 0 },
		},
		{
			name:   "answer outside option range",
			mutate: func(s *model.QuizSession) { s.Answers[0] = 7 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := sessionBackupJSON(t, tt.mutate)
			backup, err := ParseBackup(raw)
			if tt.valid {
				if err != nil {
					t.Fatalf("ParseBackup: %v", err)
				}
				if backup.ActiveSession == nil {
					t.Fatal("valid session was dropped")
				}
				return
			}
			if _, ok := err.(*ImportValidationError); !ok {
				t.Fatalf("err = %v, want *ImportValidationError", err)
			}
		})
	}
}
