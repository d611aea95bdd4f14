package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mederva/boardprep-backend/internal/generator"
	"github.com/mederva/boardprep-backend/internal/model"
	"github.com/mederva/boardprep-backend/internal/websocket"
)

// sessionMirror is the live-session mirror surface the service needs.
type sessionMirror interface {
	Save(ctx context.Context, session *model.QuizSession)
	Clear(ctx context.Context)
}

// notifier pushes server events to connected clients.
type notifier interface {
	Publish(event websocket.Event, payload any)
}

// remediationCount is how many follow-up questions a missed answer
// appends to the running session.
const remediationCount = 2

// SessionService runs the single active quiz session through its
// lifecycle: idle, in progress, completed. All transitions happen under
// one mutex; generator calls always run outside it.
type SessionService struct {
	mu     sync.Mutex
	active *model.QuizSession
	status model.SessionStatus

	store  *StudyStore
	gen    generator.Client
	mirror sessionMirror
	events notifier
	log    zerolog.Logger
}

// NewSessionService creates a new SessionService in the idle state.
func NewSessionService(store *StudyStore, gen generator.Client, mirror sessionMirror, events notifier, log zerolog.Logger) *SessionService {
	return &SessionService{
		status: model.SessionStatusIdle,
		store:  store,
		gen:    gen,
		mirror: mirror,
		events: events,
		log:    log.With().Str("component", "session_service").Logger(),
	}
}

// SessionView is the externally visible snapshot of the session layer.
type SessionView struct {
	Status  model.SessionStatus `json:"status"`
	Session *model.QuizSession  `json:"session,omitempty"`
}

// AdvanceOutcome reports what an advance (or skip) did.
type AdvanceOutcome struct {
	Correct   bool                     `json:"correct"`
	Completed bool                     `json:"completed"`
	Summary   *model.HistoricalSession `json:"summary,omitempty"`
	Session   *model.QuizSession       `json:"session,omitempty"`
}

// Current returns the session state. The embedded session is a copy.
func (s *SessionService) Current() SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionView{Status: s.status, Session: s.copySessionLocked()}
}

// Start generates a fresh question set and opens a session with it.
// Only valid while no session is in progress. The generated questions
// are also merged into the library so they remain referencable after
// the session ends.
func (s *SessionService) Start(ctx context.Context, req model.StartSessionRequest) (*model.QuizSession, error) {
	filter := model.QuizFilter{
		Specialties: req.Specialties,
		ExamTypes:   req.ExamTypes,
		Complexity:  model.Complexity(req.Complexity),
		Topics:      req.Topics,
	}
	if !filter.HasSource() {
		return nil, ErrEmptyCriteria
	}

	s.mu.Lock()
	if s.active != nil {
		s.mu.Unlock()
		return nil, ErrSessionActive
	}
	s.mu.Unlock()

	questions, err := s.gen.GenerateQuestions(ctx, filter, req.Count)
	if err != nil {
		return nil, err
	}
	s.store.MergeQuestions(questions)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		return nil, ErrSessionActive
	}

	s.active = &model.QuizSession{
		ID:            uuid.New(),
		Questions:     questions,
		Answers:       make(map[int]int),
		Graded:        make(map[int]bool),
		StartedAt:     time.Now(),
		Filter:        filter,
		AutoRemediate: req.AutoRemediate,
	}
	s.status = model.SessionStatusInProgress
	s.mirror.Save(ctx, s.active)

	view := s.copySessionLocked()
	s.events.Publish(websocket.EventSessionUpdated, view)
	s.log.Info().
		Str("session_id", s.active.ID.String()).
		Int("questions", len(questions)).
		Msg("Session started")
	return view, nil
}

// Answer records an option choice for the current question. A position
// that already holds an answer keeps it; changing an answer is not
// allowed once recorded.
func (s *SessionService) Answer(ctx context.Context, selectedIndex int) (*model.QuizSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return nil, ErrNoActiveSession
	}
	question := s.active.Questions[s.active.Position]
	if selectedIndex < 0 || selectedIndex >= len(question.Options) {
		return nil, ErrInvalidOption
	}
	if _, answered := s.active.AnswerAt(s.active.Position); answered {
		return s.copySessionLocked(), nil
	}

	s.active.Answers[s.active.Position] = selectedIndex
	s.mirror.Save(ctx, s.active)
	view := s.copySessionLocked()
	s.events.Publish(websocket.EventSessionUpdated, view)
	return view, nil
}

// Advance grades the current answer and moves forward, finalizing the
// session into history when the last question was graded. A wrong answer
// on its first grading (or an explicit request) triggers background
// remediation; revisiting an already-graded position never does.
func (s *SessionService) Advance(ctx context.Context, req model.AdvanceRequest) (*AdvanceOutcome, error) {
	s.mu.Lock()

	if s.active == nil {
		s.mu.Unlock()
		return nil, ErrNoActiveSession
	}
	pos := s.active.Position
	selected, answered := s.active.AnswerAt(pos)
	if !answered {
		s.mu.Unlock()
		return nil, ErrNoAnswer
	}

	question := s.active.Questions[pos]
	correct := selected == question.CorrectIndex
	firstEval := !s.active.Graded[pos]
	s.active.Graded[pos] = true

	last := pos == len(s.active.Questions)-1
	remediate := !last && (req.ForceRemediate || (!correct && firstEval && s.active.AutoRemediate))
	sessionID := s.active.ID
	filter := s.active.Filter

	if last {
		outcome := s.finalizeLocked(ctx, correct)
		s.mu.Unlock()
		return outcome, nil
	}

	s.active.Position++
	s.mirror.Save(ctx, s.active)
	view := s.copySessionLocked()
	s.mu.Unlock()

	s.events.Publish(websocket.EventSessionUpdated, view)
	if remediate {
		go s.remediate(sessionID, question, filter, req.FocusText)
	}
	return &AdvanceOutcome{Correct: correct, Session: view}, nil
}

// Skip marks the current question skipped and moves on without grading.
// Skipped questions count as incorrect in the final record.
func (s *SessionService) Skip(ctx context.Context) (*AdvanceOutcome, error) {
	s.mu.Lock()

	if s.active == nil {
		s.mu.Unlock()
		return nil, ErrNoActiveSession
	}
	pos := s.active.Position
	if _, answered := s.active.AnswerAt(pos); !answered {
		s.active.SkippedIDs = append(s.active.SkippedIDs, s.active.Questions[pos].ID)
	}

	if pos == len(s.active.Questions)-1 {
		outcome := s.finalizeLocked(ctx, false)
		s.mu.Unlock()
		return outcome, nil
	}

	s.active.Position++
	s.mirror.Save(ctx, s.active)
	view := s.copySessionLocked()
	s.mu.Unlock()

	s.events.Publish(websocket.EventSessionUpdated, view)
	return &AdvanceOutcome{Session: view}, nil
}

// Retreat steps back one position. The answer recorded there, if any,
// is presented again; its grading state is untouched.
func (s *SessionService) Retreat(ctx context.Context) (*model.QuizSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return nil, ErrNoActiveSession
	}
	if s.active.Position > 0 {
		s.active.Position--
		s.mirror.Save(ctx, s.active)
	}
	view := s.copySessionLocked()
	s.events.Publish(websocket.EventSessionUpdated, view)
	return view, nil
}

// Discard abandons the active session without recording history.
func (s *SessionService) Discard(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == nil {
		return
	}
	s.log.Info().Str("session_id", s.active.ID.String()).Msg("Session discarded")
	s.active = nil
	s.status = model.SessionStatusIdle
	s.mirror.Clear(ctx)
	s.events.Publish(websocket.EventSessionUpdated, SessionView{Status: s.status})
}

// Adopt replaces the session layer's state with a restored or imported
// session. A nil session resets to idle.
func (s *SessionService) Adopt(ctx context.Context, session *model.QuizSession) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.active = session
	if session == nil {
		s.status = model.SessionStatusIdle
		s.mirror.Clear(ctx)
		return
	}
	if session.Answers == nil {
		session.Answers = make(map[int]int)
	}
	if session.Graded == nil {
		session.Graded = make(map[int]bool)
	}
	s.status = model.SessionStatusInProgress
	s.mirror.Save(ctx, session)
	s.log.Info().Str("session_id", session.ID.String()).Msg("Session restored")
}

// finalizeLocked closes the session into an immutable history record.
// Caller holds the mutex. lastCorrect is the grading result of the final
// position, included so the outcome reflects it.
func (s *SessionService) finalizeLocked(ctx context.Context, lastCorrect bool) *AdvanceOutcome {
	session := s.active
	details := make([]model.AnswerDetail, 0, len(session.Questions))
	correctCount := 0
	for pos, q := range session.Questions {
		selected, answered := session.AnswerAt(pos)
		if !answered {
			details = append(details, model.AnswerDetail{
				QuestionID:    q.ID,
				SelectedIndex: -1,
				Skipped:       true,
			})
			continue
		}
		isCorrect := selected == q.CorrectIndex
		if isCorrect {
			correctCount++
		}
		details = append(details, model.AnswerDetail{
			QuestionID:    q.ID,
			SelectedIndex: selected,
			Correct:       isCorrect,
		})
	}

	now := time.Now()
	entry := model.HistoricalSession{
		ID:             session.ID,
		CompletedAt:    now,
		TotalQuestions: len(session.Questions),
		CorrectAnswers: correctCount,
		ElapsedMs:      now.Sub(session.StartedAt).Milliseconds(),
		Filter:         session.Filter,
		Details:        details,
	}

	s.active = nil
	s.status = model.SessionStatusCompleted
	s.mirror.Clear(ctx)
	s.store.RecordSession(entry)

	s.log.Info().
		Str("session_id", entry.ID.String()).
		Int("correct", correctCount).
		Int("total", entry.TotalQuestions).
		Msg("Session completed")
	s.events.Publish(websocket.EventSessionCompleted, entry)
	return &AdvanceOutcome{Correct: lastCorrect, Completed: true, Summary: &entry}
}

// remediate generates follow-up questions for a missed vignette and
// appends them to the session that requested them. Runs detached; if the
// session ended or was replaced in the meantime the result is dropped
// silently. Failures only log, they never surface to the client.
func (s *SessionService) remediate(sessionID uuid.UUID, source model.Question, filter model.QuizFilter, focus string) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	questions, err := s.gen.GenerateSimilarQuestions(ctx, source, filter.ExamTypes, filter.Complexity, remediationCount, focus)
	if err != nil {
		s.log.Warn().Err(err).
			Str("session_id", sessionID.String()).
			Msg("Remediation generation failed")
		return
	}

	s.mu.Lock()
	if s.active == nil || s.active.ID != sessionID {
		s.mu.Unlock()
		s.log.Debug().
			Str("session_id", sessionID.String()).
			Msg("Remediation result dropped, session is gone")
		return
	}
	s.active.Questions = append(s.active.Questions, questions...)
	s.mirror.Save(ctx, s.active)
	view := s.copySessionLocked()
	s.mu.Unlock()

	s.store.MergeQuestions(questions)
	s.events.Publish(websocket.EventRemediationAppended, view)
	s.log.Info().
		Str("session_id", sessionID.String()).
		Int("appended", len(questions)).
		Msg("Remediation questions appended")
}

// copySessionLocked deep-copies the active session so callers can read it
// without holding the mutex. Caller holds the mutex.
func (s *SessionService) copySessionLocked() *model.QuizSession {
	if s.active == nil {
		return nil
	}
	cp := *s.active
	cp.Questions = append([]model.Question(nil), s.active.Questions...)
	cp.SkippedIDs = append([]uuid.UUID(nil), s.active.SkippedIDs...)
	cp.Answers = make(map[int]int, len(s.active.Answers))
	for k, v := range s.active.Answers {
		cp.Answers[k] = v
	}
	cp.Graded = make(map[int]bool, len(s.active.Graded))
	for k, v := range s.active.Graded {
		cp.Graded[k] = v
	}
	return &cp
}
