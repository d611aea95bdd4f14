package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mederva/boardprep-backend/internal/analytics"
	"github.com/mederva/boardprep-backend/internal/generator"
	"github.com/mederva/boardprep-backend/internal/model"
)

// guideQuestionCap bounds how many missed questions feed a study guide
// when the caller does not pick them explicitly.
const guideQuestionCap = 20

// DocumentService produces the plain-text study artifacts: teaching
// narratives, session summaries, study guides and the week-by-week plan.
type DocumentService struct {
	store    *StudyStore
	sessions *SessionService
	gen      generator.Client
	log      zerolog.Logger
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(store *StudyStore, sessions *SessionService, gen generator.Client, log zerolog.Logger) *DocumentService {
	return &DocumentService{
		store:    store,
		sessions: sessions,
		gen:      gen,
		log:      log.With().Str("component", "document_service").Logger(),
	}
}

// Narrative generates a teaching narrative for a single library question.
func (s *DocumentService) Narrative(ctx context.Context, questionID uuid.UUID) (string, error) {
	question, ok := s.store.Question(questionID)
	if !ok {
		return "", ErrQuestionNotFound
	}
	body, err := s.gen.GenerateNarrative(ctx, question)
	if err != nil {
		return "", err
	}
	return renderDocument("TEACHING NARRATIVE", body), nil
}

// SessionSummary generates a recap of the active session's questions.
func (s *DocumentService) SessionSummary(ctx context.Context) (string, error) {
	view := s.sessions.Current()
	if view.Session == nil {
		return "", ErrNoActiveSession
	}
	body, err := s.gen.GenerateSessionSummary(ctx, view.Session.Questions)
	if err != nil {
		return "", err
	}
	return renderDocument("SESSION SUMMARY", body), nil
}

// StudyGuide generates a guide over an explicit question selection, or,
// when the selection is empty, over the most recently missed questions.
func (s *DocumentService) StudyGuide(ctx context.Context, questionIDs []uuid.UUID) (string, error) {
	var questions []model.Question
	if len(questionIDs) > 0 {
		for _, id := range questionIDs {
			q, ok := s.store.Question(id)
			if !ok {
				return "", ErrQuestionNotFound
			}
			questions = append(questions, q)
		}
	} else {
		questions = s.missedQuestions()
	}
	if len(questions) == 0 {
		return "", ErrNoMissedQuestions
	}

	body, err := s.gen.GenerateStudyGuide(ctx, questions)
	if err != nil {
		return "", err
	}
	return renderDocument("STUDY GUIDE", body), nil
}

// missedQuestions walks history most-recent-first and collects distinct
// incorrectly answered questions still present in the library.
func (s *DocumentService) missedQuestions() []model.Question {
	library := s.store.Library()
	seen := make(map[uuid.UUID]bool)
	var out []model.Question
	for _, session := range s.store.History() {
		for _, d := range session.Details {
			if d.Correct || d.Skipped || seen[d.QuestionID] {
				continue
			}
			seen[d.QuestionID] = true
			if q, ok := library[d.QuestionID]; ok {
				out = append(out, q)
				if len(out) >= guideQuestionCap {
					return out
				}
			}
		}
	}
	return out
}

// GeneratePlan builds a week-by-week study plan from the user's
// performance profile and stores it as the current plan.
func (s *DocumentService) GeneratePlan(ctx context.Context, req model.StudyPlanRequest) (*model.StudyPlan, error) {
	summary := s.performanceSummary()
	plan, err := s.gen.GenerateStudyPlan(ctx, summary, req.ExamDate, req.DailyHours, req.TargetExam)
	if err != nil {
		return nil, err
	}

	plan.TargetExam = req.TargetExam
	plan.ExamDate = req.ExamDate
	plan.DailyHours = req.DailyHours
	plan.GeneratedAt = time.Now()
	s.store.SetPlan(plan)

	s.log.Info().
		Str("target_exam", req.TargetExam).
		Int("weeks", len(plan.Weeks)).
		Msg("Study plan generated")
	return plan, nil
}

// performanceSummary condenses lifetime stats and the weakest specialty
// rows into the prose blob the plan prompt consumes.
func (s *DocumentService) performanceSummary() string {
	stats := s.store.Stats()
	var b strings.Builder

	if stats.TotalQuestions == 0 {
		b.WriteString("No practice history available yet.")
		return b.String()
	}

	fmt.Fprintf(&b, "Answered %d questions with %d%% average accuracy over %.1f study hours.\n",
		stats.TotalQuestions, stats.AverageAccuracy, stats.TotalHours)

	rows := s.store.Breakdown(analytics.GroupBySpecialty, analytics.SortWeakestFirst)
	if len(rows) > 0 {
		b.WriteString("Accuracy by specialty, weakest first:\n")
		for _, row := range rows {
			fmt.Fprintf(&b, "- %s: %d%% (%d/%d)\n", row.Label, row.Accuracy, row.Correct, row.Total)
		}
	}
	return b.String()
}

// renderDocument wraps generated prose in the fixed plain-text layout
// the frontend prints verbatim.
func renderDocument(title, body string) string {
	var b strings.Builder
	rule := strings.Repeat("=", 64)
	b.WriteString(rule + "\n")
	b.WriteString(title + "\n")
	b.WriteString("Generated " + time.Now().Format("2006-01-02 15:04") + "\n")
	b.WriteString(rule + "\n\n")
	b.WriteString(strings.TrimSpace(body))
	b.WriteString("\n")
	return b.String()
}
