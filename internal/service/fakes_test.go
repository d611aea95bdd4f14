package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mederva/boardprep-backend/internal/model"
	"github.com/mederva/boardprep-backend/internal/repository"
	"github.com/mederva/boardprep-backend/internal/store"
	"github.com/mederva/boardprep-backend/internal/websocket"
	"github.com/mederva/boardprep-backend/internal/worker"
)

// fakeGen is a scripted generator client. Each call hands back the
// configured payload, or err when set.
type fakeGen struct {
	mu sync.Mutex

	questions []model.Question
	similar   []model.Question
	cards     []model.MasteryCard
	plan      *model.StudyPlan
	text      string
	err       error

	similarCalls int
	cardCalls    int

	// blockSimilar, when non-nil, holds GenerateSimilarQuestions until
	// closed. Lets tests order the remediation goroutine deterministically.
	blockSimilar chan struct{}
}

func (g *fakeGen) GenerateQuestions(ctx context.Context, filter model.QuizFilter, count int) ([]model.Question, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	return append([]model.Question(nil), g.questions...), nil
}

func (g *fakeGen) GenerateSimilarQuestions(ctx context.Context, source model.Question, examTypes []string, complexity model.Complexity, count int, focus string) ([]model.Question, error) {
	g.mu.Lock()
	block := g.blockSimilar
	g.similarCalls++
	g.mu.Unlock()
	if block != nil {
		<-block
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	return append([]model.Question(nil), g.similar...), nil
}

func (g *fakeGen) GenerateMasteryCards(ctx context.Context, q model.Question) ([]model.MasteryCard, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cardCalls++
	if g.err != nil {
		return nil, g.err
	}
	return append([]model.MasteryCard(nil), g.cards...), nil
}

func (g *fakeGen) GenerateNarrative(ctx context.Context, q model.Question) (string, error) {
	return g.textOrErr()
}

func (g *fakeGen) GenerateSessionSummary(ctx context.Context, questions []model.Question) (string, error) {
	return g.textOrErr()
}

func (g *fakeGen) GenerateStudyGuide(ctx context.Context, questions []model.Question) (string, error) {
	return g.textOrErr()
}

func (g *fakeGen) GenerateStudyPlan(ctx context.Context, performanceSummary, examDate string, dailyHours float64, targetExam string) (*model.StudyPlan, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	return g.plan, nil
}

func (g *fakeGen) textOrErr() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	return g.text, nil
}

func (g *fakeGen) counts() (similar, cards int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.similarCalls, g.cardCalls
}

// nopMirror discards mirror traffic.
type nopMirror struct{}

func (nopMirror) Save(ctx context.Context, session *model.QuizSession) {}
func (nopMirror) Clear(ctx context.Context)                            {}

// recordingNotifier captures published events.
type recordingNotifier struct {
	mu     sync.Mutex
	events []websocket.Event
}

func (n *recordingNotifier) Publish(event websocket.Event, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) has(event websocket.Event) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, e := range n.events {
		if e == event {
			return true
		}
	}
	return false
}

func newTestStore(gen *fakeGen) *StudyStore {
	kv := store.NewMemoryKV()
	w := worker.NewPersistWorker(kv, zerolog.Nop())
	return NewStudyStore(repository.NewStudyState(), gen, w, zerolog.Nop())
}

func makeQuestion(specialty string, correctIndex int) model.Question {
	return model.Question{
		ID:           uuid.New(),
		Vignette:     "A 54-year-old presents with crushing substernal chest pain.",
		Options:      []string{"A", "B", "C", "D", "E"},
		CorrectIndex: correctIndex,
		Specialty:    specialty,
		ExamType:     "USMLE Step 2",
		Complexity:   model.ComplexityIntermediate,
	}
}
