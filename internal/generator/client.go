package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/mederva/boardprep-backend/internal/config"
	"github.com/mederva/boardprep-backend/internal/model"
)

// Client is the content-generation surface the rest of the backend
// consumes. Every call is wrapped in retry/backoff for retryable provider
// failures; see errors.go for the error kinds that escape.
type Client interface {
	GenerateQuestions(ctx context.Context, filter model.QuizFilter, count int) ([]model.Question, error)
	GenerateSimilarQuestions(ctx context.Context, source model.Question, examTypes []string, complexity model.Complexity, count int, focus string) ([]model.Question, error)
	GenerateMasteryCards(ctx context.Context, q model.Question) ([]model.MasteryCard, error)
	GenerateNarrative(ctx context.Context, q model.Question) (string, error)
	GenerateSessionSummary(ctx context.Context, questions []model.Question) (string, error)
	GenerateStudyGuide(ctx context.Context, questions []model.Question) (string, error)
	GenerateStudyPlan(ctx context.Context, performanceSummary, examDate string, dailyHours float64, targetExam string) (*model.StudyPlan, error)
}

// Provider is the low-level single-shot prompt seam. Implementations must
// return errors already classified into the generator error kinds.
type Provider interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

type client struct {
	provider    Provider
	log         zerolog.Logger
	maxAttempts int
}

// New wraps a Provider with retry/backoff and response parsing.
func New(provider Provider, maxAttempts int, log zerolog.Logger) Client {
	return &client{
		provider:    provider,
		log:         log.With().Str("component", "generator").Logger(),
		maxAttempts: maxAttempts,
	}
}

// NewGemini builds the production client backed by the Gemini API.
func NewGemini(ctx context.Context, cfg *config.Config, log zerolog.Logger) (Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.GeminiAPIKey})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return New(&geminiProvider{client: gc, model: cfg.GeminiModel}, cfg.GeneratorMaxAttempts, log), nil
}

// ─── Provider (Gemini) ─────────────────────────────────────────────

type geminiProvider struct {
	client *genai.Client
	model  string
}

func (p *geminiProvider) Generate(ctx context.Context, system, user string) (string, error) {
	prompt := system + "\n\n" + user

	result, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), nil)
	if err != nil {
		return "", classify(err)
	}

	raw := result.Text()
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%w: model returned no text", ErrGeneration)
	}
	return raw, nil
}

// classify maps a raw provider error onto the generator error kinds.
// Unrecognized failures count as transient: they sit at the RPC layer and
// are worth one more try.
func classify(err error) error {
	code := 0
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		code = apiErr.Code
	}

	msg := strings.ToLower(err.Error())
	switch {
	case code == 429 || strings.Contains(msg, "resource_exhausted") || strings.Contains(msg, "quota"):
		return fmt.Errorf("%w: %v", ErrRateLimit, err)
	case code == 403 || code == 401 || strings.Contains(msg, "permission_denied") || strings.Contains(msg, "api key"):
		return fmt.Errorf("%w: %v", ErrPermission, err)
	default:
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
}

// ─── Question generation ───────────────────────────────────────────

// questionPayload mirrors the JSON shape the prompts demand.
type questionPayload struct {
	Vignette     string            `json:"vignette"`
	Options      []string          `json:"options"`
	CorrectIndex int               `json:"correct_index"`
	Explanation  model.Explanation `json:"explanation"`
	Specialty    string            `json:"specialty"`
	ExamType     string            `json:"exam_type"`
	Complexity   model.Complexity  `json:"complexity"`
	Tags         []string          `json:"tags"`
}

func (c *client) GenerateQuestions(ctx context.Context, filter model.QuizFilter, count int) ([]model.Question, error) {
	user := buildQuestionPrompt(filter, count)
	return c.questionCall(ctx, "generate_questions", user, filter)
}

func (c *client) GenerateSimilarQuestions(ctx context.Context, source model.Question, examTypes []string, complexity model.Complexity, count int, focus string) ([]model.Question, error) {
	user := buildSimilarPrompt(source, examTypes, complexity, count, focus)
	fallback := model.QuizFilter{
		Specialties: []string{source.Specialty},
		ExamTypes:   examTypes,
		Complexity:  complexity,
	}
	return c.questionCall(ctx, "generate_similar_questions", user, fallback)
}

func (c *client) questionCall(ctx context.Context, op, user string, fallback model.QuizFilter) ([]model.Question, error) {
	raw, err := c.generate(ctx, op, questionSystemPrompt, user)
	if err != nil {
		return nil, err
	}

	var payload []questionPayload
	if err := json.Unmarshal([]byte(stripFences(raw)), &payload); err != nil {
		return nil, fmt.Errorf("%w: decode questions: %v", ErrGeneration, err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: zero questions returned", ErrGeneration)
	}

	questions := make([]model.Question, 0, len(payload))
	for i, p := range payload {
		if p.Vignette == "" || len(p.Options) < 2 {
			return nil, fmt.Errorf("%w: question %d missing vignette or options", ErrGeneration, i)
		}
		if p.CorrectIndex < 0 || p.CorrectIndex >= len(p.Options) {
			return nil, fmt.Errorf("%w: question %d correct_index %d out of range", ErrGeneration, i, p.CorrectIndex)
		}

		q := model.Question{
			ID:           uuid.New(),
			Vignette:     p.Vignette,
			Options:      p.Options,
			CorrectIndex: p.CorrectIndex,
			Explanation:  p.Explanation,
			Specialty:    p.Specialty,
			ExamType:     p.ExamType,
			Complexity:   p.Complexity,
			Tags:         p.Tags,
		}
		// The model occasionally omits classification fields; fall back to
		// the filter that produced the set.
		if q.Specialty == "" && len(fallback.Specialties) > 0 {
			q.Specialty = fallback.Specialties[0]
		}
		if q.ExamType == "" && len(fallback.ExamTypes) > 0 {
			q.ExamType = fallback.ExamTypes[0]
		}
		if q.Complexity == "" {
			q.Complexity = fallback.Complexity
		}
		questions = append(questions, q)
	}

	return questions, nil
}

// ─── Mastery cards ─────────────────────────────────────────────────

type cardPayload struct {
	Category model.CardCategory `json:"category"`
	Front    string             `json:"front"`
	Back     string             `json:"back"`
}

func (c *client) GenerateMasteryCards(ctx context.Context, q model.Question) ([]model.MasteryCard, error) {
	raw, err := c.generate(ctx, "generate_mastery_cards", cardSystemPrompt, buildCardPrompt(q))
	if err != nil {
		return nil, err
	}

	var payload []cardPayload
	if err := json.Unmarshal([]byte(stripFences(raw)), &payload); err != nil {
		return nil, fmt.Errorf("%w: decode cards: %v", ErrGeneration, err)
	}

	// Exactly four cards, one per fixed category.
	byCategory := make(map[model.CardCategory]cardPayload, len(payload))
	for _, p := range payload {
		byCategory[p.Category] = p
	}

	cards := make([]model.MasteryCard, 0, len(model.CardCategories))
	for _, cat := range model.CardCategories {
		p, ok := byCategory[cat]
		if !ok || p.Front == "" || p.Back == "" {
			return nil, fmt.Errorf("%w: missing or empty %s card", ErrGeneration, cat)
		}
		cards = append(cards, model.MasteryCard{
			ID:         uuid.New(),
			QuestionID: q.ID,
			Category:   cat,
			Front:      p.Front,
			Back:       p.Back,
		})
	}

	return cards, nil
}

// ─── Text documents ────────────────────────────────────────────────

func (c *client) GenerateNarrative(ctx context.Context, q model.Question) (string, error) {
	return c.textCall(ctx, "generate_narrative", buildNarrativePrompt(q))
}

func (c *client) GenerateSessionSummary(ctx context.Context, questions []model.Question) (string, error) {
	return c.textCall(ctx, "generate_session_summary", buildSummaryPrompt(questions))
}

func (c *client) GenerateStudyGuide(ctx context.Context, questions []model.Question) (string, error) {
	return c.textCall(ctx, "generate_study_guide", buildGuidePrompt(questions))
}

func (c *client) textCall(ctx context.Context, op, user string) (string, error) {
	raw, err := c.generate(ctx, op, "You are a concise medical educator. Respond with plain text only.", user)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(stripFences(raw))
	if text == "" {
		return "", fmt.Errorf("%w: empty document", ErrGeneration)
	}
	return text, nil
}

// ─── Study plan ────────────────────────────────────────────────────

func (c *client) GenerateStudyPlan(ctx context.Context, performanceSummary, examDate string, dailyHours float64, targetExam string) (*model.StudyPlan, error) {
	raw, err := c.generate(ctx, "generate_study_plan", planSystemPrompt, buildPlanPrompt(performanceSummary, examDate, dailyHours, targetExam))
	if err != nil {
		return nil, err
	}

	var weeks map[string]model.WeekPlan
	if err := json.Unmarshal([]byte(stripFences(raw)), &weeks); err != nil {
		return nil, fmt.Errorf("%w: decode study plan: %v", ErrGeneration, err)
	}
	if len(weeks) == 0 {
		return nil, fmt.Errorf("%w: empty study plan", ErrGeneration)
	}

	return &model.StudyPlan{
		TargetExam: targetExam,
		ExamDate:   examDate,
		DailyHours: dailyHours,
		Weeks:      weeks,
	}, nil
}

// ─── Internals ─────────────────────────────────────────────────────

func (c *client) generate(ctx context.Context, op, system, user string) (string, error) {
	var raw string
	err := withRetry(ctx, c.log, op, c.maxAttempts, func() error {
		var callErr error
		raw, callErr = c.provider.Generate(ctx, system, user)
		return callErr
	})
	if err != nil {
		return "", err
	}
	return raw, nil
}

// stripFences removes a surrounding markdown code fence, which the model
// emits despite being told not to.
func stripFences(raw string) string {
	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimSuffix(clean, "```")
	return strings.Trim(clean, "`")
}
