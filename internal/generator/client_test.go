package generator

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mederva/boardprep-backend/internal/model"
)

// scriptedProvider returns canned responses/errors in order, then repeats
// the last one.
type scriptedProvider struct {
	calls   int
	outputs []string
	errs    []error
}

func (p *scriptedProvider) Generate(ctx context.Context, system, user string) (string, error) {
	i := p.calls
	if i >= len(p.errs) {
		i = len(p.errs) - 1
	}
	p.calls++
	return p.outputs[i], p.errs[i]
}

func testClient(p Provider, maxAttempts int) Client {
	return New(p, maxAttempts, zerolog.Nop())
}

const questionJSON = `[
  {
    "vignette": "A 54-year-old man presents with crushing substernal chest pain. Which finding confirms the diagnosis?",
    "options": ["ST elevation in II, III, aVF", "Diffuse ST depression", "Peaked P waves", "Shortened QT", "Delta waves"],
    "correct_index": 0,
    "explanation": {"correct": "Inferior STEMI pattern.", "incorrect": "The others do not localize.", "key_point": "II, III, aVF localize to the inferior wall."},
    "specialty": "Cardiology",
    "exam_type": "USMLE_STEP1",
    "complexity": "INTERMEDIATE",
    "tags": ["ecg"]
  }
]`

func testFilter() model.QuizFilter {
	return model.QuizFilter{
		Specialties: []string{"Cardiology"},
		ExamTypes:   []string{"USMLE_STEP1"},
		Complexity:  model.ComplexityIntermediate,
	}
}

func TestGenerateQuestionsParsesFencedJSON(t *testing.T) {
	p := &scriptedProvider{
		outputs: []string{"```json\n" + questionJSON + "\n```"},
		errs:    []error{nil},
	}

	questions, err := testClient(p, 1).GenerateQuestions(context.Background(), testFilter(), 1)
	if err != nil {
		t.Fatalf("GenerateQuestions: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("len(questions) = %d, want 1", len(questions))
	}

	q := questions[0]
	if q.ID == uuid.Nil {
		t.Error("question must be assigned an ID")
	}
	if q.CorrectIndex != 0 || len(q.Options) != 5 {
		t.Errorf("options/correct_index not parsed: %+v", q)
	}
	if q.Explanation.KeyPoint == "" {
		t.Error("explanation not parsed")
	}
	if q.Specialty != "Cardiology" || q.Complexity != model.ComplexityIntermediate {
		t.Errorf("classification not parsed: %+v", q)
	}
}

func TestGenerateQuestionsRetriesRateLimit(t *testing.T) {
	p := &scriptedProvider{
		outputs: []string{"", "", questionJSON},
		errs:    []error{fmt.Errorf("%w: 429", ErrRateLimit), fmt.Errorf("%w: 429", ErrRateLimit), nil},
	}

	questions, err := testClient(p, 4).GenerateQuestions(context.Background(), testFilter(), 1)
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("len(questions) = %d, want 1", len(questions))
	}
	if p.calls != 3 {
		t.Errorf("provider called %d times, want 3", p.calls)
	}
}

func TestGenerateQuestionsStopsAtAttemptCeiling(t *testing.T) {
	p := &scriptedProvider{
		outputs: []string{""},
		errs:    []error{fmt.Errorf("%w: 503", ErrTransient)},
	}

	_, err := testClient(p, 3).GenerateQuestions(context.Background(), testFilter(), 1)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("err = %v, want ErrTransient", err)
	}
	if p.calls != 3 {
		t.Errorf("provider called %d times, want 3 (the ceiling)", p.calls)
	}
}

func TestGenerateQuestionsNeverRetriesPermissionErrors(t *testing.T) {
	p := &scriptedProvider{
		outputs: []string{""},
		errs:    []error{fmt.Errorf("%w: 403", ErrPermission)},
	}

	_, err := testClient(p, 4).GenerateQuestions(context.Background(), testFilter(), 1)
	if !errors.Is(err, ErrPermission) {
		t.Fatalf("err = %v, want ErrPermission", err)
	}
	if p.calls != 1 {
		t.Errorf("provider called %d times, want exactly 1", p.calls)
	}
}

func TestGenerateQuestionsRejectsEmptyAndMalformedOutput(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{"empty array", `[]`},
		{"not json", `I cannot help with that.`},
		{"missing vignette", `[{"options": ["a", "b"], "correct_index": 0}]`},
		{"correct_index out of range", `[{"vignette": "v?", "options": ["a", "b"], "correct_index": 5}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &scriptedProvider{outputs: []string{tt.output}, errs: []error{nil}}

			_, err := testClient(p, 1).GenerateQuestions(context.Background(), testFilter(), 1)
			if !errors.Is(err, ErrGeneration) {
				t.Errorf("err = %v, want ErrGeneration", err)
			}
			if p.calls != 1 {
				t.Errorf("malformed output must not be retried, provider called %d times", p.calls)
			}
		})
	}
}

func TestGenerateMasteryCards(t *testing.T) {
	q := model.Question{ID: uuid.New(), Vignette: "v?", Options: []string{"a", "b"}, CorrectIndex: 0}

	full := `[
	  {"category": "MECHANISM", "front": "f1", "back": "b1"},
	  {"category": "PRESENTATION", "front": "f2", "back": "b2"},
	  {"category": "DIAGNOSTICS", "front": "f3", "back": "b3"},
	  {"category": "MANAGEMENT", "front": "f4", "back": "b4"}
	]`

	t.Run("four cards, one per category", func(t *testing.T) {
		p := &scriptedProvider{outputs: []string{full}, errs: []error{nil}}

		cards, err := testClient(p, 1).GenerateMasteryCards(context.Background(), q)
		if err != nil {
			t.Fatalf("GenerateMasteryCards: %v", err)
		}
		if len(cards) != 4 {
			t.Fatalf("len(cards) = %d, want 4", len(cards))
		}
		for i, cat := range model.CardCategories {
			if cards[i].Category != cat {
				t.Errorf("cards[%d].Category = %s, want %s", i, cards[i].Category, cat)
			}
			if cards[i].QuestionID != q.ID {
				t.Errorf("cards[%d] not linked to parent question", i)
			}
		}
	})

	t.Run("missing category is a generation error", func(t *testing.T) {
		partial := `[
		  {"category": "MECHANISM", "front": "f1", "back": "b1"},
		  {"category": "PRESENTATION", "front": "f2", "back": "b2"}
		]`
		p := &scriptedProvider{outputs: []string{partial}, errs: []error{nil}}

		_, err := testClient(p, 1).GenerateMasteryCards(context.Background(), q)
		if !errors.Is(err, ErrGeneration) {
			t.Errorf("err = %v, want ErrGeneration", err)
		}
	})
}

func TestGenerateStudyPlan(t *testing.T) {
	planJSON := `{
	  "Week 1": {"topics": ["Cardiology"], "hours": 14, "resources": ["First Aid ch. 3"], "strategy": "Drill weak areas."},
	  "Week 2": {"topics": ["Nephrology"], "hours": 10, "resources": [], "strategy": "Spaced review."}
	}`
	p := &scriptedProvider{outputs: []string{planJSON}, errs: []error{nil}}

	plan, err := testClient(p, 1).GenerateStudyPlan(context.Background(), "weak: nephrology", "2026-06-01", 2.5, "USMLE_STEP1")
	if err != nil {
		t.Fatalf("GenerateStudyPlan: %v", err)
	}
	if len(plan.Weeks) != 2 {
		t.Errorf("len(Weeks) = %d, want 2", len(plan.Weeks))
	}
	if plan.TargetExam != "USMLE_STEP1" || plan.DailyHours != 2.5 {
		t.Errorf("plan metadata not recorded: %+v", plan)
	}
	if plan.Weeks["Week 1"].Hours != 14 {
		t.Errorf("Week 1 hours = %v, want 14", plan.Weeks["Week 1"].Hours)
	}
}
