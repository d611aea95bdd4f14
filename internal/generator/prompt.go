package generator

import (
	"fmt"
	"strings"

	"github.com/mederva/boardprep-backend/internal/model"
)

const questionSystemPrompt = `You are a medical board-exam item writer producing USMLE-style clinical vignettes.

Rules:
1. Each vignette presents a realistic clinical scenario (history, vitals, exam findings, labs where relevant).
2. Each question has exactly 5 answer options and a single best answer.
3. Distractors must be plausible: same length and register as the correct option, never obviously wrong.
4. Never reveal the answer inside the vignette.
5. Output pure, valid JSON only — no prose, no markdown outside the JSON.

Expected JSON format:

[
  {
    "vignette": "<full clinical case stem ending in a question>",
    "options": ["...", "...", "...", "...", "..."],
    "correct_index": 0,
    "explanation": {
      "correct": "<why the correct option is right>",
      "incorrect": "<why the tempting distractors are wrong>",
      "key_point": "<the single high-yield takeaway>"
    },
    "specialty": "<specialty>",
    "exam_type": "<exam type>",
    "complexity": "<BASIC | INTERMEDIATE | ADVANCED>",
    "tags": ["<topic tag>", "..."]
  }
]`

const cardSystemPrompt = `You are a medical educator distilling a clinical vignette into exactly four flash cards, one per category:
MECHANISM (pathophysiology), PRESENTATION (clinical findings), DIAGNOSTICS (workup), MANAGEMENT (treatment).

Output pure, valid JSON only:

[
  {"category": "MECHANISM", "front": "<prompt>", "back": "<answer>"},
  {"category": "PRESENTATION", "front": "<prompt>", "back": "<answer>"},
  {"category": "DIAGNOSTICS", "front": "<prompt>", "back": "<answer>"},
  {"category": "MANAGEMENT", "front": "<prompt>", "back": "<answer>"}
]`

const planSystemPrompt = `You are a study coach building a week-by-week board-exam preparation plan from a student's performance summary.

Output pure, valid JSON only, mapping week labels to descriptors:

{
  "Week 1": {
    "topics": ["<topic>", "..."],
    "hours": 14,
    "resources": ["<resource>", "..."],
    "strategy": "<one-paragraph strategy for the week>"
  }
}

Prioritize the student's weakest areas early and schedule spaced review of them in later weeks.`

func buildQuestionPrompt(filter model.QuizFilter, count int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate %d multiple-choice clinical vignettes.\n", count)
	if len(filter.Specialties) > 0 {
		fmt.Fprintf(&b, "Specialties: %s.\n", strings.Join(filter.Specialties, ", "))
	}
	if len(filter.Topics) > 0 {
		fmt.Fprintf(&b, "Focus on these topics: %s.\n", strings.Join(filter.Topics, ", "))
	}
	fmt.Fprintf(&b, "Target exam types: %s.\n", strings.Join(filter.ExamTypes, ", "))
	fmt.Fprintf(&b, "Complexity: %s.\n", filter.Complexity)
	b.WriteString("Follow the JSON format from the system prompt exactly.")

	return b.String()
}

func buildSimilarPrompt(source model.Question, examTypes []string, complexity model.Complexity, count int, focus string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "The student missed a question whose key learning point was: %q.\n", source.Explanation.KeyPoint)
	fmt.Fprintf(&b, "Original vignette for context:\n%s\n\n", source.Vignette)
	fmt.Fprintf(&b, "Generate %d NEW vignettes testing the same concept from different angles. Do not reuse the original scenario.\n", count)
	if focus != "" {
		fmt.Fprintf(&b, "The student asked to focus on: %s.\n", focus)
	}
	fmt.Fprintf(&b, "Target exam types: %s. Complexity: %s.\n", strings.Join(examTypes, ", "), complexity)
	b.WriteString("Follow the JSON format from the system prompt exactly.")

	return b.String()
}

func buildCardPrompt(q model.Question) string {
	return fmt.Sprintf(
		"Vignette:\n%s\n\nCorrect answer: %s\n\nKey learning point: %s\n\nProduce the four flash cards.",
		q.Vignette, optionAt(q, q.CorrectIndex), q.Explanation.KeyPoint,
	)
}

func buildNarrativePrompt(q model.Question) string {
	return fmt.Sprintf(
		"Rewrite the following vignette and its explanation as a short narrative teaching text a student would read after missing the question. Plain text, no JSON, no markdown headings.\n\nVignette:\n%s\n\nWhy correct: %s\nWhy the distractors fail: %s\nKey point: %s",
		q.Vignette, q.Explanation.Correct, q.Explanation.Incorrect, q.Explanation.KeyPoint,
	)
}

func buildSummaryPrompt(questions []model.Question) string {
	var b strings.Builder
	b.WriteString("Summarize the concepts covered by this quiz session as plain text a student can review in five minutes. Group related concepts; lead with the highest-yield points.\n\n")
	writeKeyPoints(&b, questions)
	return b.String()
}

func buildGuidePrompt(questions []model.Question) string {
	var b strings.Builder
	b.WriteString("Write a focused plain-text study guide covering the concepts below. For each concept: a short explanation, the classic presentation, and one memory anchor.\n\n")
	writeKeyPoints(&b, questions)
	return b.String()
}

func buildPlanPrompt(performanceSummary, examDate string, dailyHours float64, targetExam string) string {
	return fmt.Sprintf(
		"Performance summary:\n%s\n\nTarget exam: %s\nExam date: %s\nAvailable study time: %.1f hours per day.\n\nBuild the week-by-week plan in the JSON format from the system prompt.",
		performanceSummary, targetExam, examDate, dailyHours,
	)
}

func writeKeyPoints(b *strings.Builder, questions []model.Question) {
	for i, q := range questions {
		fmt.Fprintf(b, "%d. [%s] %s\n", i+1, q.Specialty, q.Explanation.KeyPoint)
	}
}

func optionAt(q model.Question, i int) string {
	if i < 0 || i >= len(q.Options) {
		return ""
	}
	return q.Options[i]
}
