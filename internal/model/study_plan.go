package model

import "time"

// WeekPlan describes one week of a generated study plan.
type WeekPlan struct {
	Topics    []string `json:"topics"`
	Hours     float64  `json:"hours"`
	Resources []string `json:"resources"`
	Strategy  string   `json:"strategy"`
}

// StudyPlan maps a week label ("Week 1", ...) to its descriptor. The plan
// is generated wholesale from a performance summary and stored as a single
// overwritable blob.
type StudyPlan struct {
	TargetExam  string              `json:"target_exam"`
	ExamDate    string              `json:"exam_date"`
	DailyHours  float64             `json:"daily_hours"`
	GeneratedAt time.Time           `json:"generated_at"`
	Weeks       map[string]WeekPlan `json:"weeks"`
}

// StudyPlanRequest is the payload for generating a study plan.
type StudyPlanRequest struct {
	ExamDate   string  `json:"exam_date" binding:"required"`
	DailyHours float64 `json:"daily_hours" binding:"required,gt=0,max=16"`
	TargetExam string  `json:"target_exam" binding:"required,min=1,max=100"`
}
