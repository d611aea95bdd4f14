package service

import "errors"

var (
	ErrNoActiveSession   = errors.New("no active session")
	ErrSessionActive     = errors.New("a session is already in progress")
	ErrEmptyCriteria     = errors.New("at least one specialty or topic is required")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrItemNotFound      = errors.New("review item not found")
	ErrNoAnswer          = errors.New("current question has no recorded answer")
	ErrInvalidOption     = errors.New("selected option is out of range")
	ErrNoPlan            = errors.New("no study plan has been generated")
	ErrNoMissedQuestions = errors.New("no missed questions to build a guide from")
)
