package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mederva/boardprep-backend/internal/model"
	"github.com/mederva/boardprep-backend/internal/response"
	"github.com/mederva/boardprep-backend/internal/service"
	"github.com/mederva/boardprep-backend/internal/validator"
)

// SessionHandler handles the active quiz session endpoints.
type SessionHandler struct {
	sessions *service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// GetSession godoc
// GET /api/v1/session
// Returns the current session state, idle included.
func (h *SessionHandler) GetSession(c *gin.Context) {
	response.Success(c, http.StatusOK, h.sessions.Current())
}

// StartSession godoc
// POST /api/v1/session
// Generates a question set and opens a session with it.
func (h *SessionHandler) StartSession(c *gin.Context) {
	var req model.StartSessionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session, err := h.sessions.Start(c.Request.Context(), req)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"session": session})
}

// Answer godoc
// POST /api/v1/session/answer
// Records an option choice at the current position.
func (h *SessionHandler) Answer(c *gin.Context) {
	var req model.AnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	session, err := h.sessions.Answer(c.Request.Context(), *req.SelectedIndex)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": session})
}

// Advance godoc
// POST /api/v1/session/advance
// Grades the current answer and moves forward, finalizing on the last
// question.
func (h *SessionHandler) Advance(c *gin.Context) {
	var req model.AdvanceRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	outcome, err := h.sessions.Advance(c.Request.Context(), req)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, outcome)
}

// Skip godoc
// POST /api/v1/session/skip
// Moves past the current question without answering it.
func (h *SessionHandler) Skip(c *gin.Context) {
	outcome, err := h.sessions.Skip(c.Request.Context())
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, outcome)
}

// Retreat godoc
// POST /api/v1/session/retreat
// Steps back one position.
func (h *SessionHandler) Retreat(c *gin.Context) {
	session, err := h.sessions.Retreat(c.Request.Context())
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"session": session})
}

// DiscardSession godoc
// DELETE /api/v1/session
// Abandons the active session without recording history.
func (h *SessionHandler) DiscardSession(c *gin.Context) {
	h.sessions.Discard(c.Request.Context())
	response.Success(c, http.StatusOK, h.sessions.Current())
}
