package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mederva/boardprep-backend/internal/model"
	"github.com/mederva/boardprep-backend/internal/response"
	"github.com/mederva/boardprep-backend/internal/service"
	"github.com/mederva/boardprep-backend/internal/validator"
)

// DocumentHandler handles generated study artifacts: narratives,
// summaries, guides and the study plan.
type DocumentHandler struct {
	documents *service.DocumentService
	store     *service.StudyStore
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documents *service.DocumentService, store *service.StudyStore) *DocumentHandler {
	return &DocumentHandler{documents: documents, store: store}
}

// studyGuideRequest selects the questions a guide is built from. An
// empty list falls back to recently missed questions.
type studyGuideRequest struct {
	QuestionIDs []string `json:"question_ids" binding:"omitempty,dive,uuid"`
}

// GenerateNarrative godoc
// POST /api/v1/questions/:id/narrative
func (h *DocumentHandler) GenerateNarrative(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	document, err := h.documents.Narrative(c.Request.Context(), id)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"document": document})
}

// GenerateSummary godoc
// POST /api/v1/documents/summary
// Recaps the active session's questions.
func (h *DocumentHandler) GenerateSummary(c *gin.Context) {
	document, err := h.documents.SessionSummary(c.Request.Context())
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"document": document})
}

// GenerateGuide godoc
// POST /api/v1/documents/guide
func (h *DocumentHandler) GenerateGuide(c *gin.Context) {
	var req studyGuideRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	ids := make([]uuid.UUID, 0, len(req.QuestionIDs))
	for _, raw := range req.QuestionIDs {
		ids = append(ids, uuid.MustParse(raw))
	}

	document, err := h.documents.StudyGuide(c.Request.Context(), ids)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"document": document})
}

// GetPlan godoc
// GET /api/v1/plan
func (h *DocumentHandler) GetPlan(c *gin.Context) {
	plan, err := h.store.Plan()
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"plan": plan})
}

// GeneratePlan godoc
// POST /api/v1/plan
// Builds a week-by-week plan from the user's performance profile.
func (h *DocumentHandler) GeneratePlan(c *gin.Context) {
	var req model.StudyPlanRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	plan, err := h.documents.GeneratePlan(c.Request.Context(), req)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"plan": plan})
}
