package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mederva/boardprep-backend/internal/model"
	"github.com/mederva/boardprep-backend/internal/response"
	"github.com/mederva/boardprep-backend/internal/service"
	"github.com/mederva/boardprep-backend/internal/validator"
)

// ReviewHandler handles bookmarks, mastery cards and the spaced review
// queue.
type ReviewHandler struct {
	store *service.StudyStore
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(store *service.StudyStore) *ReviewHandler {
	return &ReviewHandler{store: store}
}

// GetQuestion godoc
// GET /api/v1/questions/:id
func (h *ReviewHandler) GetQuestion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	question, ok := h.store.Question(id)
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"question": question})
}

// ListBookmarks godoc
// GET /api/v1/bookmarks
func (h *ReviewHandler) ListBookmarks(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"bookmarks": h.store.Bookmarks()})
}

// AddBookmark godoc
// POST /api/v1/bookmarks
// Marks a library question for spaced review.
func (h *ReviewHandler) AddBookmark(c *gin.Context) {
	var req model.BookmarkRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	id := uuid.MustParse(req.QuestionID)
	if err := h.store.AddBookmark(id, time.Now()); err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"bookmarks": h.store.Bookmarks()})
}

// RemoveBookmark godoc
// DELETE /api/v1/bookmarks/:id
func (h *ReviewHandler) RemoveBookmark(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	h.store.RemoveBookmark(id)
	response.Success(c, http.StatusOK, gin.H{"bookmarks": h.store.Bookmarks()})
}

// GetCards godoc
// GET /api/v1/questions/:id/cards
func (h *ReviewHandler) GetCards(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cards": h.store.CardsFor(id)})
}

// SynthesizeCards godoc
// POST /api/v1/questions/:id/cards
// Generates the four-category mastery card set for a question. Idempotent;
// an existing set is returned without regenerating.
func (h *ReviewHandler) SynthesizeCards(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	cards, err := h.store.SynthesizeMasteryCards(c.Request.Context(), id)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"cards": cards})
}

// GetDueItems godoc
// GET /api/v1/review/due
// Lists every reviewable item whose next review time has passed.
func (h *ReviewHandler) GetDueItems(c *gin.Context) {
	items := h.store.DueItems(time.Now())
	if items == nil {
		items = []model.ReviewItem{}
	}
	response.Success(c, http.StatusOK, gin.H{"items": items})
}

// RateItem godoc
// POST /api/v1/review/rate
// Applies a recall rating to a due item's schedule.
func (h *ReviewHandler) RateItem(c *gin.Context) {
	var req model.RateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	state, err := h.store.Rate(uuid.MustParse(req.ItemID), req.Rating, time.Now())
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"state": state})
}
