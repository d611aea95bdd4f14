package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mederva/boardprep-backend/internal/analytics"
	"github.com/mederva/boardprep-backend/internal/response"
	"github.com/mederva/boardprep-backend/internal/service"
)

// StatsHandler handles history and performance analytics endpoints.
type StatsHandler struct {
	store *service.StudyStore
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(store *service.StudyStore) *StatsHandler {
	return &StatsHandler{store: store}
}

// GetHistory godoc
// GET /api/v1/history
// Returns completed sessions, most recent first.
func (h *StatsHandler) GetHistory(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"history": h.store.History()})
}

// GetStats godoc
// GET /api/v1/stats
// Returns the lifetime totals.
func (h *StatsHandler) GetStats(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"stats": h.store.Stats()})
}

// GetBreakdown godoc
// GET /api/v1/stats/breakdown?group_by=SPECIALTY&order=WEAKEST_FIRST
// Returns per-group accuracy rows across the whole history.
func (h *StatsHandler) GetBreakdown(c *gin.Context) {
	groupBy := analytics.GroupBy(c.DefaultQuery("group_by", string(analytics.GroupBySpecialty)))
	order := analytics.SortOrder(c.DefaultQuery("order", string(analytics.SortWeakestFirst)))

	switch groupBy {
	case analytics.GroupBySpecialty, analytics.GroupByExamType, analytics.GroupByComplexity, analytics.GroupByTag:
	default:
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}
	switch order {
	case analytics.SortWeakestFirst, analytics.SortStrongestFirst, analytics.SortAlphabetical:
	default:
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"rows": h.store.Breakdown(groupBy, order)})
}
