package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mederva/boardprep-backend/internal/response"
	"github.com/mederva/boardprep-backend/internal/service"
)

// importBodyLimit caps an uploaded backup at 32 MiB.
const importBodyLimit = 32 << 20

// BackupHandler handles full-state export and import.
type BackupHandler struct {
	store    *service.StudyStore
	sessions *service.SessionService
}

// NewBackupHandler creates a new BackupHandler.
func NewBackupHandler(store *service.StudyStore, sessions *service.SessionService) *BackupHandler {
	return &BackupHandler{store: store, sessions: sessions}
}

// Export godoc
// GET /api/v1/backup
// Snapshots every collection, the live session included, into one JSON
// document.
func (h *BackupHandler) Export(c *gin.Context) {
	view := h.sessions.Current()
	backup := h.store.Export(view.Session)
	c.Header("Content-Disposition", `attachment; filename="boardprep-backup.json"`)
	c.JSON(http.StatusOK, backup)
}

// Import godoc
// POST /api/v1/backup
// Replaces every collection with an uploaded backup. All-or-nothing: a
// payload that fails validation leaves the store untouched.
func (h *BackupHandler) Import(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, importBodyLimit))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	restored, err := h.store.Import(raw)
	if err != nil {
		failFromError(c, err)
		return
	}
	h.sessions.Adopt(c.Request.Context(), restored)

	response.Success(c, http.StatusOK, gin.H{
		"stats":   h.store.Stats(),
		"session": h.sessions.Current(),
	})
}
