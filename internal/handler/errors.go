package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mederva/boardprep-backend/internal/generator"
	"github.com/mederva/boardprep-backend/internal/repository"
	"github.com/mederva/boardprep-backend/internal/response"
	"github.com/mederva/boardprep-backend/internal/service"
)

// failFromError maps service, generator and import errors onto the API
// error envelope. Anything unrecognized is an internal error.
func failFromError(c *gin.Context, err error) {
	var importErr *repository.ImportValidationError

	switch {
	case errors.Is(err, service.ErrNoActiveSession):
		response.Fail(c, http.StatusConflict, response.ErrNoActiveSession)
	case errors.Is(err, service.ErrSessionActive):
		response.Fail(c, http.StatusConflict, response.ErrSessionActive)
	case errors.Is(err, service.ErrEmptyCriteria), errors.Is(err, service.ErrNoMissedQuestions):
		response.Fail(c, http.StatusBadRequest, response.ErrEmptyCriteria)
	case errors.Is(err, service.ErrQuestionNotFound),
		errors.Is(err, service.ErrItemNotFound),
		errors.Is(err, service.ErrNoPlan):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNoAnswer):
		response.Fail(c, http.StatusConflict, response.ErrConflict)
	case errors.Is(err, service.ErrInvalidOption):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
	case errors.As(err, &importErr):
		response.FailWithFields(c, http.StatusBadRequest, response.ErrImportInvalid, importFields(importErr))
	case errors.Is(err, generator.ErrRateLimit):
		response.Fail(c, http.StatusTooManyRequests, response.ErrProviderRateLimit)
	case errors.Is(err, generator.ErrPermission):
		response.Fail(c, http.StatusForbidden, response.ErrProviderAuth)
	case errors.Is(err, generator.ErrGeneration), errors.Is(err, generator.ErrTransient):
		response.Fail(c, http.StatusBadGateway, response.ErrGenerationFailed)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}

func importFields(err *repository.ImportValidationError) map[string]string {
	fields := make(map[string]string, len(err.Missing))
	for _, name := range err.Missing {
		fields[name] = "required field is missing or has the wrong shape"
	}
	if len(fields) == 0 && err.Reason != "" {
		fields["payload"] = err.Reason
	}
	return fields
}
