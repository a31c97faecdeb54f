package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumenlms/lumen-backend/internal/quiz"
	"github.com/lumenlms/lumen-backend/internal/response"
	"github.com/lumenlms/lumen-backend/internal/service"
)

// failFromError maps engine errors to HTTP status and error code. Unknown
// errors become 500s without leaking their message.
func failFromError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDuplicateIdentity):
		response.Fail(c, http.StatusConflict, response.ErrDuplicateIdentity)
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
	case errors.Is(err, service.ErrForbidden):
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
	case errors.Is(err, service.ErrInvalidImport):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrInvalidImport)
	case errors.Is(err, service.ErrUnknownContent), errors.Is(err, service.ErrAccountNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, quiz.ErrInvalidQuiz):
		response.Fail(c, http.StatusUnprocessableEntity, response.ErrInvalidQuiz)
	case errors.Is(err, quiz.ErrInvalidInput):
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidInput)
	case errors.Is(err, quiz.ErrAttemptActive):
		response.Fail(c, http.StatusConflict, response.ErrAttemptActive)
	case errors.Is(err, quiz.ErrNoAttempt):
		response.Fail(c, http.StatusNotFound, response.ErrNoAttempt)
	case errors.Is(err, quiz.ErrNotInProgress):
		response.Fail(c, http.StatusConflict, response.ErrNotInProgress)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
