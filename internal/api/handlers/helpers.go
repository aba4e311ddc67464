package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"qa-service/internal/services"
	"qa-service/pkg/response"
)

// respondError maps service errors onto HTTP statuses. Anything unknown is a
// 500 with a generic message; internals never leak to the client.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrQuestionNotFound),
		errors.Is(err, services.ErrAnswerNotFound),
		errors.Is(err, services.ErrNotificationNotFound),
		errors.Is(err, services.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, err.Error())

	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrAccountBanned):
		response.Error(c, http.StatusForbidden, err.Error())

	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		response.Error(c, http.StatusUnauthorized, err.Error())

	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrUsernameTaken):
		response.Error(c, http.StatusConflict, err.Error())

	case errors.Is(err, services.ErrInvalidUsername),
		errors.Is(err, services.ErrInvalidTag),
		errors.Is(err, services.ErrFileTooLarge),
		errors.Is(err, services.ErrUnsupportedFileType):
		response.Error(c, http.StatusBadRequest, err.Error())

	case errors.Is(err, services.ErrStorageUnavailable):
		response.Error(c, http.StatusServiceUnavailable, err.Error())

	default:
		slog.Error("Unhandled request error", "path", c.FullPath(), "error", err)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

// paramID parses a positive numeric path parameter. Writes the 400 itself
// and reports ok=false when the value is unusable.
func paramID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, "Invalid "+name+" parameter")
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
