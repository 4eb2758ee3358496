package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskhub/backend/internal/apperrors"
)

// Response is the envelope every successful endpoint returns.
type Response struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Code:    status,
		Message: message,
		Data:    data,
	})
}

// respondError maps a business error kind onto its HTTP status. Unknown
// errors become an opaque 500; storage detail never reaches the client.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		status, message = http.StatusNotFound, "user not found"
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		status, message = http.StatusBadRequest, "invalid credentials"
	case errors.Is(err, apperrors.ErrMalformedToken):
		status, message = http.StatusUnauthorized, "token is invalid or malformed"
	case errors.Is(err, apperrors.ErrExpiredToken):
		status, message = http.StatusUnauthorized, "token has expired"
	case errors.Is(err, apperrors.ErrTaskNotFound):
		status, message = http.StatusNotFound, "task not found"
	case errors.Is(err, apperrors.ErrNotTaskOwner):
		status, message = http.StatusForbidden, "you do not own this task"
	case errors.Is(err, apperrors.ErrTaskCreation):
		status, message = http.StatusBadRequest, "task could not be created"
	case errors.Is(err, apperrors.ErrEmailTaken):
		status, message = http.StatusBadRequest, "email already registered"
	default:
		slog.Error("unhandled request error", "path", c.Request.URL.Path, "error", err)
	}

	c.JSON(status, gin.H{
		"success": false,
		"code":    status,
		"message": message,
	})
}
