// Package httperr maps domain errors onto HTTP responses so every handler
// answers consistently.
package httperr

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"memberflow_backend/internal/shared/apperrors"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the JSON envelope for plain acknowledgements.
type MessageResponse struct {
	Message string `json:"message"`
}

// Write answers the request with the status matching the error kind:
// 400 for invalid input, 404 for missing entities, 409 for duplicates,
// 500 otherwise.
func Write(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidArgument), errors.Is(err, apperrors.ErrInvalidData):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrEntityNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrDuplicateEntity):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		slog.Error("request failed", "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
