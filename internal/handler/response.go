package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"billiard/internal/engine"
	"billiard/internal/repository"
)

// timeFormat is RFC 3339 with sub-second precision, trailing zeros trimmed.
const timeFormat = "2006-01-02T15:04:05.999999999Z07:00"

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps engine/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, engine.ErrNotFound),
		errors.Is(err, engine.ErrOrderNotFound):
		return http.StatusNotFound

	case errors.Is(err, engine.ErrInvalidInput):
		return http.StatusBadRequest

	case errors.Is(err, engine.ErrAlreadyClosed),
		errors.Is(err, engine.ErrSessionClosed),
		errors.Is(err, repository.ErrConflict):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}
