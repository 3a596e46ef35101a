package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"memorylocker/internal/domain/auth"
	"memorylocker/internal/domain/journal"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HandleError maps domain errors onto HTTP statuses. Unknown errors come
// back as 500 with a generic message so internals never leak to clients.
func HandleError(c *gin.Context, err error) {
	var verr *journal.ValidationError
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: verr.Error()})
	case errors.Is(err, journal.ErrRecordNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, journal.ErrNoMemories):
		c.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

// HandleBadRequest reports a malformed request body or parameter.
func HandleBadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}
