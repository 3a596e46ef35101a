package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"memorylocker/internal/domain/auth"
	"memorylocker/internal/interfaces/httpserver/requests"
	"memorylocker/internal/interfaces/httpserver/responses"
)

// AuthHandler exposes login and logout.
type AuthHandler struct {
	gate *auth.Gate
	log  zerolog.Logger
}

func NewAuthHandler(gate *auth.Gate, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		gate: gate,
		log:  log.With().Str("component", "auth-handler").Logger(),
	}
}

// Login exchanges a role and secret for a session token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req requests.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.HandleBadRequest(c, err)
		return
	}

	session, err := h.gate.Authenticate(req.Role, req.Secret)
	if err != nil {
		responses.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      session.Token,
		"capability": string(session.Capability),
	})
}

// Logout drops the session named by the bearer token. Tokens that are
// already gone still get a 204; logout is idempotent.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := BearerToken(c)
	if token != "" {
		h.gate.Logout(token)
	}
	c.Status(http.StatusNoContent)
}

// BearerToken extracts the token from the Authorization header, if any.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
