package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"memorylocker/internal/domain/auth"
	"memorylocker/internal/infrastructure/metrics"
	"memorylocker/internal/interfaces/httpserver/handlers"
	"memorylocker/internal/interfaces/httpserver/responses"
)

const sessionKey = "locker.session"

// RequireSession admits any live session, author or reader.
func RequireSession(gate *auth.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := gate.Lookup(handlers.BearerToken(c))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorResponse{Error: "authentication required"})
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

// RequireAuthor admits only author sessions. Readers get a 403, anonymous
// callers a 401.
func RequireAuthor(gate *auth.Gate) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := gate.Lookup(handlers.BearerToken(c))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, responses.ErrorResponse{Error: "authentication required"})
			return
		}
		if session.Capability != auth.CapabilityAuthor {
			c.AbortWithStatusJSON(http.StatusForbidden, responses.ErrorResponse{Error: "author access required"})
			return
		}
		c.Set(sessionKey, session)
		c.Next()
	}
}

// MetricsMiddleware records request counts and latency per route.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		metrics.RequestsTotal.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		metrics.RequestDuration.WithLabelValues(c.Request.Method, endpoint).
			Observe(time.Since(start).Seconds())
	}
}
