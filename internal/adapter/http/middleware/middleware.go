package middleware

import (
	"net/http"
	"strings"
	"time"

	"sui-transfer-gateway/internal/core/domain"
	"sui-transfer-gateway/internal/core/ports"
	"sui-transfer-gateway/pkg/apperror"
	"sui-transfer-gateway/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	HeaderRequestID = "X-Request-ID"

	// Context keys
	CtxSession      = "session"
	CtxSessionToken = "session_token"
)

// RequestID propagates the caller's X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader(HeaderRequestID); id != "" && len(id) <= 64 {
			c.Set(response.CtxRequestID, id)
		}
		c.Header(HeaderRequestID, response.RequestID(c))
		c.Next()
	}
}

// SessionResolver reads the bearer token, if any, and stores the
// resolved domain.SessionState. It never rejects a request: handlers
// decide what a disconnected session means for them.
func SessionResolver(sessions ports.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		c.Set(CtxSessionToken, token)
		c.Set(CtxSession, sessions.Resolve(c.Request.Context(), token))
		c.Next()
	}
}

// RequireSession rejects requests without a connected wallet.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !Session(c).Connected {
			response.Error(c, apperror.ErrNotConnected())
			c.Abort()
			return
		}
		c.Next()
	}
}

// Session returns the resolved session, or the disconnected state.
func Session(c *gin.Context) domain.SessionState {
	if v, ok := c.Get(CtxSession); ok {
		if s, ok := v.(domain.SessionState); ok {
			return s
		}
	}
	return domain.Disconnected()
}

// BearerToken extracts the token of an "Authorization: Bearer" header.
func BearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if len(h) < 8 || !strings.EqualFold(h[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// MaxBodySize limits the request body. Reads past maxBytes fail and the
// binding error is reported by the handler.
func MaxBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		session := Session(c)
		if session.Connected {
			event = event.Str("account", session.Account.String())
		}

		event.
			Str("request_id", response.RequestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Interface("panic", r).
					Str("path", c.Request.URL.Path).
					Str("request_id", response.RequestID(c)).
					Msg("panic recovered")
				response.Error(c, apperror.InternalError(nil))
				c.Abort()
			}
		}()
		c.Next()
	}
}
