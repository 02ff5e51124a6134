package server

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/studentstats/auth"
	apperrors "github.com/kbukum/studentstats/errors"
	"github.com/kbukum/studentstats/logger"
)

// HeaderRequestID carries the request ID in both directions.
const HeaderRequestID = "X-Request-Id"

// Recovery turns a panic into a 500 response and logs the stack.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.WithContext(c.Request.Context()).Error("Panic recovered", map[string]interface{}{
					"error":  fmt.Sprintf("%v", err),
					"stack":  string(debug.Stack()),
					"path":   c.Request.URL.Path,
					"method": c.Request.Method,
				})
				RespondWithError(c, apperrors.Internal(fmt.Errorf("panic: %v", err)))
			}
		}()
		c.Next()
	}
}

// RequestID reuses the caller's X-Request-Id or generates one, and stores it
// in the request context for logging.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("request_id", id)
		c.Header(HeaderRequestID, id)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// RequestLogger logs every request except health checks, at a level picked
// from the response status.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := logger.DurationFields(c.Request.Method+" "+c.FullPath(), time.Since(start))
		fields["path"] = c.Request.URL.Path
		fields[logger.FieldStatus] = status

		l := log.WithContext(c.Request.Context())
		switch {
		case status >= 500:
			l.Error("Request completed", fields)
		case status >= 400:
			l.Warn("Request completed", fields)
		default:
			l.Debug("Request completed", fields)
		}
	}
}

// Auth requires a valid bearer token on every path except those starting
// with one of skipPaths.
func Auth(validate func(token string) (any, error), skipPaths ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, skip := range skipPaths {
			if strings.HasPrefix(c.Request.URL.Path, skip) {
				c.Next()
				return
			}
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			RespondWithError(c, apperrors.Unauthorized("Authorization header required"))
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			RespondWithError(c, apperrors.Unauthorized("Invalid authorization header format"))
			return
		}

		claims, err := validate(token)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				RespondWithError(c, apperrors.TokenExpired())
			} else {
				RespondWithError(c, apperrors.InvalidToken())
			}
			return
		}

		c.Set("claims", claims)
		if typed, ok := claims.(*auth.Claims); ok {
			c.Request = c.Request.WithContext(auth.WithClaims(c.Request.Context(), typed))
		}
		c.Next()
	}
}
