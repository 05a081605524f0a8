package rest

import (
	"net/http"
	"strings"
	"time"

	"github.com/Freeeeeet/office_hours/internal/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const identityKey = "identity"

// Logger writes one structured line per request.
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		}

		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()))
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("Request failed", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("Client error", fields...)
		default:
			logger.Info("Request completed", fields...)
		}
	}
}

// Authenticate reads the token from the tokenName cookie, falling back to an
// Authorization: Bearer header.
func Authenticate(tokens *TokenManager, tokenName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(tokenName)
		if err != nil || token == "" {
			token = bearerToken(c.GetHeader("Authorization"))
		}

		if token == "" {
			abortWithError(c, http.StatusUnauthorized, "Access denied, no token provided")
			return
		}

		identity, err := tokens.Parse(token)
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// RequireRole lets through only callers holding role.
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := currentIdentity(c)
		if identity == nil || identity.Role != role {
			abortWithError(c, http.StatusForbidden, "Access forbidden")
			return
		}
		c.Next()
	}
}

func currentIdentity(c *gin.Context) *Identity {
	value, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := value.(*Identity)
	return identity
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
