package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"onboarding/internal/core/apperror"
	appctx "onboarding/internal/core/context"
)

// TokenValidator validates wizard session tokens.
type TokenValidator interface {
	Validate(tokenString string) (*appctx.SessionContext, error)
}

// SessionAuth validates the bearer token and binds the request to its session.
func SessionAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		sess, err := validator.Validate(parts[1])
		if err != nil {
			_ = c.Error(apperror.NewUnauthorized("invalid session token"))
			c.Abort()
			return
		}

		ctx := appctx.WithSession(c.Request.Context(), sess)
		c.Request = c.Request.WithContext(ctx)
		c.Set("session_id", sess.SessionID)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
