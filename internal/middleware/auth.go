package middleware

import (
	"context"
	"net/http"
	"strings"

	"rentals/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AccessTokenCookie is read when no Authorization header is sent.
const AccessTokenCookie = "access_token"

// Caller is the authenticated user behind a request.
type Caller struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

// TokenVerifier turns a raw token into a Caller.
type TokenVerifier interface {
	Verify(token string) (*Caller, error)
}

type callerKey struct{}

func WithCaller(ctx context.Context, caller *Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

// CallerFromContext returns the caller stored by Authenticate, or nil.
func CallerFromContext(ctx context.Context) *Caller {
	caller, _ := ctx.Value(callerKey{}).(*Caller)
	return caller
}

// Authenticate attaches the verified caller to the request context. It never
// rejects a request: anonymous requests reach the handler without a caller and
// each operation decides whether that is acceptable.
func Authenticate(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := BearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
				tokenString = cookie
			}
		}

		if tokenString != "" {
			if caller, err := verifier.Verify(tokenString); err == nil {
				c.Request = c.Request.WithContext(WithCaller(c.Request.Context(), caller))
				c.Set("userID", caller.UserID.String())
				c.Set("userRole", caller.Role)
			}
		}

		c.Next()
	}
}

// RequireCaller aborts with 401 unless Authenticate attached a caller. It is
// for REST routes; GraphQL operations check the caller themselves.
func RequireCaller() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CallerFromContext(c.Request.Context()) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "authentication required"))
			return
		}
		c.Next()
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
