package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// callerProbe answers 200 with the caller's id, or 204 when anonymous.
func callerProbe(c *gin.Context) {
	caller := CallerFromContext(c.Request.Context())
	if caller == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.String(http.StatusOK, caller.UserID.String())
}

func newProbeRouter(m *TokenManager) *gin.Engine {
	r := gin.New()
	r.Use(Authenticate(m))
	r.GET("/probe", callerProbe)
	return r
}

func TestAuthenticate_BearerHeader(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	userID := uuid.New()
	token, err := m.Issue(userID, "a@example.com", "user")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	newProbeRouter(m).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID.String(), w.Body.String())
}

func TestAuthenticate_CookieFallback(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	userID := uuid.New()
	token, err := m.Issue(userID, "a@example.com", "user")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
	w := httptest.NewRecorder()
	newProbeRouter(m).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID.String(), w.Body.String())
}

func TestAuthenticate_InvalidTokenLeavesRequestAnonymous(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	for _, header := range []string{"", "Bearer garbage", "Basic dXNlcjpwYXNz", "Bearer"} {
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		newProbeRouter(m).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code, "header %q", header)
	}
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Equal(t, "abc", BearerToken("bearer abc"))
	assert.Empty(t, BearerToken("Bearer"))
	assert.Empty(t, BearerToken("Token abc"))
}

func TestRecovery_ConvertsPanicTo500(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zaptest.NewLogger(t)), Recovery(zaptest.NewLogger(t)))
	r.GET("/boom", func(c *gin.Context) { panic("oh no") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

func TestRequireCaller(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	r := gin.New()
	r.Use(Authenticate(m))
	r.GET("/private", RequireCaller(), callerProbe)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := m.Issue(uuid.New(), "a@example.com", "user")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
