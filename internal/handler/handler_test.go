package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rentals/internal/middleware"
	"rentals/internal/model"
	"rentals/internal/repository"
	"rentals/pkg/pagination"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type pingResolver struct{}

func (pingResolver) Ping() string { return "pong" }

func TestGraphQLHandler(t *testing.T) {
	schema := graphql.MustParseSchema(`type Query { ping: String! }`, &pingResolver{})
	r := gin.New()
	NewGraphQLHandler(schema).RegisterRoutes(r.Group(""))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{"query":"{ ping }"}`)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"ping":"pong"}}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/graphql", strings.NewReader(`{not json`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Errors []struct {
			Message    string
			Extensions map[string]string
		}
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "BAD_REQUEST", body.Errors[0].Extensions["code"])
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	r := gin.New()
	NewHealthHandler(fakePinger{}).RegisterRoutes(r.Group(""))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	r = gin.New()
	NewHealthHandler(fakePinger{err: errors.New("down")}).RegisterRoutes(r.Group(""))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

type mockStatisticsService struct {
	mock.Mock
}

func (m *mockStatisticsService) GetDashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*model.DashboardStats)
	return stats, args.Error(1)
}

func TestStatisticsHandler(t *testing.T) {
	svc := &mockStatisticsService{}
	svc.On("GetDashboardStats", mock.Anything).Return(&model.DashboardStats{
		Assets:        2,
		AssetsByState: []model.StateCount{{State: model.AssetStateRented, Count: 2}},
	}, nil).Once()
	svc.On("GetDashboardStats", mock.Anything).Return(nil, errors.New("db gone")).Once()

	r := gin.New()
	NewStatisticsHandler(svc, zaptest.NewLogger(t)).RegisterRoutes(r.Group(""))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/statistics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"assets":2`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/statistics", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "db gone")

	svc.AssertExpectations(t)
}

type mockAuditService struct {
	mock.Mock
}

func (m *mockAuditService) List(ctx context.Context, f repository.AuditFilter, p pagination.Params) ([]model.AuditLog, int64, error) {
	args := m.Called(ctx, f, p)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Get(1).(int64), args.Error(2)
}

func TestAuditHandler_RequiresCallerAndPages(t *testing.T) {
	tokens := middleware.NewTokenManager("secret", time.Hour)
	svc := &mockAuditService{}
	svc.On("List", mock.Anything, repository.AuditFilter{Action: model.ActionCreateAsset}, pagination.Params{Page: 2, Limit: 5, Offset: 5}).
		Return([]model.AuditLog{{Action: model.ActionCreateAsset}}, int64(6), nil).Once()

	r := gin.New()
	r.Use(middleware.Authenticate(tokens))
	NewAuditHandler(svc, zaptest.NewLogger(t)).RegisterRoutes(r.Group(""))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/audit-logs", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := tokens.Issue(uuid.New(), "ops@example.com", "user")
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/audit-logs?page=2&limit=5&action=CREATE_ASSET", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), model.ActionCreateAsset)
	assert.Contains(t, w.Body.String(), `"total":6`)
	svc.AssertExpectations(t)
}
