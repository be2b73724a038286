package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rentals/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newFeedServer(t *testing.T) (*Hub, *middleware.TokenManager, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	tokens := middleware.NewTokenManager("secret", time.Hour)
	r := gin.New()
	r.GET("/ws", func(c *gin.Context) { ServeWs(hub, tokens, c) })

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return hub, tokens, srv
}

func TestServeWs_RejectsMissingOrInvalidToken(t *testing.T) {
	_, _, srv := newFeedServer(t)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = websocket.DefaultDialer.Dial(url+"?token=bogus", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHub_PublishReachesSubscriber(t *testing.T) {
	hub, tokens, srv := newFeedServer(t)
	token, err := tokens.Issue(uuid.New(), "ops@example.com", "user")
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish("asset.state_changed", map[string]interface{}{"asset_id": "a1", "state": "rented"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev Event
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, "asset.state_changed", ev.Event)
	assert.Equal(t, "rented", ev.Data["state"])
}

func TestHub_PublishNeverBlocks(t *testing.T) {
	hub := NewHub(zaptest.NewLogger(t))

	// no Run loop: the queue fills up and further events are dropped
	for i := 0; i < cap(hub.Broadcast)+10; i++ {
		hub.Publish("asset.state_changed", map[string]interface{}{"n": i})
	}
	assert.Len(t, hub.Broadcast, cap(hub.Broadcast))
}
