package realtime_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nova-studio/domain/model"
	"nova-studio/domain/studio"
	"nova-studio/infrastructure/realtime"
)

func readEvent(t *testing.T, r *bufio.Reader) (string, realtime.StateEvent) {
	t.Helper()
	var name string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			var evt realtime.StateEvent
			require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &evt))
			return name, evt
		}
	}
}

func TestHub_StreamsInitialAndBroadcastState(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := realtime.NewStateHub()
	initial := studio.New(model.User{UID: "u1"}, nil)

	router := gin.New()
	router.GET("/stream", func(c *gin.Context) {
		c.Set("user_id", "u1")
		hub.Serve(c, initial)
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	name, evt := readEvent(t, reader)
	assert.Equal(t, realtime.EventStudioState, name)
	assert.Equal(t, studio.PhaseIdle, evt.Phase)
	require.Equal(t, 1, hub.Subscribers("u1"))

	next := studio.ShowFeedback(studio.ToggleSelection(initial, model.PlatformTikTok), "hello", time.Now(), time.Minute)
	hub.BroadcastState("u1", next)
	hub.BroadcastState("someone-else", initial)

	_, evt = readEvent(t, reader)
	assert.True(t, evt.Selection.Has(model.PlatformTikTok))
	assert.Equal(t, "hello", evt.Feedback.Message)

	cancel()
	require.Eventually(t, func() bool { return hub.Subscribers("u1") == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_RequiresUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/stream", nil)

	realtime.NewStateHub().Serve(c, studio.State{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
