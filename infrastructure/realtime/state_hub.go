package realtime

import (
	"encoding/json"
	"net/http"
	"sync"

	"nova-studio/domain/studio"

	"github.com/gin-gonic/gin"
)

const EventStudioState = "studio_state"

// StateEvent is the SSE payload: the full session state plus the current banner.
type StateEvent struct {
	studio.State
	Feedback studio.Feedback `json:"feedback"`
}

// Hub maintains per-user subscribers listening for studio state changes.
type Hub struct {
	mu    sync.RWMutex
	users map[string]map[chan StateEvent]struct{}
}

func NewStateHub() *Hub {
	return &Hub{users: make(map[string]map[chan StateEvent]struct{})}
}

// Serve streams state changes to the authenticated user (user_id set by middleware),
// starting with initial.
func (h *Hub) Serve(c *gin.Context, initial studio.State) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // disable nginx buffering

	ch := make(chan StateEvent, 8)
	h.addSubscriber(userID, ch)
	defer h.removeSubscriber(userID, ch)

	_, _ = c.Writer.Write([]byte(":ok\n\n"))
	writeEvent(c, StateEvent{State: initial, Feedback: initial.Feedback})

	for {
		select {
		case evt := <-ch:
			writeEvent(c, evt)
		case <-c.Request.Context().Done():
			return
		}
	}
}

func writeEvent(c *gin.Context, evt StateEvent) {
	data, _ := json.Marshal(evt)
	_, _ = c.Writer.Write([]byte("event: " + EventStudioState + "\n"))
	_, _ = c.Writer.Write([]byte("data: "))
	_, _ = c.Writer.Write(data)
	_, _ = c.Writer.Write([]byte("\n\n"))
	c.Writer.Flush()
}

func (h *Hub) addSubscriber(userID string, ch chan StateEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.users[userID] == nil {
		h.users[userID] = make(map[chan StateEvent]struct{})
	}
	h.users[userID][ch] = struct{}{}
}

func (h *Hub) removeSubscriber(userID string, ch chan StateEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs := h.users[userID]; subs != nil {
		delete(subs, ch)
		close(ch)
		if len(subs) == 0 {
			delete(h.users, userID)
		}
	}
}

// Subscribers reports how many streams uid has open.
func (h *Hub) Subscribers(uid string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[uid])
}

// BroadcastState fans state out to every stream of uid without blocking. A reader whose
// buffer is full loses its oldest queued state, so the newest one always gets through.
func (h *Hub) BroadcastState(uid string, state studio.State) {
	evt := StateEvent{State: state, Feedback: state.Feedback}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.users[uid] {
		offer(ch, evt)
	}
}

func offer(ch chan StateEvent, evt StateEvent) {
	for {
		select {
		case ch <- evt:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
