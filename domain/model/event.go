package model

import "time"

// PublishEvent is emitted to the event sink whenever a target reaches a terminal publish state.
type PublishEvent struct {
	RunID        string        `json:"run_id"`
	UserID       string        `json:"user_id"`
	Platform     Platform      `json:"platform"`
	Status       PublishStatus `json:"status"`
	PublishedURL string        `json:"published_url,omitempty"`
	Error        string        `json:"error,omitempty"`
	OccurredAt   time.Time     `json:"occurred_at"`
}
