// Package studio holds the per-session orchestration state of the dashboard and the pure
// transitions applied to it. Nothing here blocks, schedules or performs I/O; callers own time
// and concurrency and hand every change through one of the functions below.
package studio

import (
	"time"

	"nova-studio/domain/model"
)

const (
	PhaseIdle       = "OS Idle"
	PhaseRendering  = "Processing Masters..."
	PhasePublishing = "Distributing via Social OS..."
)

// Feedback is the transient banner. A new message replaces the visible one.
type Feedback struct {
	Message   string    `json:"message"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Visible returns the message if it has not expired at now.
func (f Feedback) Visible(now time.Time) (string, bool) {
	if f.Message == "" || !now.Before(f.ExpiresAt) {
		return "", false
	}
	return f.Message, true
}

// State is everything one logged-in browser session sees.
type State struct {
	User           *model.User          `json:"user"`
	Project        *model.Project       `json:"project"`
	Targets        []model.ExportTarget `json:"presets"`
	Selection      Selection            `json:"selected"`
	RunID          string               `json:"runId,omitempty"`
	RunTargets     Selection            `json:"runTargets,omitempty"`
	Rendering      bool                 `json:"isGenerating"`
	Publishing     bool                 `json:"isPublishing"`
	Phase          string               `json:"phase"`
	Connections    []model.Connection   `json:"connections"`
	Handshakes     Selection            `json:"pendingHandshakes,omitempty"`
	Messages       []model.ChatMessage  `json:"messages"`
	CommandPending bool                 `json:"isProcessing"`
	Feedback       Feedback             `json:"-"`
}

// New builds the state of a fresh session from the catalog and the persisted connections.
func New(user model.User, connections []model.Connection) State {
	return State{
		User:        &user,
		Targets:     Catalog(),
		Selection:   Selection{model.PlatformInstagram},
		Phase:       PhaseIdle,
		Connections: append([]model.Connection(nil), connections...),
	}
}

func (s State) clone() State {
	next := s
	next.Targets = append([]model.ExportTarget(nil), s.Targets...)
	next.Selection = s.Selection.clone()
	next.RunTargets = s.RunTargets.clone()
	next.Handshakes = s.Handshakes.clone()
	next.Connections = append([]model.Connection(nil), s.Connections...)
	next.Messages = append([]model.ChatMessage(nil), s.Messages...)
	return next
}

// Target returns the target for p.
func (s State) Target(p model.Platform) (model.ExportTarget, bool) {
	for _, t := range s.Targets {
		if t.Platform == p {
			return t, true
		}
	}
	return model.ExportTarget{}, false
}

// Connection returns the active connection for p.
func (s State) Connection(p model.Platform) (model.Connection, bool) {
	for _, c := range s.Connections {
		if c.Platform == p && c.IsConnected {
			return c, true
		}
	}
	return model.Connection{}, false
}

// ConnectionState reports the handshake lifecycle position of p.
func (s State) ConnectionState(p model.Platform) model.ConnectionState {
	if _, ok := s.Connection(p); ok {
		return model.ConnectionConnected
	}
	if s.Handshakes.Has(p) {
		return model.ConnectionHandshakePending
	}
	return model.ConnectionDisconnected
}

// Busy reports whether a run is rendering or publishing.
func (s State) Busy() bool {
	return s.Rendering || s.Publishing
}

// AllRendered reports whether every target of the current run has completed rendering.
func (s State) AllRendered() bool {
	for _, t := range s.Targets {
		if s.RunTargets.Has(t.Platform) && t.RenderStatus != model.RenderCompleted {
			return false
		}
	}
	return true
}

// AllPublishTerminal reports whether every target of the current run is in a terminal publish state.
func (s State) AllPublishTerminal() bool {
	for _, t := range s.Targets {
		if s.RunTargets.Has(t.Platform) && !t.PublishStatus.IsTerminal() {
			return false
		}
	}
	return true
}
