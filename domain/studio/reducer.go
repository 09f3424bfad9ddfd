package studio

import (
	"time"

	"nova-studio/domain/model"
)

// RenderParams configures one render tick.
type RenderParams struct {
	Step     int
	MediaURL string
	// ShareURL mints a fresh share link for a target that just completed.
	ShareURL func(model.Platform) string
}

func ToggleSelection(s State, p model.Platform) State {
	if _, ok := s.Target(p); !ok {
		return s
	}
	next := s.clone()
	next.Selection = s.Selection.Toggle(p)
	return next
}

// StartRender snapshots the current selection as the run's targets and resets each of them.
// Targets outside the selection keep their previous results.
func StartRender(s State, runID string) State {
	next := s.clone()
	next.RunID = runID
	next.RunTargets = s.Selection.clone()
	next.Rendering = true
	next.Publishing = false
	next.Phase = PhaseRendering
	for i := range next.Targets {
		t := &next.Targets[i]
		if !next.RunTargets.Has(t.Platform) {
			continue
		}
		t.RenderStatus = model.RenderQueued
		t.Progress = 0
		t.PublishStatus = model.PublishIdle
		t.DownloadURL = ""
		t.ShareURL = ""
		t.PublishedURL = ""
		t.Error = ""
	}
	return next
}

// RenderTick advances every unfinished run target by one step as a single batch and
// reports whether the whole run has finished rendering.
func RenderTick(s State, params RenderParams) (State, bool) {
	next := s.clone()
	for i := range next.Targets {
		t := &next.Targets[i]
		if !next.RunTargets.Has(t.Platform) || t.RenderStatus == model.RenderCompleted {
			continue
		}
		t.RenderStatus = model.RenderProcessing
		t.Progress += params.Step
		if t.Progress >= 100 {
			t.Progress = 100
			t.RenderStatus = model.RenderCompleted
			t.DownloadURL = params.MediaURL
			if params.ShareURL != nil {
				t.ShareURL = params.ShareURL(t.Platform)
			}
		}
	}
	done := next.AllRendered()
	if done {
		next.Rendering = false
	}
	return next, done
}

// StartPublish moves every rendered run target to uploading.
func StartPublish(s State) State {
	next := s.clone()
	next.Rendering = false
	next.Publishing = true
	next.Phase = PhasePublishing
	for i := range next.Targets {
		t := &next.Targets[i]
		if !next.RunTargets.Has(t.Platform) || t.RenderStatus != model.RenderCompleted {
			continue
		}
		t.PublishStatus = model.PublishUploading
		t.PublishedURL = ""
		t.Error = ""
	}
	return next
}

// SetPublishStatus moves a target to a non-terminal publish status.
// Terminal targets and targets that never rendered are left alone.
func SetPublishStatus(s State, p model.Platform, status model.PublishStatus) State {
	if status.IsTerminal() || status == model.PublishIdle {
		return s
	}
	return updateTarget(s, p, func(t *model.ExportTarget) {
		t.PublishStatus = status
	})
}

// ResolvePublished marks p published with its live URL.
func ResolvePublished(s State, p model.Platform, url string) State {
	next := updateTarget(s, p, func(t *model.ExportTarget) {
		t.PublishStatus = model.PublishPublished
		t.PublishedURL = url
		t.Error = ""
	})
	return settlePublish(next)
}

// ResolveFailed marks p failed with reason.
func ResolveFailed(s State, p model.Platform, reason string) State {
	next := updateTarget(s, p, func(t *model.ExportTarget) {
		t.PublishStatus = model.PublishFailed
		t.PublishedURL = ""
		t.Error = reason
	})
	return settlePublish(next)
}

// ResolveExpired marks p expired. Nothing in the pipeline produces this value today.
func ResolveExpired(s State, p model.Platform) State {
	next := updateTarget(s, p, func(t *model.ExportTarget) {
		t.PublishStatus = model.PublishExpired
		t.Error = ""
	})
	return settlePublish(next)
}

// CancelRun clears the busy flags and leaves every target as it is.
func CancelRun(s State) State {
	next := s.clone()
	next.Rendering = false
	next.Publishing = false
	next.Phase = PhaseIdle
	return next
}

func updateTarget(s State, p model.Platform, fn func(*model.ExportTarget)) State {
	if !s.RunTargets.Has(p) {
		return s
	}
	next := s.clone()
	for i := range next.Targets {
		t := &next.Targets[i]
		if t.Platform != p {
			continue
		}
		if t.RenderStatus != model.RenderCompleted || t.PublishStatus.IsTerminal() {
			return s
		}
		fn(t)
		return next
	}
	return s
}

func settlePublish(s State) State {
	if s.Publishing && s.AllPublishTerminal() {
		s.Publishing = false
		s.Phase = PhaseIdle
	}
	return s
}

// FirstFailure returns the first failed run target's reason in catalog order.
func (s State) FirstFailure() (string, bool) {
	for _, t := range s.Targets {
		if s.RunTargets.Has(t.Platform) && t.PublishStatus == model.PublishFailed {
			return t.Error, true
		}
	}
	return "", false
}

// ConnectionAdded installs c, replacing any record for the same platform.
func ConnectionAdded(s State, c model.Connection) State {
	next := s.clone()
	next.Connections = ReplaceConnection(s.Connections, c)
	next.Handshakes = removePlatform(s.Handshakes, c.Platform)
	return next
}

// ConnectionRemoved drops the record for p.
func ConnectionRemoved(s State, p model.Platform) State {
	next := s.clone()
	next.Connections = RemoveConnection(s.Connections, p)
	next.Handshakes = removePlatform(s.Handshakes, p)
	return next
}

func HandshakeStarted(s State, p model.Platform) State {
	if s.Handshakes.Has(p) {
		return s
	}
	next := s.clone()
	next.Handshakes = append(next.Handshakes, p)
	return next
}

func HandshakeAborted(s State, p model.Platform) State {
	next := s.clone()
	next.Handshakes = removePlatform(s.Handshakes, p)
	return next
}

// ReplaceConnection returns list with c in place of any record for c.Platform.
func ReplaceConnection(list []model.Connection, c model.Connection) []model.Connection {
	out := RemoveConnection(list, c.Platform)
	return append(out, c)
}

// RemoveConnection returns list without the record for p.
func RemoveConnection(list []model.Connection, p model.Platform) []model.Connection {
	out := make([]model.Connection, 0, len(list))
	for _, c := range list {
		if c.Platform != p {
			out = append(out, c)
		}
	}
	return out
}

func removePlatform(s Selection, p model.Platform) Selection {
	if !s.Has(p) {
		return s.clone()
	}
	return s.Toggle(p)
}

func SetProject(s State, p model.Project) State {
	next := s.clone()
	next.Project = &p
	next.Messages = nil
	return next
}

func SetCommandPending(s State, pending bool) State {
	next := s.clone()
	next.CommandPending = pending
	return next
}

func AppendMessage(s State, msg model.ChatMessage) State {
	next := s.clone()
	next.Messages = append(next.Messages, msg)
	return next
}

// ApplyEdits appends actions verbatim to the project's applied edits.
func ApplyEdits(s State, actions []model.EditAction) State {
	if s.Project == nil || len(actions) == 0 {
		return s
	}
	next := s.clone()
	project := *s.Project
	project.AppliedEdits = append(append([]model.EditAction(nil), s.Project.AppliedEdits...), actions...)
	next.Project = &project
	return next
}

// ShowFeedback replaces the banner with msg, visible until now+ttl.
func ShowFeedback(s State, msg string, now time.Time, ttl time.Duration) State {
	next := s.clone()
	next.Feedback = Feedback{Message: msg, ExpiresAt: now.Add(ttl)}
	return next
}
