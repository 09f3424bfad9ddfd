package studio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nova-studio/domain/model"
)

func newState() State {
	return New(model.User{UID: "u1"}, nil)
}

func renderParams() RenderParams {
	return RenderParams{
		Step:     25,
		MediaURL: "https://cdn.example/master.mp4",
		ShareURL: func(p model.Platform) string { return "https://nova.os/v/" + string(p) + "-abcdefgh" },
	}
}

func target(t *testing.T, s State, p model.Platform) model.ExportTarget {
	t.Helper()
	got, ok := s.Target(p)
	require.True(t, ok, "target %s", p)
	return got
}

func assertInvariants(t *testing.T, s State) {
	t.Helper()
	for _, tg := range s.Targets {
		assert.Equal(t, tg.Progress == 100, tg.RenderStatus == model.RenderCompleted, "%s progress/status", tg.Platform)
		if tg.PublishStatus != model.PublishIdle {
			assert.Equal(t, model.RenderCompleted, tg.RenderStatus, "%s publish before render", tg.Platform)
		}
		assert.Equal(t, tg.PublishStatus == model.PublishFailed, tg.Error != "", "%s error/failed", tg.Platform)
	}
}

func TestNew_Defaults(t *testing.T) {
	s := newState()

	assert.Len(t, s.Targets, 4)
	assert.Equal(t, Selection{model.PlatformInstagram}, s.Selection)
	assert.Equal(t, PhaseIdle, s.Phase)
	assert.False(t, s.Busy())
	for _, tg := range s.Targets {
		assert.Equal(t, model.RenderIdle, tg.RenderStatus)
		assert.Equal(t, model.PublishIdle, tg.PublishStatus)
	}
}

func TestCatalog_ReturnsCopy(t *testing.T) {
	a := Catalog()
	a[0].Name = "changed"

	assert.Equal(t, "Instagram Reels", Catalog()[0].Name)
	assert.True(t, InCatalog(model.PlatformTikTok))
	assert.False(t, InCatalog(model.PlatformLinkedIn))
}

func TestToggleSelection(t *testing.T) {
	s := newState()

	s = ToggleSelection(s, model.PlatformTikTok)
	assert.True(t, s.Selection.Has(model.PlatformTikTok))

	s = ToggleSelection(s, model.PlatformTikTok)
	assert.False(t, s.Selection.Has(model.PlatformTikTok))

	before := s
	s = ToggleSelection(s, model.PlatformLinkedIn)
	assert.Equal(t, before.Selection, s.Selection)
}

func TestRender_FourTicksCompletesAllSelected(t *testing.T) {
	s := ToggleSelection(newState(), model.PlatformTikTok)
	s = StartRender(s, "run-1")

	assert.True(t, s.Rendering)
	assert.Equal(t, PhaseRendering, s.Phase)
	assert.Equal(t, model.RenderQueued, target(t, s, model.PlatformInstagram).RenderStatus)

	var done bool
	for i := 1; i <= 4; i++ {
		s, done = RenderTick(s, renderParams())
		assertInvariants(t, s)
		if i < 4 {
			require.False(t, done, "tick %d", i)
			assert.Equal(t, 25*i, target(t, s, model.PlatformTikTok).Progress)
			assert.Equal(t, model.RenderProcessing, target(t, s, model.PlatformTikTok).RenderStatus)
		}
	}

	require.True(t, done)
	assert.False(t, s.Rendering)
	for _, p := range []model.Platform{model.PlatformInstagram, model.PlatformTikTok} {
		tg := target(t, s, p)
		assert.Equal(t, model.RenderCompleted, tg.RenderStatus)
		assert.Equal(t, 100, tg.Progress)
		assert.Equal(t, "https://cdn.example/master.mp4", tg.DownloadURL)
		assert.Equal(t, "https://nova.os/v/"+string(p)+"-abcdefgh", tg.ShareURL)
	}

	untouched := target(t, s, model.PlatformYouTubeLong)
	assert.Equal(t, model.RenderIdle, untouched.RenderStatus)
	assert.Zero(t, untouched.Progress)
}

func TestRender_StepClampsAtHundred(t *testing.T) {
	s := StartRender(newState(), "run-1")
	params := renderParams()
	params.Step = 30

	var done bool
	for i := 0; i < 4; i++ {
		s, done = RenderTick(s, params)
	}

	assert.True(t, done)
	assert.Equal(t, 100, target(t, s, model.PlatformInstagram).Progress)
}

func TestRender_DeselectMidRunKeepsProgress(t *testing.T) {
	s := ToggleSelection(newState(), model.PlatformTikTok)
	s = StartRender(s, "run-1")
	s, _ = RenderTick(s, renderParams())

	s = ToggleSelection(s, model.PlatformTikTok)
	assert.Equal(t, 25, target(t, s, model.PlatformTikTok).Progress)

	var done bool
	for i := 0; i < 3; i++ {
		s, done = RenderTick(s, renderParams())
	}
	assert.True(t, done)
	assert.Equal(t, model.RenderCompleted, target(t, s, model.PlatformTikTok).RenderStatus)
}

func TestStartRender_ClearsPreviousResults(t *testing.T) {
	s := StartRender(newState(), "run-1")
	for i := 0; i < 4; i++ {
		s, _ = RenderTick(s, renderParams())
	}
	s = StartPublish(s)
	s = ResolveFailed(s, model.PlatformInstagram, "boom")

	s = StartRender(s, "run-2")
	tg := target(t, s, model.PlatformInstagram)

	assert.Equal(t, "run-2", s.RunID)
	assert.Equal(t, model.RenderQueued, tg.RenderStatus)
	assert.Equal(t, model.PublishIdle, tg.PublishStatus)
	assert.Empty(t, tg.DownloadURL)
	assert.Empty(t, tg.ShareURL)
	assert.Empty(t, tg.Error)
	assertInvariants(t, s)
}

func renderedTwoTargets(t *testing.T) State {
	t.Helper()
	s := ToggleSelection(newState(), model.PlatformTikTok)
	s = StartRender(s, "run-1")
	for i := 0; i < 4; i++ {
		s, _ = RenderTick(s, renderParams())
	}
	return s
}

func TestPublish_Lifecycle(t *testing.T) {
	s := StartPublish(renderedTwoTargets(t))

	assert.True(t, s.Publishing)
	assert.Equal(t, PhasePublishing, s.Phase)
	assert.Equal(t, model.PublishUploading, target(t, s, model.PlatformInstagram).PublishStatus)
	assert.Equal(t, model.PublishUploading, target(t, s, model.PlatformTikTok).PublishStatus)

	s = SetPublishStatus(s, model.PlatformInstagram, model.PublishProcessing)
	assert.Equal(t, model.PublishProcessing, target(t, s, model.PlatformInstagram).PublishStatus)

	s = ResolvePublished(s, model.PlatformInstagram, "https://instagram.com/reels/nova_live_abc123")
	assert.True(t, s.Publishing, "tiktok still in flight")

	s = ResolveFailed(s, model.PlatformTikTok, "not connected")
	assert.False(t, s.Publishing)
	assert.Equal(t, PhaseIdle, s.Phase)
	assertInvariants(t, s)

	reason, ok := s.FirstFailure()
	assert.True(t, ok)
	assert.Equal(t, "not connected", reason)
}

func TestPublish_TerminalIsFinal(t *testing.T) {
	s := StartPublish(renderedTwoTargets(t))
	s = ResolveFailed(s, model.PlatformInstagram, "access token expired")

	s = ResolvePublished(s, model.PlatformInstagram, "https://example.com")
	s = SetPublishStatus(s, model.PlatformInstagram, model.PublishProcessing)

	tg := target(t, s, model.PlatformInstagram)
	assert.Equal(t, model.PublishFailed, tg.PublishStatus)
	assert.Equal(t, "access token expired", tg.Error)
	assert.Empty(t, tg.PublishedURL)
}

func TestPublish_RequiresCompletedRender(t *testing.T) {
	s := StartRender(newState(), "run-1")
	s = StartPublish(s)

	assert.Equal(t, model.PublishIdle, target(t, s, model.PlatformInstagram).PublishStatus)
	s = SetPublishStatus(s, model.PlatformInstagram, model.PublishProcessing)
	assert.Equal(t, model.PublishIdle, target(t, s, model.PlatformInstagram).PublishStatus)
	assertInvariants(t, s)
}

func TestResolveExpired_IsTerminal(t *testing.T) {
	s := StartPublish(renderedTwoTargets(t))
	s = ResolveExpired(s, model.PlatformInstagram)
	s = ResolvePublished(s, model.PlatformTikTok, "https://www.tiktok.com/@nova/video/1")

	assert.Equal(t, model.PublishExpired, target(t, s, model.PlatformInstagram).PublishStatus)
	assert.False(t, s.Publishing)
	_, failed := s.FirstFailure()
	assert.False(t, failed)
}

func TestCancelRun_LeavesTargets(t *testing.T) {
	s := StartRender(newState(), "run-1")
	s, _ = RenderTick(s, renderParams())

	s = CancelRun(s)
	assert.False(t, s.Busy())
	assert.Equal(t, 25, target(t, s, model.PlatformInstagram).Progress)
}

func TestReducers_DoNotAliasInput(t *testing.T) {
	s := StartRender(newState(), "run-1")
	next, _ := RenderTick(s, renderParams())

	assert.Equal(t, model.RenderQueued, target(t, s, model.PlatformInstagram).RenderStatus)
	assert.Equal(t, model.RenderProcessing, target(t, next, model.PlatformInstagram).RenderStatus)
}

func TestConnections(t *testing.T) {
	s := newState()
	s = HandshakeStarted(s, model.PlatformInstagram)
	assert.Equal(t, model.ConnectionHandshakePending, s.ConnectionState(model.PlatformInstagram))

	s = ConnectionAdded(s, model.Connection{Platform: model.PlatformInstagram, Username: "@a", IsConnected: true})
	s = ConnectionAdded(s, model.Connection{Platform: model.PlatformTikTok, Username: "@t", IsConnected: true})
	s = ConnectionAdded(s, model.Connection{Platform: model.PlatformInstagram, Username: "@b", IsConnected: true})

	require.Len(t, s.Connections, 2)
	c, ok := s.Connection(model.PlatformInstagram)
	require.True(t, ok)
	assert.Equal(t, "@b", c.Username)
	assert.Equal(t, model.ConnectionConnected, s.ConnectionState(model.PlatformInstagram))

	s = ConnectionRemoved(s, model.PlatformInstagram)
	assert.Equal(t, model.ConnectionDisconnected, s.ConnectionState(model.PlatformInstagram))
	_, ok = s.Connection(model.PlatformTikTok)
	assert.True(t, ok)

	s = HandshakeStarted(s, model.PlatformYouTubeLong)
	s = HandshakeAborted(s, model.PlatformYouTubeLong)
	assert.Equal(t, model.ConnectionDisconnected, s.ConnectionState(model.PlatformYouTubeLong))
}

func TestApplyEdits(t *testing.T) {
	s := ApplyEdits(newState(), []model.EditAction{{ID: "a"}})
	assert.Nil(t, s.Project)

	s = SetProject(s, model.Project{ID: "proj_1", AppliedEdits: []model.EditAction{{ID: "x"}}})
	before := s
	s = ApplyEdits(s, []model.EditAction{{ID: "a", Type: "UNKNOWN_TYPE"}, {ID: "b"}})

	require.Len(t, s.Project.AppliedEdits, 3)
	assert.Equal(t, model.EditActionType("UNKNOWN_TYPE"), s.Project.AppliedEdits[1].Type)
	assert.Len(t, before.Project.AppliedEdits, 1)
}

func TestFeedback_ReplacedAndExpires(t *testing.T) {
	now := time.Unix(1000, 0)
	s := ShowFeedback(newState(), "first", now, 3*time.Second)
	s = ShowFeedback(s, "second", now.Add(time.Second), 3*time.Second)

	msg, ok := s.Feedback.Visible(now.Add(2 * time.Second))
	assert.True(t, ok)
	assert.Equal(t, "second", msg)

	_, ok = s.Feedback.Visible(now.Add(4 * time.Second))
	assert.False(t, ok)
}
