package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nova-studio/domain/dto"
	"nova-studio/domain/model"
	"nova-studio/domain/repository"
	"nova-studio/domain/studio"
	"nova-studio/infrastructure/logger"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const (
	feedbackCampaignLive = "Campaign Live: Assets Distributed"
	feedbackPublishError = "Publish Error: "
)

type IExportUsecase interface {
	State(ctx context.Context, uid string) (studio.State, error)
	ToggleSelection(ctx context.Context, uid string, platform model.Platform) (studio.State, error)
	StartRun(ctx context.Context, uid string) (dto.RunResponse, error)
	GeneratePostMetadata(ctx context.Context, uid string, platform model.Platform) (model.PostMetadata, error)
	Feedback(ctx context.Context, uid string) (dto.FeedbackResponse, error)
}

type exportUsecase struct {
	sessions    *SessionStore
	render      *RenderSimulator
	publish     *PublishOrchestrator
	analysis    repository.IAnalysis
	clock       clockwork.Clock
	feedbackTTL time.Duration
}

func NewExportUsecase(
	sessions *SessionStore,
	render *RenderSimulator,
	publish *PublishOrchestrator,
	analysis repository.IAnalysis,
	clock clockwork.Clock,
	feedbackTTL time.Duration,
) IExportUsecase {
	return &exportUsecase{
		sessions:    sessions,
		render:      render,
		publish:     publish,
		analysis:    analysis,
		clock:       clock,
		feedbackTTL: feedbackTTL,
	}
}

func (u *exportUsecase) State(ctx context.Context, uid string) (studio.State, error) {
	sess, err := u.sessions.Acquire(ctx, uid)
	if err != nil {
		return studio.State{}, err
	}
	return sess.Snapshot(), nil
}

// ToggleSelection only changes which targets the next run picks up; a run already in
// flight keeps its own snapshot of the selection.
func (u *exportUsecase) ToggleSelection(ctx context.Context, uid string, platform model.Platform) (studio.State, error) {
	if !studio.InCatalog(platform) {
		return studio.State{}, fmt.Errorf("%w: %s", ErrUnknownPlatform, platform)
	}
	sess, err := u.sessions.Acquire(ctx, uid)
	if err != nil {
		return studio.State{}, err
	}
	return sess.Update(func(s studio.State) studio.State {
		return studio.ToggleSelection(s, platform)
	}), nil
}

func (u *exportUsecase) StartRun(ctx context.Context, uid string) (dto.RunResponse, error) {
	sess, err := u.sessions.Acquire(ctx, uid)
	if err != nil {
		return dto.RunResponse{}, err
	}

	runID := uuid.NewString()
	var startErr error
	state := sess.Update(func(s studio.State) studio.State {
		switch {
		case s.Busy():
			startErr = ErrRunInProgress
		case s.Project == nil:
			startErr = ErrNoProject
		case len(s.Selection) == 0:
			startErr = ErrEmptySelection
		default:
			return studio.StartRender(s, runID)
		}
		return s
	})
	if startErr != nil {
		return dto.RunResponse{}, startErr
	}

	runCtx, cancel := sess.beginRun()
	go u.run(runCtx, cancel, sess)

	logger.GetLogger().WithFields(map[string]interface{}{
		"uid":     uid,
		"run_id":  runID,
		"targets": state.RunTargets,
	}).Info("Export run started")
	return dto.RunResponse{RunID: runID, Targets: append([]model.Platform(nil), state.RunTargets...)}, nil
}

func (u *exportUsecase) run(ctx context.Context, cancel context.CancelFunc, sess *Session) {
	defer cancel()
	lg := logger.GetLogger().WithField("uid", sess.UID())

	err := u.render.Run(ctx, sess)
	if err == nil {
		err = u.publish.Run(ctx, sess)
	}
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			lg.WithField("error", err).Error("Export run aborted")
		} else {
			lg.Info("Export run cancelled")
		}
		sess.Update(studio.CancelRun)
		return
	}

	now := u.clock.Now()
	sess.Update(func(s studio.State) studio.State {
		msg := feedbackCampaignLive
		if reason, failed := s.FirstFailure(); failed {
			msg = feedbackPublishError + reason
		}
		return studio.ShowFeedback(s, msg, now, u.feedbackTTL)
	})
}

func (u *exportUsecase) GeneratePostMetadata(ctx context.Context, uid string, platform model.Platform) (model.PostMetadata, error) {
	if !platform.IsKnown() {
		return model.PostMetadata{}, fmt.Errorf("%w: %s", ErrUnknownPlatform, platform)
	}
	sess, err := u.sessions.Acquire(ctx, uid)
	if err != nil {
		return model.PostMetadata{}, err
	}
	snap := sess.Snapshot()
	if snap.Project == nil {
		return model.PostMetadata{}, ErrNoProject
	}
	meta, err := u.analysis.GeneratePostMetadata(ctx, platform, *snap.Project)
	if err != nil {
		logger.GetLogger().WithField("error", err).WithField("platform", platform).Warn("Post metadata generation failed")
		return model.PostMetadata{}, fmt.Errorf("%w: %v", ErrAnalysisUnavailable, err)
	}
	return meta, nil
}

func (u *exportUsecase) Feedback(ctx context.Context, uid string) (dto.FeedbackResponse, error) {
	sess, err := u.sessions.Acquire(ctx, uid)
	if err != nil {
		return dto.FeedbackResponse{}, err
	}
	msg, ok := sess.Snapshot().Feedback.Visible(u.clock.Now())
	return dto.FeedbackResponse{Message: msg, Visible: ok}, nil
}
