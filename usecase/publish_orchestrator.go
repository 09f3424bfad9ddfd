package usecase

import (
	"context"
	"fmt"
	"time"

	"nova-studio/domain/model"
	"nova-studio/domain/repository"
	"nova-studio/domain/studio"
	"nova-studio/infrastructure/logger"
	"nova-studio/infrastructure/utils"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/errgroup"
)

const (
	failureNotConnected = "not connected"
	failureTokenExpired = "access token expired"
)

// PublishOrchestrator moves every rendered run target through
// uploading -> processing -> published, or to failed.
type PublishOrchestrator struct {
	clock           clockwork.Clock
	uploadDelay     time.Duration
	processingDelay time.Duration
	// verifiers holds the platforms with a live integration; the rest are simulated.
	verifiers map[model.Platform]repository.IAccountVerifier
	events    repository.IEventPublisher
}

func NewPublishOrchestrator(clock clockwork.Clock, uploadDelay, processingDelay time.Duration) *PublishOrchestrator {
	return &PublishOrchestrator{
		clock:           clock,
		uploadDelay:     uploadDelay,
		processingDelay: processingDelay,
		verifiers:       map[model.Platform]repository.IAccountVerifier{},
	}
}

// WithVerifier wires a real identity check into the uploading phase of p.
func (o *PublishOrchestrator) WithVerifier(p model.Platform, v repository.IAccountVerifier) *PublishOrchestrator {
	o.verifiers[p] = v
	return o
}

// WithEvents forwards every terminal target to publisher.
func (o *PublishOrchestrator) WithEvents(publisher repository.IEventPublisher) *PublishOrchestrator {
	o.events = publisher
	return o
}

// PublishedURL returns the live link template of p with a fresh id.
func PublishedURL(p model.Platform) string {
	switch p {
	case model.PlatformInstagram:
		return "https://instagram.com/reels/nova_live_" + utils.RandomBase36(6)
	case model.PlatformTikTok:
		return "https://www.tiktok.com/@nova/video/" + utils.RandomBase36(12)
	case model.PlatformYouTubeShorts:
		return "https://youtube.com/shorts/" + utils.RandomBase36(11)
	case model.PlatformYouTubeLong:
		return "https://youtu.be/" + utils.RandomBase36(11)
	default:
		return fmt.Sprintf("https://nova.os/live/%s-%s", p, utils.RandomBase36(8))
	}
}

// Run publishes the current run's targets. Each connected target proceeds on its own
// goroutine; a failure on one never stops its siblings. Targets without a connection
// stay uploading until every connected target is terminal and then fail.
func (o *PublishOrchestrator) Run(ctx context.Context, sess *Session) error {
	snap := sess.Update(studio.StartPublish)

	var unconnected []model.Platform
	g, gctx := errgroup.WithContext(ctx)
	for _, p := range snap.RunTargets {
		conn, ok := snap.Connection(p)
		if !ok {
			unconnected = append(unconnected, p)
			continue
		}
		g.Go(func() error {
			return o.publishTarget(gctx, sess, p, conn)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, p := range unconnected {
		sess.Update(func(s studio.State) studio.State {
			return studio.ResolveFailed(s, p, failureNotConnected)
		})
	}

	o.emit(ctx, sess)
	return nil
}

func (o *PublishOrchestrator) publishTarget(ctx context.Context, sess *Session, p model.Platform, conn model.Connection) error {
	lg := logger.GetLogger().WithField("uid", sess.UID()).WithField("platform", p)

	fail := func(reason string) error {
		lg.WithField("reason", reason).Warn("Publish failed")
		sess.Update(func(s studio.State) studio.State {
			return studio.ResolveFailed(s, p, reason)
		})
		return nil
	}

	if conn.Expired(o.clock.Now()) {
		return fail(failureTokenExpired)
	}
	if verifier, ok := o.verifiers[p]; ok {
		if _, err := verifier.VerifyAccount(ctx, conn.AccessToken); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fail(err.Error())
		}
	}

	if err := o.wait(ctx, o.uploadDelay); err != nil {
		return err
	}
	sess.Update(func(s studio.State) studio.State {
		return studio.SetPublishStatus(s, p, model.PublishProcessing)
	})

	if err := o.wait(ctx, o.processingDelay); err != nil {
		return err
	}
	url := PublishedURL(p)
	sess.Update(func(s studio.State) studio.State {
		return studio.ResolvePublished(s, p, url)
	})
	lg.WithField("url", url).Info("Target published")
	return nil
}

func (o *PublishOrchestrator) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-o.clock.After(d):
		return nil
	}
}

func (o *PublishOrchestrator) emit(ctx context.Context, sess *Session) {
	if o.events == nil {
		return
	}
	snap := sess.Snapshot()
	now := o.clock.Now().UTC()
	for _, t := range snap.Targets {
		if !snap.RunTargets.Has(t.Platform) || !t.PublishStatus.IsTerminal() {
			continue
		}
		event := model.PublishEvent{
			RunID:        snap.RunID,
			UserID:       sess.UID(),
			Platform:     t.Platform,
			Status:       t.PublishStatus,
			PublishedURL: t.PublishedURL,
			Error:        t.Error,
			OccurredAt:   now,
		}
		if err := o.events.PublishEvent(ctx, event); err != nil {
			logger.GetLogger().WithField("error", err).WithField("platform", t.Platform).Warn("Publish event not delivered")
		}
	}
}
