package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nova-studio/domain/model"
	"nova-studio/domain/studio"
	"nova-studio/infrastructure/logger"
	"nova-studio/infrastructure/utils"

	"github.com/jonboulle/clockwork"
)

// RenderSimulator drives every run target from 0 to 100 on a fixed cadence.
type RenderSimulator struct {
	clock        clockwork.Clock
	interval     time.Duration
	step         int
	shareBaseURL string
}

func NewRenderSimulator(clock clockwork.Clock, interval time.Duration, step int, shareBaseURL string) *RenderSimulator {
	return &RenderSimulator{
		clock:        clock,
		interval:     interval,
		step:         step,
		shareBaseURL: strings.TrimRight(shareBaseURL, "/"),
	}
}

// ShareURL mints a fresh share link for p.
func (r *RenderSimulator) ShareURL(p model.Platform) string {
	return fmt.Sprintf("%s/%s-%s", r.shareBaseURL, p, utils.RandomBase36(8))
}

// Run ticks until every run target has completed or ctx is cancelled. The session must
// already be in the render phase (studio.StartRender).
func (r *RenderSimulator) Run(ctx context.Context, sess *Session) error {
	ticker := r.clock.NewTicker(r.interval)
	defer ticker.Stop()

	ticks := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
		}
		ticks++

		var done bool
		sess.Update(func(s studio.State) studio.State {
			params := studio.RenderParams{Step: r.step, ShareURL: r.ShareURL}
			if s.Project != nil {
				params.MediaURL = s.Project.VideoURL
			}
			next, finished := studio.RenderTick(s, params)
			done = finished
			return next
		})
		if done {
			logger.GetLogger().WithField("uid", sess.UID()).WithField("ticks", ticks).Info("Render finished")
			return nil
		}
	}
}
