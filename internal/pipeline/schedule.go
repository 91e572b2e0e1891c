// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const defaultInterval = time.Hour

// RunPeriodic runs a cycle immediately, then once per interval until
// ctx is cancelled. Cancellation stops the scheduler after the
// in-flight cycle completes; a cycle is never aborted midway, which is
// why the scheduled job does not inherit ctx.
func (r *Runner) RunPeriodic(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = defaultInterval
	}

	// DelayIfStillRunning serializes cycles when one overruns the interval.
	scheduler := cron.New(cron.WithChain(cron.DelayIfStillRunning(cron.DiscardLogger)))
	_, err := scheduler.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		r.RunCycle(context.Background())
	})
	if err != nil {
		return fmt.Errorf("scheduling cycle: %w", err)
	}

	r.log.Info("periodic service starting", zap.Duration("interval", interval))
	r.RunCycle(context.Background())

	scheduler.Start()
	<-ctx.Done()

	r.log.Info("stopping, waiting for in-flight cycle")
	<-scheduler.Stop().Done()
	r.log.Info("service stopped")
	return nil
}
