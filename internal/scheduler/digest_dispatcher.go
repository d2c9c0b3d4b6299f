package scheduler

import (
	"context"
	"time"

	"crm_portal_backend/platform/logger"
)

// DigestDispatcher enqueues the daily follow-up digest task. It fires once
// per day at the configured local hour.
type DigestDispatcher struct {
	client *Client
	hour   int
	size   int
	log    *logger.Logger
}

func NewDigestDispatcher(client *Client, hour, size int, log *logger.Logger) *DigestDispatcher {
	if hour < 0 || hour > 23 {
		hour = 8
	}
	return &DigestDispatcher{client: client, hour: hour, size: size, log: log}
}

func (d *DigestDispatcher) Run(ctx context.Context) {
	if d == nil || d.client == nil {
		return
	}

	for {
		next := d.nextRun(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if err := d.client.ScheduleDailyDigest(ctx, d.size, next); err != nil {
			d.log.TaskError(TaskFollowUpDigest, err)
		}
	}
}

func (d *DigestDispatcher) nextRun(now time.Time) time.Time {
	run := time.Date(now.Year(), now.Month(), now.Day(), d.hour, 0, 0, 0, now.Location())
	if !run.After(now) {
		run = run.Add(24 * time.Hour)
	}
	return run
}
