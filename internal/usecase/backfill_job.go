package usecase

import (
	"context"
	"fmt"

	applogger "SkinPulse/pkg/logger"
	"SkinPulse/pkg/queue"
)

// BackfillJobType is the queue message type for history backfills.
const BackfillJobType = "history_backfill"

// BackfillPayload is the queue payload for a backfill request.
type BackfillPayload struct {
	Days int `json:"days"`
}

// BackfillJob runs provider history backfills off the request path. Backfills
// walk the whole catalog against the remote market, so HTTP only enqueues and
// the queue worker does the slow part.
type BackfillJob struct {
	tracker *Tracker
	logger  *applogger.Logger
}

// NewBackfillJob creates a new BackfillJob instance.
func NewBackfillJob(tracker *Tracker, logger *applogger.Logger) *BackfillJob {
	return &BackfillJob{tracker: tracker, logger: logger}
}

func (j *BackfillJob) Name() string { return "history-backfill" }

func (j *BackfillJob) Type() string { return BackfillJobType }

func (j *BackfillJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[BackfillPayload](payload)
	if err != nil {
		return fmt.Errorf("backfill payload: %w", err)
	}

	created, err := j.tracker.BackfillHistory(ctx, p.Days)
	if err != nil {
		return fmt.Errorf("backfill %d days: %w", p.Days, err)
	}
	j.logger.Info("backfill complete",
		applogger.Int("days", p.Days),
		applogger.Int("created", created))
	return nil
}

var _ queue.Job = (*BackfillJob)(nil)
