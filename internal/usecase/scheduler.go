package usecase

import (
	"context"
	"time"

	applogger "SkinPulse/pkg/logger"
	"SkinPulse/pkg/util"
)

// DailyScheduler triggers the tracker on a fixed interval, the equivalent of
// the cron-style daily snapshot job. It is the only place that reads the
// wall clock; the analytics path never does.
type DailyScheduler struct {
	tracker  *Tracker
	interval time.Duration
	logger   *applogger.Logger
	stopCh   chan struct{}
}

// NewDailyScheduler creates a new DailyScheduler instance.
func NewDailyScheduler(tracker *Tracker, interval time.Duration, logger *applogger.Logger) *DailyScheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &DailyScheduler{
		tracker:  tracker,
		interval: interval,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the interval loop in the background.
func (s *DailyScheduler) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			case <-ticker.C:
				created, err := s.tracker.TrackDate(ctx, util.Today())
				if err != nil {
					s.logger.Error("scheduled track failed", applogger.Error(err))
					continue
				}
				s.logger.Info("scheduled track complete",
					applogger.String("date", util.FormatDay(util.Today())),
					applogger.Int("created", created))
			}
		}
	}()
	s.logger.Info("daily tracker scheduled", applogger.Duration("interval_ms", s.interval))
}

// Stop halts the interval loop.
func (s *DailyScheduler) Stop() {
	close(s.stopCh)
}
