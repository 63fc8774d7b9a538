package worker

import (
	"context"
	"time"

	"farmledger/internal/service"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Scheduler runs periodic jobs on cron expressions.
type Scheduler struct {
	c *cron.Cron
}

// NewScheduler registers the feed-cost allocator on spec (standard 5-field
// cron, UTC). A run still in progress when the next tick fires is skipped.
func NewScheduler(spec string, feed service.FeedCostService, timeout time.Duration) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)),
	)
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if _, err := feed.Run(ctx, service.TriggerSchedule); err != nil {
			log.Error().Err(err).Msg("scheduled feed cost run failed")
		}
	})
	if err != nil {
		return nil, err
	}
	return &Scheduler{c: c}, nil
}

func (s *Scheduler) Start() {
	s.c.Start()
	log.Info().Int("entries", len(s.c.Entries())).Msg("scheduler started")
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.c.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		log.Warn().Msg("scheduler stop timed out")
	}
}
