package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"farmledger/internal/calc"
	"farmledger/internal/dto"
	"farmledger/internal/infra"
	"farmledger/internal/model"
	"farmledger/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Feed-cost run triggers.
const (
	TriggerSchedule = "schedule"
	TriggerManual   = "manual"
	TriggerCLI      = "cli"
)

const feedCostLockKey = "lock:feed-cost"

// Locker guards a job against overlapping runs across processes.
type Locker interface {
	Obtain(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, error)
}

// TotalsSource yields the nutritional totals of an active ration table.
type TotalsSource interface {
	Totals(ctx context.Context, tableID uuid.UUID) (calc.RationTotals, error)
}

// FeedCostService runs the feed-cost allocator: once per day every animal
// with an active ration log gets its share of the ration's cost added to its
// accumulated feed cost. Runs are additive; a second run on the same day
// charges the day again and is flagged on the run record.
type FeedCostService interface {
	Run(ctx context.Context, trigger string) (*dto.FeedCostRunResponse, error)
	ListRuns(ctx context.Context, limit int) ([]dto.FeedCostRunResponse, error)
}

type feedCostService struct {
	logs    repository.RationLogRepository
	members repository.MembershipRepository
	weights repository.WeightRepository
	animals repository.AnimalRepository
	runs    repository.FeedCostRunRepository
	totals  TotalsSource
	locker  Locker
	lockTTL time.Duration
	now     func() time.Time
}

// NewFeedCostService builds the allocator. locker may be nil, in which case
// overlapping runs are not prevented.
func NewFeedCostService(
	logs repository.RationLogRepository,
	members repository.MembershipRepository,
	weights repository.WeightRepository,
	animals repository.AnimalRepository,
	runs repository.FeedCostRunRepository,
	totals TotalsSource,
	locker Locker,
	lockTTL time.Duration,
) FeedCostService {
	return &feedCostService{
		logs:    logs,
		members: members,
		weights: weights,
		animals: animals,
		runs:    runs,
		totals:  totals,
		locker:  locker,
		lockTTL: lockTTL,
		now:     time.Now,
	}
}

func (s *feedCostService) Run(ctx context.Context, trigger string) (*dto.FeedCostRunResponse, error) {
	if s.locker != nil {
		release, err := s.locker.Obtain(ctx, feedCostLockKey, s.lockTTL)
		if errors.Is(err, infra.ErrLockHeld) {
			return nil, fmt.Errorf("feed cost run already in progress: %w", ErrConflict)
		}
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := release(context.Background()); err != nil {
				log.Warn().Err(err).Msg("feed cost lock release failed")
			}
		}()
	}

	run := &model.FeedCostRun{Trigger: trigger, StartedAt: s.now().UTC(), TotalIncrement: decimal.Zero}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, err
	}
	y, m, d := run.StartedAt.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	repeat, err := s.runs.ExistsBetween(ctx, dayStart, dayStart.Add(24*time.Hour), run.ID)
	if err != nil {
		return nil, err
	}
	if repeat {
		run.SameDayRepeat = true
		log.Warn().Str("day", dayStart.Format(dto.DateLayout)).Msg("feed cost already allocated today; this run charges the day again")
	}

	active, err := s.logs.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	totalsCache := map[uuid.UUID]*calc.RationTotals{}
	var runErr error
	for i := range active {
		l := &active[i]
		if l.Animal != nil && l.Animal.IsSlaughtered {
			continue
		}
		inc, reason, err := s.allocate(ctx, l, totalsCache)
		if err != nil {
			runErr = err
			break
		}
		eartag := l.AnimalID.String()
		if l.Animal != nil {
			eartag = l.Animal.Eartag
		}
		if reason != calc.SkipNone {
			run.Skipped++
			log.Warn().Str("eartag", eartag).Str("reason", string(reason)).Msg("feed cost skipped")
			continue
		}
		run.Processed++
		run.TotalIncrement = run.TotalIncrement.Add(inc)
		log.Debug().Str("eartag", eartag).Str("increment", inc.StringFixed(2)).Msg("feed cost added")
	}

	finished := s.now().UTC()
	run.FinishedAt = &finished
	if err := s.runs.Update(ctx, run); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return nil, runErr
	}

	log.Info().
		Str("trigger", trigger).
		Int("processed", run.Processed).
		Int("skipped", run.Skipped).
		Str("total_increment", run.TotalIncrement.StringFixed(2)).
		Bool("same_day_repeat", run.SameDayRepeat).
		Msg("feed cost run finished")
	resp := feedCostRunToResponse(run)
	return &resp, nil
}

// allocate computes and books the increment of one ration log. A zero
// SkipReason means the animal was charged.
func (s *feedCostService) allocate(ctx context.Context, l *model.AnimalRationLog, cache map[uuid.UUID]*calc.RationTotals) (decimal.Decimal, calc.SkipReason, error) {
	in := calc.FeedInput{}

	group, err := s.members.FirstGroupOf(ctx, l.AnimalID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
	case err != nil:
		return decimal.Zero, calc.SkipNone, err
	case group != nil:
		in.GroupCoefficient = &group.DryMatter
	}

	w, err := s.weights.Latest(ctx, l.AnimalID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
	case err != nil:
		return decimal.Zero, calc.SkipNone, err
	default:
		in.LatestWeight = &w.Weight
	}

	totals, ok := cache[l.RationTableID]
	if !ok {
		t, err := s.totals.Totals(ctx, l.RationTableID)
		switch {
		case errors.Is(err, ErrNotFound):
		case err != nil:
			return decimal.Zero, calc.SkipNone, err
		default:
			totals = &t
		}
		cache[l.RationTableID] = totals
	}
	if totals == nil {
		return decimal.Zero, calc.SkipRationNotFound, nil
	}
	in.Table = *totals

	inc, reason := calc.FeedIncrement(in)
	if reason != calc.SkipNone {
		return decimal.Zero, reason, nil
	}
	err = runTx(ctx, s.animals.DB(), func(tx *gorm.DB) error {
		return s.animals.AddFeedCostTx(tx, l.AnimalID, inc)
	})
	if err != nil {
		return decimal.Zero, calc.SkipNone, err
	}
	return inc, calc.SkipNone, nil
}

func (s *feedCostService) ListRuns(ctx context.Context, limit int) ([]dto.FeedCostRunResponse, error) {
	if limit < 1 || limit > 500 {
		limit = 50
	}
	rows, err := s.runs.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FeedCostRunResponse, len(rows))
	for i := range rows {
		out[i] = feedCostRunToResponse(&rows[i])
	}
	return out, nil
}

func feedCostRunToResponse(r *model.FeedCostRun) dto.FeedCostRunResponse {
	return dto.FeedCostRunResponse{
		ID:             r.ID.String(),
		Trigger:        r.Trigger,
		StartedAt:      r.StartedAt,
		FinishedAt:     r.FinishedAt,
		Processed:      r.Processed,
		Skipped:        r.Skipped,
		TotalIncrement: r.TotalIncrement,
		SameDayRepeat:  r.SameDayRepeat,
	}
}
