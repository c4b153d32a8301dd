package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"mongovault/internal/clock"
	"mongovault/internal/database"
	"mongovault/internal/types"
	"mongovault/logger"
)

// staleRunningAge is how long a running entry may sit before a scan pass
// treats it as abandoned by a crashed process and finalizes it as failed.
const staleRunningAge = 6 * time.Hour

type (
	// ScannerService is the per-minute entry point: find due schedules and
	// run each one independently, in parallel, then report the aggregate.
	ScannerService interface {
		ScanDue(ctx context.Context, now time.Time) ([]*types.Schedule, error)
		RunDue(ctx context.Context, now time.Time) (types.ScanSummary, error)
	}

	scannerService struct {
		scheduleRepo database.ScheduleRepository
		runLogRepo   database.RunLogRepository
		executor     ExecutorService
	}
)

func NewScannerService(scheduleRepo database.ScheduleRepository, runLogRepo database.RunLogRepository, executor ExecutorService) ScannerService {
	return &scannerService{
		scheduleRepo: scheduleRepo,
		runLogRepo:   runLogRepo,
		executor:     executor,
	}
}

// ScanDue filters enabled schedules down to those due in the minute
// containing now. A malformed schedule is skipped and logged, never fatal
// to the scan. A schedule that already has a run starting inside the same
// window is not due again: two overlapping scans may both see it, only one
// run is recorded per window.
func (s scannerService) ScanDue(ctx context.Context, now time.Time) ([]*types.Schedule, error) {
	enabled, err := s.scheduleRepo.FindEnabled(ctx)
	if err != nil {
		return nil, err
	}

	due := make([]*types.Schedule, 0)
	for _, schedule := range enabled {
		if !clock.IsDue(schedule, now) {
			continue
		}

		windowStart, err := clock.WindowStart(schedule, now)
		if err != nil {
			logger.Warn("skipping malformed schedule",
				zap.String("schedule_id", schedule.ID.String()),
				zap.Error(err))
			continue
		}
		count, err := s.runLogRepo.CountStartedBetween(ctx, schedule.ID, windowStart, windowStart.Add(clock.Window))
		if err != nil {
			logger.Error("due-window check failed",
				zap.String("schedule_id", schedule.ID.String()),
				zap.Error(err))
			continue
		}
		if count > 0 {
			continue
		}

		due = append(due, schedule)
	}
	return due, nil
}

// RunDue executes every due schedule concurrently and waits for all of
// them. One schedule's failure never aborts another's run; the caller only
// sees counts.
func (s scannerService) RunDue(ctx context.Context, now time.Time) (types.ScanSummary, error) {
	s.reapStaleRunning(ctx, now)

	due, err := s.ScanDue(ctx, now)
	if err != nil {
		return types.ScanSummary{}, err
	}

	var (
		mu      sync.Mutex
		summary = types.ScanSummary{Total: len(due)}
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, schedule := range due {
		schedule := schedule
		g.Go(func() error {
			result := s.executor.Execute(gctx, schedule.ID)

			mu.Lock()
			defer mu.Unlock()
			if result.Success {
				summary.Executed++
			} else {
				summary.Failed++
			}
			return nil
		})
	}
	_ = g.Wait()

	logger.Info("due-schedule scan finished",
		zap.Int("total", summary.Total),
		zap.Int("executed", summary.Executed),
		zap.Int("failed", summary.Failed))
	return summary, nil
}

// reapStaleRunning finalizes entries a crashed process left in running.
// Their artifacts, if any, were never recorded, so the entries simply
// become failed with an explicit reason.
func (s scannerService) reapStaleRunning(ctx context.Context, now time.Time) {
	stale, err := s.runLogRepo.FindStaleRunning(ctx, now.Add(-staleRunningAge))
	if err != nil {
		logger.Error("stale-running query failed", zap.Error(err))
		return
	}

	for _, entry := range stale {
		outcome := types.RunOutcome{
			Status:      types.RunStatusFailed,
			CompletedAt: now,
			Err:         errors.New("run abandoned: executor did not finalize within 6h"),
		}
		if err := s.runLogRepo.Finalize(ctx, entry.ID, outcome); err != nil {
			logger.Error("failed to reap stale running entry",
				zap.String("log_id", entry.ID.String()),
				zap.Error(err))
			continue
		}
		logger.Warn("reaped stale running entry",
			zap.String("log_id", entry.ID.String()),
			zap.Time("started_at", entry.StartedAt))
	}
}
