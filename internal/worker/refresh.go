package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/statusdeck/statusdeck/internal/monitor"
	"github.com/statusdeck/statusdeck/internal/status"
)

// RefreshJob drives refresh cycles on the monitor service, either on a
// schedule or on demand from the queue handler.
type RefreshJob struct {
	config  RefreshConfig
	monitor *monitor.Service
	logger  zerolog.Logger
}

// RefreshJobConfig holds configuration for creating a RefreshJob.
type RefreshJobConfig struct {
	Config  RefreshConfig
	Monitor *monitor.Service
	Logger  zerolog.Logger
}

// NewRefreshJob creates a new refresh job processor.
func NewRefreshJob(cfg RefreshJobConfig) *RefreshJob {
	return &RefreshJob{
		config:  cfg.Config.withDefaults(),
		monitor: cfg.Monitor,
		logger:  cfg.Logger,
	}
}

// RefreshResult contains the result of one refresh cycle.
type RefreshResult struct {
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
	Services     int
	FailedChecks int64
	Overall      status.Status
}

// Run executes one refresh cycle within the configured timeout.
func (j *RefreshJob) Run(ctx context.Context) (*RefreshResult, error) {
	runCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	startTime := time.Now()
	before := j.monitor.Metrics()

	snapshot, err := j.monitor.Refresh(runCtx)
	if err != nil {
		return nil, fmt.Errorf("running refresh cycle: %w", err)
	}

	after := j.monitor.Metrics()
	result := &RefreshResult{
		StartTime:    startTime,
		EndTime:      time.Now(),
		Services:     len(snapshot.Services),
		FailedChecks: after.FailedChecks - before.FailedChecks,
		Overall:      snapshot.Overall,
	}
	result.Duration = result.EndTime.Sub(result.StartTime)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("services", result.Services).
		Int64("failed_checks", result.FailedChecks).
		Str("overall", string(result.Overall)).
		Msg("refresh job completed")

	return result, nil
}

// RunPeriodic refreshes on the configured interval until ctx is
// cancelled. An immediate cycle runs first so the snapshot is available
// without waiting a full interval.
func (j *RefreshJob) RunPeriodic(ctx context.Context) {
	j.logger.Info().
		Dur("interval", j.config.Interval).
		Msg("starting periodic refresh")

	if _, err := j.Run(ctx); err != nil {
		j.logger.Error().Err(err).Msg("initial refresh failed")
	}

	ticker := time.NewTicker(j.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info().Msg("periodic refresh stopped")
			return
		case <-ticker.C:
			if _, err := j.Run(ctx); err != nil {
				j.logger.Error().Err(err).Msg("periodic refresh failed")
			}
		}
	}
}

// CheckFreshness verifies the current snapshot exists and is not
// stale. Used by the health check job to detect a wedged refresh loop.
func (j *RefreshJob) CheckFreshness() error {
	snapshot, err := j.monitor.Snapshot()
	if err != nil {
		return fmt.Errorf("checking snapshot: %w", err)
	}

	age := time.Since(snapshot.RefreshedAt)
	if age > j.config.MaxSnapshotAge {
		return fmt.Errorf("snapshot is stale: refreshed %s ago (max %s)", age.Round(time.Second), j.config.MaxSnapshotAge)
	}
	return nil
}
