package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/grievance-service/internal/domain"
)

// Sweeper marks stale grievances eligible for escalation.
type Sweeper interface {
	Sweep(ctx context.Context) ([]domain.Grievance, error)
}

// EligibilityWorker runs a Sweeper on a fixed interval.
type EligibilityWorker struct {
	sweeper  Sweeper
	interval time.Duration
	logger   *zap.Logger
}

// NewEligibilityWorker builds the worker.
func NewEligibilityWorker(sweeper Sweeper, interval time.Duration, logger *zap.Logger) *EligibilityWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EligibilityWorker{sweeper: sweeper, interval: interval, logger: logger}
}

// Run sweeps once immediately and then on every tick until ctx is done.
func (w *EligibilityWorker) Run(ctx context.Context) {
	if w.sweeper == nil || w.interval <= 0 {
		return
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.sweepOnce(ctx)
		select {
		case <-ctx.Done():
			w.logger.Info("eligibility worker stopped")
			return
		case <-ticker.C:
		}
	}
}

func (w *EligibilityWorker) sweepOnce(ctx context.Context) {
	if _, err := w.sweeper.Sweep(ctx); err != nil && ctx.Err() == nil {
		w.logger.Error("eligibility sweep failed", zap.Error(err))
	}
}
