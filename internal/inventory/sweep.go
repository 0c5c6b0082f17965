package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	pkgerrors "github.com/meradukaan/meradukaan-backend/pkg/errors"
	"github.com/meradukaan/meradukaan-backend/pkg/logger"
	"github.com/meradukaan/meradukaan-backend/pkg/metrics"
)

// SweepJobName labels sweep metrics and logs.
const SweepJobName = "inventory-heal"

const defaultSweepBatchSize = 100

type vendorLister interface {
	ListVendorIDs(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error)
}

type reconciler interface {
	Reconcile(ctx context.Context, vendorID uuid.UUID) (int, error)
}

// SweeperParams configure the stale-reference sweep.
type SweeperParams struct {
	Vendors   vendorLister
	Service   reconciler
	Lock      Lock
	Logger    *logger.Logger
	Metrics   *metrics.JobMetrics
	BatchSize int
}

// SweepResult summarises one sweep.
type SweepResult struct {
	Skipped bool
	Vendors int
	Pruned  int
	Failed  int
}

// Sweeper prunes entries referencing deleted catalog products across every
// vendor record.
type Sweeper struct {
	vendors   vendorLister
	service   reconciler
	lock      Lock
	logg      *logger.Logger
	metrics   *metrics.JobMetrics
	batchSize int
}

// NewSweeper builds a sweeper.
func NewSweeper(params SweeperParams) (*Sweeper, error) {
	if params.Vendors == nil {
		return nil, fmt.Errorf("vendor lister required")
	}
	if params.Service == nil {
		return nil, fmt.Errorf("inventory service required")
	}
	if params.Lock == nil {
		return nil, fmt.Errorf("lock required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = defaultSweepBatchSize
	}
	return &Sweeper{
		vendors:   params.Vendors,
		service:   params.Service,
		lock:      params.Lock,
		logg:      params.Logger,
		metrics:   params.Metrics,
		batchSize: batch,
	}, nil
}

// Run walks all vendor records once. Per-vendor failures are collected and
// returned together; they do not stop the walk.
func (s *Sweeper) Run(ctx context.Context) (SweepResult, error) {
	var result SweepResult

	locked, err := s.lock.Acquire(ctx)
	if err != nil {
		return result, fmt.Errorf("lock acquire: %w", err)
	}
	if !locked {
		s.logg.Info(ctx, "another inventory sweep is running; skipping")
		result.Skipped = true
		return result, nil
	}
	defer func() {
		if relErr := s.lock.Release(context.WithoutCancel(ctx)); relErr != nil {
			s.logg.Error(ctx, "failed to release sweep lock", relErr)
		}
	}()

	jobCtx := s.logg.WithField(ctx, "job", SweepJobName)
	s.logg.Info(jobCtx, "job start")
	start := time.Now()

	var errs error
	cursor := uuid.Nil
	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			errs = multierr.Append(errs, ctxErr)
			break
		}
		ids, listErr := s.vendors.ListVendorIDs(ctx, cursor, s.batchSize)
		if listErr != nil {
			errs = multierr.Append(errs, fmt.Errorf("list vendors after %s: %w", cursor, listErr))
			break
		}
		for _, vendorID := range ids {
			result.Vendors++
			removed, recErr := s.service.Reconcile(ctx, vendorID)
			// a vendor write between load and save is retried once
			if recErr != nil && pkgerrors.IsRetryable(recErr) {
				removed, recErr = s.service.Reconcile(ctx, vendorID)
			}
			if recErr != nil {
				result.Failed++
				errs = multierr.Append(errs, fmt.Errorf("vendor %s: %w", vendorID, recErr))
				continue
			}
			result.Pruned += removed
		}
		if len(ids) < s.batchSize {
			break
		}
		cursor = ids[len(ids)-1]
	}

	duration := time.Since(start)
	s.metrics.ObserveDuration(SweepJobName, duration)
	jobCtx = s.logg.WithFields(jobCtx, map[string]any{
		"duration_ms": duration.Milliseconds(),
		"vendors":     result.Vendors,
		"pruned":      result.Pruned,
		"failed":      result.Failed,
	})
	if errs != nil {
		s.metrics.IncFailure(SweepJobName)
		s.logg.Error(jobCtx, "job failed", errs)
		return result, errs
	}
	s.metrics.IncSuccess(SweepJobName)
	s.logg.Info(jobCtx, "job completed")
	return result, nil
}
