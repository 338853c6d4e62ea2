package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/multierr"
)

const (
	defaultLinkBatchSize = 200
	defaultLinkAttempts  = 3
	defaultLinkBackoff   = 100 * time.Millisecond
)

// LinkReconcileJobParams configures the job that backfills missing seller/customer links.
type LinkReconcileJobParams struct {
	Logger     *logger.Logger
	Repository linkReconcileRepo
	BatchSize  int
	Attempts   uint64
	Backoff    time.Duration
}

type linkReconcileRepo interface {
	ListMissing(ctx context.Context, kind enums.PrincipalKind, limit int) ([]uuid.UUID, error)
	Create(ctx context.Context, myID uuid.UUID) error
}

func NewLinkReconcileJob(params LinkReconcileJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("link repository required")
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = defaultLinkBatchSize
	}
	attempts := params.Attempts
	if attempts == 0 {
		attempts = defaultLinkAttempts
	}
	backoff := params.Backoff
	if backoff <= 0 {
		backoff = defaultLinkBackoff
	}
	return &linkReconcileJob{
		logg:     params.Logger,
		repo:     params.Repository,
		batch:    batch,
		attempts: attempts,
		backoff:  backoff,
	}, nil
}

type linkReconcileJob struct {
	logg     *logger.Logger
	repo     linkReconcileRepo
	batch    int
	attempts uint64
	backoff  time.Duration
}

func (j *linkReconcileJob) Name() string { return "link-reconcile" }

func (j *linkReconcileJob) Run(ctx context.Context) error {
	var errs error
	for _, kind := range []enums.PrincipalKind{enums.PrincipalKindSeller, enums.PrincipalKindCustomer} {
		errs = multierr.Append(errs, j.reconcileKind(ctx, kind))
	}
	return errs
}

func (j *linkReconcileJob) reconcileKind(ctx context.Context, kind enums.PrincipalKind) error {
	kindCtx := j.logg.WithPrincipalKind(ctx, string(kind))
	missing, err := j.repo.ListMissing(kindCtx, kind, j.batch)
	if err != nil {
		return fmt.Errorf("list %s without links: %w", kind, err)
	}

	var errs error
	created := 0
	for _, id := range missing {
		if err := j.createWithRetry(kindCtx, id); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("link %s %s: %w", kind, id, err))
			continue
		}
		created++
	}
	reportCtx := j.logg.WithFields(kindCtx, map[string]any{
		"candidates": len(missing),
		"created":    created,
	})
	j.logg.Info(reportCtx, "link reconcile complete")
	return errs
}

func (j *linkReconcileJob) createWithRetry(ctx context.Context, id uuid.UUID) error {
	backoff := retry.WithMaxRetries(j.attempts-1, retry.NewExponential(j.backoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := j.repo.Create(ctx, id); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}
