package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/multierr"
)

type fakeLinkRepo struct {
	missing  map[enums.PrincipalKind][]uuid.UUID
	failures map[uuid.UUID]int
	listErr  error
	created  []uuid.UUID
	calls    map[uuid.UUID]int
	limits   []int
}

func newFakeLinkRepo() *fakeLinkRepo {
	return &fakeLinkRepo{
		missing:  map[enums.PrincipalKind][]uuid.UUID{},
		failures: map[uuid.UUID]int{},
		calls:    map[uuid.UUID]int{},
	}
}

func (f *fakeLinkRepo) ListMissing(ctx context.Context, kind enums.PrincipalKind, limit int) ([]uuid.UUID, error) {
	f.limits = append(f.limits, limit)
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.missing[kind], nil
}

func (f *fakeLinkRepo) Create(ctx context.Context, myID uuid.UUID) error {
	f.calls[myID]++
	if f.failures[myID] > 0 {
		f.failures[myID]--
		return errors.New("transient")
	}
	f.created = append(f.created, myID)
	return nil
}

func newLinkReconcileJob(t *testing.T, repo *fakeLinkRepo) Job {
	t.Helper()
	job, err := NewLinkReconcileJob(LinkReconcileJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "test"}),
		Repository: repo,
		BatchSize:  10,
		Attempts:   3,
		Backoff:    time.Millisecond,
	})
	if err != nil {
		t.Fatalf("NewLinkReconcileJob: %v", err)
	}
	return job
}

func TestLinkReconcileJobCreatesMissingLinks(t *testing.T) {
	repo := newFakeLinkRepo()
	seller, customer := uuid.New(), uuid.New()
	repo.missing[enums.PrincipalKindSeller] = []uuid.UUID{seller}
	repo.missing[enums.PrincipalKindCustomer] = []uuid.UUID{customer}
	repo.failures[customer] = 2

	if err := newLinkReconcileJob(t, repo).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(repo.created) != 2 {
		t.Fatalf("expected 2 links created, got %v", repo.created)
	}
	if repo.calls[customer] != 3 {
		t.Fatalf("expected transient failures to be retried, got %d calls", repo.calls[customer])
	}
	for _, limit := range repo.limits {
		if limit != 10 {
			t.Fatalf("expected batch size 10, got %d", limit)
		}
	}
}

func TestLinkReconcileJobAggregatesFailures(t *testing.T) {
	repo := newFakeLinkRepo()
	bad, good := uuid.New(), uuid.New()
	repo.missing[enums.PrincipalKindSeller] = []uuid.UUID{bad, good}
	repo.failures[bad] = 10

	err := newLinkReconcileJob(t, repo).Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if got := len(multierr.Errors(err)); got != 1 {
		t.Fatalf("expected one aggregated error, got %d: %v", got, err)
	}
	if repo.calls[bad] != 3 {
		t.Fatalf("expected 3 attempts for failing link, got %d", repo.calls[bad])
	}
	if len(repo.created) != 1 || repo.created[0] != good {
		t.Fatalf("expected remaining link to be created, got %v", repo.created)
	}
}

func TestLinkReconcileJobListFailure(t *testing.T) {
	repo := newFakeLinkRepo()
	repo.listErr = errors.New("db down")

	err := newLinkReconcileJob(t, repo).Run(context.Background())
	if got := len(multierr.Errors(err)); got != 2 {
		t.Fatalf("expected a list error per kind, got %d: %v", got, err)
	}
}

func TestNewLinkReconcileJobRequiresDependencies(t *testing.T) {
	if _, err := NewLinkReconcileJob(LinkReconcileJobParams{}); err == nil {
		t.Fatal("expected error without logger")
	}
	if _, err := NewLinkReconcileJob(LinkReconcileJobParams{Logger: logger.New(logger.Options{ServiceName: "test"})}); err == nil {
		t.Fatal("expected error without repository")
	}
}
