package sweep

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropradar/dropstack/config"
	"github.com/dropradar/dropstack/interfaces"
	"github.com/dropradar/dropstack/internal/enum"
	"github.com/dropradar/dropstack/internal/logger"
	"github.com/dropradar/dropstack/internal/models"
)

var sweepNow = time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC)

type lifecycleUpdate struct {
	domainName    string
	status        enum.DomainStatus
	daysUntilDrop int
}

type fakeRepository struct {
	interfaces.DomainRecordRepository

	records       []models.DomainRecord
	updates       []lifecycleUpdate
	droppedCutoff time.Time
	purgedDropped int64
	scopePurges   int
	purgedScope   int64
	counts        map[string]int
}

func (f *fakeRepository) GetAllNotDropped(ctx context.Context) ([]models.DomainRecord, error) {
	return f.records, nil
}

func (f *fakeRepository) UpdateLifecycle(ctx context.Context, domainName string, status enum.DomainStatus, daysUntilDrop int) error {
	f.updates = append(f.updates, lifecycleUpdate{domainName, status, daysUntilDrop})
	return nil
}

func (f *fakeRepository) DeleteDroppedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	f.droppedCutoff = cutoff
	return f.purgedDropped, nil
}

func (f *fakeRepository) DeleteOutsideWindow(ctx context.Context, maxDaysOut int, now time.Time) (int64, error) {
	f.scopePurges++
	return f.purgedScope, nil
}

func (f *fakeRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	return f.counts, nil
}

func record(name string, daysSinceExpiry int, status enum.DomainStatus, daysUntilDrop int) models.DomainRecord {
	expiry := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -daysSinceExpiry)
	return models.DomainRecord{
		DomainName:    name,
		ExpiryDate:    expiry,
		DropDate:      expiry.AddDate(0, 0, 75),
		Status:        status,
		DaysUntilDrop: daysUntilDrop,
	}
}

func newTestSweep(t *testing.T, cfg *config.SweepConfig, repo *fakeRepository) *sweepService {
	t.Helper()
	log := logger.NewAppLogger(&logger.Config{DevMode: true})
	log.InitLogger()
	svc := NewSweepService(cfg, log, repo).(*sweepService)
	svc.now = func() time.Time { return sweepNow }
	return svc
}

func TestRun_RecomputesOnlyChangedRecords(t *testing.T) {
	repo := &fakeRepository{
		records: []models.DomainRecord{
			// 65 days since expiry puts it in pending_delete with 10 days left;
			// the stale row still says redemption
			record("stale.com", 65, enum.DomainStatusRedemption, 15),
			// already correct, must not be rewritten
			record("fresh.com", 70, enum.DomainStatusPendingDelete, 5),
		},
		counts: map[string]int{"pending_delete": 2},
	}

	svc := newTestSweep(t, &config.SweepConfig{DroppedRetentionDays: 30}, repo)
	summary, err := svc.Run(context.Background())

	require.NoError(t, err)
	require.Equal(t, 2, summary.Scanned)
	require.Equal(t, 1, summary.Updated)
	require.Equal(t, []lifecycleUpdate{{"stale.com", enum.DomainStatusPendingDelete, 10}}, repo.updates)
	require.Equal(t, map[string]int{"pending_delete": 2}, summary.StatusCounts)
}

func TestRun_PurgesDroppedTail(t *testing.T) {
	repo := &fakeRepository{purgedDropped: 4}

	svc := newTestSweep(t, &config.SweepConfig{DroppedRetentionDays: 30}, repo)
	summary, err := svc.Run(context.Background())

	require.NoError(t, err)
	require.Equal(t, 4, summary.PurgedDropped)
	require.Equal(t, time.Date(2026, 7, 29, 0, 0, 0, 0, time.UTC), repo.droppedCutoff)
}

func TestRun_ScopePurgeOnlyWhenEnabled(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		repo := &fakeRepository{purgedScope: 7}
		svc := newTestSweep(t, &config.SweepConfig{DroppedRetentionDays: 30}, repo)

		summary, err := svc.Run(context.Background())
		require.NoError(t, err)
		require.Zero(t, repo.scopePurges)
		require.Zero(t, summary.PurgedScope)
	})

	t.Run("enabled", func(t *testing.T) {
		repo := &fakeRepository{purgedScope: 7}
		svc := newTestSweep(t, &config.SweepConfig{DroppedRetentionDays: 30, ScopeEnabled: true, MaxDaysOut: 14}, repo)

		summary, err := svc.Run(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, repo.scopePurges)
		require.Equal(t, 7, summary.PurgedScope)
	})
}

func TestRun_StatusTransitionAcrossBands(t *testing.T) {
	repo := &fakeRepository{
		records: []models.DomainRecord{
			record("aging.com", 76, enum.DomainStatusPendingDelete, 0),
		},
	}

	svc := newTestSweep(t, &config.SweepConfig{DroppedRetentionDays: 30}, repo)
	summary, err := svc.Run(context.Background())

	require.NoError(t, err)
	require.Equal(t, 1, summary.Updated)
	require.Equal(t, enum.DomainStatusDropped, repo.updates[0].status)
	require.Equal(t, -1, repo.updates[0].daysUntilDrop)
}
