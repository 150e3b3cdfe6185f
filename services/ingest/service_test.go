package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/dropradar/dropstack/config"
	"github.com/dropradar/dropstack/interfaces"
	"github.com/dropradar/dropstack/internal/enum"
	"github.com/dropradar/dropstack/internal/logger"
	"github.com/dropradar/dropstack/internal/models"
)

var ingestNow = time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)

type fakeFeed struct {
	candidates []models.CandidateDomain
	err        error
}

func (f *fakeFeed) FetchCandidates(ctx context.Context) ([]models.CandidateDomain, error) {
	return f.candidates, f.err
}

type fakeScorer struct {
	totals map[string]int
}

func (f *fakeScorer) Score(domain string) models.QualityScore {
	total := f.totals[domain]
	return models.QualityScore{Total: total, NameQuality: total / 4}
}

type fakeValidator struct {
	verdicts map[string]models.ValidationVerdict
	calls    []string
}

func (f *fakeValidator) Validate(ctx context.Context, domain string) models.ValidationVerdict {
	f.calls = append(f.calls, domain)
	if v, ok := f.verdicts[domain]; ok {
		return v
	}
	return models.ValidationVerdict{Outcome: enum.VerdictConfirmed, Reason: "ok"}
}

type fakeRepository struct {
	interfaces.DomainRecordRepository
	records map[string]*models.DomainRecord
	upserts int
}

func (f *fakeRepository) Upsert(ctx context.Context, record *models.DomainRecord) error {
	if f.records == nil {
		f.records = map[string]*models.DomainRecord{}
	}
	f.upserts++
	f.records[record.DomainName] = record
	return nil
}

type fakePublisher struct {
	published []string
}

func (f *fakePublisher) PublishDomainConfirmed(ctx context.Context, record *models.DomainRecord) error {
	f.published = append(f.published, record.DomainName)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

type recordedSleep struct {
	durations []time.Duration
}

func (r *recordedSleep) sleep(d time.Duration) {
	r.durations = append(r.durations, d)
}

func candidate(name string, daysToDrop int) models.CandidateDomain {
	drop := ingestNow.Truncate(24 * time.Hour).AddDate(0, 0, daysToDrop)
	return models.CandidateDomain{
		DomainName: name,
		DropDate:   drop,
		ExpiryDate: drop.AddDate(0, 0, -75),
		Registrar:  "Acme Registrar",
	}
}

func newTestIngest(
	t *testing.T,
	cfg *config.IngestConfig,
	feed *fakeFeed,
	scorer *fakeScorer,
	validator *fakeValidator,
	repo *fakeRepository,
	publisher interfaces.EventPublisher,
) (*ingestService, *recordedSleep) {
	t.Helper()
	log := logger.NewAppLogger(&logger.Config{DevMode: true})
	log.InitLogger()

	svc := NewIngestService(
		cfg,
		&config.ValidationConfig{Enabled: true},
		log,
		feed,
		scorer,
		validator,
		repo,
		publisher,
	).(*ingestService)

	sleeper := &recordedSleep{}
	svc.sleep = sleeper.sleep
	svc.now = func() time.Time { return ingestNow }
	return svc, sleeper
}

func TestRun_ScoreGateSkipsValidation(t *testing.T) {
	feed := &fakeFeed{candidates: []models.CandidateDomain{
		candidate("keeper.com", 3),
		candidate("junk.biz", 3),
	}}
	scorer := &fakeScorer{totals: map[string]int{"keeper.com": 70, "junk.biz": 10}}
	validator := &fakeValidator{}
	repo := &fakeRepository{}

	svc, _ := newTestIngest(t, &config.IngestConfig{MinScore: 40}, feed, scorer, validator, repo, nil)
	summary, err := svc.Run(context.Background())

	require.NoError(t, err)
	require.Equal(t, 2, summary.Fetched)
	require.Equal(t, 1, summary.LowScore)
	require.Equal(t, 1, summary.Accepted)
	require.Equal(t, []string{"keeper.com"}, validator.calls)
}

func TestRun_RankAndTruncate(t *testing.T) {
	feed := &fakeFeed{candidates: []models.CandidateDomain{
		candidate("bronze.com", 3),
		candidate("gold.com", 3),
		candidate("silver.com", 3),
	}}
	scorer := &fakeScorer{totals: map[string]int{"bronze.com": 50, "gold.com": 90, "silver.com": 70}}
	validator := &fakeValidator{}
	repo := &fakeRepository{}

	svc, _ := newTestIngest(t, &config.IngestConfig{MinScore: 40, MaxCandidates: 2}, feed, scorer, validator, repo, nil)
	summary, err := svc.Run(context.Background())

	require.NoError(t, err)
	require.Equal(t, []string{"gold.com", "silver.com"}, validator.calls)
	require.Equal(t, 2, summary.Accepted)
}

func TestRun_UpsertedRecordShape(t *testing.T) {
	feed := &fakeFeed{candidates: []models.CandidateDomain{candidate("getcloudhub.com", 3)}}
	scorer := &fakeScorer{totals: map[string]int{"getcloudhub.com": 61}}
	validator := &fakeValidator{}
	repo := &fakeRepository{}
	publisher := &fakePublisher{}

	svc, _ := newTestIngest(t, &config.IngestConfig{MinScore: 40}, feed, scorer, validator, repo, publisher)
	_, err := svc.Run(context.Background())
	require.NoError(t, err)

	record := repo.records["getcloudhub.com"]
	require.NotNil(t, record)
	require.Equal(t, enum.DomainStatusPendingDelete, record.Status)
	require.Equal(t, 3, record.DaysUntilDrop)
	require.Equal(t, "com", record.Tld)
	require.Equal(t, "getcloudhub-com", record.Slug)
	require.Equal(t, "Getcloudhub.com", record.Title)
	require.Equal(t, 61, record.PopularityScore)
	require.NotNil(t, record.Metadata)
	require.Equal(t, []string{"getcloudhub.com"}, publisher.published)
}

func TestRun_Idempotent(t *testing.T) {
	feed := &fakeFeed{candidates: []models.CandidateDomain{candidate("stable.com", 3)}}
	scorer := &fakeScorer{totals: map[string]int{"stable.com": 70}}
	repo := &fakeRepository{}

	svc, _ := newTestIngest(t, &config.IngestConfig{MinScore: 40}, feed, scorer, &fakeValidator{}, repo, nil)

	_, err := svc.Run(context.Background())
	require.NoError(t, err)
	_, err = svc.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, 2, repo.upserts)
	require.Len(t, repo.records, 1)
}

func TestRun_CooldownFiresPerThresholdMultiple(t *testing.T) {
	var candidates []models.CandidateDomain
	totals := map[string]int{}
	verdicts := map[string]models.ValidationVerdict{}
	names := []string{"a.com", "b.com", "c.com", "d.com", "e.com", "f.com", "g.com"}
	for _, name := range names {
		candidates = append(candidates, candidate(name, 3))
		totals[name] = 70
		verdicts[name] = models.ValidationVerdict{
			Outcome:     enum.VerdictRejected,
			Reason:      "WHOIS unreachable and DNS inconclusive",
			WhoisFailed: true,
		}
	}
	feed := &fakeFeed{candidates: candidates}
	repo := &fakeRepository{}

	cfg := &config.IngestConfig{MinScore: 40, FailureThreshold: 3, CooldownSeconds: 30}
	svc, sleeper := newTestIngest(t, cfg, feed, &fakeScorer{totals: totals}, &fakeValidator{verdicts: verdicts}, repo, nil)

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)

	// 7 consecutive failures with threshold 3: cooldown after the 3rd and
	// the 6th, counter resets after each sleep
	require.Equal(t, 2, summary.CooldownSleeps)
	require.Equal(t, 7, summary.WhoisFailures)
	require.Equal(t, []time.Duration{30 * time.Second, 30 * time.Second}, sleeper.durations)
}

func TestRun_CooldownCounterResetsOnSuccess(t *testing.T) {
	names := []string{"a.com", "b.com", "ok.com", "c.com", "d.com"}
	var candidates []models.CandidateDomain
	totals := map[string]int{}
	verdicts := map[string]models.ValidationVerdict{}
	for _, name := range names {
		candidates = append(candidates, candidate(name, 3))
		totals[name] = 70
		if name != "ok.com" {
			verdicts[name] = models.ValidationVerdict{
				Outcome:     enum.VerdictRejected,
				Reason:      "WHOIS unreachable and DNS inconclusive",
				WhoisFailed: true,
			}
		}
	}
	feed := &fakeFeed{candidates: candidates}

	cfg := &config.IngestConfig{MinScore: 40, FailureThreshold: 3, CooldownSeconds: 30}
	svc, sleeper := newTestIngest(t, cfg, feed, &fakeScorer{totals: totals}, &fakeValidator{verdicts: verdicts}, &fakeRepository{}, nil)

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)

	require.Zero(t, summary.CooldownSleeps)
	require.Empty(t, sleeper.durations)
	require.Equal(t, 4, summary.WhoisFailures)
	require.Equal(t, 1, summary.Accepted)
}

func TestRun_TierBreakdown(t *testing.T) {
	feed := &fakeFeed{candidates: []models.CandidateDomain{
		candidate("premium.com", 3),
		candidate("good.com", 3),
		candidate("average.com", 3),
	}}
	scorer := &fakeScorer{totals: map[string]int{"premium.com": 85, "good.com": 65, "average.com": 45}}
	repo := &fakeRepository{}

	svc, _ := newTestIngest(t, &config.IngestConfig{MinScore: 40}, feed, scorer, &fakeValidator{}, repo, nil)
	summary, err := svc.Run(context.Background())

	require.NoError(t, err)
	require.Equal(t, 3, summary.Accepted)
	require.Equal(t, 1, summary.Premium)
	require.Equal(t, 1, summary.Good)
	require.Equal(t, 1, summary.Average)
}

func TestRun_ValidationDisabledBypass(t *testing.T) {
	feed := &fakeFeed{candidates: []models.CandidateDomain{candidate("trusty.com", 3)}}
	scorer := &fakeScorer{totals: map[string]int{"trusty.com": 70}}
	validator := &fakeValidator{}
	repo := &fakeRepository{}

	svc, _ := newTestIngest(t, &config.IngestConfig{MinScore: 40}, feed, scorer, validator, repo, nil)
	svc.validationCfg = &config.ValidationConfig{Enabled: false}

	summary, err := svc.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, summary.Accepted)
	require.Empty(t, validator.calls)
}

func TestRun_FeedFailureIsFatal(t *testing.T) {
	feed := &fakeFeed{err: errors.New("upstream down")}
	svc, _ := newTestIngest(t, &config.IngestConfig{}, feed, &fakeScorer{}, &fakeValidator{}, &fakeRepository{}, nil)

	_, err := svc.Run(context.Background())
	require.Error(t, err)
}

func TestRun_InterCandidateDelay(t *testing.T) {
	feed := &fakeFeed{candidates: []models.CandidateDomain{
		candidate("first.com", 3),
		candidate("second.com", 3),
		candidate("third.com", 3),
	}}
	scorer := &fakeScorer{totals: map[string]int{"first.com": 70, "second.com": 70, "third.com": 70}}

	svc, sleeper := newTestIngest(t, &config.IngestConfig{MinScore: 40, RequestDelayMs: 100}, feed, scorer, &fakeValidator{}, &fakeRepository{}, nil)
	_, err := svc.Run(context.Background())

	require.NoError(t, err)
	// no delay before the first candidate
	require.Equal(t, []time.Duration{100 * time.Millisecond, 100 * time.Millisecond}, sleeper.durations)
}
