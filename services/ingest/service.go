package ingest

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/opentracing/opentracing-go"
	tracingLog "github.com/opentracing/opentracing-go/log"
	"github.com/pkg/errors"

	"github.com/dropradar/dropstack/config"
	"github.com/dropradar/dropstack/interfaces"
	"github.com/dropradar/dropstack/internal/enum"
	"github.com/dropradar/dropstack/internal/lifecycle"
	"github.com/dropradar/dropstack/internal/logger"
	"github.com/dropradar/dropstack/internal/models"
	"github.com/dropradar/dropstack/internal/tracing"
	"github.com/dropradar/dropstack/internal/utils"
	"github.com/dropradar/dropstack/services/scoring"
)

// scoredCandidate pairs a feed candidate with its quality breakdown for the
// rank-and-truncate step between scoring and validation
type scoredCandidate struct {
	candidate models.CandidateDomain
	score     models.QualityScore
}

type ingestService struct {
	cfg           *config.IngestConfig
	validationCfg *config.ValidationConfig
	log           logger.Logger
	feed          interfaces.FeedService
	scorer        interfaces.ScoringService
	validator     interfaces.AvailabilityService
	repository    interfaces.DomainRecordRepository
	publisher     interfaces.EventPublisher // nil when RabbitMQ is not configured

	// injectable for tests
	sleep func(time.Duration)
	now   func() time.Time
}

func NewIngestService(
	cfg *config.IngestConfig,
	validationCfg *config.ValidationConfig,
	log logger.Logger,
	feed interfaces.FeedService,
	scorer interfaces.ScoringService,
	validator interfaces.AvailabilityService,
	repository interfaces.DomainRecordRepository,
	publisher interfaces.EventPublisher,
) interfaces.IngestService {
	return &ingestService{
		cfg:           cfg,
		validationCfg: validationCfg,
		log:           log,
		feed:          feed,
		scorer:        scorer,
		validator:     validator,
		repository:    repository,
		publisher:     publisher,
		sleep:         time.Sleep,
		now:           utils.Now,
	}
}

// Run drives one full ingestion pass: fetch, score-gate, rank, validate
// sequentially under rate limiting, upsert survivors. A feed failure aborts
// the run; a single candidate failing only skips that candidate.
func (s *ingestService) Run(ctx context.Context) (models.IngestSummary, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "IngestService.Run")
	defer span.Finish()
	tracing.TagComponentService(span)

	summary := models.IngestSummary{}

	candidates, err := s.feed.FetchCandidates(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		return summary, errors.Wrap(err, "feed acquisition failed")
	}
	summary.Fetched = len(candidates)
	s.log.Infof("Ingestion run started with %d candidates", len(candidates))

	survivors := s.scoreAndRank(candidates, &summary)

	cooldown := 0
	for i, sc := range survivors {
		if err := ctx.Err(); err != nil {
			tracing.TraceErr(span, err)
			return summary, err
		}
		// fixed inter-candidate delay, the upstreams rate limit aggressively
		if i > 0 && s.cfg.RequestDelayMs > 0 {
			s.sleep(time.Duration(s.cfg.RequestDelayMs) * time.Millisecond)
		}

		verdict := s.validate(ctx, sc.candidate.DomainName)

		if verdict.WhoisFailed {
			summary.WhoisFailures++
			cooldown++
			if s.cfg.FailureThreshold > 0 && cooldown >= s.cfg.FailureThreshold {
				s.log.Warnf("%d consecutive WHOIS failures, cooling down for %ds", cooldown, s.cfg.CooldownSeconds)
				summary.CooldownSleeps++
				s.sleep(time.Duration(s.cfg.CooldownSeconds) * time.Second)
				cooldown = 0
			}
		} else {
			cooldown = 0
		}

		if verdict.Outcome != enum.VerdictConfirmed {
			summary.Registered++
			s.log.Debugf("Rejected %s: %s", sc.candidate.DomainName, verdict.Reason)
			continue
		}

		if err := s.upsert(ctx, sc); err != nil {
			s.log.Errorf("Failed to store %s: %v", sc.candidate.DomainName, err)
			continue
		}

		summary.Accepted++
		switch sc.score.Tier() {
		case enum.QualityTierPremium:
			summary.Premium++
		case enum.QualityTierGood:
			summary.Good++
		default:
			summary.Average++
		}
	}

	s.log.Infof("Ingestion run finished: %d fetched, %d accepted, %d low score, %d registered, %d whois failures",
		summary.Fetched, summary.Accepted, summary.LowScore, summary.Registered, summary.WhoisFailures)
	span.LogFields(
		tracingLog.Int("result.fetched", summary.Fetched),
		tracingLog.Int("result.accepted", summary.Accepted),
		tracingLog.Int("result.lowScore", summary.LowScore),
		tracingLog.Int("result.registered", summary.Registered),
	)
	return summary, nil
}

// scoreAndRank gates by minimum score, then sorts survivors by score
// descending and truncates to the per-run candidate budget so the expensive
// validation stage stays bounded
func (s *ingestService) scoreAndRank(candidates []models.CandidateDomain, summary *models.IngestSummary) []scoredCandidate {
	var survivors []scoredCandidate
	for _, candidate := range candidates {
		score := s.scorer.Score(candidate.DomainName)
		if score.Total < s.cfg.MinScore {
			summary.LowScore++
			continue
		}
		survivors = append(survivors, scoredCandidate{candidate: candidate, score: score})
	}

	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].score.Total > survivors[j].score.Total
	})

	if s.cfg.MaxCandidates > 0 && len(survivors) > s.cfg.MaxCandidates {
		survivors = survivors[:s.cfg.MaxCandidates]
	}
	return survivors
}

func (s *ingestService) validate(ctx context.Context, domain string) models.ValidationVerdict {
	if !s.validationCfg.Enabled {
		return models.ValidationVerdict{
			Outcome: enum.VerdictConfirmed,
			Reason:  "availability validation disabled",
		}
	}
	return s.validator.Validate(ctx, domain)
}

func (s *ingestService) upsert(ctx context.Context, sc scoredCandidate) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "IngestService.upsert")
	defer span.Finish()
	tracing.TagComponentService(span)
	tracing.TagDomain(span, sc.candidate.DomainName)

	now := s.now()
	record := &models.DomainRecord{
		DomainName:      sc.candidate.DomainName,
		Tld:             utils.ExtractTld(sc.candidate.DomainName),
		ExpiryDate:      sc.candidate.ExpiryDate,
		DropDate:        sc.candidate.DropDate,
		DaysUntilDrop:   lifecycle.DaysUntilDrop(sc.candidate.DropDate, now),
		Status:          lifecycle.StatusFromExpiry(sc.candidate.ExpiryDate, now),
		Registrar:       sc.candidate.Registrar,
		PopularityScore: sc.score.Total,
		Category:        scoring.CategoryForBadges(sc.score.Badges),
		Slug:            utils.DomainSlug(sc.candidate.DomainName),
		Title:           buildTitle(sc.candidate.DomainName),
		Badges:          sc.score.Badges,
		Metadata:        models.JSONMapOf(sc.score),
	}

	if err := s.repository.Upsert(ctx, record); err != nil {
		tracing.TraceErr(span, err)
		return err
	}

	s.publishConfirmed(ctx, record)
	return nil
}

// publishConfirmed is best-effort: a broker outage must not lose the record
// that was already stored
func (s *ingestService) publishConfirmed(ctx context.Context, record *models.DomainRecord) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishDomainConfirmed(ctx, record); err != nil {
		s.log.Warnf("Failed to publish confirmation event for %s: %v", record.DomainName, err)
	}
}

func buildTitle(domain string) string {
	name := utils.ExtractName(domain)
	if name == "" {
		return domain
	}
	return strings.ToUpper(name[:1]) + name[1:] + "." + utils.ExtractTld(domain)
}
