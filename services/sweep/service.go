package sweep

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	tracingLog "github.com/opentracing/opentracing-go/log"
	"github.com/pkg/errors"

	"github.com/dropradar/dropstack/config"
	"github.com/dropradar/dropstack/interfaces"
	"github.com/dropradar/dropstack/internal/lifecycle"
	"github.com/dropradar/dropstack/internal/logger"
	"github.com/dropradar/dropstack/internal/models"
	"github.com/dropradar/dropstack/internal/tracing"
	"github.com/dropradar/dropstack/internal/utils"
)

type sweepService struct {
	cfg        *config.SweepConfig
	log        logger.Logger
	repository interfaces.DomainRecordRepository

	now func() time.Time
}

func NewSweepService(cfg *config.SweepConfig, log logger.Logger, repository interfaces.DomainRecordRepository) interfaces.SweepService {
	return &sweepService{
		cfg:        cfg,
		log:        log,
		repository: repository,
		now:        utils.Now,
	}
}

// Run reconciles the store against the calendar: every record's status and
// day count is recomputed from its dates, records that aged out of the
// window of interest are purged.
func (s *sweepService) Run(ctx context.Context) (models.SweepSummary, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "SweepService.Run")
	defer span.Finish()
	tracing.TagComponentCronJob(span)

	summary := models.SweepSummary{}
	now := s.now()

	records, err := s.repository.GetAllNotDropped(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		return summary, errors.Wrap(err, "failed to load records for sweep")
	}
	summary.Scanned = len(records)

	for _, record := range records {
		status := lifecycle.StatusFromExpiry(record.ExpiryDate, now)
		days := lifecycle.DaysUntilDrop(record.DropDate, now)
		if status == record.Status && days == record.DaysUntilDrop {
			continue
		}
		if err := s.repository.UpdateLifecycle(ctx, record.DomainName, status, days); err != nil {
			s.log.Errorf("Failed to update lifecycle for %s: %v", record.DomainName, err)
			continue
		}
		summary.Updated++
	}

	retention := s.cfg.DroppedRetentionDays
	if retention <= 0 {
		retention = lifecycle.DroppedRetentionDays
	}
	purged, err := s.repository.DeleteDroppedBefore(ctx, lifecycle.UTCMidnight(now).AddDate(0, 0, -retention))
	if err != nil {
		tracing.TraceErr(span, err)
		s.log.Errorf("Failed to purge dropped records: %v", err)
	}
	summary.PurgedDropped = int(purged)

	if s.cfg.ScopeEnabled {
		scoped, err := s.repository.DeleteOutsideWindow(ctx, s.cfg.MaxDaysOut, now)
		if err != nil {
			tracing.TraceErr(span, err)
			s.log.Errorf("Failed to purge out-of-scope records: %v", err)
		}
		summary.PurgedScope = int(scoped)
	}

	counts, err := s.repository.CountByStatus(ctx)
	if err != nil {
		tracing.TraceErr(span, err)
		s.log.Errorf("Failed to count records by status: %v", err)
	} else {
		summary.StatusCounts = counts
	}

	s.log.Infof("Sweep finished: %d scanned, %d updated, %d dropped purged, %d out-of-scope purged",
		summary.Scanned, summary.Updated, summary.PurgedDropped, summary.PurgedScope)
	span.LogFields(
		tracingLog.Int("result.scanned", summary.Scanned),
		tracingLog.Int("result.updated", summary.Updated),
		tracingLog.Int("result.purgedDropped", summary.PurgedDropped),
	)
	return summary, nil
}
