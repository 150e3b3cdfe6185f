package repository

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	tracingLog "github.com/opentracing/opentracing-go/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/dropradar/dropstack/interfaces"
	"github.com/dropradar/dropstack/internal/enum"
	"github.com/dropradar/dropstack/internal/models"
	"github.com/dropradar/dropstack/internal/tracing"
	"github.com/dropradar/dropstack/internal/utils"
)

type domainRecordRepository struct {
	db *gorm.DB
}

func NewDomainRecordRepository(db *gorm.DB) interfaces.DomainRecordRepository {
	return &domainRecordRepository{
		db: db,
	}
}

func (r *domainRecordRepository) Upsert(ctx context.Context, record *models.DomainRecord) error {
	span, _ := opentracing.StartSpanFromContext(ctx, "DomainRecordRepository.Upsert")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagDomain(span, record.DomainName)

	now := utils.Now()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "domain_name"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"tld", "expiry_date", "drop_date", "days_until_drop", "status",
				"registrar", "popularity_score", "category", "slug", "title",
				"badges", "metadata", "updated_at",
			}),
		}).
		Create(record).Error
	if err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "db error"))
		return err
	}
	return nil
}

func (r *domainRecordRepository) GetByDomainName(ctx context.Context, domainName string) (*models.DomainRecord, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "DomainRecordRepository.GetByDomainName")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagDomain(span, domainName)

	var record models.DomainRecord
	err := r.db.WithContext(ctx).
		Where("domain_name = ?", domainName).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		tracing.TraceErr(span, errors.Wrap(err, "db error"))
		return nil, err
	}

	return &record, nil
}

func (r *domainRecordRepository) List(ctx context.Context, filter interfaces.DomainRecordFilter) ([]models.DomainRecord, int64, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "DomainRecordRepository.List")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	query := r.db.WithContext(ctx).Model(&models.DomainRecord{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.Tld != "" {
		query = query.Where("tld = ?", filter.Tld)
	}
	if filter.MinScore > 0 {
		query = query.Where("popularity_score >= ?", filter.MinScore)
	}
	if filter.Search != "" {
		query = query.Where("domain_name LIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "db error"))
		return nil, 0, err
	}

	switch filter.SortBy {
	case "drop_date":
		query = query.Order("drop_date ASC")
	default:
		query = query.Order("popularity_score DESC")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 25
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	query = query.Limit(limit).Offset((page - 1) * limit)

	var records []models.DomainRecord
	if err := query.Find(&records).Error; err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "db error"))
		return nil, 0, err
	}

	span.LogFields(tracingLog.Int("result.count", len(records)))
	return records, total, nil
}

func (r *domainRecordRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "DomainRecordRepository.CountByStatus")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	type row struct {
		Status string
		Count  int
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.DomainRecord{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&rows).Error
	if err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "db error"))
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

func (r *domainRecordRepository) GetAllNotDropped(ctx context.Context) ([]models.DomainRecord, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "DomainRecordRepository.GetAllNotDropped")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	var records []models.DomainRecord
	err := r.db.WithContext(ctx).
		Where("status <> ?", enum.DomainStatusDropped.String()).
		Find(&records).Error
	if err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "db error"))
		return nil, err
	}

	return records, nil
}

func (r *domainRecordRepository) UpdateLifecycle(ctx context.Context, domainName string, status enum.DomainStatus, daysUntilDrop int) error {
	span, _ := opentracing.StartSpanFromContext(ctx, "DomainRecordRepository.UpdateLifecycle")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)
	tracing.TagDomain(span, domainName)

	err := r.db.WithContext(ctx).
		Model(&models.DomainRecord{}).
		Where("domain_name = ?", domainName).
		UpdateColumn("status", status.String()).
		UpdateColumn("days_until_drop", daysUntilDrop).
		UpdateColumn("updated_at", utils.Now()).
		Error
	if err != nil {
		tracing.TraceErr(span, errors.Wrap(err, "db error"))
		return err
	}

	return nil
}

func (r *domainRecordRepository) DeleteDroppedBefore(ctx context.Context, dropDateCutoff time.Time) (int64, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "DomainRecordRepository.DeleteDroppedBefore")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	result := r.db.WithContext(ctx).
		Where("status = ?", enum.DomainStatusDropped.String()).
		Where("drop_date < ?", dropDateCutoff).
		Delete(&models.DomainRecord{})
	if result.Error != nil {
		tracing.TraceErr(span, errors.Wrap(result.Error, "db error"))
		return 0, result.Error
	}

	span.LogFields(tracingLog.Int64("result.deleted", result.RowsAffected))
	return result.RowsAffected, nil
}

func (r *domainRecordRepository) DeleteOutsideWindow(ctx context.Context, maxDaysOut int, now time.Time) (int64, error) {
	span, _ := opentracing.StartSpanFromContext(ctx, "DomainRecordRepository.DeleteOutsideWindow")
	defer span.Finish()
	tracing.TagComponentPostgresRepository(span)

	// pending_delete past the configured horizon, plus anything still in
	// grace or redemption, is outside the window of commercial interest
	horizon := now.AddDate(0, 0, maxDaysOut)
	result := r.db.WithContext(ctx).
		Where("status IN ?", []string{
			enum.DomainStatusGrace.String(),
			enum.DomainStatusRedemption.String(),
		}).
		Or("status = ? AND drop_date > ?", enum.DomainStatusPendingDelete.String(), horizon).
		Delete(&models.DomainRecord{})
	if result.Error != nil {
		tracing.TraceErr(span, errors.Wrap(result.Error, "db error"))
		return 0, result.Error
	}

	span.LogFields(tracingLog.Int64("result.deleted", result.RowsAffected))
	return result.RowsAffected, nil
}
