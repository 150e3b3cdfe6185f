package interfaces

import (
	"context"
	"time"

	"github.com/dropradar/dropstack/internal/enum"
	"github.com/dropradar/dropstack/internal/models"
)

// DomainRecordFilter is the read-query contract exposed to the presentation
// layer: filter, sort, paginate. Zero values mean "no constraint".
type DomainRecordFilter struct {
	Status   enum.DomainStatus
	Tld      string
	MinScore int
	Search   string
	SortBy   string // "score" (default) or "drop_date"
	Page     int
	Limit    int
}

type DomainRecordRepository interface {
	// Upsert inserts or replaces by domain_name so re-ingestion is idempotent
	Upsert(ctx context.Context, record *models.DomainRecord) error
	GetByDomainName(ctx context.Context, domainName string) (*models.DomainRecord, error)
	List(ctx context.Context, filter DomainRecordFilter) ([]models.DomainRecord, int64, error)
	CountByStatus(ctx context.Context) (map[string]int, error)

	// lifecycle sweep support
	GetAllNotDropped(ctx context.Context) ([]models.DomainRecord, error)
	UpdateLifecycle(ctx context.Context, domainName string, status enum.DomainStatus, daysUntilDrop int) error
	DeleteDroppedBefore(ctx context.Context, dropDateCutoff time.Time) (int64, error)
	DeleteOutsideWindow(ctx context.Context, maxDaysOut int, now time.Time) (int64, error)
}
