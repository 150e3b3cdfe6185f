package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/dropradar/dropstack/internal/enum"
	"github.com/dropradar/dropstack/internal/utils"
)

// DomainRecord is a validated about-to-drop domain as published to the store.
// DomainName is the natural key for upserts so re-ingestion stays idempotent.
// Status and DaysUntilDrop are derived values, recomputed from the dates on
// every ingestion run and reconciliation sweep, never trusted as stored.
type DomainRecord struct {
	ID              string            `gorm:"column:id;type:varchar(50);primaryKey" json:"id"`
	DomainName      string            `gorm:"column:domain_name;type:varchar(255);not null;uniqueIndex" json:"domainName"`
	Tld             string            `gorm:"column:tld;type:varchar(63);index" json:"tld"`
	ExpiryDate      time.Time         `gorm:"column:expiry_date;type:date;not null" json:"expiryDate"`
	DropDate        time.Time         `gorm:"column:drop_date;type:date;not null;index" json:"dropDate"`
	DaysUntilDrop   int               `gorm:"column:days_until_drop;not null" json:"daysUntilDrop"`
	Status          enum.DomainStatus `gorm:"column:status;type:varchar(50);index;not null" json:"status"`
	Registrar       string            `gorm:"column:registrar;type:varchar(255)" json:"registrar"`
	PopularityScore int               `gorm:"column:popularity_score;not null;index" json:"popularityScore"`
	Category        string            `gorm:"column:category;type:varchar(100)" json:"category"`
	Slug            string            `gorm:"column:slug;type:varchar(255);index" json:"slug"`
	Title           string            `gorm:"column:title;type:varchar(255)" json:"title"`
	Badges          pq.StringArray    `gorm:"column:badges;type:text[]" json:"badges"`
	Metadata        JSONMap           `gorm:"column:metadata;type:jsonb" json:"metadata"`
	CreatedAt       time.Time         `gorm:"column:created_at;type:timestamp;default:current_timestamp" json:"createdAt"`
	UpdatedAt       time.Time         `gorm:"column:updated_at;type:timestamp;default:current_timestamp" json:"lastUpdated"`
}

func (DomainRecord) TableName() string {
	return "domain_records"
}

func (d *DomainRecord) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = utils.GenerateNanoIDWithPrefix("dom", 16)
	}
	return nil
}
