package interfaces

import (
	"context"

	"github.com/dropradar/dropstack/internal/models"
)

type EventPublisher interface {
	PublishDomainConfirmed(ctx context.Context, record *models.DomainRecord) error
	Close() error
}
