package interfaces

import (
	"context"

	"github.com/dropradar/dropstack/internal/models"
)

type IngestService interface {
	Run(ctx context.Context) (models.IngestSummary, error)
}

type SweepService interface {
	Run(ctx context.Context) (models.SweepSummary, error)
}
