package interfaces

import (
	"context"

	"github.com/dropradar/dropstack/internal/enum"
	"github.com/dropradar/dropstack/internal/models"
)

// AvailabilityChecker is one independent availability signal (DNS, WHOIS,
// registrar scrape). Checkers answer the tri-state Signal; only the
// validator turns signals into a verdict.
type AvailabilityChecker interface {
	Name() string
	Check(ctx context.Context, domain string) (enum.Signal, error)
}

type AvailabilityService interface {
	// Validate answers whether the domain is genuinely about to become
	// registrable. Ambiguity resolves to rejected.
	Validate(ctx context.Context, domain string) models.ValidationVerdict
}

type ScoringService interface {
	Score(domain string) models.QualityScore
}
