package interfaces

import (
	"context"

	"github.com/dropradar/dropstack/internal/models"
)

// SyntheticRegistrar marks candidates that came from the built-in fallback
// dataset instead of the live feed. Nothing carrying it may be mistaken for
// real auction data.
const SyntheticRegistrar = "synthetic-feed"

type FeedService interface {
	// FetchCandidates authenticates against the upstream auction provider,
	// downloads the compressed export and returns normalized candidates.
	// When the fallback is enabled a failed fetch yields the synthetic
	// dataset instead of an error.
	FetchCandidates(ctx context.Context) ([]models.CandidateDomain, error)
}
