package feed

import (
	"time"

	"github.com/dropradar/dropstack/interfaces"
	"github.com/dropradar/dropstack/internal/lifecycle"
	"github.com/dropradar/dropstack/internal/models"
)

// syntheticSeed drives the offline dataset used when the live feed is down.
// Names cover the quality spectrum so downstream scoring and validation
// still exercise every path.
var syntheticSeed = []struct {
	name       string
	daysToDrop int
}{
	{"getcloudhub.com", 3},
	{"aiforge.io", 5},
	{"mintlabs.ai", 7},
	{"swiftpay.app", 10},
	{"greenloop.com", 12},
	{"datastream.net", 14},
	{"cryptonest.io", 2},
	{"healthsync.co", 6},
	{"webtools.dev", 9},
	{"brightpath.org", 4},
	{"zenflow.app", 8},
	{"stackbase.io", 11},
	{"nutriplan.com", 13},
	{"codeforge.dev", 1},
	{"solargrid.net", 15},
}

// syntheticCandidates fabricates a plausible batch of imminent drops relative
// to now. Every candidate is tagged with the synthetic registrar so consumers
// can tell replayed data from real feed rows.
func syntheticCandidates(now time.Time) []models.CandidateDomain {
	candidates := make([]models.CandidateDomain, 0, len(syntheticSeed))
	for _, seed := range syntheticSeed {
		dropDate := lifecycle.UTCMidnight(now).AddDate(0, 0, seed.daysToDrop)
		candidates = append(candidates, models.CandidateDomain{
			DomainName: seed.name,
			DropDate:   dropDate,
			ExpiryDate: lifecycle.ExpiryFromDropDate(dropDate),
			Registrar:  interfaces.SyntheticRegistrar,
		})
	}
	return candidates
}
