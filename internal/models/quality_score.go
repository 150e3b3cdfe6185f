package models

import (
	"github.com/dropradar/dropstack/internal/enum"
)

// QualityScore is the full scoring breakdown for a candidate domain.
// Total is the clamped sum of the four sub-scores; a gibberish match zeroes
// everything regardless of the components.
type QualityScore struct {
	NameQuality      int      `json:"nameQuality"`      // 0..30
	TrendingWords    int      `json:"trendingWords"`    // 0..25
	HistoricalValue  int      `json:"historicalValue"`  // 0..25
	TechnicalMetrics int      `json:"technicalMetrics"` // -12..20
	Total            int      `json:"total"`            // 0..100
	Badges           []string `json:"badges"`
	Reasoning        string   `json:"reasoning"`
}

func (q QualityScore) Tier() enum.QualityTier {
	switch {
	case q.Total >= 80:
		return enum.QualityTierPremium
	case q.Total >= 60:
		return enum.QualityTierGood
	default:
		return enum.QualityTierAverage
	}
}
