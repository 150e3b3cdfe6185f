package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreDeterminism(t *testing.T) {
	svc := NewScoringService()

	first := svc.Score("getcloudhub.com")
	second := svc.Score("getcloudhub.com")

	assert.Equal(t, first, second)
}

func TestScoreGibberishRejectedOutright(t *testing.T) {
	svc := NewScoringService()

	tests := []string{
		"xqzzy123.com",  // rare letter run + letters-then-digits
		"bcdfgh.com",    // five consecutive consonants
		"123abc.net",    // digits-then-letters
		"shop2024.com",  // letters-then-digits
	}
	for _, domain := range tests {
		score := svc.Score(domain)
		assert.Equal(t, 0, score.Total, domain)
		assert.Equal(t, "Gibberish pattern detected", score.Reasoning, domain)
		assert.Empty(t, score.Badges, domain)
	}
}

func TestScorePremiumShortDomain(t *testing.T) {
	svc := NewScoringService()

	score := svc.Score("ai.com")

	assert.GreaterOrEqual(t, score.Total, 80)
	assert.Contains(t, score.Badges, "⭐ Short")
	assert.Contains(t, score.Badges, "💎 Premium")
}

func TestScoreLowValueDomain(t *testing.T) {
	svc := NewScoringService()

	score := svc.Score("a1b2c3d4e5f6g7.xyz")

	assert.Less(t, score.Total, 30)
}

func TestScoreTrendingKeywords(t *testing.T) {
	svc := NewScoringService()

	score := svc.Score("getcloudhub.com")

	assert.GreaterOrEqual(t, score.Total, 60)
	assert.GreaterOrEqual(t, score.TrendingWords, 14) // cloud + hub
	assert.Contains(t, score.Badges, "🔥 AI & Tech")
}

func TestScoreNormalizesInput(t *testing.T) {
	svc := NewScoringService()

	assert.Equal(t, svc.Score("ai.com"), svc.Score("  AI.COM  "))
}

func TestScoreTotalIsClampedSum(t *testing.T) {
	svc := NewScoringService()

	score := svc.Score("verylongdomainnamewithnosignal.xyz")

	sum := score.NameQuality + score.TrendingWords + score.HistoricalValue + score.TechnicalMetrics
	if sum < 0 {
		assert.Equal(t, 0, score.Total)
	} else {
		assert.Equal(t, sum, score.Total)
	}
	assert.Negative(t, score.TechnicalMetrics) // length penalty drives it below zero
}
