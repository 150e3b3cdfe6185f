// Package scoring maps a candidate domain name to a deterministic quality
// score. It is the cheap gate in front of expensive availability validation
// and the ranking key for everything published downstream. No I/O, no
// randomness: the same string always yields the same breakdown.
package scoring

import (
	"regexp"
	"strings"

	"github.com/dropradar/dropstack/interfaces"
	"github.com/dropradar/dropstack/internal/models"
	"github.com/dropradar/dropstack/internal/utils"
)

var (
	consonantRunPattern = regexp.MustCompile(`[bcdfghjklmnpqrstvwxyz]{5,}`)
	rareLetterPattern   = regexp.MustCompile(`x{2,}|q{2,}|z{2,}`)
	digitsLettersShape  = regexp.MustCompile(`^\d+[a-z]+$`)
	lettersDigitsShape  = regexp.MustCompile(`^[a-z]+\d+$`)

	lowercaseOnlyPattern = regexp.MustCompile(`^[a-z]+$`)
	digitPattern         = regexp.MustCompile(`\d`)
)

type scoringService struct{}

func NewScoringService() interfaces.ScoringService {
	return &scoringService{}
}

// Score computes the full quality breakdown for a domain like "name.tld".
// A gibberish-shaped name short-circuits to a zero score.
func (s *scoringService) Score(domain string) models.QualityScore {
	domain = utils.NormalizeDomainName(domain)
	name := utils.ExtractName(domain)
	tld := utils.ExtractTld(domain)

	if isGibberish(name) {
		return models.QualityScore{
			Badges:    []string{},
			Reasoning: "Gibberish pattern detected",
		}
	}

	score := models.QualityScore{Badges: []string{}}

	score.NameQuality = nameQuality(name)

	var trendingBadges []string
	score.TrendingWords, trendingBadges = trendingWords(name)
	score.Badges = append(score.Badges, trendingBadges...)

	score.HistoricalValue = historicalValue(name, tld)
	score.TechnicalMetrics = technicalMetrics(name, tld)

	score.Total = clamp(score.NameQuality+score.TrendingWords+score.HistoricalValue+score.TechnicalMetrics, 0, 100)

	score.Badges = append(score.Badges, thresholdBadges(score, name)...)
	score.Reasoning = reasoning(score.Total)

	return score
}

func isGibberish(name string) bool {
	return consonantRunPattern.MatchString(name) ||
		rareLetterPattern.MatchString(name) ||
		digitsLettersShape.MatchString(name) ||
		lettersDigitsShape.MatchString(name)
}

// nameQuality rewards short, pronounceable, clean names. Clamped to [0, 30].
func nameQuality(name string) int {
	points := 0

	switch n := len(name); {
	case n <= 4:
		points += 20
	case n <= 7:
		points += 16
	case n <= 10:
		points += 10
	case n <= 14:
		points += 5
	}

	ratio := vowelRatio(name)
	if ratio >= 0.25 && ratio <= 0.60 {
		points += 8
	}

	if digitPattern.MatchString(name) {
		points -= 3
	} else {
		points += 2
	}
	if strings.Contains(name, "-") {
		points -= 3
	} else {
		points += 2
	}

	return clamp(points, 0, 30)
}

func vowelRatio(name string) float64 {
	letters, vowels := 0, 0
	for _, r := range name {
		if r < 'a' || r > 'z' {
			continue
		}
		letters++
		switch r {
		case 'a', 'e', 'i', 'o', 'u':
			vowels++
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(vowels) / float64(letters)
}

// trendingWords sums weights for every curated keyword the name contains,
// clamped to 25, and collects one badge per matched category.
func trendingWords(name string) (int, []string) {
	points := 0
	badges := []string{}
	seenBadges := map[string]bool{}

	for _, kw := range trendingKeywords {
		if strings.Contains(name, kw.word) {
			points += kw.weight
			if !seenBadges[kw.badge] {
				seenBadges[kw.badge] = true
				badges = append(badges, kw.badge)
			}
		}
	}

	return clamp(points, 0, 25), badges
}

// historicalValue captures aftermarket pricing signals: very short names on
// premium TLDs and known high-value suffixes. Clamped to 25.
func historicalValue(name, tld string) int {
	points := 0

	if len(name) <= 5 && utils.IsStringInSlice(tld, premiumShortTlds) {
		points += 15
	}

	for _, suffix := range premiumSuffixes {
		if strings.HasSuffix(name, suffix) {
			points += 10
			break
		}
	}

	return clamp(points, 0, 25)
}

// technicalMetrics is the only sub-score that may go negative: the length
// penalty past 12 characters can outweigh the TLD tier.
func technicalMetrics(name, tld string) int {
	points := 0

	switch tld {
	case "com":
		points += 14
	case "io", "ai", "app", "dev":
		points += 10
	case "net", "org", "co":
		points += 6
	default:
		points += 2
	}

	for _, word := range shortDictionaryWords {
		if strings.HasPrefix(name, word) || strings.HasSuffix(name, word) {
			points += 2
			break
		}
	}

	if lowercaseOnlyPattern.MatchString(name) {
		points += 4
	}

	if len(name) > 12 {
		points -= 2 * (len(name) - 12)
	}

	return clamp(points, -12, 20)
}

func thresholdBadges(score models.QualityScore, name string) []string {
	badges := []string{}
	if len(name) <= 5 {
		badges = append(badges, "⭐ Short")
	}
	if score.NameQuality >= 25 {
		badges = append(badges, "✨ Clean")
	}
	if score.HistoricalValue >= 20 {
		badges = append(badges, "💎 Premium")
	}
	if score.TechnicalMetrics >= 16 {
		badges = append(badges, "🚀 Strong TLD")
	}
	return badges
}

func reasoning(total int) string {
	switch {
	case total >= 85:
		return "Exceptional domain with premium characteristics"
	case total >= 70:
		return "Strong domain with high commercial potential"
	case total >= 50:
		return "Decent domain worth consideration"
	case total >= 30:
		return "Average domain with limited appeal"
	default:
		return "Low value domain"
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
