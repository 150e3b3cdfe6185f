package scoring

var badgeCategories = map[string]string{
	badgeAITech:   "ai-tech",
	badgeCrypto:   "crypto-web3",
	badgeClimate:  "climate",
	badgeHealth:   "health-wellness",
	badgeBusiness: "business",
}

// CategoryForBadges maps a scored domain to its display category, taken from
// the first keyword-category badge it earned
func CategoryForBadges(badges []string) string {
	for _, badge := range badges {
		if category, ok := badgeCategories[badge]; ok {
			return category
		}
	}
	return "general"
}
