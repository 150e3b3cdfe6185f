package scoring

// trendingKeyword is a curated commercial keyword with its score weight and
// the badge its category contributes. Kept as an ordered slice so scoring
// output is byte-stable run to run.
type trendingKeyword struct {
	word   string
	weight int
	badge  string
}

const (
	badgeAITech   = "🔥 AI & Tech"
	badgeCrypto   = "🪙 Crypto & Web3"
	badgeClimate  = "🌱 Climate"
	badgeHealth   = "💪 Health"
	badgeBusiness = "💼 Business"
)

var trendingKeywords = []trendingKeyword{
	// AI / tech
	{"ai", 15, badgeAITech},
	{"api", 6, badgeAITech},
	{"app", 6, badgeAITech},
	{"bot", 8, badgeAITech},
	{"cloud", 8, badgeAITech},
	{"data", 8, badgeAITech},
	{"dev", 6, badgeAITech},
	{"gpt", 10, badgeAITech},
	{"hub", 6, badgeAITech},
	{"lab", 6, badgeAITech},
	{"smart", 6, badgeAITech},
	{"tech", 8, badgeAITech},

	// crypto / web3
	{"chain", 8, badgeCrypto},
	{"coin", 8, badgeCrypto},
	{"crypto", 10, badgeCrypto},
	{"defi", 8, badgeCrypto},
	{"nft", 8, badgeCrypto},
	{"token", 8, badgeCrypto},
	{"web3", 10, badgeCrypto},

	// climate / energy
	{"climate", 8, badgeClimate},
	{"eco", 6, badgeClimate},
	{"energy", 6, badgeClimate},
	{"green", 6, badgeClimate},
	{"solar", 8, badgeClimate},

	// health / wellness
	{"bio", 6, badgeHealth},
	{"care", 6, badgeHealth},
	{"fit", 6, badgeHealth},
	{"health", 8, badgeHealth},
	{"med", 6, badgeHealth},
	{"wellness", 8, badgeHealth},

	// generic business
	{"finance", 8, badgeBusiness},
	{"hq", 5, badgeBusiness},
	{"market", 6, badgeBusiness},
	{"pay", 8, badgeBusiness},
	{"pro", 5, badgeBusiness},
	{"shop", 6, badgeBusiness},
	{"store", 6, badgeBusiness},
	{"trade", 6, badgeBusiness},
}

// premiumSuffixes are name endings that historically command resale premiums
var premiumSuffixes = []string{"ai", "labs", "hub", "pro", "ify", "ly"}

// shortDictionaryWords give a small technical bonus when a name starts or
// ends with one of them
var shortDictionaryWords = []string{"go", "get", "my", "the", "top", "best", "try", "use", "one", "now"}

// premiumShortTlds command premium pricing for very short names
var premiumShortTlds = []string{"com", "io", "ai"}
