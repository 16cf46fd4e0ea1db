package enrich

import "strings"

// Dispatch tables from project display names to upstream identifiers.
// Unknown key → neutral zero result, never an error: a project without a
// mapping simply contributes no revenue or market data.

// ChainSlugs maps infrastructure project names to DeFiLlama chain slugs.
var ChainSlugs = map[string]string{
	"Hyperliquid":    "hyperliquid",
	"Berachain":      "berachain",
	"Blast":          "blast",
	"Sonic":          "sonic",
	"Celestia":       "celestia",
	"Optimism":       "op-mainnet",
	"Arbitrum":       "arbitrum",
	"Solana":         "solana",
	"Ethereum":       "ethereum",
	"Story Protocol": "story",
	"Movement":       "movement",
	"Sui Network":    "sui",
	"Initia":         "initia",
	"Tron":           "tron",
	"Polygon":        "polygon",
	"Ton":            "ton",
}

// AppSlugs maps application/stablecoin project names to DeFiLlama protocol
// slugs.
var AppSlugs = map[string]string{
	"Axiom":    "axiom",
	"Moonshot": "moonshot.money",
	"Tether":   "tether",
	"Circle":   "circle",
	"Pump.fun": "pump.fun",
	"Phantom":  "phantom",
}

// CoinGeckoTokens maps project names to CoinGecko token identifiers.
// Projects without a listing (pure apps/services with no token) are absent
// and get no return metrics.
var CoinGeckoTokens = map[string]string{
	"Hyperliquid":    "hyperliquid",
	"Berachain":      "berachain-bera",
	"Blast":          "blast",
	"Sonic":          "sonic-3",
	"Celestia":       "celestia",
	"Optimism":       "optimism",
	"Arbitrum":       "arbitrum",
	"Solana":         "solana",
	"Ethereum":       "ethereum",
	"Story Protocol": "story-2",
	"Movement":       "movement",
	"Sui Network":    "sui",
	"Initia":         "initia",
	"Tron":           "tron",
	"Polygon":        "matic-network",
	"Ton":            "the-open-network",
	"Moonshot":       "moonshot-2",
	"Tether":         "tether",
	"Circle":         "usd-coin",
	"Pump.fun":       "pump-fun",
	"Phantom":        "phantom-token-2",
}

// appFeeChains is the allow-list of chains whose app-ecosystem fee chart is
// fetched. The overview endpoint is heavy; everything else skips it.
var appFeeChains = map[string]struct{}{
	"ethereum": {},
	"solana":   {},
	"arbitrum": {},
	"optimism": {},
	"polygon":  {},
}

// appFeeSlug returns the overview slug for a chain's app-ecosystem fees and
// whether the chain is allow-listed for that fetch.
func appFeeSlug(projectName string) (string, bool) {
	slug := strings.ReplaceAll(strings.ToLower(projectName), " ", "-")
	_, ok := appFeeChains[slug]
	return slug, ok
}
