package configs

import "github.com/auralabs/aurascan/internal/models"

// BuilderInfo 已知构建者档案
type BuilderInfo struct {
	Address string `json:"address" mapstructure:"address"`
	Name    string `json:"name" mapstructure:"name"`
	Code    string `json:"code" mapstructure:"code"`
}

// DefaultBuilders are the tracked builder identities, in leaderboard order.
var DefaultBuilders = []BuilderInfo{
	{Address: "0x0cbf655b0d22ae71fba3a674b0e1c0c7e7f975af", Name: "pvp.trade", Code: "PVP001"},
	{Address: "0x1cc34f6af34653c515b47a83e1de70ba9b0cda1f", Name: "Axiom", Code: "AXM001"},
	{Address: "0x1922810825c90f4270048b96da7b1803cd8609ef", Name: "Defi App", Code: "DFA001"},
	{Address: "0x6acc0acd626b29b48923228c111c94bd4faa6a43", Name: "Okto", Code: "OKT001"},
	{Address: "0x7975cafdff839ed5047244ed3a0dd82a89866081", Name: "Dexari", Code: "DEX001"},
}

// defaultDiscoveryCandidates is the known builder set plus unverified leads
// worth probing.
func defaultDiscoveryCandidates() []string {
	candidates := make([]string, 0, len(DefaultBuilders)+3)
	for _, b := range DefaultBuilders {
		candidates = append(candidates, b.Address)
	}
	return append(candidates,
		"0xa0b86a33e6776b9e15c92f0b1de5f2b89c83a99e",
		"0xb1c28d2e15a5a1f8c96e4f2c7d89e3b8a9d4c5f6",
		"0xc2d39e3f25b6b2g9d97f5e3d8f90a4c9b5d6e7f8",
	)
}

// DefaultProjects is the base comparison registry. Amounts raised and
// valuations are USD; a zero raise means the project bootstrapped.
var DefaultProjects = []models.Project{
	{Name: "Hyperliquid", Category: models.CategoryL1, AmountRaised: 0, UseDefillama: true, TGEPrice: 3.81},
	{Name: "Berachain", Category: models.CategoryL1, AmountRaised: 211_000_000, UseDefillama: true, LastFundingRoundValuation: 1_500_000_000, TGEPrice: 15.00},
	{Name: "Blast", Category: models.CategoryL2, AmountRaised: 20_000_000, UseDefillama: true, LastFundingRoundValuation: 100_000_000, TGEPrice: 0.03},
	{Name: "Sonic", Category: models.CategoryL1, AmountRaised: 29_350_000, UseDefillama: true, LastFundingRoundValuation: 100_000_000, TGEPrice: 0.32},
	{Name: "Celestia", Category: models.CategoryL1, AmountRaised: 155_000_000, UseDefillama: true, LastFundingRoundValuation: 1_500_000_000, TGEPrice: 1.50},
	{Name: "Optimism", Category: models.CategoryL2, AmountRaised: 267_500_000, UseDefillama: true, LastFundingRoundValuation: 1_650_000_000, TGEPrice: 1.91},
	{Name: "Arbitrum", Category: models.CategoryL2, AmountRaised: 143_700_000, UseDefillama: true, LastFundingRoundValuation: 4_500_000_000, TGEPrice: 1.20},
	{Name: "Solana", Category: models.CategoryL1, AmountRaised: 319_500_000, UseDefillama: true, LastFundingRoundValuation: 110_000_000, TGEPrice: 0.22},
	{Name: "Ethereum", Category: models.CategoryL1, AmountRaised: 18_000_000, UseDefillama: true, LastFundingRoundValuation: 22_000_000, TGEPrice: 0.31},
	{Name: "Story Protocol", Category: models.CategoryL1, AmountRaised: 143_000_000, UseDefillama: true, LastFundingRoundValuation: 2_250_000_000, TGEPrice: 2.50},
	{Name: "Movement", Category: models.CategoryL1, AmountRaised: 55_000_000, UseDefillama: true, LastFundingRoundValuation: 1_600_000_000, TGEPrice: 0.68},
	{Name: "Sui Network", Category: models.CategoryL1, AmountRaised: 336_000_000, UseDefillama: true, LastFundingRoundValuation: 1_500_000_000, TGEPrice: 0.10},
	{Name: "Initia", Category: models.CategoryL1, AmountRaised: 24_000_000, UseDefillama: true, LastFundingRoundValuation: 600_000_000, TGEPrice: 0.60},
	{Name: "Tron", Category: models.CategoryL1, AmountRaised: 76_000_000, UseDefillama: true, TGEPrice: 0.002},
	{Name: "Polygon", Category: models.CategoryL1, AmountRaised: 450_000_000, UseDefillama: true, TGEPrice: 0.003},
	{Name: "Ton", Category: models.CategoryL1, AmountRaised: 658_000_000, UseDefillama: true, TGEPrice: 0.78},

	{Name: "pvp.trade", Category: models.CategoryApplication, SecondaryCategory: "Hyperliquid", AmountRaised: 1_200_000, HyperliquidBuilder: "0x0cbf655b0d22ae71fba3a674b0e1c0c7e7f975af"},
	{Name: "Axiom", Category: models.CategoryApplication, AmountRaised: 500_000, UseDefillama: true, HyperliquidBuilder: "0x1cc34f6af34653c515b47a83e1de70ba9b0cda1f"},
	{Name: "Okto", Category: models.CategoryApplication, SecondaryCategory: "Hyperliquid", AmountRaised: 27_000_000, HyperliquidBuilder: "0x6acc0acd626b29b48923228c111c94bd4faa6a43"},
	{Name: "Defi App", Category: models.CategoryApplication, SecondaryCategory: "Hyperliquid", AmountRaised: 6_000_000, HyperliquidBuilder: "0x1922810825c90f4270048b96da7b1803cd8609ef", LastFundingRoundValuation: 100_000_000, TGEPrice: 0.03},
	{Name: "Dexari", Category: models.CategoryApplication, SecondaryCategory: "Hyperliquid", AmountRaised: 2_300_000, HyperliquidBuilder: "0x7975cafdff839ed5047244ed3a0dd82a89866081"},

	{Name: "Moonshot", Category: models.CategoryApplication, AmountRaised: 60_000_000, UseDefillama: true},
	{Name: "Tether", Category: models.CategoryStablecoins, AmountRaised: 69_420_000, UseDefillama: true},
	{Name: "Circle", Category: models.CategoryStablecoins, AmountRaised: 1_200_000_000, UseDefillama: true},
	{Name: "Pump.fun", Category: models.CategoryApplication, AmountRaised: 70_000_000, UseDefillama: true},
	{Name: "Phantom", Category: models.CategoryApplication, AmountRaised: 268_000_000, UseDefillama: true},
}
