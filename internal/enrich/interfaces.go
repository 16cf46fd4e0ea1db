package enrich

import (
	"context"

	"github.com/auralabs/aurascan/internal/source/coingecko"
	"github.com/auralabs/aurascan/internal/source/defillama"
	"github.com/auralabs/aurascan/internal/source/hyperliquid"
)

// FeeSource supplies chain/protocol fee summaries and daily fee charts.
type FeeSource interface {
	// FeeSummary fetches windowed fee totals and the optional per-day
	// breakdown for a chain or protocol slug.
	FeeSummary(ctx context.Context, slug string) (*defillama.FeeSummary, error)

	// FeeChart fetches the daily fee chart for a chain overview slug.
	FeeChart(ctx context.Context, slug string) ([]defillama.ChartPoint, error)
}

// BuilderSource supplies annualized revenue for exchange builder addresses.
type BuilderSource interface {
	// AnnualizedBuilderRevenue estimates annual revenue from per-fill data.
	AnnualizedBuilderRevenue(ctx context.Context, address string) (*hyperliquid.AnnualizedRevenue, error)
}

// MarketSource supplies token price and valuation data.
type MarketSource interface {
	// MarketData fetches current price and FDV for a token identifier.
	MarketData(ctx context.Context, tokenID string) (*coingecko.MarketData, error)
}
