package enrich

import (
	"context"

	"go.uber.org/zap"

	"github.com/auralabs/aurascan/internal/annualize"
	"github.com/auralabs/aurascan/internal/logger"
	"github.com/auralabs/aurascan/internal/models"
)

// revenueResult is the revenue contribution of one fetch strategy.
type revenueResult struct {
	AnnualizedRevenue float64
	AnnualizedAppFees float64
	EcosystemRevenue  float64
}

// strategyFunc is one named revenue-fetch strategy. Strategies never return
// errors: an unreachable source degrades the result to zero.
type strategyFunc func(ctx context.Context, e *Enricher, p models.Project) revenueResult

// specialStrategies holds the irreducible per-project business rules,
// selected by project identity. New special cases register here without
// touching the general dispatch path.
var specialStrategies = map[string]strategyFunc{
	"Hyperliquid": hyperliquidDisaggregation,
	"Pump.fun":    pumpFunDualSource,
	"Phantom":     phantomMultiChain,
}

// breakdownWindow 逐日拆分取尾部 30 条
const breakdownWindow = 30

// hyperliquidDisaggregation splits the combined Hyperliquid fee total into an
// ecosystem component (sum of the "Hyperliquid L1" sub-breakdown, the apps
// hosted on the chain) and a protocol-only component (total minus ecosystem).
// Both are annualized independently before combination; the protocol share is
// reported as app fees for display.
func hyperliquidDisaggregation(ctx context.Context, e *Enricher, p models.Project) revenueResult {
	summary, err := e.fees.FeeSummary(ctx, "hyperliquid")
	if err != nil {
		logger.Warn("failed to fetch hyperliquid fee summary", zap.Error(err))
		return revenueResult{}
	}

	var ecosystem30d float64
	if n := len(summary.Breakdown); n > 0 {
		entries := summary.Breakdown
		if n > breakdownWindow {
			entries = entries[n-breakdownWindow:]
		}
		for _, entry := range entries {
			ecosystem30d += entry.ChainTotal("Hyperliquid L1")
		}
	}
	ecosystemRevenue := ecosystem30d * annualize.Multiplier30D

	var protocolRevenue float64
	switch {
	case summary.Totals.D30 != 0:
		protocolRevenue = (summary.Totals.D30 - ecosystem30d) * annualize.Multiplier30D
	case summary.Totals.D7 != 0:
		protocolRevenue = summary.Totals.D7 * annualize.Multiplier7D
	case summary.Totals.H24 != 0:
		protocolRevenue = summary.Totals.H24 * annualize.Multiplier24H
	}

	return revenueResult{
		AnnualizedRevenue: ecosystemRevenue + protocolRevenue,
		AnnualizedAppFees: protocolRevenue,
		EcosystemRevenue:  ecosystemRevenue,
	}
}

// pumpFunDualSource sums revenue across the two related protocol slugs
// (pump.fun and pumpswap), window-matched so both components use the same
// annualization rule.
func pumpFunDualSource(ctx context.Context, e *Enricher, p models.Project) revenueResult {
	pump, err := e.fees.FeeSummary(ctx, "pump.fun")
	if err != nil {
		logger.Warn("failed to fetch pump.fun fee summary", zap.Error(err))
		return revenueResult{}
	}
	swap, err := e.fees.FeeSummary(ctx, "pumpswap")
	if err != nil {
		logger.Warn("failed to fetch pumpswap fee summary", zap.Error(err))
		return revenueResult{}
	}

	var total float64
	switch {
	case pump.Totals.D30 != 0 && swap.Totals.D30 != 0:
		total = (pump.Totals.D30 + swap.Totals.D30) * annualize.Multiplier30D
	case pump.Totals.D7 != 0 && swap.Totals.D7 != 0:
		total = (pump.Totals.D7 + swap.Totals.D7) * annualize.Multiplier7D
	case pump.Totals.H24 != 0 && swap.Totals.H24 != 0:
		total = (pump.Totals.H24 + swap.Totals.H24) * annualize.Multiplier24H
	}

	return revenueResult{AnnualizedRevenue: total, EcosystemRevenue: total}
}

// phantomMultiChain sums the multi-chain fee breakdown over the trailing 30
// raw data points before annualizing, falling back to the windowed summary
// when the breakdown is absent.
func phantomMultiChain(ctx context.Context, e *Enricher, p models.Project) revenueResult {
	summary, err := e.fees.FeeSummary(ctx, "phantom")
	if err != nil {
		logger.Warn("failed to fetch phantom fee summary", zap.Error(err))
		return revenueResult{}
	}

	if n := len(summary.Breakdown); n > 0 {
		entries := summary.Breakdown
		if n > breakdownWindow {
			entries = entries[n-breakdownWindow:]
		}
		var total30d float64
		for _, entry := range entries {
			total30d += entry.Total()
		}
		annual := total30d * annualize.Multiplier30D
		return revenueResult{AnnualizedRevenue: annual, EcosystemRevenue: annual}
	}

	annual := annualize.Annualize(summary.Totals).Value
	return revenueResult{AnnualizedRevenue: annual, EcosystemRevenue: annual}
}
