package enrich

import (
	"math"

	"github.com/auralabs/aurascan/internal/models"
)

// ComputeReturns derives percentage-return metrics from current market data
// against the project's stored baselines. Pure function; either metric may be
// absent independently, and absence means "not displayed", not zero.
func ComputeReturns(p models.Project, currentFDV, currentPrice float64) models.Project {
	if currentFDV > 0 && p.LastFundingRoundValuation > 0 {
		v := round2((currentFDV - p.LastFundingRoundValuation) / p.LastFundingRoundValuation * 100)
		p.ReturnVsFunding = &v
	}
	if currentPrice > 0 && p.TGEPrice > 0 {
		v := round2((currentPrice - p.TGEPrice) / p.TGEPrice * 100)
		p.ReturnSinceTGE = &v
	}

	if currentFDV > 0 {
		p.FDV = currentFDV
	}
	if currentPrice > 0 {
		p.CurrentPrice = currentPrice
	}
	return p
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
