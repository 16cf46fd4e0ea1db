package hyperliquid

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/auralabs/aurascan/internal/annualize"
	"github.com/auralabs/aurascan/internal/logger"
)

// RevenueBreakdown 30 天收入构成
type RevenueBreakdown struct {
	TradingFees30D           float64 `json:"tradingFees30d"`
	EstimatedReferralFees30D float64 `json:"estimatedReferralFees30d"`
	TotalFees30D             float64 `json:"totalFees30d"`
}

// AnnualizedRevenue builder 年化收入估算结果
type AnnualizedRevenue struct {
	Annualized      float64          `json:"annualizedRevenue"`
	DataSource      string           `json:"dataSource"`
	TotalCumulative float64          `json:"totalCumulative"`
	Breakdown       RevenueBreakdown `json:"breakdown"`
}

const archiveDays = 30

// AnnualizedBuilderRevenue estimates a builder's annual revenue from real
// per-fill data:
//
//  1. Direct builder fees are summed from the trailing 30 per-day fill
//     archives; a missing day counts as zero, not skipped.
//  2. Referral revenue has no daily granularity, so the cumulative lifetime
//     total is converted to a 30-day figure via an activity-tiered annual
//     run rate (fills in the last 7 days → 25%/yr, fills in the 8-30 day
//     window → 10%/yr, otherwise 2%/yr; probe failure → 5%/yr).
//  3. total30d = direct + estimated referral; annualized = total30d × 12.
//
// If the archive sweep is entirely unreachable and the activity probe also
// failed, the cumulative total is treated as a six-month figure and doubled —
// a weaker, explicitly approximate estimate.
func (c *Client) AnnualizedBuilderRevenue(ctx context.Context, address string) (*AnnualizedRevenue, error) {
	summary, err := c.Referral(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch referral summary: %w", err)
	}

	builderRewards := parseAmount(summary.BuilderRewards)
	cumulativeReferral := parseAmount(summary.UnclaimedRewards) + parseAmount(summary.ClaimedRewards)
	totalCumulative := builderRewards + cumulativeReferral

	// 1. 逐日归档累加直接 builder 费用
	var directFees30d float64
	daysWithData := 0
	archiveFailures := 0

	now := c.clock.Now()
	for i := 0; i < archiveDays; i++ {
		date := now.AddDate(0, 0, -i).Format("20060102")
		fills, err := c.DayFills(ctx, address, date)
		if err != nil {
			// Missing day counts as zero.
			archiveFailures++
			continue
		}
		if len(fills) == 0 {
			continue
		}
		daysWithData++
		for _, fill := range fills {
			directFees30d += fill.BuilderFee
		}
	}

	// 2. 按近期活跃度分层估算 referral 收入
	var estimatedReferral30d float64
	var probeErr error
	if cumulativeReferral > 0 {
		rate, err := c.referralActivityRate(ctx, address, now)
		probeErr = err
		estimatedReferral30d = annualize.Referral30D(cumulativeReferral, rate)
	}

	// Total failure: nothing computable from live data, fall back to the
	// cumulative six-month approximation.
	if archiveFailures == archiveDays && probeErr != nil {
		logger.Warn("builder revenue sources unreachable, using cumulative fallback",
			zap.String("address", address))
		return &AnnualizedRevenue{
			Annualized:      totalCumulative * annualize.CumulativeFallbackMultiplier,
			DataSource:      "estimated from 6mo avg cumulative",
			TotalCumulative: totalCumulative,
			Breakdown: RevenueBreakdown{
				EstimatedReferralFees30D: totalCumulative / 6,
				TotalFees30D:             totalCumulative / 6,
			},
		}, nil
	}

	// 3. 合并两路收入并年化
	totalFees30d := directFees30d + estimatedReferral30d

	dataSource := "referral estimate only"
	if daysWithData > 0 {
		dataSource = fmt.Sprintf("%dd direct + referral estimate", daysWithData)
	}

	return &AnnualizedRevenue{
		Annualized:      totalFees30d * annualize.Multiplier30D,
		DataSource:      dataSource,
		TotalCumulative: totalCumulative,
		Breakdown: RevenueBreakdown{
			TradingFees30D:           directFees30d,
			EstimatedReferralFees30D: estimatedReferral30d,
			TotalFees30D:             totalFees30d,
		},
	}, nil
}

// referralActivityRate probes recent fill activity and picks the annual
// run-rate tier. The returned error marks that the probe itself failed and
// the fallback rate was used.
func (c *Client) referralActivityRate(ctx context.Context, address string, now time.Time) (float64, error) {
	sevenDaysAgo := now.Add(-7 * 24 * time.Hour)
	thirtyDaysAgo := now.Add(-30 * 24 * time.Hour)

	recent, err := c.UserFillsByTime(ctx, address, sevenDaysAgo, now)
	if err != nil {
		return annualize.ReferralRateFallback, err
	}
	older, err := c.UserFillsByTime(ctx, address, thirtyDaysAgo, sevenDaysAgo)
	if err != nil {
		return annualize.ReferralRateFallback, err
	}

	switch {
	case len(recent) > 0:
		return annualize.ReferralRateHigh, nil
	case len(older) > 0:
		return annualize.ReferralRateModerate, nil
	default:
		return annualize.ReferralRateLow, nil
	}
}
