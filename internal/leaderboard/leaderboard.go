// Package leaderboard builds the builder revenue dashboard from cumulative
// reward totals.
package leaderboard

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/auralabs/aurascan/internal/adapter"
	"github.com/auralabs/aurascan/internal/logger"
	"github.com/auralabs/aurascan/internal/models"
	"github.com/auralabs/aurascan/internal/source/hyperliquid"
)

// Builder is one tracked builder identity.
type Builder struct {
	Address string
	Name    string
	Code    string
}

// DisplayName derives a fallback identity from the address when the builder
// is not in the tracked registry.
func (b Builder) DisplayName() string {
	if b.Name != "" {
		return b.Name
	}
	return "Builder " + b.Address[:min(8, len(b.Address))] + "..."
}

// DisplayCode returns the configured code or the address tail.
func (b Builder) DisplayCode() string {
	if b.Code != "" {
		return b.Code
	}
	tail := b.Address
	if len(tail) > 6 {
		tail = tail[len(tail)-6:]
	}
	return strings.ToUpper(tail)
}

// RewardsSource 构建者累计收益数据源
type RewardsSource interface {
	BuilderRewards(ctx context.Context, address string) (*hyperliquid.RewardsBreakdown, error)
}

// timeRangeMultipliers scale all-time cumulative rewards down to an
// estimated window share. The referral endpoint only exposes cumulative
// totals, so shorter windows are modeled from observed activity shares.
var timeRangeMultipliers = map[string]float64{
	"24h": 0.008,
	"7d":  0.05,
	"30d": 0.15,
	"90d": 0.4,
	"all": 1.0,
}

// timeRangeDays is how many daily points each window renders.
var timeRangeDays = map[string]int{
	"24h": 1,
	"7d":  7,
	"30d": 30,
	"90d": 90,
	"all": 730,
}

// DefaultTimeRange is used when a request omits or mangles the range.
const DefaultTimeRange = "7d"

// assumedFeeRate approximates the blended taker fee used to back out trade
// counts from notional volume.
const assumedFeeRate = 0.0003

// Service assembles dashboard data for the tracked builder set.
type Service struct {
	rewards  RewardsSource
	builders []Builder
	clock    adapter.Clock
}

// NewService creates a leaderboard Service.
func NewService(rewards RewardsSource, builders []Builder, clock adapter.Clock) *Service {
	return &Service{rewards: rewards, builders: builders, clock: clock}
}

// NormalizeTimeRange maps an arbitrary request value onto a supported
// window.
func NormalizeTimeRange(timeRange string) string {
	if _, ok := timeRangeMultipliers[timeRange]; ok {
		return timeRange
	}
	return DefaultTimeRange
}

// Dashboard fetches cumulative rewards for every tracked builder and scales
// them to the requested window. A builder whose fetch fails contributes a
// zero row; the dashboard never fails outright unless the context does.
func (s *Service) Dashboard(ctx context.Context, timeRange string) (*models.DashboardData, error) {
	timeRange = NormalizeTimeRange(timeRange)
	multiplier := timeRangeMultipliers[timeRange]

	builders := make([]models.BuilderRevenue, 0, len(s.builders))
	var totalRevenue, totalVolume float64
	active := 0

	for _, b := range s.builders {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		breakdown, err := s.rewards.BuilderRewards(ctx, b.Address)
		if err != nil {
			logger.Warn("failed to fetch builder rewards",
				zap.String("builder", b.DisplayName()), zap.Error(err))
			breakdown = &hyperliquid.RewardsBreakdown{}
		}

		row := s.buildRow(b, breakdown, timeRange, multiplier)
		builders = append(builders, row)

		totalRevenue += row.TotalRevenue
		totalVolume += row.CumulativeVolume
		if row.TotalRevenue > 0 {
			active++
		}
	}

	sort.SliceStable(builders, func(i, j int) bool {
		return builders[i].TotalRevenue > builders[j].TotalRevenue
	})

	var growthRate float64
	if len(builders) > 0 {
		growthRate = builders[0].GrowthRate
	}

	logger.Info("built leaderboard",
		zap.String("timeRange", timeRange),
		zap.Int("activeBuilders", active),
		zap.Float64("totalRevenue", totalRevenue))

	return &models.DashboardData{
		Builders:       builders,
		TimeRange:      timeRange,
		LastUpdated:    s.clock.Now(),
		TotalRevenue:   round2(totalRevenue),
		ActiveBuilders: active,
		GrowthRate:     growthRate,
		TotalVolume:    round2(totalVolume),
	}, nil
}

// BuilderByCode returns one builder's dashboard row, or nil when the code is
// not tracked.
func (s *Service) BuilderByCode(ctx context.Context, code string) (*models.BuilderRevenue, error) {
	data, err := s.Dashboard(ctx, DefaultTimeRange)
	if err != nil {
		return nil, err
	}
	for i := range data.Builders {
		if data.Builders[i].BuilderCode == code {
			return &data.Builders[i], nil
		}
	}
	return nil, nil
}

func (s *Service) buildRow(b Builder, breakdown *hyperliquid.RewardsBreakdown, timeRange string, multiplier float64) models.BuilderRevenue {
	revenue := breakdown.Total * multiplier
	volume := breakdown.CumulativeVolume * multiplier

	transactions, avgFee := estimateTransactions(revenue, volume)

	return models.BuilderRevenue{
		BuilderCode:              b.DisplayCode(),
		BuilderName:              b.DisplayName(),
		DailyRevenue:             s.dailySeries(revenue, timeRange),
		TotalRevenue:             round2(revenue),
		BuilderRewards:           round2(breakdown.BuilderRewards * multiplier),
		UnclaimedReferralRewards: round2(breakdown.UnclaimedReferralRewards * multiplier),
		ClaimedReferralRewards:   round2(breakdown.ClaimedReferralRewards * multiplier),
		TotalTransactions:        transactions,
		AvgFee:                   round2(avgFee),
		CumulativeVolume:         round2(volume),
	}
}

// estimateTransactions backs out a trade count from the volume/fee ratio.
// Without volume data it assumes a flat $5 fee per trade.
func estimateTransactions(revenue, volume float64) (int64, float64) {
	if volume > 0 && revenue > 0 {
		avgTradeSize := volume / (revenue / assumedFeeRate)
		transactions := int64(math.Floor(volume / math.Max(100, avgTradeSize)))
		if transactions == 0 {
			return 0, 0
		}
		return transactions, revenue / float64(transactions)
	}
	transactions := int64(math.Floor(revenue / 5))
	if revenue > 0 {
		return transactions, 5
	}
	return transactions, 0
}

// dailySeries distributes window revenue evenly over the window's days so
// repeated requests for the same totals render the same chart.
func (s *Service) dailySeries(totalRevenue float64, timeRange string) []models.DailyRevenue {
	days := timeRangeDays[timeRange]
	perDay := totalRevenue / float64(days)

	today := s.clock.Now().UTC()
	series := make([]models.DailyRevenue, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		series = append(series, models.DailyRevenue{
			Date:    day.Format(time.DateOnly),
			Revenue: round2(perDay),
		})
	}
	return series
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
