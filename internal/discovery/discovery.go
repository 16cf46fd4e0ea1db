// Package discovery probes candidate addresses for builder activity and
// summarizes the known builder market.
package discovery

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/auralabs/aurascan/internal/logger"
	"github.com/auralabs/aurascan/internal/source/hyperliquid"
)

// RewardsSource 构建者收益数据源
type RewardsSource interface {
	BuilderRewards(ctx context.Context, address string) (*hyperliquid.RewardsBreakdown, error)
	DayFileExists(ctx context.Context, address, date string) bool
}

// ScanResult is one probed candidate address.
type ScanResult struct {
	Address         string  `json:"address"`
	HasRevenue      bool    `json:"hasRevenue"`
	TotalRewards    float64 `json:"totalRewards"`
	BuilderRewards  float64 `json:"builderRewards"`
	ReferralRewards float64 `json:"referralRewards"`
}

// ScanSummary counts a scan's outcomes.
type ScanSummary struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// ArchiveResult reports which daily fill archives exist for an address.
type ArchiveResult struct {
	Address     string   `json:"address"`
	HasCSVData  bool     `json:"hasCSVData"`
	ActiveDates []string `json:"activeDates"`
}

// RevenueShare is one known builder's slice of the observed market.
type RevenueShare struct {
	Address    string  `json:"address"`
	Revenue    float64 `json:"revenue"`
	Percentage float64 `json:"percentage"`
}

// Analysis summarizes the known builder set.
type Analysis struct {
	TotalRevenue        float64        `json:"totalRevenue"`
	AverageRevenue      float64        `json:"averageRevenue"`
	TopBuilder          string         `json:"topBuilder"`
	RevenueDistribution []RevenueShare `json:"revenueDistribution"`
}

// Report is the combined discovery overview.
type Report struct {
	KnownBuilders     int      `json:"knownBuilders"`
	PotentialBuilders int      `json:"potentialBuilders"`
	TotalMarketSize   float64  `json:"totalMarketSize"`
	Recommendations   []string `json:"recommendations"`
}

// recommendations are fixed guidance for widening the candidate list; there
// is no automated channel for any of these yet.
var recommendations = []string{
	"Monitor community channels for new project announcements",
	"Check ecosystem directories and GitHub repositories",
	"Analyze high-volume trading addresses from block explorers",
	"Track referral program participants",
	"Look for addresses with consistent CSV data uploads",
}

// Service runs discovery probes over a configured candidate list. The first
// knownCount candidates are the builders already tracked by the dashboard.
type Service struct {
	rewards    RewardsSource
	candidates []string
	knownCount int
}

// NewService creates a discovery Service. knownCount is clamped to the
// candidate list length.
func NewService(rewards RewardsSource, candidates []string, knownCount int) *Service {
	if knownCount > len(candidates) {
		knownCount = len(candidates)
	}
	return &Service{
		rewards:    rewards,
		candidates: candidates,
		knownCount: knownCount,
	}
}

// Known returns the tracked builder addresses.
func (s *Service) Known() []string {
	return s.candidates[:s.knownCount]
}

// Scan probes every candidate address for builder revenue. A failed probe is
// recorded as an inactive zero row rather than aborting the scan.
func (s *Service) Scan(ctx context.Context) ([]ScanResult, ScanSummary, error) {
	results := make([]ScanResult, 0, len(s.candidates))
	for _, address := range s.candidates {
		if err := ctx.Err(); err != nil {
			return nil, ScanSummary{}, err
		}

		rewards, err := s.rewards.BuilderRewards(ctx, address)
		if err != nil {
			logger.Warn("builder probe failed",
				zap.String("address", address), zap.Error(err))
			results = append(results, ScanResult{Address: address})
			continue
		}

		result := ScanResult{
			Address:         address,
			HasRevenue:      rewards.Total > 0,
			TotalRewards:    rewards.Total,
			BuilderRewards:  rewards.BuilderRewards,
			ReferralRewards: rewards.ReferralRewards(),
		}
		results = append(results, result)

		if result.HasRevenue {
			logger.Info("active builder found",
				zap.String("address", address),
				zap.Float64("totalRewards", result.TotalRewards))
		}
	}

	summary := ScanSummary{Total: len(results)}
	for _, r := range results {
		if r.HasRevenue {
			summary.Active++
		} else {
			summary.Inactive++
		}
	}
	return results, summary, nil
}

// CheckArchives probes the daily fill archive for each address over the
// given dates. A missing archive is a normal outcome, not an error.
func (s *Service) CheckArchives(ctx context.Context, addresses, dates []string) ([]ArchiveResult, error) {
	results := make([]ArchiveResult, 0, len(addresses))
	for _, address := range addresses {
		active := make([]string, 0, len(dates))
		for _, date := range dates {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if !s.rewards.DayFileExists(ctx, address, date) {
				continue
			}
			active = append(active, date)
		}
		results = append(results, ArchiveResult{
			Address:     address,
			HasCSVData:  len(active) > 0,
			ActiveDates: active,
		})
	}
	return results, nil
}

// AnalyzeKnown sizes the known builder market: total, per-builder average,
// the top earner and each builder's share. Builders whose probe fails are
// left out of the distribution.
func (s *Service) AnalyzeKnown(ctx context.Context) (Analysis, error) {
	var total float64
	shares := make([]RevenueShare, 0, s.knownCount)

	for _, address := range s.Known() {
		if err := ctx.Err(); err != nil {
			return Analysis{}, err
		}
		rewards, err := s.rewards.BuilderRewards(ctx, address)
		if err != nil {
			logger.Warn("failed to analyze builder",
				zap.String("address", address), zap.Error(err))
			continue
		}
		shares = append(shares, RevenueShare{Address: address, Revenue: rewards.Total})
		total += rewards.Total
	}

	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Revenue > shares[j].Revenue
	})

	analysis := Analysis{
		TotalRevenue:        total,
		RevenueDistribution: shares,
	}
	if len(shares) > 0 {
		analysis.AverageRevenue = total / float64(len(shares))
		analysis.TopBuilder = shares[0].Address
	}
	if total > 0 {
		for i := range analysis.RevenueDistribution {
			analysis.RevenueDistribution[i].Percentage = analysis.RevenueDistribution[i].Revenue / total * 100
		}
	}
	return analysis, nil
}

// GenerateReport combines a full scan with the known-builder analysis.
func (s *Service) GenerateReport(ctx context.Context) (Report, error) {
	results, summary, err := s.Scan(ctx)
	if err != nil {
		return Report{}, err
	}
	analysis, err := s.AnalyzeKnown(ctx)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		KnownBuilders:     summary.Active,
		PotentialBuilders: len(results) - summary.Active,
		TotalMarketSize:   analysis.TotalRevenue,
		Recommendations:   recommendations,
	}
	logger.Info("discovery report generated",
		zap.Int("activeBuilders", report.KnownBuilders),
		zap.Float64("marketSize", report.TotalMarketSize))
	return report, nil
}
