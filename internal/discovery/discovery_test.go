package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auralabs/aurascan/internal/source/hyperliquid"
)

type fakeRewards struct {
	rewards   map[string]*hyperliquid.RewardsBreakdown
	failAddrs map[string]bool
	archives  map[string]map[string]bool // address -> date -> exists
}

func (f *fakeRewards) BuilderRewards(_ context.Context, address string) (*hyperliquid.RewardsBreakdown, error) {
	if f.failAddrs[address] {
		return nil, errors.New("probe failed")
	}
	if r, ok := f.rewards[address]; ok {
		return r, nil
	}
	return &hyperliquid.RewardsBreakdown{}, nil
}

func (f *fakeRewards) DayFileExists(_ context.Context, address, date string) bool {
	return f.archives[address][date]
}

func TestScan(t *testing.T) {
	rewards := &fakeRewards{
		rewards: map[string]*hyperliquid.RewardsBreakdown{
			"0xactive": {Total: 1000, BuilderRewards: 600, UnclaimedReferralRewards: 300, ClaimedReferralRewards: 100},
		},
		failAddrs: map[string]bool{"0xbroken": true},
	}
	svc := NewService(rewards, []string{"0xactive", "0xquiet", "0xbroken"}, 1)

	results, summary, err := svc.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[0].HasRevenue)
	assert.Equal(t, 1000.0, results[0].TotalRewards)
	assert.Equal(t, 400.0, results[0].ReferralRewards)

	// a quiet address and a failed probe both yield inactive zero rows
	assert.False(t, results[1].HasRevenue)
	assert.False(t, results[2].HasRevenue)
	assert.Zero(t, results[2].TotalRewards)

	assert.Equal(t, ScanSummary{Total: 3, Active: 1, Inactive: 2}, summary)
}

func TestScanCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewService(&fakeRewards{}, []string{"0xa"}, 1)
	_, _, err := svc.Scan(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCheckArchives(t *testing.T) {
	rewards := &fakeRewards{
		archives: map[string]map[string]bool{
			"0xa": {"20241201": true, "20241203": true},
		},
	}
	svc := NewService(rewards, []string{"0xa", "0xb"}, 2)

	dates := []string{"20241201", "20241202", "20241203"}
	results, err := svc.CheckArchives(context.Background(), svc.Known(), dates)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.True(t, results[0].HasCSVData)
	assert.Equal(t, []string{"20241201", "20241203"}, results[0].ActiveDates)
	assert.False(t, results[1].HasCSVData)
	assert.Empty(t, results[1].ActiveDates)
}

func TestAnalyzeKnown(t *testing.T) {
	rewards := &fakeRewards{
		rewards: map[string]*hyperliquid.RewardsBreakdown{
			"0xsmall":  {Total: 1000},
			"0xbig":    {Total: 9000},
			"0xbroken": nil,
		},
		failAddrs: map[string]bool{"0xbroken": true},
	}
	svc := NewService(rewards, []string{"0xsmall", "0xbig", "0xbroken", "0xcandidate"}, 3)

	analysis, err := svc.AnalyzeKnown(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 10_000.0, analysis.TotalRevenue)
	assert.Equal(t, 5_000.0, analysis.AverageRevenue)
	assert.Equal(t, "0xbig", analysis.TopBuilder)

	// failed probe is excluded from the distribution entirely
	require.Len(t, analysis.RevenueDistribution, 2)
	assert.Equal(t, "0xbig", analysis.RevenueDistribution[0].Address)
	assert.InDelta(t, 90, analysis.RevenueDistribution[0].Percentage, 1e-9)
	assert.InDelta(t, 10, analysis.RevenueDistribution[1].Percentage, 1e-9)
}

func TestAnalyzeKnownEmpty(t *testing.T) {
	rewards := &fakeRewards{failAddrs: map[string]bool{"0xa": true}}
	svc := NewService(rewards, []string{"0xa"}, 1)

	analysis, err := svc.AnalyzeKnown(context.Background())
	require.NoError(t, err)
	assert.Zero(t, analysis.TotalRevenue)
	assert.Zero(t, analysis.AverageRevenue)
	assert.Empty(t, analysis.TopBuilder)
}

func TestGenerateReport(t *testing.T) {
	rewards := &fakeRewards{
		rewards: map[string]*hyperliquid.RewardsBreakdown{
			"0xa": {Total: 1000},
			"0xb": {Total: 500},
		},
	}
	svc := NewService(rewards, []string{"0xa", "0xb", "0xc"}, 2)

	report, err := svc.GenerateReport(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.KnownBuilders)
	assert.Equal(t, 1, report.PotentialBuilders)
	assert.Equal(t, 1500.0, report.TotalMarketSize)
	assert.Len(t, report.Recommendations, 5)
}

func TestKnownClamped(t *testing.T) {
	svc := NewService(&fakeRewards{}, []string{"0xa"}, 5)
	assert.Equal(t, []string{"0xa"}, svc.Known())
}
