package leaderboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auralabs/aurascan/internal/source/hyperliquid"
)

type fakeRewards struct {
	mu        sync.Mutex
	rewards   map[string]*hyperliquid.RewardsBreakdown
	failAddrs map[string]bool
}

func (f *fakeRewards) BuilderRewards(_ context.Context, address string) (*hyperliquid.RewardsBreakdown, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAddrs[address] {
		return nil, errors.New("probe failed")
	}
	if r, ok := f.rewards[address]; ok {
		return r, nil
	}
	return &hyperliquid.RewardsBreakdown{}, nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time                  { return c.now }
func (c fixedClock) Since(t time.Time) time.Duration { return c.now.Sub(t) }
func (c fixedClock) Sleep(time.Duration)             {}

var testBuilders = []Builder{
	{Address: "0xaaa", Name: "pvp.trade", Code: "PVP001"},
	{Address: "0xbbb", Name: "Axiom", Code: "AXM001"},
}

func testClock() fixedClock {
	return fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func TestDashboardScalesByTimeRange(t *testing.T) {
	rewards := &fakeRewards{rewards: map[string]*hyperliquid.RewardsBreakdown{
		"0xaaa": {Total: 1_000_000, BuilderRewards: 600_000, CumulativeVolume: 3_000_000_000},
	}}
	svc := NewService(rewards, testBuilders[:1], testClock())

	tests := []struct {
		timeRange   string
		wantRevenue float64
		wantDays    int
	}{
		{timeRange: "24h", wantRevenue: 8_000, wantDays: 1},
		{timeRange: "7d", wantRevenue: 50_000, wantDays: 7},
		{timeRange: "30d", wantRevenue: 150_000, wantDays: 30},
		{timeRange: "90d", wantRevenue: 400_000, wantDays: 90},
		{timeRange: "all", wantRevenue: 1_000_000, wantDays: 730},
	}

	for _, tt := range tests {
		t.Run(tt.timeRange, func(t *testing.T) {
			data, err := svc.Dashboard(context.Background(), tt.timeRange)
			require.NoError(t, err)
			require.Len(t, data.Builders, 1)
			assert.InDelta(t, tt.wantRevenue, data.Builders[0].TotalRevenue, 0.01)
			assert.Len(t, data.Builders[0].DailyRevenue, tt.wantDays)
			assert.Equal(t, tt.timeRange, data.TimeRange)
		})
	}
}

func TestDashboardInvalidTimeRangeDefaults(t *testing.T) {
	rewards := &fakeRewards{}
	svc := NewService(rewards, testBuilders, testClock())

	data, err := svc.Dashboard(context.Background(), "1y")
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeRange, data.TimeRange)
}

func TestDashboardSortsByRevenue(t *testing.T) {
	rewards := &fakeRewards{rewards: map[string]*hyperliquid.RewardsBreakdown{
		"0xaaa": {Total: 100},
		"0xbbb": {Total: 5_000},
	}}
	svc := NewService(rewards, testBuilders, testClock())

	data, err := svc.Dashboard(context.Background(), "all")
	require.NoError(t, err)
	require.Len(t, data.Builders, 2)
	assert.Equal(t, "Axiom", data.Builders[0].BuilderName)
	assert.Equal(t, "pvp.trade", data.Builders[1].BuilderName)
	assert.Equal(t, 2, data.ActiveBuilders)
	assert.InDelta(t, 5_100, data.TotalRevenue, 0.01)
}

func TestDashboardFailedProbeYieldsZeroRow(t *testing.T) {
	rewards := &fakeRewards{
		rewards:   map[string]*hyperliquid.RewardsBreakdown{"0xaaa": {Total: 100}},
		failAddrs: map[string]bool{"0xbbb": true},
	}
	svc := NewService(rewards, testBuilders, testClock())

	data, err := svc.Dashboard(context.Background(), "all")
	require.NoError(t, err)
	require.Len(t, data.Builders, 2)
	assert.Equal(t, 1, data.ActiveBuilders)
	assert.Zero(t, data.Builders[1].TotalRevenue)
}

func TestTransactionEstimation(t *testing.T) {
	// volume 1e9 and revenue 1000 imply an average trade size of 300:
	// 1e9 / (1000/0.0003) = 300, so tx = floor(1e9/300)
	tx, avgFee := estimateTransactions(1_000, 1_000_000_000)
	assert.Equal(t, int64(3_333_333), tx)
	assert.InDelta(t, 1_000/3_333_333.0, avgFee, 1e-9)

	// tiny trade sizes are clamped to a 100-notional floor
	tx, _ = estimateTransactions(1_000_000, 3_000_000_000)
	assert.Equal(t, int64(30_000_000), tx)

	// without volume data: flat $5 per trade
	tx, avgFee = estimateTransactions(1_000, 0)
	assert.Equal(t, int64(200), tx)
	assert.Equal(t, 5.0, avgFee)

	tx, avgFee = estimateTransactions(0, 0)
	assert.Zero(t, tx)
	assert.Zero(t, avgFee)
}

func TestDailySeriesIsDeterministic(t *testing.T) {
	rewards := &fakeRewards{rewards: map[string]*hyperliquid.RewardsBreakdown{
		"0xaaa": {Total: 700},
	}}
	svc := NewService(rewards, testBuilders[:1], testClock())

	first, err := svc.Dashboard(context.Background(), "7d")
	require.NoError(t, err)
	second, err := svc.Dashboard(context.Background(), "7d")
	require.NoError(t, err)

	assert.Equal(t, first.Builders[0].DailyRevenue, second.Builders[0].DailyRevenue)

	series := first.Builders[0].DailyRevenue
	require.Len(t, series, 7)
	assert.Equal(t, "2025-05-26", series[0].Date)
	assert.Equal(t, "2025-06-01", series[6].Date)
	for _, day := range series {
		assert.InDelta(t, 700*0.05/7, day.Revenue, 0.01)
	}
}

func TestBuilderByCode(t *testing.T) {
	rewards := &fakeRewards{rewards: map[string]*hyperliquid.RewardsBreakdown{
		"0xbbb": {Total: 5_000},
	}}
	svc := NewService(rewards, testBuilders, testClock())

	builder, err := svc.BuilderByCode(context.Background(), "AXM001")
	require.NoError(t, err)
	require.NotNil(t, builder)
	assert.Equal(t, "Axiom", builder.BuilderName)

	missing, err := svc.BuilderByCode(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestBuilderFallbackIdentity(t *testing.T) {
	b := Builder{Address: "0x7975cafdff839ed5047244ed3a0dd82a89866081"}
	assert.Equal(t, "Builder 0x7975ca...", b.DisplayName())
	assert.Equal(t, "866081", b.DisplayCode())
}
