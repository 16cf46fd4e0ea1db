package hyperliquid

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pierrec/lz4/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/auralabs/aurascan/internal/adapter"
	"github.com/auralabs/aurascan/internal/ratelimit"
)

func testLimiter() *ratelimit.Limiter {
	return ratelimit.New(time.Millisecond, nil)
}

// infoResponses configures the fake info API by request type.
type infoResponses struct {
	referral        string
	userFills       string
	userFillsByTime string
	// failTypes return HTTP 500 for the named request types
	failTypes map[string]bool
}

func newInfoServer(t *testing.T, cfg infoResponses) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Type string `json:"type"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		if cfg.failTypes[payload.Type] {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		switch payload.Type {
		case "referral":
			_, _ = w.Write([]byte(cfg.referral))
		case "userFills":
			_, _ = w.Write([]byte(cfg.userFills))
		case "userFillsByTime":
			_, _ = w.Write([]byte(cfg.userFillsByTime))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
}

func compressCSV(t *testing.T, csvData string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	_, err := zw.Write([]byte(csvData))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestBuilderRewards(t *testing.T) {
	info := newInfoServer(t, infoResponses{
		referral: `{"cumVlm": "9999", "builderRewards": "100", "unclaimedRewards": "20", "claimedRewards": "30"}`,
		// one fill of notional 1000 carrying 0.3 in fees: observed rate 0.0003
		userFills: `[{"coin": "BTC", "px": "10", "sz": "100", "fee": "0.3", "builderFee": "0", "time": 1717200000000}]`,
	})
	defer info.Close()

	c := NewClient(info.URL, "", testLimiter(), adapter.NewClock())
	c.SetHTTPClient(resty.New())

	breakdown, err := c.BuilderRewards(context.Background(), "0xabc")
	require.NoError(t, err)

	assert.Equal(t, 100.0, breakdown.BuilderRewards)
	assert.Equal(t, 50.0, breakdown.ReferralRewards())
	assert.Equal(t, 150.0, breakdown.Total)
	assert.InDelta(t, 150/0.0003, breakdown.CumulativeVolume, 1e-6)
}

func TestBuilderRewardsNoFillSample(t *testing.T) {
	info := newInfoServer(t, infoResponses{
		referral:  `{"builderRewards": "300", "unclaimedRewards": "0", "claimedRewards": "0"}`,
		userFills: `[]`,
	})
	defer info.Close()

	c := NewClient(info.URL, "", testLimiter(), adapter.NewClock())
	c.SetHTTPClient(resty.New())

	breakdown, err := c.BuilderRewards(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.InDelta(t, 300/DefaultFeeRate, breakdown.CumulativeVolume, 1e-6)
}

func TestBuilderRewardsMalformedAmounts(t *testing.T) {
	info := newInfoServer(t, infoResponses{
		referral:  `{"builderRewards": "not-a-number", "unclaimedRewards": "", "claimedRewards": "5"}`,
		userFills: `[]`,
	})
	defer info.Close()

	c := NewClient(info.URL, "", testLimiter(), adapter.NewClock())
	c.SetHTTPClient(resty.New())

	breakdown, err := c.BuilderRewards(context.Background(), "0xabc")
	require.NoError(t, err)
	assert.Zero(t, breakdown.BuilderRewards)
	assert.Equal(t, 5.0, breakdown.Total)
}

func TestDayFills(t *testing.T) {
	archive := compressCSV(t, "coin,px,sz,fee,builder_fee\nBTC,100,1,0.5,2.5\nETH,50,2,0.25,1.75\n")
	stats := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/0xabc/20250601.csv.lz4", r.URL.Path)
		_, _ = w.Write(archive)
	}))
	defer stats.Close()

	c := NewClient("http://unused.invalid", stats.URL, testLimiter(), adapter.NewClock())
	c.SetHTTPClient(resty.New())

	fills, err := c.DayFills(context.Background(), "0xABC", "20250601")
	require.NoError(t, err)
	require.Len(t, fills, 2)
	assert.Equal(t, 0.5, fills[0].Fee)
	assert.Equal(t, 2.5, fills[0].BuilderFee)
	assert.Equal(t, 1.75, fills[1].BuilderFee)
}

func TestDayFillsHeaderOnly(t *testing.T) {
	archive := compressCSV(t, "coin,px,sz,fee,builder_fee\n")
	stats := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(archive)
	}))
	defer stats.Close()

	c := NewClient("http://unused.invalid", stats.URL, testLimiter(), adapter.NewClock())
	c.SetHTTPClient(resty.New())

	fills, err := c.DayFills(context.Background(), "0xabc", "20250601")
	require.NoError(t, err)
	assert.Empty(t, fills)
}

func TestDayFileExists(t *testing.T) {
	stats := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/0xknown/20250601.csv.lz4" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer stats.Close()

	c := NewClient("http://unused.invalid", stats.URL, testLimiter(), adapter.NewClock())
	c.SetHTTPClient(resty.New())

	assert.True(t, c.DayFileExists(context.Background(), "0xKNOWN", "20250601"))
	assert.False(t, c.DayFileExists(context.Background(), "0xother", "20250601"))
}

func TestAnnualizedBuilderRevenue(t *testing.T) {
	info := newInfoServer(t, infoResponses{
		referral: `{"builderRewards": "100", "unclaimedRewards": "20", "claimedRewards": "30"}`,
		// recent activity puts the referral run rate in the high tier
		userFillsByTime: `[{"coin": "BTC", "px": "1", "sz": "1", "fee": "0", "builderFee": "0", "time": 1717200000000}]`,
	})
	defer info.Close()

	// every day of the sweep has one fill with 10 in builder fees
	archive := compressCSV(t, "coin,px,sz,fee,builder_fee\nBTC,100,1,0.5,10\n")
	stats := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(archive)
	}))
	defer stats.Close()

	c := NewClient(info.URL, stats.URL, testLimiter(), adapter.NewClock())
	c.SetHTTPClient(resty.New())

	revenue, err := c.AnnualizedBuilderRevenue(context.Background(), "0xabc")
	require.NoError(t, err)

	// direct: 30 days * 10; referral: 50 cumulative * 25%/yr / 12
	wantDirect := 300.0
	wantReferral := 50 * 0.25 / 12
	assert.InDelta(t, wantDirect, revenue.Breakdown.TradingFees30D, 1e-9)
	assert.InDelta(t, wantReferral, revenue.Breakdown.EstimatedReferralFees30D, 1e-9)
	assert.InDelta(t, (wantDirect+wantReferral)*12, revenue.Annualized, 1e-9)
	assert.Equal(t, "30d direct + referral estimate", revenue.DataSource)
	assert.Equal(t, 150.0, revenue.TotalCumulative)
}

func TestAnnualizedBuilderRevenueCumulativeFallback(t *testing.T) {
	info := newInfoServer(t, infoResponses{
		referral:  `{"builderRewards": "100", "unclaimedRewards": "200", "claimedRewards": "0"}`,
		failTypes: map[string]bool{"userFillsByTime": true},
	})
	defer info.Close()

	stats := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer stats.Close()

	c := NewClient(info.URL, stats.URL, testLimiter(), adapter.NewClock())
	c.SetHTTPClient(resty.New())

	revenue, err := c.AnnualizedBuilderRevenue(context.Background(), "0xabc")
	require.NoError(t, err)

	// cumulative 300 treated as a six-month figure and doubled
	assert.Equal(t, 600.0, revenue.Annualized)
	assert.Equal(t, "estimated from 6mo avg cumulative", revenue.DataSource)
	assert.InDelta(t, 50, revenue.Breakdown.TotalFees30D, 1e-9)
}

func TestAnnualizedBuilderRevenueReferralOnly(t *testing.T) {
	info := newInfoServer(t, infoResponses{
		referral:        `{"builderRewards": "0", "unclaimedRewards": "120", "claimedRewards": "0"}`,
		userFillsByTime: `[]`,
	})
	defer info.Close()

	stats := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer stats.Close()

	c := NewClient(info.URL, stats.URL, testLimiter(), adapter.NewClock())
	c.SetHTTPClient(resty.New())

	revenue, err := c.AnnualizedBuilderRevenue(context.Background(), "0xabc")
	require.NoError(t, err)

	// no archive data but the probe worked: low-activity tier, 2%/yr
	wantReferral := 120 * 0.02 / 12
	assert.InDelta(t, wantReferral*12, revenue.Annualized, 1e-9)
	assert.Equal(t, "referral estimate only", revenue.DataSource)
}

func TestAnnualizedBuilderRevenueReferralError(t *testing.T) {
	info := newInfoServer(t, infoResponses{
		failTypes: map[string]bool{"referral": true},
	})
	defer info.Close()

	c := NewClient(info.URL, "http://unused.invalid", testLimiter(), adapter.NewClock())
	c.SetHTTPClient(resty.New())

	_, err := c.AnnualizedBuilderRevenue(context.Background(), "0xabc")
	assert.Error(t, err)
}
