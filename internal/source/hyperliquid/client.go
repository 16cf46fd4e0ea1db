package hyperliquid

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pierrec/lz4/v4"

	"github.com/auralabs/aurascan/internal/adapter"
	"github.com/auralabs/aurascan/internal/ratelimit"
	"github.com/auralabs/aurascan/internal/utils/request"
)

// Rate-limiter keys. The info API and the stats archive have independent
// budgets: archive probes run in bulk scans at a much shorter interval.
const (
	Source      = "hyperliquid"
	SourceStats = "hyperliquid-stats"
)

const (
	defaultInfoURL  = "https://api.hyperliquid.xyz/info"
	defaultStatsURL = "https://stats-data.hyperliquid.xyz/Mainnet/builder_fills"

	// DefaultFeeRate is the assumed average derivatives fee rate used to
	// estimate notional volume when no fill sample is available (~0.03%).
	DefaultFeeRate = 0.0003
)

// ReferralSummary /info type=referral 响应，数值均为字符串编码的累计值
type ReferralSummary struct {
	CumVolume        string `json:"cumVlm"`
	UnclaimedRewards string `json:"unclaimedRewards"`
	ClaimedRewards   string `json:"claimedRewards"`
	BuilderRewards   string `json:"builderRewards"`
}

// Fill is one fill from the userFills/userFillsByTime queries.
type Fill struct {
	Coin       string `json:"coin"`
	Px         string `json:"px"`
	Sz         string `json:"sz"`
	Fee        string `json:"fee"`
	BuilderFee string `json:"builderFee"`
	Time       int64  `json:"time"`
}

// RewardsBreakdown builder 累计奖励拆分
type RewardsBreakdown struct {
	Total                    float64 `json:"total"`
	BuilderRewards           float64 `json:"builderRewards"`
	UnclaimedReferralRewards float64 `json:"unclaimedReferralRewards"`
	ClaimedReferralRewards   float64 `json:"claimedReferralRewards"`
	CumulativeVolume         float64 `json:"cumulativeVolume"`
}

// ReferralRewards is the referral-only portion of the breakdown.
func (b RewardsBreakdown) ReferralRewards() float64 {
	return b.UnclaimedReferralRewards + b.ClaimedReferralRewards
}

// DayFill is one row of a per-day builder fill archive.
type DayFill struct {
	Fee        float64
	BuilderFee float64
}

// Client 访问 Hyperliquid info 接口与逐日成交归档
type Client struct {
	infoURL    string
	statsURL   string
	httpClient *resty.Client
	limiter    *ratelimit.Limiter
	clock      adapter.Clock
}

// NewClient creates a Hyperliquid client.
func NewClient(infoURL, statsURL string, limiter *ratelimit.Limiter, clock adapter.Clock) *Client {
	if infoURL == "" {
		infoURL = defaultInfoURL
	}
	if statsURL == "" {
		statsURL = defaultStatsURL
	}
	return &Client{
		infoURL:    infoURL,
		statsURL:   statsURL,
		httpClient: request.New(),
		limiter:    limiter,
		clock:      clock,
	}
}

// SetHTTPClient replaces the underlying HTTP client. Used in tests.
func (c *Client) SetHTTPClient(httpClient *resty.Client) {
	c.httpClient = httpClient
}

func (c *Client) post(ctx context.Context, payload interface{}, out interface{}) error {
	if err := c.limiter.Acquire(ctx, Source); err != nil {
		return err
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(c.infoURL)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Referral fetches the cumulative referral/builder reward state for an address.
func (c *Client) Referral(ctx context.Context, address string) (*ReferralSummary, error) {
	payload := map[string]interface{}{
		"type": "referral",
		"user": address,
	}
	var summary ReferralSummary
	if err := c.post(ctx, payload, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// UserFills fetches a recent fill sample for an address.
func (c *Client) UserFills(ctx context.Context, address string) ([]Fill, error) {
	payload := map[string]interface{}{
		"type": "userFills",
		"user": address,
	}
	var fills []Fill
	if err := c.post(ctx, payload, &fills); err != nil {
		return nil, err
	}
	return fills, nil
}

// UserFillsByTime fetches fills for an address within [start, end].
func (c *Client) UserFillsByTime(ctx context.Context, address string, start, end time.Time) ([]Fill, error) {
	payload := map[string]interface{}{
		"type":      "userFillsByTime",
		"user":      address,
		"startTime": start.UnixMilli(),
		"endTime":   end.UnixMilli(),
	}
	var fills []Fill
	if err := c.post(ctx, payload, &fills); err != nil {
		return nil, err
	}
	return fills, nil
}

// BuilderRewards fetches and parses the cumulative reward breakdown for a
// builder address, including an estimated notional volume.
func (c *Client) BuilderRewards(ctx context.Context, address string) (*RewardsBreakdown, error) {
	summary, err := c.Referral(ctx, address)
	if err != nil {
		return nil, err
	}

	breakdown := &RewardsBreakdown{
		BuilderRewards:           parseAmount(summary.BuilderRewards),
		UnclaimedReferralRewards: parseAmount(summary.UnclaimedRewards),
		ClaimedReferralRewards:   parseAmount(summary.ClaimedRewards),
	}
	breakdown.Total = breakdown.BuilderRewards + breakdown.ReferralRewards()
	breakdown.CumulativeVolume = c.notionalVolume(ctx, address, breakdown.Total)
	return breakdown, nil
}

// notionalVolume estimates total traded volume from cumulative fees using the
// fee rate observed in a fill sample, falling back to DefaultFeeRate.
func (c *Client) notionalVolume(ctx context.Context, address string, totalFees float64) float64 {
	fills, err := c.UserFills(ctx, address)
	if err != nil || len(fills) == 0 {
		return totalFees / DefaultFeeRate
	}

	var sampleVolume, sampleFees float64
	for _, fill := range fills {
		sampleVolume += parseAmount(fill.Px) * parseAmount(fill.Sz)
		sampleFees += parseAmount(fill.Fee) + parseAmount(fill.BuilderFee)
	}
	if sampleFees <= 0 || sampleVolume <= 0 {
		return totalFees / DefaultFeeRate
	}
	return totalFees / (sampleFees / sampleVolume)
}

// DayFills downloads and parses the LZ4-compressed per-day fill archive for
// a builder. date is YYYYMMDD. An empty archive yields an empty slice.
func (c *Client) DayFills(ctx context.Context, address, date string) ([]DayFill, error) {
	if err := c.limiter.Acquire(ctx, SourceStats); err != nil {
		return nil, err
	}

	url := c.dayFileURL(address, date)
	resp, err := c.httpClient.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	return parseDayFills(resp.Body())
}

// DayFileExists probes the per-day archive with a HEAD request, without
// downloading the body.
func (c *Client) DayFileExists(ctx context.Context, address, date string) bool {
	if err := c.limiter.Acquire(ctx, SourceStats); err != nil {
		return false
	}

	resp, err := c.httpClient.R().SetContext(ctx).Head(c.dayFileURL(address, date))
	if err != nil {
		return false
	}
	return resp.StatusCode() == http.StatusOK
}

func (c *Client) dayFileURL(address, date string) string {
	return fmt.Sprintf("%s/%s/%s.csv.lz4", c.statsURL, strings.ToLower(address), date)
}

func parseDayFills(compressed []byte) ([]DayFill, error) {
	decompressed, err := io.ReadAll(lz4.NewReader(strings.NewReader(string(compressed))))
	if err != nil {
		return nil, fmt.Errorf("failed to decompress archive: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(string(decompressed)))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse archive csv: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	feeIdx, builderFeeIdx := -1, -1
	for i, col := range records[0] {
		switch strings.TrimSpace(col) {
		case "fee":
			feeIdx = i
		case "builder_fee":
			builderFeeIdx = i
		}
	}

	fills := make([]DayFill, 0, len(records)-1)
	for _, row := range records[1:] {
		var fill DayFill
		if feeIdx >= 0 && feeIdx < len(row) {
			fill.Fee = parseAmount(row[feeIdx])
		}
		if builderFeeIdx >= 0 && builderFeeIdx < len(row) {
			fill.BuilderFee = parseAmount(row[builderFeeIdx])
		}
		fills = append(fills, fill)
	}
	return fills, nil
}

// parseAmount parses a string-encoded amount, treating empty or malformed
// values as zero. Upstream encodes all monetary values as strings.
func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
