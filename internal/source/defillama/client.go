package defillama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/auralabs/aurascan/internal/annualize"
	"github.com/auralabs/aurascan/internal/ratelimit"
	"github.com/auralabs/aurascan/internal/utils/request"
)

// Source is the rate-limiter key for all DeFiLlama calls.
const Source = "defillama"

const defaultBaseURL = "https://api.llama.fi"

// BreakdownEntry is one day of the fee chart breakdown:
// [timestamp, {chain: {app: fee}}].
type BreakdownEntry struct {
	Timestamp int64
	Fees      map[string]map[string]float64
}

// UnmarshalJSON decodes the two-element array form used by the API.
func (e *BreakdownEntry) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) < 2 {
		return fmt.Errorf("breakdown entry has %d elements, want 2", len(raw))
	}
	if err := json.Unmarshal(raw[0], &e.Timestamp); err != nil {
		return fmt.Errorf("breakdown timestamp: %w", err)
	}
	if err := json.Unmarshal(raw[1], &e.Fees); err != nil {
		return fmt.Errorf("breakdown fees: %w", err)
	}
	return nil
}

// Total sums every app on every chain for the day.
func (e BreakdownEntry) Total() float64 {
	var sum float64
	for _, apps := range e.Fees {
		for _, fee := range apps {
			sum += fee
		}
	}
	return sum
}

// ChainTotal sums the apps under one named chain for the day.
func (e BreakdownEntry) ChainTotal(chain string) float64 {
	var sum float64
	for _, fee := range e.Fees[chain] {
		sum += fee
	}
	return sum
}

// FeeSummary /summary/fees/{slug} 响应，窗口字段缺失时为零
type FeeSummary struct {
	Totals    annualize.WindowTotals
	Breakdown []BreakdownEntry
}

type feeSummaryBody struct {
	Total30D  float64          `json:"total30d"`
	Total7D   float64          `json:"total7d"`
	Total24H  float64          `json:"total24h"`
	Breakdown []BreakdownEntry `json:"totalDataChartBreakdown"`
}

// ChartPoint is one [timestamp, fee] pair from /overview/fees.
type ChartPoint struct {
	Timestamp int64
	Value     float64
}

// UnmarshalJSON decodes the two-element array form.
func (p *ChartPoint) UnmarshalJSON(data []byte) error {
	var raw []json.Number
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) < 2 {
		return fmt.Errorf("chart point has %d elements, want 2", len(raw))
	}
	ts, err := raw[0].Int64()
	if err != nil {
		return fmt.Errorf("chart timestamp: %w", err)
	}
	v, err := raw[1].Float64()
	if err != nil {
		return fmt.Errorf("chart value: %w", err)
	}
	p.Timestamp = ts
	p.Value = v
	return nil
}

// Client 访问 DeFiLlama 费用接口
type Client struct {
	baseURL    string
	httpClient *resty.Client
	limiter    *ratelimit.Limiter
}

// NewClient creates a DeFiLlama client. limiter may be shared across sources.
func NewClient(baseURL string, limiter *ratelimit.Limiter) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: request.New(),
		limiter:    limiter,
	}
}

// SetHTTPClient replaces the underlying HTTP client. Used in tests.
func (c *Client) SetHTTPClient(httpClient *resty.Client) {
	c.httpClient = httpClient
}

// FeeSummary fetches /summary/fees/{slug} for a chain or protocol slug.
func (c *Client) FeeSummary(ctx context.Context, slug string) (*FeeSummary, error) {
	if err := c.limiter.Acquire(ctx, Source); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/summary/fees/%s", c.baseURL, slug)
	resp, err := c.httpClient.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	var body feeSummaryBody
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &FeeSummary{
		Totals: annualize.WindowTotals{
			D30: body.Total30D,
			D7:  body.Total7D,
			H24: body.Total24H,
		},
		Breakdown: body.Breakdown,
	}, nil
}

// FeeChart fetches the /overview/fees/{slug} daily chart used for
// app-ecosystem fee aggregation.
func (c *Client) FeeChart(ctx context.Context, slug string) ([]ChartPoint, error) {
	if err := c.limiter.Acquire(ctx, Source); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/overview/fees/%s", c.baseURL, slug)
	resp, err := c.httpClient.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	var body struct {
		TotalDataChart []ChartPoint `json:"totalDataChart"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return body.TotalDataChart, nil
}
