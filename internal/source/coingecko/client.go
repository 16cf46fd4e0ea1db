package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/auralabs/aurascan/internal/ratelimit"
	"github.com/auralabs/aurascan/internal/utils/request"
)

// Source is the rate-limiter key for all CoinGecko calls.
const Source = "coingecko"

const defaultBaseURL = "https://api.coingecko.com/api/v3"

// MarketData 单个代币的市场数据，零值表示上游未提供
type MarketData struct {
	CurrentPrice float64 `json:"currentPrice"`
	FDV          float64 `json:"fdv"`
}

type coinBody struct {
	MarketData struct {
		CurrentPrice struct {
			USD float64 `json:"usd"`
		} `json:"current_price"`
		FullyDilutedValuation struct {
			USD float64 `json:"usd"`
		} `json:"fully_diluted_valuation"`
		MarketCap struct {
			USD float64 `json:"usd"`
		} `json:"market_cap"`
	} `json:"market_data"`
}

// Client 访问 CoinGecko 行情接口
type Client struct {
	baseURL    string
	httpClient *resty.Client
	limiter    *ratelimit.Limiter
}

// NewClient creates a CoinGecko client.
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

// MarketData fetches current price and fully diluted valuation for a token.
// Market cap stands in when FDV is not published.
func (c *Client) MarketData(ctx context.Context, tokenID string) (*MarketData, error) {
	if err := c.limiter.Acquire(ctx, Source); err != nil {
		return nil, err
	}

	url := fmt.Sprintf(
		"%s/coins/%s?localization=false&tickers=false&market_data=true&community_data=false&developer_data=false&sparkline=false",
		c.baseURL, tokenID,
	)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	var body coinBody
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	data := &MarketData{
		CurrentPrice: body.MarketData.CurrentPrice.USD,
		FDV:          body.MarketData.FullyDilutedValuation.USD,
	}
	if data.FDV == 0 {
		data.FDV = body.MarketData.MarketCap.USD
	}
	return data, nil
}
