package models

import "time"

// DailyRevenue 单日收入切片
type DailyRevenue struct {
	Date             string  `json:"date"`
	Revenue          float64 `json:"revenue"`
	TransactionCount int     `json:"transactionCount"`
	AvgFee           float64 `json:"avgFee"`
}

// BuilderRevenue builder 地址在看板上的一行：累计奖励拆分加估算交易指标
type BuilderRevenue struct {
	BuilderCode  string         `json:"builderCode"`
	BuilderName  string         `json:"builderName,omitempty"`
	DailyRevenue []DailyRevenue `json:"dailyRevenue"`
	TotalRevenue float64        `json:"totalRevenue"`

	// Reward breakdown for stacked charts. All non-negative;
	// TotalRevenue = BuilderRewards + UnclaimedReferralRewards + ClaimedReferralRewards
	// before any time-range scaling.
	BuilderRewards           float64 `json:"builderRewards"`
	UnclaimedReferralRewards float64 `json:"unclaimedReferralRewards"`
	ClaimedReferralRewards   float64 `json:"claimedReferralRewards"`

	TotalTransactions int64   `json:"totalTransactions"`
	AvgFee            float64 `json:"avgFee"`
	GrowthRate        float64 `json:"growthRate"`
	CumulativeVolume  float64 `json:"cumulativeVolume"`
}

// DashboardData builder 排行榜整体数据
type DashboardData struct {
	Builders       []BuilderRevenue `json:"builders"`
	TimeRange      string           `json:"timeRange"`
	LastUpdated    time.Time        `json:"lastUpdated"`
	TotalRevenue   float64          `json:"totalRevenue"`
	ActiveBuilders int              `json:"activeBuilders"`
	GrowthRate     float64          `json:"growthRate"`
	TotalVolume    float64          `json:"totalVolume"`
}
