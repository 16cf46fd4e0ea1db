package models

import (
	"encoding/json"
	"math"
	"time"
)

// Category 项目分类
type Category string

const (
	CategoryL1          Category = "L1"
	CategoryL2          Category = "L2"
	CategoryL3          Category = "L3"
	CategoryApplication Category = "Application"
	CategoryDApp        Category = "dApp"
	CategoryStablecoins Category = "Stablecoins"
)

// IsInfrastructure reports whether the category counts as chain infrastructure
// for scoring and summary grouping.
func (c Category) IsInfrastructure() bool {
	return c == CategoryL1 || c == CategoryL2 || c == CategoryL3
}

// Project 跟踪的项目（链、应用或稳定币发行方），Name 为全局唯一主键
type Project struct {
	Name              string   `json:"name" mapstructure:"name"`
	Category          Category `json:"category" mapstructure:"category"`
	SecondaryCategory string   `json:"secondaryCategory,omitempty" mapstructure:"secondary_category"`
	AmountRaised      float64  `json:"amountRaised" mapstructure:"amount_raised"`

	// UseDefillama selects the adapter family: true = DeFiLlama fee APIs,
	// false = Hyperliquid builder APIs (HyperliquidBuilder required).
	UseDefillama       bool   `json:"useDefillama" mapstructure:"use_defillama"`
	HyperliquidBuilder string `json:"hyperliquidBuilder,omitempty" mapstructure:"hyperliquid_builder"`

	LastFundingRoundValuation float64 `json:"lastFundingRoundValuation,omitempty" mapstructure:"last_funding_round_valuation"`
	TGEPrice                  float64 `json:"tgePrice,omitempty" mapstructure:"tge_price"`

	// Enriched fields, populated by the enricher only. A failed fetch yields
	// zero here, never a hole that scoring would have to special-case.
	AnnualizedRevenue float64 `json:"annualizedRevenue"`
	AnnualizedAppFees float64 `json:"annualizedAppFees"`

	// EcosystemRevenue is the chain-level component used by group
	// summaries. Equal to AnnualizedRevenue except for disaggregated
	// chains, where it carries the ecosystem share only.
	EcosystemRevenue float64 `json:"ecosystemRevenue"`
	FDV               float64 `json:"fdv,omitempty"`
	CurrentPrice      float64 `json:"currentPrice,omitempty"`

	// Return metrics are pointers: absence means "not displayed", not zero.
	ReturnVsFunding *float64 `json:"returnVsFunding,omitempty"`
	ReturnSinceTGE  *float64 `json:"returnSinceTGE,omitempty"`
}

// Bootstrapped reports whether the project raised no outside capital.
func (p Project) Bootstrapped() bool {
	return p.AmountRaised == 0
}

// AuraScore 评分值，可能为 +Inf（零融资且有收入的项目）
type AuraScore float64

// Infinite reports whether the score is the bootstrapped-with-revenue maximum.
func (s AuraScore) Infinite() bool {
	return math.IsInf(float64(s), 1)
}

// MarshalJSON renders +Inf as the string "Infinity" since JSON numbers cannot
// carry it. Finite scores marshal as plain numbers.
func (s AuraScore) MarshalJSON() ([]byte, error) {
	if s.Infinite() {
		return []byte(`"Infinity"`), nil
	}
	return json.Marshal(float64(s))
}

// UnmarshalJSON accepts both the "Infinity" string form and plain numbers.
func (s *AuraScore) UnmarshalJSON(data []byte) error {
	if string(data) == `"Infinity"` {
		*s = AuraScore(math.Inf(1))
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = AuraScore(v)
	return nil
}

// ScoredProject 附带评分与名次的项目
type ScoredProject struct {
	Project
	AuraScore AuraScore `json:"auraScore"`
	Rank      int       `json:"rank"`
}

// GroupSummary aggregates one category group of a snapshot.
type GroupSummary struct {
	Count        int     `json:"count"`
	TotalRaised  float64 `json:"totalRaised"`
	TotalRevenue float64 `json:"totalRevenue"`
	AvgValuation float64 `json:"avgValuation"`
}

// SnapshotSummary splits totals by infrastructure vs application projects.
type SnapshotSummary struct {
	Infrastructure GroupSummary `json:"totalInfrastructure"`
	Applications   GroupSummary `json:"totalApplications"`
}

// ComparisonSnapshot 一次完整的富集+评分流水线输出
type ComparisonSnapshot struct {
	Projects    []ScoredProject `json:"projects"`
	GeneratedAt time.Time       `json:"lastUpdated"`
	Summary     SnapshotSummary `json:"summary"`
}
