package annualize

// WindowTotals 来自上游汇总接口的时间窗口合计，零值表示该窗口无数据
type WindowTotals struct {
	D30 float64 `json:"total30d"`
	D7  float64 `json:"total7d"`
	H24 float64 `json:"total24h"`
}

// Methodology labels for annualized figures. These strings are part of the
// displayed output and must stay stable.
const (
	Methodology30D    = "30d×12"
	Methodology7D     = "7d×52"
	Methodology24H    = "24h×365"
	MethodologyNoData = "no-data"
)

// Window multipliers. Exact values are a compatibility contract: historical
// displayed numbers were produced with these and any change breaks parity.
const (
	Multiplier30D = 12
	Multiplier7D  = 52
	Multiplier24H = 365
)

// Result 年化结果
type Result struct {
	Value       float64 `json:"value"`
	Methodology string  `json:"methodology"`
}

// Annualize converts a time-windowed total into a projected annual figure.
// Strict priority, first available window wins; longer windows smooth
// volatility, shorter ones are degraded fallbacks. Never averaged or blended.
func Annualize(t WindowTotals) Result {
	switch {
	case t.D30 != 0:
		return Result{Value: t.D30 * Multiplier30D, Methodology: Methodology30D}
	case t.D7 != 0:
		return Result{Value: t.D7 * Multiplier7D, Methodology: Methodology7D}
	case t.H24 != 0:
		return Result{Value: t.H24 * Multiplier24H, Methodology: Methodology24H}
	default:
		return Result{Value: 0, Methodology: MethodologyNoData}
	}
}

// Referral run-rate tiers for builder revenue estimation. Cumulative lifetime
// referral rewards have no daily granularity, so the current run rate is
// estimated from recent fill activity. Heuristic business constants carried
// over for behavioral parity; tunable, not physically derived.
const (
	// ReferralRateHigh applies when the address had fills in the last 7 days.
	ReferralRateHigh = 0.25
	// ReferralRateModerate applies when activity exists in the 8-30 day window.
	ReferralRateModerate = 0.10
	// ReferralRateLow applies when no recent activity was observed.
	ReferralRateLow = 0.02
	// ReferralRateFallback applies when the activity probe itself failed.
	ReferralRateFallback = 0.05
)

// Referral30D converts a cumulative referral total and an annual run rate
// into a 30-day figure.
func Referral30D(cumulative, annualRate float64) float64 {
	return cumulative * annualRate / Multiplier30D
}

// CumulativeFallbackMultiplier annualizes a lifetime cumulative total when
// per-day data is unreachable, treating the cumulative as a six-month figure.
// Explicitly approximate.
const CumulativeFallbackMultiplier = 2
