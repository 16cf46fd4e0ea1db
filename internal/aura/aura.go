// Package aura turns enriched project records into scored, ranked, tiered
// leaderboard entries. Scoring is a piecewise logarithmic map from the
// revenue-to-capital ratio so both bootstrapped startups and mega-raise
// chains land on one comparable axis.
package aura

import (
	"math"
	"sort"

	"github.com/auralabs/aurascan/internal/models"
)

// appFeeWeight discounts ecosystem app fees relative to direct protocol
// revenue when weighting infrastructure projects.
const appFeeWeight = 0.7

// FloorScore is assigned when a funded project shows no revenue at all.
const FloorScore = -1000

// WeightedRevenue 计算进入评分的加权收入
//
// Applications, dApps and stablecoins count direct revenue only.
// Infrastructure additionally credits the application fees generated on top
// of it, discounted, since that activity is evidence of the platform's pull
// rather than income the platform books itself.
func WeightedRevenue(p models.Project) float64 {
	if p.Category.IsInfrastructure() {
		return p.AnnualizedRevenue + p.AnnualizedAppFees*appFeeWeight
	}
	return p.AnnualizedRevenue
}

// Score 根据收入与融资额的比值计算 aura 分数
//
// Special cases first: revenue with zero raised is infinitely efficient,
// nothing raised and nothing earned is neutral, funded but revenue-free is
// the floor. Otherwise the ratio is mapped through log bands, roughly -800
// up to -200 for the deeply cursed, 5000 and beyond for the godlike. The
// band constants are display contract; a ratio of exactly 0.01 scores 0.
func Score(annualizedRevenue, amountRaised float64) models.AuraScore {
	if amountRaised == 0 {
		if annualizedRevenue > 0 {
			return models.AuraScore(math.Inf(1))
		}
		return 0
	}

	ratio := annualizedRevenue / amountRaised

	var score float64
	switch {
	case ratio <= 0:
		return FloorScore
	case ratio < 0.001:
		score = math.Log10(ratio*1000)*200 - 800
	case ratio < 0.01:
		score = math.Log10(ratio*100)*150 - 200
	case ratio < 0.1:
		score = math.Log10(ratio*10)*200 + 200
	case ratio < 1:
		score = math.Log10(ratio)*300 + 700
	case ratio < 10:
		score = math.Log2(ratio)*400 + 700
	case ratio < 100:
		score = math.Log2(ratio/10)*600 + 2000
	default:
		score = math.Log2(ratio/100)*1000 + 5000
	}

	return models.AuraScore(math.Round(score))
}

// Rank sorts projects by score descending and assigns dense 1-based ranks.
// Infinite scores sort first; ties keep their input order.
func Rank(projects []models.Project) []models.ScoredProject {
	scored := make([]models.ScoredProject, len(projects))
	for i, p := range projects {
		scored[i] = models.ScoredProject{
			Project:   p,
			AuraScore: Score(WeightedRevenue(p), p.AmountRaised),
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i].AuraScore, scored[j].AuraScore
		if a.Infinite() != b.Infinite() {
			return a.Infinite()
		}
		return a > b
	})

	for i := range scored {
		scored[i].Rank = i + 1
	}
	return scored
}

// Tier labels for a ranked snapshot.
const (
	TierPodium = "podium"
	TierTop    = "top"
	TierMid    = "mid"
	TierCursed = "cursed"
)

// Tiering assigns display tiers over an already-ranked slice: the top three
// form the podium, then the best fifth of the remainder is "top" and the
// worst fifth is "cursed" (each at least one, when any remain), everything
// between is "mid". When the remainder is a single project the top claim
// wins.
func Tiering(ranked []models.ScoredProject) map[string]string {
	tiers := make(map[string]string, len(ranked))

	podium := 3
	if podium > len(ranked) {
		podium = len(ranked)
	}
	for i := 0; i < podium; i++ {
		tiers[ranked[i].Name] = TierPodium
	}

	rest := ranked[podium:]
	if len(rest) == 0 {
		return tiers
	}

	topCount := len(rest) / 5
	if topCount == 0 {
		topCount = 1
	}
	cursedCount := len(rest) / 5
	if cursedCount == 0 {
		cursedCount = 1
	}

	for i, p := range rest {
		switch {
		case i < topCount:
			tiers[p.Name] = TierTop
		case i >= len(rest)-cursedCount:
			tiers[p.Name] = TierCursed
		default:
			tiers[p.Name] = TierMid
		}
	}
	return tiers
}
