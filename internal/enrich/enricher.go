package enrich

import (
	"context"
	"sync"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/auralabs/aurascan/internal/adapter"
	"github.com/auralabs/aurascan/internal/annualize"
	"github.com/auralabs/aurascan/internal/logger"
	"github.com/auralabs/aurascan/internal/models"
)

const (
	defaultWorkers     = 8
	defaultMarketDelay = 100 * time.Millisecond
)

// Enricher 按项目编排各数据源调用并合并为富集记录
//
// Per-project enrichment runs concurrently; within one project calls to the
// same upstream source are serialized by the shared rate limiter. Any single
// adapter failure degrades that project's contribution to zero and never
// aborts the whole batch.
type Enricher struct {
	fees        FeeSource
	builders    BuilderSource
	market      MarketSource
	pool        pond.Pool
	clock       adapter.Clock
	marketDelay time.Duration
}

// Option configures an Enricher.
type Option func(*Enricher)

// WithWorkers sets the concurrent enrichment pool size.
func WithWorkers(n int) Option {
	return func(e *Enricher) {
		if n > 0 {
			e.pool = pond.NewPool(n)
		}
	}
}

// WithMarketDelay sets the pause between bulk market-data requests.
func WithMarketDelay(d time.Duration) Option {
	return func(e *Enricher) {
		if d >= 0 {
			e.marketDelay = d
		}
	}
}

// New creates an Enricher over the three adapter families.
func New(fees FeeSource, builders BuilderSource, market MarketSource, clock adapter.Clock, opts ...Option) *Enricher {
	e := &Enricher{
		fees:        fees,
		builders:    builders,
		market:      market,
		pool:        pond.NewPool(defaultWorkers),
		clock:       clock,
		marketDelay: defaultMarketDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EnrichAll enriches every project concurrently, runs one batched
// market-data pass, and merges the results. The returned slice preserves
// input order. The only error is context cancellation; per-project failures
// are absorbed as zeros.
func (e *Enricher) EnrichAll(ctx context.Context, projects []models.Project) ([]models.Project, error) {
	logger.Info("enriching projects", zap.Int("count", len(projects)))

	enriched := make([]models.Project, len(projects))
	group := e.pool.NewGroup()
	for i, p := range projects {
		i, p := i, p
		group.Submit(func() {
			enriched[i] = e.enrichProject(ctx, p)
		})
	}

	// 行情数据按批并发拉取，与收入富集并行
	// Runs outside the pool: it waits on pooled subtasks, and a waiter
	// holding a worker slot would starve them at low pool sizes.
	marketCh := make(chan marketData, 1)
	go func() {
		marketCh <- e.fetchMarketData(ctx, projects)
	}()

	_ = group.Wait()
	market := <-marketCh
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i := range enriched {
		name := enriched[i].Name
		enriched[i] = ComputeReturns(enriched[i], market.fdv[name], market.prices[name])
	}

	logger.Info("finished enriching projects", zap.Int("count", len(enriched)))
	return enriched, nil
}

// enrichProject dispatches on category and adapter family. Pure dispatch:
// the branches only select which fetch strategy runs.
func (e *Enricher) enrichProject(ctx context.Context, p models.Project) models.Project {
	p.AnnualizedRevenue = 0
	p.AnnualizedAppFees = 0
	p.EcosystemRevenue = 0

	if !p.UseDefillama {
		if p.HyperliquidBuilder == "" {
			logger.Warn("no builder address for project", zap.String("project", p.Name))
			return p
		}
		revenue, err := e.builders.AnnualizedBuilderRevenue(ctx, p.HyperliquidBuilder)
		if err != nil {
			logger.Warn("failed to fetch builder revenue",
				zap.String("project", p.Name), zap.Error(err))
			return p
		}
		p.AnnualizedRevenue = revenue.Annualized
		p.EcosystemRevenue = revenue.Annualized
		logger.Debug("builder revenue",
			zap.String("project", p.Name),
			zap.Float64("annualized", revenue.Annualized),
			zap.String("dataSource", revenue.DataSource))
		return p
	}

	if strategy, ok := specialStrategies[p.Name]; ok {
		result := strategy(ctx, e, p)
		p.AnnualizedRevenue = result.AnnualizedRevenue
		p.AnnualizedAppFees = result.AnnualizedAppFees
		p.EcosystemRevenue = result.EcosystemRevenue
		return p
	}

	if p.Category.IsInfrastructure() {
		return e.enrichChain(ctx, p)
	}
	return e.enrichApp(ctx, p)
}

func (e *Enricher) enrichChain(ctx context.Context, p models.Project) models.Project {
	slug, ok := ChainSlugs[p.Name]
	if !ok {
		logger.Warn("no chain mapping for project", zap.String("project", p.Name))
		return p
	}

	summary, err := e.fees.FeeSummary(ctx, slug)
	if err != nil {
		logger.Warn("failed to fetch chain revenue",
			zap.String("slug", slug), zap.Error(err))
	} else {
		result := annualize.Annualize(summary.Totals)
		p.AnnualizedRevenue = result.Value
		p.EcosystemRevenue = result.Value
		logger.Debug("chain revenue",
			zap.String("slug", slug),
			zap.Float64("annualized", result.Value),
			zap.String("methodology", result.Methodology))
	}

	p.AnnualizedAppFees = e.appEcosystemFees(ctx, p.Name)
	return p
}

func (e *Enricher) enrichApp(ctx context.Context, p models.Project) models.Project {
	slug, ok := AppSlugs[p.Name]
	if !ok {
		logger.Warn("no app mapping for project", zap.String("project", p.Name))
		return p
	}

	summary, err := e.fees.FeeSummary(ctx, slug)
	if err != nil {
		logger.Warn("failed to fetch protocol revenue",
			zap.String("slug", slug), zap.Error(err))
		return p
	}

	result := annualize.Annualize(summary.Totals)
	p.AnnualizedRevenue = result.Value
	p.EcosystemRevenue = result.Value
	return p
}

// appEcosystemFees aggregates the daily app-fee chart for allow-listed
// chains: trailing 30 points summed, scaled to a year by daily average.
func (e *Enricher) appEcosystemFees(ctx context.Context, projectName string) float64 {
	slug, ok := appFeeSlug(projectName)
	if !ok {
		return 0
	}

	chart, err := e.fees.FeeChart(ctx, slug)
	if err != nil {
		logger.Warn("failed to fetch app fee chart",
			zap.String("slug", slug), zap.Error(err))
		return 0
	}
	if len(chart) == 0 {
		return 0
	}

	points := chart
	if len(points) > breakdownWindow {
		points = points[len(points)-breakdownWindow:]
	}
	var total30d float64
	for _, point := range points {
		total30d += point.Value
	}
	return total30d / 30 * 365
}

type marketData struct {
	fdv    map[string]float64
	prices map[string]float64
}

// fetchMarketData runs one batched market-data pass for all projects with a
// token mapping. A missing mapping is not an error; the project simply gets
// no return metrics.
func (e *Enricher) fetchMarketData(ctx context.Context, projects []models.Project) marketData {
	data := marketData{
		fdv:    make(map[string]float64),
		prices: make(map[string]float64),
	}

	var mu sync.Mutex
	group := e.pool.NewGroup()
	for _, p := range projects {
		tokenID, ok := CoinGeckoTokens[p.Name]
		if !ok {
			continue
		}
		name := p.Name
		group.Submit(func() {
			md, err := e.market.MarketData(ctx, tokenID)
			if err != nil {
				logger.Warn("failed to fetch market data",
					zap.String("project", name), zap.Error(err))
				return
			}
			mu.Lock()
			if md.CurrentPrice > 0 {
				data.prices[name] = md.CurrentPrice
			}
			if md.FDV > 0 {
				data.fdv[name] = md.FDV
			}
			mu.Unlock()

			// 拉开请求间隔，避免触发上游限流
			e.clock.Sleep(e.marketDelay)
		})
	}
	_ = group.Wait()

	logger.Info("fetched market data", zap.Int("projects", len(data.fdv)))
	return data
}
