// Package comparison assembles the scored project snapshot and caches it.
package comparison

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/auralabs/aurascan/internal/adapter"
	"github.com/auralabs/aurascan/internal/aura"
	"github.com/auralabs/aurascan/internal/logger"
	"github.com/auralabs/aurascan/internal/models"
)

const (
	// DefaultTTL is how long a stored snapshot is served without refresh.
	DefaultTTL = 15 * time.Minute
	// DefaultPipelineTimeout bounds one full enrichment run.
	DefaultPipelineTimeout = 30 * time.Second
)

// Enricher 项目富集器
type Enricher interface {
	EnrichAll(ctx context.Context, projects []models.Project) ([]models.Project, error)
}

// Service 负责快照的生成与缓存
//
// Concurrent cache misses collapse into a single pipeline run; late
// stragglers of a superseded run must not overwrite fresher data, hence the
// run tag. A failed or timed-out run serves a degraded snapshot built from
// the base registry with zeroed revenue, which is never stored.
type Service struct {
	base     []models.Project
	enricher Enricher
	clock    adapter.Clock
	ttl      time.Duration
	timeout  time.Duration

	mu        sync.RWMutex
	snapshot  *models.ComparisonSnapshot
	fetchedAt time.Time

	group  singleflight.Group
	runSeq atomic.Uint64
}

// Option configures a Service.
type Option func(*Service)

// WithTTL overrides the snapshot freshness window.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithPipelineTimeout overrides the per-run deadline.
func WithPipelineTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewService creates a Service over a fixed base project registry.
func NewService(base []models.Project, enricher Enricher, clock adapter.Clock, opts ...Option) *Service {
	s := &Service{
		base:     base,
		enricher: enricher,
		clock:    clock,
		ttl:      DefaultTTL,
		timeout:  DefaultPipelineTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current comparison snapshot, refreshing it when the
// cached one has expired. It never returns an error to the caller: a failed
// refresh yields a one-off degraded snapshot instead.
func (s *Service) Snapshot(ctx context.Context) *models.ComparisonSnapshot {
	if snap := s.cached(); snap != nil {
		return snap
	}

	v, err, _ := s.group.Do("snapshot", func() (interface{}, error) {
		// 合并请求后再查一次，避免重复跑流水线
		if snap := s.cached(); snap != nil {
			return snap, nil
		}
		return s.refresh()
	})
	if err != nil {
		logger.Error(err, zap.String("stage", "comparison refresh"))
		return s.degraded()
	}
	return v.(*models.ComparisonSnapshot)
}

func (s *Service) cached() *models.ComparisonSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot != nil && s.clock.Since(s.fetchedAt) < s.ttl {
		return s.snapshot
	}
	return nil
}

// refresh runs the full enrichment pipeline under its own deadline. The run
// is detached from the caller's context so one impatient client cannot
// cancel a refresh other waiters share.
func (s *Service) refresh() (*models.ComparisonSnapshot, error) {
	tag := s.runSeq.Add(1)

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := s.clock.Now()
	enriched, err := s.enricher.EnrichAll(ctx, s.base)
	if err != nil {
		return nil, err
	}

	snap := s.build(enriched)

	s.mu.Lock()
	if s.runSeq.Load() == tag {
		s.snapshot = snap
		s.fetchedAt = s.clock.Now()
	}
	s.mu.Unlock()

	logger.Info("comparison snapshot refreshed",
		zap.Int("projects", len(snap.Projects)),
		zap.Duration("elapsed", s.clock.Since(start)))
	return snap, nil
}

// degraded builds a serve-once snapshot from the base registry with zeroed
// revenue. It is intentionally not stored: the next request retries the
// pipeline instead of pinning stale zeros for a full TTL.
func (s *Service) degraded() *models.ComparisonSnapshot {
	base := make([]models.Project, len(s.base))
	copy(base, s.base)
	for i := range base {
		base[i].AnnualizedRevenue = 0
		base[i].AnnualizedAppFees = 0
		base[i].EcosystemRevenue = 0
	}
	return s.build(base)
}

func (s *Service) build(projects []models.Project) *models.ComparisonSnapshot {
	ranked := aura.Rank(projects)
	return &models.ComparisonSnapshot{
		Projects:    ranked,
		GeneratedAt: s.clock.Now(),
		Summary:     summarize(ranked),
	}
}

// summarize aggregates per-group totals. Average valuation is the mean
// fully diluted valuation over the whole group, zeros included. The
// infrastructure group sums the chain-level ecosystem component, which for
// disaggregated chains is narrower than total annualized revenue.
func summarize(ranked []models.ScoredProject) models.SnapshotSummary {
	var summary models.SnapshotSummary

	for _, p := range ranked {
		if p.Category.IsInfrastructure() {
			summary.Infrastructure.Count++
			summary.Infrastructure.TotalRaised += p.AmountRaised
			summary.Infrastructure.TotalRevenue += p.EcosystemRevenue
			summary.Infrastructure.AvgValuation += p.FDV
		} else {
			summary.Applications.Count++
			summary.Applications.TotalRaised += p.AmountRaised
			summary.Applications.TotalRevenue += p.AnnualizedRevenue
			summary.Applications.AvgValuation += p.FDV
		}
	}

	if summary.Infrastructure.Count > 0 {
		summary.Infrastructure.AvgValuation /= float64(summary.Infrastructure.Count)
	}
	if summary.Applications.Count > 0 {
		summary.Applications.AvgValuation /= float64(summary.Applications.Count)
	}
	return summary
}
