package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/auralabs/aurascan/internal/adapter"
	"github.com/auralabs/aurascan/internal/api"
	"github.com/auralabs/aurascan/internal/comparison"
	"github.com/auralabs/aurascan/internal/configs"
	"github.com/auralabs/aurascan/internal/discovery"
	"github.com/auralabs/aurascan/internal/enrich"
	"github.com/auralabs/aurascan/internal/leaderboard"
	"github.com/auralabs/aurascan/internal/logger"
	"github.com/auralabs/aurascan/internal/ratelimit"
	"github.com/auralabs/aurascan/internal/source/coingecko"
	"github.com/auralabs/aurascan/internal/source/defillama"
	"github.com/auralabs/aurascan/internal/source/hyperliquid"
)

var flagconf string

func init() {
	flag.StringVar(&flagconf, "conf", "", "config path, eg: -conf config.yaml")
}

func main() {
	flag.Parse()

	config, err := configs.Load(flagconf)
	if err != nil {
		panic(err)
	}

	if err := logger.Initialize(config.Debug); err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("loaded config",
		zap.String("addr", config.Server.Addr),
		zap.Duration("cacheTTL", config.Cache.TTL))

	clock := adapter.NewClock()

	// 各数据源共享一个限流器
	limiter := ratelimit.New(config.Sources.DefaultInterval, map[string]time.Duration{
		defillama.Source:        config.Sources.DefillamaInterval,
		hyperliquid.Source:      config.Sources.HyperliquidInterval,
		hyperliquid.SourceStats: config.Sources.HyperliquidInterval,
		coingecko.Source:        config.Sources.CoingeckoInterval,
	})

	fees := defillama.NewClient(config.Sources.DefillamaBaseURL, limiter)
	builders := hyperliquid.NewClient(config.Sources.HyperliquidInfoURL, config.Sources.HyperliquidStatsURL, limiter, clock)
	market := coingecko.NewClient(config.Sources.CoingeckoBaseURL, limiter)

	enricher := enrich.New(fees, builders, market, clock,
		enrich.WithWorkers(config.Sources.Workers),
		enrich.WithMarketDelay(config.Sources.MarketDelay),
	)

	comparisonSvc := comparison.NewService(configs.DefaultProjects, enricher, clock,
		comparison.WithTTL(config.Cache.TTL),
		comparison.WithPipelineTimeout(config.Cache.PipelineTimeout),
	)

	tracked := make([]leaderboard.Builder, 0, len(configs.DefaultBuilders))
	for _, b := range configs.DefaultBuilders {
		tracked = append(tracked, leaderboard.Builder{
			Address: b.Address,
			Name:    b.Name,
			Code:    b.Code,
		})
	}
	leaderboardSvc := leaderboard.NewService(builders, tracked, clock)

	discoverySvc := discovery.NewService(builders, config.Discovery.Candidates, config.Discovery.KnownCount)

	handler := api.NewHandler(comparisonSvc, leaderboardSvc, discoverySvc, config.Discovery.ArchiveDates)
	server := api.New(api.Config{
		Debug: config.Debug,
		Addr:  config.Server.Addr,
	}, handler)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error(err)
			os.Exit(1)
		}
	case sig := <-quit:
		logger.Info("received signal", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(err)
			os.Exit(1)
		}
	}
}
