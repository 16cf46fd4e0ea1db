package configs

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	// 基础配置
	Debug bool `json:"debug" mapstructure:"debug"`

	Server    Server    `json:"server" mapstructure:"server"`
	Cache     Cache     `json:"cache" mapstructure:"cache"`
	Sources   Sources   `json:"sources" mapstructure:"sources"`
	Discovery Discovery `json:"discovery" mapstructure:"discovery"`
}

type Server struct {
	Addr string `json:"addr" mapstructure:"addr"` // 监听地址
}

type Cache struct {
	TTL             time.Duration `json:"ttl" mapstructure:"ttl"`                           // 快照缓存有效期
	PipelineTimeout time.Duration `json:"pipeline_timeout" mapstructure:"pipeline_timeout"` // 单次流水线超时
}

type Sources struct {
	DefillamaBaseURL    string `json:"defillama_base_url" mapstructure:"defillama_base_url"`
	HyperliquidInfoURL  string `json:"hyperliquid_info_url" mapstructure:"hyperliquid_info_url"`
	HyperliquidStatsURL string `json:"hyperliquid_stats_url" mapstructure:"hyperliquid_stats_url"`
	CoingeckoBaseURL    string `json:"coingecko_base_url" mapstructure:"coingecko_base_url"`

	// 各数据源请求间隔
	DefillamaInterval   time.Duration `json:"defillama_interval" mapstructure:"defillama_interval"`
	HyperliquidInterval time.Duration `json:"hyperliquid_interval" mapstructure:"hyperliquid_interval"`
	CoingeckoInterval   time.Duration `json:"coingecko_interval" mapstructure:"coingecko_interval"`
	DefaultInterval     time.Duration `json:"default_interval" mapstructure:"default_interval"`

	Workers     int           `json:"workers" mapstructure:"workers"`           // 富集并发度
	MarketDelay time.Duration `json:"market_delay" mapstructure:"market_delay"` // 行情批量请求间隔
}

type Discovery struct {
	Candidates   []string `json:"candidates" mapstructure:"candidates"`       // 待探测地址
	KnownCount   int      `json:"known_count" mapstructure:"known_count"`     // 前 N 个为已知构建者
	ArchiveDates []string `json:"archive_dates" mapstructure:"archive_dates"` // 默认归档探测日期
}

func setDefaults() {
	viper.SetDefault("debug", false)
	viper.SetDefault("server.addr", ":8080")

	viper.SetDefault("cache.ttl", 15*time.Minute)
	viper.SetDefault("cache.pipeline_timeout", 30*time.Second)

	viper.SetDefault("sources.defillama_base_url", "https://api.llama.fi")
	viper.SetDefault("sources.hyperliquid_info_url", "https://api.hyperliquid.xyz/info")
	viper.SetDefault("sources.hyperliquid_stats_url", "https://stats-data.hyperliquid.xyz/Mainnet/builder_fills")
	viper.SetDefault("sources.coingecko_base_url", "https://api.coingecko.com/api/v3")

	viper.SetDefault("sources.defillama_interval", 200*time.Millisecond)
	viper.SetDefault("sources.hyperliquid_interval", 100*time.Millisecond)
	viper.SetDefault("sources.coingecko_interval", time.Second)
	viper.SetDefault("sources.default_interval", 200*time.Millisecond)

	viper.SetDefault("sources.workers", 8)
	viper.SetDefault("sources.market_delay", 100*time.Millisecond)

	viper.SetDefault("discovery.candidates", defaultDiscoveryCandidates())
	viper.SetDefault("discovery.known_count", len(DefaultBuilders))
	viper.SetDefault("discovery.archive_dates", []string{"20241201", "20241202", "20241203"})
}

// Load reads configuration from the optional file at path, the environment
// and built-in defaults, in that order of precedence. A missing file is not
// an error; everything has a default.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	setDefaults()
	viper.SetEnvPrefix("AURASCAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}
