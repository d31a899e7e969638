package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"Aletheia/pkg/util"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Upstream struct {
		BaseURL        string        `yaml:"base_url"`
		RetryCount     int           `yaml:"retry_count"`
		RetryDelay     time.Duration `yaml:"retry_delay"`
		RequestTimeout time.Duration `yaml:"request_timeout"`
	} `yaml:"upstream"`
	Intelligence struct {
		PriceSanityCeiling float64                `yaml:"price_sanity_ceiling"`
		BasePrices         map[string]float64     `yaml:"base_prices"`
		StaticFallback     map[string]StaticEntry `yaml:"static_fallback"`
		FailsafeTickers    []FailsafeTicker       `yaml:"failsafe_tickers"`
	} `yaml:"intelligence"`
	Redis struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		PoolSize int    `yaml:"pool_size"`
		Prefix   string `yaml:"prefix"`
	} `yaml:"redis"`
	HealQueue struct {
		Workers    int           `yaml:"workers"`
		QueueSize  int           `yaml:"queue_size"`
		RetryLimit int           `yaml:"retry_limit"`
		RetryDelay time.Duration `yaml:"retry_delay"`
	} `yaml:"heal_queue"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Kafka struct {
		Brokers     []string `yaml:"brokers"`
		TradesTopic string   `yaml:"trades_topic"`
		EventsTopic string   `yaml:"events_topic"`
		GroupID     string   `yaml:"group_id"`
		Workers     int      `yaml:"workers"`
	} `yaml:"kafka"`
}

// StaticEntry is one curated row of the static intelligence fallback table.
type StaticEntry struct {
	ReliabilityScore float64 `yaml:"reliability_score" json:"reliability_score"`
	Regime           string  `yaml:"regime" json:"regime"`
	Prediction       float64 `yaml:"prediction" json:"prediction"`
	NarrativeSummary string  `yaml:"narrative_summary" json:"narrative_summary"`
	IsConsistent     bool    `yaml:"is_consistent" json:"is_consistent"`
}

// FailsafeTicker is one entry of the fixed ticker list served when the
// upstream ticker endpoint is unreachable.
type FailsafeTicker struct {
	Ticker string  `yaml:"ticker"`
	Name   string  `yaml:"name"`
	Price  float64 `yaml:"price"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	c.applyEnv()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("UPSTREAM_BASE_URL"); v != "" {
		c.Upstream.BaseURL = v
	}
	if v := os.Getenv("UPSTREAM_RETRY_COUNT"); v != "" {
		c.Upstream.RetryCount = util.ParseIntDefault(v, c.Upstream.RetryCount)
	}
	if v := os.Getenv("UPSTREAM_RETRY_DELAY_MS"); v != "" {
		ms := util.ParseIntDefault(v, int(c.Upstream.RetryDelay/time.Millisecond))
		c.Upstream.RetryDelay = time.Duration(ms) * time.Millisecond
	}
	if v := os.Getenv("PRICE_SANITY_CEILING"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Intelligence.PriceSanityCeiling = f
		}
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		host, port, ok := strings.Cut(v, ":")
		c.Redis.Host = host
		if ok {
			c.Redis.Port = util.ParseIntDefault(port, c.Redis.Port)
		}
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("upstream.base_url is required")
	}
	if c.Upstream.RetryCount <= 0 {
		return fmt.Errorf("upstream.retry_count must be positive, got %d", c.Upstream.RetryCount)
	}
	if c.Upstream.RetryDelay <= 0 {
		return fmt.Errorf("upstream.retry_delay must be positive")
	}
	if c.Intelligence.PriceSanityCeiling <= 0 {
		return fmt.Errorf("intelligence.price_sanity_ceiling must be positive")
	}
	return nil
}
