package config

import "time"

// Default returns the baseline configuration. YAML and environment
// overrides are layered on top of it.
func Default() *Config {
	c := &Config{}
	c.Environment = "development"
	c.Server.Port = 8080
	c.Server.ReadTimeout = 10 * time.Second
	c.Server.WriteTimeout = 90 * time.Second // resolve can sit behind the full retry window
	c.Server.ShutdownTimeout = 10 * time.Second
	c.Log.Level = "info"
	c.Log.Format = "console"
	c.Log.Output = "stdout"

	c.Upstream.BaseURL = "http://localhost:8001"
	c.Upstream.RetryCount = 30
	c.Upstream.RetryDelay = 2000 * time.Millisecond
	c.Upstream.RequestTimeout = 10 * time.Second

	c.Intelligence.PriceSanityCeiling = 1_000_000
	c.Intelligence.BasePrices = DefaultBasePrices()
	c.Intelligence.StaticFallback = DefaultStaticFallback()
	c.Intelligence.FailsafeTickers = DefaultFailsafeTickers()

	c.Redis.Host = "localhost"
	c.Redis.Port = 6379
	c.Redis.PoolSize = 10
	c.Redis.Prefix = "aletheia"

	c.HealQueue.Workers = 1
	c.HealQueue.QueueSize = 256
	c.HealQueue.RetryLimit = 3
	c.HealQueue.RetryDelay = 5 * time.Second

	c.ClickHouse.Host = "localhost"
	c.ClickHouse.Port = 9000
	c.ClickHouse.Database = "aletheia"
	c.ClickHouse.User = "default"
	c.ClickHouse.DialTimeout = 5 * time.Second
	c.ClickHouse.ReadTimeout = 10 * time.Second
	c.ClickHouse.WriteTimeout = 10 * time.Second
	c.ClickHouse.MaxExecutionTime = 30 * time.Second

	c.Kafka.Brokers = []string{"localhost:9092"}
	c.Kafka.TradesTopic = "aletheia.trades"
	c.Kafka.EventsTopic = "aletheia.intelligence"
	c.Kafka.GroupID = "aletheia-ledger"
	c.Kafka.Workers = 2

	return c
}

// DefaultBasePrices is the per-ticker anchor used by the history
// synthesizer. Unknown tickers fall back to 100.
func DefaultBasePrices() map[string]float64 {
	return map[string]float64{
		"NVDA":  480,
		"AMD":   180,
		"AAPL":  185,
		"TSLA":  240,
		"MSFT":  420,
		"GOOGL": 165,
		"AMZN":  175,
		"META":  485,
		"NFLX":  630,
	}
}

// DefaultStaticFallback is the curated intelligence served when both the
// live upstream and the cache are unavailable.
func DefaultStaticFallback() map[string]StaticEntry {
	return map[string]StaticEntry{
		"NVDA":  {ReliabilityScore: 88, Regime: "Stable Growth", Prediction: 0.0045, NarrativeSummary: "Strong AI demand continues to drive growth.", IsConsistent: true},
		"AMD":   {ReliabilityScore: 82, Regime: "Volatile", Prediction: 0.0021, NarrativeSummary: "Competitive pressure in GPU market, but server growth strong.", IsConsistent: true},
		"AAPL":  {ReliabilityScore: 94, Regime: "Stable Growth", Prediction: 0.0012, NarrativeSummary: "Consistent services revenue offsetting hardware cyclicality.", IsConsistent: true},
		"TSLA":  {ReliabilityScore: 65, Regime: "Volatile", Prediction: -0.0015, NarrativeSummary: "Margins under pressure; autonomous driving timelines uncertain.", IsConsistent: false},
		"MSFT":  {ReliabilityScore: 91, Regime: "Stable Growth", Prediction: 0.0032, NarrativeSummary: "Cloud dominance remains key growth driver.", IsConsistent: true},
		"GOOGL": {ReliabilityScore: 89, Regime: "Stable Growth", Prediction: 0.0028, NarrativeSummary: "Advertising recovery and AI integration positive.", IsConsistent: true},
		"AMZN":  {ReliabilityScore: 85, Regime: "Stable Growth", Prediction: 0.0035, NarrativeSummary: "AWS and logistics efficiency improving.", IsConsistent: true},
		"META":  {ReliabilityScore: 78, Regime: "Volatile", Prediction: 0.0042, NarrativeSummary: "Ad spend rebounding, but metaverse spending technically risky.", IsConsistent: true},
		"NFLX":  {ReliabilityScore: 80, Regime: "Stable Growth", Prediction: 0.0018, NarrativeSummary: "Subscriber growth re-accelerating from password sharing crackdown.", IsConsistent: true},
	}
}

// DefaultFailsafeTickers is the fixed public list served when the upstream
// ticker endpoint cannot be reached.
func DefaultFailsafeTickers() []FailsafeTicker {
	return []FailsafeTicker{
		{Ticker: "AAPL", Name: "Apple Inc.", Price: 255.41},
		{Ticker: "MSFT", Name: "Microsoft Corporation", Price: 415.32},
		{Ticker: "GOOGL", Name: "Alphabet Inc.", Price: 173.50},
		{Ticker: "AMZN", Name: "Amazon.com Inc.", Price: 185.00},
		{Ticker: "NVDA", Name: "NVIDIA Corporation", Price: 120.50},
		{Ticker: "TSLA", Name: "Tesla Inc.", Price: 220.30},
		{Ticker: "META", Name: "Meta Platforms Inc.", Price: 475.20},
		{Ticker: "AMD", Name: "Advanced Micro Devices", Price: 160.40},
		{Ticker: "NFLX", Name: "Netflix Inc.", Price: 650.00},
	}
}
