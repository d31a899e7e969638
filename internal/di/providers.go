package di

import (
	"context"
	"fmt"
	"time"

	"Aletheia/internal/domain/repository"
	"Aletheia/internal/handler/api"
	internalrepo "Aletheia/internal/repository"
	"Aletheia/internal/service/history"
	"Aletheia/internal/service/news"
	"Aletheia/internal/service/upstream"
	"Aletheia/internal/usecase"
	"Aletheia/pkg/cache"
	pkgch "Aletheia/pkg/clickhouse"
	"Aletheia/pkg/config"
	pkgkafka "Aletheia/pkg/kafka"
	"Aletheia/pkg/logger"
	"Aletheia/pkg/metrics"
	"Aletheia/pkg/queue"
	"Aletheia/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideRedisCache creates the Redis client backing both the record store
// and the heal queue.
func ProvideRedisCache(cfg *config.Config) (*cache.RedisCache, error) {
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPool(cfg.Redis.PoolSize, 5, 30*time.Second),
		cache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return rc, nil
}

// ProvideRecordStore creates the intelligence record store.
func ProvideRecordStore(rc *cache.RedisCache, lgr *logger.Logger) repository.RecordStore {
	return internalrepo.NewRecordStore(rc, lgr)
}

// ProvideHealQueue creates the background queue used for self-heal writes.
func ProvideHealQueue(lgr *logger.Logger, cfg *config.Config, rc *cache.RedisCache) *queue.RedisQueue {
	return queue.NewRedisQueue(lgr, &queue.Config{
		Workers:    cfg.HealQueue.Workers,
		RetryLimit: cfg.HealQueue.RetryLimit,
		RetryDelay: cfg.HealQueue.RetryDelay,
	}, rc.Client())
}

// ProvideHealDispatcher exposes the queue as the resolver's heal channel.
func ProvideHealDispatcher(q *queue.RedisQueue) repository.HealQueue {
	return usecase.NewHealDispatcher(q)
}

// ProvideHealJob creates the job that applies queued history repairs.
func ProvideHealJob(lgr *logger.Logger, store repository.RecordStore, m repository.Metrics) *usecase.HealJob {
	return usecase.NewHealJob(lgr, store, m)
}

// ProvideClickHouseClient creates the ledger database client. Returns nil
// when no ClickHouse host is configured; the ticker list then serves
// without synthetic entities.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if cfg.ClickHouse.Host == "" {
		return nil, nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := cfg.ClickHouse.Database
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + db,
		"CREATE TABLE IF NOT EXISTS " + db + ".trades (ts DateTime, symbol String, side String, quantity Float64, total_amount Float64) ENGINE=MergeTree ORDER BY (symbol, ts)",
	}); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideTradeLedger creates the trade ledger repository.
func ProvideTradeLedger(chClient *pkgch.Client, cfg *config.Config) repository.TradeLedger {
	if chClient == nil {
		return nil
	}
	return internalrepo.NewTradeLedger(chClient.DB(), cfg.ClickHouse.Database+".trades")
}

// ProvideKafkaProducer creates the event producer. Nil when no brokers are
// configured; the resolver then skips event publishing.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithRequiredAcks(1),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideIntelligencePublisher creates the intelligence event publisher.
func ProvideIntelligencePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewIntelligencePublisher(producer, cfg.Kafka.EventsTopic)
}

// ProvideKafkaConsumer creates the trade ingest consumer. Nil when no
// brokers are configured.
func ProvideKafkaConsumer(lgr *logger.Logger, cfg *config.Config) (*pkgkafka.Consumer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(lgr,
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.GroupID),
		pkgkafka.WithConsumerTopic(cfg.Kafka.TradesTopic),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Workers),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideTradeIngestor creates the ledger ingest handler.
func ProvideTradeIngestor(
	lgr *logger.Logger,
	ledger repository.TradeLedger,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.TradeIngestor {
	if ledger == nil {
		return nil
	}
	return usecase.NewTradeIngestor(lgr, ledger, m, cfg.Kafka.TradesTopic)
}

// ProvideUpstreamClient creates the retrying prediction service client.
func ProvideUpstreamClient(lgr *logger.Logger, m repository.Metrics, cfg *config.Config) repository.UpstreamClient {
	return upstream.New(lgr, m, upstream.Config{
		BaseURL:        cfg.Upstream.BaseURL,
		RetryCount:     cfg.Upstream.RetryCount,
		RetryDelay:     cfg.Upstream.RetryDelay,
		RequestTimeout: cfg.Upstream.RequestTimeout,
	})
}

// ProvideSynthesizer creates the history synthesizer.
func ProvideSynthesizer(cfg *config.Config) *history.Synthesizer {
	return history.NewSynthesizer(cfg.Intelligence.BasePrices)
}

// ProvideResolver creates the intelligence resolver.
func ProvideResolver(
	lgr *logger.Logger,
	up repository.UpstreamClient,
	store repository.RecordStore,
	heal repository.HealQueue,
	pub repository.Publisher,
	m repository.Metrics,
	synth *history.Synthesizer,
	cfg *config.Config,
) *usecase.Resolver {
	return usecase.NewResolver(lgr, up, store, heal, pub, m, synth,
		cfg.Intelligence.StaticFallback, cfg.Intelligence.PriceSanityCeiling)
}

// ProvideTickerLister creates the ticker list aggregator.
func ProvideTickerLister(
	lgr *logger.Logger,
	up repository.UpstreamClient,
	store repository.RecordStore,
	ledger repository.TradeLedger,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.TickerLister {
	return usecase.NewTickerLister(lgr, up, store, ledger, m, cfg.Intelligence.FailsafeTickers)
}

// ProvideNewsGenerator creates the mock news generator.
func ProvideNewsGenerator() *news.Generator {
	return news.NewGenerator()
}

// ProvideHandler creates the HTTP handler.
func ProvideHandler(
	lgr *logger.Logger,
	resolver *usecase.Resolver,
	lister *usecase.TickerLister,
	newsGen *news.Generator,
) *api.IntelligenceHandler {
	return api.NewIntelligenceHandler(lgr, resolver, lister, newsGen)
}

// ProvideApp assembles the application server.
func ProvideApp(
	cfg *config.Config,
	lgr *logger.Logger,
	handler *api.IntelligenceHandler,
	healQueue *queue.RedisQueue,
	healJob *usecase.HealJob,
	consumer *pkgkafka.Consumer,
	ingestor *usecase.TradeIngestor,
	store repository.RecordStore,
	ledger repository.TradeLedger,
	pub repository.Publisher,
	chClient *pkgch.Client,
) *server.App {
	healQueue.RegisterJob(healJob)
	if consumer != nil && ingestor != nil {
		consumer.RegisterHandler(ingestor)
	} else {
		// no ledger to ingest into, so nothing to consume
		consumer = nil
	}
	return server.New(cfg, lgr, handler, healQueue, consumer, store, ledger, pub, chClient)
}
