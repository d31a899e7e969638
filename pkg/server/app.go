package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"Aletheia/internal/domain/repository"
	pkgch "Aletheia/pkg/clickhouse"
	"Aletheia/pkg/config"
	xhttp "Aletheia/pkg/http"
	pkgkafka "Aletheia/pkg/kafka"
	applogger "Aletheia/pkg/logger"
	"Aletheia/pkg/queue"
)

// App encapsulates the application lifecycle: HTTP surface, heal queue
// workers, and the optional trade ingest consumer.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	handler    xhttp.Handler
	healQueue  *queue.RedisQueue
	consumer   *pkgkafka.Consumer
	store      repository.RecordStore
	ledger     repository.TradeLedger
	pub        repository.Publisher
	chClient   *pkgch.Client
	httpServer *xhttp.Server
}

// New creates the application. consumer, ledger, pub and chClient may be
// nil when the corresponding backends are not configured.
func New(
	cfg *config.Config,
	lgr *applogger.Logger,
	handler xhttp.Handler,
	healQueue *queue.RedisQueue,
	consumer *pkgkafka.Consumer,
	store repository.RecordStore,
	ledger repository.TradeLedger,
	pub repository.Publisher,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:       cfg,
		logger:    lgr,
		handler:   handler,
		healQueue: healQueue,
		consumer:  consumer,
		store:     store,
		ledger:    ledger,
		pub:       pub,
		chClient:  chClient,
	}
}

// Run starts all components and blocks until an interrupt arrives.
func (a *App) Run() error {
	if err := a.healQueue.Start(); err != nil {
		return err
	}

	if a.consumer != nil {
		if err := a.consumer.Start(); err != nil {
			a.logger.Error("kafka consumer start failed", applogger.Error(err))
			return err
		}
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(a.logger),
	)
	if err := a.httpServer.Start(); err != nil {
		return err
	}
	a.logger.Info("serving",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("upstream", a.cfg.Upstream.BaseURL))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.logger.Warn("http shutdown error", applogger.Error(err))
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.logger.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Drain in-flight heal writes before the store goes away.
	if err := a.healQueue.Stop(ctx); err != nil {
		a.logger.Warn("heal queue stop error", applogger.Error(err))
	}

	if a.pub != nil {
		if err := a.pub.Close(); err != nil {
			a.logger.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.ledger != nil {
		if err := a.ledger.Close(); err != nil {
			a.logger.Warn("ledger close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if err := a.store.Close(); err != nil {
		a.logger.Warn("record store close error", applogger.Error(err))
	}

	a.logger.Info("shutdown complete")
	return nil
}
