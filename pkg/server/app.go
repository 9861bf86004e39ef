package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	domrepo "SkinPulse/internal/domain/repository"
	"SkinPulse/internal/handler/api"
	"SkinPulse/internal/usecase"
	"SkinPulse/pkg/config"
	xhttp "SkinPulse/pkg/http"
	pkgkafka "SkinPulse/pkg/kafka"
	applogger "SkinPulse/pkg/logger"
	"SkinPulse/pkg/queue"
)

// App encapsulates the entire application lifecycle: seed, serve, ingest,
// shut down in order.
type App struct {
	cfg       *config.Config
	logger    *applogger.Logger
	handler   *api.MarketHandler
	store     domrepo.ObservationStore
	scheduler *usecase.DailyScheduler

	collector   *usecase.StreamCollector // optional live feed
	consumer    *pkgkafka.Consumer       // optional kafka backend
	kh          pkgkafka.MessageHandler
	queueWorker *queue.RedisQueue // optional backfill worker
	tickProc    *usecase.TickProcessor

	httpServer *xhttp.Server
}

// New creates a new App instance with the required dependencies.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	handler *api.MarketHandler,
	store domrepo.ObservationStore,
	scheduler *usecase.DailyScheduler,
) *App {
	return &App{
		cfg:       cfg,
		logger:    logger,
		handler:   handler,
		store:     store,
		scheduler: scheduler,
	}
}

// SetStreamCollector wires the optional websocket tick feed.
func (a *App) SetStreamCollector(c *usecase.StreamCollector) { a.collector = c }

// SetConsumer wires the optional Kafka consumer side of the tick pipeline.
func (a *App) SetConsumer(consumer *pkgkafka.Consumer, kh pkgkafka.MessageHandler) {
	a.consumer = consumer
	a.kh = kh
}

// SetQueueWorker wires the optional Redis backfill worker.
func (a *App) SetQueueWorker(q *queue.RedisQueue) { a.queueWorker = q }

// SetTickProcessor hands the processor over for shutdown ownership.
func (a *App) SetTickProcessor(p *usecase.TickProcessor) { a.tickProc = p }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Seed before serving so the first request already has rankable history.
	if err := a.handler.EnsureReady(ctx, a.cfg.Tracker.SeedDays, a.cfg.Tracker.EnrichImages); err != nil {
		a.logger.Error("startup seed failed", applogger.Error(err))
		return err
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	a.scheduler.Start(ctx)

	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.logger.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.logger.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	if a.queueWorker != nil {
		if err := a.queueWorker.Start(); err != nil {
			a.logger.Error("queue worker start error", applogger.Error(err))
		} else {
			a.queueWorker.StartRetryProcessor()
			a.logger.Info("backfill queue worker started")
		}
	}

	if a.collector != nil {
		if err := a.collector.Start(ctx); err != nil {
			a.logger.Warn("stream collector start failed", applogger.Error(err))
		} else {
			a.logger.Info("stream collector started")
		}
	}

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("serving", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services in reverse start order.
func (a *App) shutdown(ctx context.Context) error {
	if a.collector != nil {
		if err := a.collector.Shutdown(ctx); err != nil {
			a.logger.Warn("stream collector stop error", applogger.Error(err))
		}
	}

	a.scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.logger.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if a.queueWorker != nil {
		if err := a.queueWorker.Stop(ctx); err != nil {
			a.logger.Warn("queue worker stop error", applogger.Error(err))
		}
	}

	if a.tickProc != nil {
		a.tickProc.Close()
	}

	if err := a.store.Close(); err != nil {
		a.logger.Warn("store close error", applogger.Error(err))
	}

	a.logger.Info("shutdown complete")
	return nil
}
