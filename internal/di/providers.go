package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"SkinPulse/internal/domain/repository"
	"SkinPulse/internal/handler/api"
	mid "SkinPulse/internal/middleware"
	internalrepo "SkinPulse/internal/repository"
	"SkinPulse/internal/service/provider"
	"SkinPulse/internal/service/stream"
	"SkinPulse/internal/usecase"
	"SkinPulse/pkg/cache"
	pkgch "SkinPulse/pkg/clickhouse"
	"SkinPulse/pkg/config"
	pkgkafka "SkinPulse/pkg/kafka"
	applogger "SkinPulse/pkg/logger"
	"SkinPulse/pkg/metrics"
	"SkinPulse/pkg/queue"
	"SkinPulse/pkg/server"

	"github.com/redis/go-redis/v9"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	format := "console"
	if cfg.Environment == "production" {
		format = "json"
	}
	l, err := applogger.New(&applogger.Config{Level: level, Format: format, Output: "stdout"})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideObservationStore creates the configured observation store.
func ProvideObservationStore(cfg *config.Config, l *applogger.Logger) (repository.ObservationStore, error) {
	if cfg.Store.Type == "memory" {
		return internalrepo.NewMemoryStore(), nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	store, err := internalrepo.NewClickHouseStore(ctx, client, l)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return store, nil
}

// ProvideMarketProvider creates the configured tick provider.
func ProvideMarketProvider(cfg *config.Config, l *applogger.Logger) (repository.Provider, error) {
	return provider.New(cfg, l)
}

// ProvideTracker creates the ingestion tracker.
func ProvideTracker(
	store repository.ObservationStore,
	prov repository.Provider,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.Tracker {
	return usecase.NewTracker(store, prov, m, l)
}

// ProvidePublisher creates the Kafka tick publisher, or nil for the direct
// backend.
func ProvidePublisher(cfg *config.Config) (repository.Publisher, error) {
	if cfg.Backend.Type != "kafka" {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaTickPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvideTickProcessor creates the backend router for incoming ticks.
func ProvideTickProcessor(
	pub repository.Publisher,
	tracker *usecase.Tracker,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.TickProcessor {
	return usecase.NewTickProcessor(pub, tracker, m, cfg.Backend.Type)
}

// ProvideStreamCollector creates the optional websocket collector; nil when
// the stream is not configured.
func ProvideStreamCollector(
	cfg *config.Config,
	proc *usecase.TickProcessor,
	m repository.Metrics,
) *usecase.StreamCollector {
	if !cfg.Stream.Enabled {
		return nil
	}
	s := stream.New(cfg.Stream.APIKey, cfg.Stream.URL, cfg.Stream.ReconnectDelay, cfg.Stream.PingInterval)
	pipe := mid.NewIngestPipeline(proc, m,
		mid.WithMaxRPS(20),
		mid.WithBufferSize(2000),
	)
	return usecase.NewStreamCollector(s, proc, m, pipe)
}

// ProvideKafkaConsumer creates the optional tick consumer; nil unless the
// kafka backend has the consumer side enabled.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if cfg.Backend.Type != "kafka" || !cfg.Kafka.Consumer.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	consumer.WithConsumerHook(pkgkafka.NoopHook{})
	return consumer, nil
}

// ProvideKafkaTicksHandler registers the handler for the ticks topic.
func ProvideKafkaTicksHandler(tracker *usecase.Tracker, m repository.Metrics, cfg *config.Config) *usecase.KafkaTicksHandler {
	return usecase.NewKafkaTicksHandler(cfg.Kafka.Topic, tracker, m)
}

// ProvideRecommender creates the recommendation ranker.
func ProvideRecommender(store repository.ObservationStore) *usecase.Recommender {
	return usecase.NewRecommender(store)
}

// ProvideSimulator creates the walk-forward simulator.
func ProvideSimulator(store repository.ObservationStore, cfg *config.Config) *usecase.Simulator {
	return usecase.NewSimulator(store, cfg.Simulation.DemoNarrative)
}

// ProvideScheduler creates the daily tracking scheduler.
func ProvideScheduler(tracker *usecase.Tracker, cfg *config.Config, l *applogger.Logger) *usecase.DailyScheduler {
	return usecase.NewDailyScheduler(tracker, cfg.Tracker.Interval, l)
}

// ProvideCache creates the response cache: layered memory+Redis when Redis is
// configured, process memory otherwise.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return cache.NewMemoryCache(cache.WithMemoryMaxSize(1000)), nil
	}
	host, port, err := splitAddr(cfg.Cache.Redis.Addr)
	if err != nil {
		return nil, fmt.Errorf("cache redis addr: %w", err)
	}
	rc, err := cache.NewRedisCache(
		cache.WithRedisHost(host),
		cache.WithRedisPort(port),
		cache.WithRedisPassword(cfg.Cache.Redis.Password),
		cache.WithRedisDB(cfg.Cache.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(rc), nil
}

// ProvideQueueWorker creates the optional Redis-backed backfill queue; nil
// when the queue is disabled.
func ProvideQueueWorker(cfg *config.Config, l *applogger.Logger, tracker *usecase.Tracker) *queue.RedisQueue {
	if !cfg.Queue.Enabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Queue.Addr,
		Password: cfg.Queue.Password,
		DB:       cfg.Queue.DB,
	})
	q := queue.NewRedisQueue(l, &queue.QueueConfig{
		Workers:    cfg.Queue.Concurrency,
		RetryLimit: 3,
		RetryDelay: cfg.Queue.PollDelay,
	}, client, queue.ModeProducerConsumer)
	q.RegisterJob(usecase.NewBackfillJob(tracker, l))
	return q
}

// ProvideHandler creates the market HTTP handler.
func ProvideHandler(
	l *applogger.Logger,
	recommender *usecase.Recommender,
	simulator *usecase.Simulator,
	tracker *usecase.Tracker,
	store repository.ObservationStore,
	c cache.Service,
	q *queue.RedisQueue,
	cfg *config.Config,
) *api.MarketHandler {
	h := api.NewMarketHandler(l, recommender, simulator, tracker, store)
	if c != nil {
		h.SetCache(c, cfg.Cache.TTL)
	}
	if q != nil {
		h.SetQueue(q)
	}
	return h
}

// ProvideApp assembles the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler *api.MarketHandler,
	store repository.ObservationStore,
	scheduler *usecase.DailyScheduler,
	collector *usecase.StreamCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaTicksHandler,
	q *queue.RedisQueue,
	proc *usecase.TickProcessor,
) *server.App {
	app := server.New(cfg, l, handler, store, scheduler)
	if collector != nil {
		app.SetStreamCollector(collector)
	}
	if consumer != nil {
		app.SetConsumer(consumer, kh)
	}
	if q != nil {
		app.SetQueueWorker(q)
	}
	app.SetTickProcessor(proc)
	return app
}

func splitAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", 0, err
	}
	return host, port, nil
}
