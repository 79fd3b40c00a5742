package di

import (
	"context"
	"fmt"
	"time"

	"MarketPulse/internal/domain/repository"
	"MarketPulse/internal/handler/api"
	internalrepo "MarketPulse/internal/repository"
	icache "MarketPulse/internal/service/cache"
	"MarketPulse/internal/service/dedup"
	"MarketPulse/internal/service/feed"
	"MarketPulse/internal/service/insight"
	"MarketPulse/internal/service/parser"
	"MarketPulse/internal/service/scenario"
	"MarketPulse/internal/usecase"
	pkgch "MarketPulse/pkg/clickhouse"
	"MarketPulse/pkg/config"
	xhttp "MarketPulse/pkg/http"
	pkgkafka "MarketPulse/pkg/kafka"
	applogger "MarketPulse/pkg/logger"
	"MarketPulse/pkg/metrics"
	"MarketPulse/pkg/server"
)

// QueueStore is the persistence boundary of the retry queue.
type QueueStore icache.BytesCache

// ResponseCache caches read-endpoint responses.
type ResponseCache icache.BytesCache

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	if cfg.Logging.ErrorBuffer > 0 {
		l.AddCollector(applogger.NewLogCollector(cfg.Logging.ErrorBuffer))
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideParser creates the alert text parser.
func ProvideParser() *parser.Parser {
	return parser.New()
}

// ProvideDeduplicator creates the dedup set with configured retention.
func ProvideDeduplicator(cfg *config.Config) *dedup.Deduplicator {
	return dedup.New(dedup.WithRetention(cfg.Dedup.Retention))
}

// ProvideAccumulator creates the in-memory alert history.
func ProvideAccumulator(cfg *config.Config) *insight.Accumulator {
	return insight.NewAccumulator(cfg.Insight.HistoryRetention)
}

// ProvideScoreWeights builds scoring weights from config.
func ProvideScoreWeights(cfg *config.Config) insight.ScoreWeights {
	w := insight.DefaultScoreWeights()
	if cfg.Insight.BullWeight > 0 {
		w.Bull = cfg.Insight.BullWeight
	}
	if cfg.Insight.BearWeight > 0 {
		w.Bear = cfg.Insight.BearWeight
	}
	if cfg.Insight.BiasRatio > 0 {
		w.BiasRatio = cfg.Insight.BiasRatio
	}
	if cfg.Insight.Scale > 0 {
		w.Scale = cfg.Insight.Scale
	}
	if cfg.Insight.StrongAt > 0 {
		w.StrongAt = cfg.Insight.StrongAt
	}
	if cfg.Insight.MildAt > 0 {
		w.MildAt = cfg.Insight.MildAt
	}
	return w
}

// ProvideClassifier creates the scenario classifier.
func ProvideClassifier(cfg *config.Config) *scenario.Classifier {
	return scenario.New(scenario.Config{
		VolumeBonus:       cfg.Scenario.VolumeBonus,
		MomentumBonus:     cfg.Scenario.MomentumBonus,
		BreakoutWindowPct: cfg.Scenario.BreakoutWindowPct,
		BreakdownWindow:   cfg.Scenario.BreakdownWindow,
		MomentumTolerance: cfg.Scenario.MomentumTolerance,
		TopN:              cfg.Scenario.TopN,
	})
}

// ProvideQueueStore creates the durable store behind the retry queue.
func ProvideQueueStore(cfg *config.Config) (QueueStore, error) {
	if cfg.Queue.Store == "redis" {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Queue.Redis.Addr,
			Password: cfg.Queue.Redis.Password,
			DB:       cfg.Queue.Redis.DB,
		}), nil
	}
	fs, err := internalrepo.NewFileStore(cfg.Queue.Dir)
	if err != nil {
		return nil, fmt.Errorf("queue store: %w", err)
	}
	return fs, nil
}

// ProvideRetryQueue creates the durable retry queue.
func ProvideRetryQueue(store QueueStore, cfg *config.Config, l *applogger.Logger, m repository.Metrics) *usecase.RetryQueue {
	return usecase.NewRetryQueue(store, cfg.Queue.Key, l, m,
		usecase.WithRetention(cfg.Queue.Retention),
		usecase.WithDrainDelay(cfg.Delivery.DrainDelay),
	)
}

// ProvideDeliverer creates the configured downstream sink. The kafka sink
// owns its producer; the app closes it through the Closer check at shutdown.
func ProvideDeliverer(cfg *config.Config) (repository.Deliverer, error) {
	if cfg.Delivery.Sink == "kafka" {
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
		return internalrepo.NewKafkaDeliverer(producer, cfg.Kafka.Topic), nil
	}
	return internalrepo.NewHTTPDeliverer(cfg.Delivery.URL, cfg.Delivery.Timeout, nil), nil
}

// ProvideIngestionSync creates the deliver-or-queue stage.
func ProvideIngestionSync(d repository.Deliverer, q *usecase.RetryQueue, m repository.Metrics, l *applogger.Logger, cfg *config.Config) *usecase.IngestionSync {
	s := usecase.NewIngestionSync(d, q, m, l)
	s.SetTimeout(cfg.Delivery.Timeout)
	return s
}

// ProvideClickHouseClient creates a ClickHouse client and initializes the
// alert history schema. Returns nil when the history store is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
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

	table := cfg.ClickHouse.Database + "." + cfg.ClickHouse.Table
	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database,
		"CREATE TABLE IF NOT EXISTS " + table + ` (
			id String,
			ts DateTime64(3),
			ticker String,
			clean_ticker String,
			timeframe String,
			category String,
			direction Int8,
			price Nullable(Float64),
			momentum_pct Nullable(Float64),
			ts_extracted UInt8,
			confluence String
		) ENGINE=MergeTree ORDER BY (clean_ticker, ts)`,
	}); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideAlertStore creates the alert history repository, nil when disabled.
func ProvideAlertStore(chClient *pkgch.Client, cfg *config.Config, l *applogger.Logger) repository.AlertStore {
	if chClient == nil {
		return nil
	}
	store := internalrepo.NewClickHouseAlertStore(chClient.DB(), cfg.ClickHouse.Database+"."+cfg.ClickHouse.Table)
	if s, ok := store.(*internalrepo.ClickHouseAlertStore); ok {
		s.SetLogger(l)
	}
	return store
}

// ProvideIngestPipeline creates the ingestion pipeline.
func ProvideIngestPipeline(
	p *parser.Parser,
	d *dedup.Deduplicator,
	acc *insight.Accumulator,
	sync *usecase.IngestionSync,
	store repository.AlertStore,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.IngestPipeline {
	pipeline := usecase.NewIngestPipeline(p, d, acc, sync, m, l)
	if store != nil {
		pipeline.SetAlertStore(store)
	}
	return pipeline
}

// ProvidePulseUseCase creates the aggregation use case.
func ProvidePulseUseCase(acc *insight.Accumulator, classifier *scenario.Classifier, weights insight.ScoreWeights, store repository.AlertStore) *usecase.PulseUseCase {
	uc := usecase.NewPulseUseCase(acc, classifier, weights)
	if store != nil {
		uc.SetAlertStore(store)
	}
	return uc
}

// ProvideAlertStream creates the WebSocket feed, nil when disabled.
func ProvideAlertStream(cfg *config.Config) repository.AlertStream {
	if !cfg.Feed.Enabled {
		return nil
	}
	return feed.New(cfg.Feed.WebSocketURL, cfg.Feed.ReconnectDelay, cfg.Feed.PingInterval)
}

// ProvideAlertCollector creates the feed collector, nil without a stream.
func ProvideAlertCollector(stream repository.AlertStream, pipeline *usecase.IngestPipeline, m repository.Metrics) *usecase.AlertCollector {
	if stream == nil {
		return nil
	}
	return usecase.NewAlertCollector(stream, pipeline, m)
}

// ProvideKafkaConsumer creates a Kafka consumer, nil when disabled.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Consumer.Enabled {
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
	return consumer, nil
}

// ProvideKafkaAlertsHandler registers handler for the raw alerts topic.
func ProvideKafkaAlertsHandler(pipeline *usecase.IngestPipeline, m repository.Metrics, cfg *config.Config) *usecase.KafkaAlertsHandler {
	return usecase.NewKafkaAlertsHandler(cfg.Kafka.Consumer.Topic, pipeline, m)
}

// ProvideResponseCache creates the read-endpoint cache.
func ProvideResponseCache(cfg *config.Config) ResponseCache {
	if cfg.Cache.RedisEnabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvidePulseHandler creates the Echo HTTP handler.
func ProvidePulseHandler(
	l *applogger.Logger,
	pipeline *usecase.IngestPipeline,
	pulse *usecase.PulseUseCase,
	queue *usecase.RetryQueue,
	cache ResponseCache,
) xhttp.Handler {
	h := api.NewPulseEchoHandler(l, pipeline, pulse, queue)
	h.SetCache(cache)
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler xhttp.Handler,
	collector *usecase.AlertCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaAlertsHandler,
	chClient *pkgch.Client,
	deliverer repository.Deliverer,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	return server.New(cfg, l, handler, collector, consumer, kh, chClient, deliverer)
}
