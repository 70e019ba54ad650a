package di

import (
	"context"
	"fmt"
	"time"

	"OptionVal/internal/domain/repository"
	"OptionVal/internal/handler/api"
	mid "OptionVal/internal/middleware"
	internalrepo "OptionVal/internal/repository"
	"OptionVal/internal/service/finnhub"
	"OptionVal/internal/usecase"
	pkgcache "OptionVal/pkg/cache"
	pkgch "OptionVal/pkg/clickhouse"
	"OptionVal/pkg/config"
	xhttp "OptionVal/pkg/http"
	pkgkafka "OptionVal/pkg/kafka"
	"OptionVal/pkg/logger"
	"OptionVal/pkg/metrics"
	"OptionVal/pkg/server"
)

// ProvideLogger creates the application logger. When Kafka is available,
// aggregated error logs are shipped to a dedicated topic.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*logger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	l, err := logger.New(&logger.Config{Level: "info", Format: format, Output: "stdout"})
	if err != nil {
		return nil, err
	}
	if producer != nil {
		l.AddCollector(&logger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          "optionval.logs",
			Publisher:      kafkaLogSink{p: producer},
		})
	}
	return l, nil
}

// kafkaLogSink adapts the Kafka producer to the log collector's publisher.
type kafkaLogSink struct {
	p *pkgkafka.Producer
}

func (s kafkaLogSink) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return s.p.Publish(ctx, topic, nil, payload)
}

// ProvideClickHouseClient creates a ClickHouse client, or nil when disabled.
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

	if err := client.InitSchema(ctx, []string{
		"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database,
	}); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer, or nil when disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
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
	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideResultStore creates the ClickHouse result store.
func ProvideResultStore(chClient *pkgch.Client, cfg *config.Config) (repository.ResultStore, error) {
	if chClient == nil {
		return nil, nil
	}
	table := cfg.ClickHouse.Table
	if table == "" {
		table = cfg.ClickHouse.Database + ".valuations"
	}
	store := internalrepo.NewClickHouseResultStore(chClient.DB(), table)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("result store init: %w", err)
	}
	return store, nil
}

// ProvideResultPublisher creates the Kafka results publisher.
func ProvideResultPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.ResultsTopic)
}

// ProvideKafkaConsumer creates the request topic consumer, or nil when disabled.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Enabled || cfg.Kafka.RequestTopic == "" {
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

// ProvideResultCache creates the layered Redis result cache, or nil when disabled.
func ProvideResultCache(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(cfg.Redis.Host),
		pkgcache.WithRedisPort(cfg.Redis.Port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
		pkgcache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return pkgcache.NewLayeredCache(rc), nil
}

// ProvideSpotCollector creates the live spot collector, or nil when disabled.
func ProvideSpotCollector(cfg *config.Config, m repository.Metrics) *usecase.SpotCollector {
	if !cfg.Finnhub.Enabled {
		return nil
	}
	stream := finnhub.New(
		cfg.Finnhub.APIKey,
		cfg.Finnhub.WebSocketURL,
		cfg.Finnhub.Symbols,
		cfg.Finnhub.ReconnectDelay,
		cfg.Finnhub.PingInterval,
	)
	collector := usecase.NewSpotCollector(stream, m)

	maxRPS := cfg.Simulation.MaxRPS
	if maxRPS <= 0 {
		maxRPS = 50
	}
	pipe := mid.NewRealtimePipeline(collector, m,
		mid.WithMaxRPS(maxRPS),
		mid.WithBufferSize(2000),
	)
	collector.SetPipeline(pipe)
	return collector
}

// ProvideSpotBook exposes the collector as a spot book, keeping the interface
// nil when the feed is disabled.
func ProvideSpotBook(collector *usecase.SpotCollector) repository.SpotBook {
	if collector == nil {
		return nil
	}
	return collector
}

// ProvideValuationService creates the valuation usecase.
func ProvideValuationService(
	store repository.ResultStore,
	pub repository.Publisher,
	m repository.Metrics,
	spots repository.SpotBook,
	results pkgcache.Service,
	l *logger.Logger,
	cfg *config.Config,
) *usecase.ValuationService {
	return usecase.NewValuationService(
		store, pub, m, spots, results, l,
		cfg.Simulation.SimCacheTTL, cfg.Simulation.ResultCacheTTL,
	)
}

// ProvideRequestsHandler registers the handler for the request topic.
func ProvideRequestsHandler(svc *usecase.ValuationService, m repository.Metrics, l *logger.Logger, cfg *config.Config) *usecase.KafkaRequestsHandler {
	return usecase.NewKafkaRequestsHandler(cfg.Kafka.RequestTopic, svc, m, l)
}

// ProvideHTTPHandler creates the Echo valuations handler.
func ProvideHTTPHandler(l *logger.Logger, svc *usecase.ValuationService, collector *usecase.SpotCollector, cfg *config.Config) xhttp.Handler {
	var rest *finnhub.RESTClient
	if cfg.Finnhub.APIKey != "" {
		rest = finnhub.NewRESTClient(cfg.Finnhub.APIKey)
	}
	return api.NewValuationsEchoHandler(l, svc, collector, rest)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	collector *usecase.SpotCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaRequestsHandler,
	chClient *pkgch.Client,
	h xhttp.Handler,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	app := server.New(cfg, collector, consumer, kh, chClient)
	app.SetHTTPHandler(h)
	return app
}
