package main

import (
	"context"
	"roombook/internal/bookings/events"
	"roombook/internal/bookings/handler"
	"roombook/internal/bookings/repository"
	"roombook/internal/bookings/service"
	"roombook/internal/bookings/status"
	"roombook/internal/bookings/validator"
	"roombook/pkg/app"
	"roombook/pkg/config"
	"roombook/pkg/kafka"
	kafka_config "roombook/pkg/kafka/config"
	kafka_middleware "roombook/pkg/kafka/middleware"
	"roombook/pkg/tracing"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	cfg.SetRedis()

	cfg.Log.Info("Starting Bookings service")

	shutdownTracing, err := tracing.Setup(context.Background(), tracing.Config{
		Enabled:     cfg.OtelEnabled,
		ServiceName: ServiceName,
		Endpoint:    cfg.OtelEndpoint,
		SampleRatio: cfg.OtelSampleRatio,
	}, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to set up tracing", "error", err)
	}

	publisher := initPublisher(cfg)
	bookingService := initServices(cfg, publisher)

	serverApp := app.NewApplication(cfg)
	serverApp.OnShutdown("booking-events", func(context.Context) error { return publisher.Close() })
	serverApp.OnShutdown("tracing", shutdownTracing)
	serverApp.SetApp(
		handler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
		handler.NewBookingHandler(bookingService, cfg.Location, cfg.Log),
	)
	serverApp.Run()
}

func initPublisher(cfg *config.Config) events.Publisher {
	if !cfg.EventsEnabled {
		cfg.Log.Info("Booking events disabled")
		return events.NopPublisher{}
	}

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.BookingEventsTopic, cfg.BookingEventsDLQ, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	metrics := kafka_middleware.NewMetrics()
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(metrics.ProducerMiddleware())

	cfg.Log.Info("Booking events enabled", "topic", cfg.BookingEventsTopic)
	return &meteredPublisher{Publisher: events.NewKafkaPublisher(producer, cfg.Log), metrics: metrics, cfg: cfg}
}

// meteredPublisher logs the producer counters when it is closed.
type meteredPublisher struct {
	events.Publisher
	metrics *kafka_middleware.Metrics
	cfg     *config.Config
}

func (p *meteredPublisher) Close() error {
	snap := p.metrics.Snapshot()
	p.cfg.Log.Info("Booking events producer stopped",
		"published", snap.Published,
		"failed", snap.PublishFailed,
		"avg_publish_duration", snap.AvgPublishDuration,
	)
	return p.Publisher.Close()
}

func initServices(cfg *config.Config, publisher events.Publisher) service.BookingService {
	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewMongoBookingLockRepository(cfg)
	bookingService := service.NewBookingService(
		bookingRepo,
		lockRepo,
		bookingValidator,
		publisher,
		status.SystemClock,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "database", cfg.MongoDatabaseName)
	return bookingService
}
