package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"roombook/internal/bookings/events"
	"roombook/pkg/config"
	"roombook/pkg/kafka"
	kafka_config "roombook/pkg/kafka/config"
	kafka_middleware "roombook/pkg/kafka/middleware"
	"roombook/pkg/logger"
	"syscall"
)

const ServiceName = "booking-audit"

func main() {
	log := logger.New(logger.Config{
		Level:   os.Getenv(config.EnvLogLevel),
		Format:  logger.JSON,
		Service: ServiceName,
	})

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(log.Info)

	topic := getEnv(config.EnvBookingEventsTopic, config.DefaultBookingEventsTopic)
	dlqTopic := getEnv(config.EnvBookingEventsDLQ, config.DefaultBookingEventsDLQ)

	consumer, err := kafka.NewConsumer(kafkaCfg, topic, dlqTopic, events.NewAuditHandler(log), log)
	if err != nil {
		log.Fatal("Failed to create Kafka consumer", "error", err)
	}

	metrics := kafka_middleware.NewMetrics()
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(log))
	consumer.Use(metrics.ConsumerMiddleware())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Consuming booking events", "topic", topic, "group_id", kafkaCfg.ConsumerGroupID)
	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Consumer stopped unexpectedly", "error", err)
	}

	if err := consumer.Close(); err != nil {
		log.Error("Failed to close consumer", "error", err)
	}

	snap := metrics.Snapshot()
	log.Info("Booking audit stopped",
		"consumed", snap.Consumed,
		"failed", snap.ConsumeFailed,
		"avg_consume_duration", snap.AvgConsumeDuration,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
