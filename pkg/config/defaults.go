package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "roombook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"
	DefaultTimeZone = "UTC"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute
	DefaultRedisAddr         = ""
	DefaultRedisKeyPrefix    = "roombook"

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultReadQueryTimeout  = 5 * time.Second
	DefaultWriteQueryTimeout = 5 * time.Second

	DefaultBookingLockTTL     = 10 * time.Second
	DefaultBookingEventsTopic = "booking-events"
	DefaultBookingEventsDLQ   = "dlq-booking-events"
	DefaultEventsEnabled      = false

	DefaultOtelEnabled     = false
	DefaultOtelEndpoint    = "localhost:4317"
	DefaultOtelSampleRatio = 1.0

	DefaultPage            = 1
	DefaultPageLimit       = 10
	DefaultPaginationLimit = 100
)
