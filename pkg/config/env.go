package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"
	EnvTimeZone = "TIME_ZONE"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"
	EnvRedisAddr         = "REDIS_ADDR"
	EnvRedisPassword     = "REDIS_PASSWORD"
	EnvRedisKeyPrefix    = "REDIS_KEY_PREFIX"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvReadQueryTimeout  = "READ_QUERY_TIMEOUT"
	EnvWriteQueryTimeout = "WRITE_QUERY_TIMEOUT"

	EnvBookingLockTTL     = "BOOKING_LOCK_TTL"
	EnvBookingEventsTopic = "BOOKING_EVENTS_TOPIC"
	EnvBookingEventsDLQ   = "BOOKING_EVENTS_DLQ"
	EnvEventsEnabled      = "BOOKING_EVENTS_ENABLED"

	EnvOtelEnabled     = "OTEL_ENABLED"
	EnvOtelEndpoint    = "OTEL_EXPORTER_OTLP_ENDPOINT"
	EnvOtelSampleRatio = "OTEL_SAMPLING_RATIO"
)
