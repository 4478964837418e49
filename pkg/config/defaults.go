package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "roomly"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultJWTTTL = 7 * 24 * time.Hour

	DefaultRoomsServiceURL = "http://localhost:8081"

	// DefaultLockTTL bounds how long a crashed reservation attempt can keep
	// a room locked. It must stay well above the worst observed reservation
	// transaction duration or legitimate holders get pre-empted.
	DefaultLockTTL = 5 * time.Second

	DefaultIdempotencyTTL     = 24 * time.Hour
	DefaultBookingHorizonDays = 365

	DefaultRateLimitRequests = 200
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultKafkaBrokers              = "localhost:9092"
	DefaultKafkaBookingEventsTopic   = "booking-events"
	DefaultKafkaBookingEventsDLQ     = "booking-events-dlq"
	DefaultKafkaConsumerGroupID      = "roomly-notifier"
	DefaultKafkaConsumerMaxRetries   = 3
	DefaultKafkaProducerMaxAttempts  = 3
	DefaultKafkaProducerBatchTimeout = 10 * time.Millisecond

	DefaultPaginationLimit = 100
)
