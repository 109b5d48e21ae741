package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr    string
	ServiceName string
	Env         string

	// Empty values keep the in-memory implementations.
	RedisAddr   string
	PostgresDSN string
	CartTTL     time.Duration

	RetryMax       int
	RetryBaseDelay time.Duration
	RetryMaxDelay  time.Duration

	SchedulerQueueSize int
}

func Load() Config {
	// A missing .env file is fine; real deployments set the environment.
	_ = godotenv.Load()

	return Config{
		HTTPAddr:           getenv("HTTP_ADDR", ":8080"),
		ServiceName:        getenv("SERVICE_NAME", "checkout"),
		Env:                getenv("ENV", "dev"),
		RedisAddr:          getenv("REDIS_ADDR", ""),
		PostgresDSN:        getenv("POSTGRES_DSN", ""),
		CartTTL:            getduration("CART_TTL", 24*time.Hour),
		RetryMax:           getint("RETRY_MAX", 3),
		RetryBaseDelay:     getduration("RETRY_BASE_DELAY", 100*time.Millisecond),
		RetryMaxDelay:      getduration("RETRY_MAX_DELAY", 2*time.Second),
		SchedulerQueueSize: getint("SCHEDULER_QUEUE_SIZE", 256),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getduration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
