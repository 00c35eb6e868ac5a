package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Sink drivers accepted by SINK_DRIVER.
const (
	DriverMercure     = "mercure"
	DriverRedis       = "redis"
	DriverRedisStream = "redis-stream"
	DriverNATS        = "nats"
)

type Config struct {
	AppPort string
	AppMode string

	EventsTopic string
	SinkDriver  string

	MercureHubURL    string
	MercureJWTSecret string

	RedisHost         string
	RedisPort         string
	RedisPassword     string
	RedisDB           int
	RedisStreamMaxLen int

	NATSURL string

	RateLimitPerMinute int
	CORSAllowedOrigins []string
	RelayEnabled       bool
}

func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		AppPort:            getEnv("APP_PORT", "8080"),
		AppMode:            getEnv("APP_MODE", "debug"),
		EventsTopic:        getEnv("EVENTS_TOPIC", "http://example.com/events"),
		SinkDriver:         strings.ToLower(getEnv("SINK_DRIVER", DriverMercure)),
		MercureHubURL:      getEnv("MERCURE_HUB_URL", "http://localhost:3000/.well-known/mercure"),
		MercureJWTSecret:   getEnv("MERCURE_JWT_SECRET", "!ChangeThisMercureHubJWTSecretKey!"),
		RedisHost:          getEnv("REDIS_HOST", "localhost"),
		RedisPort:          getEnv("REDIS_PORT", "6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisDB:            getEnvAsInt("REDIS_DB", 0),
		RedisStreamMaxLen:  getEnvAsInt("REDIS_STREAM_MAXLEN", 10000),
		NATSURL:            getEnv("NATS_URL", "nats://localhost:4222"),
		RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 0),
		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		RelayEnabled:       getEnvAsBool("RELAY_ENABLED", true),
	}
}

// UsesRedis reports whether the configured driver needs a Redis connection.
// The rate limiter also needs one when enabled.
func (c *Config) UsesRedis() bool {
	return c.SinkDriver == DriverRedis || c.SinkDriver == DriverRedisStream || c.RateLimitPerMinute > 0
}

// RelayActive reports whether the websocket relay should run for this driver.
func (c *Config) RelayActive() bool {
	return c.RelayEnabled && (c.SinkDriver == DriverRedis || c.SinkDriver == DriverNATS)
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsList(key string, fallback []string) []string {
	valueStr := strings.TrimSpace(getEnv(key, ""))
	if valueStr == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
