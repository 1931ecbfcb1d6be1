package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	HTTP     ServerConfig
	Redis    RedisConfig
	Log      LogConfig
	Gateway  GatewayConfig
	Referral ReferralConfig
}

type AppConfig struct {
	ServiceName string
	AdminAPIKey string
}

type ServerConfig struct {
	Host string
	Port string
}

// RedisConfig points at the shared document store. An empty Addr makes
// the service fall back to the in-process store (local development).
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

type LogConfig struct {
	Level string
}

type GatewayConfig struct {
	ApprovalPercent int
	Latency         time.Duration
}

type ReferralConfig struct {
	RewardPercent      int
	RewardPoints       int64
	FirstReferralBadge string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		App: AppConfig{
			ServiceName: getEnv("APP_SERVICE_NAME", "course-payments"),
			AdminAPIKey: getEnv("APP_ADMIN_API_KEY", ""),
		},
		HTTP: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnv("HTTP_PORT", "8080"),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", ""),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getIntEnv("REDIS_DB", 0),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", ""),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Gateway: GatewayConfig{
			ApprovalPercent: getIntEnv("GATEWAY_APPROVAL_PERCENT", 80),
			Latency:         getMillisEnv("GATEWAY_LATENCY_MILLIS", 0),
		},
		Referral: ReferralConfig{
			RewardPercent:      getIntEnv("REFERRAL_REWARD_PERCENT", 10),
			RewardPoints:       int64(getIntEnv("REFERRAL_REWARD_POINTS", 50)),
			FirstReferralBadge: getEnv("REFERRAL_FIRST_BADGE", "first_referral"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getMillisEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if millis, err := strconv.Atoi(value); err == nil {
			return time.Duration(millis) * time.Millisecond
		}
	}
	return defaultValue
}
