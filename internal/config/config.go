package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all service configuration, loaded from the environment.
type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	DatabaseURL string
	RedisURL    string

	Casdoor CasdoorConfig
	Kafka   KafkaConfig
	Payment PaymentConfig
	Chatbot ChatbotConfig
}

// CasdoorConfig holds the identity provider connection settings.
type CasdoorConfig struct {
	Endpoint     string
	ClientID     string
	ClientSecret string
	Cert         string
	Organization string
	Application  string
}

// KafkaConfig holds the event broker settings. An empty broker list
// disables event publishing.
type KafkaConfig struct {
	Brokers []string
}

// PaymentConfig holds the checkout gateway settings.
type PaymentConfig struct {
	GatewayURL string
	APIKey     string
	LevelPrice float64
	Currency   string
}

// ChatbotConfig holds the upstream assistant API settings.
type ChatbotConfig struct {
	Endpoint string
	APIKey   string
}

// LoadConfig reads configuration from the environment. A .env file is
// loaded first if present.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		Casdoor: CasdoorConfig{
			Endpoint:     os.Getenv("CASDOOR_ENDPOINT"),
			ClientID:     os.Getenv("CASDOOR_CLIENT_ID"),
			ClientSecret: os.Getenv("CASDOOR_CLIENT_SECRET"),
			Cert:         os.Getenv("CASDOOR_CERT"),
			Organization: getEnv("CASDOOR_ORGANIZATION", "trilingo"),
			Application:  getEnv("CASDOOR_APPLICATION", "learning-service"),
		},

		Kafka: KafkaConfig{
			Brokers: parseBrokers(os.Getenv("KAFKA_BROKERS")),
		},

		Payment: PaymentConfig{
			GatewayURL: os.Getenv("PAYMENT_GATEWAY_URL"),
			APIKey:     os.Getenv("PAYMENT_API_KEY"),
			LevelPrice: getEnvFloat("LEVEL_PRICE", 4.99),
			Currency:   getEnv("PAYMENT_CURRENCY", "USD"),
		},

		Chatbot: ChatbotConfig{
			Endpoint: os.Getenv("CHATBOT_ENDPOINT"),
			APIKey:   os.Getenv("CHATBOT_API_KEY"),
		},
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseBrokers(value string) []string {
	if value == "" {
		return nil
	}

	var brokers []string
	for _, broker := range strings.Split(value, ",") {
		broker = strings.TrimSpace(broker)
		if broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}

func parseLogLevel(value string) slog.Level {
	switch strings.ToLower(value) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
