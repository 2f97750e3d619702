package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port      string
	LogLevel  string
	LogFormat string

	BackendURL     string
	BackendToken   string
	BackendTimeout time.Duration

	JWTSecret  string
	SessionTTL time.Duration

	AdminEmail        string
	AdminName         string
	AdminPasswordHash string
	AdminPassword     string

	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	RabbitMQURL         string
	AdminExchange       string
	OrderEventsExchange string
	OrderEventsQueue    string
	DeadLetterQueue     string
	MaxPriority         int

	TransitionPolicy string
	TransitionsFile  string

	ChatPollInterval  time.Duration
	LowStockThreshold int
}

func LoadConfig() *Config {
	return &Config{
		Port:      getEnv("PORT", "8080"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		BackendURL:     strings.TrimRight(getEnv("BACKEND_URL", "http://localhost:8000/api"), "/"),
		BackendToken:   getEnvFromFile("BACKEND_TOKEN_FILE", "BACKEND_TOKEN", ""),
		BackendTimeout: time.Duration(getEnvInt("BACKEND_TIMEOUT_SEC", 15)) * time.Second,

		JWTSecret:  getEnvFromFile("JWT_SECRET_FILE", "JWT_SECRET", "dev-only-storefront-admin-secret"),
		SessionTTL: time.Duration(getEnvInt("SESSION_TTL_MIN", 720)) * time.Minute,

		AdminEmail:        getEnv("ADMIN_EMAIL", "admin@store.com"),
		AdminName:         getEnv("ADMIN_NAME", "Admin User"),
		AdminPasswordHash: getEnvFromFile("ADMIN_PASSWORD_HASH_FILE", "ADMIN_PASSWORD_HASH", ""),
		AdminPassword:     getEnv("ADMIN_PASSWORD", ""),

		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: getEnvFromFile("DB_PASSWORD_FILE", "DB_PASSWORD", ""),
		DBHost:     getEnv("DB_HOST", ""),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBName:     getEnv("DB_NAME", "storefront_admin"),

		RabbitMQURL:         getEnv("RABBITMQ_URL", ""),
		AdminExchange:       getEnv("ADMIN_EXCHANGE", "admin_events"),
		OrderEventsExchange: getEnv("ORDER_EVENTS_EXCHANGE", "orders_exchange"),
		OrderEventsQueue:    getEnv("ORDER_EVENTS_QUEUE", "admin_order_events"),
		DeadLetterQueue:     getEnv("DEAD_LETTER_QUEUE", "admin_dead_letter"),
		MaxPriority:         10,

		TransitionPolicy: getEnv("ORDER_TRANSITION_POLICY", "relay"),
		TransitionsFile:  getEnv("ORDER_TRANSITIONS_FILE", ""),

		ChatPollInterval:  time.Duration(getEnvInt("CHAT_POLL_INTERVAL_SEC", 30)) * time.Second,
		LowStockThreshold: getEnvInt("LOW_STOCK_THRESHOLD", 10),
	}
}

// DatabaseEnabled reports whether the MySQL audit store is configured.
func (c *Config) DatabaseEnabled() bool {
	return c.DBHost != ""
}

func (c *Config) MessagingEnabled() bool {
	return c.RabbitMQURL != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFromFile(fileKey, envKey, defaultValue string) string {
	if filePath := os.Getenv(fileKey); filePath != "" {
		if content, err := os.ReadFile(filePath); err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return getEnv(envKey, defaultValue)
}
