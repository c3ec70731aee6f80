package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Risk      RiskConfig
	Twilio    TwilioConfig
	SMTP      SMTPConfig
	NATS      NATSConfig
	Sentry    SentryConfig
	Tracing   TracingConfig
	RateLimit RateLimitConfig
	Reminder  ReminderConfig
	Roles     RolesConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	Environment  string
	ServiceName  string
	ReadTimeout  int
	WriteTimeout int
	CORSOrigins  string // Comma-separated list of allowed origins
}

// CORSOriginList splits the configured origins into a slice for the CORS middleware.
func (c *ServerConfig) CORSOriginList() []string {
	parts := strings.Split(c.CORSOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
	MinConns int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret     string
	Expiration int // in hours
}

// RiskConfig holds the order risk evaluator thresholds. All values have
// documented defaults; unparsable env values silently keep the default.
type RiskConfig struct {
	MaxOrderAmount      float64
	MinOrderAmount      float64
	MaxOrdersPerHour    int
	DeliveryRadiusMiles int
	AllowedZipCodes     []string
	Timezone            string
}

// TwilioConfig holds Twilio SMS configuration
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	Enabled    bool
}

// SMTPConfig holds outbound email configuration
type SMTPConfig struct {
	Host        string
	Port        string
	Username    string
	Password    string
	FromAddress string
	Enabled     bool
}

// NATSConfig holds NATS event bus configuration
type NATSConfig struct {
	URL     string
	Enabled bool
}

// SentryConfig holds Sentry error reporting configuration
type SentryConfig struct {
	DSN     string
	Enabled bool
}

// TracingConfig holds OpenTelemetry configuration
type TracingConfig struct {
	Endpoint string
	Enabled  bool
}

// RateLimitConfig holds Redis rate limiter configuration
type RateLimitConfig struct {
	Enabled       bool
	WindowSeconds int
	OrderLimit    int
	RedisPrefix   string
}

// Window returns the limiter window as a duration, defaulting to one minute.
func (c *RateLimitConfig) Window() time.Duration {
	if c.WindowSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.WindowSeconds) * time.Second
}

// ReminderConfig holds the reservation reminder worker configuration
type ReminderConfig struct {
	IntervalMinutes int
	RestaurantName  string
	RestaurantPhone string
	Address         string
	Language        string
}

// RolesConfig maps bootstrap emails to elevated roles
type RolesConfig struct {
	HostEmails        []string
	MaintenanceEmails []string
}

const (
	defaultMaxOrderAmount   = 500
	defaultMinOrderAmount   = 15
	defaultMaxOrdersPerHour = 5
	defaultDeliveryRadius   = 5
)

// defaultAllowedZips is the delivery ZIP allow-list used when none is configured.
var defaultAllowedZips = []string{
	"10001", "10002", "10003", "10004", "10005",
	"10006", "10007", "10008", "10009", "10010",
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Environment:  getEnv("ENVIRONMENT", "development"),
			ServiceName:  serviceName,
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 10),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 10),
			CORSOrigins:  getEnv("CORS_ORIGINS", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "goldendragon"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:     getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			Expiration: getEnvAsInt("JWT_EXPIRATION", 24),
		},
		Risk: RiskConfig{
			MaxOrderAmount:      getEnvAsFloat("MAX_ORDER_AMOUNT", defaultMaxOrderAmount),
			MinOrderAmount:      getEnvAsFloat("MIN_ORDER_AMOUNT", defaultMinOrderAmount),
			MaxOrdersPerHour:    getEnvAsInt("MAX_ORDERS_PER_HOUR", defaultMaxOrdersPerHour),
			DeliveryRadiusMiles: getEnvAsInt("DELIVERY_RADIUS_MILES", defaultDeliveryRadius),
			AllowedZipCodes:     getEnvAsSlice("ALLOWED_ZIP_CODES", defaultAllowedZips),
			Timezone:            getEnv("RISK_LOCAL_TIMEZONE", "America/New_York"),
		},
		Twilio: TwilioConfig{
			AccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
			FromNumber: getEnv("TWILIO_FROM_NUMBER", ""),
			Enabled:    getEnvAsBool("TWILIO_ENABLED", false),
		},
		SMTP: SMTPConfig{
			Host:        getEnv("SMTP_HOST", "localhost"),
			Port:        getEnv("SMTP_PORT", "587"),
			Username:    getEnv("SMTP_USERNAME", ""),
			Password:    getEnv("SMTP_PASSWORD", ""),
			FromAddress: getEnv("SMTP_FROM_ADDRESS", "noreply@goldendragon.com"),
			Enabled:     getEnvAsBool("SMTP_ENABLED", false),
		},
		NATS: NATSConfig{
			URL:     getEnv("NATS_URL", "nats://localhost:4222"),
			Enabled: getEnvAsBool("NATS_ENABLED", false),
		},
		Sentry: SentryConfig{
			DSN:     getEnv("SENTRY_DSN", ""),
			Enabled: getEnvAsBool("SENTRY_ENABLED", false),
		},
		Tracing: TracingConfig{
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Enabled:  getEnvAsBool("TRACING_ENABLED", false),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getEnvAsBool("RATE_LIMIT_ENABLED", true),
			WindowSeconds: getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 60),
			OrderLimit:    getEnvAsInt("RATE_LIMIT_ORDER_LIMIT", 10),
			RedisPrefix:   getEnv("RATE_LIMIT_REDIS_PREFIX", "rl"),
		},
		Reminder: ReminderConfig{
			IntervalMinutes: getEnvAsInt("REMINDER_INTERVAL_MINUTES", 15),
			RestaurantName:  getEnv("RESTAURANT_NAME", "Golden Dragon Restaurant"),
			RestaurantPhone: getEnv("RESTAURANT_PHONE", "(555) 123-4567"),
			Address:         getEnv("RESTAURANT_ADDRESS", "123 Main Street, New York, NY 10001"),
			Language:        getEnv("RESTAURANT_LANGUAGE", "en"),
		},
		Roles: RolesConfig{
			HostEmails:        getEnvAsSlice("HOST_EMAILS", nil),
			MaintenanceEmails: getEnvAsSlice("MAINTENANCE_EMAILS", nil),
		},
	}

	return cfg, nil
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// MigrateURL returns the connection URL used by golang-migrate.
func (c *DatabaseConfig) MigrateURL() string {
	return fmt.Sprintf(
		"pgx5://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
