package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	IsProduction      bool
	ProdOrigins       string
	HTTPAddr          string
	DBDSN             string
	JWTSecret         string
	JWTAccessTokenTTL time.Duration
	BcryptCost        int
	LogLevel          string
	StoragePath       string

	Mail MailConfig

	// DownPaymentPercent is applied to the booking total when a down payment
	// is required and staff did not enter an amount.
	DownPaymentPercent decimal.Decimal
	// RebookingFee is charged on every rebooking request unless staff overrides it.
	RebookingFee decimal.Decimal
	// NotifyQueueSize bounds the notification dispatcher queue.
	NotifyQueueSize int
}

// MailConfig configures outbound admin notification emails.
// An empty SMTPHost selects the log mailer.
type MailConfig struct {
	From         string
	AdminEmails  []string
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
}

// Load loads configuration from .env (optional) and environment variables.
// The returned warning is non-nil when no .env file could be read; it is
// informational only.
func Load() (cfg *Config, warning error, err error) {
	if envErr := godotenv.Load(); envErr != nil {
		warning = fmt.Errorf("failed to load .env file: %w", envErr)
	}
	cfg, err = FromEnv()
	return cfg, warning, err
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	var err error

	// Production origin (default: empty)
	cfg.ProdOrigins = getEnv("PROD_ORIGINS", "")

	// Application environment (default: dev)
	cfg.IsProduction = getEnv("APP_ENV", "dev") == PROD_STRING

	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.StoragePath = getEnv("STORAGE_PATH", "./storage")

	// Database DSN is required
	cfg.DBDSN = os.Getenv("DB_DSN")
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}

	// JWT secret is required for signing tokens
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	// JWT access token TTL, parse as time.Duration (e.g. "15m", "1h").
	ttl, err := time.ParseDuration(getEnv("JWT_ACCESS_TOKEN_TTL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TOKEN_TTL: %w", err)
	}
	cfg.JWTAccessTokenTTL = ttl

	// Bcrypt cost for password hashing (default: 12)
	cfg.BcryptCost, err = getEnvAsInt("BCRYPT_COST", 12)
	if err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}

	cfg.Mail = MailConfig{
		From:         getEnv("MAIL_FROM", "no-reply@resort.local"),
		AdminEmails:  getEnvAsList("ADMIN_EMAILS"),
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
	}
	cfg.Mail.SMTPPort, err = getEnvAsInt("SMTP_PORT", 587)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	cfg.DownPaymentPercent, err = getEnvAsDecimal("DOWN_PAYMENT_PERCENT", "50")
	if err != nil {
		return nil, fmt.Errorf("invalid DOWN_PAYMENT_PERCENT: %w", err)
	}
	if cfg.DownPaymentPercent.IsNegative() || cfg.DownPaymentPercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("invalid DOWN_PAYMENT_PERCENT: must be between 0 and 100")
	}

	cfg.RebookingFee, err = getEnvAsDecimal("REBOOKING_FEE", "0")
	if err != nil {
		return nil, fmt.Errorf("invalid REBOOKING_FEE: %w", err)
	}
	if cfg.RebookingFee.IsNegative() {
		return nil, fmt.Errorf("invalid REBOOKING_FEE: must not be negative")
	}

	cfg.NotifyQueueSize, err = getEnvAsInt("NOTIFY_QUEUE_SIZE", 100)
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFY_QUEUE_SIZE: %w", err)
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable if set,
// otherwise returns the provided default value.
func getEnv(key, defaultValue string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer.
// It returns the default value if the variable is not set.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultValue, nil
	}

	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("env %s value %q is not a valid integer: %w", key, valStr, err)
	}
	return val, nil
}

func getEnvAsDecimal(key, defaultValue string) (decimal.Decimal, error) {
	valStr := getEnv(key, defaultValue)
	val, err := decimal.NewFromString(valStr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("env %s value %q is not a valid number: %w", key, valStr, err)
	}
	return val, nil
}

// getEnvAsList splits a comma separated variable, dropping blanks.
func getEnvAsList(key string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
