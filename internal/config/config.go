package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig    `mapstructure:",squash"`
	Database  DatabaseConfig  `mapstructure:",squash"`
	Redis     RedisConfig     `mapstructure:",squash"`
	Scheduler SchedulerConfig `mapstructure:",squash"`
	Logging   LoggingConfig   `mapstructure:",squash"`
	Business  BusinessConfig  `mapstructure:",squash"`
	Gateway   GatewayConfig   `mapstructure:",squash"`
	Auth      AuthConfig      `mapstructure:",squash"`
	Email     EmailConfig     `mapstructure:",squash"`
	Rollbar   RollbarConfig   `mapstructure:",squash"`
	Health    HealthConfig    `mapstructure:",squash"`
}

type ServerConfig struct {
	Port         string        `mapstructure:"SERVER_PORT"`
	Host         string        `mapstructure:"SERVER_HOST"`
	Env          string        `mapstructure:"ENV"`
	Build        string        `mapstructure:"BUILD"`
	ReadTimeout  time.Duration `mapstructure:"SERVER_READ_TIMEOUT"`
	WriteTimeout time.Duration `mapstructure:"SERVER_WRITE_TIMEOUT"`
}

type DatabaseConfig struct {
	URL             string        `mapstructure:"DATABASE_URL"`
	Host            string        `mapstructure:"DATABASE_HOST"`
	Port            string        `mapstructure:"DATABASE_PORT"`
	Name            string        `mapstructure:"DATABASE_NAME"`
	User            string        `mapstructure:"DATABASE_USER"`
	Password        string        `mapstructure:"DATABASE_PASSWORD"`
	SSLMode         string        `mapstructure:"DATABASE_SSLMODE"`
	MaxOpenConns    int           `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `mapstructure:"DATABASE_CONN_MAX_LIFETIME"`
}

type RedisConfig struct {
	URL      string `mapstructure:"REDIS_URL"`
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type SchedulerConfig struct {
	BillingSpec  string `mapstructure:"SCHEDULER_BILLING_SPEC"`
	ReminderSpec string `mapstructure:"SCHEDULER_REMINDER_SPEC"`
	Timezone     string `mapstructure:"SCHEDULER_TIMEZONE"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

type BusinessConfig struct {
	Currency         string        `mapstructure:"CURRENCY"`
	DueDay           int           `mapstructure:"FEE_DUE_DAY"`
	StatementTTL     time.Duration `mapstructure:"STATEMENT_CACHE_TTL"`
	GenerationLock   time.Duration `mapstructure:"GENERATION_LOCK_TTL"`
	MaxCashPayment   string        `mapstructure:"MAX_CASH_PAYMENT"`
	RecentPaymentCap int           `mapstructure:"RECENT_PAYMENTS_LIMIT"`
}

type GatewayConfig struct {
	BaseURL   string        `mapstructure:"GATEWAY_BASE_URL"`
	KeyID     string        `mapstructure:"GATEWAY_KEY_ID"`
	KeySecret string        `mapstructure:"GATEWAY_KEY_SECRET"`
	Timeout   time.Duration `mapstructure:"GATEWAY_TIMEOUT"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"JWT_SECRET"`
	Issuer    string `mapstructure:"JWT_ISSUER"`
}

type EmailConfig struct {
	SendgridAPIKey string `mapstructure:"SENDGRID_API_KEY"`
	FromAddress    string `mapstructure:"EMAIL_FROM_ADDRESS"`
	FromName       string `mapstructure:"EMAIL_FROM_NAME"`
}

type RollbarConfig struct {
	Token string `mapstructure:"ROLLBAR_TOKEN"`
}

type HealthConfig struct {
	Timeout string `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Read from environment variables
	v.AutomaticEnv()

	// Try to read from .env file (optional)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = v.ReadInConfig()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// AutomaticEnv only resolves keys viper already knows about, so every key
// gets a default here, even when empty.
func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("ENV", "development")
	v.SetDefault("BUILD", "dev")
	v.SetDefault("SERVER_READ_TIMEOUT", "15s")
	v.SetDefault("SERVER_WRITE_TIMEOUT", "15s")

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DATABASE_HOST", "localhost")
	v.SetDefault("DATABASE_PORT", "5432")
	v.SetDefault("DATABASE_NAME", "fee_ledger")
	v.SetDefault("DATABASE_USER", "postgres")
	v.SetDefault("DATABASE_PASSWORD", "")
	v.SetDefault("DATABASE_SSLMODE", "disable")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	v.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	v.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")

	v.SetDefault("REDIS_URL", "")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	// 06:00 on the first day of every month, then daily at 09:00
	v.SetDefault("SCHEDULER_BILLING_SPEC", "0 0 6 1 * *")
	v.SetDefault("SCHEDULER_REMINDER_SPEC", "0 0 9 * * *")
	v.SetDefault("SCHEDULER_TIMEZONE", "Asia/Kolkata")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CURRENCY", "INR")
	v.SetDefault("FEE_DUE_DAY", 20)
	v.SetDefault("STATEMENT_CACHE_TTL", "5m")
	v.SetDefault("GENERATION_LOCK_TTL", "2m")
	v.SetDefault("MAX_CASH_PAYMENT", "1000000")
	v.SetDefault("RECENT_PAYMENTS_LIMIT", 50)

	v.SetDefault("GATEWAY_BASE_URL", "https://api.razorpay.com/v1")
	v.SetDefault("GATEWAY_KEY_ID", "")
	v.SetDefault("GATEWAY_KEY_SECRET", "")
	v.SetDefault("GATEWAY_TIMEOUT", "10s")

	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "")

	v.SetDefault("SENDGRID_API_KEY", "")
	v.SetDefault("EMAIL_FROM_ADDRESS", "no-reply@school.local")
	v.SetDefault("EMAIL_FROM_NAME", "School Accounts")

	v.SetDefault("ROLLBAR_TOKEN", "")

	v.SetDefault("HEALTH_CHECK_TIMEOUT", "5s")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" && c.Database.Host == "" {
		return fmt.Errorf("DATABASE_URL or DATABASE_HOST is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	// callback signatures are keyed on it; an empty key verifies forgeries
	if c.Gateway.KeySecret == "" {
		return fmt.Errorf("GATEWAY_KEY_SECRET is required")
	}

	if len(c.Business.Currency) != 3 {
		return fmt.Errorf("CURRENCY must be an ISO 4217 code")
	}

	if c.Business.DueDay < 1 || c.Business.DueDay > 28 {
		return fmt.Errorf("FEE_DUE_DAY must be between 1 and 28")
	}

	if c.Business.StatementTTL <= 0 {
		return fmt.Errorf("STATEMENT_CACHE_TTL must be greater than 0")
	}

	if c.Business.RecentPaymentCap <= 0 {
		return fmt.Errorf("RECENT_PAYMENTS_LIMIT must be greater than 0")
	}

	maxCash, err := decimal.NewFromString(c.Business.MaxCashPayment)
	if err != nil {
		return fmt.Errorf("MAX_CASH_PAYMENT must be a valid decimal: %w", err)
	}
	if !maxCash.IsPositive() {
		return fmt.Errorf("MAX_CASH_PAYMENT must be greater than 0")
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("SCHEDULER_TIMEZONE must be a valid IANA zone: %w", err)
	}

	// Validate health check timeout
	if _, err := time.ParseDuration(c.Health.Timeout); err != nil {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be a valid duration: %w", err)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or text")
	}

	return nil
}

// DSN returns the postgres connection string, preferring DATABASE_URL
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}

// Addr returns host:port for the redis client
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// GetLocation returns the school time zone used for billing periods
func (c *Config) GetLocation() *time.Location {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetMaxCashPayment returns the per-entry cash ceiling in whole units
func (c *Config) GetMaxCashPayment() decimal.Decimal {
	amount, _ := decimal.NewFromString(c.Business.MaxCashPayment)
	return amount
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Health.Timeout)
	return timeout
}
