package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Escalation   EscalationConfig
	Notification NotificationConfig
	Telemetry    TelemetryConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	CORSOrigins           string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	RunMigrations   bool
	ConnMaxIdleSec  int32
	ConnMaxLifeSec  int32
	ConnectRetrySec int
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr            string
	Password        string
	DB              int
	StatsTTLSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
}

// EscalationConfig drives the eligibility sweeper.
type EscalationConfig struct {
	StaleAfterDays       int
	SweepIntervalMinutes int
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// TelemetryConfig toggles metric export.
type TelemetryConfig struct {
	MetricsStdout         bool
	ExportIntervalSeconds int
}

var defaults = map[string]any{
	"APP_NAME":                       "grievance-service",
	"APP_ENV":                        "development",
	"APP_HOST":                       "0.0.0.0",
	"APP_PORT":                       "8080",
	"APP_VERSION":                    "dev",
	"HTTP_REQUEST_TIMEOUT_SECONDS":   30,
	"HTTP_CORS_ORIGINS":              "*",
	"POSTGRES_DSN":                   "",
	"POSTGRES_MAX_CONNS":             10,
	"POSTGRES_MIN_CONNS":             2,
	"POSTGRES_RUN_MIGRATIONS":        true,
	"POSTGRES_CONN_MAX_IDLE_SECONDS": 30,
	"POSTGRES_CONN_MAX_LIFE_SECONDS": 300,
	"POSTGRES_CONNECT_RETRY_SECONDS": 30,
	"REDIS_ADDR":                     "127.0.0.1:6379",
	"REDIS_PASSWORD":                 "",
	"REDIS_DB":                       0,
	"REDIS_STATS_TTL_SECONDS":        60,
	"LOG_LEVEL":                      "info",
	"AUTH_JWT_SECRET":                "dev-secret",
	"AUTH_ACCESS_TOKEN_TTL_MINUTES":  60,
	"AUTH_BCRYPT_COST":               12,
	"ESCALATION_STALE_DAYS":          7,
	"ESCALATION_SWEEP_MINUTES":       60,
	"NOTIFY_EMAIL_FROM":              "noreply@example.com",
	"NOTIFY_WEBHOOK_URL":             "",
	"OTEL_METRICS_STDOUT":            false,
	"OTEL_METRICS_INTERVAL_SECONDS":  30,
}

// Load reads configuration from the environment (and an optional .env file),
// applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.AutomaticEnv()

	cfg := FromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Name:                  v.GetString("APP_NAME"),
			Env:                   v.GetString("APP_ENV"),
			Host:                  v.GetString("APP_HOST"),
			Port:                  v.GetString("APP_PORT"),
			Version:               v.GetString("APP_VERSION"),
			RequestTimeoutSeconds: v.GetInt("HTTP_REQUEST_TIMEOUT_SECONDS"),
			CORSOrigins:           v.GetString("HTTP_CORS_ORIGINS"),
		},
		Postgres: PostgresConfig{
			DSN:             v.GetString("POSTGRES_DSN"),
			MaxConns:        v.GetInt32("POSTGRES_MAX_CONNS"),
			MinConns:        v.GetInt32("POSTGRES_MIN_CONNS"),
			RunMigrations:   v.GetBool("POSTGRES_RUN_MIGRATIONS"),
			ConnMaxIdleSec:  v.GetInt32("POSTGRES_CONN_MAX_IDLE_SECONDS"),
			ConnMaxLifeSec:  v.GetInt32("POSTGRES_CONN_MAX_LIFE_SECONDS"),
			ConnectRetrySec: v.GetInt("POSTGRES_CONNECT_RETRY_SECONDS"),
		},
		Redis: RedisConfig{
			Addr:            v.GetString("REDIS_ADDR"),
			Password:        v.GetString("REDIS_PASSWORD"),
			DB:              v.GetInt("REDIS_DB"),
			StatsTTLSeconds: v.GetInt("REDIS_STATS_TTL_SECONDS"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Auth: AuthConfig{
			JWTSecret:             v.GetString("AUTH_JWT_SECRET"),
			AccessTokenTTLMinutes: v.GetInt("AUTH_ACCESS_TOKEN_TTL_MINUTES"),
			BcryptCost:            v.GetInt("AUTH_BCRYPT_COST"),
		},
		Escalation: EscalationConfig{
			StaleAfterDays:       v.GetInt("ESCALATION_STALE_DAYS"),
			SweepIntervalMinutes: v.GetInt("ESCALATION_SWEEP_MINUTES"),
		},
		Notification: NotificationConfig{
			EmailFrom:  v.GetString("NOTIFY_EMAIL_FROM"),
			WebhookURL: v.GetString("NOTIFY_WEBHOOK_URL"),
		},
		Telemetry: TelemetryConfig{
			MetricsStdout:         v.GetBool("OTEL_METRICS_STDOUT"),
			ExportIntervalSeconds: v.GetInt("OTEL_METRICS_INTERVAL_SECONDS"),
		},
	}
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET must not be empty")
	}
	if c.App.Env == "production" && c.Auth.JWTSecret == "dev-secret" {
		return fmt.Errorf("AUTH_JWT_SECRET must be set in production")
	}
	if c.Escalation.StaleAfterDays < 0 {
		return fmt.Errorf("ESCALATION_STALE_DAYS must not be negative")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// StaleAfter is how long a grievance may sit unchanged before it becomes
// eligible for escalation.
func (e EscalationConfig) StaleAfter() time.Duration {
	return time.Duration(e.StaleAfterDays) * 24 * time.Hour
}

// SweepInterval is the period of the eligibility sweeper.
func (e EscalationConfig) SweepInterval() time.Duration {
	if e.SweepIntervalMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(e.SweepIntervalMinutes) * time.Minute
}

// StatsTTL is how long dashboard aggregates stay cached.
func (r RedisConfig) StatsTTL() time.Duration {
	if r.StatsTTLSeconds <= 0 {
		return 0
	}
	return time.Duration(r.StatsTTLSeconds) * time.Second
}
