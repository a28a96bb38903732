package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App        AppConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Logger     LoggerConfig
	Security   SecurityConfig
	RateLimit  RateLimitConfig
	Validation ValidationConfig
	SMTP       SMTPConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// SecurityConfig defines password hashing and verification token parameters.
type SecurityConfig struct {
	BcryptCost                int
	VerificationTokenSecret   string
	VerificationTokenTTLHours int
}

// RateLimitConfig controls registration attempt throttling.
type RateLimitConfig struct {
	Requests      int
	WindowSeconds int
	UseRedis      bool
}

// ValidationConfig carries the fixed enumerations used by field validators.
type ValidationConfig struct {
	Specializations        []string
	DisposableEmailDomains []string
	DefaultPhoneRegion     string
}

// SMTPConfig holds verification email delivery settings. An empty Host
// disables real delivery and falls back to the logging mailer.
type SMTPConfig struct {
	Host            string
	Port            int
	Username        string
	Password        string
	FromEmail       string
	VerificationURL string
}

var defaultSpecializations = []string{
	"Cardiology",
	"Neurology",
	"Orthopedics",
	"Pediatrics",
	"Dermatology",
	"Psychiatry",
	"Radiology",
	"Anesthesiology",
	"Emergency Medicine",
	"Internal Medicine",
	"Surgery",
	"Obstetrics and Gynecology",
}

var defaultDisposableDomains = []string{
	"10minutemail.com",
	"tempmail.org",
	"guerrillamail.com",
	"mailinator.com",
	"throwaway.email",
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "provider-registration-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Security: SecurityConfig{
			BcryptCost:                getEnvAsInt("SECURITY_BCRYPT_COST", 12),
			VerificationTokenSecret:   getEnv("SECURITY_VERIFICATION_TOKEN_SECRET", "dev-secret"),
			VerificationTokenTTLHours: getEnvAsInt("SECURITY_VERIFICATION_TOKEN_TTL_HOURS", 24),
		},
		RateLimit: RateLimitConfig{
			Requests:      getEnvAsInt("RATE_LIMIT_REQUESTS", 5),
			WindowSeconds: getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 3600),
			UseRedis:      getEnvAsBool("RATE_LIMIT_USE_REDIS", false),
		},
		Validation: ValidationConfig{
			Specializations:        getEnvAsList("VALIDATION_SPECIALIZATIONS", defaultSpecializations),
			DisposableEmailDomains: getEnvAsList("VALIDATION_DISPOSABLE_EMAIL_DOMAINS", defaultDisposableDomains),
			DefaultPhoneRegion:     getEnv("VALIDATION_DEFAULT_PHONE_REGION", ""),
		},
		SMTP: SMTPConfig{
			Host:            os.Getenv("SMTP_HOST"),
			Port:            getEnvAsInt("SMTP_PORT", 587),
			Username:        os.Getenv("SMTP_USERNAME"),
			Password:        os.Getenv("SMTP_PASSWORD"),
			FromEmail:       getEnv("SMTP_FROM_EMAIL", "noreply@example.com"),
			VerificationURL: getEnv("SMTP_VERIFICATION_URL", "http://localhost:8080/api/v1/providers/verify"),
		},
	}

	return cfg, nil
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

// Window returns the rate limit window as a duration.
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowSeconds) * time.Second
}

// VerificationTokenTTL returns the verification token lifetime.
func (s SecurityConfig) VerificationTokenTTL() time.Duration {
	return time.Duration(s.VerificationTokenTTLHours) * time.Hour
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
