package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Gemini   GeminiConfig
	Weaviate WeaviateConfig
	SMTP     SMTPConfig
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

// AuthConfig defines staff dashboard authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	DashboardUser         string
	DashboardPasswordHash string
}

// GeminiConfig holds generative oracle settings.
type GeminiConfig struct {
	APIKey         string
	GenerateModel  string
	EmbedModel     string
	TimeoutSeconds int
}

// WeaviateConfig holds vector index connection values.
type WeaviateConfig struct {
	Host      string
	Scheme    string
	APIKey    string
	ClassName string
}

// SMTPConfig holds outbound email settings. Empty sender or support-team
// address is a valid state; notification then short-circuits to failure.
type SMTPConfig struct {
	Host               string
	Port               int
	SenderEmail        string
	SenderPassword     string
	SupportTeamEmail   string
	DialTimeoutSeconds int
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
			Name:                  getEnv("APP_NAME", "support-router"),
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
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			DashboardUser:         getEnv("AUTH_DASHBOARD_USER", "support"),
			DashboardPasswordHash: os.Getenv("AUTH_DASHBOARD_PASSWORD_HASH"),
		},
		Gemini: GeminiConfig{
			APIKey:         os.Getenv("GOOGLE_API_KEY"),
			GenerateModel:  getEnv("GEMINI_GENERATE_MODEL", "gemini-1.5-pro"),
			EmbedModel:     getEnv("GEMINI_EMBED_MODEL", "text-embedding-004"),
			TimeoutSeconds: getEnvAsInt("GEMINI_TIMEOUT_SECONDS", 15),
		},
		Weaviate: WeaviateConfig{
			Host:      getEnv("WEAVIATE_HOST", "127.0.0.1:8081"),
			Scheme:    getEnv("WEAVIATE_SCHEME", "http"),
			APIKey:    os.Getenv("WEAVIATE_API_KEY"),
			ClassName: getEnv("WEAVIATE_CLASS_NAME", "SupportPhrase"),
		},
		SMTP: SMTPConfig{
			Host:               getEnv("SMTP_SERVER", "smtp.gmail.com"),
			Port:               getEnvAsInt("SMTP_PORT", 587),
			SenderEmail:        os.Getenv("SUPPORT_EMAIL"),
			SenderPassword:     os.Getenv("SUPPORT_EMAIL_PASSWORD"),
			SupportTeamEmail:   os.Getenv("SUPPORT_TEAM_EMAIL"),
			DialTimeoutSeconds: getEnvAsInt("SMTP_DIAL_TIMEOUT_SECONDS", 10),
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

// Timeout returns the oracle call timeout.
func (g GeminiConfig) Timeout() time.Duration {
	if g.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// DialTimeout returns the SMTP dial timeout.
func (s SMTPConfig) DialTimeout() time.Duration {
	if s.DialTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.DialTimeoutSeconds) * time.Second
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
