package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string
	Port   string

	DBDriver   string // "sqlite" | "postgres"
	DBPath     string
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	GeminiAPIKey      string
	GeminiBaseURL     string
	GeminiModel       string
	GeminiPlacesModel string

	SessionSecret string

	S3Bucket      string
	S3Region      string
	CloudFrontURL string

	PaymentDelay   time.Duration
	FreeDailyScans int
	DefaultLang    string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// a missing .env is fine, real deployments set the environment directly
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:            getenv("APP_ENV", "production"),
		Port:              getenv("PORT", "8080"),
		DBDriver:          strings.ToLower(getenv("DB_DRIVER", "sqlite")),
		DBPath:            getenv("DB_PATH", "nutriai.db"),
		DBHost:            os.Getenv("DB_HOST"),
		DBUser:            os.Getenv("DB_USER"),
		DBPassword:        os.Getenv("DB_PASSWORD"),
		DBName:            os.Getenv("DB_NAME"),
		DBPort:            getenv("DB_PORT", "5432"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiBaseURL:     os.Getenv("GEMINI_BASE_URL"),
		GeminiModel:       getenv("GEMINI_MODEL", "gemini-3-flash-preview"),
		GeminiPlacesModel: getenv("GEMINI_PLACES_MODEL", "gemini-2.5-flash"),
		SessionSecret:     os.Getenv("SESSION_SECRET"),
		S3Bucket:          os.Getenv("S3_BUCKET"),
		S3Region:          getenv("S3_REGION", os.Getenv("AWS_REGION")),
		CloudFrontURL:     os.Getenv("CLOUDFRONT_URL"),
		DefaultLang:       getenv("DEFAULT_LANG", "en"),
	}
	if cfg.GeminiAPIKey == "" {
		// legacy variable name
		cfg.GeminiAPIKey = os.Getenv("API_KEY")
	}

	var err error
	if cfg.PaymentDelay, err = time.ParseDuration(getenv("PAYMENT_DELAY", "2s")); err != nil {
		return nil, fmt.Errorf("PAYMENT_DELAY: %w", err)
	}
	if cfg.FreeDailyScans, err = strconv.Atoi(getenv("FREE_DAILY_SCANS", "3")); err != nil {
		return nil, fmt.Errorf("FREE_DAILY_SCANS: %w", err)
	}
	if cfg.FreeDailyScans < 0 {
		return nil, fmt.Errorf("FREE_DAILY_SCANS must not be negative")
	}

	switch cfg.DBDriver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// PostgresDSN builds the keyword/value DSN from the DB_* variables.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost,
		c.DBUser,
		c.DBPassword,
		c.DBName,
		c.DBPort,
	)
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}
