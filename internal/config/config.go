package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App struct {
		ENV         string
		Name        string
		SeedOnStart bool
	}

	Log struct {
		Level     string
		Format    string
		Component string
		Source    bool
	}

	DB struct {
		Driver   string
		DSN      string
		Host     string
		Port     string
		User     string
		Password string
		Name     string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	HTTP struct {
		Host           string
		Port           string
		MaxBodyBytes   int64
		AllowedOrigins []string
	}

	GRPC struct {
		Host string
		Port string
	}

	Auth struct {
		JWTSecret             string
		TokenTTL              time.Duration
		SkipProofVerification bool
	}

	World struct {
		AppID  string
		Action string
		APIURL string
		APIKey string
	}

	Quota struct {
		FreeConnections   int
		SubscriptionPrice string
		SubscriptionDays  int
	}

	Payment struct {
		Verifier string
	}
}

func New() *Config {
	cfg := &Config{}

	// App
	cfg.App.ENV = getEnvDefault("APP_ENV", "development")
	cfg.App.Name = getEnvDefault("APP_NAME", "Elite Connect API")
	// seeding wipes every table, so it is opt-in
	cfg.App.SeedOnStart = isTruthy(os.Getenv("SEED_ON_START"))

	// Logger
	cfg.Log.Level = getEnvDefault("LOG_LEVEL", "info")
	cfg.Log.Format = getEnvDefault("LOG_FORMAT", "text")
	cfg.Log.Component = getEnvDefault("LOG_COMPONENT", "api")
	cfg.Log.Source = isTruthy(os.Getenv("LOG_SOURCE"))

	// Database
	cfg.DB.Driver = strings.ToLower(getEnvDefault("DB_DRIVER", "mysql"))
	cfg.DB.DSN = getEnvDefault("DATABASE_DSN", os.Getenv("MYSQL_DSN"))
	if cfg.DB.DSN == "" {
		cfg.DB.Host = getEnvDefault("DB_HOST", "localhost")
		cfg.DB.User = getEnvDefault("DB_USER", "root")
		cfg.DB.Password = getEnvDefault("DB_PASSWORD", "root")
		cfg.DB.Name = getEnvDefault("DB_NAME", "elite_connect")

		switch cfg.DB.Driver {
		case "postgres":
			cfg.DB.Port = getEnvDefault("DB_PORT", "5432")
			cfg.DB.DSN = fmt.Sprintf(
				"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
				cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name,
			)
		case "sqlite":
			cfg.DB.DSN = cfg.DB.Name + ".db"
		default:
			cfg.DB.Port = getEnvDefault("DB_PORT", "3306")
			cfg.DB.DSN = fmt.Sprintf(
				"%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
				cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name,
			)
		}
	}

	// Redis
	cfg.Redis.Addr = getEnvDefault("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnvDefault("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	// HTTP
	cfg.HTTP.Host = getEnvDefault("HTTP_HOST", "0.0.0.0")
	cfg.HTTP.Port = getEnvDefault("PORT", "5001")
	cfg.HTTP.MaxBodyBytes = int64(getEnvInt("HTTP_MAX_BODY_BYTES", 10<<20))
	cfg.HTTP.AllowedOrigins = splitList(getEnvDefault("CORS_ALLOWED_ORIGINS", "*"))

	// gRPC health endpoint
	cfg.GRPC.Host = getEnvDefault("GRPC_HOST", "127.0.0.1")
	cfg.GRPC.Port = getEnvDefault("GRPC_PORT", "50051")

	// Auth
	cfg.Auth.JWTSecret = os.Getenv("JWT_SECRET")
	cfg.Auth.TokenTTL = time.Duration(getEnvInt("JWT_TTL_HOURS", 168)) * time.Hour
	cfg.Auth.SkipProofVerification = isTruthy(os.Getenv("AUTH_SKIP_PROOF_VERIFICATION"))

	// World App
	cfg.World.AppID = getEnvDefault("WORLD_APP_ID", "")
	cfg.World.Action = getEnvDefault("WORLD_ACTION", "login")
	cfg.World.APIURL = strings.TrimRight(getEnvDefault("WORLD_API_URL", "https://developer.worldcoin.org"), "/")
	cfg.World.APIKey = getEnvDefault("WORLD_API_KEY", "")

	// Connection quota and subscription pricing
	cfg.Quota.FreeConnections = getEnvInt("FREE_CONNECTIONS", 2)
	cfg.Quota.SubscriptionPrice = getEnvDefault("MONTHLY_UNLIMITED_WLD", "5")
	cfg.Quota.SubscriptionDays = getEnvInt("MONTHLY_UNLIMITED_DAYS", 30)

	cfg.Payment.Verifier = strings.ToLower(getEnvDefault("PAYMENT_VERIFIER", "stub"))

	return cfg
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		if c.App.ENV != "development" {
			return fmt.Errorf("JWT_SECRET is required")
		}
		c.Auth.JWTSecret = "development-secret"
	}
	switch c.DB.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	switch c.Payment.Verifier {
	case "stub", "worldcoin":
	default:
		return fmt.Errorf("unsupported PAYMENT_VERIFIER %q", c.Payment.Verifier)
	}
	if c.Auth.SkipProofVerification && c.App.ENV != "development" {
		return fmt.Errorf("AUTH_SKIP_PROOF_VERIFICATION is only allowed in development")
	}
	if c.App.SeedOnStart && c.App.ENV != "development" {
		return fmt.Errorf("SEED_ON_START is only allowed in development")
	}
	if c.Quota.FreeConnections < 0 || c.Quota.SubscriptionDays <= 0 {
		return fmt.Errorf("invalid quota settings")
	}
	return nil
}

// SubscriptionDuration is the entitlement granted by one verified payment.
func (c *Config) SubscriptionDuration() time.Duration {
	return time.Duration(c.Quota.SubscriptionDays) * 24 * time.Hour
}

// LoadDotEnv loads variables from path into the process environment.
// A missing file is not an error; variables already set win.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func getEnvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	if n, err := strconv.Atoi(getEnvDefault(k, "")); err == nil {
		return n
	}
	return def
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
