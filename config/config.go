package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Backend selects the order/store repository: memory, mongo or postgres.
	Backend       string
	MongoURI      string
	MongoDatabase string
	DatabaseURL   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// CartBackend is memory, file or redis.
	CartBackend string
	CartDir     string
	CartTTL     time.Duration

	// QueueBackend is memory or redis.
	QueueBackend   string
	QueueSize      int
	NotifyWorkers  int
	NotifyAttempts uint
	NotifyTimeout  time.Duration

	SMTPHost  string
	SMTPPort  int
	SMTPUser  string
	SMTPPass  string
	EmailFrom string

	JWTSecret   string
	TokenTTL    time.Duration
	AdminAPIKey string

	RateLimitRPS   float64
	RateLimitBurst int

	MaxOrderBytes int64

	AllowOrigins []string
}

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to read .env file", "error", err)
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Backend:       strings.ToLower(getEnv("STORE_BACKEND", "memory")),
		MongoURI:      getEnv("MONGODB_URI", ""),
		MongoDatabase: getEnv("MONGODB_DB", "myDBClass"),
		DatabaseURL:   postgresDSN(),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		CartBackend:   strings.ToLower(getEnv("CART_BACKEND", "memory")),
		CartDir:       getEnv("CART_DIR", "./data/carts"),
		QueueBackend:  strings.ToLower(getEnv("QUEUE_BACKEND", "memory")),
		SMTPHost:      getEnv("SMTP_HOST", ""),
		SMTPUser:      getEnv("SMTP_USER", ""),
		SMTPPass:      getEnv("SMTP_PASS", ""),
		EmailFrom:     getEnv("EMAIL_USER", ""),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		AdminAPIKey:   getEnv("ADMIN_API_KEY", os.Getenv("COST_API_KEY")),
		AllowOrigins:  splitList(getEnv("CORS_ORIGINS", "*")),
	}

	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.SMTPPort, err = getInt("SMTP_PORT", 587); err != nil {
		return nil, err
	}
	if cfg.QueueSize, err = getInt("NOTIFY_QUEUE_SIZE", 256); err != nil {
		return nil, err
	}
	if cfg.NotifyWorkers, err = getInt("NOTIFY_WORKERS", 1); err != nil {
		return nil, err
	}
	attempts, err := getInt("NOTIFY_MAX_ATTEMPTS", 5)
	if err != nil {
		return nil, err
	}
	if attempts < 1 {
		return nil, fmt.Errorf("NOTIFY_MAX_ATTEMPTS must be positive, got %d", attempts)
	}
	cfg.NotifyAttempts = uint(attempts)
	if cfg.NotifyTimeout, err = getDuration("NOTIFY_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.CartTTL, err = getDuration("CART_TTL", 30*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.TokenTTL, err = getDuration("TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = getFloat("RATE_LIMIT_RPS", 1); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", 5); err != nil {
		return nil, err
	}
	maxOrder, err := getInt("MAX_ORDER_BYTES", 10<<20)
	if err != nil {
		return nil, err
	}
	cfg.MaxOrderBytes = int64(maxOrder)

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		slog.Error("Invalid PORT environment variable. Falling back to default.", "PORT", cfg.Port)
		cfg.Port = "8080"
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		slog.Warn("JWT_SECRET not set. Vendor tokens cannot be issued or verified. PLEASE SET JWT_SECRET IN PRODUCTION!")
	}
	if cfg.AdminAPIKey == "" {
		slog.Warn("ADMIN_API_KEY not set. Admin routes will reject every request.")
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Backend {
	case "memory":
	case "mongo":
		if c.MongoURI == "" {
			return fmt.Errorf("STORE_BACKEND=mongo requires MONGODB_URI")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("STORE_BACKEND=postgres requires DATABASE_URL or DB_HOST")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Backend)
	}

	switch c.CartBackend {
	case "memory", "file":
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("CART_BACKEND=redis requires REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown CART_BACKEND %q", c.CartBackend)
	}

	switch c.QueueBackend {
	case "memory":
	case "redis":
		if c.RedisAddr == "" {
			return fmt.Errorf("QUEUE_BACKEND=redis requires REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown QUEUE_BACKEND %q", c.QueueBackend)
	}
	return nil
}

// SMTPEnabled reports whether real email delivery is configured.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.EmailFrom != ""
}

// postgresDSN prefers DATABASE_URL and falls back to the DB_* variables.
func postgresDSN() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}
	host := os.Getenv("DB_HOST")
	if host == "" {
		return ""
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_NAME"), getEnv("DB_PORT", "5432"),
	)
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, defaultValue float64) (float64, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
