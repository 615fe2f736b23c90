package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported record store backends.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request deadline applied by the router

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Access control
	BearerToken string   // shared secret, empty => open mode
	CORSOrigins []string // allowed Origin values, "*" => any
	HealthCIDRs []string // IPs/CIDRs allowed on the health probe, empty => everyone

	// Record store
	DBDriver         string        // sqlite | postgres | memory
	DBDSN            string        // file path for sqlite, URL for postgres
	DBConnectTimeout time.Duration // total time to retry the first connection
	DBRetryInterval  time.Duration // initial wait between retries (grows exponentially)
	DBMaxWait        time.Duration // cap on the wait between retries
	DBPingTimeout    time.Duration // timeout for each ping attempt

	DescriptionMax  int // max runes of the derived description
	DefaultPageSize int // limit used when the caller omits it

	// Redis read-through cache (optional, empty addr => disabled)
	RedisAddr     string
	RedisUser     string
	RedisPassword string
	RedisDB       int
	RedisDT       time.Duration // dial timeout
	RedisRT       time.Duration // read timeout
	RedisWT       time.Duration // write timeout
	RedisPoolSize int
	CacheTTL      time.Duration

	// Housekeeping
	HousekeepingSchedule string        // cron spec, ex: "@every 24h"
	Retention            time.Duration // 0 => never purge

	// Write rate limiting (0 burst => disabled)
	RateLimitBurst  int
	RateLimitPerMin int
	TrustProxy      bool // true => resolve client IP from proxy headers
}

func Load() *Config {
	// A local .env is optional; real environment variables always win.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] failed to read .env: %v", err)
	}

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("INBOX_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("INBOX_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("INBOX_REQUEST_TIMEOUT", 10*time.Second),

		// Logging
		LogLevel:  getenv("INBOX_LOG_LEVEL", "info"),
		PrettyLog: mustBool("INBOX_PRETTY_LOG", true),

		// Access control
		BearerToken: strings.TrimSpace(os.Getenv("INBOX_BEARER_TOKEN")),
		CORSOrigins: getenvSlice("INBOX_CORS_ORIGINS", []string{"*"}),
		HealthCIDRs: getenvSlice("INBOX_HEALTH_ALLOWED_CIDRS", nil),

		// Store
		DBDriver:         strings.ToLower(getenv("INBOX_DB_DRIVER", DriverSQLite)),
		DBDSN:            getenv("INBOX_DB_DSN", "inbox.db"),
		DBConnectTimeout: mustDuration("INBOX_DB_CONNECT_TIMEOUT", 30*time.Second),
		DBRetryInterval:  mustDuration("INBOX_DB_RETRY_INTERVAL", 2*time.Second),
		DBMaxWait:        mustDuration("INBOX_DB_MAX_WAIT", 10*time.Second),
		DBPingTimeout:    mustDuration("INBOX_DB_PING_TIMEOUT", 5*time.Second),

		DescriptionMax:  getenvInt("INBOX_DESCRIPTION_MAX", 200),
		DefaultPageSize: getenvInt("INBOX_DEFAULT_PAGE_SIZE", 20),

		// Redis cache
		RedisAddr:     getenv("INBOX_REDIS_ADDR", ""),
		RedisUser:     getenv("INBOX_REDIS_USERNAME", ""),
		RedisPassword: getenv("INBOX_REDIS_PASSWORD", ""),
		RedisDB:       getenvInt("INBOX_REDIS_DB", 0),
		RedisDT:       mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:       mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:       mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisPoolSize: getenvInt("REDIS_POOL_SIZE", 10),
		CacheTTL:      mustDuration("INBOX_CACHE_TTL", time.Hour),

		// Housekeeping
		HousekeepingSchedule: getenv("INBOX_HOUSEKEEPING_SCHEDULE", "@every 24h"),
		Retention:            mustDuration("INBOX_RETENTION", 0),

		// Rate limiting
		RateLimitBurst:  getenvInt("INBOX_RATE_LIMIT_BURST", 0),
		RateLimitPerMin: getenvInt("INBOX_RATE_LIMIT_PER_MIN", 60),
		TrustProxy:      mustBool("INBOX_TRUST_PROXY", false),
	}

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("❌ FATAL: %v", err))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		log.Printf("[DEBUG] cfg: %+v\n", cfg.Redacted())
	}

	return cfg
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unsupported INBOX_DB_DRIVER %q (want sqlite, postgres or memory)", c.DBDriver)
	}
	if c.DBDriver != DriverMemory && c.DBDSN == "" {
		return fmt.Errorf("INBOX_DB_DSN is required for driver %s", c.DBDriver)
	}
	if c.DescriptionMax < 1 {
		return fmt.Errorf("INBOX_DESCRIPTION_MAX must be > 0, got %d", c.DescriptionMax)
	}
	if c.DefaultPageSize < 1 || c.DefaultPageSize > 100 {
		return fmt.Errorf("INBOX_DEFAULT_PAGE_SIZE must be within [1,100], got %d", c.DefaultPageSize)
	}
	if c.Retention < 0 {
		return fmt.Errorf("INBOX_RETENTION must be >= 0, got %v", c.Retention)
	}
	return nil
}

// OpenMode reports whether requests are accepted without credentials.
func (c *Config) OpenMode() bool { return c.BearerToken == "" }

// Redacted returns a copy safe to print.
func (c *Config) Redacted() Config {
	cp := *c
	if cp.BearerToken != "" {
		cp.BearerToken = "***REDACTED***"
	}
	if cp.RedisPassword != "" {
		cp.RedisPassword = "***REDACTED***"
	}
	if cp.DBDriver == DriverPostgres {
		cp.DBDSN = "***REDACTED***"
	}
	return cp
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getenvSlice(key string, def []string) []string {
	if parts := splitAndTrim(os.Getenv(key)); len(parts) > 0 {
		return parts
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
