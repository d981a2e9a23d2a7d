package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/outreachboard/client-reporting-backend/internal/logger"
)

// Config is read once at start-up from the environment (and .env when present).
type Config struct {
	Port  string
	Debug bool

	// Database
	DBDriver   string // postgres | sqlite
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	SQLitePath string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Date ranges
	RecentRangeStore  string // redis | database | memory
	DefaultTimezone   string
	MaximumRangeEpoch string

	// Reporting API
	ReportingAPIURL          string
	ReportingAPIToken        string
	ReportingCacheTTLSeconds int

	// Share links
	ShareLinkSecret  string
	ShareLinkBaseURL string

	// Admin
	AdminKeyHash string

	// Kafka
	KafkaBrokers []string
	KafkaTopic   string

	CORSOrigins []string
	// TrustedProxies may set the client IP through forwarding headers.
	// Empty trusts none.
	TrustedProxies []string
	LogDir         string
}

// Load reads environment variables and returns a Config object
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file, using environment variables")
	}

	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	ttl, err := strconv.Atoi(os.Getenv("REPORTING_CACHE_TTL_SECONDS"))
	if err != nil || ttl < 0 {
		ttl = 60
	}
	debug, _ := strconv.ParseBool(os.Getenv("DEBUG"))

	return &Config{
		Port:  getenv("PORT", "8080"),
		Debug: debug,

		DBDriver:   strings.ToLower(getenv("DB_DRIVER", "postgres")),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		SQLitePath: getenv("SQLITE_PATH", "reporting.db"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,

		RecentRangeStore:  strings.ToLower(getenv("RECENT_RANGE_STORE", "redis")),
		DefaultTimezone:   getenv("DEFAULT_TIMEZONE", "UTC"),
		MaximumRangeEpoch: os.Getenv("MAXIMUM_RANGE_EPOCH"),

		ReportingAPIURL:          strings.TrimRight(os.Getenv("REPORTING_API_URL"), "/"),
		ReportingAPIToken:        os.Getenv("REPORTING_API_TOKEN"),
		ReportingCacheTTLSeconds: ttl,

		ShareLinkSecret:  os.Getenv("SHARE_LINK_SECRET"),
		ShareLinkBaseURL: strings.TrimRight(getenv("SHARE_LINK_BASE_URL", "http://localhost:5173/share"), "/"),

		AdminKeyHash: os.Getenv("ADMIN_KEY_HASH"),

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getenv("KAFKA_TOPIC", "reporting.events"),

		CORSOrigins:    splitList(getenv("CORS_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")),
		TrustedProxies: splitList(os.Getenv("TRUSTED_PROXIES")),
		LogDir:         os.Getenv("LOG_DIR"),
	}
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
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
