package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	usecasecontract "github.com/echomind/mindink/internal/usecase/contract"
)

// Store backends selectable with STORE_BACKEND.
const (
	BackendMemory    = "memory"
	BackendMongoDB   = "mongodb"
	BackendFirestore = "firestore"
)

// Config holds application configuration values.
type Config struct {
	Port                     string
	AppEnv                   string
	LogLevel                 string
	StoreBackend             string
	MongoURI                 string
	MongoDBName              string
	RedisURL                 string
	FirebaseCredentialsPath  string
	FirebaseProjectID        string
	JWTSecret                string
	AccessTokenExpiry        time.Duration
	LikeToggleMaxRetries     int
	LikeToggleInitialBackoff time.Duration
	LikeToggleMaxBackoff     time.Duration
	RateLimitPerSecond       float64
	CORSAllowedOrigins       []string
	FeedCacheTTL             time.Duration
	MetricsEnabled           bool
}

// NewConfig creates a new Config instance, loading values from environment variables.
func NewConfig() *Config {
	return &Config{
		Port:                     getEnv("PORT", "8080"),
		AppEnv:                   getEnv("APP_ENV", "development"),
		LogLevel:                 getEnv("LOG_LEVEL", "info"),
		StoreBackend:             strings.ToLower(getEnv("STORE_BACKEND", BackendMemory)),
		MongoURI:                 getEnv("MONGODB_URI", ""),
		MongoDBName:              getEnv("MONGODB_DB_NAME", "mindink"),
		RedisURL:                 getEnv("REDIS_URL", ""),
		FirebaseCredentialsPath:  getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		FirebaseProjectID:        getEnv("FIREBASE_PROJECT_ID", ""),
		JWTSecret:                getEnv("JWT_SECRET", ""),
		AccessTokenExpiry:        time.Minute * time.Duration(getEnvAsInt("ACCESS_TOKEN_EXPIRY_MINUTES", 60)),
		LikeToggleMaxRetries:     getEnvAsInt("LIKE_TOGGLE_MAX_RETRIES", 4),
		LikeToggleInitialBackoff: getEnvAsDuration("LIKE_TOGGLE_INITIAL_BACKOFF_MS", 50*time.Millisecond, time.Millisecond),
		LikeToggleMaxBackoff:     getEnvAsDuration("LIKE_TOGGLE_MAX_BACKOFF_MS", time.Second, time.Millisecond),
		RateLimitPerSecond:       getEnvAsFloat("RATE_LIMIT_PER_SECOND", 10),
		CORSAllowedOrigins:       getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		FeedCacheTTL:             getEnvAsDuration("FEED_CACHE_TTL_SECONDS", 5*time.Minute, time.Second),
		MetricsEnabled:           getEnvAsBool("METRICS_ENABLED", true),
	}
}

var _ usecasecontract.IConfigProvider = (*Config)(nil)

func (c *Config) GetAppEnv() string {
	return c.AppEnv
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GetAccessTokenExpiry returns the expiry duration for access tokens.
func (c *Config) GetAccessTokenExpiry() time.Duration {
	return c.AccessTokenExpiry
}

// GetLikeToggleMaxRetries returns how many times a conflicting toggle is retried.
func (c *Config) GetLikeToggleMaxRetries() int {
	return c.LikeToggleMaxRetries
}

func (c *Config) GetLikeToggleInitialBackoff() time.Duration {
	return c.LikeToggleInitialBackoff
}

func (c *Config) GetLikeToggleMaxBackoff() time.Duration {
	return c.LikeToggleMaxBackoff
}

// GetFeedCacheTTL returns how long feed pages stay cached.
func (c *Config) GetFeedCacheTTL() time.Duration {
	return c.FeedCacheTTL
}

// Helper function to get an environment variable or return a default value.
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// Helper function to get an environment variable as an integer or return a default value.
func getEnvAsInt(name string, fallback int) int {
	valueStr := getEnv(name, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(name string, fallback float64) float64 {
	valueStr := getEnv(name, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return fallback
}

// Helper function to get an environment variable as a boolean or return a default value.
func getEnvAsBool(name string, fallback bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}
	return fallback
}

// getEnvAsDuration reads an integer count of unit.
func getEnvAsDuration(name string, fallback, unit time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if value, err := strconv.Atoi(valueStr); err == nil && value >= 0 {
		return time.Duration(value) * unit
	}
	return fallback
}

func getEnvAsList(name string, fallback []string) []string {
	valueStr := strings.TrimSpace(getEnv(name, ""))
	if valueStr == "" {
		return fallback
	}
	var out []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
