package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Backend   BackendConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Auth      AuthConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// BackendConfig points at the external RAG/bot backend the proxy forwards to.
type BackendConfig struct {
	BaseURL  string
	MockMode bool
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

// CacheConfig controls the query cache defaults: staleness and
// garbage-collection windows plus the persistence buster token.
type CacheConfig struct {
	StaleTime time.Duration
	GCTime    time.Duration
	Buster    string
}

type AuthConfig struct {
	// JWTSecret enables Bearer verification on the admin surface when set.
	JWTSecret string
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5001")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("MOCK_MODE", true)
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("RATE_LIMIT_RPS", 20.0)
	viper.SetDefault("RATE_LIMIT_BURST", 40)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	viper.SetDefault("CACHE_STALE_MINUTES", 30)
	viper.SetDefault("CACHE_GC_HOURS", 24)
	viper.SetDefault("CACHE_BUSTER", "v1")

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Backend: BackendConfig{
			BaseURL:  backendBaseURL(),
			MockMode: viper.GetBool("MOCK_MODE"),
		},
		MongoDB: MongoDBConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       0,
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Cache: CacheConfig{
			StaleTime: time.Duration(viper.GetInt("CACHE_STALE_MINUTES")) * time.Minute,
			GCTime:    time.Duration(viper.GetInt("CACHE_GC_HOURS")) * time.Hour,
			Buster:    viper.GetString("CACHE_BUSTER"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("PANEL_JWT_SECRET"),
		},
	}

	if cfg.Auth.JWTSecret == "" {
		log.Println("WARNING: PANEL_JWT_SECRET is not set; admin routes are unauthenticated")
	}

	return cfg, nil
}

// backendBaseURL resolves the backend URL from the interchangeable variable
// names deployments have used, falling back to the local default.
func backendBaseURL() string {
	for _, key := range []string{"BACKEND_API_URL", "RAG_BACKEND_URL"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return "http://localhost:8000"
}
