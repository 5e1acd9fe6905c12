package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	USDA      USDAConfig      `mapstructure:"usda"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Store     StoreConfig     `mapstructure:"store"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Goals     GoalsConfig     `mapstructure:"goals"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// USDAConfig holds USDA API configuration
type USDAConfig struct {
	APIKey        string        `mapstructure:"api_key"`
	BaseURL       string        `mapstructure:"base_url"`
	PageSize      int           `mapstructure:"page_size"`
	DetailTimeout time.Duration `mapstructure:"detail_timeout"`
	Debug         bool          `mapstructure:"debug"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// StoreConfig holds the location of the local database
type StoreConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute per client
	Burst int `mapstructure:"burst"`
	USDA  int `mapstructure:"usda"` // upstream requests per hour
}

// GoalsConfig holds the default daily goals used until the user saves their own
type GoalsConfig struct {
	Protein  float64 `mapstructure:"protein"`
	Fat      float64 `mapstructure:"fat"`
	Carbs    float64 `mapstructure:"carbs"`
	Fiber    float64 `mapstructure:"fiber"`
	Sugar    float64 `mapstructure:"sugar"`
	Calories float64 `mapstructure:"calories"`
}

// LogConfig selects the logger flavour
type LogConfig struct {
	Mode string `mapstructure:"mode"` // "development" or "production"
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/foodlog/")

	// Environment variable settings: usda.api_key <- FOODLOG_USDA_API_KEY
	v.SetEnvPrefix("FOODLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads ./.env when present. Existing variables win.
func loadEnvFile() error {
	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// setDefaults sets default configuration values.
// Every key gets a default so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})
	v.SetDefault("server.shutdown_timeout", "10s")

	// USDA defaults
	v.SetDefault("usda.api_key", "")
	v.SetDefault("usda.base_url", "https://api.nal.usda.gov/fdc")
	v.SetDefault("usda.page_size", 10)
	v.SetDefault("usda.detail_timeout", "8s")
	v.SetDefault("usda.debug", false)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "24h")

	// Store defaults
	v.SetDefault("store.data_dir", "./data")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.burst", 20)
	v.SetDefault("ratelimit.usda", 1000)

	// Default daily goals
	v.SetDefault("goals.protein", 233)
	v.SetDefault("goals.fat", 110)
	v.SetDefault("goals.carbs", 75)
	v.SetDefault("goals.fiber", 30)
	v.SetDefault("goals.sugar", 50)
	v.SetDefault("goals.calories", 2222)

	v.SetDefault("log.mode", "development")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.USDA.APIKey == "" {
		return fmt.Errorf("USDA API key is required (set FOODLOG_USDA_API_KEY)")
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("redis URL is required when cache type is 'redis'")
	}

	if config.USDA.PageSize < 1 || config.USDA.PageSize > 200 {
		return fmt.Errorf("USDA page size must be between 1 and 200, got: %d", config.USDA.PageSize)
	}

	if config.Store.DataDir == "" {
		return fmt.Errorf("store data directory is required")
	}

	return nil
}
