package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ratelshop/backend/internal/logging"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig   `mapstructure:"server"`
	Search  SearchConfig   `mapstructure:"search"`
	Gemini  GeminiConfig   `mapstructure:"gemini"`
	Cache   CacheConfig    `mapstructure:"cache"`
	Pricing PricingConfig  `mapstructure:"pricing"`
	Logging logging.Config `mapstructure:"logging"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SearchConfig holds web search provider configuration. APIKey and EngineID
// are intentionally optional: when either is missing the price engine runs in
// simulation mode instead of failing startup.
type SearchConfig struct {
	APIKey   string        `mapstructure:"api_key"`
	EngineID string        `mapstructure:"engine_id"`
	BaseURL  string        `mapstructure:"base_url"`
	Country  string        `mapstructure:"country"` // geolocation hint, e.g. "ng"
	Timeout  time.Duration `mapstructure:"timeout"`
}

// GeminiConfig holds generative-AI configuration. An empty APIKey disables
// the copywriting and assistant endpoints (they return 503).
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// PricingConfig holds price-analysis tuning values
type PricingConfig struct {
	Region        string  `mapstructure:"region"`         // appended to search queries
	MinPlausible  float64 `mapstructure:"min_plausible"`  // extracted amounts below are discarded
	MaxPlausible  float64 `mapstructure:"max_plausible"`  // extracted amounts above are discarded
	SimulationMin float64 `mapstructure:"simulation_min"` // lower bound of simulated market average
	SimulationMax float64 `mapstructure:"simulation_max"` // upper bound of simulated market average
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/ratelshop/")

	// Environment variable settings
	v.SetEnvPrefix("RATELSHOP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Search provider defaults. Credentials default to empty so viper binds
	// their env vars; empty means simulation mode, not an error.
	v.SetDefault("search.api_key", "")
	v.SetDefault("search.engine_id", "")
	v.SetDefault("search.base_url", "https://www.googleapis.com/customsearch/v1")
	v.SetDefault("search.country", "ng")
	v.SetDefault("search.timeout", "15s")

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.0-flash")

	// Cache defaults
	v.SetDefault("cache.ttl", "1h")

	// Pricing defaults (amounts in NGN)
	v.SetDefault("pricing.region", "Nigeria")
	v.SetDefault("pricing.min_plausible", 100.0)
	v.SetDefault("pricing.max_plausible", 10000000.0)
	v.SetDefault("pricing.simulation_min", 30000.0)
	v.SetDefault("pricing.simulation_max", 450000.0)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Cache.TTL <= 0 {
		return fmt.Errorf("cache TTL must be positive, got: %s", config.Cache.TTL)
	}

	if config.Pricing.MinPlausible <= 0 || config.Pricing.MaxPlausible <= config.Pricing.MinPlausible {
		return fmt.Errorf("pricing plausibility bounds must satisfy 0 < min < max, got: min=%.0f max=%.0f",
			config.Pricing.MinPlausible, config.Pricing.MaxPlausible)
	}

	if config.Pricing.SimulationMin <= 0 || config.Pricing.SimulationMax <= config.Pricing.SimulationMin {
		return fmt.Errorf("pricing simulation bounds must satisfy 0 < min < max, got: min=%.0f max=%.0f",
			config.Pricing.SimulationMin, config.Pricing.SimulationMax)
	}

	return nil
}
