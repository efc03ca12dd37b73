package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	// Server
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Database
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis
	RedisURL string `mapstructure:"REDIS_URL"`

	// CORS
	CorsOrigins []string `mapstructure:"CORS_ORIGINS"`

	// Input data
	DataDir       string `mapstructure:"DATA_DIR"`
	ColumnMapFile string `mapstructure:"COLUMN_MAP_FILE"`

	// Clustering
	ClusterCount int   `mapstructure:"CLUSTER_COUNT"`
	ClusterSeed  int64 `mapstructure:"CLUSTER_SEED"`

	// Regression
	RegressionMinSamples int `mapstructure:"REGRESSION_MIN_SAMPLES"`

	// Synthetic xG estimator weights
	XGShotWeight     float64 `mapstructure:"XG_SHOT_WEIGHT"`
	XGTargetWeight   float64 `mapstructure:"XG_TARGET_WEIGHT"`
	XGBaselineWeight float64 `mapstructure:"XG_BASELINE_WEIGHT"`

	// Background refresh
	EnableBackgroundRefresh bool   `mapstructure:"ENABLE_BACKGROUND_REFRESH"`
	DataRefreshSchedule     string `mapstructure:"DATA_REFRESH_SCHEDULE"`

	// Cache
	CacheTTLSeconds int `mapstructure:"CACHE_TTL_SECONDS"`

	// API rate limiting
	APIRateLimit int `mapstructure:"API_RATE_LIMIT"`
	APIRateBurst int `mapstructure:"API_RATE_BURST"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DATABASE_URL", "file:epl_analytics.db")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("DATA_DIR", "data")
	viper.SetDefault("COLUMN_MAP_FILE", "")
	viper.SetDefault("CLUSTER_COUNT", 3)
	viper.SetDefault("CLUSTER_SEED", 42)
	viper.SetDefault("REGRESSION_MIN_SAMPLES", 5)
	viper.SetDefault("XG_SHOT_WEIGHT", 0.09)
	viper.SetDefault("XG_TARGET_WEIGHT", 0.2)
	viper.SetDefault("XG_BASELINE_WEIGHT", 0.75)
	viper.SetDefault("ENABLE_BACKGROUND_REFRESH", false)
	viper.SetDefault("DATA_REFRESH_SCHEDULE", "0 4 * * *") // 4 AM daily
	viper.SetDefault("CACHE_TTL_SECONDS", 3600)
	viper.SetDefault("API_RATE_LIMIT", 20) // requests per second per client
	viper.SetDefault("API_RATE_BURST", 40)

	// Read from environment
	viper.AutomaticEnv()

	// Read config file if exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Parse CORS origins from comma-separated string
	if corsStr := viper.GetString("CORS_ORIGINS"); corsStr != "" {
		config.CorsOrigins = strings.Split(corsStr, ",")
	}

	if config.ClusterCount <= 0 {
		return nil, fmt.Errorf("CLUSTER_COUNT must be positive, got %d", config.ClusterCount)
	}
	if config.RegressionMinSamples < 2 {
		return nil, fmt.Errorf("REGRESSION_MIN_SAMPLES must be at least 2, got %d", config.RegressionMinSamples)
	}

	return &config, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
