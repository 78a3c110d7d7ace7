package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port             string        `mapstructure:"PORT"`
	SQIDData         string        `mapstructure:"SQID_DATA"`
	DBUrl            string        `mapstructure:"DB_URL"`
	RedisUrl         string        `mapstructure:"REDIS_URL"`
	UseDefaultStyles bool          `mapstructure:"USE_DEFAULT_STYLES"`
	GridLevels       string        `mapstructure:"GRID_LEVELS"`
	MapMode          string        `mapstructure:"MAP_MODE"`
	ExpandWorkers    int           `mapstructure:"EXPAND_WORKERS"`
	CacheTTL         time.Duration `mapstructure:"CACHE_TTL"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"`
	WatchInterval    time.Duration `mapstructure:"WATCH_INTERVAL"`
}

// Levels returns the enabled style keys from GRID_LEVELS, or nil for all.
func (c Config) Levels() []string {
	var levels []string
	for _, l := range strings.Split(c.GridLevels, ",") {
		if l = strings.TrimSpace(l); l != "" {
			levels = append(levels, l)
		}
	}
	return levels
}

func LoadConfig() (c Config, err error) {
	// Get environment type from ENV variable or use development as default
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Every key needs a default so Unmarshal picks up env-only values
	viper.SetDefault("PORT", ":8080")
	viper.SetDefault("SQID_DATA", "data/mgrs_sqid.bin")
	viper.SetDefault("DB_URL", "")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("USE_DEFAULT_STYLES", true)
	viper.SetDefault("GRID_LEVELS", "")
	viper.SetDefault("MAP_MODE", "geocentric")
	viper.SetDefault("EXPAND_WORKERS", 8)
	viper.SetDefault("CACHE_TTL", 5*time.Minute)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("WATCH_INTERVAL", DatasetWatchInterval)

	// Load environment file
	viper.SetConfigName(fmt.Sprintf(".env.%s", env))
	viper.SetConfigType("env")
	viper.AddConfigPath(".") // Look in the project root directory

	// Environment variables take precedence over config file
	viper.AutomaticEnv()

	// Try to read config file
	if err := viper.ReadInConfig(); err != nil {
		// Continue even if file is not found
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	// Map the values to the Config struct
	err = viper.Unmarshal(&c)
	return
}
