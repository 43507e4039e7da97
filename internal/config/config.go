package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Mode      string          `mapstructure:"mode"`
	Server    ServerConfig    `mapstructure:"server"`
	Search    SearchConfig    `mapstructure:"search"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds HTTP API configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
}

// SearchConfig holds remote media search configuration
type SearchConfig struct {
	BaseURL               string   `mapstructure:"base_url"`
	ImageBaseURL          string   `mapstructure:"image_base_url"`
	APIKey                string   `mapstructure:"api_key"`
	Timeout               int      `mapstructure:"timeout"`
	MaxRetries            int      `mapstructure:"max_retries"`
	MaxWorkers            int      `mapstructure:"max_workers"`
	MaxRequestsPerSecond  int      `mapstructure:"max_requests_per_second"`
	CircuitBreakerMinutes int      `mapstructure:"circuit_breaker_minutes"`
	Proxies               []string `mapstructure:"proxies"`
}

// DiscoveryConfig holds pagination settings shared by every category page
type DiscoveryConfig struct {
	AnchorYear          int     `mapstructure:"anchor_year"`
	VisibilityThreshold float64 `mapstructure:"visibility_threshold"`

	// crawl mode only
	MinYear         int `mapstructure:"min_year"` // 0 crawls until an empty page
	MaxPages        int `mapstructure:"max_pages"`
	CrawlRetries    int `mapstructure:"crawl_retries"`
	CrawlRetryDelay int `mapstructure:"crawl_retry_delay"` // milliseconds
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		d.Host, d.Port, d.User, d.Password, d.Name)
}

// RedisConfig holds Redis connection details for the search cache
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
	CacheTTL int    `mapstructure:"cache_ttl"` // seconds
}

// LogConfig controls logrus output
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"` // megabytes
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
	Compress   bool   `mapstructure:"compress"`
}

// Load reads config.yaml from the working directory (or --config), then
// applies environment variables and command line flags. A missing file is
// not an error; defaults are used.
func Load(args []string) (*Config, error) {
	v := viper.New()

	flags := pflag.NewFlagSet("discovery", pflag.ContinueOnError)
	configFile := flags.String("config", "", "path to config file")
	flags.String("mode", "serve", "run mode: serve or crawl")
	flags.Int("port", 8080, "HTTP API port")
	flags.String("log-level", "info", "log level")
	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if *configFile != "" {
		v.SetConfigFile(*configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	bindings := map[string]string{
		"mode":      "mode",
		"port":      "server.port",
		"log-level": "log.level",
	}
	for flag, key := range bindings {
		if f := flags.Lookup(flag); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) Validate() error {
	switch c.Mode {
	case "serve", "crawl":
	default:
		return fmt.Errorf("invalid mode %q: expected serve or crawl", c.Mode)
	}
	if c.Search.BaseURL == "" {
		return fmt.Errorf("search.base_url is required")
	}
	if t := c.Discovery.VisibilityThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("discovery.visibility_threshold must be in (0, 1], got %v", t)
	}
	if c.Discovery.MinYear < 0 || c.Discovery.MinYear > c.Discovery.AnchorYear {
		return fmt.Errorf("discovery.min_year %d must be between 0 and anchor_year %d", c.Discovery.MinYear, c.Discovery.AnchorYear)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "serve")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")

	v.SetDefault("search.base_url", "http://localhost:3001/api")
	v.SetDefault("search.image_base_url", "https://image.tmdb.org/t/p/w500")
	v.SetDefault("search.api_key", "")
	v.SetDefault("search.timeout", 15)
	v.SetDefault("search.max_retries", 2)
	v.SetDefault("search.max_workers", 4)
	v.SetDefault("search.max_requests_per_second", 5)
	v.SetDefault("search.circuit_breaker_minutes", 5)
	v.SetDefault("search.proxies", []string{})

	v.SetDefault("discovery.anchor_year", 2025)
	v.SetDefault("discovery.visibility_threshold", 0.1)
	v.SetDefault("discovery.min_year", 0)
	v.SetDefault("discovery.max_pages", 36)
	v.SetDefault("discovery.crawl_retries", 3)
	v.SetDefault("discovery.crawl_retry_delay", 2000)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "mediabrowse")
	v.SetDefault("database.user", "mediabrowse_user")
	v.SetDefault("database.password", "mediabrowse_pass")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.cache_ttl", 600)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 20)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 14)
	v.SetDefault("log.compress", true)
}
