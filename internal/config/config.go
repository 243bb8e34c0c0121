package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	SourceFile     = "file"
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	HTTPSource HTTPSourceConfig `mapstructure:"http_source"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Log        LogConfig        `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            int    `mapstructure:"port"`
	Host            string `mapstructure:"host"`
	Mode            string `mapstructure:"mode"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CatalogConfig describes where products and images come from
type CatalogConfig struct {
	Source           string `mapstructure:"source"`
	ProductsPath     string `mapstructure:"products_path"`
	ProductsURL      string `mapstructure:"products_url"`
	ImagesDir        string `mapstructure:"images_dir"`
	ImagesPrefix     string `mapstructure:"images_prefix"`
	ImageRoute       string `mapstructure:"image_route"`
	PlaceholderImage string `mapstructure:"placeholder_image"`
	FallbackCategory string `mapstructure:"fallback_category"`
	CacheTTL         int    `mapstructure:"cache_ttl"`
	Warmup           bool   `mapstructure:"warmup"`
}

// HTTPSourceConfig holds settings for fetching the dataset over HTTP
type HTTPSourceConfig struct {
	Timeout              int    `mapstructure:"timeout"`
	MaxRetries           int    `mapstructure:"max_retries"`
	MaxRequestsPerSecond int    `mapstructure:"max_requests_per_second"`
	Cooldown             int    `mapstructure:"cooldown"`
	UserAgent            string `mapstructure:"user_agent"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Table    string `mapstructure:"table"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		d.Host,
		d.Port,
		d.User,
		d.Password,
		d.Name,
	)
}

// RedisConfig holds Redis connection details
type RedisConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Password    string `mapstructure:"password"`
	Database    int    `mapstructure:"database"`
	ResponseTTL int    `mapstructure:"response_ttl"`
	KeyPrefix   string `mapstructure:"key_prefix"`
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads .env, then config.yaml (optional) from the working directory, with environment
// variable overrides such as CATALOG_SOURCE or REDIS_ENABLED.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

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

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.Catalog.Source {
	case SourceFile:
		if c.Catalog.ProductsPath == "" {
			return errors.New("catalog.products_path is required for the file source")
		}
	case SourceHTTP:
		if c.Catalog.ProductsURL == "" {
			return errors.New("catalog.products_url is required for the http source")
		}
	case SourcePostgres:
		if c.Database.Table == "" {
			return errors.New("database.table is required for the postgres source")
		}
	default:
		return fmt.Errorf("unknown catalog.source %q", c.Catalog.Source)
	}
	if c.Catalog.CacheTTL <= 0 {
		return fmt.Errorf("catalog.cache_ttl must be positive, got %d", c.Catalog.CacheTTL)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.shutdown_timeout", 10)

	v.SetDefault("catalog.source", SourceFile)
	v.SetDefault("catalog.products_path", "data/products.json")
	v.SetDefault("catalog.products_url", "")
	v.SetDefault("catalog.images_dir", "data/images")
	v.SetDefault("catalog.images_prefix", "data/images/")
	v.SetDefault("catalog.image_route", "/images")
	v.SetDefault("catalog.placeholder_image", "/image.png")
	v.SetDefault("catalog.fallback_category", "Каталог")
	v.SetDefault("catalog.cache_ttl", 300)
	v.SetDefault("catalog.warmup", true)

	v.SetDefault("http_source.timeout", 30)
	v.SetDefault("http_source.max_retries", 3)
	v.SetDefault("http_source.max_requests_per_second", 1)
	v.SetDefault("http_source.cooldown", 30)
	v.SetDefault("http_source.user_agent", "storefront-catalog/1.0")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "storefront")
	v.SetDefault("database.user", "storefront")
	v.SetDefault("database.password", "storefront")
	v.SetDefault("database.table", "raw_products")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.response_ttl", 30)
	v.SetDefault("redis.key_prefix", "storefront:products:")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}
