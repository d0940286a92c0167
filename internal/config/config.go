package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Data      DataConfig      `mapstructure:"data"`
	Stats     StatsConfig     `mapstructure:"stats"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DataConfig struct {
	Source string   `mapstructure:"source"` // local or s3
	Dir    string   `mapstructure:"dir"`
	S3     S3Config `mapstructure:"s3"`
}

type S3Config struct {
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`
	Region string `mapstructure:"region"`
}

type StatsConfig struct {
	Path   string `mapstructure:"path"`
	Driver string `mapstructure:"driver"` // "", sqlite3 or postgres
	DSN    string `mapstructure:"dsn"`
}

type CacheConfig struct {
	Backend   string        `mapstructure:"backend"` // none, memory or redis
	Size      int           `mapstructure:"size"`
	TTL       time.Duration `mapstructure:"ttl"`
	RedisAddr string        `mapstructure:"redis_addr"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// EnvPrefix is prepended to every environment override, e.g.
// CITYMATCH_SERVER_ADDRESS.
const EnvPrefix = "CITYMATCH"

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("data.source", "local")
	v.SetDefault("data.dir", "data")
	v.SetDefault("data.s3.bucket", "")
	v.SetDefault("data.s3.prefix", "")
	v.SetDefault("data.s3.region", "eu-central-1")
	v.SetDefault("stats.path", "configs/city_stats.yaml")
	v.SetDefault("stats.driver", "")
	v.SetDefault("stats.dsn", "")
	v.SetDefault("cache.backend", "memory")
	v.SetDefault("cache.size", 32)
	v.SetDefault("cache.ttl", "10m")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("ratelimit.rps", 20.0)
	v.SetDefault("ratelimit.burst", 40)
	v.SetDefault("log.level", "info")
}

// Load reads .env (if present), then the optional config file, then
// CITYMATCH_* environment variables, and decodes the result.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	_ = godotenv.Load()

	SetDefaults(v)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		v.AddConfigPath("configs")
		v.AddConfigPath(".")
		v.SetConfigName("citymatch")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	hook := viper.DecoderConfigOption(func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects unknown enum values and incomplete backends.
func (c *Config) Validate() error {
	switch c.Data.Source {
	case "local":
	case "s3":
		if c.Data.S3.Bucket == "" {
			return errors.New("config: data.s3.bucket is required for the s3 source")
		}
	default:
		return fmt.Errorf("config: unknown data.source %q", c.Data.Source)
	}
	switch c.Stats.Driver {
	case "", "sqlite3", "postgres":
	default:
		return fmt.Errorf("config: unknown stats.driver %q", c.Stats.Driver)
	}
	if c.Stats.Driver != "" && c.Stats.DSN == "" {
		return errors.New("config: stats.dsn is required when stats.driver is set")
	}
	switch c.Cache.Backend {
	case "none", "memory", "redis":
	default:
		return fmt.Errorf("config: unknown cache.backend %q", c.Cache.Backend)
	}
	return nil
}
