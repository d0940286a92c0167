package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "citymatch.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "{}\n")
	cfg, err := Load(viper.New(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Address != ":8080" || cfg.Data.Source != "local" || cfg.Data.Dir != "data" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Cache.Backend != "memory" || cfg.Cache.TTL != 10*time.Minute || cfg.Cache.Size != 32 {
		t.Fatalf("unexpected cache defaults: %+v", cfg.Cache)
	}
	if cfg.RateLimit.RPS != 20 || cfg.RateLimit.Burst != 40 {
		t.Fatalf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  address: ":9090"
data:
  source: s3
  s3:
    bucket: airbnb-listings
    prefix: raw/
cache:
  backend: redis
  ttl: 90s
`)
	t.Setenv("CITYMATCH_LOG_LEVEL", "debug")
	t.Setenv("CITYMATCH_SERVER_ADDRESS", ":7070")

	cfg, err := Load(viper.New(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Address != ":7070" {
		t.Fatalf("env override ignored: address=%q", cfg.Server.Address)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("log level=%q want debug", cfg.Log.Level)
	}
	if cfg.Data.Source != "s3" || cfg.Data.S3.Bucket != "airbnb-listings" || cfg.Data.S3.Prefix != "raw/" {
		t.Fatalf("data=%+v", cfg.Data)
	}
	if cfg.Cache.Backend != "redis" || cfg.Cache.TTL != 90*time.Second {
		t.Fatalf("cache=%+v", cfg.Cache)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	if _, err := Load(viper.New(), filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatalf("expected an error for an explicit missing config file")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	base := func() Config {
		return Config{
			Data:  DataConfig{Source: "local"},
			Cache: CacheConfig{Backend: "none"},
		}
	}
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"s3 without bucket", func(c *Config) { c.Data.Source = "s3" }, "bucket"},
		{"unknown source", func(c *Config) { c.Data.Source = "ftp" }, "data.source"},
		{"unknown driver", func(c *Config) { c.Stats.Driver = "mysql" }, "stats.driver"},
		{"driver without dsn", func(c *Config) { c.Stats.Driver = "sqlite3" }, "stats.dsn"},
		{"unknown cache", func(c *Config) { c.Cache.Backend = "memcached" }, "cache.backend"},
	}
	ok := base()
	if err := ok.Validate(); err != nil {
		t.Fatalf("base config: %v", err)
	}
	for _, tc := range cases {
		c := base()
		tc.mutate(&c)
		err := c.Validate()
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: err=%v want mention of %q", tc.name, err, tc.want)
		}
	}
}
