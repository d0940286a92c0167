package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"

	"github.com/denisok6893-rgb/city-matching/internal/aggregate"
	"github.com/denisok6893-rgb/city-matching/internal/cache"
	"github.com/denisok6893-rgb/city-matching/internal/config"
	"github.com/denisok6893-rgb/city-matching/internal/domain"
	"github.com/denisok6893-rgb/city-matching/internal/logging"
	"github.com/denisok6893-rgb/city-matching/internal/matching"
	"github.com/denisok6893-rgb/city-matching/internal/storage"
)

// app lazily builds the shared dependencies of every subcommand.
type app struct {
	v       *viper.Viper
	cfgFile *string

	cfg    *config.Config
	logger *logging.Logger
}

func (a *app) init() error {
	if a.cfg != nil {
		return nil
	}
	cfg, err := config.Load(a.v, *a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.New(logging.ParseLevel(cfg.Log.Level))
	return nil
}

func (a *app) source(ctx context.Context) (aggregate.Source, error) {
	switch a.cfg.Data.Source {
	case "s3":
		s3cfg := a.cfg.Data.S3
		return storage.NewS3Source(ctx, s3cfg.Region, s3cfg.Bucket, s3cfg.Prefix, a.logger)
	default:
		return storage.NewDirSource(a.cfg.Data.Dir, a.logger), nil
	}
}

func (a *app) cache(ctx context.Context) (aggregate.Cache, func(), error) {
	c := a.cfg.Cache
	switch c.Backend {
	case "redis":
		r, err := cache.NewRedis(ctx, c.RedisAddr, c.TTL, a.logger)
		if err != nil {
			return nil, nil, err
		}
		return r, func() { _ = r.Close() }, nil
	case "memory":
		return cache.NewMemory(c.Size, c.TTL), func() {}, nil
	default:
		return nil, func() {}, nil
	}
}

// statTable loads the stat table: SQL store, then file, then defaults.
func (a *app) statTable(ctx context.Context) (domain.StatTable, error) {
	st := a.cfg.Stats
	if st.Driver != "" {
		store, err := storage.OpenStatsStore(ctx, st.Driver, st.DSN)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		t, err := store.LoadTable(ctx)
		if err != nil {
			return nil, fmt.Errorf("load stats from %s: %w", st.Driver, err)
		}
		if len(t) > 0 {
			a.logger.Info("[stats] loaded %d cities from %s store", len(t), st.Driver)
			return matching.NormalizeTable(t)
		}
		a.logger.Warn("[stats] %s store is empty", st.Driver)
	}

	if st.Path != "" {
		t, err := matching.LoadStatTableFromFile(st.Path)
		if err == nil {
			a.logger.Info("[stats] loaded %d cities from %s", len(t), st.Path)
			return t, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		a.logger.Info("[stats] %s not found", st.Path)
	}

	a.logger.Info("[stats] using bundled defaults")
	return matching.DefaultStatTable(), nil
}
