package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/denisok6893-rgb/city-matching/internal/config"
	"github.com/denisok6893-rgb/city-matching/internal/logging"
	"github.com/denisok6893-rgb/city-matching/internal/matching"
	"github.com/denisok6893-rgb/city-matching/internal/storage"
)

func testApp(stats config.StatsConfig) *app {
	return &app{
		cfg:    &config.Config{Stats: stats, Data: config.DataConfig{Source: "local", Dir: "testdata"}},
		logger: logging.Discard(),
	}
}

func firstPrice(t *testing.T, a *app) float64 {
	t.Helper()
	got, err := a.statTable(context.Background())
	if err != nil {
		t.Fatalf("statTable: %v", err)
	}
	return got[0].Weekdays.Price
}

func TestStatTable_Precedence(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()

	a := testApp(config.StatsConfig{Path: filepath.Join(dir, "absent.yaml")})
	if got, want := firstPrice(t, a), matching.DefaultStatTable()[0].Weekdays.Price; got != want {
		t.Fatalf("defaults: price=%v want=%v", got, want)
	}

	fromFile := matching.DefaultStatTable()
	fromFile[0].Weekdays.Price = 1
	path := filepath.Join(dir, "stats.yaml")
	if err := matching.WriteStatTableFile(path, fromFile); err != nil {
		t.Fatal(err)
	}
	a = testApp(config.StatsConfig{Path: path})
	if got := firstPrice(t, a); got != 1 {
		t.Fatalf("file: price=%v want=1", got)
	}

	dsn := filepath.Join(dir, "stats.db")
	a = testApp(config.StatsConfig{Path: path, Driver: storage.DriverSQLite, DSN: dsn})
	if got := firstPrice(t, a); got != 1 {
		t.Fatalf("empty store should fall through to file: price=%v", got)
	}

	fromStore := matching.DefaultStatTable()
	fromStore[0].Weekdays.Price = 2
	store, err := storage.OpenStatsStore(ctx, storage.DriverSQLite, dsn)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.UpsertTable(ctx, fromStore); err != nil {
		t.Fatal(err)
	}
	_ = store.Close()

	if got := firstPrice(t, a); got != 2 {
		t.Fatalf("store: price=%v want=2", got)
	}
}

func TestSource_Local(t *testing.T) {
	t.Parallel()

	a := testApp(config.StatsConfig{})
	src, err := a.source(context.Background())
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	if _, ok := src.(*storage.DirSource); !ok {
		t.Fatalf("source=%T want *storage.DirSource", src)
	}
}
