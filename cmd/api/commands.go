package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/denisok6893-rgb/city-matching/internal/aggregate"
	"github.com/denisok6893-rgb/city-matching/internal/domain"
	httpapi "github.com/denisok6893-rgb/city-matching/internal/http"
	"github.com/denisok6893-rgb/city-matching/internal/matching"
	"github.com/denisok6893-rgb/city-matching/internal/storage"
)

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.init(); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, a)
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	_ = a.v.BindPFlag("server.address", cmd.Flags().Lookup("addr"))
	return cmd
}

func runServe(ctx context.Context, a *app) error {
	table, err := a.statTable(ctx)
	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}
	src, err := a.source(ctx)
	if err != nil {
		return fmt.Errorf("listing source: %w", err)
	}
	c, closeCache, err := a.cache(ctx)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer closeCache()

	srv := httpapi.NewServer(matching.NewEngine(table), aggregate.NewService(src, c, a.logger), a.logger)
	srv.Limits = httpapi.RateLimit{RPS: a.cfg.RateLimit.RPS, Burst: a.cfg.RateLimit.Burst}

	hs := &http.Server{
		Addr:              a.cfg.Server.Address,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("API listening on %s", hs.Addr)
		errCh <- hs.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		a.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	}
}

func aggregateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "aggregate [city]",
		Short: "Print the aggregate statistics of one city as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.init(); err != nil {
				return err
			}
			src, err := a.source(cmd.Context())
			if err != nil {
				return err
			}
			rec, err := aggregate.NewService(src, nil, a.logger).City(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(rec)
		},
	}
}

func matchCmd(a *app) *cobra.Command {
	var (
		weekends                  bool
		price, distance, capacity string
		cleanliness, satisfaction string
		superhost                 string
		importance                map[string]int
		all                       bool
	)
	cmd := &cobra.Command{
		Use:   "match",
		Short: "Rank cities against a set of preferences",
		Example: `  citymatch match --price 50,300 --cleanliness 9 --distance 0,3 --capacity 2,4 \
    --satisfaction 90 --superhost superhost_only \
    --importance price=5,cleanliness=3,distance=4,superhost=2,capacity=3,satisfaction=4`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.init(); err != nil {
				return err
			}
			q := url.Values{}
			q.Set("weekends", strconv.FormatBool(weekends))
			q.Set("price", price)
			q.Set("distance", distance)
			q.Set("capacity", capacity)
			q.Set("cleanliness", cleanliness)
			q.Set("satisfaction", satisfaction)
			q.Set("superhost", superhost)
			for k, v := range importance {
				q.Set("importance."+k, strconv.Itoa(v))
			}
			in, err := httpapi.ParsePreferenceQuery(q)
			if err != nil {
				return err
			}
			if err := in.Validate(); err != nil {
				return err
			}

			table, err := a.statTable(cmd.Context())
			if err != nil {
				return err
			}
			engine := matching.NewEngine(table)
			if all {
				scores, err := engine.Rank(in)
				if err != nil {
					return err
				}
				for i, s := range scores {
					fmt.Printf("%2d. %s\n", i+1, s)
				}
				return nil
			}
			results, err := engine.Match(in)
			if err != nil {
				return err
			}
			return printJSON(results)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&weekends, "weekends", false, "score against weekend statistics")
	f.StringVar(&price, "price", "", "price range low,high")
	f.StringVar(&distance, "distance", "", "distance to centre range low,high (km)")
	f.StringVar(&capacity, "capacity", "", "person capacity range low,high")
	f.StringVar(&cleanliness, "cleanliness", "", "minimum cleanliness rating")
	f.StringVar(&satisfaction, "satisfaction", "", "minimum guest satisfaction")
	f.StringVar(&superhost, "superhost", "", "superhost_only or all_listings")
	f.StringToIntVar(&importance, "importance", map[string]int{}, "criterion=weight pairs (1-5)")
	f.BoolVar(&all, "all", false, "print every city with its raw score")
	return cmd
}

func buildStatsCmd(a *app) *cobra.Command {
	var (
		workers int
		out     string
	)
	cmd := &cobra.Command{
		Use:   "build-stats",
		Short: "Compute the city stat table from the listing CSVs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.init(); err != nil {
				return err
			}
			ctx := cmd.Context()
			src, err := a.source(ctx)
			if err != nil {
				return err
			}

			bar := progressbar.Default(int64(len(domain.Catalog)), "building stats")
			table, err := aggregate.BuildStatTable(ctx, src, workers, func(string) { _ = bar.Add(1) })
			if err != nil {
				return err
			}

			if out == "" {
				out = a.cfg.Stats.Path
			}
			if err := matching.WriteStatTableFile(out, table); err != nil {
				return err
			}
			a.logger.Info("[stats] wrote %s", out)

			if st := a.cfg.Stats; st.Driver != "" {
				store, err := storage.OpenStatsStore(ctx, st.Driver, st.DSN)
				if err != nil {
					return err
				}
				defer store.Close()
				if err := store.UpsertTable(ctx, table); err != nil {
					return fmt.Errorf("store stats: %w", err)
				}
				a.logger.Info("[stats] stored %d cities in %s", len(table), st.Driver)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 4, "cities processed concurrently")
	cmd.Flags().StringVar(&out, "out", "", "output file (default stats.path)")
	return cmd
}

func citiesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cities",
		Short: "List the city catalog",
		RunE: func(*cobra.Command, []string) error {
			for _, c := range domain.Catalog {
				fmt.Printf("%-10s %s\n", c.ID, c.Name)
			}
			return nil
		},
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
