package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lukas-walker/solarkalender/internal/config"
	"github.com/lukas-walker/solarkalender/internal/generate"
	"github.com/lukas-walker/solarkalender/internal/handler/health"
	"github.com/lukas-walker/solarkalender/internal/ics"
	"github.com/lukas-walker/solarkalender/internal/schedule"
	"github.com/lukas-walker/solarkalender/internal/server"
	"github.com/lukas-walker/solarkalender/internal/sun"
	"github.com/lukas-walker/solarkalender/internal/tzindex"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Timezone index ---
	idx, err := openIndex(cfg, logger)
	if err != nil {
		return fmt.Errorf("opening timezone index: %w", err)
	}
	resolver := tzindex.NewResolver(idx)

	// --- Pipeline ---
	var icsOpts []ics.Option
	if cfg.CalendarName != "" {
		icsOpts = append(icsOpts, ics.WithCalendarName(cfg.CalendarName))
	}
	gen := generate.New(
		resolver,
		schedule.NewBuilder(sun.NewCalculator(), logger),
		ics.NewSerializer(icsOpts...),
		logger,
	)

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, gen,
		map[string]health.Checker{"tzindex": resolver},
		server.Options{
			StaticDir:          cfg.StaticDir,
			MaxRangeDays:       cfg.MaxRangeDays,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		},
	)

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

// openIndex returns the fixture index when TZ_FIXTURE is set, otherwise the
// boundary finder, built now or on first use depending on TZ_PRELOAD.
func openIndex(cfg *config.Config, logger *slog.Logger) (tzindex.Index, error) {
	if cfg.TZFixture != "" {
		idx, err := tzindex.LoadFixtureFile(cfg.TZFixture)
		if err != nil {
			return nil, err
		}
		logger.Info("loaded timezone fixture", "path", cfg.TZFixture)
		return idx, nil
	}

	build := func() (tzindex.Index, error) {
		start := time.Now()
		f, err := tzindex.NewFinder()
		if err != nil {
			return nil, err
		}
		logger.Info("timezone index ready", "duration_ms", time.Since(start).Milliseconds())
		return f, nil
	}

	if cfg.TZPreload {
		return build()
	}
	logger.Info("timezone index deferred to first request")
	return tzindex.NewLazy(build), nil
}
