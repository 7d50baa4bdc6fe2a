package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/storeops/toast-exports/internal/archive"
	"github.com/storeops/toast-exports/internal/cache"
	"github.com/storeops/toast-exports/internal/config"
	"github.com/storeops/toast-exports/internal/refdata"
	"github.com/storeops/toast-exports/internal/repository/postgres"
	"github.com/storeops/toast-exports/internal/service"
	"github.com/storeops/toast-exports/internal/toast"
	"github.com/storeops/toast-exports/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "toast-exports",
		Usage: "pull Toast sales and labor data into daily summary documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "date",
				Usage: "business day to process (YYYY-MM-DD), defaults to yesterday",
			},
			&cli.StringFlag{
				Name:  "store",
				Usage: "restrict the run to one store number",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "process",
				Usage:  "process sales and labor for the configured stores",
				Action: runAll,
			},
			{
				Name:   "sales",
				Usage:  "process sales summaries only",
				Action: runSales,
			},
			{
				Name:   "labor",
				Usage:  "process labor summaries only",
				Action: runLabor,
			},
			{
				Name:   "migrate",
				Usage:  "create the summary tables",
				Action: runMigrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("command failed")
	}
}

type deps struct {
	runner    *service.Runner
	locations []config.Location
}

func build(c *cli.Context) (*deps, error) {
	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := db.EnsureSchema(c.Context); err != nil {
		return nil, err
	}
	repo := postgres.NewSummaryRepository(db)

	locations, err := config.LoadLocations(cfg.App.LocationsFile)
	if err != nil {
		return nil, err
	}
	if store := c.String("store"); store != "" {
		locations, err = selectLocation(locations, store)
		if err != nil {
			return nil, err
		}
	}

	var refCache *cache.RefData
	if cfg.Cache.Enabled {
		refCache, err = cache.NewRefData(cfg.Cache)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("cache unavailable, running uncached")
			refCache = nil
		}
	}

	var arc *archive.Store
	if cfg.Archive.Enabled {
		arc, err = archive.New(c.Context, archive.Config{
			Endpoint:  cfg.Archive.Endpoint,
			AccessKey: cfg.Archive.AccessKey,
			SecretKey: cfg.Archive.SecretKey,
			Bucket:    cfg.Archive.Bucket,
			UseSSL:    cfg.Archive.UseSSL,
		})
		if err != nil {
			return nil, fmt.Errorf("connect archive: %w", err)
		}
	}

	client := toast.NewClient(toast.Config{
		BaseURL:           cfg.Toast.BaseURL,
		ClientID:          cfg.Toast.ClientID,
		ClientSecret:      cfg.Toast.ClientSecret,
		RequestsPerSecond: cfg.Toast.RequestsPerSecond,
	})
	resolver := refdata.NewResolver(client, refCache)

	return &deps{
		runner:    service.NewRunner(client, resolver, repo, arc, cfg.App.StoreConcurrency),
		locations: locations,
	}, nil
}

func selectLocation(locations []config.Location, store string) ([]config.Location, error) {
	for _, loc := range locations {
		if loc.Store == store {
			return []config.Location{loc}, nil
		}
	}
	return nil, fmt.Errorf("store %s not found in locations file", store)
}

func businessDay(c *cli.Context) (time.Time, error) {
	if raw := c.String("date"); raw != "" {
		day, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --date %q, want YYYY-MM-DD", raw)
		}
		return day, nil
	}
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	return time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, time.UTC), nil
}

func runAll(c *cli.Context) error {
	d, err := build(c)
	if err != nil {
		return err
	}
	day, err := businessDay(c)
	if err != nil {
		return err
	}

	outcomes := d.runner.ProcessStores(c.Context, d.locations, day)
	return summarize(outcomes)
}

func runSales(c *cli.Context) error {
	return runKind(c, func(ctx context.Context, r *service.Runner, loc config.Location, day time.Time) error {
		return r.ProcessSales(ctx, loc, day)
	})
}

func runLabor(c *cli.Context) error {
	return runKind(c, func(ctx context.Context, r *service.Runner, loc config.Location, day time.Time) error {
		return r.ProcessLabor(ctx, loc, day)
	})
}

func runKind(c *cli.Context, fn func(context.Context, *service.Runner, config.Location, time.Time) error) error {
	d, err := build(c)
	if err != nil {
		return err
	}
	day, err := businessDay(c)
	if err != nil {
		return err
	}

	failed := 0
	for _, loc := range d.locations {
		if err := fn(c.Context, d.runner, loc, day); err != nil {
			logger.Log.Error().Err(err).Str("store", loc.Store).Msg("run failed")
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d stores failed", failed, len(d.locations))
	}
	return nil
}

func runMigrate(c *cli.Context) error {
	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err := db.EnsureSchema(c.Context); err != nil {
		return err
	}
	logger.Log.Info().Msg("schema ready")
	return nil
}

func summarize(outcomes []service.Outcome) error {
	failed := 0
	for _, o := range outcomes {
		if o.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d units failed", failed, len(outcomes))
	}
	return nil
}
