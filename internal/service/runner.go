// Package service orchestrates summary runs: it walks the processing window,
// streams vendor pages through the aggregators, and persists the resulting
// documents.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/storeops/toast-exports/internal/aggregate"
	"github.com/storeops/toast-exports/internal/archive"
	"github.com/storeops/toast-exports/internal/config"
	"github.com/storeops/toast-exports/internal/domain"
	"github.com/storeops/toast-exports/internal/refdata"
	"github.com/storeops/toast-exports/internal/repository/postgres"
	"github.com/storeops/toast-exports/internal/toast"
)

const dateLayout = "2006-01-02"

const (
	kindSales = "sales"
	kindLabor = "labor"

	statusSucceeded = "succeeded"
	statusFailed    = "failed"
)

// Runner executes sales and labor runs for stores. Each store and kind is an
// independent unit of work: one failing never stops the others.
type Runner struct {
	toast            *toast.Client
	refdata          *refdata.Resolver
	repo             *postgres.SummaryRepository
	archive          *archive.Store
	storeConcurrency int
}

func NewRunner(client *toast.Client, resolver *refdata.Resolver, repo *postgres.SummaryRepository, arc *archive.Store, storeConcurrency int) *Runner {
	if storeConcurrency <= 0 {
		storeConcurrency = 4
	}
	return &Runner{
		toast:            client,
		refdata:          resolver,
		repo:             repo,
		archive:          arc,
		storeConcurrency: storeConcurrency,
	}
}

// ProcessSales aggregates one store's orders for one business day and
// upserts the sales summary.
func (r *Runner) ProcessSales(ctx context.Context, loc config.Location, day time.Time) error {
	if loc.ToastGUID == "" {
		return fmt.Errorf("%w: store %s has no vendor guid", domain.ErrMissingConfiguration, loc.Store)
	}
	dayStr := day.Format(dateLayout)

	maps, err := r.refdata.ConfigMaps(ctx, loc.ToastGUID)
	if err != nil {
		return r.finishRun(ctx, loc.Store, dayStr, kindSales, err)
	}

	agg := aggregate.NewSalesAggregator(aggregate.SalesSummaryID(loc.Store, dayStr), maps)
	pages := r.toast.Orders(loc.ToastGUID, day)
	orderCount := 0
	for pageNum := 1; ; pageNum++ {
		page, ok, err := pages.Next(ctx)
		if err != nil {
			return r.finishRun(ctx, loc.Store, dayStr, kindSales, err)
		}
		if !ok {
			break
		}
		r.archive.StorePage(ctx, loc.Store, dayStr, "orders", pageNum, pages.Raw())
		agg.AddPage(page)
		orderCount += len(page)
	}

	sum := aggregate.AssembleSales(agg, loc.Store, dayStr)
	if err := r.repo.UpsertSalesSummary(ctx, &sum); err != nil {
		return r.finishRun(ctx, loc.Store, dayStr, kindSales, err)
	}

	log.Info().
		Str("summary", sum.ID).
		Int("orders", orderCount).
		Float64("net_sales", sum.Metrics.NetSales).
		Msg("sales summary saved")
	return r.finishRun(ctx, loc.Store, dayStr, kindSales, nil)
}

// ProcessLabor rebuilds a store's labor summaries for the target day and its
// lookback window. The window opens on the second week-start weekday before
// the target, so weekly overtime splits are always computed from a week
// boundary and late time-clock edits get re-covered.
func (r *Runner) ProcessLabor(ctx context.Context, loc config.Location, target time.Time) error {
	if loc.ToastGUID == "" {
		return fmt.Errorf("%w: store %s has no vendor guid", domain.ErrMissingConfiguration, loc.Store)
	}

	weekStart := loc.WeekStartWeekday()
	pc := aggregate.NewPayCalculator(loc.WageInfo.MinWage, loc.WageInfo.TippedMin, loc.TippedJobs)
	acc := aggregate.NewWeeklyAccumulator(weekStart)

	for day := aggregate.LookbackStart(target, weekStart); !day.After(target); day = day.AddDate(0, 0, 1) {
		acc.StartDay(day)
		if err := r.processLaborDay(ctx, loc, day, acc, pc); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) processLaborDay(ctx context.Context, loc config.Location, day time.Time, acc *aggregate.WeeklyAccumulator, pc *aggregate.PayCalculator) error {
	dayStr := day.Format(dateLayout)
	builder := aggregate.NewLaborDayBuilder(loc.Store, day, loc.Timezone)

	pages := r.toast.TimeEntries(loc.ToastGUID, day)
	for pageNum := 1; ; pageNum++ {
		page, ok, err := pages.Next(ctx)
		if err != nil {
			return r.finishRun(ctx, loc.Store, dayStr, kindLabor, err)
		}
		if !ok {
			break
		}
		r.archive.StorePage(ctx, loc.Store, dayStr, "timeEntries", pageNum, pages.Raw())
		for i := range page {
			entry := &page[i]
			if entry.Deleted {
				continue
			}
			split, err := acc.Apply(entry, day)
			if err != nil {
				return r.finishRun(ctx, loc.Store, dayStr, kindLabor, err)
			}
			builder.Add(entry, split)
		}
	}

	maps, err := r.refdata.Labor(ctx, loc.ToastGUID, builder.EmployeeIDs(), builder.JobIDs(), builder.ShiftIDs())
	if err != nil {
		return r.finishRun(ctx, loc.Store, dayStr, kindLabor, err)
	}

	sum := builder.Finalize(maps, pc)
	if err := r.repo.UpsertLaborSummary(ctx, &sum); err != nil {
		return r.finishRun(ctx, loc.Store, dayStr, kindLabor, err)
	}

	log.Info().
		Str("summary", sum.ID).
		Int("time_cards", len(sum.TimeCards)).
		Float64("regular_pay", sum.RegularPay).
		Float64("overtime_pay", sum.OvertimePay).
		Float64("regular_hours", sum.RegularHours).
		Float64("overtime_hours", sum.OvertimeHours).
		Msg("labor summary saved")
	return r.finishRun(ctx, loc.Store, dayStr, kindLabor, nil)
}

// finishRun records the attempt in the run log and passes the run error
// through. Run-log failures are only warned about.
func (r *Runner) finishRun(ctx context.Context, store, day, kind string, runErr error) error {
	status := statusSucceeded
	detail := ""
	if runErr != nil {
		status = statusFailed
		detail = runErr.Error()
	}
	if err := r.repo.RecordRun(ctx, store, day, kind, status, detail); err != nil {
		log.Warn().Err(err).Str("store", store).Str("kind", kind).Msg("failed to record run")
	}
	return runErr
}

// Outcome is the settled result of one unit of work.
type Outcome struct {
	Store string
	Day   string
	Kind  string
	Err   error
}

// ProcessAll runs sales and labor for one store and day. Both always run;
// each reports its own outcome.
func (r *Runner) ProcessAll(ctx context.Context, loc config.Location, day time.Time) []Outcome {
	dayStr := day.Format(dateLayout)
	return []Outcome{
		{Store: loc.Store, Day: dayStr, Kind: kindSales, Err: r.ProcessSales(ctx, loc, day)},
		{Store: loc.Store, Day: dayStr, Kind: kindLabor, Err: r.ProcessLabor(ctx, loc, day)},
	}
}

// ProcessStores fans ProcessAll out across stores with bounded concurrency
// and returns every outcome. It never returns an error itself; failures live
// in the outcomes.
func (r *Runner) ProcessStores(ctx context.Context, locs []config.Location, day time.Time) []Outcome {
	var (
		mu       sync.Mutex
		outcomes []Outcome
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.storeConcurrency)
	for _, loc := range locs {
		loc := loc
		g.Go(func() error {
			res := r.ProcessAll(ctx, loc, day)
			mu.Lock()
			outcomes = append(outcomes, res...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	for _, o := range outcomes {
		if o.Err != nil {
			log.Error().Err(o.Err).Str("store", o.Store).Str("day", o.Day).Str("kind", o.Kind).Msg("run failed")
		}
	}
	return outcomes
}
