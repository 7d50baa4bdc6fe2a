// Package refdata resolves vendor identifiers to display records. Lookups
// are read-only joins: a missing identifier is never an error (aggregation
// falls back to a placeholder label), while a failed lookup service call is
// domain.ErrLookupUnavailable and aborts the day being processed.
package refdata

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/storeops/toast-exports/internal/cache"
	"github.com/storeops/toast-exports/internal/domain"
)

// API is the slice of the vendor client the resolver needs.
type API interface {
	RevenueCenters(ctx context.Context, store string) (map[string]domain.ConfigItem, error)
	Tables(ctx context.Context, store string) (map[string]domain.ConfigItem, error)
	DiningOptions(ctx context.Context, store string) (map[string]domain.ConfigItem, error)
	VoidReasons(ctx context.Context, store string) (map[string]domain.ConfigItem, error)
	Employees(ctx context.Context, store string, ids []string) (map[string]domain.Employee, error)
	Jobs(ctx context.Context, store string, ids []string) (map[string]domain.Job, error)
	Shifts(ctx context.Context, store string, ids []string) (map[string]domain.Shift, error)
}

// ConfigMaps are the store-scoped configuration lookups used by the sales
// aggregation.
type ConfigMaps struct {
	RevenueCenters map[string]domain.ConfigItem
	Tables         map[string]domain.ConfigItem
	DiningOptions  map[string]domain.ConfigItem
	VoidReasons    map[string]domain.ConfigItem
}

// LaborMaps are the identifier-scoped lookups used to enrich timecards.
type LaborMaps struct {
	Employees map[string]domain.Employee
	Jobs      map[string]domain.Job
	Shifts    map[string]domain.Shift
}

// Resolver fetches lookup maps from the vendor API, with an optional
// redis-backed cache for the store configuration maps.
type Resolver struct {
	api   API
	cache *cache.RefData
}

// NewResolver builds a resolver. refCache may be nil to run uncached.
func NewResolver(api API, refCache *cache.RefData) *Resolver {
	return &Resolver{api: api, cache: refCache}
}

// ConfigMaps fetches the four store configuration maps concurrently. The four
// requests are independent read-only lookups, so they fan out and the first
// failure cancels the rest.
func (r *Resolver) ConfigMaps(ctx context.Context, store string) (ConfigMaps, error) {
	var maps ConfigMaps
	g, ctx := errgroup.WithContext(ctx)

	g.Go(r.cachedConfig(ctx, store, "revenueCenters", r.api.RevenueCenters, &maps.RevenueCenters))
	g.Go(r.cachedConfig(ctx, store, "tables", r.api.Tables, &maps.Tables))
	g.Go(r.cachedConfig(ctx, store, "diningOptions", r.api.DiningOptions, &maps.DiningOptions))
	g.Go(r.cachedConfig(ctx, store, "voidReasons", r.api.VoidReasons, &maps.VoidReasons))

	if err := g.Wait(); err != nil {
		return ConfigMaps{}, err
	}
	return maps, nil
}

func (r *Resolver) cachedConfig(ctx context.Context, store, kind string, fetch func(context.Context, string) (map[string]domain.ConfigItem, error), dst *map[string]domain.ConfigItem) func() error {
	return func() error {
		if m, ok := r.cache.GetConfigMap(ctx, store, kind); ok {
			*dst = m
			return nil
		}
		m, err := fetch(ctx, store)
		if err != nil {
			return fmt.Errorf("%w: %s for store %s: %v", domain.ErrLookupUnavailable, kind, store, err)
		}
		r.cache.SetConfigMap(ctx, store, kind, m)
		*dst = m
		return nil
	}
}

// Labor resolves the employees, jobs, and shifts referenced by one day's time
// entries. The three requests are independent and run concurrently. An empty
// identifier set yields an empty map without a network call.
func (r *Resolver) Labor(ctx context.Context, store string, employeeIDs, jobIDs, shiftIDs []string) (LaborMaps, error) {
	maps := LaborMaps{
		Employees: map[string]domain.Employee{},
		Jobs:      map[string]domain.Job{},
		Shifts:    map[string]domain.Shift{},
	}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if len(employeeIDs) == 0 {
			return nil
		}
		m, err := r.api.Employees(ctx, store, employeeIDs)
		if err != nil {
			return fmt.Errorf("%w: employees for store %s: %v", domain.ErrLookupUnavailable, store, err)
		}
		maps.Employees = m
		return nil
	})
	g.Go(func() error {
		if len(jobIDs) == 0 {
			return nil
		}
		m, err := r.api.Jobs(ctx, store, jobIDs)
		if err != nil {
			return fmt.Errorf("%w: jobs for store %s: %v", domain.ErrLookupUnavailable, store, err)
		}
		maps.Jobs = m
		return nil
	})
	g.Go(func() error {
		if len(shiftIDs) == 0 {
			return nil
		}
		m, err := r.api.Shifts(ctx, store, shiftIDs)
		if err != nil {
			return fmt.Errorf("%w: shifts for store %s: %v", domain.ErrLookupUnavailable, store, err)
		}
		maps.Shifts = m
		return nil
	})

	if err := g.Wait(); err != nil {
		return LaborMaps{}, err
	}
	return maps, nil
}
