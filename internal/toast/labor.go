package toast

import (
	"context"
	"net/url"
	"time"

	"github.com/storeops/toast-exports/internal/domain"
)

const (
	timeEntriesPath = "/labor/v1/timeEntries"
	employeesPath   = "/labor/v1/employees"
	jobsPath        = "/labor/v1/jobs"
	shiftsPath      = "/labor/v1/shifts"

	// the labor endpoints cap identifier filters at 100 per request
	idBatchSize = 100
)

// TimeEntries returns the page sequence of time entries whose clock-in falls
// on one business date.
func (c *Client) TimeEntries(store string, businessDate time.Time) *Pages[domain.TimeEntry] {
	params := url.Values{"businessDate": {businessDateParam(businessDate)}}
	return newPages[domain.TimeEntry](c, store, timeEntriesPath, params)
}

// Employees resolves the given employee identifiers to roster records, keyed
// by identifier. An empty identifier set returns an empty map without any
// network call.
func (c *Client) Employees(ctx context.Context, store string, ids []string) (map[string]domain.Employee, error) {
	return fetchByIDs(ctx, c, store, employeesPath, "employeeIds", ids,
		func(e domain.Employee) string { return e.GUID })
}

// Jobs resolves job identifiers to job records, keyed by identifier.
func (c *Client) Jobs(ctx context.Context, store string, ids []string) (map[string]domain.Job, error) {
	return fetchByIDs(ctx, c, store, jobsPath, "jobIds", ids,
		func(j domain.Job) string { return j.GUID })
}

// Shifts resolves shift identifiers to shift records, keyed by identifier.
func (c *Client) Shifts(ctx context.Context, store string, ids []string) (map[string]domain.Shift, error) {
	return fetchByIDs(ctx, c, store, shiftsPath, "shiftIds", ids,
		func(s domain.Shift) string { return s.GUID })
}

// fetchByIDs slices the identifier list into batches of at most idBatchSize,
// drains each batch's pages, and collects the results keyed by identifier.
func fetchByIDs[T any](ctx context.Context, c *Client, store, path, param string, ids []string, key func(T) string) (map[string]T, error) {
	out := make(map[string]T, len(ids))
	for start := 0; start < len(ids); start += idBatchSize {
		end := start + idBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		params := url.Values{param: ids[start:end]}
		records, err := newPages[T](c, store, path, params).drain(ctx)
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			out[key(rec)] = rec
		}
	}
	return out, nil
}
