package refdata

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeops/toast-exports/internal/domain"
)

type fakeAPI struct {
	configCalls atomic.Int64
	laborCalls  atomic.Int64
	failConfig  bool
	failLabor   bool
}

func (f *fakeAPI) configMap(kind string) (map[string]domain.ConfigItem, error) {
	f.configCalls.Add(1)
	if f.failConfig {
		return nil, errors.New("boom")
	}
	return map[string]domain.ConfigItem{kind: {GUID: kind, Name: kind}}, nil
}

func (f *fakeAPI) RevenueCenters(ctx context.Context, store string) (map[string]domain.ConfigItem, error) {
	return f.configMap("rc")
}

func (f *fakeAPI) Tables(ctx context.Context, store string) (map[string]domain.ConfigItem, error) {
	return f.configMap("table")
}

func (f *fakeAPI) DiningOptions(ctx context.Context, store string) (map[string]domain.ConfigItem, error) {
	return f.configMap("dining")
}

func (f *fakeAPI) VoidReasons(ctx context.Context, store string) (map[string]domain.ConfigItem, error) {
	return f.configMap("void")
}

func (f *fakeAPI) Employees(ctx context.Context, store string, ids []string) (map[string]domain.Employee, error) {
	f.laborCalls.Add(1)
	if f.failLabor {
		return nil, errors.New("boom")
	}
	out := make(map[string]domain.Employee, len(ids))
	for _, id := range ids {
		out[id] = domain.Employee{GUID: id}
	}
	return out, nil
}

func (f *fakeAPI) Jobs(ctx context.Context, store string, ids []string) (map[string]domain.Job, error) {
	f.laborCalls.Add(1)
	out := make(map[string]domain.Job, len(ids))
	for _, id := range ids {
		out[id] = domain.Job{GUID: id}
	}
	return out, nil
}

func (f *fakeAPI) Shifts(ctx context.Context, store string, ids []string) (map[string]domain.Shift, error) {
	f.laborCalls.Add(1)
	out := make(map[string]domain.Shift, len(ids))
	for _, id := range ids {
		out[id] = domain.Shift{GUID: id}
	}
	return out, nil
}

func TestConfigMapsUncached(t *testing.T) {
	api := &fakeAPI{}
	r := NewResolver(api, nil)

	maps, err := r.ConfigMaps(context.Background(), "store-guid")
	require.NoError(t, err)

	assert.Equal(t, "rc", maps.RevenueCenters["rc"].Name)
	assert.Equal(t, "table", maps.Tables["table"].Name)
	assert.Equal(t, "dining", maps.DiningOptions["dining"].Name)
	assert.Equal(t, "void", maps.VoidReasons["void"].Name)
	assert.Equal(t, int64(4), api.configCalls.Load())
}

func TestConfigMapsFailure(t *testing.T) {
	api := &fakeAPI{failConfig: true}
	r := NewResolver(api, nil)

	_, err := r.ConfigMaps(context.Background(), "store-guid")
	assert.ErrorIs(t, err, domain.ErrLookupUnavailable)
}

func TestLaborResolvesAllThree(t *testing.T) {
	api := &fakeAPI{}
	r := NewResolver(api, nil)

	maps, err := r.Labor(context.Background(), "store-guid",
		[]string{"emp-1"}, []string{"job-1"}, []string{"shift-1"})
	require.NoError(t, err)

	assert.Equal(t, "emp-1", maps.Employees["emp-1"].GUID)
	assert.Equal(t, "job-1", maps.Jobs["job-1"].GUID)
	assert.Equal(t, "shift-1", maps.Shifts["shift-1"].GUID)
	assert.Equal(t, int64(3), api.laborCalls.Load())
}

func TestLaborEmptySetsSkipCalls(t *testing.T) {
	api := &fakeAPI{}
	r := NewResolver(api, nil)

	maps, err := r.Labor(context.Background(), "store-guid", nil, nil, nil)
	require.NoError(t, err)

	assert.NotNil(t, maps.Employees)
	assert.Empty(t, maps.Employees)
	assert.Equal(t, int64(0), api.laborCalls.Load(), "empty identifier sets must not hit the API")
}

func TestLaborFailure(t *testing.T) {
	api := &fakeAPI{failLabor: true}
	r := NewResolver(api, nil)

	_, err := r.Labor(context.Background(), "store-guid", []string{"emp-1"}, nil, nil)
	assert.ErrorIs(t, err, domain.ErrLookupUnavailable)
}
