package toast

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storeops/toast-exports/internal/domain"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

type vendorStub struct {
	mux    *http.ServeMux
	server *httptest.Server
	logins atomic.Int64
}

func newVendorStub(t *testing.T) *vendorStub {
	t.Helper()
	s := &vendorStub{mux: http.NewServeMux()}
	s.mux.HandleFunc(loginPath, func(w http.ResponseWriter, r *http.Request) {
		s.logins.Add(1)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, accessType, body["userAccessType"])
		fmt.Fprint(w, `{"token":{"accessToken":"test-token","expiresIn":3600}}`)
	})
	s.server = httptest.NewServer(s.mux)
	t.Cleanup(s.server.Close)
	return s
}

func (s *vendorStub) client() *Client {
	return NewClient(Config{
		BaseURL:           s.server.URL,
		ClientID:          "client",
		ClientSecret:      "secret",
		RequestsPerSecond: 1000,
	})
}

func TestOrdersPagination(t *testing.T) {
	stub := newVendorStub(t)
	var requests atomic.Int64
	stub.mux.HandleFunc(ordersBulkPath, func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "store-guid", r.Header.Get("Toast-Restaurant-External-ID"))

		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[{"guid":"ord-2"}]`)
			return
		}
		assert.Equal(t, "20240109", r.URL.Query().Get("businessDate"))
		w.Header().Set("Link", fmt.Sprintf(`<%s%s?page=2>; rel="next"`, stub.server.URL, ordersBulkPath))
		fmt.Fprint(w, `[{"guid":"ord-1"}]`)
	})

	pages := stub.client().Orders("store-guid", day("2024-01-09"))

	page, ok, err := pages.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, page, 1)
	assert.Equal(t, "ord-1", page[0].GUID)
	assert.JSONEq(t, `[{"guid":"ord-1"}]`, string(pages.Raw()))

	page, ok, err = pages.Next(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ord-2", page[0].GUID)

	_, ok, err = pages.Next(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, int64(2), requests.Load())
	assert.Equal(t, int64(1), stub.logins.Load(), "token should be fetched once and reused")
}

func TestOrdersFetchError(t *testing.T) {
	stub := newVendorStub(t)
	stub.mux.HandleFunc(ordersBulkPath, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broke", http.StatusBadGateway)
	})

	pages := stub.client().Orders("store-guid", day("2024-01-09"))
	_, _, err := pages.Next(context.Background())
	assert.ErrorIs(t, err, domain.ErrFetchFailed)

	// A failed sequence stays finished.
	_, ok, err := pages.Next(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAllOrdersDrains(t *testing.T) {
	stub := newVendorStub(t)
	stub.mux.HandleFunc(ordersBulkPath, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[{"guid":"ord-2"},{"guid":"ord-3"}]`)
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s%s?page=2>; rel="next"`, stub.server.URL, ordersBulkPath))
		fmt.Fprint(w, `[{"guid":"ord-1"}]`)
	})

	orders, err := stub.client().AllOrders(context.Background(), "store-guid", day("2024-01-09"))
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "ord-3", orders[2].GUID)
}

func TestEmployeesBatching(t *testing.T) {
	stub := newVendorStub(t)
	var batches atomic.Int64
	stub.mux.HandleFunc(employeesPath, func(w http.ResponseWriter, r *http.Request) {
		batches.Add(1)
		ids := r.URL.Query()["employeeIds"]
		assert.LessOrEqual(t, len(ids), idBatchSize)
		out := make([]domain.Employee, 0, len(ids))
		for _, id := range ids {
			out = append(out, domain.Employee{GUID: id, FirstName: "emp"})
		}
		require.NoError(t, json.NewEncoder(w).Encode(out))
	})

	ids := make([]string, 250)
	for i := range ids {
		ids[i] = fmt.Sprintf("emp-%03d", i)
	}
	employees, err := stub.client().Employees(context.Background(), "store-guid", ids)
	require.NoError(t, err)

	assert.Len(t, employees, 250)
	assert.Equal(t, int64(3), batches.Load())
	assert.Equal(t, "emp", employees["emp-042"].FirstName)
}

func TestEmployeesEmptyIDs(t *testing.T) {
	stub := newVendorStub(t)
	stub.mux.HandleFunc(employeesPath, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty identifier set")
	})

	employees, err := stub.client().Employees(context.Background(), "store-guid", nil)
	require.NoError(t, err)
	assert.Empty(t, employees)
	assert.Equal(t, int64(0), stub.logins.Load())
}

func TestConfigMapKeying(t *testing.T) {
	stub := newVendorStub(t)
	stub.mux.HandleFunc("/config/v2/revenueCenters", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"guid":"rc-1","name":"Bar"},{"guid":"rc-2","name":"Patio"}]`)
	})

	maps, err := stub.client().RevenueCenters(context.Background(), "store-guid")
	require.NoError(t, err)
	assert.Equal(t, "Bar", maps["rc-1"].Name)
	assert.Equal(t, "Patio", maps["rc-2"].Name)
}

func TestParseLinkHeader(t *testing.T) {
	links := parseLinkHeader(`<https://api.example.com/orders?page=2>; rel="next", <https://api.example.com/orders?page=9>; rel="last"`)
	assert.Equal(t, "https://api.example.com/orders?page=2", links["next"])
	assert.Equal(t, "https://api.example.com/orders?page=9", links["last"])

	assert.Empty(t, parseLinkHeader(""))
}
