package toast

import (
	"context"
	"net/url"
	"time"

	"github.com/storeops/toast-exports/internal/domain"
)

const ordersBulkPath = "/orders/v2/ordersBulk"

// Orders returns the page sequence of orders for one business date.
func (c *Client) Orders(store string, businessDate time.Time) *Pages[domain.Order] {
	params := url.Values{"businessDate": {businessDateParam(businessDate)}}
	return newPages[domain.Order](c, store, ordersBulkPath, params)
}

// AllOrders drains every page of one business date's orders.
func (c *Client) AllOrders(ctx context.Context, store string, businessDate time.Time) ([]domain.Order, error) {
	return c.Orders(store, businessDate).drain(ctx)
}
