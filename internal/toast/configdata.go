package toast

import (
	"context"

	"github.com/storeops/toast-exports/internal/domain"
)

// Store configuration listings. Each returns the full, identifier-keyed map
// for one store; pagination is drained internally.

func (c *Client) RevenueCenters(ctx context.Context, store string) (map[string]domain.ConfigItem, error) {
	return c.configMap(ctx, store, "/config/v2/revenueCenters")
}

func (c *Client) Tables(ctx context.Context, store string) (map[string]domain.ConfigItem, error) {
	return c.configMap(ctx, store, "/config/v2/tables")
}

func (c *Client) DiningOptions(ctx context.Context, store string) (map[string]domain.ConfigItem, error) {
	return c.configMap(ctx, store, "/config/v2/diningOptions")
}

func (c *Client) VoidReasons(ctx context.Context, store string) (map[string]domain.ConfigItem, error) {
	return c.configMap(ctx, store, "/config/v2/voidReasons")
}

func (c *Client) configMap(ctx context.Context, store, path string) (map[string]domain.ConfigItem, error) {
	items, err := newPages[domain.ConfigItem](c, store, path, nil).drain(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.ConfigItem, len(items))
	for _, item := range items {
		out[item.GUID] = item
	}
	return out, nil
}
