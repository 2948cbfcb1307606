package importer

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"capibara-storefront/internal/apiclient"
)

// ErrStorefrontRunning means a storefront process owns the cart slot.
var ErrStorefrontRunning = errors.New("storefront is running")

type readinessProbe interface {
	Get(ctx context.Context, path string, query url.Values, out interface{}) error
}

// EnsureStorefrontIdle fails unless nothing answers /readyz. A running
// storefront restores the cart only at startup, so its next mutation would
// overwrite whatever the import wrote to the slot.
func EnsureStorefrontIdle(ctx context.Context, probe readinessProbe) error {
	err := probe.Get(ctx, "/readyz", nil, nil)
	if errors.Is(err, apiclient.ErrUnreachable) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: /readyz answered: %w", ErrStorefrontRunning, err)
	}
	return fmt.Errorf("%w: stop it or add items through POST /cart/items", ErrStorefrontRunning)
}
