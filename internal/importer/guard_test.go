package importer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"capibara-storefront/internal/apiclient"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestEnsureStorefrontIdle(t *testing.T) {
	ready := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/readyz", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"ready"}`))
	}))
	defer ready.Close()
	degraded := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer degraded.Close()
	gone := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	goneURL := gone.URL
	gone.Close()

	probe := func(base string) *apiclient.Client {
		return apiclient.New(apiclient.Options{BaseURL: base, Logger: zerolog.Nop()})
	}
	ctx := context.Background()

	assert.ErrorIs(t, EnsureStorefrontIdle(ctx, probe(ready.URL)), ErrStorefrontRunning)
	assert.ErrorIs(t, EnsureStorefrontIdle(ctx, probe(degraded.URL)), ErrStorefrontRunning)
	assert.NoError(t, EnsureStorefrontIdle(ctx, probe(goneURL)))
}
