package order

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"capibara-storefront/internal/apiclient"
	"capibara-storefront/internal/domain"
	"github.com/rs/zerolog"
)

type httpRepo struct {
	client *apiclient.Client
	logger zerolog.Logger
}

func NewHTTP(client *apiclient.Client, logger zerolog.Logger) Repository {
	return &httpRepo{client: client, logger: logger}
}

// Create posts the order exactly once. Failures are returned untouched so
// callers can inspect the status and backend message.
func (r *httpRepo) Create(ctx context.Context, req domain.OrderRequest) (*domain.Order, error) {
	var o domain.Order
	if err := r.client.Post(ctx, "/orders", req, &o); err != nil {
		return nil, err
	}
	r.logger.Info().Int64("order_id", o.ID).Str("status", string(o.Status)).Int("lines", len(req.Items)).Msg("order repo: created")
	return &o, nil
}

func (r *httpRepo) ListMine(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, "/orders/my-orders")
}

func (r *httpRepo) ListAll(ctx context.Context) ([]domain.Order, error) {
	return r.list(ctx, "/orders")
}

func (r *httpRepo) list(ctx context.Context, path string) ([]domain.Order, error) {
	var orders []domain.Order
	if err := r.client.Get(ctx, path, nil, &orders); err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

func (r *httpRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	if err := r.client.Get(ctx, fmt.Sprintf("/orders/%d", id), nil, &o); err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

func (r *httpRepo) Cancel(ctx context.Context, id int64) error {
	if err := r.client.Patch(ctx, fmt.Sprintf("/orders/%d/cancel", id), nil, nil, nil); err != nil {
		return notFound(err)
	}
	r.logger.Info().Int64("order_id", id).Msg("order repo: cancelled")
	return nil
}

func (r *httpRepo) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	var o domain.Order
	query := url.Values{"status": {string(status)}}
	if err := r.client.Patch(ctx, fmt.Sprintf("/orders/%d/status", id), query, nil, &o); err != nil {
		return nil, notFound(err)
	}
	r.logger.Info().Int64("order_id", id).Str("status", string(status)).Msg("order repo: status updated")
	return &o, nil
}

func (r *httpRepo) Delete(ctx context.Context, id int64) error {
	if err := r.client.Delete(ctx, fmt.Sprintf("/orders/%d", id)); err != nil {
		return notFound(err)
	}
	return nil
}

func notFound(err error) error {
	if apiclient.StatusOf(err) == http.StatusNotFound {
		return domain.ErrNotFound
	}
	return err
}
