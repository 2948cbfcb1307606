package product

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"capibara-storefront/internal/apiclient"
	"capibara-storefront/internal/domain"
	"github.com/rs/zerolog"
)

type httpRepo struct {
	client *apiclient.Client
	logger zerolog.Logger
}

// NewHTTP reads the catalog from the backend product API.
func NewHTTP(client *apiclient.Client, logger zerolog.Logger) Repository {
	return &httpRepo{client: client, logger: logger}
}

func (r *httpRepo) List(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx, "/products", nil)
}

func (r *httpRepo) ListAvailable(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx, "/products/available", nil)
}

func (r *httpRepo) ListActive(ctx context.Context) ([]domain.Product, error) {
	return r.list(ctx, "/products/active", nil)
}

func (r *httpRepo) Search(ctx context.Context, name string) ([]domain.Product, error) {
	return r.list(ctx, "/products/search", url.Values{"name": {name}})
}

func (r *httpRepo) ListByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return r.list(ctx, "/products/category/"+url.PathEscape(category), nil)
}

func (r *httpRepo) list(ctx context.Context, path string, query url.Values) ([]domain.Product, error) {
	var products []domain.Product
	if err := r.client.Get(ctx, path, query, &products); err != nil {
		r.logger.Debug().Err(err).Str("path", path).Msg("product repo: list")
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	r.logger.Debug().Str("path", path).Int("count", len(products)).Msg("product repo: list")
	return products, nil
}

func (r *httpRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	if err := r.client.Get(ctx, productPath(id), nil, &p); err != nil {
		if apiclient.StatusOf(err) == http.StatusNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if p.ID == 0 {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r *httpRepo) Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	var p domain.Product
	if err := r.client.Post(ctx, "/products", in, &p); err != nil {
		return nil, err
	}
	r.logger.Info().Int64("product_id", p.ID).Str("name", p.Name).Msg("product created")
	return &p, nil
}

func (r *httpRepo) Update(ctx context.Context, id int64, in domain.ProductInput) (*domain.Product, error) {
	var p domain.Product
	if err := r.client.Put(ctx, productPath(id), in, &p); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *httpRepo) Delete(ctx context.Context, id int64) error {
	return notFound(r.client.Delete(ctx, productPath(id)))
}

func (r *httpRepo) Deactivate(ctx context.Context, id int64) error {
	return notFound(r.client.Patch(ctx, productPath(id)+"/deactivate", nil, nil, nil))
}

func (r *httpRepo) UpdateStock(ctx context.Context, id int64, quantity int) error {
	query := url.Values{"quantity": {strconv.Itoa(quantity)}}
	return notFound(r.client.Patch(ctx, productPath(id)+"/stock", query, nil, nil))
}

func productPath(id int64) string {
	return fmt.Sprintf("/products/%d", id)
}

// notFound maps the backend's 404 to domain.ErrNotFound, keeping other errors.
func notFound(err error) error {
	if err != nil && apiclient.StatusOf(err) == http.StatusNotFound {
		return domain.ErrNotFound
	}
	return err
}
