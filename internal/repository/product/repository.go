package product

import (
	"context"

	"capibara-storefront/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	ListAvailable(ctx context.Context) ([]domain.Product, error)
	Search(ctx context.Context, name string) ([]domain.Product, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Product, error)
	ListActive(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)

	// Admin operations; the backend enforces ROLE_ADMIN.
	Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, in domain.ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	Deactivate(ctx context.Context, id int64) error
	UpdateStock(ctx context.Context, id int64, quantity int) error
}
