package order

import (
	"context"

	"capibara-storefront/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, req domain.OrderRequest) (*domain.Order, error)
	ListMine(ctx context.Context) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	Cancel(ctx context.Context, id int64) error
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error)
	Delete(ctx context.Context, id int64) error
}
