package order

import (
	"context"
	"fmt"
	"strings"

	"capibara-storefront/internal/domain"
	orderrepo "capibara-storefront/internal/repository/order"
)

type Service struct {
	repo orderrepo.Repository
}

func New(repo orderrepo.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Place(ctx context.Context, req domain.OrderRequest) (*domain.Order, error) {
	return s.repo.Create(ctx, req)
}

func (s *Service) Mine(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListMine(ctx)
}

func (s *Service) All(ctx context.Context) ([]domain.Order, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Order, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: order id must be positive", domain.ErrInvalidInput)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Cancel(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: order id must be positive", domain.ErrInvalidInput)
	}
	return s.repo.Cancel(ctx, id)
}

// UpdateStatus accepts the status case-insensitively.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Order, error) {
	st := domain.OrderStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !st.Valid() {
		return nil, fmt.Errorf("%w: unknown order status %q", domain.ErrInvalidInput, status)
	}
	if id <= 0 {
		return nil, fmt.Errorf("%w: order id must be positive", domain.ErrInvalidInput)
	}
	return s.repo.UpdateStatus(ctx, id, st)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: order id must be positive", domain.ErrInvalidInput)
	}
	return s.repo.Delete(ctx, id)
}
