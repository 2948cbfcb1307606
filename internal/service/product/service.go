package product

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"capibara-storefront/internal/domain"
	productrepo "capibara-storefront/internal/repository/product"
	"golang.org/x/sync/singleflight"
)

type Service struct {
	repo productrepo.Repository
	sfg  singleflight.Group
}

func New(repo productrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Filter selects which catalog listing to read. Query wins over Category,
// then Available, then Active.
type Filter struct {
	Query     string
	Category  string
	Available bool
	Active    bool
}

func (s *Service) List(ctx context.Context, f Filter) ([]domain.Product, error) {
	switch {
	case strings.TrimSpace(f.Query) != "":
		return s.repo.Search(ctx, strings.TrimSpace(f.Query))
	case strings.TrimSpace(f.Category) != "":
		return s.repo.ListByCategory(ctx, strings.TrimSpace(f.Category))
	case f.Available:
		return s.repo.ListAvailable(ctx)
	case f.Active:
		return s.repo.ListActive(ctx)
	default:
		return s.repo.List(ctx)
	}
}

// Get coalesces concurrent lookups of the same product into one backend call.
func (s *Service) Get(ctx context.Context, id int64) (*domain.Product, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	// The shared lookup outlives any single caller; each caller still stops
	// waiting when its own ctx ends.
	shared := context.WithoutCancel(ctx)
	ch := s.sfg.DoChan(strconv.FormatInt(id, 10), func() (interface{}, error) {
		return s.repo.GetByID(shared, id)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		p := *res.Val.(*domain.Product)
		return &p, nil
	}
}

func (s *Service) Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	in, err := validateInput(in)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, in)
}

func (s *Service) Update(ctx context.Context, id int64, in domain.ProductInput) (*domain.Product, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	in, err := validateInput(in)
	if err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, in)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := validateID(id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if err := validateID(id); err != nil {
		return err
	}
	return s.repo.Deactivate(ctx, id)
}

// UpdateStock sets the absolute stock level.
func (s *Service) UpdateStock(ctx context.Context, id int64, quantity int) error {
	if err := validateID(id); err != nil {
		return err
	}
	if quantity < 0 {
		return fmt.Errorf("%w: stock cannot be negative", domain.ErrInvalidInput)
	}
	return s.repo.UpdateStock(ctx, id, quantity)
}

func validateID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: product id must be positive", domain.ErrInvalidInput)
	}
	return nil
}

func validateInput(in domain.ProductInput) (domain.ProductInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	switch {
	case in.Name == "":
		return in, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	case !in.Price.IsPositive():
		return in, fmt.Errorf("%w: price must be greater than 0", domain.ErrInvalidInput)
	case in.Stock < 0:
		return in, fmt.Errorf("%w: stock cannot be negative", domain.ErrInvalidInput)
	}
	return in, nil
}

// CheckStock reports whether requested more units may join the inCart units
// already held.
func CheckStock(p domain.Product, inCart, requested int) error {
	if !p.Active {
		return fmt.Errorf("%w: %s is not available", domain.ErrInsufficientStock, p.Name)
	}
	if requested < 1 {
		return fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
	}
	if requested > p.Stock-inCart {
		return fmt.Errorf("%w: %s has %d left", domain.ErrInsufficientStock, p.Name, p.Stock)
	}
	return nil
}
