package category

import (
	"context"
	"sort"
	"strings"

	"capibara-storefront/internal/domain"
)

type productLister interface {
	List(ctx context.Context) ([]domain.Product, error)
}

// Service derives the category list from the catalog; the backend has no
// category resource of its own.
type Service struct {
	products productLister
}

func New(products productLister) *Service {
	return &Service{products: products}
}

func (s *Service) List(ctx context.Context) ([]string, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	out := []string{}
	for _, p := range products {
		c := strings.TrimSpace(p.Category)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}
