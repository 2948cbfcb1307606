package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"capibara-storefront/internal/domain"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type slotRepo interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Store owns the shopper's cart. Every mutation is applied through Reduce and
// then written to the slot before the call returns.
type Store struct {
	mu     sync.RWMutex
	state  domain.CartState
	repo   slotRepo
	key    string
	logger zerolog.Logger
}

// NewStore restores the cart from slot key once. A missing, unreadable or
// invalid snapshot yields an empty cart.
func NewStore(ctx context.Context, repo slotRepo, key string, logger zerolog.Logger) *Store {
	s := &Store{
		state:  domain.CartState{Items: []domain.CartLine{}},
		repo:   repo,
		key:    key,
		logger: logger,
	}
	s.state = Reduce(s.state, Load{State: s.restore(ctx)})
	return s
}

func (s *Store) restore(ctx context.Context) domain.CartState {
	empty := domain.CartState{Items: []domain.CartLine{}}
	if s.repo == nil {
		return empty
	}
	raw, err := s.repo.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn().Err(err).Str("slot", s.key).Msg("read cart snapshot")
		}
		return empty
	}
	state, err := Decode(raw)
	if err != nil {
		s.logger.Warn().Err(err).Str("slot", s.key).Msg("discarding cart snapshot")
		return empty
	}
	return state
}

// AddItem adds quantity units of product. Quantities below 1 count as 1.
func (s *Store) AddItem(ctx context.Context, product domain.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	s.dispatch(ctx, Add{Line: domain.CartLine{
		ID:        product.ID,
		Title:     product.Name,
		UnitPrice: product.Price,
		Image:     product.ImageURL,
		Quantity:  quantity,
	}})
}

func (s *Store) RemoveItem(ctx context.Context, id int64) {
	s.dispatch(ctx, Remove{ID: id})
}

func (s *Store) SetQuantity(ctx context.Context, id int64, quantity int) {
	s.dispatch(ctx, SetQuantity{ID: id, Quantity: quantity})
}

func (s *Store) Clear(ctx context.Context) {
	s.dispatch(ctx, Clear{})
}

func (s *Store) dispatch(ctx context.Context, action Action) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Reduce(s.state, action)
	s.persist(ctx)
}

// persist must be called with mu held. Failures are logged, the in-memory
// state stays authoritative.
func (s *Store) persist(ctx context.Context) {
	if s.repo == nil {
		return
	}
	raw, err := Encode(s.state)
	if err != nil {
		s.logger.Warn().Err(err).Msg("encode cart snapshot")
		return
	}
	if err := s.repo.Put(ctx, s.key, raw); err != nil {
		s.logger.Warn().Err(err).Str("slot", s.key).Msg("write cart snapshot")
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() domain.CartState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *Store) Lines() []domain.CartLine {
	return s.Snapshot().Items
}

// Line returns the line for id, if present.
func (s *Store) Line(id int64) (domain.CartLine, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if idx := s.state.Find(id); idx >= 0 {
		return s.state.Items[idx], true
	}
	return domain.CartLine{}, false
}

func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.TotalItems()
}

func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.TotalPrice()
}

func (s *Store) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.Items) == 0
}

// Encode serializes state as the persisted snapshot.
func Encode(state domain.CartState) ([]byte, error) {
	return json.Marshal(state.Clone())
}

// Decode parses a snapshot and rejects one that could not have been produced
// by the reducer.
func Decode(raw []byte) (domain.CartState, error) {
	var state domain.CartState
	if err := json.Unmarshal(raw, &state); err != nil {
		return domain.CartState{}, fmt.Errorf("decode cart snapshot: %w", err)
	}
	seen := make(map[int64]struct{}, len(state.Items))
	for _, l := range state.Items {
		if _, dup := seen[l.ID]; dup {
			return domain.CartState{}, fmt.Errorf("%w: duplicate line %d", domain.ErrInvalidInput, l.ID)
		}
		seen[l.ID] = struct{}{}
		if l.Quantity < 1 {
			return domain.CartState{}, fmt.Errorf("%w: line %d quantity %d", domain.ErrInvalidInput, l.ID, l.Quantity)
		}
		if l.UnitPrice.IsNegative() {
			return domain.CartState{}, fmt.Errorf("%w: line %d negative price", domain.ErrInvalidInput, l.ID)
		}
	}
	return state.Clone(), nil
}
