package product

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"capibara-storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	calls    []string
	getCalls int32
	entered  chan struct{}
	release  chan struct{}
	sawErr   error
	product  *domain.Product
	err      error
}

func (s *stubRepo) List(context.Context) ([]domain.Product, error) {
	s.calls = append(s.calls, "list")
	return nil, nil
}

func (s *stubRepo) ListAvailable(context.Context) ([]domain.Product, error) {
	s.calls = append(s.calls, "available")
	return nil, nil
}

func (s *stubRepo) Search(_ context.Context, name string) ([]domain.Product, error) {
	s.calls = append(s.calls, "search:"+name)
	return nil, nil
}

func (s *stubRepo) ListByCategory(_ context.Context, c string) ([]domain.Product, error) {
	s.calls = append(s.calls, "category:"+c)
	return nil, nil
}

func (s *stubRepo) ListActive(context.Context) ([]domain.Product, error) {
	s.calls = append(s.calls, "active")
	return nil, nil
}

func (s *stubRepo) GetByID(ctx context.Context, _ int64) (*domain.Product, error) {
	atomic.AddInt32(&s.getCalls, 1)
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
	s.sawErr = ctx.Err()
	return s.product, s.err
}

func (s *stubRepo) Create(_ context.Context, in domain.ProductInput) (*domain.Product, error) {
	s.calls = append(s.calls, "create:"+in.Name)
	return &domain.Product{ID: 1, Name: in.Name}, nil
}

func (s *stubRepo) Update(_ context.Context, id int64, in domain.ProductInput) (*domain.Product, error) {
	s.calls = append(s.calls, "update:"+in.Name)
	return &domain.Product{ID: id, Name: in.Name}, nil
}

func (s *stubRepo) Delete(context.Context, int64) error {
	s.calls = append(s.calls, "delete")
	return nil
}

func (s *stubRepo) Deactivate(context.Context, int64) error {
	s.calls = append(s.calls, "deactivate")
	return nil
}

func (s *stubRepo) UpdateStock(_ context.Context, _ int64, quantity int) error {
	s.calls = append(s.calls, fmt.Sprintf("stock:%d", quantity))
	return nil
}

func TestService_ListDispatch(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)
	ctx := context.Background()

	_, _ = svc.List(ctx, Filter{})
	_, _ = svc.List(ctx, Filter{Available: true})
	_, _ = svc.List(ctx, Filter{Active: true})
	_, _ = svc.List(ctx, Filter{Available: true, Active: true})
	_, _ = svc.List(ctx, Filter{Category: " Tazas ", Available: true})
	_, _ = svc.List(ctx, Filter{Query: "mug", Category: "Tazas"})

	assert.Equal(t, []string{"list", "available", "active", "available", "category:Tazas", "search:mug"}, repo.calls)
}

func TestService_GetCoalescesConcurrentLookups(t *testing.T) {
	repo := &stubRepo{product: &domain.Product{ID: 1, Name: "Mug"}, release: make(chan struct{})}
	svc := New(repo)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := svc.Get(context.Background(), 1)
			assert.NoError(t, err)
			assert.Equal(t, "Mug", p.Name)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(repo.release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&repo.getCalls))
}

func TestService_GetRejectsBadID(t *testing.T) {
	_, err := New(&stubRepo{}).Get(context.Background(), 0)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCheckStock(t *testing.T) {
	p := domain.Product{Name: "Mug", Stock: 3, Active: true}

	assert.NoError(t, CheckStock(p, 0, 3))
	assert.NoError(t, CheckStock(p, 2, 1))
	assert.ErrorIs(t, CheckStock(p, 2, 2), domain.ErrInsufficientStock)
	assert.ErrorIs(t, CheckStock(domain.Product{Stock: 0, Active: true}, 0, 1), domain.ErrInsufficientStock)
	assert.ErrorIs(t, CheckStock(domain.Product{Stock: 10}, 0, 1), domain.ErrInsufficientStock)
	assert.ErrorIs(t, CheckStock(p, 0, 0), domain.ErrInvalidInput)
}

func TestCheckStock_HugeRequestDoesNotWrap(t *testing.T) {
	p := domain.Product{Name: "Mug", Stock: 3, Active: true}

	assert.ErrorIs(t, CheckStock(p, 1, math.MaxInt), domain.ErrInsufficientStock)
	assert.ErrorIs(t, CheckStock(p, math.MaxInt, 1), domain.ErrInsufficientStock)
}

func TestService_GetSurvivesFirstCallerCancelling(t *testing.T) {
	repo := &stubRepo{
		product: &domain.Product{ID: 1, Name: "Mug"},
		entered: make(chan struct{}, 2),
		release: make(chan struct{}),
	}
	svc := New(repo)

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := svc.Get(ctx, 1)
		first <- err
	}()
	<-repo.entered
	cancel()
	assert.ErrorIs(t, <-first, context.Canceled)

	close(repo.release)
	p, err := svc.Get(context.Background(), 1)

	require.NoError(t, err)
	assert.Equal(t, "Mug", p.Name)
	assert.NoError(t, repo.sawErr)
}

func TestService_AdminValidation(t *testing.T) {
	repo := &stubRepo{}
	svc := New(repo)
	ctx := context.Background()
	in := domain.ProductInput{Name: " Taza ", Price: decimal.NewFromInt(4990), Stock: 2}

	created, err := svc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "Taza", created.Name)

	_, err = svc.Create(ctx, domain.ProductInput{Name: "x", Price: decimal.Zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.Create(ctx, domain.ProductInput{Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = svc.Update(ctx, 0, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.UpdateStock(ctx, 3, -1), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.Delete(ctx, -2), domain.ErrInvalidInput)

	_, err = svc.Update(ctx, 3, in)
	require.NoError(t, err)
	require.NoError(t, svc.UpdateStock(ctx, 3, 0))
	require.NoError(t, svc.Deactivate(ctx, 3))
	require.NoError(t, svc.Delete(ctx, 3))

	assert.Equal(t, []string{"create:Taza", "update:Taza", "stock:0", "deactivate", "delete"}, repo.calls)
}
