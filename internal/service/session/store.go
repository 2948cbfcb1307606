package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"capibara-storefront/internal/domain"
	"github.com/rs/zerolog"
)

const (
	tokenSlot = "token"
	userSlot  = "user"
)

type slotRepo interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store keeps the bearer token and signed-in user in durable slots so a
// restart keeps the shopper logged in. It satisfies apiclient.Credentials.
type Store struct {
	mu     sync.RWMutex
	repo   slotRepo
	token  string
	user   *domain.User
	logger zerolog.Logger
	now    func() time.Time
}

func NewStore(ctx context.Context, repo slotRepo, logger zerolog.Logger) *Store {
	s := &Store{repo: repo, logger: logger, now: time.Now}
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	if s.repo == nil {
		return
	}
	raw, err := s.repo.Get(ctx, tokenSlot)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn().Err(err).Msg("read session token")
		}
		return
	}
	s.token = string(raw)

	raw, err = s.repo.Get(ctx, userSlot)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn().Err(err).Msg("read session user")
		}
		return
	}
	var u domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		s.logger.Warn().Err(err).Msg("discarding session user")
		return
	}
	s.user = &u
}

// Save replaces the session with creds.
func (s *Store) Save(ctx context.Context, creds domain.Credentials) error {
	raw, err := json.Marshal(creds.User)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.repo != nil {
		if err := s.repo.Put(ctx, tokenSlot, []byte(creds.Token)); err != nil {
			return err
		}
		if err := s.repo.Put(ctx, userSlot, raw); err != nil {
			return err
		}
	}
	u := creds.User
	s.token = creds.Token
	s.user = &u
	return nil
}

// Clear removes token and user. Slot errors are logged only.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	if s.repo == nil {
		return
	}
	for _, key := range []string{tokenSlot, userSlot} {
		if err := s.repo.Delete(ctx, key); err != nil && !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn().Err(err).Str("slot", key).Msg("clear session")
		}
	}
}

func (s *Store) BearerToken(_ context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Invalidate is called when the backend answers 401.
func (s *Store) Invalidate(ctx context.Context) {
	s.logger.Info().Msg("session rejected by backend, clearing")
	s.Clear(ctx)
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return tokenValid(s.token, s.now())
}

// CurrentUser returns the signed-in user, or nil.
func (s *Store) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil || !tokenValid(s.token, s.now()) {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) IsAdmin() bool {
	u := s.CurrentUser()
	return u != nil && u.IsAdmin()
}
