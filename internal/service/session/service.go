package session

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"capibara-storefront/internal/domain"
	authrepo "capibara-storefront/internal/repository/auth"
)

type authRepo interface {
	Login(ctx context.Context, in authrepo.LoginInput) (*domain.Credentials, error)
	Register(ctx context.Context, in authrepo.RegisterInput) (*domain.Credentials, error)
}

type Service struct {
	repo  authRepo
	store *Store
}

func NewService(repo authRepo, store *Store) *Service {
	return &Service{repo: repo, store: store}
}

func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}
	creds, err := s.repo.Login(ctx, authrepo.LoginInput{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return s.save(ctx, creds)
}

func (s *Service) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || password == "" {
		return nil, fmt.Errorf("%w: name and password are required", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", domain.ErrInvalidInput)
	}
	creds, err := s.repo.Register(ctx, authrepo.RegisterInput{Name: name, Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	return s.save(ctx, creds)
}

func (s *Service) save(ctx context.Context, creds *domain.Credentials) (*domain.User, error) {
	if err := s.store.Save(ctx, *creds); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	u := creds.User
	return &u, nil
}

func (s *Service) Logout(ctx context.Context) {
	s.store.Clear(ctx)
}

func (s *Service) Current() *domain.User {
	return s.store.CurrentUser()
}

func (s *Service) IsAuthenticated() bool {
	return s.store.IsAuthenticated()
}

func (s *Service) IsAdmin() bool {
	return s.store.IsAdmin()
}
