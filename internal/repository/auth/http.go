package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"capibara-storefront/internal/apiclient"
	"capibara-storefront/internal/domain"
	"github.com/rs/zerolog"
)

type httpRepo struct {
	client *apiclient.Client
	logger zerolog.Logger
}

// NewHTTP authenticates against the backend /auth endpoints.
func NewHTTP(client *apiclient.Client, logger zerolog.Logger) Repository {
	return &httpRepo{client: client, logger: logger}
}

type authResponse struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
	Token string   `json:"token"`
	Type  string   `json:"type"`
}

func (r *httpRepo) Login(ctx context.Context, in LoginInput) (*domain.Credentials, error) {
	return r.authenticate(ctx, "/auth/login", in, in.Email)
}

func (r *httpRepo) Register(ctx context.Context, in RegisterInput) (*domain.Credentials, error) {
	return r.authenticate(ctx, "/auth/register", in, in.Email)
}

func (r *httpRepo) authenticate(ctx context.Context, path string, body interface{}, email string) (*domain.Credentials, error) {
	var resp authResponse
	if err := r.client.Post(ctx, path, body, &resp); err != nil {
		r.logger.Info().Err(err).Str("path", path).Str("email", email).Msg("auth repo: rejected")
		if apiclient.StatusOf(err) == http.StatusUnauthorized {
			return nil, errors.Join(domain.ErrUnauthenticated, err)
		}
		return nil, err
	}
	if strings.TrimSpace(resp.Token) == "" {
		return nil, errors.New("auth response missing token")
	}
	return &domain.Credentials{
		User: domain.User{
			ID:    resp.ID,
			Name:  resp.Name,
			Email: resp.Email,
			Roles: resp.Roles,
		},
		Token: resp.Token,
	}, nil
}
