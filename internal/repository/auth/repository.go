package auth

import (
	"context"

	"capibara-storefront/internal/domain"
)

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Repository interface {
	Login(ctx context.Context, in LoginInput) (*domain.Credentials, error)
	Register(ctx context.Context, in RegisterInput) (*domain.Credentials, error)
}
