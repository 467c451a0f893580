package ports

import (
	"context"

	"github.com/grupo8/reparafacil/internal/core/domain"
)

// RegisterInput carries the fields of a signup.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     domain.Role
}

// AuthService is the sandbox account use case: it issues bearer tokens.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Profile(ctx context.Context, userID int64) (*domain.User, error)
}
