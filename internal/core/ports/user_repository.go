package ports

import (
	"context"

	"github.com/grupo8/reparafacil/internal/core/domain"
)

// UserRepository defines persistence of sandbox accounts.
type UserRepository interface {
	// Create stores a new account and returns it with its server-assigned ID.
	// Returns domain.ErrUserExists when the email is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)
}
