package ports

import (
	"context"

	"github.com/grupo8/reparafacil/internal/core/domain"
)

// SessionStore persists the current session on the device.
//
// Watch methods emit the current value first and then every change; they
// close when ctx is cancelled. An empty string or a nil user means absent.
type SessionStore interface {
	SaveSession(ctx context.Context, token string, user domain.User) error
	SaveToken(ctx context.Context, token string) error
	Token(ctx context.Context) (string, error)
	WatchToken(ctx context.Context) <-chan string
	SavedUser(ctx context.Context) (*domain.User, error)
	WatchSavedUser(ctx context.Context) <-chan *domain.User
	SaveAvatarRef(ctx context.Context, userID int64, uri string) error
	AvatarRef(ctx context.Context, userID int64) (string, error)
	WatchAvatarRef(ctx context.Context, userID int64) <-chan string
	// ClearSession removes the token and user fields. Avatar references stay.
	ClearSession(ctx context.Context) error
}
