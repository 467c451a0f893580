package ports

import (
	"context"

	"github.com/grupo8/reparafacil/internal/core/domain"
)

// SessionWorkflow is the client-side auth repository: the only writer of
// the SessionStore.
type SessionWorkflow interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Session, error)
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	FetchProfile(ctx context.Context) (*domain.User, error)
	Logout(ctx context.Context) error
	SaveAvatarRef(ctx context.Context, userID int64, uri string) error
	// SavedUser and AvatarRef read once and report storage failures, unlike
	// the Watch methods which skip unreadable states.
	SavedUser(ctx context.Context) (*domain.User, error)
	AvatarRef(ctx context.Context, userID int64) (string, error)
	WatchAvatarRef(ctx context.Context, userID int64) <-chan string
	WatchSavedUser(ctx context.Context) <-chan *domain.User
}

// ServicesRepository is the client-side access to repair requests.
type ServicesRepository interface {
	List(ctx context.Context) ([]domain.ServiceRequest, error)
	Create(ctx context.Context, serviceType, description, address string) (*domain.ServiceRequest, error)
	Get(ctx context.Context, id int64) (*domain.ServiceRequest, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ServiceStatus) (*domain.ServiceRequest, error)
}
