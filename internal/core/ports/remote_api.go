package ports

import (
	"context"

	"github.com/grupo8/reparafacil/internal/core/domain"
)

// SignupInput is the payload of a remote signup.
type SignupInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
	Role     domain.Role
}

// AuthResult is what the backend answers to signup and login.
// User is nil when the backend omits it.
type AuthResult struct {
	Token  string
	User   *domain.User
	UserID int64
}

// NewServiceInput is the payload of a remote service request creation.
type NewServiceInput struct {
	Type           string
	Description    string
	Address        string
	IdempotencyKey string
}

// ServicePatch is the payload of a remote service request update.
type ServicePatch struct {
	Status       domain.ServiceStatus
	TechnicianID *int64
}

// RemoteAPI is the backend as seen from the client.
//
// Errors are *domain.TransportError or *domain.RemoteRejection.
type RemoteAPI interface {
	Signup(ctx context.Context, in SignupInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	GetMyProfile(ctx context.Context, token string) (*domain.User, error)
	ListServices(ctx context.Context, token string) ([]domain.ServiceRequest, error)
	CreateService(ctx context.Context, token string, in NewServiceInput) (*domain.ServiceRequest, error)
	GetService(ctx context.Context, token string, id int64) (*domain.ServiceRequest, error)
	UpdateService(ctx context.Context, token string, id int64, patch ServicePatch) (*domain.ServiceRequest, error)
}
