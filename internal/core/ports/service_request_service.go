package ports

import (
	"context"

	"github.com/grupo8/reparafacil/internal/core/domain"
)

// Caller identifies the authenticated account behind a request.
type Caller struct {
	UserID int64
	Role   domain.Role
}

// CreateServiceInput carries all data needed to raise a repair request.
type CreateServiceInput struct {
	Caller         Caller
	Type           string
	Description    string
	Address        string
	IdempotencyKey string
}

// UpdateServiceInput carries a status change requested by a caller.
type UpdateServiceInput struct {
	Caller Caller
	ID     int64
	Status domain.ServiceStatus
}

// CreateServiceResult is returned after raising a request.
type CreateServiceResult struct {
	Request *domain.ServiceRequest
	// AlreadyExisted is true when the Idempotency-Key matched an existing request.
	AlreadyExisted bool
}

// ServiceRequestService defines the sandbox use cases for repair requests.
type ServiceRequestService interface {
	Create(ctx context.Context, in CreateServiceInput) (*CreateServiceResult, error)
	Get(ctx context.Context, caller Caller, id int64) (*domain.ServiceRequest, error)
	List(ctx context.Context, caller Caller) ([]*domain.ServiceRequest, error)
	UpdateStatus(ctx context.Context, in UpdateServiceInput) (*domain.ServiceRequest, error)
}

// AssignmentJob asks for a technician to be assigned to a pending request.
type AssignmentJob struct {
	ServiceID int64
}

// AssignmentService processes assignment jobs.
type AssignmentService interface {
	Process(ctx context.Context, job AssignmentJob) error
}
