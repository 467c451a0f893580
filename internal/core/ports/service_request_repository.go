package ports

import (
	"context"
	"time"

	"github.com/grupo8/reparafacil/internal/core/domain"
)

// ListServiceRequestsFilter selects requests for a listing.
// Zero values mean "no filter".
type ListServiceRequestsFilter struct {
	ClientID     int64
	TechnicianID int64
	Status       domain.ServiceStatus
}

// StatusChange describes a conditional status update.
type StatusChange struct {
	From        domain.ServiceStatus
	To          domain.ServiceStatus
	CompletedAt *time.Time
	Warranty    bool
}

// ServiceRequestRepository defines persistence operations for repair requests.
type ServiceRequestRepository interface {
	// Create stores the request and sets its server-assigned ID.
	Create(ctx context.Context, s *domain.ServiceRequest) error
	FindByID(ctx context.Context, id int64) (*domain.ServiceRequest, error)
	List(ctx context.Context, filter ListServiceRequestsFilter) ([]*domain.ServiceRequest, error)
	// CountActiveByTechnician returns the number of assigned or in-progress
	// requests per technician ID.
	CountActiveByTechnician(ctx context.Context) (map[int64]int, error)
	// Assign sets the technician and moves the request from pending to
	// assigned. Returns domain.ErrInvalidTransition if it is no longer pending.
	Assign(ctx context.Context, id, technicianID int64) error
	// UpdateStatus applies change only if the current status equals change.From.
	UpdateStatus(ctx context.Context, id int64, change StatusChange) error
}

// IdempotencyStore remembers which request an Idempotency-Key produced.
//
// A create first claims the key with Reserve, then records the new id with
// Remember, or gives the key back with Release when the create fails. Lookup
// reports id 0 for a key that is reserved but not yet remembered.
type IdempotencyStore interface {
	Reserve(ctx context.Context, key string) (bool, error)
	Lookup(ctx context.Context, key string) (int64, bool, error)
	Remember(ctx context.Context, key string, serviceID int64) error
	Release(ctx context.Context, key string) error
}
