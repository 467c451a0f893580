package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/grupo8/reparafacil/internal/core/domain"
	"github.com/grupo8/reparafacil/internal/core/ports"
)

type ServiceRequestRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*domain.ServiceRequest
}

var _ ports.ServiceRequestRepository = (*ServiceRequestRepository)(nil)

func NewServiceRequestRepository() *ServiceRequestRepository {
	return &ServiceRequestRepository{byID: make(map[int64]*domain.ServiceRequest)}
}

func cloneRequest(s *domain.ServiceRequest) *domain.ServiceRequest {
	clone := *s
	if s.TechnicianID != nil {
		id := *s.TechnicianID
		clone.TechnicianID = &id
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		clone.CompletedAt = &t
	}
	return &clone
}

func (r *ServiceRequestRepository) Create(_ context.Context, s *domain.ServiceRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	s.ID = r.nextID
	r.byID[s.ID] = cloneRequest(s)
	return nil
}

func (r *ServiceRequestRepository) FindByID(_ context.Context, id int64) (*domain.ServiceRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrServiceNotFound
	}
	return cloneRequest(s), nil
}

// List returns the matching requests, newest first.
func (r *ServiceRequestRepository) List(_ context.Context, f ports.ListServiceRequestsFilter) ([]*domain.ServiceRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.ServiceRequest, 0)
	for _, s := range r.byID {
		if f.ClientID != 0 && s.ClientID != f.ClientID {
			continue
		}
		if f.TechnicianID != 0 && !s.AssignedTo(f.TechnicianID) {
			continue
		}
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		out = append(out, cloneRequest(s))
	}
	slices.SortFunc(out, func(a, b *domain.ServiceRequest) int { return cmpID(b.ID, a.ID) })
	return out, nil
}

func (r *ServiceRequestRepository) CountActiveByTechnician(_ context.Context) (map[int64]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	load := make(map[int64]int)
	for _, s := range r.byID {
		if s.TechnicianID != nil && s.Status.Active() {
			load[*s.TechnicianID]++
		}
	}
	return load, nil
}

func (r *ServiceRequestRepository) Assign(_ context.Context, id, technicianID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok {
		return domain.ErrServiceNotFound
	}
	if s.Status != domain.StatusPending {
		return fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, s.Status, domain.StatusAssigned)
	}
	s.TechnicianID = &technicianID
	s.Status = domain.StatusAssigned
	return nil
}

func (r *ServiceRequestRepository) UpdateStatus(_ context.Context, id int64, change ports.StatusChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.byID[id]
	if !ok {
		return domain.ErrServiceNotFound
	}
	if s.Status != change.From {
		return fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, s.Status, change.To)
	}
	s.Status = change.To
	if change.CompletedAt != nil {
		t := *change.CompletedAt
		s.CompletedAt = &t
	}
	if change.Warranty {
		s.Warranty = true
	}
	return nil
}
