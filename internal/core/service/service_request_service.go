package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/grupo8/reparafacil/internal/core/domain"
	"github.com/grupo8/reparafacil/internal/core/ports"
	"github.com/grupo8/reparafacil/internal/metrics"
)

// AssignmentQueue accepts assignment jobs for asynchronous processing.
type AssignmentQueue interface {
	Enqueue(job ports.AssignmentJob)
}

type ServiceRequestService struct {
	repo   ports.ServiceRequestRepository
	idem   ports.IdempotencyStore
	queue  AssignmentQueue
	now    func() time.Time
	logger zerolog.Logger
}

var _ ports.ServiceRequestService = (*ServiceRequestService)(nil)

// NewServiceRequestService wires the use case. idem and queue may be nil:
// without idem Idempotency-Key is ignored, without queue requests stay
// pending until assigned by other means.
func NewServiceRequestService(repo ports.ServiceRequestRepository, idem ports.IdempotencyStore, queue AssignmentQueue, logger zerolog.Logger) *ServiceRequestService {
	return &ServiceRequestService{
		repo:   repo,
		idem:   idem,
		queue:  queue,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
}

// Create raises a pending request for a client. If an idempotency key is
// provided and already seen, the previously created request is returned
// without side effects. A key whose first create is still running yields
// domain.ErrRequestInFlight.
func (s *ServiceRequestService) Create(ctx context.Context, in ports.CreateServiceInput) (*ports.CreateServiceResult, error) {
	if in.Caller.Role != domain.RoleClient {
		return nil, domain.ErrForbidden
	}

	existing, owned, err := s.claim(ctx, in)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &ports.CreateServiceResult{Request: existing, AlreadyExisted: true}, nil
	}

	req := &domain.ServiceRequest{
		ClientID:       in.Caller.UserID,
		Type:           strings.TrimSpace(in.Type),
		Description:    strings.TrimSpace(in.Description),
		Address:        strings.TrimSpace(in.Address),
		Status:         domain.StatusPending,
		RequestedAt:    s.now(),
		IdempotencyKey: in.IdempotencyKey,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		s.logger.Error().Err(err).Msg("failed to create service request")
		if owned {
			s.release(ctx, in.IdempotencyKey)
		}
		return nil, err
	}

	if owned {
		if err := s.idem.Remember(ctx, in.IdempotencyKey, req.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("failed to remember idempotency key")
		}
	}

	metrics.ServiceRequestsCreatedTotal.WithLabelValues(req.Type).Inc()
	s.logger.Info().Int64("service_id", req.ID).Int64("client_id", req.ClientID).Str("type", req.Type).Msg("service request created")

	if s.queue != nil {
		s.queue.Enqueue(ports.AssignmentJob{ServiceID: req.ID})
	}
	return &ports.CreateServiceResult{Request: req}, nil
}

// claim reserves the idempotency key for a new create. When the key is
// taken it returns the request it produced, or ErrRequestInFlight while that
// request is still being created. owned reports whether this call holds the
// reservation. An unreachable store never blocks the create.
func (s *ServiceRequestService) claim(ctx context.Context, in ports.CreateServiceInput) (existing *domain.ServiceRequest, owned bool, err error) {
	if s.idem == nil || in.IdempotencyKey == "" {
		return nil, false, nil
	}
	key := in.IdempotencyKey
	log := s.logger.With().Str("idempotency_key", key).Logger()

	reserved, err := s.idem.Reserve(ctx, key)
	if err != nil {
		log.Warn().Err(err).Msg("idempotency reserve failed, creating anyway")
		return nil, false, nil
	}
	if reserved {
		return nil, true, nil
	}

	id, ok, err := s.idem.Lookup(ctx, key)
	if err != nil {
		log.Warn().Err(err).Msg("idempotency lookup failed, creating anyway")
		return nil, false, nil
	}
	if !ok {
		// Released or expired since the reservation attempt.
		return nil, false, nil
	}
	if id == 0 {
		return nil, false, domain.ErrRequestInFlight
	}
	found, err := s.repo.FindByID(ctx, id)
	if err != nil || found.ClientID != in.Caller.UserID {
		return nil, false, nil
	}
	log.Info().Int64("service_id", id).Msg("idempotent replay")
	return found, false, nil
}

func (s *ServiceRequestService) release(ctx context.Context, key string) {
	if err := s.idem.Release(context.WithoutCancel(ctx), key); err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to release idempotency key")
	}
}

// Get returns a request visible to the caller: its client, or its technician.
func (s *ServiceRequestService) Get(ctx context.Context, caller ports.Caller, id int64) (*domain.ServiceRequest, error) {
	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !visibleTo(req, caller) {
		return nil, domain.ErrServiceNotFound
	}
	return req, nil
}

// List returns the client's own requests, or those assigned to the technician.
func (s *ServiceRequestService) List(ctx context.Context, caller ports.Caller) ([]*domain.ServiceRequest, error) {
	var filter ports.ListServiceRequestsFilter
	switch caller.Role {
	case domain.RoleClient:
		filter.ClientID = caller.UserID
	case domain.RoleTechnician:
		filter.TechnicianID = caller.UserID
	default:
		return nil, domain.ErrForbidden
	}
	return s.repo.List(ctx, filter)
}

// UpdateStatus advances a request. Only the assigned technician may move it
// forward; completion stamps completed-at and grants the warranty.
func (s *ServiceRequestService) UpdateStatus(ctx context.Context, in ports.UpdateServiceInput) (*domain.ServiceRequest, error) {
	req, err := s.Get(ctx, in.Caller, in.ID)
	if err != nil {
		return nil, err
	}
	if in.Caller.Role != domain.RoleTechnician || !req.AssignedTo(in.Caller.UserID) {
		return nil, domain.ErrForbidden
	}
	if !req.Status.CanTransitionTo(in.Status) {
		return nil, fmt.Errorf("%w (from %s to %s)", domain.ErrInvalidTransition, req.Status, in.Status)
	}

	change := ports.StatusChange{From: req.Status, To: in.Status}
	if in.Status == domain.StatusCompleted {
		done := s.now()
		change.CompletedAt = &done
		change.Warranty = true
	}
	if err := s.repo.UpdateStatus(ctx, req.ID, change); err != nil {
		return nil, err
	}

	metrics.StatusTransitionsTotal.WithLabelValues(string(in.Status)).Inc()
	s.logger.Info().
		Int64("service_id", req.ID).
		Str("from", string(req.Status)).
		Str("to", string(in.Status)).
		Msg("status updated")

	return s.repo.FindByID(ctx, req.ID)
}

func visibleTo(req *domain.ServiceRequest, caller ports.Caller) bool {
	switch caller.Role {
	case domain.RoleClient:
		return req.ClientID == caller.UserID
	case domain.RoleTechnician:
		return req.AssignedTo(caller.UserID)
	default:
		return false
	}
}
