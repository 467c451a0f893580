package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/grupo8/reparafacil/internal/core/domain"
	"github.com/grupo8/reparafacil/internal/core/ports"
	"github.com/grupo8/reparafacil/internal/metrics"
)

type assignmentService struct {
	users    ports.UserRepository
	requests ports.ServiceRequestRepository
	log      zerolog.Logger
}

// NewAssignmentService returns an AssignmentService implementation.
func NewAssignmentService(users ports.UserRepository, requests ports.ServiceRequestRepository, log zerolog.Logger) ports.AssignmentService {
	return &assignmentService{users: users, requests: requests, log: log}
}

// Process assigns the least-loaded technician to a pending request.
// Requests that are no longer pending are skipped.
func (s *assignmentService) Process(ctx context.Context, job ports.AssignmentJob) error {
	start := time.Now()
	defer func() { metrics.AssignmentDuration.Observe(time.Since(start).Seconds()) }()

	// 1. Only pending requests are assignable.
	req, err := s.requests.FindByID(ctx, job.ServiceID)
	if err != nil {
		metrics.AssignmentsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("assign: %w", err)
	}
	if req.Status != domain.StatusPending {
		metrics.AssignmentsTotal.WithLabelValues("skipped").Inc()
		s.log.Debug().Int64("service_id", req.ID).Str("status", string(req.Status)).Msg("request no longer pending")
		return nil
	}

	// 2. Pick the technician with the fewest active requests.
	techID, err := s.pickTechnician(ctx)
	if errors.Is(err, domain.ErrNoTechnicianAvailable) {
		metrics.AssignmentsTotal.WithLabelValues("no_technician").Inc()
		s.log.Warn().Int64("service_id", req.ID).Msg("no technician available, request stays pending")
		return nil
	}
	if err != nil {
		metrics.AssignmentsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("assign: %w", err)
	}

	// 3. Conditional write: pending → assigned.
	if err := s.requests.Assign(ctx, req.ID, techID); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			metrics.AssignmentsTotal.WithLabelValues("skipped").Inc()
			return nil
		}
		metrics.AssignmentsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("assign: %w", err)
	}

	metrics.AssignmentsTotal.WithLabelValues("assigned").Inc()
	metrics.StatusTransitionsTotal.WithLabelValues(string(domain.StatusAssigned)).Inc()
	s.log.Info().Int64("service_id", req.ID).Int64("technician_id", techID).Msg("technician assigned")
	return nil
}

// pickTechnician returns the technician with the fewest active requests;
// ties go to the lowest id.
func (s *assignmentService) pickTechnician(ctx context.Context) (int64, error) {
	techs, err := s.users.ListByRole(ctx, domain.RoleTechnician)
	if err != nil {
		return 0, err
	}
	if len(techs) == 0 {
		return 0, domain.ErrNoTechnicianAvailable
	}
	load, err := s.requests.CountActiveByTechnician(ctx)
	if err != nil {
		return 0, err
	}

	best := techs[0]
	for _, t := range techs[1:] {
		if load[t.ID] < load[best.ID] || (load[t.ID] == load[best.ID] && t.ID < best.ID) {
			best = t
		}
	}
	return best.ID, nil
}
