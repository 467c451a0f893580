package domain

import (
	"strings"
	"time"
)

// ServiceStatus represents the lifecycle state of a repair request.
type ServiceStatus string

const (
	StatusPending    ServiceStatus = "pending"
	StatusAssigned   ServiceStatus = "assigned"
	StatusInProgress ServiceStatus = "in_progress"
	StatusCompleted  ServiceStatus = "completed"
)

// validTransitions defines the allowed state machine transitions.
var validTransitions = map[ServiceStatus][]ServiceStatus{
	StatusPending:    {StatusAssigned},
	StatusAssigned:   {StatusInProgress},
	StatusInProgress: {StatusCompleted},
}

var wireStatus = map[ServiceStatus]string{
	StatusPending:    "pendiente",
	StatusAssigned:   "asignado",
	StatusInProgress: "en_proceso",
	StatusCompleted:  "completado",
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s ServiceStatus) CanTransitionTo(next ServiceStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Active reports whether a technician is still working on the request.
func (s ServiceStatus) Active() bool {
	return s == StatusAssigned || s == StatusInProgress
}

// Wire returns the backend spelling of the status.
func (s ServiceStatus) Wire() string {
	if w, ok := wireStatus[s]; ok {
		return w
	}
	return string(s)
}

// ParseServiceStatus accepts both spellings of a status.
func ParseServiceStatus(s string) (ServiceStatus, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for st, w := range wireStatus {
		if s == string(st) || s == w {
			return st, true
		}
	}
	return "", false
}

// ServiceRequest is a repair request raised by a client.
type ServiceRequest struct {
	ID             int64         `json:"id" bson:"_id"`
	ClientID       int64         `json:"client_id" bson:"client_id"`
	TechnicianID   *int64        `json:"technician_id,omitempty" bson:"technician_id,omitempty"`
	Type           string        `json:"type" bson:"type"`
	Description    string        `json:"description" bson:"description"`
	Status         ServiceStatus `json:"status" bson:"status"`
	RequestedAt    time.Time     `json:"requested_at" bson:"requested_at"`
	CompletedAt    *time.Time    `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	Address        string        `json:"address" bson:"address"`
	Warranty       bool          `json:"warranty" bson:"warranty"`
	IdempotencyKey string        `json:"-" bson:"idempotency_key,omitempty"`
}

// AssignedTo reports whether the request is assigned to the given technician.
func (s *ServiceRequest) AssignedTo(technicianID int64) bool {
	return s.TechnicianID != nil && *s.TechnicianID == technicianID
}
