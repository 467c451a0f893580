package contract

import (
	"strconv"
	"time"

	"github.com/grupo8/reparafacil/internal/core/domain"
)

// --- User ---

func FromUser(u *domain.User) User {
	return User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role.Wire(),
		Phone:     u.Phone,
		AvatarURL: u.AvatarURL,
	}
}

// ToUser maps the wire user to the domain. Unknown roles become client.
func (u User) ToUser() *domain.User {
	return &domain.User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      domain.NormalizeRole(u.Role),
		Phone:     u.Phone,
		AvatarURL: u.AvatarURL,
	}
}

// --- Service ---

func FromServiceRequest(s *domain.ServiceRequest) Service {
	out := Service{
		ID:           s.ID,
		ClientID:     s.ClientID,
		TechnicianID: s.TechnicianID,
		Type:         s.Type,
		Description:  s.Description,
		Status:       s.Status.Wire(),
		RequestedAt:  formatTimestamp(s.RequestedAt),
		Address:      s.Address,
		Warranty:     s.Warranty,
	}
	if s.CompletedAt != nil {
		out.CompletedAt = formatTimestamp(*s.CompletedAt)
	}
	return out
}

func FromServiceRequests(items []*domain.ServiceRequest) []Service {
	out := make([]Service, 0, len(items))
	for _, s := range items {
		out = append(out, FromServiceRequest(s))
	}
	return out
}

// ToServiceRequest maps the wire service to the domain. Unknown statuses
// are kept verbatim; unparseable timestamps are left zero.
func (s Service) ToServiceRequest() domain.ServiceRequest {
	status, ok := domain.ParseServiceStatus(s.Status)
	if !ok {
		status = domain.ServiceStatus(s.Status)
	}
	out := domain.ServiceRequest{
		ID:           s.ID,
		ClientID:     s.ClientID,
		TechnicianID: s.TechnicianID,
		Type:         s.Type,
		Description:  s.Description,
		Status:       status,
		RequestedAt:  ParseTimestamp(s.RequestedAt),
		Address:      s.Address,
		Warranty:     s.Warranty,
	}
	if t := ParseTimestamp(s.CompletedAt); !t.IsZero() {
		out.CompletedAt = &t
	}
	return out
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// ParseTimestamp accepts RFC 3339, a bare date, or Unix milliseconds.
func ParseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	return time.Time{}
}
