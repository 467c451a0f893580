package domain

import (
	"strings"
	"time"
)

// Role is the marketplace role of an account.
type Role string

const (
	RoleClient     Role = "client"
	RoleTechnician Role = "technician"
)

// ParseRole accepts both the English names and the backend spelling
// ("cliente", "tecnico"). An empty string yields RoleClient.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "client", "cliente":
		return RoleClient, true
	case "technician", "tecnico", "técnico":
		return RoleTechnician, true
	default:
		return "", false
	}
}

// NormalizeRole is ParseRole that falls back to RoleClient for unknown input.
func NormalizeRole(s string) Role {
	if r, ok := ParseRole(s); ok {
		return r
	}
	return RoleClient
}

// Wire returns the backend spelling of the role.
func (r Role) Wire() string {
	if r == RoleTechnician {
		return "tecnico"
	}
	return "cliente"
}

// User models an account of the marketplace.
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	Phone        string    `json:"phone"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at,omitzero"`
}

// Valid reports whether the user passes the validity gate: id, email and
// name must all be present. Ids are assigned from 1, so a zero id counts as
// missing.
func (u *User) Valid() bool {
	return u != nil && u.ID > 0 && u.Email != "" && u.Name != ""
}

// Equal compares the profile fields persisted on the device.
func (u *User) Equal(o *User) bool {
	if u == nil || o == nil {
		return u == o
	}
	return u.ID == o.ID &&
		u.Email == o.Email &&
		u.Name == o.Name &&
		u.Role == o.Role &&
		u.Phone == o.Phone
}

// Session pairs an opaque bearer token with the authenticated user.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ShortToken returns a prefix of the token suitable for logs.
func ShortToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:8] + "…"
}
