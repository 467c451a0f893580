// Package contract holds the JSON wire types shared by the remote client
// and the sandbox backend, and their mapping to domain types.
package contract

// User is the backend representation of an account.
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"rol"`
	Phone     string `json:"telefono"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// SignupRequest is the body of POST auth/signup.
type SignupRequest struct {
	Email    string `json:"email"              validate:"required,email"`
	Password string `json:"password"           validate:"required,min=6"`
	Name     string `json:"name"               validate:"required"`
	Phone    string `json:"telefono,omitempty"`
	Role     string `json:"rol,omitempty"      validate:"omitempty,oneof=cliente tecnico client technician"`
}

// LoginRequest is the body of POST auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by signup and login. User may be omitted by the
// backend; UserID is set by some deployments instead.
type AuthResponse struct {
	AuthToken string `json:"authToken"`
	User      *User  `json:"user,omitempty"`
	UserID    int64  `json:"user_id,omitempty"`
}

// ErrorResponse is the error envelope of every 4xx/5xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
}
