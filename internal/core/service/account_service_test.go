package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/grupo8/reparafacil/internal/core/domain"
	"github.com/grupo8/reparafacil/internal/core/ports"
)

type stubUserRepo struct {
	users  map[int64]*domain.User
	nextID int64
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[int64]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
	}
	r.nextID++
	copy := cloneUser(user)
	copy.ID = r.nextID
	r.users[copy.ID] = cloneUser(copy)
	return copy, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) ListByRole(_ context.Context, role domain.Role) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func newTestAccountService(repo ports.UserRepository) *AccountService {
	return NewAccountService(repo, "secret", time.Hour, zerolog.Nop())
}

func TestAccountService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newTestAccountService(repo)

	token, user, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Ana", Email: " Ana@Example.com ", Password: "pass123", Phone: "555",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if token == "" || user == nil {
		t.Fatalf("expected token and user, got %q %+v", token, user)
	}
	if user.Email != "ana@example.com" || user.Role != domain.RoleClient || user.ID != 1 {
		t.Fatalf("unexpected user: %+v", user)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAccountService_Register_Validation(t *testing.T) {
	svc := newTestAccountService(newStubUserRepo())

	cases := []ports.RegisterInput{
		{Name: "", Email: "a@b.com", Password: "pass123"},
		{Name: "Ana", Email: "", Password: "pass123"},
		{Name: "Ana", Email: "a@b.com", Password: "123"},
		{Name: "Ana", Email: "a@b.com", Password: "pass123", Role: "admin"},
	}
	for _, in := range cases {
		if _, _, err := svc.Register(context.Background(), in); err != domain.ErrInvalidCredentials {
			t.Errorf("%+v: expected ErrInvalidCredentials, got %v", in, err)
		}
	}
}

func TestAccountService_Register_Duplicate(t *testing.T) {
	svc := newTestAccountService(newStubUserRepo())

	in := ports.RegisterInput{Name: "Bob", Email: "bob@example.com", Password: "pass123"}
	_, _, _ = svc.Register(context.Background(), in)
	if _, _, err := svc.Register(context.Background(), in); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAccountService_Login_Claims(t *testing.T) {
	svc := newTestAccountService(newStubUserRepo())

	if _, _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Carol", Email: "carol@example.com", Password: "s3cret!", Role: domain.RoleTechnician,
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	token, user, err := svc.Login(context.Background(), "CAROL@example.com", "s3cret!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user == nil || user.Name != "Carol" {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims["sub"] != "1" || claims["role"] != "technician" || claims["email"] != "carol@example.com" {
		t.Fatalf("unexpected claims %v", claims)
	}
	if _, ok := claims["exp"]; !ok {
		t.Fatalf("expected exp claim")
	}
}

func TestAccountService_Login_InvalidPassword(t *testing.T) {
	svc := newTestAccountService(newStubUserRepo())

	_, _, _ = svc.Register(context.Background(), ports.RegisterInput{Name: "Dave", Email: "dave@example.com", Password: "goodpass"})
	if _, _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAccountService_Login_UnknownEmail(t *testing.T) {
	svc := newTestAccountService(newStubUserRepo())

	if _, _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAccountService_Profile(t *testing.T) {
	svc := newTestAccountService(newStubUserRepo())
	_, created, _ := svc.Register(context.Background(), ports.RegisterInput{Name: "Eva", Email: "eva@example.com", Password: "pass123"})

	u, err := svc.Profile(context.Background(), created.ID)
	if err != nil || u.Email != "eva@example.com" {
		t.Fatalf("unexpected profile %+v (%v)", u, err)
	}
	if _, err := svc.Profile(context.Background(), 42); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
