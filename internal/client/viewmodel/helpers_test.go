package viewmodel

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/grupo8/reparafacil/internal/client/datastore"
	"github.com/grupo8/reparafacil/internal/client/repository"
	"github.com/grupo8/reparafacil/internal/core/domain"
	"github.com/grupo8/reparafacil/internal/core/ports"
)

var errNotScripted = errors.New("not scripted")

// fakeAPI is a scripted backend. Unset funcs answer errNotScripted.
type fakeAPI struct {
	login   func(email, password string) (*ports.AuthResult, error)
	signup  func(in ports.SignupInput) (*ports.AuthResult, error)
	profile func(token string) (*domain.User, error)
	list    func(token string) ([]domain.ServiceRequest, error)
	create  func(token string, in ports.NewServiceInput) (*domain.ServiceRequest, error)

	signupCalls atomic.Int32
	createCalls atomic.Int32
}

func (f *fakeAPI) Signup(_ context.Context, in ports.SignupInput) (*ports.AuthResult, error) {
	f.signupCalls.Add(1)
	if f.signup == nil {
		return nil, errNotScripted
	}
	return f.signup(in)
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (*ports.AuthResult, error) {
	if f.login == nil {
		return nil, errNotScripted
	}
	return f.login(email, password)
}

func (f *fakeAPI) GetMyProfile(_ context.Context, token string) (*domain.User, error) {
	if f.profile == nil {
		return nil, errNotScripted
	}
	return f.profile(token)
}

func (f *fakeAPI) ListServices(_ context.Context, token string) ([]domain.ServiceRequest, error) {
	if f.list == nil {
		return nil, errNotScripted
	}
	return f.list(token)
}

func (f *fakeAPI) CreateService(_ context.Context, token string, in ports.NewServiceInput) (*domain.ServiceRequest, error) {
	f.createCalls.Add(1)
	if f.create == nil {
		return nil, errNotScripted
	}
	return f.create(token, in)
}

func (f *fakeAPI) GetService(context.Context, string, int64) (*domain.ServiceRequest, error) {
	return nil, errNotScripted
}

func (f *fakeAPI) UpdateService(context.Context, string, int64, ports.ServicePatch) (*domain.ServiceRequest, error) {
	return nil, errNotScripted
}

type fixture struct {
	api   *fakeAPI
	store *datastore.SessionStore
	repo  *repository.AuthRepository
}

func newFixture(api *fakeAPI) fixture {
	store := datastore.NewSessionStore(datastore.NewMemoryPreferences(), zerolog.Nop())
	return fixture{
		api:   api,
		store: store,
		repo:  repository.NewAuthRepository(api, store, zerolog.Nop()),
	}
}

var errDiskGone = errors.New("disk unavailable")

// brokenPrefs is a preference medium on which every call fails.
type brokenPrefs struct{}

func (brokenPrefs) Get(context.Context, ...string) (map[string]string, error) { return nil, errDiskGone }
func (brokenPrefs) Set(context.Context, map[string]string) error              { return errDiskGone }
func (brokenPrefs) Delete(context.Context, ...string) error                   { return errDiskGone }

func newBrokenFixture(api *fakeAPI) fixture {
	store := datastore.NewSessionStore(brokenPrefs{}, zerolog.Nop())
	return fixture{
		api:   api,
		store: store,
		repo:  repository.NewAuthRepository(api, store, zerolog.Nop()),
	}
}

// within fails the test when fn has not returned after a short deadline.
func within(t *testing.T, what string, fn func()) {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("%s did not return", what)
	}
}

var ana = domain.User{ID: 7, Email: "a@b.com", Name: "Ana", Role: domain.RoleClient, Phone: "555"}

func anaProfile(string) (*domain.User, error) {
	u := ana
	return &u, nil
}

// eventually polls cond until it holds or a deadline passes.
func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met: %s", msg)
}
