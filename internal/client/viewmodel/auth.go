package viewmodel

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/grupo8/reparafacil/internal/core/domain"
	"github.com/grupo8/reparafacil/internal/core/ports"
	"github.com/grupo8/reparafacil/internal/pkg/observable"
	"github.com/grupo8/reparafacil/internal/pkg/validation"
)

// RegistrationForm holds the fields of the signup screen.
type RegistrationForm struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Phone    string `json:"telefono" validate:"required"`
	Role     string `json:"rol"      validate:"omitempty,oneof=client technician cliente tecnico"`
}

// AuthViewModel mirrors the saved user and runs the login, register and
// logout commands one at a time.
type AuthViewModel struct {
	repo     ports.SessionWorkflow
	validate *validation.Validator
	log      zerolog.Logger

	mu          sync.Mutex
	currentUser *observable.Value[*domain.User]
	loginState  *observable.Value[RequestState[*domain.Session]]
}

// NewAuthViewModel reads the saved user before returning and keeps mirroring
// it until ctx is done. An unreadable store counts as no saved user.
func NewAuthViewModel(ctx context.Context, repo ports.SessionWorkflow, log zerolog.Logger) *AuthViewModel {
	vm := &AuthViewModel{
		repo:        repo,
		validate:    validation.New(),
		log:         log.With().Str("component", "auth_viewmodel").Logger(),
		currentUser: observable.New[*domain.User](nil),
		loginState:  observable.New(idle[*domain.Session]()),
	}

	u, err := repo.SavedUser(ctx)
	if err != nil {
		vm.log.Warn().Err(err).Msg("saved user unreadable, starting logged out")
	} else {
		vm.currentUser.Set(u)
	}

	saved := repo.WatchSavedUser(ctx)
	go func() {
		for u := range saved {
			vm.currentUser.Set(u)
		}
	}()
	return vm
}

// CurrentUser returns the logged-in user, or nil.
func (vm *AuthViewModel) CurrentUser() *domain.User { return vm.currentUser.Get() }

func (vm *AuthViewModel) WatchCurrentUser(ctx context.Context) <-chan *domain.User {
	return vm.currentUser.Subscribe(ctx)
}

func (vm *AuthViewModel) LoginState() RequestState[*domain.Session] { return vm.loginState.Get() }

func (vm *AuthViewModel) WatchLoginState(ctx context.Context) <-chan RequestState[*domain.Session] {
	return vm.loginState.Subscribe(ctx)
}

// Login authenticates and returns the resulting state.
func (vm *AuthViewModel) Login(ctx context.Context, email, password string) RequestState[*domain.Session] {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.loginState.Set(loading[*domain.Session]())
	sess, err := vm.repo.Login(ctx, email, password)
	return vm.finish(sess, err)
}

// Register validates form and, when it is valid, signs up. An invalid form
// never reaches the workflow.
func (vm *AuthViewModel) Register(ctx context.Context, form RegistrationForm) RequestState[*domain.Session] {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if err := vm.validate.Struct(form); err != nil {
		st := failure[*domain.Session](err)
		vm.loginState.Set(st)
		return st
	}

	vm.loginState.Set(loading[*domain.Session]())
	sess, err := vm.repo.Register(ctx, ports.RegisterInput{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
		Phone:    form.Phone,
		Role:     domain.NormalizeRole(form.Role),
	})
	return vm.finish(sess, err)
}

func (vm *AuthViewModel) finish(sess *domain.Session, err error) RequestState[*domain.Session] {
	if err != nil {
		vm.log.Debug().Err(err).Msg("auth command failed")
		st := failure[*domain.Session](err)
		vm.loginState.Set(st)
		return st
	}
	u := sess.User
	vm.currentUser.Set(&u)
	st := success(sess)
	vm.loginState.Set(st)
	return st
}

// Logout clears the session. The current user becomes nil only once the
// store has been cleared.
func (vm *AuthViewModel) Logout(ctx context.Context) error {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if err := vm.repo.Logout(ctx); err != nil {
		vm.loginState.Set(failure[*domain.Session](err))
		return err
	}
	vm.currentUser.Set(nil)
	vm.loginState.Set(idle[*domain.Session]())
	return nil
}

func (vm *AuthViewModel) ResetLoginState() {
	vm.loginState.Set(idle[*domain.Session]())
}
