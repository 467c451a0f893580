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

// ServiceForm holds the fields of the service request screen.
type ServiceForm struct {
	Type        string `json:"tipo"        validate:"required"`
	Description string `json:"descripcion" validate:"required,min=10"`
	Address     string `json:"direccion"   validate:"required"`
}

// ServicesViewModel lists and raises service requests.
type ServicesViewModel struct {
	repo     ports.ServicesRepository
	validate *validation.Validator
	log      zerolog.Logger

	mu     sync.Mutex
	list   *observable.Value[RequestState[[]domain.ServiceRequest]]
	submit *observable.Value[RequestState[*domain.ServiceRequest]]
}

func NewServicesViewModel(repo ports.ServicesRepository, log zerolog.Logger) *ServicesViewModel {
	return &ServicesViewModel{
		repo:     repo,
		validate: validation.New(),
		log:      log.With().Str("component", "services_viewmodel").Logger(),
		list:     observable.New(idle[[]domain.ServiceRequest]()),
		submit:   observable.New(idle[*domain.ServiceRequest]()),
	}
}

func (vm *ServicesViewModel) ListState() RequestState[[]domain.ServiceRequest] { return vm.list.Get() }

func (vm *ServicesViewModel) WatchList(ctx context.Context) <-chan RequestState[[]domain.ServiceRequest] {
	return vm.list.Subscribe(ctx)
}

func (vm *ServicesViewModel) SubmitState() RequestState[*domain.ServiceRequest] {
	return vm.submit.Get()
}

// Load refreshes the list of requests visible to the session.
func (vm *ServicesViewModel) Load(ctx context.Context) RequestState[[]domain.ServiceRequest] {
	vm.list.Set(loading[[]domain.ServiceRequest]())
	items, err := vm.repo.List(ctx)
	st := success(items)
	if err != nil {
		st = failure[[]domain.ServiceRequest](err)
	}
	vm.list.Set(st)
	return st
}

// Submit validates form, raises the request and reloads the list.
func (vm *ServicesViewModel) Submit(ctx context.Context, form ServiceForm) RequestState[*domain.ServiceRequest] {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if err := vm.validate.Struct(form); err != nil {
		st := failure[*domain.ServiceRequest](err)
		vm.submit.Set(st)
		return st
	}

	vm.submit.Set(loading[*domain.ServiceRequest]())
	created, err := vm.repo.Create(ctx, form.Type, form.Description, form.Address)
	if err != nil {
		st := failure[*domain.ServiceRequest](err)
		vm.submit.Set(st)
		return st
	}
	st := success(created)
	vm.submit.Set(st)
	vm.Load(ctx)
	return st
}

// Advance moves a request to status and reloads the list.
func (vm *ServicesViewModel) Advance(ctx context.Context, id int64, status domain.ServiceStatus) RequestState[*domain.ServiceRequest] {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	updated, err := vm.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		vm.log.Debug().Err(err).Int64("service_id", id).Msg("status update failed")
		return failure[*domain.ServiceRequest](err)
	}
	vm.Load(ctx)
	return success(updated)
}
