package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/grupo8/reparafacil/internal/core/domain"
	"github.com/grupo8/reparafacil/internal/core/ports"
)

// ServicesRepository implements ports.ServicesRepository with the token of
// the stored session.
type ServicesRepository struct {
	api    ports.RemoteAPI
	store  ports.SessionStore
	log    zerolog.Logger
	newKey func() string
}

var _ ports.ServicesRepository = (*ServicesRepository)(nil)

func NewServicesRepository(api ports.RemoteAPI, store ports.SessionStore, log zerolog.Logger) *ServicesRepository {
	return &ServicesRepository{
		api:    api,
		store:  store,
		log:    log.With().Str("component", "services_repository").Logger(),
		newKey: uuid.NewString,
	}
}

func (r *ServicesRepository) token(ctx context.Context) (string, error) {
	token, err := r.store.Token(ctx)
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", domain.ErrNoActiveSession
	}
	return token, nil
}

func (r *ServicesRepository) List(ctx context.Context) ([]domain.ServiceRequest, error) {
	token, err := r.token(ctx)
	if err != nil {
		return nil, err
	}
	return r.api.ListServices(ctx, token)
}

// Create raises a new pending request. Each call carries a fresh
// idempotency key.
func (r *ServicesRepository) Create(ctx context.Context, serviceType, description, address string) (*domain.ServiceRequest, error) {
	token, err := r.token(ctx)
	if err != nil {
		return nil, err
	}
	key := r.newKey()
	s, err := r.api.CreateService(ctx, token, ports.NewServiceInput{
		Type:           serviceType,
		Description:    description,
		Address:        address,
		IdempotencyKey: key,
	})
	if err != nil {
		r.log.Warn().Err(err).Str("idempotency_key", key).Msg("create service failed")
		return nil, err
	}
	r.log.Info().Int64("service_id", s.ID).Str("type", s.Type).Msg("service requested")
	return s, nil
}

func (r *ServicesRepository) Get(ctx context.Context, id int64) (*domain.ServiceRequest, error) {
	token, err := r.token(ctx)
	if err != nil {
		return nil, err
	}
	return r.api.GetService(ctx, token, id)
}

func (r *ServicesRepository) UpdateStatus(ctx context.Context, id int64, status domain.ServiceStatus) (*domain.ServiceRequest, error) {
	token, err := r.token(ctx)
	if err != nil {
		return nil, err
	}
	return r.api.UpdateService(ctx, token, id, ports.ServicePatch{Status: status})
}
