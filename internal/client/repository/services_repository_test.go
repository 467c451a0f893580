package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/grupo8/reparafacil/internal/client/datastore"
	"github.com/grupo8/reparafacil/internal/core/domain"
	"github.com/grupo8/reparafacil/internal/core/ports"
)

func newServicesRepo(t *testing.T, api *stubAPI, token string) *ServicesRepository {
	t.Helper()
	api.t = t
	store := datastore.NewSessionStore(datastore.NewMemoryPreferences(), zerolog.Nop())
	if token != "" {
		_ = store.SaveToken(context.Background(), token)
	}
	return NewServicesRepository(api, store, zerolog.Nop())
}

func TestServicesRepository_NoSession(t *testing.T) {
	repo := newServicesRepo(t, &stubAPI{}, "")
	ctx := context.Background()

	if _, err := repo.List(ctx); !errors.Is(err, domain.ErrNoActiveSession) {
		t.Fatalf("list: expected ErrNoActiveSession, got %v", err)
	}
	if _, err := repo.Create(ctx, "Lavadora", "No centrifuga", "Calle 1"); !errors.Is(err, domain.ErrNoActiveSession) {
		t.Fatalf("create: expected ErrNoActiveSession, got %v", err)
	}
	if _, err := repo.Get(ctx, 1); !errors.Is(err, domain.ErrNoActiveSession) {
		t.Fatalf("get: expected ErrNoActiveSession, got %v", err)
	}
	if _, err := repo.UpdateStatus(ctx, 1, domain.StatusInProgress); !errors.Is(err, domain.ErrNoActiveSession) {
		t.Fatalf("update: expected ErrNoActiveSession, got %v", err)
	}
}

func TestServicesRepository_CreateUsesFreshKeys(t *testing.T) {
	var keys []string
	api := &stubAPI{
		create: func(token string, in ports.NewServiceInput) (*domain.ServiceRequest, error) {
			if token != "T1" {
				t.Fatalf("unexpected token %q", token)
			}
			keys = append(keys, in.IdempotencyKey)
			return &domain.ServiceRequest{ID: int64(len(keys)), Type: in.Type, Status: domain.StatusPending}, nil
		},
	}
	repo := newServicesRepo(t, api, "T1")
	ctx := context.Background()

	for range 2 {
		s, err := repo.Create(ctx, "Lavadora", "No centrifuga bien", "Calle 1")
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if s.Status != domain.StatusPending {
			t.Fatalf("expected pending, got %q", s.Status)
		}
	}
	if len(keys) != 2 || keys[0] == "" || keys[0] == keys[1] {
		t.Fatalf("expected two distinct keys, got %v", keys)
	}
}

func TestServicesRepository_UpdateStatus(t *testing.T) {
	api := &stubAPI{
		update: func(token string, id int64, p ports.ServicePatch) (*domain.ServiceRequest, error) {
			if id != 4 || p.Status != domain.StatusCompleted || p.TechnicianID != nil {
				t.Fatalf("unexpected patch %d %+v", id, p)
			}
			return &domain.ServiceRequest{ID: id, Status: p.Status}, nil
		},
	}
	repo := newServicesRepo(t, api, "T1")

	s, err := repo.UpdateStatus(context.Background(), 4, domain.StatusCompleted)
	if err != nil || s.Status != domain.StatusCompleted {
		t.Fatalf("unexpected update %+v (%v)", s, err)
	}
}
