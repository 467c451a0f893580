package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/grupo8/reparafacil/internal/core/domain"
	"github.com/grupo8/reparafacil/internal/core/ports"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	a, err := repo.Create(ctx, &domain.User{Email: "a@b.com", Name: "Ana", Role: domain.RoleClient})
	if err != nil || a.ID != 1 {
		t.Fatalf("create: %+v %v", a, err)
	}
	if _, err := repo.Create(ctx, &domain.User{Email: "a@b.com", Name: "Otra"}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	_, _ = repo.Create(ctx, &domain.User{Email: "t2@b.com", Name: "T2", Role: domain.RoleTechnician})
	_, _ = repo.Create(ctx, &domain.User{Email: "t3@b.com", Name: "T3", Role: domain.RoleTechnician})

	techs, _ := repo.ListByRole(ctx, domain.RoleTechnician)
	if len(techs) != 2 || techs[0].ID != 2 || techs[1].ID != 3 {
		t.Fatalf("unexpected technicians %+v", techs)
	}
	if _, err := repo.FindByID(ctx, 99); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	found, _ := repo.FindByEmail(ctx, "a@b.com")
	found.Name = "mutated"
	again, _ := repo.FindByID(ctx, 1)
	if again.Name != "Ana" {
		t.Fatalf("stored user must not alias returned copies")
	}
}

func TestServiceRequestRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := NewServiceRequestRepository()

	s := &domain.ServiceRequest{ClientID: 7, Type: "Lavadora", Status: domain.StatusPending}
	if err := repo.Create(ctx, s); err != nil || s.ID != 1 {
		t.Fatalf("create: id=%d err=%v", s.ID, err)
	}

	if err := repo.Assign(ctx, 1, 3); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if err := repo.Assign(ctx, 1, 4); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected second assign to fail, got %v", err)
	}

	load, _ := repo.CountActiveByTechnician(ctx)
	if load[3] != 1 {
		t.Fatalf("expected load 1 for technician 3, got %v", load)
	}

	stale := ports.StatusChange{From: domain.StatusPending, To: domain.StatusInProgress}
	if err := repo.UpdateStatus(ctx, 1, stale); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected conditional update to fail, got %v", err)
	}

	done := time.Now().UTC()
	_ = repo.UpdateStatus(ctx, 1, ports.StatusChange{From: domain.StatusAssigned, To: domain.StatusInProgress})
	if err := repo.UpdateStatus(ctx, 1, ports.StatusChange{From: domain.StatusInProgress, To: domain.StatusCompleted, CompletedAt: &done, Warranty: true}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	got, _ := repo.FindByID(ctx, 1)
	if got.Status != domain.StatusCompleted || !got.Warranty || got.CompletedAt == nil {
		t.Fatalf("unexpected request %+v", got)
	}
	load, _ = repo.CountActiveByTechnician(ctx)
	if load[3] != 0 {
		t.Fatalf("completed requests are not active, got %v", load)
	}
}

func TestServiceRequestRepository_ListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewServiceRequestRepository()
	for _, client := range []int64{7, 8, 7} {
		_ = repo.Create(ctx, &domain.ServiceRequest{ClientID: client, Status: domain.StatusPending})
	}
	_ = repo.Assign(ctx, 3, 5)

	mine, _ := repo.List(ctx, ports.ListServiceRequestsFilter{ClientID: 7})
	if len(mine) != 2 || mine[0].ID != 3 {
		t.Fatalf("expected client 7 requests newest first, got %+v", mine)
	}
	assigned, _ := repo.List(ctx, ports.ListServiceRequestsFilter{TechnicianID: 5})
	if len(assigned) != 1 || assigned[0].ID != 3 {
		t.Fatalf("unexpected technician list %+v", assigned)
	}
	pending, _ := repo.List(ctx, ports.ListServiceRequestsFilter{Status: domain.StatusPending})
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(pending))
	}
}
