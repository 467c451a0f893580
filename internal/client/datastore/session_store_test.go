package datastore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/grupo8/reparafacil/internal/core/domain"
	"github.com/grupo8/reparafacil/internal/core/ports"
	"github.com/grupo8/reparafacil/internal/infrastructure/db/redis"
)

// ── helpers ───────────────────────────────────────────────────────────────────

type backend struct {
	name string
	new  func(t *testing.T) ports.PreferenceStore
}

var backends = []backend{
	{"memory", func(*testing.T) ports.PreferenceStore { return NewMemoryPreferences() }},
	{"redis", func(t *testing.T) ports.PreferenceStore {
		mr, err := miniredis.Run()
		if err != nil {
			t.Fatalf("miniredis.Run failed: %v", err)
		}
		t.Cleanup(mr.Close)
		client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
		t.Cleanup(func() { _ = client.Close() })
		return redis.NewPreferences(client, "auth_prefs")
	}},
}

func forEachBackend(t *testing.T, fn func(t *testing.T, s *SessionStore)) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			fn(t, NewSessionStore(b.new(t), zerolog.Nop()))
		})
	}
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatalf("channel closed")
		}
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for value")
	}
	var zero T
	return zero
}

func expectQuiet[T any](t *testing.T, ch <-chan T) {
	t.Helper()
	select {
	case v := <-ch:
		t.Fatalf("unexpected emission %v", v)
	case <-time.After(50 * time.Millisecond):
	}
}

var ana = domain.User{ID: 7, Email: "a@x.io", Name: "Ana", Role: domain.RoleClient, Phone: "555"}

type failingPrefs struct{ err error }

func (f failingPrefs) Get(context.Context, ...string) (map[string]string, error) { return nil, f.err }
func (f failingPrefs) Set(context.Context, map[string]string) error              { return f.err }
func (f failingPrefs) Delete(context.Context, ...string) error                   { return f.err }

// ── tests ─────────────────────────────────────────────────────────────────────

func TestSaveSession_ThenRead(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *SessionStore) {
		ctx := context.Background()
		if err := s.SaveSession(ctx, "T1", ana); err != nil {
			t.Fatalf("save: %v", err)
		}
		tok, err := s.Token(ctx)
		if err != nil || tok != "T1" {
			t.Fatalf("expected T1, got %q (%v)", tok, err)
		}
		u, err := s.SavedUser(ctx)
		if err != nil {
			t.Fatalf("saved user: %v", err)
		}
		if !u.Equal(&ana) {
			t.Fatalf("expected %+v, got %+v", ana, u)
		}
	})
}

func TestSavedUser_AbsentWhenEmpty(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *SessionStore) {
		u, err := s.SavedUser(context.Background())
		if err != nil || u != nil {
			t.Fatalf("expected nil user, got %+v (%v)", u, err)
		}
		tok, err := s.Token(context.Background())
		if err != nil || tok != "" {
			t.Fatalf("expected empty token, got %q (%v)", tok, err)
		}
	})
}

func TestSavedUser_DefaultsRoleAndPhone(t *testing.T) {
	prefs := NewMemoryPreferences()
	_ = prefs.Set(context.Background(), map[string]string{
		keyUserID: "3", keyUserEmail: "b@x.io", keyUserName: "Beto",
	})
	s := NewSessionStore(prefs, zerolog.Nop())

	u, err := s.SavedUser(context.Background())
	if err != nil || u == nil {
		t.Fatalf("expected user, got %v (%v)", u, err)
	}
	if u.Role != domain.RoleClient || u.Phone != "" {
		t.Fatalf("expected client role and empty phone, got %q %q", u.Role, u.Phone)
	}
}

func TestSavedUser_MissingRequiredField(t *testing.T) {
	for name, vals := range map[string]map[string]string{
		"no id":    {keyUserEmail: "b@x.io", keyUserName: "Beto"},
		"bad id":   {keyUserID: "x", keyUserEmail: "b@x.io", keyUserName: "Beto"},
		"zero id":  {keyUserID: "0", keyUserEmail: "b@x.io", keyUserName: "Beto"},
		"no email": {keyUserID: "3", keyUserName: "Beto"},
		"no name":  {keyUserID: "3", keyUserEmail: "b@x.io"},
	} {
		t.Run(name, func(t *testing.T) {
			prefs := NewMemoryPreferences()
			_ = prefs.Set(context.Background(), vals)
			s := NewSessionStore(prefs, zerolog.Nop())
			if u, _ := s.SavedUser(context.Background()); u != nil {
				t.Fatalf("expected nil user, got %+v", u)
			}
		})
	}
}

func TestClearSession_KeepsAvatar(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *SessionStore) {
		ctx := context.Background()
		_ = s.SaveSession(ctx, "T1", ana)
		if err := s.SaveAvatarRef(ctx, 7, "file://a.jpg"); err != nil {
			t.Fatalf("save avatar: %v", err)
		}
		if err := s.ClearSession(ctx); err != nil {
			t.Fatalf("clear: %v", err)
		}

		if tok, _ := s.Token(ctx); tok != "" {
			t.Fatalf("expected token cleared, got %q", tok)
		}
		if u, _ := s.SavedUser(ctx); u != nil {
			t.Fatalf("expected user cleared, got %+v", u)
		}
		if ref, _ := s.AvatarRef(ctx, 7); ref != "file://a.jpg" {
			t.Fatalf("expected avatar to survive logout, got %q", ref)
		}
	})
}

func TestAvatarRef_PerUser(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *SessionStore) {
		ctx := context.Background()
		_ = s.SaveAvatarRef(ctx, 7, "a")
		_ = s.SaveAvatarRef(ctx, 8, "b")
		if ref, _ := s.AvatarRef(ctx, 7); ref != "a" {
			t.Fatalf("expected a, got %q", ref)
		}
		if ref, _ := s.AvatarRef(ctx, 8); ref != "b" {
			t.Fatalf("expected b, got %q", ref)
		}
		if ref, _ := s.AvatarRef(ctx, 9); ref != "" {
			t.Fatalf("expected empty, got %q", ref)
		}
	})
}

func TestSaveAvatarRef_RequiresUserID(t *testing.T) {
	s := NewSessionStore(NewMemoryPreferences(), zerolog.Nop())
	if err := s.SaveAvatarRef(context.Background(), 0, "a"); !errors.Is(err, domain.ErrMissingUserID) {
		t.Fatalf("expected ErrMissingUserID, got %v", err)
	}
}

func TestWatchSavedUser_EmitsCurrentThenChanges(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s *SessionStore) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		ch := s.WatchSavedUser(ctx)
		if u := receive(t, ch); u != nil {
			t.Fatalf("expected absent user first, got %+v", u)
		}

		_ = s.SaveSession(ctx, "T1", ana)
		if u := receive(t, ch); !u.Equal(&ana) {
			t.Fatalf("expected Ana, got %+v", u)
		}

		_ = s.ClearSession(ctx)
		if u := receive(t, ch); u != nil {
			t.Fatalf("expected absent after clear, got %+v", u)
		}
	})
}

func TestWatchSavedUser_SkipsUnrelatedWrites(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := NewSessionStore(NewMemoryPreferences(), zerolog.Nop())
	_ = s.SaveSession(ctx, "T1", ana)

	ch := s.WatchSavedUser(ctx)
	_ = receive(t, ch)

	_ = s.SaveToken(ctx, "T2")
	_ = s.SaveAvatarRef(ctx, 7, "a")
	expectQuiet(t, ch)
}

func TestWatchToken(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := NewSessionStore(NewMemoryPreferences(), zerolog.Nop())

	ch := s.WatchToken(ctx)
	if tok := receive(t, ch); tok != "" {
		t.Fatalf("expected empty token, got %q", tok)
	}
	_ = s.SaveToken(ctx, "T1")
	if tok := receive(t, ch); tok != "T1" {
		t.Fatalf("expected T1, got %q", tok)
	}
}

func TestWatchAvatarRef(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := NewSessionStore(NewMemoryPreferences(), zerolog.Nop())

	ch := s.WatchAvatarRef(ctx, 7)
	if ref := receive(t, ch); ref != "" {
		t.Fatalf("expected empty ref, got %q", ref)
	}
	_ = s.SaveAvatarRef(ctx, 8, "other")
	expectQuiet(t, ch)
	_ = s.SaveAvatarRef(ctx, 7, "mine")
	if ref := receive(t, ch); ref != "mine" {
		t.Fatalf("expected mine, got %q", ref)
	}
}

func TestWatch_ClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewSessionStore(NewMemoryPreferences(), zerolog.Nop())
	ch := s.WatchSavedUser(ctx)
	_ = receive(t, ch)
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			for range ch {
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("watch did not close after cancel")
	}
}

func TestStorageErrors(t *testing.T) {
	cause := errors.New("disk full")
	s := NewSessionStore(failingPrefs{err: cause}, zerolog.Nop())
	ctx := context.Background()

	checks := map[string]error{
		"save session": s.SaveSession(ctx, "T1", ana),
		"save token":   s.SaveToken(ctx, "T1"),
		"clear":        s.ClearSession(ctx),
		"save avatar":  s.SaveAvatarRef(ctx, 7, "a"),
	}
	_, checks["token"] = s.Token(ctx)
	_, checks["user"] = s.SavedUser(ctx)
	_, checks["avatar"] = s.AvatarRef(ctx, 7)

	for name, err := range checks {
		var se *domain.StorageError
		if !errors.As(err, &se) || !errors.Is(err, cause) {
			t.Errorf("%s: expected StorageError wrapping cause, got %v", name, err)
		}
	}
}
