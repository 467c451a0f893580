// Package datastore persists the client session on the device.
//
// The SessionStore keeps the bearer token and the scalar fields of the
// logged-in user in a preference medium (Redis, MongoDB or memory). Avatar
// references live in one slot per user id and survive logout.
package datastore

import (
	"context"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/grupo8/reparafacil/internal/core/domain"
	"github.com/grupo8/reparafacil/internal/core/ports"
	"github.com/grupo8/reparafacil/internal/pkg/observable"
)

const (
	keyToken     = "auth_token"
	keyUserID    = "user_id"
	keyUserEmail = "user_email"
	keyUserName  = "user_name"
	keyUserRole  = "user_role"
	keyUserPhone = "user_phone"

	avatarKeyPrefix = "avatar_uri_"
)

// sessionKeys are removed by ClearSession. Avatar slots are not listed on purpose.
var sessionKeys = []string{keyToken, keyUserID, keyUserEmail, keyUserName, keyUserRole, keyUserPhone}

var userKeys = sessionKeys[1:]

// AvatarKey returns the preference key of a user's avatar slot.
func AvatarKey(userID int64) string {
	return avatarKeyPrefix + strconv.FormatInt(userID, 10)
}

// SessionStore implements ports.SessionStore on top of a PreferenceStore.
type SessionStore struct {
	prefs ports.PreferenceStore
	rev   *observable.Value[uint64]
	log   zerolog.Logger
}

var _ ports.SessionStore = (*SessionStore)(nil)

// NewSessionStore wraps prefs. Only writes made through the returned store
// wake its watchers.
func NewSessionStore(prefs ports.PreferenceStore, log zerolog.Logger) *SessionStore {
	return &SessionStore{
		prefs: prefs,
		rev:   observable.New[uint64](0),
		log:   log.With().Str("component", "datastore").Logger(),
	}
}

// SaveSession writes the token and every scalar field of user in one call.
func (s *SessionStore) SaveSession(ctx context.Context, token string, user domain.User) error {
	err := s.prefs.Set(ctx, map[string]string{
		keyToken:     token,
		keyUserID:    strconv.FormatInt(user.ID, 10),
		keyUserEmail: user.Email,
		keyUserName:  user.Name,
		keyUserRole:  string(user.Role),
		keyUserPhone: user.Phone,
	})
	if err != nil {
		return &domain.StorageError{Op: "save session", Err: err}
	}
	s.changed()
	s.log.Debug().Int64("user_id", user.ID).Str("token", domain.ShortToken(token)).Msg("session saved")
	return nil
}

// SaveToken writes the token alone.
func (s *SessionStore) SaveToken(ctx context.Context, token string) error {
	if err := s.prefs.Set(ctx, map[string]string{keyToken: token}); err != nil {
		return &domain.StorageError{Op: "save token", Err: err}
	}
	s.changed()
	return nil
}

// Token returns the stored token, or "" when there is none.
func (s *SessionStore) Token(ctx context.Context) (string, error) {
	vals, err := s.prefs.Get(ctx, keyToken)
	if err != nil {
		return "", &domain.StorageError{Op: "read token", Err: err}
	}
	return vals[keyToken], nil
}

// WatchToken emits the token now and after every change.
func (s *SessionStore) WatchToken(ctx context.Context) <-chan string {
	return watch(ctx, s, "token", s.Token, func(a, b string) bool { return a == b })
}

// SavedUser rebuilds the stored user. It returns nil, without error, when
// id, email or name is missing.
func (s *SessionStore) SavedUser(ctx context.Context) (*domain.User, error) {
	vals, err := s.prefs.Get(ctx, userKeys...)
	if err != nil {
		return nil, &domain.StorageError{Op: "read user", Err: err}
	}
	return userFromPrefs(vals), nil
}

// WatchSavedUser emits the stored user now and after every change.
func (s *SessionStore) WatchSavedUser(ctx context.Context) <-chan *domain.User {
	return watch(ctx, s, "user", s.SavedUser, (*domain.User).Equal)
}

// SaveAvatarRef stores uri in the avatar slot of userID.
func (s *SessionStore) SaveAvatarRef(ctx context.Context, userID int64, uri string) error {
	if userID <= 0 {
		return domain.ErrMissingUserID
	}
	if err := s.prefs.Set(ctx, map[string]string{AvatarKey(userID): uri}); err != nil {
		return &domain.StorageError{Op: "save avatar", Err: err}
	}
	s.changed()
	return nil
}

// AvatarRef returns the avatar reference of userID, or "" when there is none.
func (s *SessionStore) AvatarRef(ctx context.Context, userID int64) (string, error) {
	key := AvatarKey(userID)
	vals, err := s.prefs.Get(ctx, key)
	if err != nil {
		return "", &domain.StorageError{Op: "read avatar", Err: err}
	}
	return vals[key], nil
}

// WatchAvatarRef emits the avatar reference of userID now and after every change.
func (s *SessionStore) WatchAvatarRef(ctx context.Context, userID int64) <-chan string {
	read := func(ctx context.Context) (string, error) { return s.AvatarRef(ctx, userID) }
	return watch(ctx, s, "avatar", read, func(a, b string) bool { return a == b })
}

// ClearSession removes the token and the user fields.
func (s *SessionStore) ClearSession(ctx context.Context) error {
	if err := s.prefs.Delete(ctx, sessionKeys...); err != nil {
		return &domain.StorageError{Op: "clear session", Err: err}
	}
	s.changed()
	s.log.Debug().Msg("session cleared")
	return nil
}

func (s *SessionStore) changed() {
	s.rev.Update(func(n uint64) uint64 { return n + 1 })
}

func userFromPrefs(vals map[string]string) *domain.User {
	id, err := strconv.ParseInt(vals[keyUserID], 10, 64)
	if err != nil {
		return nil
	}
	u := &domain.User{
		ID:    id,
		Email: vals[keyUserEmail],
		Name:  vals[keyUserName],
		Role:  domain.NormalizeRole(vals[keyUserRole]),
		Phone: vals[keyUserPhone],
	}
	if !u.Valid() {
		return nil
	}
	return u
}

// watch re-reads a value on every store change and forwards it when it
// differs from the last one sent.
func watch[T any](ctx context.Context, s *SessionStore, stream string, read func(context.Context) (T, error), equal func(a, b T) bool) <-chan T {
	out := make(chan T)
	ticks := s.rev.Subscribe(ctx)
	go func() {
		defer close(out)
		var last T
		sent := false
		for range ticks {
			v, err := read(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				s.log.Warn().Err(err).Str("stream", stream).Msg("watch read failed")
				continue
			}
			if sent && equal(last, v) {
				continue
			}
			select {
			case out <- v:
				last, sent = v, true
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
