// Package repository holds the client-side workflows that combine the
// remote backend with the local session store.
package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/grupo8/reparafacil/internal/core/domain"
	"github.com/grupo8/reparafacil/internal/core/ports"
	"github.com/grupo8/reparafacil/internal/metrics"
)

// profileFetchTimeout bounds a shared profile request once it no longer
// follows any caller's context.
const profileFetchTimeout = 30 * time.Second

// AuthRepository implements ports.SessionWorkflow. It is the only writer of
// the session store.
type AuthRepository struct {
	api   ports.RemoteAPI
	store ports.SessionStore
	log   zerolog.Logger

	// mu serializes operations that write the session.
	mu      sync.Mutex
	profile singleflight.Group
}

var _ ports.SessionWorkflow = (*AuthRepository)(nil)

// NewAuthRepository creates an AuthRepository with its dependencies injected.
func NewAuthRepository(api ports.RemoteAPI, store ports.SessionStore, log zerolog.Logger) *AuthRepository {
	return &AuthRepository{
		api:   api,
		store: store,
		log:   log.With().Str("component", "auth_repository").Logger(),
	}
}

// Register signs up and persists the resulting session.
func (r *AuthRepository) Register(ctx context.Context, in ports.RegisterInput) (*domain.Session, error) {
	sess, err := r.authenticate(ctx, "register", func() (*ports.AuthResult, error) {
		return r.api.Signup(ctx, ports.SignupInput{
			Email:    in.Email,
			Password: in.Password,
			Name:     in.Name,
			Phone:    in.Phone,
			Role:     in.Role,
		})
	})
	record("register", err)
	return sess, err
}

// Login authenticates and persists the resulting session.
func (r *AuthRepository) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	sess, err := r.authenticate(ctx, "login", func() (*ports.AuthResult, error) {
		return r.api.Login(ctx, email, password)
	})
	record("login", err)
	return sess, err
}

// authenticate runs an auth call and, when the answer carries no valid user,
// fetches the profile with the new token. The session is persisted only once
// a valid user is known.
func (r *AuthRepository) authenticate(ctx context.Context, op string, call func() (*ports.AuthResult, error)) (*domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	res, err := call()
	if err != nil {
		r.log.Warn().Err(err).Str("op", op).Msg("auth call failed")
		return nil, err
	}

	user := res.User
	if !user.Valid() {
		r.log.Debug().Str("op", op).Int64("user_id", res.UserID).Msg("auth response without usable user, fetching profile")
		user, err = r.followUp(ctx, res.Token)
		if err != nil {
			return nil, err
		}
	}

	u := *user
	u.Role = domain.NormalizeRole(string(u.Role))
	if err := r.store.SaveSession(ctx, res.Token, u); err != nil {
		return nil, err
	}

	r.log.Info().Str("op", op).Int64("user_id", u.ID).Str("token", domain.ShortToken(res.Token)).Msg("session established")
	return &domain.Session{Token: res.Token, User: u}, nil
}

func (r *AuthRepository) followUp(ctx context.Context, token string) (*domain.User, error) {
	user, err := r.api.GetMyProfile(ctx, token)
	if err != nil {
		metrics.ClientProfileFollowUpsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, err
	}
	if !user.Valid() {
		metrics.ClientProfileFollowUpsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, domain.ErrIncompleteProfile
	}
	metrics.ClientProfileFollowUpsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	return user, nil
}

// FetchProfile returns the profile of the stored session. Concurrent callers
// with the same token share one request; a caller that gives up does not
// cancel it for the others.
func (r *AuthRepository) FetchProfile(ctx context.Context) (*domain.User, error) {
	token, err := r.store.Token(ctx)
	if err != nil {
		record("fetch_profile", err)
		return nil, err
	}
	if token == "" {
		record("fetch_profile", domain.ErrNoActiveSession)
		return nil, domain.ErrNoActiveSession
	}

	shared := r.profile.DoChan(token, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), profileFetchTimeout)
		defer cancel()
		return r.api.GetMyProfile(fetchCtx, token)
	})

	select {
	case res := <-shared:
		record("fetch_profile", res.Err)
		if res.Err != nil {
			return nil, res.Err
		}
		u := *res.Val.(*domain.User)
		return &u, nil
	case <-ctx.Done():
		record("fetch_profile", ctx.Err())
		return nil, ctx.Err()
	}
}

// Logout clears the stored session. Avatar references are kept.
func (r *AuthRepository) Logout(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.store.ClearSession(ctx)
	record("logout", err)
	if err == nil {
		r.log.Info().Msg("session cleared")
	}
	return err
}

func (r *AuthRepository) SaveAvatarRef(ctx context.Context, userID int64, uri string) error {
	if userID <= 0 {
		return domain.ErrMissingUserID
	}
	return r.store.SaveAvatarRef(ctx, userID, uri)
}

func (r *AuthRepository) SavedUser(ctx context.Context) (*domain.User, error) {
	return r.store.SavedUser(ctx)
}

func (r *AuthRepository) AvatarRef(ctx context.Context, userID int64) (string, error) {
	return r.store.AvatarRef(ctx, userID)
}

func (r *AuthRepository) WatchAvatarRef(ctx context.Context, userID int64) <-chan string {
	return r.store.WatchAvatarRef(ctx, userID)
}

func (r *AuthRepository) WatchSavedUser(ctx context.Context) <-chan *domain.User {
	return r.store.WatchSavedUser(ctx)
}

func record(op string, err error) {
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultFailure
	}
	metrics.ClientAuthOperationsTotal.WithLabelValues(op, result).Inc()
}

// IsUnauthorized reports whether err is a backend rejection of the token or
// credentials.
func IsUnauthorized(err error) bool {
	var rej *domain.RemoteRejection
	return errors.As(err, &rej) && rej.Unauthorized()
}
