package viewmodel

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/grupo8/reparafacil/internal/core/domain"
	"github.com/grupo8/reparafacil/internal/core/ports"
	"github.com/grupo8/reparafacil/internal/pkg/observable"
)

// ProfileState is what the profile screen renders.
type ProfileState struct {
	User      *domain.User
	AvatarRef string
	Loading   bool
	Message   string
}

// ProfileViewModel loads the profile and follows the avatar of whichever
// user it shows.
type ProfileViewModel struct {
	ctx  context.Context
	repo ports.SessionWorkflow
	log  zerolog.Logger

	state *observable.Value[ProfileState]

	mu           sync.Mutex
	avatarUser   int64
	avatarCancel context.CancelFunc
}

// NewProfileViewModel returns a view-model whose avatar subscription lives
// until ctx is done.
func NewProfileViewModel(ctx context.Context, repo ports.SessionWorkflow, log zerolog.Logger) *ProfileViewModel {
	return &ProfileViewModel{
		ctx:   ctx,
		repo:  repo,
		log:   log.With().Str("component", "profile_viewmodel").Logger(),
		state: observable.New(ProfileState{}),
	}
}

func (vm *ProfileViewModel) State() ProfileState { return vm.state.Get() }

func (vm *ProfileViewModel) Watch(ctx context.Context) <-chan ProfileState {
	return vm.state.Subscribe(ctx)
}

// Load fetches the profile. On failure it records the message and falls back
// to the locally saved user, if there is one.
func (vm *ProfileViewModel) Load(ctx context.Context) ProfileState {
	vm.state.Update(func(s ProfileState) ProfileState {
		s.Loading = true
		return s
	})

	user, err := vm.repo.FetchProfile(ctx)
	if err != nil {
		vm.log.Debug().Err(err).Msg("profile fetch failed, using saved user")
		user = vm.savedUser(ctx)
	}

	st := vm.state.Update(func(s ProfileState) ProfileState {
		s.Loading = false
		s.Message = ""
		if err != nil {
			s.Message = domain.UserMessage(err)
		}
		if user != nil {
			s.User = user
		}
		return s
	})
	if st.User != nil {
		vm.followAvatar(st.User.ID)
	}
	return vm.state.Get()
}

func (vm *ProfileViewModel) savedUser(ctx context.Context) *domain.User {
	u, err := vm.repo.SavedUser(ctx)
	if err != nil {
		vm.log.Warn().Err(err).Msg("saved user unreadable")
		return nil
	}
	return u
}

// followAvatar switches the avatar subscription to userID.
func (vm *ProfileViewModel) followAvatar(userID int64) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	if vm.avatarCancel != nil {
		if vm.avatarUser == userID {
			return
		}
		vm.avatarCancel()
	}
	ctx, cancel := context.WithCancel(vm.ctx)
	vm.avatarUser, vm.avatarCancel = userID, cancel

	refs := vm.repo.WatchAvatarRef(ctx, userID)
	go func() {
		for ref := range refs {
			vm.state.Update(func(s ProfileState) ProfileState {
				if s.User != nil && s.User.ID == userID {
					s.AvatarRef = ref
				}
				return s
			})
		}
	}()
}

// SetAvatar stores uri as the avatar of the shown user. Without a known user
// id nothing is written.
func (vm *ProfileViewModel) SetAvatar(ctx context.Context, uri string) error {
	user := vm.state.Get().User
	if user == nil || user.ID <= 0 {
		vm.state.Update(func(s ProfileState) ProfileState {
			s.Message = domain.ErrMissingUserID.Error()
			return s
		})
		return domain.ErrMissingUserID
	}
	if err := vm.repo.SaveAvatarRef(ctx, user.ID, uri); err != nil {
		vm.state.Update(func(s ProfileState) ProfileState {
			s.Message = domain.UserMessage(err)
			return s
		})
		return err
	}
	vm.state.Update(func(s ProfileState) ProfileState {
		if s.User != nil && s.User.ID == user.ID {
			s.AvatarRef = uri
		}
		return s
	})
	return nil
}
