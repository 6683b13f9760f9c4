package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/edusuite/darasa/core"
	"github.com/edusuite/darasa/core/user"
)

type (
	// Store is the identity store: exactly one per running client.
	// It owns the session state and notifies subscribers on every transition.
	Store struct {
		conf   *core.Config
		svc    user.Service
		keeper Keeper
		log    core.Logger

		mu      sync.RWMutex
		state   Session
		subs    []subscriber
		nextSub int
	}

	subscriber struct {
		id int
		fn func(Session)
	}
)

// NewStore returns a Store in the loading state. Callers settle it with
// Restore once the persisted session (if any) has been looked up.
func NewStore(conf *core.Config, svc user.Service, keeper Keeper, log core.Logger) *Store {
	return &Store{
		conf:   conf,
		svc:    svc,
		keeper: keeper,
		log:    log,
		state:  Session{IsLoading: true},
	}
}

// Current returns a snapshot of the session state.
func (s *Store) Current() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn to be called with the new state after every
// transition. The returned func unsubscribes.
func (s *Store) Subscribe(fn func(Session)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Restore settles the initial loading state from the persisted token.
// Any failure (no token, expired token, unknown or deactivated user) settles
// the store unauthenticated; Restore never fails outward.
func (s *Store) Restore(ctx context.Context) {
	token, err := s.keeper.Load(ctx)
	if err != nil {
		if errors.Cause(err) != ErrNoSession {
			s.log.Warn("loading stored session", err)
		}
		s.set(Session{})
		return
	}

	claims, err := ParseToken(s.conf, token)
	if err != nil {
		s.clearKeeper(ctx)
		s.set(Session{})
		return
	}

	usr, err := s.svc.GetByID(ctx, claims.Subject)
	if err != nil || (usr.IsActive != nil && !*usr.IsActive) {
		if err != nil && errors.Cause(err) != user.ErrNotFound {
			s.log.Warn("restoring session user", err)
		}
		s.clearKeeper(ctx)
		s.set(Session{})
		return
	}

	s.set(Session{User: &usr, IsAuthenticated: true})
}

// Login authenticates the credentials and transitions to the authenticated
// state. On failure the state is left untouched (but settled) and the error
// is surfaced to the caller.
func (s *Store) Login(ctx context.Context, email, pwd string) (user.User, error) {
	usr, err := s.svc.Authenticate(ctx, email, pwd)
	if err != nil {
		s.settle()
		return user.User{}, err
	}
	if usr, err = s.svc.SetLastLogin(ctx, usr); err != nil {
		s.settle()
		return user.User{}, errors.Wrap(err, "setting lastLogin")
	}

	token, err := SignToken(s.conf, NewClaims(s.conf, usr))
	if err != nil {
		s.settle()
		return user.User{}, err
	}
	// persistence is a side channel; a failed save never fails the login
	if err := s.keeper.Save(ctx, token); err != nil {
		s.log.Warn("persisting session token", err)
	}

	s.set(Session{User: &usr, IsAuthenticated: true})
	return usr, nil
}

// Logout transitions to the unauthenticated state unconditionally.
// Safe to call when already logged out.
func (s *Store) Logout(ctx context.Context) {
	s.clearKeeper(ctx)
	s.set(Session{})
}

func (s *Store) clearKeeper(ctx context.Context) {
	if err := s.keeper.Clear(ctx); err != nil && errors.Cause(err) != ErrNoSession {
		s.log.Warn("clearing session token", err)
	}
}

// settle marks the session resolved without changing the identity,
// so guards stop deferring after a failed restore or login attempt.
func (s *Store) settle() {
	s.mu.Lock()
	if !s.state.IsLoading {
		s.mu.Unlock()
		return
	}
	s.state.IsLoading = false
	state := s.state
	subs := append([]subscriber(nil), s.subs...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(state)
	}
}

func (s *Store) set(state Session) {
	s.mu.Lock()
	s.state = state
	subs := append([]subscriber(nil), s.subs...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(state)
	}
}
