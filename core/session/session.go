// Package session holds the authenticated identity for the lifetime of a
// client session and pushes every state transition to its observers. It is
// the single source of truth the route guards and the navigation filter
// read from.
package session

import (
	"context"

	"github.com/pkg/errors"

	"github.com/edusuite/darasa/core/user"
)

// Session is a read-only snapshot of the session state.
//
// Invariants: User is nil iff IsAuthenticated is false; a session starts in
// IsLoading=true and settles exactly once, when restoration completes.
type Session struct {
	User            *user.User
	IsAuthenticated bool
	IsLoading       bool
}

// Role returns the authenticated user's role, or the empty Role.
func (s Session) Role() user.Role {
	if s.User == nil {
		return ""
	}
	return s.User.Role
}

// ErrNoSession is returned by Keeper.Load when no token is stored.
var ErrNoSession = errors.New("no stored session")

// Keeper persists the session token as a durable side channel so a session
// survives a restart of the client. Implementations live under storage/session.
type Keeper interface {
	Save(ctx context.Context, token string) error
	Load(ctx context.Context) (string, error)
	Clear(ctx context.Context) error
}
