package sessionstore

import (
	"context"
	"sync"

	"github.com/edusuite/darasa/core/session"
)

type inMemKeeper struct {
	mu    sync.Mutex
	token string
	set   bool
}

var _ session.Keeper = (*inMemKeeper)(nil)

// NewInMemKeeper keeps the session token in memory. For tests and the CLI.
func NewInMemKeeper() session.Keeper {
	return &inMemKeeper{}
}

func (k *inMemKeeper) Save(_ context.Context, token string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.token = token
	k.set = true
	return nil
}

func (k *inMemKeeper) Load(_ context.Context) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.set {
		return "", session.ErrNoSession
	}
	return k.token, nil
}

func (k *inMemKeeper) Clear(_ context.Context) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.token = ""
	k.set = false
	return nil
}
