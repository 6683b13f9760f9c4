package session_test

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/edusuite/darasa/core"
	"github.com/edusuite/darasa/core/session"
	"github.com/edusuite/darasa/core/user"
	emailsvc "github.com/edusuite/darasa/services/email"
	logsvc "github.com/edusuite/darasa/services/logger"
	inmemdb "github.com/edusuite/darasa/storage/database/inmem"
	sessionstore "github.com/edusuite/darasa/storage/session"
)

type storeFixture struct {
	conf   *core.Config
	svc    user.Service
	keeper session.Keeper
	store  *session.Store
}

func newStoreFixture(t *testing.T) *storeFixture {
	t.Helper()
	conf := core.NewTestConfig()
	repo := inmemdb.NewUserRepository(inmemdb.NewDB())
	svc := user.NewServiceMock(conf, repo, emailsvc.NewConsoleServiceMock(conf))
	keeper := sessionstore.NewInMemKeeper()
	logger := logsvc.NewStdLogger(log.New(io.Discard, "", 0))
	return &storeFixture{
		conf:   conf,
		svc:    svc,
		keeper: keeper,
		store:  session.NewStore(conf, svc, keeper, logger),
	}
}

func (f *storeFixture) seedUser(t *testing.T, email, pwd string, role user.Role, active bool) user.User {
	t.Helper()
	usr, err := f.svc.Create(context.Background(), user.NewUser{
		FirstName:       "Jane",
		LastName:        "Doe",
		Email:           email,
		Role:            role,
		Password:        pwd,
		PasswordConfirm: pwd,
	})
	if err != nil {
		t.Fatalf("seeding user failed: %v", err)
	}
	if !active {
		inactive := false
		if usr, err = f.svc.Update(context.Background(), usr.ID, user.UpdateUser{IsActive: &inactive}); err != nil {
			t.Fatalf("deactivating user failed: %v", err)
		}
	}
	return usr
}

func TestStoreStartsLoading(t *testing.T) {
	f := newStoreFixture(t)

	s := f.store.Current()
	if !s.IsLoading || s.IsAuthenticated || s.User != nil {
		t.Errorf("Current() = %+v, want pristine loading state", s)
	}
}

func TestStoreRestore(t *testing.T) {
	ctx := context.Background()

	t.Run("no stored token settles unauthenticated", func(t *testing.T) {
		f := newStoreFixture(t)
		f.store.Restore(ctx)

		s := f.store.Current()
		if s.IsLoading || s.IsAuthenticated {
			t.Errorf("Current() = %+v, want settled unauthenticated", s)
		}
	})

	t.Run("garbage token settles unauthenticated", func(t *testing.T) {
		f := newStoreFixture(t)
		_ = f.keeper.Save(ctx, "not-a-jwt")
		f.store.Restore(ctx)

		s := f.store.Current()
		if s.IsLoading || s.IsAuthenticated {
			t.Errorf("Current() = %+v, want settled unauthenticated", s)
		}
		if _, err := f.keeper.Load(ctx); errors.Cause(err) != session.ErrNoSession {
			t.Errorf("Load() error = %v, want ErrNoSession after a failed restore", err)
		}
	})

	t.Run("valid token restores the session", func(t *testing.T) {
		f := newStoreFixture(t)
		usr := f.seedUser(t, "jane@test.test", "pwd", user.RoleTeacher, true)

		token, err := session.SignToken(f.conf, session.NewClaims(f.conf, usr))
		if err != nil {
			t.Fatalf("SignToken() failed: %v", err)
		}
		_ = f.keeper.Save(ctx, token)
		f.store.Restore(ctx)

		s := f.store.Current()
		if s.IsLoading || !s.IsAuthenticated || s.User == nil || s.User.ID != usr.ID {
			t.Errorf("Current() = %+v, want restored session for %v", s, usr.ID)
		}
	})

	t.Run("deactivated user settles unauthenticated", func(t *testing.T) {
		f := newStoreFixture(t)
		usr := f.seedUser(t, "jane@test.test", "pwd", user.RoleTeacher, false)

		token, err := session.SignToken(f.conf, session.NewClaims(f.conf, usr))
		if err != nil {
			t.Fatalf("SignToken() failed: %v", err)
		}
		_ = f.keeper.Save(ctx, token)
		f.store.Restore(ctx)

		s := f.store.Current()
		if s.IsLoading || s.IsAuthenticated {
			t.Errorf("Current() = %+v, want settled unauthenticated", s)
		}
	})

	t.Run("unknown user settles unauthenticated", func(t *testing.T) {
		f := newStoreFixture(t)
		ghost := user.User{ID: uuid.New().String(), Email: "ghost@test.test", Role: user.RoleStudent}

		token, err := session.SignToken(f.conf, session.NewClaims(f.conf, ghost))
		if err != nil {
			t.Fatalf("SignToken() failed: %v", err)
		}
		_ = f.keeper.Save(ctx, token)
		f.store.Restore(ctx)

		s := f.store.Current()
		if s.IsLoading || s.IsAuthenticated {
			t.Errorf("Current() = %+v, want settled unauthenticated", s)
		}
	})
}

func TestStoreLogin(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)
	f.seedUser(t, "jane@test.test", "pwd", user.RoleStudent, true)

	// a failed attempt settles the session but does not authenticate it
	if _, err := f.store.Login(ctx, "jane@test.test", "wrong"); errors.Cause(err) != user.ErrAuthenticationFailed {
		t.Fatalf("Login() error = %v, want ErrAuthenticationFailed", err)
	}
	s := f.store.Current()
	if s.IsLoading || s.IsAuthenticated {
		t.Errorf("Current() = %+v, want settled unauthenticated after failed login", s)
	}

	// a failed attempt does not poison the store
	usr, err := f.store.Login(ctx, "jane@test.test", "pwd")
	if err != nil {
		t.Fatalf("Login() failed: %v", err)
	}
	s = f.store.Current()
	if !s.IsAuthenticated || s.User == nil || s.User.ID != usr.ID {
		t.Errorf("Current() = %+v, want authenticated session for %v", s, usr.ID)
	}
	if usr.LastLogin.IsZero() || time.Since(usr.LastLogin) > time.Minute {
		t.Errorf("LastLogin = %v, want recent", usr.LastLogin)
	}

	// the token was persisted and restores the same identity
	token, err := f.keeper.Load(ctx)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	claims, err := session.ParseToken(f.conf, token)
	if err != nil {
		t.Fatalf("ParseToken() failed: %v", err)
	}
	if claims.Subject != usr.ID {
		t.Errorf("Subject = %v, want %v", claims.Subject, usr.ID)
	}
}

func TestStoreLoginDeactivated(t *testing.T) {
	f := newStoreFixture(t)
	f.seedUser(t, "jane@test.test", "pwd", user.RoleStudent, false)

	if _, err := f.store.Login(context.Background(), "jane@test.test", "pwd"); errors.Cause(err) != user.ErrAccountDeactivated {
		t.Fatalf("Login() error = %v, want ErrAccountDeactivated", err)
	}
	if s := f.store.Current(); s.IsAuthenticated {
		t.Errorf("Current() = %+v, want unauthenticated", s)
	}
}

func TestStoreLogout(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)
	f.seedUser(t, "jane@test.test", "pwd", user.RoleParent, true)

	if _, err := f.store.Login(ctx, "jane@test.test", "pwd"); err != nil {
		t.Fatalf("Login() failed: %v", err)
	}

	f.store.Logout(ctx)
	s := f.store.Current()
	if s.IsAuthenticated || s.User != nil {
		t.Errorf("Current() = %+v, want unauthenticated", s)
	}
	if _, err := f.keeper.Load(ctx); errors.Cause(err) != session.ErrNoSession {
		t.Errorf("Load() error = %v, want ErrNoSession", err)
	}

	// logging out twice is not an error
	f.store.Logout(ctx)
	if s = f.store.Current(); s.IsAuthenticated {
		t.Errorf("Current() = %+v, want unauthenticated", s)
	}
}

func TestStoreSubscribe(t *testing.T) {
	ctx := context.Background()
	f := newStoreFixture(t)
	f.seedUser(t, "jane@test.test", "pwd", user.RoleAdmin, true)

	var got []session.Session
	unsub := f.store.Subscribe(func(s session.Session) { got = append(got, s) })

	f.store.Restore(ctx)
	if _, err := f.store.Login(ctx, "jane@test.test", "pwd"); err != nil {
		t.Fatalf("Login() failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d notifications, want 2", len(got))
	}
	if got[0].IsAuthenticated || got[0].IsLoading {
		t.Errorf("first notification = %+v, want settled unauthenticated", got[0])
	}
	if !got[1].IsAuthenticated {
		t.Errorf("second notification = %+v, want authenticated", got[1])
	}

	unsub()
	f.store.Logout(ctx)
	if len(got) != 2 {
		t.Errorf("got %d notifications after unsubscribe, want 2", len(got))
	}

	// unsubscribing twice is a no-op
	unsub()
}
