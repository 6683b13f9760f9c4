package access

import (
	"sync"

	"github.com/edusuite/darasa/core/session"
)

// GuardState is the observable state of a route guard.
type GuardState int

const (
	// GuardPending renders nothing while the session is still loading.
	GuardPending GuardState = iota
	// GuardRedirecting renders nothing; navigation to the decided target
	// has been issued.
	GuardRedirecting
	// GuardAuthorized renders the protected content.
	GuardAuthorized
)

func (s GuardState) String() string {
	switch s {
	case GuardPending:
		return "pending"
	case GuardRedirecting:
		return "redirecting"
	case GuardAuthorized:
		return "authorized"
	}
	return "unknown"
}

// Navigate is called by a Guard to issue navigation to a target path.
type Navigate func(target string)

type GuardOption func(*Guard)

// WithRedirectTo overrides the unauthenticated redirect target (default LoginPath).
func WithRedirectTo(path string) GuardOption {
	return func(g *Guard) { g.redirectTo = path }
}

// Guard gates a protected region: it consults the access policy against the
// identity store on every session transition and either authorizes the
// region or issues a redirect. Navigation fires exactly once per decision
// change, never repeatedly for the same decision, and never while the
// session is still loading.
type Guard struct {
	store      *session.Store
	req        Requirement
	redirectTo string
	navigate   Navigate
	unsub      func()

	mu    sync.Mutex
	state GuardState
	last  Decision
}

// NewGuard subscribes to the store and immediately evaluates the current
// session. Close releases the subscription.
func NewGuard(store *session.Store, req Requirement, navigate Navigate, opts ...GuardOption) *Guard {
	g := &Guard{
		store:      store,
		req:        req,
		redirectTo: LoginPath,
		navigate:   navigate,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.unsub = store.Subscribe(g.evaluate)
	g.evaluate(store.Current())
	return g
}

// Role-specialized guards: pre-bound requirement, same machinery.

func NewAdminGuard(store *session.Store, nav Navigate, opts ...GuardOption) *Guard {
	return NewGuard(store, AdminOnly, nav, opts...)
}

func NewTeacherGuard(store *session.Store, nav Navigate, opts ...GuardOption) *Guard {
	return NewGuard(store, TeacherOnly, nav, opts...)
}

func NewStudentGuard(store *session.Store, nav Navigate, opts ...GuardOption) *Guard {
	return NewGuard(store, StudentOnly, nav, opts...)
}

func NewParentGuard(store *session.Store, nav Navigate, opts ...GuardOption) *Guard {
	return NewGuard(store, ParentOnly, nav, opts...)
}

func NewSuperAdminGuard(store *session.Store, nav Navigate, opts ...GuardOption) *Guard {
	return NewGuard(store, SuperAdminOnly, nav, opts...)
}

// State returns the current guard state.
func (g *Guard) State() GuardState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Close unsubscribes the guard from the identity store.
func (g *Guard) Close() {
	if g.unsub != nil {
		g.unsub()
		g.unsub = nil
	}
}

func (g *Guard) evaluate(s session.Session) {
	d := Decide(s, g.req)
	if d.Kind == DecisionRedirectUnauthenticated {
		d.Target = g.redirectTo
	}

	g.mu.Lock()
	changed := d != g.last
	g.last = d
	switch d.Kind {
	case DecisionPending:
		g.state = GuardPending
	case DecisionAllow:
		g.state = GuardAuthorized
	default:
		g.state = GuardRedirecting
	}
	g.mu.Unlock()

	// navigation is issued outside the lock: the callback may read the
	// store or tear the guard down
	if changed && (d.Kind == DecisionRedirectUnauthenticated || d.Kind == DecisionRedirectForbidden) {
		if g.navigate != nil {
			g.navigate(d.Target)
		}
	}
}
