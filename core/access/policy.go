// Package access decides who may see what: a pure policy over the session
// state, the per-role landing paths, and the route guard enforcing both.
package access

import (
	"github.com/edusuite/darasa/core/session"
	"github.com/edusuite/darasa/core/user"
)

// Landing paths, one per portal.
const (
	LoginPath      = "/login"
	AdminPath      = "/admin"
	TeacherPath    = "/teacher"
	StudentPath    = "/student"
	ParentPath     = "/parent"
	SuperAdminPath = "/super-admin"
)

// Requirement is the set of roles permitted to access a protected region.
// Order is irrelevant. An empty Requirement admits any authenticated identity.
type Requirement []user.Role

func (req Requirement) Contains(r user.Role) bool {
	for _, role := range req {
		if role == r {
			return true
		}
	}
	return false
}

// Pre-bound requirements for the role-specialized guards.
var (
	AdminOnly      = Requirement{user.RoleAdmin}
	TeacherOnly    = Requirement{user.RoleTeacher}
	StudentOnly    = Requirement{user.RoleStudent}
	ParentOnly     = Requirement{user.RoleParent}
	SuperAdminOnly = Requirement{user.RoleSuperAdmin}
)

type DecisionKind int

const (
	// DecisionPending defers judgment while the session is still loading.
	// It is the one non-terminal outcome: callers must not redirect on it.
	DecisionPending DecisionKind = iota
	DecisionAllow
	DecisionRedirectUnauthenticated
	DecisionRedirectForbidden
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionPending:
		return "pending"
	case DecisionAllow:
		return "allow"
	case DecisionRedirectUnauthenticated:
		return "redirect-unauthenticated"
	case DecisionRedirectForbidden:
		return "redirect-forbidden"
	}
	return "unknown"
}

// Decision is the outcome of a policy evaluation. Target is set on the
// redirect kinds only.
type Decision struct {
	Kind   DecisionKind
	Target string
}

// LandingPath maps a role to its canonical landing path. A role missing from
// the enum falls back to the unauthenticated landing path.
func LandingPath(r user.Role) string {
	switch r {
	case user.RoleAdmin:
		return AdminPath
	case user.RoleTeacher:
		return TeacherPath
	case user.RoleStudent:
		return StudentPath
	case user.RoleParent:
		return ParentPath
	case user.RoleSuperAdmin:
		return SuperAdminPath
	}
	return LoginPath
}

// Decide evaluates the access policy for the given session snapshot and
// requirement. It is pure and total: defined for every combination of
// session state and requirement, evaluated fresh on every call.
func Decide(s session.Session, req Requirement) Decision {
	if s.IsLoading {
		return Decision{Kind: DecisionPending}
	}
	if !s.IsAuthenticated {
		return Decision{Kind: DecisionRedirectUnauthenticated, Target: LoginPath}
	}
	if len(req) == 0 || req.Contains(s.Role()) {
		return Decision{Kind: DecisionAllow}
	}
	return Decision{Kind: DecisionRedirectForbidden, Target: LandingPath(s.Role())}
}
