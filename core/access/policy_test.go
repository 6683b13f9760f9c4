package access

import (
	"testing"

	"github.com/edusuite/darasa/core/session"
	"github.com/edusuite/darasa/core/user"
)

func sessionFor(role user.Role) session.Session {
	usr := user.User{ID: "u1", Email: "u1@test.test", Role: role}
	return session.Session{User: &usr, IsAuthenticated: true}
}

func TestDecide(t *testing.T) {
	loading := session.Session{IsLoading: true}
	anon := session.Session{}

	tests := []struct {
		name string
		s    session.Session
		req  Requirement
		want Decision
	}{
		{name: "loading defers, no requirement", s: loading, want: Decision{Kind: DecisionPending}},
		{name: "loading defers, admin requirement", s: loading, req: AdminOnly, want: Decision{Kind: DecisionPending}},
		{name: "loading defers even for an impossible requirement", s: loading, req: Requirement{"nope"}, want: Decision{Kind: DecisionPending}},

		{name: "anonymous, no requirement", s: anon, want: Decision{Kind: DecisionRedirectUnauthenticated, Target: LoginPath}},
		{name: "anonymous, admin requirement", s: anon, req: AdminOnly, want: Decision{Kind: DecisionRedirectUnauthenticated, Target: LoginPath}},
		{name: "anonymous, multi-role requirement", s: anon, req: Requirement{user.RoleTeacher, user.RoleStudent}, want: Decision{Kind: DecisionRedirectUnauthenticated, Target: LoginPath}},

		{name: "authenticated, no requirement", s: sessionFor(user.RoleStudent), want: Decision{Kind: DecisionAllow}},
		{name: "role in requirement", s: sessionFor(user.RoleAdmin), req: AdminOnly, want: Decision{Kind: DecisionAllow}},
		{name: "role in multi-role requirement", s: sessionFor(user.RoleStudent), req: Requirement{user.RoleTeacher, user.RoleStudent}, want: Decision{Kind: DecisionAllow}},

		{name: "student on admin route", s: sessionFor(user.RoleStudent), req: AdminOnly, want: Decision{Kind: DecisionRedirectForbidden, Target: StudentPath}},
		{name: "teacher on admin route", s: sessionFor(user.RoleTeacher), req: AdminOnly, want: Decision{Kind: DecisionRedirectForbidden, Target: TeacherPath}},
		{name: "parent on teacher route", s: sessionFor(user.RoleParent), req: TeacherOnly, want: Decision{Kind: DecisionRedirectForbidden, Target: ParentPath}},
		{name: "admin on student route", s: sessionFor(user.RoleAdmin), req: StudentOnly, want: Decision{Kind: DecisionRedirectForbidden, Target: AdminPath}},
		{name: "super admin on parent route", s: sessionFor(user.RoleSuperAdmin), req: ParentOnly, want: Decision{Kind: DecisionRedirectForbidden, Target: SuperAdminPath}},
		{name: "unknown role falls back to login", s: sessionFor("alumni"), req: AdminOnly, want: Decision{Kind: DecisionRedirectForbidden, Target: LoginPath}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.s, tt.req); got != tt.want {
				t.Errorf("Decide() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// every settled authenticated session is either allowed or redirected to its
// own landing path; no combination escapes the policy
func TestDecideTotal(t *testing.T) {
	reqs := []Requirement{
		nil,
		AdminOnly, TeacherOnly, StudentOnly, ParentOnly, SuperAdminOnly,
		{user.RoleAdmin, user.RoleSuperAdmin},
		{user.RoleStudent, user.RoleParent, user.RoleTeacher, user.RoleAdmin, user.RoleSuperAdmin},
	}
	for _, role := range user.AllRoles {
		s := sessionFor(role)
		for _, req := range reqs {
			d := Decide(s, req)
			switch {
			case len(req) == 0 || req.Contains(role):
				if d.Kind != DecisionAllow {
					t.Errorf("Decide(%v, %v) = %+v, want allow", role, req, d)
				}
			default:
				if d.Kind != DecisionRedirectForbidden || d.Target != LandingPath(role) {
					t.Errorf("Decide(%v, %v) = %+v, want redirect to %v", role, req, d, LandingPath(role))
				}
			}
		}
	}
}

func TestLandingPath(t *testing.T) {
	tests := []struct {
		role user.Role
		want string
	}{
		{user.RoleAdmin, AdminPath},
		{user.RoleTeacher, TeacherPath},
		{user.RoleStudent, StudentPath},
		{user.RoleParent, ParentPath},
		{user.RoleSuperAdmin, SuperAdminPath},
		{"", LoginPath},
		{"alumni", LoginPath},
	}
	for _, tt := range tests {
		if got := LandingPath(tt.role); got != tt.want {
			t.Errorf("LandingPath(%q) = %v, want %v", tt.role, got, tt.want)
		}
	}
}
