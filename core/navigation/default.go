package navigation

import "github.com/edusuite/darasa/core/user"

var (
	allRoles   = []user.Role{user.RoleStudent, user.RoleParent, user.RoleTeacher, user.RoleAdmin, user.RoleSuperAdmin}
	staffRoles = []user.Role{user.RoleTeacher, user.RoleAdmin, user.RoleSuperAdmin}
	adminRoles = []user.Role{user.RoleAdmin, user.RoleSuperAdmin}
)

// DefaultMenu returns the school dashboard menu forest.
func DefaultMenu() []Node {
	return []Node{
		{Title: "Dashboard", Path: "/dashboard", Roles: allRoles},
		{Title: "Students", Path: "/students", Roles: staffRoles, Children: []Node{
			{Title: "All Students", Path: "/students/list", Roles: staffRoles},
			{Title: "Admissions", Path: "/students/admissions", Roles: adminRoles},
		}},
		{Title: "Staff", Path: "/staff", Roles: adminRoles, Children: []Node{
			{Title: "All Staff", Path: "/staff/list", Roles: adminRoles},
			{Title: "Departments", Path: "/staff/departments", Roles: adminRoles},
		}},
		{Title: "Financial", Path: "/financial", Roles: []user.Role{user.RoleAdmin, user.RoleSuperAdmin, user.RoleParent}, Children: []Node{
			{Title: "Fee Management", Path: "/financial/fees", Roles: adminRoles},
			{Title: "My Invoices", Path: "/financial/invoices", Roles: []user.Role{user.RoleParent}},
		}},
		{Title: "Attendance", Path: "/attendance", Roles: []user.Role{user.RoleStudent, user.RoleParent, user.RoleTeacher, user.RoleAdmin, user.RoleSuperAdmin}},
		{Title: "Exams", Path: "/exams", Roles: allRoles, Children: []Node{
			{Title: "Schedule", Path: "/exams/schedule", Roles: allRoles},
			{Title: "Grading", Path: "/exams/grading", Roles: staffRoles},
		}},
		{Title: "Library", Path: "/library", Roles: allRoles},
		{Title: "Transport", Path: "/transport", Roles: []user.Role{user.RoleStudent, user.RoleParent, user.RoleAdmin, user.RoleSuperAdmin}},
		{Title: "Messaging", Path: "/messaging", Roles: allRoles},
		{Title: "Notifications", Path: "/notifications", Roles: allRoles},
		{Title: "Settings", Path: "/settings", Roles: []user.Role{user.RoleSuperAdmin}},
	}
}
