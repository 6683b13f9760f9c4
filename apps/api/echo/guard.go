package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edusuite/darasa/core"
	"github.com/edusuite/darasa/core/access"
	"github.com/edusuite/darasa/core/user"
)

// requireRoles gates an API route subtree on the access policy. API callers
// get the JSON 401/403 treatment; browser navigation goes through the portal
// guard below instead.
func requireRoles(conf *core.Config, svc user.Service, roles ...user.Role) echo.MiddlewareFunc {
	req := access.Requirement(roles)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			switch d := access.Decide(contextSession(ctx, conf, svc), req); d.Kind {
			case access.DecisionAllow:
				return next(ctx)
			case access.DecisionRedirectUnauthenticated:
				return errUnauthorized
			default:
				return errHttpForbidden
			}
		}
	}
}

// portalGuard protects a browser-facing portal subtree. A denied visitor is
// silently redirected: unauthenticated to the login entry point,
// wrong-role to their own portal's landing path. Never an error page.
func portalGuard(conf *core.Config, svc user.Service, req access.Requirement) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			switch d := access.Decide(contextSession(ctx, conf, svc), req); d.Kind {
			case access.DecisionAllow:
				return next(ctx)
			default:
				return ctx.Redirect(http.StatusFound, d.Target)
			}
		}
	}
}

// registerPortals mounts the role portals, each behind its specialized guard.
func registerPortals(e *echo.Echo, conf *core.Config, svc user.Service) {
	portals := []struct {
		path string
		req  access.Requirement
	}{
		{access.AdminPath, access.AdminOnly},
		{access.TeacherPath, access.TeacherOnly},
		{access.StudentPath, access.StudentOnly},
		{access.ParentPath, access.ParentOnly},
		{access.SuperAdminPath, access.SuperAdminOnly},
	}
	for _, p := range portals {
		p := p
		g := e.Group(p.path, portalGuard(conf, svc, p.req))
		g.GET("", func(ctx echo.Context) error {
			return ctx.JSON(http.StatusOK, echo.Map{"portal": p.path})
		})
	}
}
