package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edusuite/darasa/core"
	"github.com/edusuite/darasa/core/navigation"
	"github.com/edusuite/darasa/core/user"
)

type menuApi struct {
	conf *core.Config
	svc  user.Service
	menu []navigation.Node
}

func registerMenuAPI(g *echo.Group, conf *core.Config, svc user.Service) {
	api := menuApi{
		conf: conf,
		svc:  svc,
		menu: navigation.DefaultMenu(),
	}
	g.GET("/menu", api.retrieve)
}

// retrieve returns the menu subtree visible to the current identity.
// An unauthenticated caller gets an empty menu, not an error.
func (api *menuApi) retrieve(ctx echo.Context) error {
	visible := navigation.Visible(api.menu, contextSession(ctx, api.conf, api.svc))
	if visible == nil {
		visible = []navigation.Node{}
	}
	return ctx.JSON(http.StatusOK, ListResponse{Total: len(visible), Items: visible})
}

// ListResponse is the envelope every list endpoint in the system shares,
// data services included.
type ListResponse struct {
	Total int         `json:"total"`
	Items interface{} `json:"items"`
}
