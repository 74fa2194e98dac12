package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/staybook/portal/internal/core/routes"
)

// PageHandler answers page routes with a description of the page the
// browser application renders there.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Render returns the handler for route.
func (h *PageHandler) Render(route routes.Route) echo.HandlerFunc {
	return func(c echo.Context) error {
		resp := pageResponse{
			Page:   route.Name,
			Path:   c.Request().URL.Path,
			Navbar: !route.HideNavbar,
		}
		if sess, err := clientSession(c); err == nil {
			resp.Identity = sess.Identity.Current()
			resp.Business = sess.Business.Current()
		}
		return c.JSON(http.StatusOK, resp)
	}
}
