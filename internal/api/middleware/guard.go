package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/staybook/portal/internal/core/domain"
	"github.com/staybook/portal/internal/core/guard"
	"github.com/staybook/portal/internal/core/routes"
)

// Evaluator decides guard outcomes.
type Evaluator interface {
	Evaluate(ctx context.Context, sub guard.Subject, allowed []domain.Role) guard.Decision
}

type pendingResponse struct {
	Page string `json:"page"`
}

// Guard enforces route access for protected pages. Redirects use 303 so the
// guarded page never lands in the browser history.
func Guard(ev Evaluator, route routes.Route) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if !route.Protected {
			return next
		}
		return func(c echo.Context) error {
			sess, ok := SessionFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusInternalServerError, "client session missing")
			}

			d := ev.Evaluate(c.Request().Context(), sess, route.Roles)
			switch d.Outcome {
			case guard.Pending:
				return c.JSON(http.StatusAccepted, pendingResponse{Page: "loading"})
			case guard.RedirectLogin, guard.RedirectUnauthorized:
				return c.Redirect(http.StatusSeeOther, d.Location)
			}
			return next(c)
		}
	}
}
