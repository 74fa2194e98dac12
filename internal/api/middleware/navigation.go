package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/staybook/portal/internal/core/navigation"
	"github.com/staybook/portal/internal/core/routes"
)

// VisitQueue persists page visits in per-client order.
type VisitQueue interface {
	Enqueue(ctx context.Context, v navigation.Visit) error
}

// RestorePath runs the client's mount-time check on its first page request
// and redirects to the remembered page when it applies.
func RestorePath() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, ok := SessionFrom(c)
			if !ok {
				return next(c)
			}
			if target, redirect := sess.Paths.Mount(c.Request().Context(), c.Request().URL.Path); redirect {
				return c.Redirect(http.StatusSeeOther, target)
			}
			return next(c)
		}
	}
}

// RememberPath queues the path of every page that rendered successfully,
// unless the route opts out.
func RememberPath(route routes.Route, visits VisitQueue, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if route.SkipPathMemory {
			return next
		}
		return func(c echo.Context) error {
			if err := next(c); err != nil {
				return err
			}
			if c.Request().Method != http.MethodGet || c.Response().Status != http.StatusOK {
				return nil
			}
			sess, ok := SessionFrom(c)
			if !ok {
				return nil
			}
			v := navigation.Visit{ClientID: sess.ClientID, Path: c.Request().URL.Path, Memory: sess.Paths}
			if err := visits.Enqueue(c.Request().Context(), v); err != nil {
				log.Warn().Err(err).Str("path", v.Path).Msg("failed to remember path")
			}
			return nil
		}
	}
}
