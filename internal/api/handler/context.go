package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/staybook/portal/internal/api/middleware"
	"github.com/staybook/portal/internal/core/session"
)

// clientSession extracts the session injected by the ClientSession
// middleware. Its absence means the route was wired without it.
func clientSession(c echo.Context) (*session.Session, error) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "client session missing")
	}
	return sess, nil
}

// bindAndValidate decodes the request body into req and validates it.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
