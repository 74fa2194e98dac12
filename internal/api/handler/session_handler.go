package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/staybook/portal/internal/core/domain"
	"github.com/staybook/portal/internal/core/routes"
)

// SessionHandler exposes the client's identity and business contexts.
type SessionHandler struct{}

func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

// Get returns the session snapshot. The optional path query parameter selects
// the page whose navbar visibility is reported.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Param        path  query     string  false  "Page path for navbar visibility"
// @Success      200   {object}  domain.Envelope[sessionResponse]
// @Router       /api/session [get]
func (h *SessionHandler) Get(c echo.Context) error {
	sess, err := clientSession(c)
	if err != nil {
		return err
	}

	path := c.QueryParam("path")
	if path == "" {
		path = routes.RootPath
	}
	identity := sess.Identity.Current()
	resp := sessionResponse{
		Ready:         sess.Identity.Ready(),
		Authenticated: identity != nil,
		Identity:      identity,
		Business:      sess.Business.Current(),
		NavbarVisible: routes.NavbarVisible(path),
	}
	return c.JSON(http.StatusOK, success("OK", &resp))
}

// UpdateIdentity applies a partial profile edit to the signed-in identity.
//
// @Summary      Edit profile
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      profilePatch  true  "Fields to change"
// @Success      200   {object}  domain.Envelope[domain.Identity]
// @Failure      401   {object}  domain.Envelope[domain.Empty]
// @Router       /api/session/identity [patch]
func (h *SessionHandler) UpdateIdentity(c echo.Context) error {
	var patch profilePatch
	if err := bindAndValidate(c, &patch); err != nil {
		return err
	}
	sess, err := clientSession(c)
	if err != nil {
		return err
	}
	if !sess.Identity.IsAuthenticated() {
		return echo.NewHTTPError(http.StatusUnauthorized, "not signed in")
	}

	err = sess.Identity.Update(c.Request().Context(), func(prev *domain.Identity) *domain.Identity {
		if prev == nil {
			return nil
		}
		patch.apply(prev)
		return prev
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success("Profile updated", sess.Identity.Current()))
}

// SelectBusiness makes a business the client's active business.
//
// @Summary      Select active business
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      businessRequest  true  "Business"
// @Success      200   {object}  domain.Envelope[domain.Business]
// @Failure      401   {object}  domain.Envelope[domain.Empty]
// @Router       /api/session/business [put]
func (h *SessionHandler) SelectBusiness(c echo.Context) error {
	var req businessRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	sess, err := clientSession(c)
	if err != nil {
		return err
	}
	if !sess.Identity.IsAuthenticated() {
		return echo.NewHTTPError(http.StatusUnauthorized, "not signed in")
	}

	if err := sess.Business.Set(c.Request().Context(), req.toBusiness()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success("Business selected", sess.Business.Current()))
}

// ClearBusiness drops the active business.
//
// @Summary      Clear active business
// @Tags         session
// @Produce      json
// @Success      200   {object}  domain.Envelope[domain.Empty]
// @Router       /api/session/business [delete]
func (h *SessionHandler) ClearBusiness(c echo.Context) error {
	sess, err := clientSession(c)
	if err != nil {
		return err
	}
	if err := sess.Business.Clear(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, success[domain.Empty]("Business cleared", nil))
}
