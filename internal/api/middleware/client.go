package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/staybook/portal/internal/core/session"
)

const (
	// ClientCookieName carries the opaque browser client id.
	ClientCookieName = "portal_client"
	// ContextKeySession is the echo context key of the client *session.Session.
	ContextKeySession = "client_session"

	clientCookieMaxAge = 365 * 24 * 60 * 60
)

// CookieOptions controls how the client cookie is issued.
type CookieOptions struct {
	Secure bool
}

// SessionSource materialises client sessions.
type SessionSource interface {
	Acquire(ctx context.Context, clientID string) *session.Session
}

// ClientSession identifies the browser client from its cookie, issuing a new
// id when the cookie is missing or malformed, and injects its session into
// the context.
func ClientSession(src SessionSource, opts CookieOptions) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			clientID := ""
			if ck, err := c.Cookie(ClientCookieName); err == nil {
				if id, err := uuid.Parse(ck.Value); err == nil {
					clientID = id.String()
				}
			}

			if clientID == "" {
				clientID = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     ClientCookieName,
					Value:    clientID,
					Path:     "/",
					MaxAge:   clientCookieMaxAge,
					HttpOnly: true,
					Secure:   opts.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(ContextKeySession, src.Acquire(c.Request().Context(), clientID))
			return next(c)
		}
	}
}

// SessionFrom returns the client session injected by ClientSession.
func SessionFrom(c echo.Context) (*session.Session, bool) {
	sess, ok := c.Get(ContextKeySession).(*session.Session)
	return sess, ok && sess != nil
}
