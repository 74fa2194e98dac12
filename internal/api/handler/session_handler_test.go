package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/staybook/portal/internal/api/middleware"
	"github.com/staybook/portal/internal/core/domain"
)

func TestSessionHandler_Get(t *testing.T) {
	h := NewSessionHandler()
	c, rec, sess := newContext(http.MethodGet, "/api/session?path=/admin/users", "")
	_ = sess.SaveIdentity(context.Background(), &domain.Identity{ID: 2, Role: domain.RoleAdmin})

	if err := h.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var env domain.Envelope[sessionResponse]
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	got := env.ReturnData
	if got == nil || !got.Ready || !got.Authenticated || got.Identity.Role != domain.RoleAdmin {
		t.Fatalf("unexpected session snapshot: %+v", got)
	}
	if got.NavbarVisible {
		t.Fatalf("expected navbar hidden on admin pages")
	}
}

func TestSessionHandler_UpdateIdentity(t *testing.T) {
	h := NewSessionHandler()

	c, _, _ := newContext(http.MethodPatch, "/api/session/identity", `{"city":"Faro"}`)
	expectHTTPError(t, h.UpdateIdentity(c), http.StatusUnauthorized)

	c, rec, sess := newContext(http.MethodPatch, "/api/session/identity", `{"city":"Faro"}`)
	_ = sess.SaveIdentity(context.Background(), &domain.Identity{ID: 1, Email: "a@example.com", City: "Porto"})
	if err := h.UpdateIdentity(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	got := sess.Identity.Current()
	if got.City != "Faro" || got.Email != "a@example.com" {
		t.Fatalf("unexpected identity after patch: %+v", got)
	}
}

func TestSessionHandler_UpdateIdentity_InvalidEmail(t *testing.T) {
	h := NewSessionHandler()
	c, _, sess := newContext(http.MethodPatch, "/api/session/identity", `{"email":"nope"}`)
	_ = sess.SaveIdentity(context.Background(), &domain.Identity{ID: 1, Email: "a@example.com"})

	expectHTTPError(t, h.UpdateIdentity(c), http.StatusBadRequest)
	if sess.Identity.Current().Email != "a@example.com" {
		t.Fatalf("identity changed on invalid patch")
	}
}

func TestSessionHandler_Business(t *testing.T) {
	h := NewSessionHandler()
	body := `{"id":5,"name":"Casa Azul","type":"HOTEL","modules":["rooms"]}`

	c, _, _ := newContext(http.MethodPut, "/api/session/business", body)
	expectHTTPError(t, h.SelectBusiness(c), http.StatusUnauthorized)

	c, _, sess := newContext(http.MethodPut, "/api/session/business", body)
	ctx := context.Background()
	_ = sess.SaveIdentity(ctx, &domain.Identity{ID: 1})
	if err := h.SelectBusiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if b := sess.Business.Current(); b == nil || b.ID != 5 || b.Type != "HOTEL" {
		t.Fatalf("unexpected business: %+v", b)
	}

	c, _, _ = newContext(http.MethodDelete, "/api/session/business", "")
	c.Set(middleware.ContextKeySession, sess)
	if err := h.ClearBusiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if sess.Business.Current() != nil {
		t.Fatalf("expected business cleared")
	}
}
