package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/staybook/portal/internal/core/domain"
	"github.com/staybook/portal/internal/core/guard"
	"github.com/staybook/portal/internal/core/navigation"
	"github.com/staybook/portal/internal/core/routes"
	"github.com/staybook/portal/internal/core/session"
	"github.com/staybook/portal/internal/infrastructure/storage/memory"
)

const testClient = "5b1f3a2e-8c4d-4e6f-9a0b-1c2d3e4f5a6b"

// syncVisits persists visits inline so tests can assert on them immediately.
type syncVisits struct{}

func (syncVisits) Enqueue(ctx context.Context, v navigation.Visit) error {
	return v.Persist(ctx)
}

type fixture struct {
	e        *echo.Echo
	registry *session.Registry
	storage  *memory.Provider
}

// newFixture registers each route with the same middleware chain as the portal.
func newFixture(t *testing.T, table ...routes.Route) *fixture {
	t.Helper()
	storage := memory.NewProvider()
	registry := session.NewRegistry(storage, 10, time.Minute, zerolog.Nop())
	t.Cleanup(registry.Purge)

	e := echo.New()
	client := ClientSession(registry, CookieOptions{})
	g := guard.New(zerolog.Nop())
	for _, r := range table {
		name := r.Name
		e.GET(r.Path, func(c echo.Context) error {
			return c.String(http.StatusOK, name)
		}, client, RestorePath(), RememberPath(r, syncVisits{}, zerolog.Nop()), Guard(g, r))
	}
	return &fixture{e: e, registry: registry, storage: storage}
}

func (f *fixture) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.AddCookie(&http.Cookie{Name: ClientCookieName, Value: testClient})
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) session() *session.Session {
	return f.registry.Acquire(context.Background(), testClient)
}

var (
	home    = routes.Route{Name: "home", Path: "/"}
	hotels  = routes.Route{Name: "hotels", Path: "/hotels"}
	login   = routes.Route{Name: "login", Path: "/login", SkipPathMemory: true}
	account = routes.Route{Name: "account", Path: "/account", Protected: true, Roles: []domain.Role{domain.RoleUser}}
	admin   = routes.Route{Name: "admin", Path: "/admin", Protected: true, Roles: []domain.Role{domain.RoleAdmin}}
)

func TestClientSession_IssuesCookie(t *testing.T) {
	f := newFixture(t, hotels)

	req := httptest.NewRequest(http.MethodGet, "/hotels", nil)
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)

	cookie := rec.Header().Get("Set-Cookie")
	if !strings.HasPrefix(cookie, ClientCookieName+"=") || !strings.Contains(cookie, "HttpOnly") {
		t.Fatalf("expected client cookie to be issued, got %q", cookie)
	}
	if f.registry.Len() != 1 {
		t.Fatalf("expected one session, got %d", f.registry.Len())
	}
}

func TestClientSession_ReusesValidCookie(t *testing.T) {
	f := newFixture(t, hotels)

	rec := f.get("/hotels")
	if rec.Header().Get("Set-Cookie") != "" {
		t.Fatalf("cookie reissued for a known client")
	}
	f.get("/hotels")
	if f.registry.Len() != 1 {
		t.Fatalf("expected one session, got %d", f.registry.Len())
	}
}

func TestClientSession_ReplacesMalformedCookie(t *testing.T) {
	f := newFixture(t, hotels)

	req := httptest.NewRequest(http.MethodGet, "/hotels", nil)
	req.AddCookie(&http.Cookie{Name: ClientCookieName, Value: "../../etc"})
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)

	if rec.Header().Get("Set-Cookie") == "" {
		t.Fatalf("expected a new cookie for a malformed id")
	}
}

func TestGuard_Redirects(t *testing.T) {
	f := newFixture(t, account, admin)

	rec := f.get("/account")
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != routes.LoginPath {
		t.Fatalf("expected 303 to login, got %d %s", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}

	ctx := context.Background()
	sess := f.session()
	_ = sess.SaveToken(ctx, "opaque")
	_ = sess.SaveIdentity(ctx, &domain.Identity{ID: 1, Role: domain.RoleUser})

	rec = f.get("/admin")
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != routes.UnauthorizedPath {
		t.Fatalf("expected 303 to unauthorized, got %d %s", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}

	rec = f.get("/account")
	if rec.Code != http.StatusOK || rec.Body.String() != "account" {
		t.Fatalf("expected account to render, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestGuard_MissingTokenRecoversToLogin(t *testing.T) {
	f := newFixture(t, account)
	ctx := context.Background()

	sess := f.session()
	_ = sess.SaveIdentity(ctx, &domain.Identity{ID: 1, Role: domain.RoleUser})
	// another instance signed the client out; this one still caches the identity
	_ = f.storage.ForClient(testClient).Remove(ctx, domain.KeyUser)

	rec := f.get("/account")
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != routes.LoginPath {
		t.Fatalf("expected recovery to reach login, got %d %s", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestRememberPath_RecordsRenderedPagesOnly(t *testing.T) {
	f := newFixture(t, hotels, login, account)
	ctx := context.Background()

	f.get("/hotels")
	f.get("/login")
	f.get("/account")

	last, ok, _ := f.session().Paths.Last(ctx)
	if !ok || last != "/hotels" {
		t.Fatalf("expected /hotels remembered, got %q", last)
	}
}

func TestRestorePath_RedirectsFirstRootVisit(t *testing.T) {
	f := newFixture(t, home, hotels)
	ctx := context.Background()
	_ = f.session().Paths.Record(ctx, "/hotels")

	rec := f.get("/")
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/hotels" {
		t.Fatalf("expected restore redirect, got %d %s", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}

	rec = f.get("/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected root to render on later visits, got %d", rec.Code)
	}
}
