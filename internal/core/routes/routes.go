// Package routes is the single source of truth for page route metadata: which
// roles a route requires, whether the navigation bar is shown, and whether a
// visit is remembered for mount-time restore.
package routes

import (
	"strings"

	"github.com/staybook/portal/internal/core/domain"
)

const (
	RootPath         = "/"
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
)

// Route describes one page route. Path uses echo's ":param" syntax.
type Route struct {
	Name string
	Path string
	// Protected routes go through the route guard. A protected route with no
	// Roles admits any authenticated identity.
	Protected bool
	Roles     []domain.Role
	// HideNavbar suppresses the navigation bar on this page.
	HideNavbar bool
	// SkipPathMemory keeps visits out of the lastPath record.
	SkipPathMemory bool
}

var userOnly = []domain.Role{domain.RoleUser}
var adminOnly = []domain.Role{domain.RoleAdmin}

// Table lists every page route of the portal.
var Table = []Route{
	{Name: "home", Path: RootPath},
	{Name: "hotels", Path: "/hotels"},
	{Name: "hotel", Path: "/hotels/:id"},
	{Name: "restaurants", Path: "/restaurants"},
	{Name: "restaurant", Path: "/restaurants/:id"},
	{Name: "activities", Path: "/activities"},
	{Name: "activity", Path: "/activities/:id"},

	{Name: "login", Path: LoginPath, SkipPathMemory: true},
	{Name: "register", Path: "/register", SkipPathMemory: true},
	{Name: "verify-email", Path: "/verify-email", SkipPathMemory: true},
	{Name: "forgot-password", Path: "/forgot-password", SkipPathMemory: true},
	{Name: "reset-password", Path: "/reset-password", SkipPathMemory: true},
	{Name: "unauthorized", Path: UnauthorizedPath, SkipPathMemory: true},

	{Name: "account", Path: "/account", Protected: true, Roles: userOnly},
	{Name: "account-bookings", Path: "/account/bookings", Protected: true, Roles: userOnly},
	{Name: "account-profile", Path: "/account/profile", Protected: true, Roles: userOnly},
	{Name: "account-settings", Path: "/account/settings", Protected: true, Roles: userOnly},

	{Name: "business-onboarding", Path: "/business/onboarding", Protected: true, Roles: userOnly},
	{Name: "business-dashboard", Path: "/business/dashboard", Protected: true, Roles: userOnly, HideNavbar: true},
	{Name: "business-dashboard-section", Path: "/business/dashboard/:section", Protected: true, Roles: userOnly, HideNavbar: true},

	{Name: "admin", Path: "/admin", Protected: true, Roles: adminOnly, HideNavbar: true},
	{Name: "admin-users", Path: "/admin/users", Protected: true, Roles: adminOnly, HideNavbar: true},
	{Name: "admin-businesses", Path: "/admin/businesses", Protected: true, Roles: adminOnly, HideNavbar: true},
	{Name: "admin-bookings", Path: "/admin/bookings", Protected: true, Roles: adminOnly, HideNavbar: true},
}

// Lookup finds the route whose pattern matches a concrete request path.
func Lookup(path string) (Route, bool) {
	for _, r := range Table {
		if match(r.Path, path) {
			return r, true
		}
	}
	return Route{}, false
}

// NavbarVisible reports whether the navigation bar is shown on path. Unknown
// paths (the not-found page) show it.
func NavbarVisible(path string) bool {
	r, ok := Lookup(path)
	return !ok || !r.HideNavbar
}

func match(pattern, path string) bool {
	if path != RootPath {
		path = strings.TrimSuffix(path, "/")
	}
	if pattern == path {
		return true
	}
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	qs := strings.Split(strings.Trim(path, "/"), "/")
	if len(ps) != len(qs) {
		return false
	}
	for i := range ps {
		if strings.HasPrefix(ps[i], ":") {
			if qs[i] == "" {
				return false
			}
			continue
		}
		if ps[i] != qs[i] {
			return false
		}
	}
	return true
}
