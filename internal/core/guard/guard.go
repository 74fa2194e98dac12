// Package guard decides whether a navigation to a protected page renders or
// redirects, based on the client's identity and the page's required roles.
package guard

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/staybook/portal/internal/core/domain"
	"github.com/staybook/portal/internal/core/routes"
	"github.com/staybook/portal/internal/pkg/metrics"
)

// Outcome is the terminal result of one guard evaluation.
type Outcome int

const (
	// Pending means identity hydration has not finished; no redirect decision is made.
	Pending Outcome = iota
	RedirectLogin
	RedirectUnauthorized
	Render
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case RedirectLogin:
		return "redirect_login"
	case RedirectUnauthorized:
		return "redirect_unauthorized"
	case Render:
		return "render"
	default:
		return "unknown"
	}
}

// Decision carries the outcome and, for redirects, the target path.
type Decision struct {
	Outcome  Outcome
	Location string
}

// State is the identity snapshot a decision is made on.
type State struct {
	Ready    bool
	Identity *domain.Identity
}

// Decide is the pure guard function. An empty allowed set admits any
// authenticated identity.
func Decide(s State, allowed []domain.Role) Decision {
	switch {
	case !s.Ready:
		return Decision{Outcome: Pending}
	case s.Identity == nil:
		return Decision{Outcome: RedirectLogin, Location: routes.LoginPath}
	case len(allowed) > 0 && !domain.NormalizeRole(string(s.Identity.Role)).In(allowed):
		return Decision{Outcome: RedirectUnauthorized, Location: routes.UnauthorizedPath}
	default:
		return Decision{Outcome: Render}
	}
}

// Subject is the client session as seen by the guard.
type Subject interface {
	Ready() bool
	Current() *domain.Identity
	// Consistent reports whether a present identity is backed by a credential.
	Consistent(ctx context.Context) bool
	// TryRecover attempts the one recovery action allowed per client and
	// reports whether it ran.
	TryRecover(ctx context.Context) bool
}

// Guard evaluates subjects and records decisions.
type Guard struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Guard {
	return &Guard{log: log}
}

// Evaluate decides on the subject's state. When a present identity is found
// inconsistent, one recovery is attempted per subject before deciding; once
// spent, the state is decided as-is.
func (g *Guard) Evaluate(ctx context.Context, sub Subject, allowed []domain.Role) Decision {
	if sub.Ready() && sub.Current() != nil && !sub.Consistent(ctx) {
		if !sub.TryRecover(ctx) {
			g.log.Debug().Msg("recovery spent, deciding on cached identity")
		}
	}

	d := Decide(State{Ready: sub.Ready(), Identity: sub.Current()}, allowed)
	metrics.GuardDecisionsTotal.WithLabelValues(d.Outcome.String()).Inc()
	return d
}
