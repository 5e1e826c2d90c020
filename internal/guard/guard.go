// Copyright (c) 2025 Docuchat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package guard implements the request-boundary access gate: it classifies
// a requested route against public and sensitive prefix sets, checks the
// opaque session token, and consults the backend verification endpoint
// before allowing navigation.
package guard

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/docuchat/docuchat-tui/internal/api"
	"github.com/docuchat/docuchat-tui/internal/config"
)

// =============================================================================
// DECISIONS
// =============================================================================

// Action is the outcome of a guard decision.
type Action int

const (
	ActionAllow         Action = iota // Proceed to the requested route
	ActionRedirectLogin               // Missing or invalid session
	ActionRedirectHome                // Authenticated but insufficient role
)

// String returns a human-readable action name.
func (a Action) String() string {
	switch a {
	case ActionAllow:
		return "allow"
	case ActionRedirectLogin:
		return "redirect-login"
	case ActionRedirectHome:
		return "redirect-home"
	default:
		return "unknown"
	}
}

// Decision is the result of evaluating one navigation request.
type Decision struct {
	Action Action
	// Target is the absolute redirect URL for redirect actions, "" for allow.
	Target string
}

// Verifier checks a session against the backend. Satisfied by *api.Client.
type Verifier interface {
	CheckAuth(ctx context.Context) (*api.AuthStatus, error)
}

// =============================================================================
// GUARD
// =============================================================================

// Guard holds the route policy. It is stateless per decision: every call
// re-evaluates from the inputs alone.
type Guard struct {
	public    []string
	sensitive []string
	admin     string
	adminRole string
	baseURL   string
	verifier  Verifier
	logger    *zap.Logger
}

// New creates a guard from the configured route policy.
func New(cfg config.GuardConfig, verifier Verifier, logger *zap.Logger) *Guard {
	return &Guard{
		public:    cfg.PublicRoutes,
		sensitive: cfg.SensitiveRoutes,
		admin:     cfg.AdminRoute,
		adminRole: cfg.AdminRoleID,
		baseURL:   strings.TrimSuffix(cfg.RedirectBaseURL, "/"),
		verifier:  verifier,
		logger:    logger,
	}
}

// Decide evaluates a navigation request for the given route path and
// session token.
//
// Policy:
//   - missing/empty session + non-public path: redirect to login
//   - session + sensitive path: verify with the backend; verification
//     failure or network error redirects to login; success with an
//     insufficient role on the admin route redirects to home
//   - everything else: allow
func (g *Guard) Decide(ctx context.Context, path, session string) Decision {
	session = strings.TrimSpace(session)

	if session == "" && !g.isPublic(path) {
		g.logger.Info("guard: no session, redirecting to login", zap.String("path", path))
		return Decision{Action: ActionRedirectLogin, Target: g.redirect("/login")}
	}

	if session != "" && g.isSensitive(path) {
		status, err := g.verifier.CheckAuth(ctx)
		if err != nil {
			g.logger.Warn("guard: session verification failed",
				zap.String("path", path), zap.Error(err))
			return Decision{Action: ActionRedirectLogin, Target: g.redirect("/login")}
		}
		if strings.HasPrefix(path, g.admin) && status.RoleID != g.adminRole {
			g.logger.Info("guard: insufficient role for admin route",
				zap.String("path", path), zap.String("roleid", status.RoleID))
			return Decision{Action: ActionRedirectHome, Target: g.redirect("/")}
		}
	}

	return Decision{Action: ActionAllow}
}

// isPublic reports whether the path matches a public prefix.
func (g *Guard) isPublic(path string) bool {
	return hasAnyPrefix(path, g.public)
}

// isSensitive reports whether the path matches a sensitive prefix.
func (g *Guard) isSensitive(path string) bool {
	return hasAnyPrefix(path, g.sensitive)
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// redirect builds an absolute redirect target from the configured base URL.
func (g *Guard) redirect(path string) string {
	u, err := url.Parse(g.baseURL)
	if err != nil || g.baseURL == "" {
		return path
	}
	ref := &url.URL{Path: path}
	return u.ResolveReference(ref).String()
}
