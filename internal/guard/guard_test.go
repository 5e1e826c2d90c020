// Copyright (c) 2025 Docuchat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later

package guard

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/docuchat/docuchat-tui/internal/api"
	"github.com/docuchat/docuchat-tui/internal/config"
)

// stubVerifier returns a fixed verification result.
type stubVerifier struct {
	status *api.AuthStatus
	err    error
	calls  int
}

func (s *stubVerifier) CheckAuth(ctx context.Context) (*api.AuthStatus, error) {
	s.calls++
	return s.status, s.err
}

func newTestGuard(v Verifier) *Guard {
	return New(config.DefaultConfig().Guard, v, zap.NewNop())
}

func TestDecideNoSessionRedirectsToLogin(t *testing.T) {
	v := &stubVerifier{}
	g := newTestGuard(v)

	d := g.Decide(context.Background(), "/", "")
	assert.Equal(t, ActionRedirectLogin, d.Action)
	assert.Equal(t, "http://localhost:3000/login", d.Target)
	assert.Zero(t, v.calls, "no verification without a session")
}

func TestDecideWhitespaceSessionIsMissing(t *testing.T) {
	g := newTestGuard(&stubVerifier{})

	d := g.Decide(context.Background(), "/", "   ")
	assert.Equal(t, ActionRedirectLogin, d.Action)
}

func TestDecideNoSessionPublicPathAllowed(t *testing.T) {
	g := newTestGuard(&stubVerifier{})

	for _, path := range []string{"/login", "/api/login2"} {
		d := g.Decide(context.Background(), path, "")
		assert.Equal(t, ActionAllow, d.Action, "path %s", path)
	}
}

func TestDecideSessionNonSensitiveAllowed(t *testing.T) {
	v := &stubVerifier{}
	g := newTestGuard(v)

	d := g.Decide(context.Background(), "/", "tok")
	assert.Equal(t, ActionAllow, d.Action)
	assert.Zero(t, v.calls, "non-sensitive routes skip verification")
}

func TestDecideSensitiveVerificationFailure(t *testing.T) {
	v := &stubVerifier{err: errors.New("connection refused")}
	g := newTestGuard(v)

	d := g.Decide(context.Background(), "/pdf_management", "tok")
	assert.Equal(t, ActionRedirectLogin, d.Action)
	assert.Equal(t, 1, v.calls)
}

func TestDecideAdminRouteInsufficientRole(t *testing.T) {
	v := &stubVerifier{status: &api.AuthStatus{RoleID: "2"}}
	g := newTestGuard(v)

	d := g.Decide(context.Background(), "/users_management", "tok")
	assert.Equal(t, ActionRedirectHome, d.Action)
	assert.Equal(t, "http://localhost:3000/", d.Target)
}

func TestDecideAdminRouteAdminRole(t *testing.T) {
	v := &stubVerifier{status: &api.AuthStatus{RoleID: "1"}}
	g := newTestGuard(v)

	d := g.Decide(context.Background(), "/users_management", "tok")
	assert.Equal(t, ActionAllow, d.Action)
}

func TestDecideSensitiveNonAdminRouteIgnoresRole(t *testing.T) {
	// Role is only checked for the admin prefix; other sensitive routes
	// require just a verified session.
	v := &stubVerifier{status: &api.AuthStatus{RoleID: "9"}}
	g := newTestGuard(v)

	d := g.Decide(context.Background(), "/role_management", "tok")
	assert.Equal(t, ActionAllow, d.Action)
}

func TestRedirectBaseURLOverride(t *testing.T) {
	cfg := config.DefaultConfig().Guard
	cfg.RedirectBaseURL = "https://chat.example.com"
	g := New(cfg, &stubVerifier{}, zap.NewNop())

	d := g.Decide(context.Background(), "/", "")
	assert.Equal(t, "https://chat.example.com/login", d.Target)
}
