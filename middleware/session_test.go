package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"outreach-portal/config"
	"outreach-portal/models"
)

func signInAndReadBack(t *testing.T, cfg *config.Config, user models.User) Identity {
	t.Helper()
	sm := NewSessionManager(cfg)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/login", nil)
	if err := sm.SignIn(w, r, user, ""); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	next := httptest.NewRequest("GET", "/dashboard", nil)
	for _, c := range w.Result().Cookies() {
		next.AddCookie(c)
	}
	return sm.Identity(next)
}

func TestSuperuserGetsManagerAccess(t *testing.T) {
	cfg := &config.Config{
		SessionSecret: "test-secret",
		SessionDir:    t.TempDir(),
		Superusers:    []string{"root", "dana"},
	}

	id := signInAndReadBack(t, cfg, models.User{ID: 9, Username: "dana", Role: models.RoleUser})
	if !id.Manager {
		t.Error("configured superuser should carry manager access despite user role")
	}
	if id.Role != models.RoleUser {
		t.Errorf("role = %q, the stored role must stay %q", id.Role, models.RoleUser)
	}
}

func TestRegularUserIsNotManager(t *testing.T) {
	cfg := &config.Config{
		SessionSecret: "test-secret",
		SessionDir:    t.TempDir(),
		Superusers:    []string{"root"},
	}

	id := signInAndReadBack(t, cfg, models.User{ID: 10, Username: "mira", Role: models.RoleUser})
	if id.Manager {
		t.Error("regular user must not carry manager access")
	}
}

func TestSignOutClearsIdentity(t *testing.T) {
	cfg := &config.Config{SessionSecret: "test-secret", SessionDir: t.TempDir()}
	sm := NewSessionManager(cfg)

	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/login", nil)
	if err := sm.SignIn(w, r, models.User{ID: 1, Username: "boss", Role: models.RoleManager}, ""); err != nil {
		t.Fatalf("sign in: %v", err)
	}

	authed := httptest.NewRequest("POST", "/logout", nil)
	for _, c := range w.Result().Cookies() {
		authed.AddCookie(c)
	}
	out := httptest.NewRecorder()
	if err := sm.SignOut(out, authed); err != nil {
		t.Fatalf("sign out: %v", err)
	}

	// The sign-out response must expire the cookie.
	expired := false
	for _, c := range out.Result().Cookies() {
		if c.Name == "outreach_session" && c.MaxAge < 0 {
			expired = true
		}
	}
	if !expired {
		t.Error("session cookie not expired on sign out")
	}
}

func TestBadCookieIsAnonymous(t *testing.T) {
	cfg := &config.Config{SessionSecret: "test-secret", SessionDir: t.TempDir()}
	sm := NewSessionManager(cfg)

	r := httptest.NewRequest("GET", "/dashboard", nil)
	r.AddCookie(&http.Cookie{Name: "outreach_session", Value: "not-a-real-session"})
	if id := sm.Identity(r); id.LoggedIn {
		t.Error("tampered cookie should yield an anonymous identity")
	}
}
