package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() (http.HandlerFunc, *bool) {
	called := false
	return func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}, &called
}

func requestWith(id Identity) *http.Request {
	r := httptest.NewRequest("GET", "/participants", nil)
	return r.WithContext(ContextWithIdentity(r.Context(), id))
}

func TestRequireAuthenticatedRedirectsAnonymous(t *testing.T) {
	next, called := okHandler()
	w := httptest.NewRecorder()
	RequireAuthenticated(next)(w, requestWith(Identity{}))

	if w.Code != http.StatusFound {
		t.Errorf("status = %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/login" {
		t.Errorf("redirect = %q, want /login", loc)
	}
	if *called {
		t.Error("handler ran for anonymous request")
	}
}

func TestRequireAuthenticatedPassesLoggedIn(t *testing.T) {
	next, called := okHandler()
	w := httptest.NewRecorder()
	RequireAuthenticated(next)(w, requestWith(Identity{LoggedIn: true, UserID: 3}))

	if !*called {
		t.Error("handler did not run for logged-in request")
	}
}

func TestRequireManagerRejectsRegularUser(t *testing.T) {
	next, called := okHandler()
	w := httptest.NewRecorder()
	RequireManager(next)(w, requestWith(Identity{LoggedIn: true, Role: "user"}))

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "" {
		t.Errorf("manager guard must not redirect, got %q", loc)
	}
	if *called {
		t.Error("handler ran for non-manager request")
	}
}

func TestRequireManagerPassesManager(t *testing.T) {
	next, called := okHandler()
	w := httptest.NewRecorder()
	RequireManager(next)(w, requestWith(Identity{LoggedIn: true, Role: "manager", Manager: true}))

	if !*called {
		t.Error("handler did not run for manager request")
	}
}
