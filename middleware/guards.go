package middleware

import "net/http"

// RequireAuthenticated redirects anonymous requests to the login form.
func RequireAuthenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !IdentityFrom(r.Context()).LoggedIn {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next(w, r)
	}
}

// RequireManager rejects non-manager requests with a fixed message. Unlike
// the authentication guard it never redirects.
func RequireManager(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := IdentityFrom(r.Context())
		if !id.LoggedIn || !id.Manager {
			http.Error(w, "Manager access required", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}
