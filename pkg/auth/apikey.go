package auth

import "net/http"

// ApiKeyAuth only accepts the static api key, used when google login is not configured.
type ApiKeyAuth struct {
	ApiKey string
}

func (a *ApiKeyAuth) Login(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "login not configured", http.StatusNotImplemented)
}

func (a *ApiKeyAuth) Logout(w http.ResponseWriter, r *http.Request) {
	clearCookie(w)
	w.WriteHeader(http.StatusOK)
}

func (a *ApiKeyAuth) AuthCallback(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "login not configured", http.StatusNotImplemented)
}

func (a *ApiKeyAuth) User(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (a *ApiKeyAuth) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a.ApiKey == "" || r.Header.Get("Authorization") != a.ApiKey {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, withRole(r, RoleApi))
	}
}
