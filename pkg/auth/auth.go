package auth

import (
	"context"
	"net/http"
	"time"
)

const TokenCookieName = "sf-admin"

type ContextValue string

var ContextRole = ContextValue("role")

const (
	RoleApi   = "api"
	RoleAdmin = "admin"
	RoleUser  = "gmail"
)

// AuthHandler guards the admin endpoints.
type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	AuthCallback(w http.ResponseWriter, r *http.Request)
	User(w http.ResponseWriter, r *http.Request)
	Middleware(next http.HandlerFunc) http.HandlerFunc
}

// RoleFrom returns the role the middleware stored on the request, or an empty string.
func RoleFrom(ctx context.Context) string {
	role, _ := ctx.Value(ContextRole).(string)
	return role
}

func withRole(r *http.Request, role string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ContextRole, role))
}

func clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   TokenCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
}

func setTokenCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// MockAuth lets every request through, for local development without google credentials.
type MockAuth struct{}

func (m *MockAuth) Login(w http.ResponseWriter, r *http.Request) {
	setTokenCookie(w, "mock-token", time.Hour)
	w.WriteHeader(http.StatusOK)
}

func (m *MockAuth) Logout(w http.ResponseWriter, r *http.Request) {
	clearCookie(w)
	w.WriteHeader(http.StatusOK)
}

func (m *MockAuth) AuthCallback(w http.ResponseWriter, r *http.Request) {
	setTokenCookie(w, "mock-token", time.Hour)
	http.Redirect(w, r, "/admin/status", http.StatusTemporaryRedirect)
}

func (m *MockAuth) User(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"username":"mock-user","name":"Mock User","role":"admin"}`))
}

func (m *MockAuth) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, withRole(r, RoleAdmin))
	}
}
