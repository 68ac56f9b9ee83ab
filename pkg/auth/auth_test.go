package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func testAuth(t *testing.T) *GoogleAuth {
	t.Helper()
	a, err := NewGoogleAuth(Settings{
		ClientId:     "client",
		ClientSecret: "secret",
		CallbackUrl:  "http://localhost:8080/admin/auth_callback",
		TokenSecret:  "token-secret",
		ApiKey:       "api-key",
		AdminEmails:  []string{"Anna@example.com"},
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	return a
}

func roleEcho(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(RoleFrom(r.Context())))
}

func TestNewGoogleAuthRequiresSettings(t *testing.T) {
	if _, err := NewGoogleAuth(Settings{ClientId: "x"}); err == nil {
		t.Error("Expected error for missing settings")
	}
	if _, err := NewGoogleAuth(Settings{ClientId: "x", ClientSecret: "y", CallbackUrl: "z"}); err == nil {
		t.Error("Expected error for missing token secret")
	}
	if _, err := NewGoogleAuth(Settings{ClientId: "x", ClientSecret: "y", CallbackUrl: "z", TokenSecret: "s", AdminEmails: []string{" "}}); err == nil {
		t.Error("Expected error for missing admin emails")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	a := testAuth(t)
	token, err := a.CreateToken("anna@example.com", "Anna", RoleAdmin)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	claims, err := a.ParseClaims(token)
	if err != nil {
		t.Fatalf("Expected valid token, got %v", err)
	}
	if claims["username"] != "anna@example.com" || claims["role"] != RoleAdmin {
		t.Errorf("Unexpected claims %v", claims)
	}

	other := testAuth(t)
	other.serverKey = []byte("different")
	if _, err := other.ParseClaims(token); err == nil {
		t.Error("Expected token signed with another key to fail")
	}
}

func TestMiddleware(t *testing.T) {
	a := testAuth(t)
	adminToken, _ := a.CreateToken("anna@example.com", "Anna", RoleAdmin)
	guestToken, _ := a.CreateToken("bo@example.com", "Bo", "guest")
	handler := a.Middleware(roleEcho)

	tests := []struct {
		name   string
		header string
		cookie string
		status int
		role   string
	}{
		{name: "api key", header: "api-key", status: http.StatusOK, role: RoleApi},
		{name: "admin cookie", cookie: adminToken, status: http.StatusOK, role: RoleAdmin},
		{name: "guest cookie", cookie: guestToken, status: http.StatusForbidden},
		{name: "garbage cookie", cookie: "not-a-jwt", status: http.StatusUnauthorized},
		{name: "wrong key", header: "nope", status: http.StatusUnauthorized},
		{name: "nothing", status: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin/reload", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			handler(rec, req)
			if rec.Code != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, rec.Code)
			}
			if tt.role != "" && rec.Body.String() != tt.role {
				t.Errorf("Expected role %s, got %s", tt.role, rec.Body.String())
			}
		})
	}
}

func TestLoginRedirectsWithState(t *testing.T) {
	a := testAuth(t)
	rec := httptest.NewRecorder()
	a.Login(rec, httptest.NewRequest(http.MethodGet, "/admin/login", nil))
	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("Expected redirect, got %d", rec.Code)
	}
	loc := rec.Header().Get("Location")
	if !strings.HasPrefix(loc, "https://accounts.google.com/") || !strings.Contains(loc, "state=") {
		t.Errorf("Unexpected redirect %s", loc)
	}
	if !strings.Contains(rec.Header().Get("Set-Cookie"), stateCookieName) {
		t.Error("Expected state cookie")
	}
}

func TestCallbackRejectsMissingState(t *testing.T) {
	a := testAuth(t)
	rec := httptest.NewRecorder()
	a.AuthCallback(rec, httptest.NewRequest(http.MethodGet, "/admin/auth_callback?code=abc&state=x", nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestUserEndpoint(t *testing.T) {
	a := testAuth(t)
	rec := httptest.NewRecorder()
	a.User(rec, httptest.NewRequest(http.MethodGet, "/admin/user", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("Expected 204 without cookie, got %d", rec.Code)
	}

	token, _ := a.CreateToken("anna@example.com", "Anna", RoleAdmin)
	req := httptest.NewRequest(http.MethodGet, "/admin/user", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})
	rec = httptest.NewRecorder()
	a.User(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "anna@example.com") {
		t.Errorf("Expected user claims, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestApiKeyAuth(t *testing.T) {
	a := &ApiKeyAuth{ApiKey: "k"}
	h := a.Middleware(roleEcho)
	req := httptest.NewRequest(http.MethodGet, "/admin/status", nil)
	rec := httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", rec.Code)
	}
	req.Header.Set("Authorization", "k")
	rec = httptest.NewRecorder()
	h(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != RoleApi {
		t.Errorf("Expected api role, got %d %s", rec.Code, rec.Body.String())
	}

	empty := (&ApiKeyAuth{}).Middleware(roleEcho)
	req = httptest.NewRequest(http.MethodGet, "/admin/status", nil)
	rec = httptest.NewRecorder()
	empty(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected empty key to reject, got %d", rec.Code)
	}
}

func TestRoleForOnlyAdminsOnList(t *testing.T) {
	a := testAuth(t)
	tests := []struct {
		name string
		user UserData
		role string
	}{
		{name: "listed", user: UserData{Email: "anna@example.com", VerifiedEmail: true}, role: RoleAdmin},
		{name: "listed other case", user: UserData{Email: "ANNA@example.com", VerifiedEmail: true}, role: RoleAdmin},
		{name: "listed unverified", user: UserData{Email: "anna@example.com"}, role: RoleUser},
		{name: "not listed", user: UserData{Email: "mallory@example.com", VerifiedEmail: true}, role: RoleUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.RoleFor(&tt.user); got != tt.role {
				t.Errorf("Expected role %s, got %s", tt.role, got)
			}
		})
	}
}

func TestGoogleUserNotOnListIsForbidden(t *testing.T) {
	a := testAuth(t)
	user := &UserData{Email: "mallory@example.com", Name: "Mallory", VerifiedEmail: true}
	token, err := a.CreateToken(user.Email, user.Name, a.RoleFor(user))
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/admin/status", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})
	rec := httptest.NewRecorder()
	a.Middleware(roleEcho)(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected 403, got %d", rec.Code)
	}
}
