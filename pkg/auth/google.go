package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/matst80/slask-boutique/pkg/common/jsoncompat"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	stateCookieName = "sf-oauth-state"
	tokenTtl        = 24 * time.Hour
	userInfoUrl     = "https://www.googleapis.com/oauth2/v2/userinfo"
)

var ErrInvalidToken = errors.New("invalid token")

type GoogleAuth struct {
	serverKey    []byte
	serverApiKey string
	adminEmails  map[string]struct{}
	authConfig   *oauth2.Config
}

type Settings struct {
	ClientId     string
	ClientSecret string
	CallbackUrl  string
	TokenSecret  string
	ApiKey       string
	AdminEmails  []string
}

func NewGoogleAuth(s Settings) (*GoogleAuth, error) {
	if s.ClientId == "" || s.ClientSecret == "" || s.CallbackUrl == "" {
		return nil, fmt.Errorf("GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET or CALLBACK_URL not set")
	}
	if s.TokenSecret == "" {
		return nil, fmt.Errorf("TOKEN_SECRET not set")
	}
	admins := make(map[string]struct{}, len(s.AdminEmails))
	for _, email := range s.AdminEmails {
		if email = strings.ToLower(strings.TrimSpace(email)); email != "" {
			admins[email] = struct{}{}
		}
	}
	if len(admins) == 0 {
		return nil, fmt.Errorf("ADMIN_EMAILS not set")
	}
	return &GoogleAuth{
		serverKey:    []byte(s.TokenSecret),
		serverApiKey: s.ApiKey,
		adminEmails:  admins,
		authConfig: &oauth2.Config{
			ClientID:     s.ClientId,
			ClientSecret: s.ClientSecret,
			RedirectURL:  s.CallbackUrl,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}, nil
}

type UserData struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Id            string `json:"id"`
	Picture       string `json:"picture"`
}

// RoleFor gives admin only to verified addresses on the admin list, everyone
// else signs in with a role the admin api rejects.
func (a *GoogleAuth) RoleFor(u *UserData) string {
	if !u.VerifiedEmail {
		return RoleUser
	}
	if _, ok := a.adminEmails[strings.ToLower(u.Email)]; ok {
		return RoleAdmin
	}
	return RoleUser
}

func generateState() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(b)
}

func (a *GoogleAuth) CreateToken(username, name, role string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": username,
		"name":     name,
		"role":     role,
		"exp":      time.Now().Add(tokenTtl).Unix(),
	})
	return token.SignedString(a.serverKey)
}

// ParseClaims verifies the signature and expiry of an admin token.
func (a *GoogleAuth) ParseClaims(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.serverKey, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (a *GoogleAuth) Login(w http.ResponseWriter, r *http.Request) {
	state := generateState()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
	})
	url := a.authConfig.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func (a *GoogleAuth) Logout(w http.ResponseWriter, _ *http.Request) {
	clearCookie(w)
	w.WriteHeader(http.StatusOK)
}

func (a *GoogleAuth) getUserData(ctx context.Context, token *oauth2.Token) (*UserData, error) {
	resp, err := a.authConfig.Client(ctx, token).Get(userInfoUrl)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned %d", resp.StatusCode)
	}
	var userData UserData
	if err := jsoncompat.NewDecoder(resp.Body).Decode(&userData); err != nil {
		return nil, err
	}
	return &userData, nil
}

func (a *GoogleAuth) AuthCallback(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(stateCookieName); err != nil || c.Value == "" || c.Value != r.FormValue("state") {
		http.Error(w, "invalid oauth state", http.StatusBadRequest)
		return
	}
	token, err := a.authConfig.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	userData, err := a.getUserData(r.Context(), token)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if !userData.VerifiedEmail {
		http.Error(w, "email not verified", http.StatusForbidden)
		return
	}
	ownToken, err := a.CreateToken(userData.Email, userData.Name, a.RoleFor(userData))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	setTokenCookie(w, ownToken, tokenTtl)
	http.Redirect(w, r, "/admin/status", http.StatusTemporaryRedirect)
}

func (a *GoogleAuth) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if a.serverApiKey != "" && r.Header.Get("Authorization") == a.serverApiKey {
			next.ServeHTTP(w, withRole(r, RoleApi))
			return
		}
		cookie, err := r.Cookie(TokenCookieName)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		claims, err := a.ParseClaims(cookie.Value)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		role, _ := claims["role"].(string)
		if role != RoleAdmin {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, withRole(r, role))
	}
}

func (a *GoogleAuth) User(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(TokenCookieName)
	if err != nil || cookie.Value == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	claims, err := a.ParseClaims(cookie.Value)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := jsoncompat.NewEncoder(w).Encode(claims); err != nil {
		log.Printf("error sending user response: %v", err)
	}
}
