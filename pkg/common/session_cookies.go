package common

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/matst80/slask-boutique/pkg/types"
)

const sessionCookieName = "sid"

func generateSessionId() int {
	return int(time.Now().UnixNano() & 0x7fffffff)
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, sessionId int) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    strconv.Itoa(sessionId),
		Domain:   strings.TrimPrefix(r.Host, "."),
		SameSite: http.SameSiteNoneMode,
		Secure:   true,
		HttpOnly: true,
		MaxAge:   60 * 60 * 24 * 30,
		Path:     "/",
	})
}

// HandleSessionCookie returns the shopper session id, issuing a new cookie
// (and tracking the new session) when the request has none.
func HandleSessionCookie(tracking types.Tracking, w http.ResponseWriter, r *http.Request) int {
	c, err := r.Cookie(sessionCookieName)
	if err == nil {
		if id, err := strconv.Atoi(c.Value); err == nil {
			return id
		}
	}
	sessionId := generateSessionId()
	if tracking != nil {
		go tracking.TrackSession(sessionId, r)
	}
	setSessionCookie(w, r, sessionId)
	return sessionId
}
