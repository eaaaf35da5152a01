package httpapi

import (
	"net/http"
	"strings"
)

// CookieName is the session cookie name.
const CookieName = "signin_session"

// readSessionCookie returns the trimmed session cookie value when present.
func readSessionCookie(r *http.Request) (string, bool) {
	if r == nil {
		return "", false
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie == nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	if value == "" {
		return "", false
	}
	return value, true
}

// writeSessionCookie sets the session cookie for the current request.
func writeSessionCookie(w http.ResponseWriter, r *http.Request, sessionID string, forceSecure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    strings.TrimSpace(sessionID),
		Path:     "/",
		HttpOnly: true,
		Secure:   forceSecure || isHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// isHTTPS reports whether the request reached us, or the proxy in front of us, over TLS.
func isHTTPS(r *http.Request) bool {
	if r == nil {
		return false
	}
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")), "https")
}
