package http

import (
	"net/http"
	"strings"
	"time"
)

const authCookieName = "auth_token"

// legacyCookieNames are the session cookies set by the previous auth stack.
// They are expired alongside auth_token during the migration window so a
// returning browser doesn't keep presenting both.
var legacyCookieNames = []string{
	"session_token",
	"__Secure-session_token",
}

// sessionCookies binds signed tokens to HTTP-only cookies. The server is
// the only writer; the client just echoes the cookie back.
type sessionCookies struct {
	ttl    time.Duration
	secure bool
}

func newSessionCookies(ttl time.Duration, env string) *sessionCookies {
	return &sessionCookies{
		ttl:    ttl,
		secure: !strings.EqualFold(env, "development"),
	}
}

// attach sets the auth cookie on the response carrying the token.
func (c *sessionCookies) attach(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     authCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(c.ttl.Seconds()),
		Expires:  time.Now().Add(c.ttl),
	})
}

// clear expires the auth cookie and any legacy session cookies.
func (c *sessionCookies) clear(w http.ResponseWriter) {
	names := append([]string{authCookieName}, legacyCookieNames...)
	for _, name := range names {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   c.secure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
			Expires:  time.Unix(0, 0),
		})
	}
}

// read extracts the token from the request. An empty return means no
// session is present, which is the normal state for anonymous visitors.
func (c *sessionCookies) read(r *http.Request) string {
	cookie, err := r.Cookie(authCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
