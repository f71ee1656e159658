package http

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"pulseboard/internal/auth"
)

// encodeOAuthState builds the base64 JSON state parameter a callback carries.
func encodeOAuthState(state, redirectTo string) string {
	payload := oauthStatePayload{State: state, RedirectTo: redirectTo}
	data, _ := json.Marshal(payload)
	return base64.RawURLEncoding.EncodeToString(data)
}

type fakeGoogleAuthenticator struct {
	authURLBase    string
	lastState      string
	exchangeClaims *auth.GoogleClaims
	exchangeErr    error
}

func (f *fakeGoogleAuthenticator) AuthURL(state string) string {
	f.lastState = state
	if f.authURLBase == "" {
		f.authURLBase = "https://accounts.google.com/auth?state="
	}
	return f.authURLBase + state
}

func (f *fakeGoogleAuthenticator) Exchange(ctx context.Context, code string) (*auth.GoogleClaims, error) {
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return f.exchangeClaims, nil
}

func newTestOAuthHandler(t *testing.T, google googleAuthenticator) *OAuthHandler {
	t.Helper()
	cookies := newSessionCookies(auth.TokenTTL, "development")
	return NewOAuthHandler(google, newTestAuthService(t, nil), cookies, "http://frontend.test", testLogger())
}

func callbackRequest(state, query string) *http.Request {
	target := "/api/auth/google/callback?" + query
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if state != "" {
		req.AddCookie(&http.Cookie{Name: oauthStateCookieName, Value: state})
	}
	return req
}

func TestOAuthInitiateSetsStateCookieAndRedirects(t *testing.T) {
	google := &fakeGoogleAuthenticator{}
	handler := newTestOAuthHandler(t, google)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/google?redirectTo=/tasks", nil)
	rec := httptest.NewRecorder()

	handler.InitiateGoogle(rec, req)

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected status 307, got %d", rec.Code)
	}

	var stateCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == oauthStateCookieName {
			stateCookie = c
			break
		}
	}
	if stateCookie == nil || stateCookie.Value == "" {
		t.Fatal("expected state cookie to be set")
	}
	if !stateCookie.HttpOnly {
		t.Fatal("expected state cookie to be HttpOnly")
	}

	stateBytes, err := base64.RawURLEncoding.DecodeString(google.lastState)
	if err != nil {
		t.Fatalf("failed to decode state: %v", err)
	}
	var payload oauthStatePayload
	if err := json.Unmarshal(stateBytes, &payload); err != nil {
		t.Fatalf("failed to parse state JSON: %v", err)
	}
	if payload.State != stateCookie.Value {
		t.Fatalf("expected state to match cookie value %q, got %q", stateCookie.Value, payload.State)
	}
	if payload.RedirectTo != "/tasks" {
		t.Fatalf("expected redirectTo /tasks, got %q", payload.RedirectTo)
	}

	if location := rec.Header().Get("Location"); location != google.authURLBase+google.lastState {
		t.Fatalf("expected redirect to consent URL, got %q", location)
	}
}

func TestOAuthInitiateIgnoresUnsafeRedirect(t *testing.T) {
	google := &fakeGoogleAuthenticator{}
	handler := newTestOAuthHandler(t, google)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/google?redirectTo="+url.QueryEscape("//evil.test/steal"), nil)
	rec := httptest.NewRecorder()

	handler.InitiateGoogle(rec, req)

	stateBytes, err := base64.RawURLEncoding.DecodeString(google.lastState)
	if err != nil {
		t.Fatalf("failed to decode state: %v", err)
	}
	var payload oauthStatePayload
	if err := json.Unmarshal(stateBytes, &payload); err != nil {
		t.Fatalf("failed to parse state JSON: %v", err)
	}
	if payload.RedirectTo != "" {
		t.Fatalf("expected unsafe redirect to be dropped, got %q", payload.RedirectTo)
	}
}

func TestOAuthCallbackRejectsMissingStateCookie(t *testing.T) {
	handler := newTestOAuthHandler(t, &fakeGoogleAuthenticator{})

	rec := httptest.NewRecorder()
	handler.CallbackGoogle(rec, callbackRequest("", "state=abc"))

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected status 307, got %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Location"), "/auth/login?error=invalid_request") {
		t.Fatalf("expected invalid_request redirect, got %q", rec.Header().Get("Location"))
	}
}

func TestOAuthCallbackRejectsMalformedState(t *testing.T) {
	handler := newTestOAuthHandler(t, &fakeGoogleAuthenticator{})

	rec := httptest.NewRecorder()
	handler.CallbackGoogle(rec, callbackRequest("expected", "state=%21not-base64%21"))

	if !strings.Contains(rec.Header().Get("Location"), "/auth/login?error=invalid_request") {
		t.Fatalf("expected invalid_request redirect, got %q", rec.Header().Get("Location"))
	}
}

func TestOAuthCallbackRejectsStateMismatch(t *testing.T) {
	handler := newTestOAuthHandler(t, &fakeGoogleAuthenticator{})

	encoded := encodeOAuthState("other", "")
	rec := httptest.NewRecorder()
	handler.CallbackGoogle(rec, callbackRequest("expected", "state="+url.QueryEscape(encoded)))

	if !strings.Contains(rec.Header().Get("Location"), "/auth/login?error=invalid_request") {
		t.Fatalf("expected invalid_request redirect, got %q", rec.Header().Get("Location"))
	}
}

func TestOAuthCallbackPropagatesProviderError(t *testing.T) {
	handler := newTestOAuthHandler(t, &fakeGoogleAuthenticator{})

	encoded := encodeOAuthState("abc", "")
	rec := httptest.NewRecorder()
	handler.CallbackGoogle(rec, callbackRequest("abc", "state="+url.QueryEscape(encoded)+"&error=access_denied&error_description=Denied"))

	location := rec.Header().Get("Location")
	if !strings.Contains(location, "error=access_denied") || !strings.Contains(location, "message=Denied") {
		t.Fatalf("expected provider error redirect, got %q", location)
	}
}

func TestOAuthCallbackRequiresCode(t *testing.T) {
	handler := newTestOAuthHandler(t, &fakeGoogleAuthenticator{})

	encoded := encodeOAuthState("abc", "")
	rec := httptest.NewRecorder()
	handler.CallbackGoogle(rec, callbackRequest("abc", "state="+url.QueryEscape(encoded)))

	if !strings.Contains(rec.Header().Get("Location"), "/auth/login?error=invalid_request") {
		t.Fatalf("expected invalid_request redirect, got %q", rec.Header().Get("Location"))
	}
}

func TestOAuthCallbackHandlesExchangeError(t *testing.T) {
	handler := newTestOAuthHandler(t, &fakeGoogleAuthenticator{exchangeErr: errors.New("boom")})

	encoded := encodeOAuthState("abc", "")
	rec := httptest.NewRecorder()
	handler.CallbackGoogle(rec, callbackRequest("abc", "state="+url.QueryEscape(encoded)+"&code=123"))

	if !strings.Contains(rec.Header().Get("Location"), "/auth/login?error=exchange_error") {
		t.Fatalf("expected exchange_error redirect, got %q", rec.Header().Get("Location"))
	}
}

func TestOAuthCallbackRequiresVerifiedEmail(t *testing.T) {
	google := &fakeGoogleAuthenticator{
		exchangeClaims: &auth.GoogleClaims{Sub: "sub", Email: "user@example.com", EmailVerified: false},
	}
	handler := newTestOAuthHandler(t, google)

	encoded := encodeOAuthState("abc", "")
	rec := httptest.NewRecorder()
	handler.CallbackGoogle(rec, callbackRequest("abc", "state="+url.QueryEscape(encoded)+"&code=123"))

	if !strings.Contains(rec.Header().Get("Location"), "/auth/login?error=email_not_verified") {
		t.Fatalf("expected email_not_verified redirect, got %q", rec.Header().Get("Location"))
	}
}

func TestOAuthCallbackSuccessSetsSessionAndRedirects(t *testing.T) {
	google := &fakeGoogleAuthenticator{
		exchangeClaims: &auth.GoogleClaims{
			Sub:           "google-sub-1",
			Email:         "user@example.com",
			EmailVerified: true,
			GivenName:     "Ada",
			FamilyName:    "Lovelace",
		},
	}
	handler := newTestOAuthHandler(t, google)

	encoded := encodeOAuthState("state123", "/tasks")
	rec := httptest.NewRecorder()
	handler.CallbackGoogle(rec, callbackRequest("state123", "state="+url.QueryEscape(encoded)+"&code=123"))

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected status 307, got %d", rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "http://frontend.test/tasks" {
		t.Fatalf("expected redirect to the requested path, got %q", location)
	}

	cookies := rec.Result().Cookies()
	session := authCookieFromResponse(t, cookies)
	if session == nil || session.Value == "" {
		t.Fatal("expected auth_token cookie to be set")
	}
	if !session.HttpOnly || session.SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected session cookie attributes %+v", session)
	}

	stateCleared := false
	for _, c := range cookies {
		if c.Name == oauthStateCookieName && c.Value == "" && c.MaxAge < 0 {
			stateCleared = true
		}
	}
	if !stateCleared {
		t.Fatal("expected state cookie to be expired")
	}
}

func TestOAuthCallbackDefaultsRedirectToDashboard(t *testing.T) {
	google := &fakeGoogleAuthenticator{
		exchangeClaims: &auth.GoogleClaims{Sub: "sub", Email: "user@example.com", EmailVerified: true},
	}
	handler := newTestOAuthHandler(t, google)

	encoded := encodeOAuthState("abc", "")
	rec := httptest.NewRecorder()
	handler.CallbackGoogle(rec, callbackRequest("abc", "state="+url.QueryEscape(encoded)+"&code=123"))

	if location := rec.Header().Get("Location"); location != "http://frontend.test/dashboard" {
		t.Fatalf("expected default dashboard redirect, got %q", location)
	}
}

func TestOAuthCallbackIgnoresUnsafeRedirectInState(t *testing.T) {
	google := &fakeGoogleAuthenticator{
		exchangeClaims: &auth.GoogleClaims{Sub: "sub", Email: "user@example.com", EmailVerified: true},
	}
	handler := newTestOAuthHandler(t, google)

	encoded := encodeOAuthState("abc", "//evil.test/steal")
	rec := httptest.NewRecorder()
	handler.CallbackGoogle(rec, callbackRequest("abc", "state="+url.QueryEscape(encoded)+"&code=123"))

	if location := rec.Header().Get("Location"); location != "http://frontend.test/dashboard" {
		t.Fatalf("expected unsafe redirect to fall back to dashboard, got %q", location)
	}
}

func TestIsValidRedirectPath(t *testing.T) {
	valid := []string{"/", "/tasks", "/dashboard?tab=1", "/a/b/c"}
	for _, path := range valid {
		if !isValidRedirectPath(path) {
			t.Errorf("expected %q to be valid", path)
		}
	}

	invalid := []string{
		"",
		"//evil.test",
		"//evil.test/path",
		"http://evil.test",
		"https://evil.test/x",
		"javascript:alert(1)",
		"tasks",
		"%2F%2Fevil.test",
	}
	for _, path := range invalid {
		if isValidRedirectPath(path) {
			t.Errorf("expected %q to be rejected", path)
		}
	}
}
