package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"pulseboard/internal/auth"
)

// AuthHandler exposes the credential authentication endpoints: signup,
// login, logout, session lookup, and cookie clearing.
type AuthHandler struct {
	authService *auth.Service
	cookies     *sessionCookies
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *auth.Service, cookies *sessionCookies, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies, logger: logger}
}

// Signup handles POST /api/auth/signup. A successful signup returns the
// user profile but does not log the user in; the client follows up with a
// login request.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		FirstName       string `json:"firstName"`
		LastName        string `json:"lastName"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirmPassword"`
	}

	if err := decodeJSONBody(w, r, &payload); err != nil {
		writeJSONError(w, err)
		return
	}

	user, err := h.authService.Signup(r.Context(), auth.SignupInput{
		FirstName:       payload.FirstName,
		LastName:        payload.LastName,
		Email:           payload.Email,
		Password:        payload.Password,
		ConfirmPassword: payload.ConfirmPassword,
	})
	if err != nil {
		var validationErr *auth.ValidationError
		switch {
		case errors.As(err, &validationErr):
			writeError(w, http.StatusBadRequest, validationErr.Message)
		case errors.Is(err, auth.ErrEmailTaken):
			writeError(w, http.StatusBadRequest, "User already exists with this email")
		default:
			h.logger.Error("signup failed", "error", err)
			writeError(w, http.StatusInternalServerError, "An error occurred during signup")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"user":    auth.NewProfile(user),
	})
}

// Login handles POST /api/auth/login. Every authentication failure maps to
// the same 401 body so responses can't be used to probe for accounts.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	if err := decodeJSONBody(w, r, &payload); err != nil {
		writeJSONError(w, err)
		return
	}

	if strings.TrimSpace(payload.Email) == "" || payload.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, token, err := h.authService.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.logger.Error("login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.cookies.attach(w, token)
	writeJSON(w, http.StatusOK, auth.NewProfile(user))
}

// Logout handles POST /api/auth/logout. The token itself stays valid until
// expiry; logging out only removes it from the browser.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.cookies.clear(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// Session handles GET /api/auth/session, resolving the cookie to the
// current user record.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	token := h.cookies.read(r)
	if token == "" {
		unauthorized(w)
		return
	}

	user, err := h.authService.Session(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidToken):
			unauthorized(w)
		case errors.Is(err, auth.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "User not found")
		default:
			h.logger.Error("session check failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Session check failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, auth.NewProfile(user))
}

// ClearToken handles POST /api/auth/clear-token, expiring the auth cookie
// and any legacy session cookies in one response.
func (h *AuthHandler) ClearToken(w http.ResponseWriter, _ *http.Request) {
	h.cookies.clear(w)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Token cleared successfully",
	})
}

// ListUsers handles GET /api/admin/users. The role middleware has already
// established the caller is an admin.
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.authService.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("list users failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	profiles := make([]auth.Profile, 0, len(users))
	for i := range users {
		profiles = append(profiles, auth.NewProfile(&users[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": profiles})
}
