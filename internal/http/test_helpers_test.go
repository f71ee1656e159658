package http

import (
	"io"
	"net/http"
	"testing"
	"time"

	"log/slog"

	"pulseboard/internal/auth"
	"pulseboard/internal/config"
	"pulseboard/internal/dashboard"
	"pulseboard/internal/tasks"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestAuthService(t *testing.T, users []auth.User) *auth.Service {
	t.Helper()
	tokens, err := auth.NewTokenService("test-secret")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return auth.NewService(auth.NewInMemoryRepository(users), auth.NewPasswordHasher(), tokens)
}

// newTestRouter wires the full router over in-memory repositories.
func newTestRouter(t *testing.T, users []auth.User, seedTasks []tasks.Task) http.Handler {
	t.Helper()

	cfg := config.Config{
		Environment:    "development",
		AllowedOrigins: []string{"http://localhost:3000"},
		FrontendURL:    "http://localhost:3000",
	}

	authSvc := newTestAuthService(t, users)
	taskSvc := tasks.NewService(tasks.NewInMemoryRepository(seedTasks))
	dashboardSvc := dashboard.NewService(taskSvc)

	return NewRouter(cfg, RouterDeps{
		Auth:      authSvc,
		Tasks:     taskSvc,
		Dashboard: dashboardSvc,
	}, testLogger())
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.NewPasswordHasher().Hash(password)
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	return hash
}

func authCookieFromResponse(t *testing.T, cookies []*http.Cookie) *http.Cookie {
	t.Helper()
	for _, cookie := range cookies {
		if cookie.Name == authCookieName {
			return cookie
		}
	}
	return nil
}

const tokenTTLSeconds = int(auth.TokenTTL / time.Second)
