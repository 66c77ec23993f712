package guard

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage"

	"github.com/larik-22/howufeelin/internal/db/models"
	"github.com/larik-22/howufeelin/internal/rbac"
	websess "github.com/larik-22/howufeelin/internal/web/session"
)

func TestDecide(t *testing.T) {
	allowed := rbac.NewIdentitySet([]string{"ops@example.com"})

	tests := []struct {
		name   string
		viewer Viewer
		want   Decision
	}{
		{
			name:   "unresolved viewer is never redirected",
			viewer: Viewer{Resolved: false},
			want:   ShowLoading,
		},
		{
			name:   "unresolved authenticated viewer still waits",
			viewer: Viewer{Resolved: false, Authenticated: true, Email: "ops@example.com"},
			want:   ShowLoading,
		},
		{
			name:   "unauthenticated viewer goes to login",
			viewer: Viewer{Resolved: true},
			want:   RedirectLogin,
		},
		{
			name:   "authenticated but unlisted viewer goes to dashboard",
			viewer: Viewer{Resolved: true, Authenticated: true, Email: "user@example.com"},
			want:   RedirectDashboard,
		},
		{
			name:   "listed viewer is allowed",
			viewer: Viewer{Resolved: true, Authenticated: true, Email: "ops@example.com"},
			want:   Allow,
		},
		{
			name:   "email comparison is case sensitive",
			viewer: Viewer{Resolved: true, Authenticated: true, Email: "Ops@example.com"},
			want:   RedirectDashboard,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.viewer, allowed); got != tt.want {
				t.Fatalf("Decide() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecide_EmptySetDeniesEveryone(t *testing.T) {
	viewer := Viewer{Resolved: true, Authenticated: true, Email: "ops@example.com"}

	if got := Decide(viewer, rbac.NewIdentitySet(nil)); got != RedirectDashboard {
		t.Fatalf("Decide() with empty set = %v, want RedirectDashboard", got)
	}
}

// testStorage is a minimal in-memory implementation of storage.Storage for tests.
type testStorage struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ storage.Storage = (*testStorage)(nil)

func (s *testStorage) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v := s.data[key]
	out := make([]byte, len(v))
	copy(out, v)

	return out, nil
}

func (s *testStorage) Set(key string, val []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data == nil {
		s.data = make(map[string][]byte)
	}

	buf := make([]byte, len(val))
	copy(buf, val)
	s.data[key] = buf

	return nil
}

func (s *testStorage) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

func (s *testStorage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string][]byte)

	return nil
}

func (s *testStorage) Close() error { return nil }

func newGuardedApp(allowed rbac.IdentitySet) *fiber.App {
	app := fiber.New()
	app.Get("/maintenance", Middleware(allowed), func(c *fiber.Ctx) error {
		return c.SendString("maintenance")
	})

	return app
}

func loginAs(t *testing.T, email string) string {
	t.Helper()

	sessionID, err := websess.GenerateSessionID()
	if err != nil {
		t.Fatalf("failed to generate session id: %v", err)
	}

	data := &websess.Data{User: models.User{ID: 1, Email: email}}
	if err := data.Write(sessionID, time.Minute); err != nil {
		t.Fatalf("failed to write session: %v", err)
	}

	return sessionID
}

func performGet(t *testing.T, app *fiber.App, target, sessionID string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if sessionID != "" {
		req.AddCookie(&http.Cookie{Name: websess.CookieName, Value: sessionID})
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	return resp
}

func TestMiddleware_AnonymousRedirectsToLogin(t *testing.T) {
	websess.Init(&testStorage{data: make(map[string][]byte)})
	app := newGuardedApp(rbac.NewIdentitySet([]string{"ops@example.com"}))

	resp := performGet(t, app, "/maintenance", "")
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}

	if loc := resp.Header.Get("Location"); loc != loginPath {
		t.Fatalf("expected redirect to %s, got %s", loginPath, loc)
	}

	if cc := resp.Header.Get(fiber.HeaderCacheControl); cc != "no-store" {
		t.Fatalf("expected no-store Cache-Control on redirect, got %q", cc)
	}
}

func TestMiddleware_UnlistedAccountRedirectsToDashboard(t *testing.T) {
	websess.Init(&testStorage{data: make(map[string][]byte)})
	app := newGuardedApp(rbac.NewIdentitySet([]string{"ops@example.com"}))

	sessionID := loginAs(t, "user@example.com")

	resp := performGet(t, app, "/maintenance", sessionID)
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}

	if loc := resp.Header.Get("Location"); loc != dashboardPath {
		t.Fatalf("expected redirect to %s, got %s", dashboardPath, loc)
	}

	if cc := resp.Header.Get(fiber.HeaderCacheControl); cc != "no-store" {
		t.Fatalf("expected no-store Cache-Control on redirect, got %q", cc)
	}
}

func TestMiddleware_ListedAccountIsAllowed(t *testing.T) {
	websess.Init(&testStorage{data: make(map[string][]byte)})
	app := newGuardedApp(rbac.NewIdentitySet([]string{"ops@example.com"}))

	sessionID := loginAs(t, "ops@example.com")

	resp := performGet(t, app, "/maintenance", sessionID)
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestMiddleware_StaleCookieRedirectsToLogin(t *testing.T) {
	websess.Init(&testStorage{data: make(map[string][]byte)})
	app := newGuardedApp(rbac.NewIdentitySet([]string{"ops@example.com"}))

	resp := performGet(t, app, "/maintenance", "no-such-session")
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", resp.StatusCode)
	}

	if loc := resp.Header.Get("Location"); loc != loginPath {
		t.Fatalf("expected redirect to %s, got %s", loginPath, loc)
	}
}
