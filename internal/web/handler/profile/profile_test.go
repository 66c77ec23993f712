package profile

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/larik-22/howufeelin/internal/config"
	"github.com/larik-22/howufeelin/internal/db/models"
	"github.com/larik-22/howufeelin/internal/web/handler"
	websess "github.com/larik-22/howufeelin/internal/web/session"
)

type noOpViews struct{}

func (noOpViews) Load() error { return nil }

func (noOpViews) Render(w io.Writer, name string, data interface{}, _ ...string) error {
	if m, ok := data.(fiber.Map); ok {
		if v, exists := m["error"]; exists && v != nil {
			_, _ = io.WriteString(w, v.(string))
			return nil
		}
	}

	_, _ = io.WriteString(w, name)

	return nil
}

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

func newFixture(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite in-memory db: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed to migrate models: %v", err)
	}

	cfg := &config.Config{
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Minute},
		},
	}

	websess.Init(&testStorage{data: make(map[string][]byte)})

	app := fiber.New(fiber.Config{Views: noOpViews{}})

	app.Use(func(c *fiber.Ctx) error {
		cookie := c.Cookies(websess.CookieName)
		if cookie != "" {
			data := new(websess.Data)
			if err := data.Read(cookie); err == nil && data.User.ID != 0 {
				c.Locals(handler.LocalCurrentUser, data.User)
			}
		}

		return c.Next()
	})

	var s Service
	s.Init(app, cfg, db)

	return app, db
}

func createAndLogin(t *testing.T, db *gorm.DB, username string) (*models.User, string) {
	t.Helper()

	u := &models.User{Active: true, Username: username, Email: username + "@example.com"}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	sessionID, err := websess.GenerateSessionID()
	if err != nil {
		t.Fatalf("failed to generate session id: %v", err)
	}

	data := &websess.Data{User: *u}
	if err := data.Write(sessionID, time.Minute); err != nil {
		t.Fatalf("failed to write session: %v", err)
	}

	return u, sessionID
}

func postProfile(t *testing.T, app *fiber.App, sessionID string, form url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, Path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: websess.CookieName, Value: sessionID})

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	return resp
}

func TestPost_UpdatesProfileAndSession(t *testing.T) {
	app, db := newFixture(t)
	u, sid := createAndLogin(t, db, "alice")

	resp := postProfile(t, app, sid, url.Values{
		"username":       {"alice2"},
		"display_name":   {"Alice the Second"},
		"birthday_month": {"6"},
		"birthday_day":   {"24"},
	})
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}

	var reloaded models.User
	if err := db.First(&reloaded, u.ID).Error; err != nil {
		t.Fatalf("failed to reload user: %v", err)
	}

	if reloaded.Username != "alice2" || reloaded.DisplayName != "Alice the Second" {
		t.Fatalf("profile not updated: %+v", reloaded)
	}

	// session must carry the fresh username
	sessData := new(websess.Data)
	if err := sessData.Read(sid); err != nil {
		t.Fatalf("failed to read session: %v", err)
	}

	if sessData.User.Username != "alice2" {
		t.Fatalf("expected refreshed session username, got %q", sessData.User.Username)
	}
}

func TestPost_KeepingOwnUsernameIsAllowed(t *testing.T) {
	app, db := newFixture(t)
	_, sid := createAndLogin(t, db, "bob")

	// same name, different case; self-exclusion must allow it
	resp := postProfile(t, app, sid, url.Values{
		"username": {"Bob"},
	})
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302 keeping own username, got %d", resp.StatusCode)
	}
}

func TestPost_TakenUsernameRejected(t *testing.T) {
	app, db := newFixture(t)
	_, sid := createAndLogin(t, db, "carol")

	other := &models.User{Active: true, Username: "Dave", Email: "dave@example.com"}
	if err := db.Create(other).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	resp := postProfile(t, app, sid, url.Values{
		"username": {"dave"},
	})
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with error page, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "already taken") {
		t.Fatalf("expected taken-username error, got %q", string(body))
	}
}
