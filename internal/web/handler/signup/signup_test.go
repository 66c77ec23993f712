package signup

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

func newTestService(t *testing.T) (*Service, *fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite in-memory db: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("failed to migrate user model: %v", err)
	}

	cfg := &config.Config{
		DevMode: true,
		Webserver: config.Webserver{
			URL:     "http://localhost",
			Port:    3000,
			Session: config.Session{ExpiryTime: time.Minute},
		},
	}

	app := fiber.New(fiber.Config{Views: noOpViews{}})

	websess.Init(&testStorage{data: make(map[string][]byte)})

	var s Service
	s.Init(app, cfg, db)

	return &s, app, db
}

func performPost(t *testing.T, app *fiber.App, form url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, Path+"/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test failed: %v", err)
	}

	return resp
}

func TestPost_CreatesAccountAndLogsIn(t *testing.T) {
	_, app, db := newTestService(t)

	form := url.Values{
		"username":       {"alice"},
		"email":          {"alice@example.com"},
		"password":       {"longenough"},
		"display_name":   {"Alice"},
		"birthday_month": {"6"},
		"birthday_day":   {"24"},
	}
	resp := performPost(t, app, form)

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302 Found, got %d", resp.StatusCode)
	}

	if loc := resp.Header.Get("Location"); loc != "/dashboard" {
		t.Fatalf("expected redirect to /dashboard, got %s", loc)
	}

	if !strings.Contains(resp.Header.Get("Set-Cookie"), "session=") {
		t.Fatalf("expected session cookie after signup")
	}

	var created models.User
	if err := db.Where("username = ?", "alice").First(&created).Error; err != nil {
		t.Fatalf("expected user to be created: %v", err)
	}

	if !created.Active {
		t.Fatalf("new accounts must be active")
	}

	if created.BirthdayMonth != 6 || created.BirthdayDay != 24 {
		t.Fatalf("expected birthday 6/24, got %d/%d", created.BirthdayMonth, created.BirthdayDay)
	}

	if !created.VerifyPassword("longenough") {
		t.Fatalf("stored password hash must verify")
	}
}

func TestPost_RejectsShortPassword(t *testing.T) {
	_, app, db := newTestService(t)

	form := url.Values{
		"username": {"bob"},
		"email":    {"bob@example.com"},
		"password": {"short"},
	}
	resp := performPost(t, app, form)

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 OK with error page, got %d", resp.StatusCode)
	}

	var count int64
	db.Model(&models.User{}).Count(&count)

	if count != 0 {
		t.Fatalf("expected no user created, got %d", count)
	}
}

func TestPost_RejectsTakenUsername_CaseInsensitive(t *testing.T) {
	_, app, db := newTestService(t)

	existing := &models.User{Active: true, Username: "Carol", Email: "carol@example.com"}
	if err := db.Create(existing).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	form := url.Values{
		"username": {"carol"},
		"email":    {"carol2@example.com"},
		"password": {"longenough"},
	}
	resp := performPost(t, app, form)

	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 OK with error page, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "already taken") {
		t.Fatalf("expected taken-username error, got %q", string(body))
	}
}
