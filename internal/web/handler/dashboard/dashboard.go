// Package dashboard provides the dashboard handler listing the user's groups.
package dashboard

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/larik-22/howufeelin/internal/celebration"
	"github.com/larik-22/howufeelin/internal/config"
	"github.com/larik-22/howufeelin/internal/db/controller/group"
	"github.com/larik-22/howufeelin/internal/rbac"
	"github.com/larik-22/howufeelin/internal/web/handler"
	"github.com/larik-22/howufeelin/internal/web/navigation"
)

const (
	// Path is the path to the dashboard page.
	Path = handler.RootPath + "dashboard"

	// TemplateName is the name of the dashboard template.
	TemplateName = "dashboard/dashboard"
)

// Service is the dashboard handler service.
type Service struct {
	handler.Service
	cfg     *config.Config
	db      *gorm.DB
	special rbac.SpecialUsers
	window  celebration.Window
}

// Handler is the dashboard handler.
var Handler = Service{}

// Init initializes the dashboard handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, special rbac.SpecialUsers, window celebration.Window) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.special = special
	s.window = window

	app.Get(Path, s.Get)
}

// Get handles the dashboard page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	currentUser, ok := handler.CurrentUser(c)
	if !ok {
		return c.Redirect("/login")
	}

	groups, err := group.ListForUser(s.db, currentUser.ID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", currentUser.ID).Msg("failed to list groups")

		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	nav := navigation.NewContext("Dashboard", "dashboard", "dashboard").
		AddBreadcrumb("Dashboard", Path, true)

	return c.Render(TemplateName, fiber.Map{
		"Navigation": nav,
		"Groups":     groups,
		"Celebrate":  s.celebrate(currentUser.Email, time.Now()),
	}, handler.BaseLayout)
}

// celebrate reports whether the birthday banner shows for this viewer.
// It is a purely cosmetic surface: membership in the celebration set never
// grants access anywhere.
func (s *Service) celebrate(email string, now time.Time) bool {
	return s.special.Celebration.Contains(email) && s.window.Active(now)
}
