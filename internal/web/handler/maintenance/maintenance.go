// Package maintenance provides the maintenance-only pages: listing accounts
// and toggling their active flag. The whole subtree sits behind the identity
// guard; membership in the maintenance set is the only way in.
package maintenance

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/larik-22/howufeelin/internal/config"
	"github.com/larik-22/howufeelin/internal/db/controller/user"
	"github.com/larik-22/howufeelin/internal/db/models"
	"github.com/larik-22/howufeelin/internal/rbac"
	"github.com/larik-22/howufeelin/internal/web/guard"
	"github.com/larik-22/howufeelin/internal/web/handler"
	"github.com/larik-22/howufeelin/internal/web/navigation"
)

const (
	// Path is the base path of the maintenance subtree.
	Path = handler.RootPath + "maintenance"

	// TemplateUsers is the user list template.
	TemplateUsers = "maintenance/users"
)

// Service is the maintenance handler service.
type Service struct {
	handler.Service
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the maintenance handler.
var Handler = Service{}

// Init initializes the maintenance handler. Every route in the subtree runs
// behind the guard for the given identity set.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, allowed rbac.IdentitySet) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg

	gate := guard.Middleware(allowed)

	app.Get(Path, gate, s.Users)
	app.Post(Path+"/users/:id/toggle", gate, s.ToggleActive)
}

// Users renders the account list.
func (s *Service) Users(c *fiber.Ctx) error {
	var users []models.User
	if err := s.db.Order("username ASC").Find(&users).Error; err != nil {
		log.Error().Err(err).Msg("failed to list users")

		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	nav := navigation.NewContext("Maintenance", "maintenance", "users").
		AddBreadcrumb("Dashboard", "/dashboard", false).
		AddBreadcrumb("Maintenance", Path, true)

	return c.Render(TemplateUsers, fiber.Map{
		"Navigation": nav,
		"Users":      users,
	}, handler.BaseLayout)
}

// ToggleActive flips an account's active flag. Deactivated accounts keep
// their data but can no longer log in.
func (s *Service) ToggleActive(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid user id")
	}

	target, err := user.Get(s.db, id)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).SendString("User not found")
		}

		log.Error().Err(err).Uint64("user_id", id).Msg("failed to load user")

		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	if err := user.Update(s.db, id, map[string]interface{}{"active": !target.Active}); err != nil {
		log.Error().Err(err).Uint64("user_id", id).Msg("failed to toggle user")

		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	log.Info().Uint64("user_id", id).Bool("active", !target.Active).Msg("account active flag toggled")

	return c.Redirect(Path)
}
