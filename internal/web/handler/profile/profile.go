// Package profile provides the account settings page: username and display
// name edits plus the Spotify link status.
package profile

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/larik-22/howufeelin/internal/config"
	"github.com/larik-22/howufeelin/internal/db/controller/user"
	"github.com/larik-22/howufeelin/internal/web/handler"
	"github.com/larik-22/howufeelin/internal/web/navigation"
	"github.com/larik-22/howufeelin/internal/web/session"
)

const (
	// Path is the path to the profile page.
	Path = handler.RootPath + "profile"

	// TemplateName is the name of the profile template.
	TemplateName = "profile/profile"
)

// form is the profile edit payload.
type form struct {
	Username      string `form:"username"       validate:"required,min=3,max=100"`
	DisplayName   string `form:"display_name"   validate:"max=100"`
	AvatarURL     string `form:"avatar_url"     validate:"omitempty,url,max=512"`
	BirthdayMonth int    `form:"birthday_month" validate:"min=0,max=12"`
	BirthdayDay   int    `form:"birthday_day"   validate:"min=0,max=31"`
}

// Service is the profile handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the profile handler.
var Handler = Service{}

// Init initializes the profile handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.validator = validator.New()

	app.Get(Path, s.Get)
	app.Post(Path, s.Post)
}

// Get renders the profile page.
func (s *Service) Get(c *fiber.Ctx) error {
	currentUser, ok := handler.CurrentUser(c)
	if !ok {
		return c.Redirect("/login")
	}

	// load fresh state, the session copy may be stale
	dbUser, err := user.Get(s.db, currentUser.ID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", currentUser.ID).Msg("failed to load user")

		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	nav := navigation.NewContext("Profile", "profile", "profile").
		AddBreadcrumb("Dashboard", "/dashboard", false).
		AddBreadcrumb("Profile", Path, true)

	return c.Render(TemplateName, fiber.Map{
		"Navigation":     nav,
		"User":           dbUser,
		"SpotifyEnabled": s.cfg.Spotify.Enabled,
		"SpotifyLinked":  dbUser.SpotifyID != "",
	}, handler.BaseLayout)
}

// Post updates the profile. The username must stay unique, compared case
// insensitively and excluding the user's own current name.
func (s *Service) Post(c *fiber.Ctx) error {
	currentUser, ok := handler.CurrentUser(c)
	if !ok {
		return c.Redirect("/login")
	}

	var in form
	if err := c.BodyParser(&in); err != nil {
		return s.renderError(c, "invalid form data")
	}

	if err := s.validator.Struct(in); err != nil {
		return s.renderError(c, "please correct the highlighted errors")
	}

	taken, err := user.IsUsernameTaken(s.db, in.Username, currentUser.ID)
	if err != nil {
		log.Error().Err(err).Msg("failed to check username availability")

		return s.renderError(c, "internal server error")
	}

	if taken {
		return s.renderError(c, "this username is already taken")
	}

	updates := map[string]interface{}{
		"username":       in.Username,
		"display_name":   in.DisplayName,
		"avatar_url":     in.AvatarURL,
		"birthday_month": in.BirthdayMonth,
		"birthday_day":   in.BirthdayDay,
	}

	if err := user.Update(s.db, currentUser.ID, updates); err != nil {
		log.Error().Err(err).Uint64("user_id", currentUser.ID).Msg("failed to update profile")

		return s.renderError(c, "failed to save the profile")
	}

	s.refreshSession(c, currentUser.ID)

	return c.Redirect(Path)
}

// refreshSession rewrites the session with the user's updated record so the
// next request does not serve stale data.
func (s *Service) refreshSession(c *fiber.Ctx, userID uint64) {
	sessionID := c.Cookies(session.CookieName)
	if sessionID == "" {
		return
	}

	dbUser, err := user.Get(s.db, userID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", userID).Msg("failed to reload user for session refresh")
		return
	}

	data := &session.Data{User: *dbUser}
	if err := data.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to refresh session")
	}
}

func (s *Service) renderError(c *fiber.Ctx, msg string) error {
	nav := navigation.NewContext("Profile", "profile", "profile").
		AddBreadcrumb("Dashboard", "/dashboard", false).
		AddBreadcrumb("Profile", Path, true)

	currentUser, _ := handler.CurrentUser(c)

	return c.Render(TemplateName, fiber.Map{
		"Navigation":     nav,
		"User":           &currentUser,
		"SpotifyEnabled": s.cfg.Spotify.Enabled,
		"SpotifyLinked":  currentUser.SpotifyID != "",
		"error":          msg,
	}, handler.BaseLayout)
}
