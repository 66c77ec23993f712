// Package signup provides the account registration handler.
package signup

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/larik-22/howufeelin/internal/config"
	"github.com/larik-22/howufeelin/internal/db/controller/user"
	"github.com/larik-22/howufeelin/internal/db/models"
	"github.com/larik-22/howufeelin/internal/web/handler"
	"github.com/larik-22/howufeelin/internal/web/session"
)

const (
	// Path is the path to the signup page.
	Path = "/signup"

	// TemplateName is the name of the signup template.
	TemplateName = "signup"
)

// form is the registration form payload. Birthday is optional; when set it
// only ever feeds the celebration banner, so it is stored without a year.
type form struct {
	Username      string `form:"username"       validate:"required,min=3,max=100"`
	Email         string `form:"email"          validate:"required,email,max=255"`
	Password      string `form:"password"       validate:"required,min=8,max=255"`
	DisplayName   string `form:"display_name"   validate:"max=100"`
	BirthdayMonth int    `form:"birthday_month" validate:"min=0,max=12"`
	BirthdayDay   int    `form:"birthday_day"   validate:"min=0,max=31"`
}

// Service is the signup handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the signup handler.
var Handler = Service{}

// Init initializes the signup handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.validator = validator.New()

	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, s.Get)
		router.Post(handler.RootPath, s.Post)
	})
}

// Get handles the signup page rendering.
func (s *Service) Get(c *fiber.Ctx) error {
	return c.Render(TemplateName, fiber.Map{
		"Title": s.cfg.Title,
	})
}

// Post handles the registration form submission.
func (s *Service) Post(c *fiber.Ctx) error {
	var in form
	if err := c.BodyParser(&in); err != nil {
		return s.renderError(c, "invalid form data")
	}

	if err := s.validator.Struct(in); err != nil {
		return s.renderError(c, "please correct the highlighted errors")
	}

	taken, err := user.IsUsernameTaken(s.db, in.Username)
	if err != nil {
		log.Error().Err(err).Msg("failed to check username availability")

		return s.renderError(c, "internal server error")
	}

	if taken {
		return s.renderError(c, "this username is already taken")
	}

	newUser := &models.User{
		Active:        true,
		Username:      in.Username,
		Email:         in.Email,
		Password:      models.HashPassword(in.Password),
		DisplayName:   in.DisplayName,
		BirthdayMonth: in.BirthdayMonth,
		BirthdayDay:   in.BirthdayDay,
	}

	if err := user.Create(s.db, newUser); err != nil {
		log.Error().Err(err).Msg("failed to create user")

		return s.renderError(c, "failed to create the account")
	}

	// log the fresh account in right away
	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")

		return c.Redirect("/login")
	}

	userSession := &session.Data{User: *newUser}
	if err := userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write session")

		return c.Redirect("/login")
	}

	cookieSettings := &fiber.Cookie{
		Name:     session.CookieName,
		Value:    sessionID,
		Domain:   s.cfg.Webserver.Domain,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	}

	if s.cfg.DevMode {
		cookieSettings.Secure = false
	}

	c.Cookie(cookieSettings)

	return c.Redirect("/dashboard")
}

func (s *Service) renderError(c *fiber.Ctx, msg string) error {
	return c.Render(TemplateName, fiber.Map{
		"Title": s.cfg.Title,
		"error": msg,
	})
}
