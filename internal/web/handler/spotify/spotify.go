// Package spotify provides the Spotify account linking handler. The OAuth2
// client is injected by the web service; the handler never constructs one.
package spotify

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/larik-22/howufeelin/internal/config"
	"github.com/larik-22/howufeelin/internal/db/controller/user"
	spotifyclient "github.com/larik-22/howufeelin/internal/spotify"
	"github.com/larik-22/howufeelin/internal/uniuri"
	"github.com/larik-22/howufeelin/internal/web/handler"
)

const (
	// Path is the base path for Spotify linking routes.
	Path = handler.RootPath + "spotify"

	stateCookie = "spotify_state"
)

// Service is the Spotify linking handler service.
type Service struct {
	handler.Service
	cfg    *config.Config
	db     *gorm.DB
	client *spotifyclient.Client
}

// Handler is the Spotify linking handler.
var Handler = Service{}

// Init initializes the Spotify linking handler. Callers only register it
// when linking is enabled and a client was built.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, client *spotifyclient.Client) {
	if app == nil || cfg == nil || db == nil || client == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.client = client

	app.Get(Path+"/link", s.Link)
	app.Get(Path+"/callback", s.Callback)
	app.Post(Path+"/unlink", s.Unlink)
}

// Link starts the OAuth2 authorization-code flow.
func (s *Service) Link(c *fiber.Ctx) error {
	if _, ok := handler.CurrentUser(c); !ok {
		return c.Redirect("/login")
	}

	state := uniuri.New()

	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    state,
		MaxAge:   300,
		Secure:   !s.cfg.DevMode,
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.Redirect(s.client.AuthCodeURL(state))
}

// Callback finishes the flow: verifies the state, exchanges the code and
// stores the linked profile on the account.
func (s *Service) Callback(c *fiber.Ctx) error {
	currentUser, ok := handler.CurrentUser(c)
	if !ok {
		return c.Redirect("/login")
	}

	state := c.Query("state")
	if state == "" || state != c.Cookies(stateCookie) {
		log.Warn().Uint64("user_id", currentUser.ID).Msg("spotify callback with bad state")

		return c.Status(fiber.StatusBadRequest).SendString("Invalid OAuth state")
	}

	code := c.Query("code")
	if code == "" {
		// user denied consent
		return c.Redirect("/profile")
	}

	token, err := s.client.Exchange(c.Context(), code)
	if err != nil {
		log.Error().Err(err).Msg("spotify code exchange failed")

		return c.Status(fiber.StatusBadGateway).SendString("Spotify authorization failed")
	}

	profile, err := s.client.Profile(c.Context(), token)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch spotify profile")

		return c.Status(fiber.StatusBadGateway).SendString("Spotify authorization failed")
	}

	updates := map[string]interface{}{
		"spotify_id":            profile.ID,
		"spotify_display_name":  profile.DisplayName,
		"spotify_refresh_token": token.RefreshToken,
	}

	if err := user.Update(s.db, currentUser.ID, updates); err != nil {
		log.Error().Err(err).Uint64("user_id", currentUser.ID).Msg("failed to store spotify link")

		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	log.Info().Uint64("user_id", currentUser.ID).Str("spotify_id", profile.ID).Msg("spotify profile linked")

	return c.Redirect("/profile")
}

// Unlink removes the linked Spotify profile from the account.
func (s *Service) Unlink(c *fiber.Ctx) error {
	currentUser, ok := handler.CurrentUser(c)
	if !ok {
		return c.Redirect("/login")
	}

	updates := map[string]interface{}{
		"spotify_id":            "",
		"spotify_display_name":  "",
		"spotify_refresh_token": "",
	}

	if err := user.Update(s.db, currentUser.ID, updates); err != nil {
		log.Error().Err(err).Uint64("user_id", currentUser.ID).Msg("failed to unlink spotify")

		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	return c.Redirect("/profile")
}
