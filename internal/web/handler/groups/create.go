package groups

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/larik-22/howufeelin/internal/db/controller/group"
	"github.com/larik-22/howufeelin/internal/web/handler"
	"github.com/larik-22/howufeelin/internal/web/navigation"
)

// createForm is the create/edit group form payload.
type createForm struct {
	Name        string `form:"name"`
	Description string `form:"description"`
}

// NewForm renders the create-group form.
func (s *Service) NewForm(c *fiber.Ctx) error {
	nav := navigation.NewContext("New Group", "groups", "new").
		AddBreadcrumb("Dashboard", "/dashboard", false).
		AddBreadcrumb("New Group", Path+"/new", true)

	return c.Render(TemplateForm, fiber.Map{
		"Navigation": nav,
		"IsCreate":   true,
	}, handler.BaseLayout)
}

// Create creates a group and makes the creator its admin.
func (s *Service) Create(c *fiber.Ctx) error {
	currentUser, ok := handler.CurrentUser(c)
	if !ok {
		return c.Redirect("/login")
	}

	var in createForm
	if err := c.BodyParser(&in); err != nil {
		return s.renderCreateError(c, "invalid form data")
	}

	created, err := group.Create(s.db, in.Name, in.Description, currentUser.ID)
	if err != nil {
		if errors.Is(err, group.ErrGroupNameEmpty) {
			return s.renderCreateError(c, "group name cannot be empty")
		}

		log.Error().Err(err).Uint64("user_id", currentUser.ID).Msg("failed to create group")

		return s.renderCreateError(c, "failed to create the group")
	}

	log.Info().Str("group", created.PublicID).Uint64("creator", currentUser.ID).Msg("group created")

	return c.Redirect(URL(created.PublicID))
}

func (s *Service) renderCreateError(c *fiber.Ctx, msg string) error {
	nav := navigation.NewContext("New Group", "groups", "new").
		AddBreadcrumb("Dashboard", "/dashboard", false).
		AddBreadcrumb("New Group", Path+"/new", true)

	return c.Render(TemplateForm, fiber.Map{
		"Navigation": nav,
		"IsCreate":   true,
		"error":      msg,
	}, handler.BaseLayout)
}
