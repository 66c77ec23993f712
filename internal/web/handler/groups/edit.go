package groups

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/larik-22/howufeelin/internal/db/controller/group"
	"github.com/larik-22/howufeelin/internal/rbac"
	"github.com/larik-22/howufeelin/internal/web/handler"
	"github.com/larik-22/howufeelin/internal/web/navigation"
)

// guardedGroupID returns the group id resolved by RequireGroupPermission.
func guardedGroupID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(rbac.LocalGroupID).(uint)
	return id, ok
}

// EditForm renders the edit-group form. Requires EDIT_GROUP.
func (s *Service) EditForm(c *fiber.Ctx) error {
	g, err := group.GetByPublicID(s.db, c.Params("group"))
	if err != nil {
		return s.internalError(c, err, "failed to load group")
	}

	nav := navigation.ForGroup(g.Name, URL(g.PublicID), "Edit", "edit")

	return c.Render(TemplateForm, fiber.Map{
		"Navigation": nav,
		"Group":      g,
		"IsCreate":   false,
	}, handler.BaseLayout)
}

// Edit updates the group's name and description. Requires EDIT_GROUP.
func (s *Service) Edit(c *fiber.Ctx) error {
	groupID, ok := guardedGroupID(c)
	if !ok {
		return s.internalError(c, errors.New("missing group id in locals"), "guard did not run")
	}

	var in createForm
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid form data")
	}

	if err := group.Update(s.db, groupID, in.Name, in.Description); err != nil {
		if errors.Is(err, group.ErrGroupNameEmpty) {
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}

		if errors.Is(err, group.ErrGroupNotFound) {
			return s.notFound(c)
		}

		return s.internalError(c, err, "failed to update group")
	}

	return c.Redirect(URL(c.Params("group")))
}
