package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/larik-22/howufeelin/internal/db/models"
)

// CurrentUser returns the authenticated user stored in fiber locals by the
// auth middleware. The second return is false for anonymous requests.
func CurrentUser(c *fiber.Ctx) (models.User, bool) {
	user, ok := c.Locals(LocalCurrentUser).(models.User)
	if !ok || user.ID == 0 {
		return models.User{}, false
	}

	return user, true
}
