package rbac

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/larik-22/howufeelin/internal/web/session"
)

// Fiber locals keys set by RequireGroupPermission for downstream handlers.
const (
	// LocalGroupID holds the resolved database id (uint) of the group.
	LocalGroupID = "GroupID"
	// LocalViewerRole holds the viewer's Role within the group.
	LocalViewerRole = "ViewerRole"
)

// RequireGroupPermission creates Fiber middleware that requires a permission
// within the group addressed by the :group URL parameter (public UUID).
// The viewer's role is resolved per request; on success the group's database
// id and the role are stored in fiber locals for the handler.
//
// Denial is an expected outcome and answers with 403, never an error page.
func RequireGroupPermission(svc *Service, perm Permission) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Get session cookie
		sessionID := c.Cookies(session.CookieName)
		if sessionID == "" {
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}

		// Read session data
		sessionData := new(session.Data)
		if err := sessionData.Read(sessionID); err != nil {
			log.Error().Err(err).Msg("failed to read session")
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}

		if sessionData.User.ID == 0 {
			return c.Status(fiber.StatusUnauthorized).SendString("Unauthorized")
		}

		groupID, err := svc.ResolveGroupID(c.Params("group"))
		if err != nil {
			if errors.Is(err, ErrGroupNotFound) {
				return c.Status(fiber.StatusNotFound).SendString("Group not found")
			}

			log.Error().Err(err).Str("group", c.Params("group")).Msg("failed to resolve group")

			return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
		}

		role, err := svc.ViewerRole(groupID, sessionData.User.ID)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", sessionData.User.ID).Uint("group_id", groupID).
				Msg("failed to resolve viewer role")

			return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
		}

		if !HasPermission(role, perm) {
			log.Warn().Uint64("user_id", sessionData.User.ID).Uint("group_id", groupID).
				Str("permission", string(perm)).Msg("user lacks required group permission")

			return c.Status(fiber.StatusForbidden).
				SendString("Forbidden: You don't have permission to access this resource")
		}

		c.Locals(LocalGroupID, groupID)
		c.Locals(LocalViewerRole, role)

		return c.Next()
	}
}
