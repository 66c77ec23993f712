package groups

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/larik-22/howufeelin/internal/db/controller/group"
	"github.com/larik-22/howufeelin/internal/membership"
	"github.com/larik-22/howufeelin/internal/rbac"
	"github.com/larik-22/howufeelin/internal/web/handler"
	"github.com/larik-22/howufeelin/internal/web/navigation"
)

// LeaveForm renders the leave confirmation page. Admins are told up front
// that they must transfer the admin role first; the confirmation is never
// offered to them.
func (s *Service) LeaveForm(c *fiber.Ctx) error {
	currentUser, ok := handler.CurrentUser(c)
	if !ok {
		return c.Redirect("/login")
	}

	view, err := s.viewerMembership(c, currentUser.ID)
	if err != nil {
		if s.isGroupNotFound(err) {
			return s.notFound(c)
		}

		return s.internalError(c, err, "failed to load group")
	}

	if view.ViewerRole == rbac.RoleNone {
		return s.notFound(c)
	}

	nav := navigation.ForGroup(view.Name, URL(view.PublicID), "Leave", "leave")

	data := fiber.Map{
		"Navigation": nav,
		"Group":      view,
	}

	if view.ViewerRole == rbac.RoleAdmin {
		data["error"] = membership.MsgAdminCannotLeave
	}

	return c.Render(TemplateLeave, data, handler.BaseLayout)
}

// Leave runs the leave workflow for the current user and group.
func (s *Service) Leave(c *fiber.Ctx) error {
	currentUser, ok := handler.CurrentUser(c)
	if !ok {
		return c.Redirect("/login")
	}

	view, err := s.viewerMembership(c, currentUser.ID)
	if err != nil {
		if s.isGroupNotFound(err) {
			return s.notFound(c)
		}

		return s.internalError(c, err, "failed to load group")
	}

	if view.ViewerRole == rbac.RoleNone {
		return s.notFound(c)
	}

	errMsg := runLeave(s.db, view, currentUser.ID)
	if errMsg != "" {
		nav := navigation.ForGroup(view.Name, URL(view.PublicID), "Leave", "leave")

		return c.Render(TemplateLeave, fiber.Map{
			"Navigation": nav,
			"Group":      view,
			"error":      errMsg,
		}, handler.BaseLayout)
	}

	log.Info().Str("group", view.PublicID).Uint64("user_id", currentUser.ID).Msg("user left group")

	return c.Redirect("/dashboard")
}

// runLeave drives one leave attempt through the workflow session and returns
// the user-facing error message, or "" on success.
func runLeave(db *gorm.DB, view *group.View, userID uint64) string {
	var errMsg string

	remover := membership.RemoverFunc(func(groupID uint, memberID uint64) error {
		return group.RemoveMember(db, groupID, memberID)
	})

	session := membership.NewLeaveSession(remover, membership.Callbacks{
		OnError: func(msg string) { errMsg = msg },
	})
	defer session.Close()

	session.Begin(view.ID, userID, view.ViewerRole)
	if errMsg != "" {
		return errMsg
	}

	session.Confirm()

	return errMsg
}
