package groups

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/larik-22/howufeelin/internal/db/controller/group"
	"github.com/larik-22/howufeelin/internal/rbac"
	"github.com/larik-22/howufeelin/internal/web/handler"
	"github.com/larik-22/howufeelin/internal/web/navigation"
)

// JoinForm renders the join-by-invite-code form.
func (s *Service) JoinForm(c *fiber.Ctx) error {
	nav := navigation.NewContext("Join Group", "groups", "join").
		AddBreadcrumb("Dashboard", "/dashboard", false).
		AddBreadcrumb("Join Group", Path+"/join", true)

	return c.Render(TemplateJoin, fiber.Map{
		"Navigation": nav,
	}, handler.BaseLayout)
}

// Join adds the current user to the group behind an invite code as a member.
func (s *Service) Join(c *fiber.Ctx) error {
	currentUser, ok := handler.CurrentUser(c)
	if !ok {
		return c.Redirect("/login")
	}

	code := strings.TrimSpace(c.FormValue("invite_code"))
	if code == "" {
		return s.renderJoinError(c, "please enter an invite code")
	}

	target, err := group.GetByInviteCode(s.db, code)
	if err != nil {
		if errors.Is(err, group.ErrGroupNotFound) {
			return s.renderJoinError(c, "no group matches this invite code")
		}

		log.Error().Err(err).Msg("failed to look up invite code")

		return s.renderJoinError(c, "internal server error")
	}

	if err := group.AddMember(s.db, target.ID, currentUser.ID, rbac.RoleMember); err != nil {
		if errors.Is(err, group.ErrAlreadyMember) {
			// already in, just go there
			return c.Redirect(URL(target.PublicID))
		}

		log.Error().Err(err).Uint("group_id", target.ID).Uint64("user_id", currentUser.ID).
			Msg("failed to join group")

		return s.renderJoinError(c, "failed to join the group")
	}

	log.Info().Str("group", target.PublicID).Uint64("user_id", currentUser.ID).Msg("user joined group")

	return c.Redirect(URL(target.PublicID))
}

func (s *Service) renderJoinError(c *fiber.Ctx, msg string) error {
	nav := navigation.NewContext("Join Group", "groups", "join").
		AddBreadcrumb("Dashboard", "/dashboard", false).
		AddBreadcrumb("Join Group", Path+"/join", true)

	return c.Render(TemplateJoin, fiber.Map{
		"Navigation": nav,
		"error":      msg,
	}, handler.BaseLayout)
}
