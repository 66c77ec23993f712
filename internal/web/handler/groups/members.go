package groups

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/larik-22/howufeelin/internal/db/controller/group"
	"github.com/larik-22/howufeelin/internal/rbac"
	"github.com/larik-22/howufeelin/internal/web/handler"
	"github.com/larik-22/howufeelin/internal/web/navigation"
)

// memberRow is the member list projection with role presentation attached.
type memberRow struct {
	group.MemberView
	RoleLabel string
	RoleColor string
}

// Members renders the member list. Requires VIEW_MEMBERS.
func (s *Service) Members(c *fiber.Ctx) error {
	groupID, ok := guardedGroupID(c)
	if !ok {
		return s.internalError(c, errors.New("missing group id in locals"), "guard did not run")
	}

	g, err := group.GetByPublicID(s.db, c.Params("group"))
	if err != nil {
		return s.internalError(c, err, "failed to load group")
	}

	members, err := group.Members(s.db, groupID)
	if err != nil {
		return s.internalError(c, err, "failed to list members")
	}

	rows := make([]memberRow, 0, len(members))
	for _, m := range members {
		rows = append(rows, memberRow{
			MemberView: m,
			RoleLabel:  rbac.RoleLabel(m.Role),
			RoleColor:  rbac.RoleColor(m.Role),
		})
	}

	viewerRole, _ := c.Locals(rbac.LocalViewerRole).(rbac.Role)

	nav := navigation.ForGroup(g.Name, URL(g.PublicID), "Members", "members")

	return c.Render(TemplateMembers, fiber.Map{
		"Navigation": nav,
		"Group":      g,
		"Members":    rows,
		"CanManage":  rbac.HasPermission(viewerRole, rbac.PermGroupManageMembers),
	}, handler.BaseLayout)
}

// UpdateMemberRole changes a member's role between member and moderator.
// Requires MANAGE_MEMBERS. The admin role is only moved through TransferAdmin.
func (s *Service) UpdateMemberRole(c *fiber.Ctx) error {
	groupID, ok := guardedGroupID(c)
	if !ok {
		return s.internalError(c, errors.New("missing group id in locals"), "guard did not run")
	}

	targetID, err := strconv.ParseUint(c.FormValue("user_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid user id")
	}

	role := rbac.ParseRole(c.FormValue("role"))
	if role != rbac.RoleMember && role != rbac.RoleModerator {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid role")
	}

	if err := group.UpdateMemberRole(s.db, groupID, targetID, role); err != nil {
		switch {
		case errors.Is(err, group.ErrMemberNotFound):
			return c.Status(fiber.StatusNotFound).SendString("Member not found")
		case errors.Is(err, group.ErrAdminImmutable):
			return c.Status(fiber.StatusForbidden).SendString(err.Error())
		default:
			return s.internalError(c, err, "failed to update member role")
		}
	}

	log.Info().Uint("group_id", groupID).Uint64("user_id", targetID).Str("role", string(role)).
		Msg("member role updated")

	return c.Redirect(URL(c.Params("group")) + "/members")
}

// TransferAdmin hands the admin role to another member, demoting the caller
// to member. Requires MANAGE_MEMBERS and that the caller is the admin.
func (s *Service) TransferAdmin(c *fiber.Ctx) error {
	groupID, ok := guardedGroupID(c)
	if !ok {
		return s.internalError(c, errors.New("missing group id in locals"), "guard did not run")
	}

	currentUser, ok := handler.CurrentUser(c)
	if !ok {
		return c.Redirect("/login")
	}

	targetID, err := strconv.ParseUint(c.FormValue("user_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid user id")
	}

	if err := group.TransferAdmin(s.db, groupID, currentUser.ID, targetID); err != nil {
		switch {
		case errors.Is(err, group.ErrNotAdmin):
			return c.Status(fiber.StatusForbidden).SendString("Only the group admin can transfer the admin role")
		case errors.Is(err, group.ErrMemberNotFound):
			return c.Status(fiber.StatusNotFound).SendString("Member not found")
		default:
			return s.internalError(c, err, "failed to transfer admin role")
		}
	}

	log.Info().Uint("group_id", groupID).Uint64("from", currentUser.ID).Uint64("to", targetID).
		Msg("admin role transferred")

	return c.Redirect(URL(c.Params("group")) + "/members")
}
