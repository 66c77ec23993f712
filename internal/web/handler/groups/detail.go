package groups

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/larik-22/howufeelin/internal/db/controller/rating"
	"github.com/larik-22/howufeelin/internal/rbac"
	"github.com/larik-22/howufeelin/internal/web/handler"
	"github.com/larik-22/howufeelin/internal/web/navigation"
)

// Detail renders the group page with today's ratings and the daily average.
// Only members see the page; everyone else gets a 404 so group existence is
// not leaked to outsiders.
func (s *Service) Detail(c *fiber.Ctx) error {
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

	today := rating.Day(time.Now())

	entries, err := rating.ListForDay(s.db, view.ID, today)
	if err != nil {
		return s.internalError(c, err, "failed to list ratings")
	}

	average, hasAverage, err := rating.GroupAverage(s.db, view.ID, today)
	if err != nil {
		return s.internalError(c, err, "failed to compute group average")
	}

	var myRating *rating.Entry
	for i := range entries {
		if entries[i].UserID == currentUser.ID {
			myRating = &entries[i]
			break
		}
	}

	nav := navigation.ForGroup(view.Name, URL(view.PublicID), view.Name, "detail")

	return c.Render(TemplateDetail, fiber.Map{
		"Navigation":      nav,
		"Group":           view,
		"ViewerRole":      view.ViewerRole,
		"ViewerRoleLabel": rbac.RoleLabel(view.ViewerRole),
		"ViewerRoleColor": rbac.RoleColor(view.ViewerRole),
		"CanEdit":         rbac.HasPermission(view.ViewerRole, rbac.PermGroupEdit),
		"CanManage":       rbac.HasPermission(view.ViewerRole, rbac.PermGroupManageMembers),
		"CanViewMembers":  rbac.HasPermission(view.ViewerRole, rbac.PermGroupViewMembers),
		"Entries":         entries,
		"Average":         average,
		"HasAverage":      hasAverage,
		"MyRating":        myRating,
		"Today":           today,
	}, handler.BaseLayout)
}

// Rate records the current user's mood for today. A second submission on the
// same day replaces the first.
func (s *Service) Rate(c *fiber.Ctx) error {
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

	score, err := strconv.Atoi(c.FormValue("score"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid score")
	}

	note := strings.TrimSpace(c.FormValue("note"))

	if err := rating.Upsert(s.db, view.ID, currentUser.ID, rating.Day(time.Now()), score, note); err != nil {
		if errors.Is(err, rating.ErrScoreOutOfRange) {
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}

		return s.internalError(c, err, "failed to record rating")
	}

	log.Debug().Uint("group_id", view.ID).Uint64("user_id", currentUser.ID).Int("score", score).
		Msg("rating recorded")

	return c.Redirect(URL(view.PublicID))
}
