// Package groups provides the group pages: create, join, detail with daily
// ratings, edit, member management and the leave workflow.
package groups

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/larik-22/howufeelin/internal/config"
	"github.com/larik-22/howufeelin/internal/db/controller/group"
	"github.com/larik-22/howufeelin/internal/rbac"
	"github.com/larik-22/howufeelin/internal/web/handler"
)

const (
	// Path is the base path for group pages.
	Path = handler.RootPath + "groups"

	// TemplateDetail is the group detail template.
	TemplateDetail = "groups/detail"

	// TemplateForm is the create/edit form template.
	TemplateForm = "groups/form"

	// TemplateJoin is the join-by-invite template.
	TemplateJoin = "groups/join"

	// TemplateMembers is the member list template.
	TemplateMembers = "groups/members"

	// TemplateLeave is the leave confirmation template.
	TemplateLeave = "groups/leave"
)

// Service is the groups handler service.
type Service struct {
	handler.Service
	cfg     *config.Config
	db      *gorm.DB
	rbacSvc *rbac.Service
}

// Handler is the groups handler.
var Handler = Service{}

// Init initializes the groups handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, rbacSvc *rbac.Service) {
	if app == nil || cfg == nil || db == nil || rbacSvc == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.rbacSvc = rbacSvc

	// static paths first so they never match the :group parameter
	app.Get(Path+"/new", s.NewForm)
	app.Post(Path, s.Create)
	app.Get(Path+"/join", s.JoinForm)
	app.Post(Path+"/join", s.Join)

	// membership is checked inside the handlers below
	app.Get(Path+"/:group", s.Detail)
	app.Post(Path+"/:group/rate", s.Rate)
	app.Get(Path+"/:group/leave", s.LeaveForm)
	app.Post(Path+"/:group/leave", s.Leave)

	// permission-guarded routes
	app.Get(Path+"/:group/edit",
		rbac.RequireGroupPermission(rbacSvc, rbac.PermGroupEdit), s.EditForm)
	app.Post(Path+"/:group/edit",
		rbac.RequireGroupPermission(rbacSvc, rbac.PermGroupEdit), s.Edit)
	app.Get(Path+"/:group/members",
		rbac.RequireGroupPermission(rbacSvc, rbac.PermGroupViewMembers), s.Members)
	app.Post(Path+"/:group/members/role",
		rbac.RequireGroupPermission(rbacSvc, rbac.PermGroupManageMembers), s.UpdateMemberRole)
	app.Post(Path+"/:group/transfer",
		rbac.RequireGroupPermission(rbacSvc, rbac.PermGroupManageMembers), s.TransferAdmin)
}

// URL returns the detail page URL of a group.
func URL(publicID string) string {
	return Path + "/" + publicID
}

// viewerMembership resolves the :group parameter and the current user's role
// in it. A non-member gets rbac.RoleNone, never an error.
func (s *Service) viewerMembership(c *fiber.Ctx, userID uint64) (*group.View, error) {
	groupID, err := s.rbacSvc.ResolveGroupID(c.Params("group"))
	if err != nil {
		return nil, err
	}

	return group.GetForUser(s.db, groupID, userID)
}

func (s *Service) notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).SendString("Group not found")
}

func (s *Service) internalError(c *fiber.Ctx, err error, msg string) error {
	log.Error().Err(err).Msg(msg)

	return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
}

func (s *Service) isGroupNotFound(err error) bool {
	return errors.Is(err, rbac.ErrGroupNotFound) || errors.Is(err, group.ErrGroupNotFound)
}
