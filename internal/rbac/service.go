package rbac

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Service provides group authorization lookups backed by the database.
// The permission decision itself stays in the pure evaluator; the service
// only resolves the viewer's role for a group.
type Service struct {
	db *gorm.DB
}

// NewService creates a new rbac service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ViewerRole resolves the role a user holds in a group.
// A user without a membership row resolves to RoleNone, which denies
// everything in the evaluator; that is an expected outcome, not an error.
func (s *Service) ViewerRole(groupID uint, userID uint64) (Role, error) {
	var roles []string

	err := s.db.Table("group_members").
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Limit(1).
		Pluck("role", &roles).Error
	if err != nil {
		return RoleNone, errors.Wrap(err, "failed to resolve viewer role")
	}

	if len(roles) == 0 {
		return RoleNone, nil
	}

	return ParseRole(roles[0]), nil
}

// HasGroupPermission checks if a user holds a permission within a group.
func (s *Service) HasGroupPermission(groupID uint, userID uint64, perm Permission) (bool, error) {
	role, err := s.ViewerRole(groupID, userID)
	if err != nil {
		return false, err
	}

	return HasPermission(role, perm), nil
}

// ResolveGroupID translates a group's public UUID into its database id.
// Returns ErrGroupNotFound when no group carries that public id.
func (s *Service) ResolveGroupID(publicID string) (uint, error) {
	var ids []uint

	err := s.db.Table("groups").
		Where("public_id = ?", publicID).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to resolve group id")
	}

	if len(ids) == 0 {
		return 0, ErrGroupNotFound
	}

	return ids[0], nil
}
