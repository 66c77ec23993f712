// Package group provides persistence operations for groups and their memberships.
package group

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/larik-22/howufeelin/internal/db/models"
	"github.com/larik-22/howufeelin/internal/rbac"
	"github.com/larik-22/howufeelin/internal/uniuri"
)

var (
	// ErrGroupNotFound is returned when a group is not found.
	ErrGroupNotFound = errors.New("group not found")
	// ErrMemberNotFound is returned when a user has no membership in the group.
	ErrMemberNotFound = errors.New("group member not found")
	// ErrAlreadyMember is returned when adding a user who is already a member.
	ErrAlreadyMember = errors.New("user is already a member of this group")
	// ErrGroupNameEmpty is returned when creating a group with an empty name.
	ErrGroupNameEmpty = errors.New("group name cannot be empty")
	// ErrNotAdmin is returned when an admin-only transfer starts from a non-admin.
	ErrNotAdmin = errors.New("user is not the group admin")
	// ErrAdminImmutable is returned when a role update targets the group admin.
	ErrAdminImmutable = errors.New("the admin role can only change through a transfer")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// View is a group together with the viewer's role in it.
// The role is only meaningful for the user it was resolved for.
type View struct {
	models.Group
	ViewerRole rbac.Role
}

// MemberView is the read-only display projection of a group member.
type MemberView struct {
	UserID    uint64
	Name      string
	Role      rbac.Role
	AvatarURL string
}

// Create creates a new group and makes the creator its admin.
func Create(db *gorm.DB, name, description string, creatorID uint64) (*models.Group, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if name == "" {
		return nil, ErrGroupNameEmpty
	}

	grp := &models.Group{
		PublicID:    uuid.NewString(),
		Name:        name,
		Description: description,
		InviteCode:  uniuri.NewInviteCode(),
		CreatedBy:   creatorID,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(grp).Error; err != nil {
			return err
		}

		return tx.Create(&models.GroupMember{
			UserID:  creatorID,
			GroupID: grp.ID,
			Role:    string(rbac.RoleAdmin),
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return grp, nil
}

// GetByPublicID retrieves a group by its public UUID.
func GetByPublicID(db *gorm.DB, publicID string) (*models.Group, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var grp models.Group
	result := db.Where("public_id = ?", publicID).First(&grp)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, result.Error
	}

	return &grp, nil
}

// GetByInviteCode retrieves a group by its invite code.
func GetByInviteCode(db *gorm.DB, code string) (*models.Group, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var grp models.Group
	result := db.Where("invite_code = ?", code).First(&grp)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, result.Error
	}

	return &grp, nil
}

// GetForUser retrieves a group together with the viewer's role in it.
// A viewer without a membership gets the group with rbac.RoleNone.
func GetForUser(db *gorm.DB, groupID uint, userID uint64) (*View, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var grp models.Group
	result := db.First(&grp, groupID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, result.Error
	}

	var member models.GroupMember
	result = db.Where("group_id = ? AND user_id = ?", groupID, userID).First(&member)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return &View{Group: grp, ViewerRole: rbac.RoleNone}, nil
		}
		return nil, result.Error
	}

	return &View{Group: grp, ViewerRole: rbac.ParseRole(member.Role)}, nil
}

// ListForUser retrieves all groups a user belongs to, with their role in each.
func ListForUser(db *gorm.DB, userID uint64) ([]View, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var rows []struct {
		models.Group
		Role string
	}

	err := db.Table("groups").
		Select("groups.*, group_members.role").
		Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.user_id = ?", userID).
		Order("groups.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	views := make([]View, 0, len(rows))
	for _, row := range rows {
		views = append(views, View{Group: row.Group, ViewerRole: rbac.ParseRole(row.Role)})
	}

	return views, nil
}

// Update changes the group's name and description.
func Update(db *gorm.DB, groupID uint, name, description string) error {
	if db == nil {
		return ErrDBNil
	}
	if name == "" {
		return ErrGroupNameEmpty
	}

	result := db.Model(&models.Group{}).
		Where("id = ?", groupID).
		Updates(map[string]interface{}{
			"name":        name,
			"description": description,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrGroupNotFound
	}

	return nil
}

// Members retrieves the display projection of a group's member list.
func Members(db *gorm.DB, groupID uint) ([]MemberView, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var rows []struct {
		UserID      uint64
		Username    string
		DisplayName string
		AvatarURL   string
		Role        string
	}

	err := db.Table("group_members").
		Select("users.id AS user_id, users.username, users.display_name, users.avatar_url, group_members.role").
		Joins("JOIN users ON users.id = group_members.user_id").
		Where("group_members.group_id = ?", groupID).
		Order("users.username ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	members := make([]MemberView, 0, len(rows))
	for _, row := range rows {
		name := row.DisplayName
		if name == "" {
			name = row.Username
		}

		members = append(members, MemberView{
			UserID:    row.UserID,
			Name:      name,
			Role:      rbac.ParseRole(row.Role),
			AvatarURL: row.AvatarURL,
		})
	}

	return members, nil
}

// AddMember adds a user to a group with the given role.
func AddMember(db *gorm.DB, groupID uint, userID uint64, role rbac.Role) error {
	if db == nil {
		return ErrDBNil
	}

	var count int64
	if err := db.Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		return ErrAlreadyMember
	}

	return db.Create(&models.GroupMember{
		UserID:  userID,
		GroupID: groupID,
		Role:    string(role),
	}).Error
}

// UpdateMemberRole changes a member's role within a group. The admin's row is
// never touched here: demoting the admin would leave the group without one, so
// the admin role only moves through TransferAdmin.
func UpdateMemberRole(db *gorm.DB, groupID uint, userID uint64, role rbac.Role) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var member models.GroupMember
		if err := tx.Where("group_id = ? AND user_id = ?", groupID, userID).
			First(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMemberNotFound
			}
			return err
		}

		if rbac.ParseRole(member.Role) == rbac.RoleAdmin {
			return ErrAdminImmutable
		}

		return tx.Model(&models.GroupMember{}).
			Where("group_id = ? AND user_id = ?", groupID, userID).
			Update("role", string(role)).Error
	})
}

// RemoveMember removes a user's membership from a group.
// The caller is responsible for the admin-cannot-leave precondition; this
// operation removes whatever membership row exists.
func RemoveMember(db *gorm.DB, groupID uint, userID uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Where("group_id = ? AND user_id = ?", groupID, userID).
		Delete(&models.GroupMember{})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}

	return nil
}

// TransferAdmin hands the admin role from one member to another in a single
// transaction. The outgoing admin becomes a regular member; afterwards they
// are free to leave the group.
func TransferAdmin(db *gorm.DB, groupID uint, fromUserID, toUserID uint64) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var from models.GroupMember
		if err := tx.Where("group_id = ? AND user_id = ?", groupID, fromUserID).
			First(&from).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMemberNotFound
			}
			return err
		}

		if rbac.ParseRole(from.Role) != rbac.RoleAdmin {
			return ErrNotAdmin
		}

		var to models.GroupMember
		if err := tx.Where("group_id = ? AND user_id = ?", groupID, toUserID).
			First(&to).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMemberNotFound
			}
			return err
		}

		if err := tx.Model(&models.GroupMember{}).
			Where("group_id = ? AND user_id = ?", groupID, toUserID).
			Update("role", string(rbac.RoleAdmin)).Error; err != nil {
			return err
		}

		return tx.Model(&models.GroupMember{}).
			Where("group_id = ? AND user_id = ?", groupID, fromUserID).
			Update("role", string(rbac.RoleMember)).Error
	})
}
