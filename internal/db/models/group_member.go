package models

import "time"

// GroupMember represents the many-to-many relationship between users and groups.
// The Role column holds the member's standing within that one group ("admin",
// "moderator" or "member"); it is parsed into the rbac vocabulary at the edges
// and is meaningful only in the context of its group.
type GroupMember struct {
	// UserID is the ID of the user in this membership.
	UserID uint64 `gorm:"primaryKey;column:user_id"`
	// GroupID is the ID of the group in this membership.
	GroupID uint `gorm:"primaryKey;column:group_id"`
	// Role is the member's role within the group.
	Role string `gorm:"size:20;not null;default:'member'"`
	// User is the associated user (loaded via foreign key).
	// When a user is deleted, all their group memberships are automatically removed (CASCADE).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// Group is the associated group (loaded via foreign key).
	// When a group is deleted, all memberships in that group are automatically removed (CASCADE).
	Group Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the user joined the group (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the membership was last changed (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the GroupMember model.
// This overrides GORM's default pluralized table naming.
func (GroupMember) TableName() string {
	return "group_members"
}
