package models

import "time"

// Group represents a private rating group.
// A group has an invite code members use to join, and a stable public id
// used in URLs so internal database ids never leak into links.
type Group struct {
	// ID is the unique identifier for the group.
	ID uint `gorm:"primaryKey"`
	// PublicID is the stable UUID used in URLs and external references.
	PublicID string `gorm:"size:36;uniqueIndex;not null"`
	// Name is the display name of the group.
	Name string `gorm:"size:100;not null"`
	// Description provides a human-readable explanation of the group's purpose.
	Description string `gorm:"size:255"`
	// InviteCode is the short code users enter to join the group.
	InviteCode string `gorm:"size:16;uniqueIndex;not null"`
	// CreatedBy is the ID of the user who created the group.
	CreatedBy uint64 `gorm:"not null"`
	// CreatedAt is the timestamp when the group was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the group was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Group model.
// This overrides GORM's default pluralized table naming.
func (Group) TableName() string {
	return "groups"
}
