package models

import "time"

// Rating represents one user's mood rating in a group for a single day.
// The (group, user, day) combination is unique; submitting again on the same
// day replaces the earlier rating.
type Rating struct {
	// ID is the unique identifier for the rating.
	ID uint64 `gorm:"primaryKey"`
	// GroupID is the group the rating was posted in.
	GroupID uint `gorm:"not null;uniqueIndex:idx_group_user_day"`
	// UserID is the user who posted the rating.
	UserID uint64 `gorm:"not null;uniqueIndex:idx_group_user_day"`
	// Day is the calendar day of the rating in YYYY-MM-DD form.
	Day string `gorm:"size:10;not null;uniqueIndex:idx_group_user_day"`
	// Score is the mood score from 1 (worst) to 10 (best).
	Score int `gorm:"not null"`
	// Note is an optional short note attached to the rating.
	Note string `gorm:"size:255"`
	// Group is the associated group (loaded via foreign key).
	Group Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	// User is the associated user (loaded via foreign key).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the rating was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the rating was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Rating model.
// This overrides GORM's default pluralized table naming.
func (Rating) TableName() string {
	return "ratings"
}
