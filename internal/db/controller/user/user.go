// Package user provides persistence operations for user accounts.
package user

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/larik-22/howufeelin/internal/db/models"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameEmpty is returned when a username is required but empty.
	ErrUsernameEmpty = errors.New("username cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Get retrieves a user by ID.
func Get(db *gorm.DB, id uint64) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var user models.User
	result := db.First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}

	return &user, nil
}

// GetByUsername retrieves a user by their exact username.
func GetByUsername(db *gorm.DB, username string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}
	if username == "" {
		return nil, ErrUsernameEmpty
	}

	var user models.User
	result := db.Where("username = ?", username).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}

	return &user, nil
}

// Create creates a new user in the database.
func Create(db *gorm.DB, user *models.User) error {
	if db == nil {
		return ErrDBNil
	}
	if user.Username == "" {
		return ErrUsernameEmpty
	}

	return db.Create(user).Error
}

// Update applies a partial update to a user. Only the fields present in the
// updates map are written; everything else keeps its stored value (merge
// semantics). An empty map is a no-op.
func Update(db *gorm.DB, id uint64, updates map[string]interface{}) error {
	if db == nil {
		return ErrDBNil
	}
	if len(updates) == 0 {
		return nil
	}

	result := db.Model(&models.User{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// IsUsernameTaken checks whether a username is already in use. The comparison
// is case-insensitive (usernames are normalized to lowercase before
// comparing). When excludeID is supplied, a match against that same user
// counts as "not taken" so a user can keep their own username during an edit.
func IsUsernameTaken(db *gorm.DB, username string, excludeID ...uint64) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}
	if username == "" {
		return false, ErrUsernameEmpty
	}

	query := db.Model(&models.User{}).
		Where("LOWER(username) = ?", strings.ToLower(username))

	if len(excludeID) > 0 && excludeID[0] != 0 {
		query = query.Where("id <> ?", excludeID[0])
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}
