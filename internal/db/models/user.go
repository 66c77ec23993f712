// Package models contains database model definitions.
package models

import (
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/rs/zerolog/log"
)

// User represents a user account in the system.
// Users authenticate with a local password and may link a Spotify profile.
// Their standing inside a group comes from the GroupMember junction, never
// from the account itself.
type User struct {
	// ID is the unique identifier for the user.
	ID uint64 `gorm:"primaryKey"`
	// Active indicates whether the user account is active and can log in.
	Active bool
	// Username is the unique username for login.
	Username string `gorm:"unique;size:100;not null"`
	// Email is the user's email address.
	Email string `gorm:"size:255;not null"`
	// Password is the Argon2id hashed password.
	Password string `gorm:"size:255"`
	// DisplayName is the name shown to other group members.
	DisplayName string `gorm:"size:100"`
	// AvatarURL is an optional link to the user's avatar image.
	AvatarURL string `gorm:"size:512"`
	// BirthdayMonth and BirthdayDay are the user's birthday (0 = not set).
	BirthdayMonth int
	BirthdayDay   int
	// SpotifyID is the linked Spotify account identifier (empty if not linked).
	SpotifyID string `gorm:"size:255"`
	// SpotifyDisplayName is the display name of the linked Spotify profile.
	SpotifyDisplayName string `gorm:"size:255"`
	// SpotifyRefreshToken is the OAuth2 refresh token for the linked account.
	SpotifyRefreshToken string `gorm:"size:512"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
	// DeletedAt is the soft delete timestamp (nil if not deleted, managed by GORM).
	DeletedAt *time.Time
}

// HashPassword hashes a plaintext password using the Argon2id algorithm.
// This function should be used when creating or updating user passwords.
// It uses the default Argon2id parameters for secure password hashing.
func HashPassword(password string) string {
	hashedPassword, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		log.Fatal().Msgf("failed to hash password: %v", err)
	}

	return hashedPassword
}

// VerifyPassword verifies a plaintext password against the user's stored hashed password.
// It uses constant-time comparison to prevent timing attacks.
// Returns true if the password matches, false otherwise.
func (u *User) VerifyPassword(password string) bool {
	match, err := argon2id.ComparePasswordAndHash(password, u.Password)
	if err != nil {
		log.Error().Msgf("failed to verify password: %v", err)
		return false
	}

	return match
}
