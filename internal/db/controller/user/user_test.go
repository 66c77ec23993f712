package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/larik-22/howufeelin/internal/db/models"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(&models.User{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func seedUser(t *testing.T, db *gorm.DB, username, email string) *models.User {
	t.Helper()

	u := &models.User{
		Active:   true,
		Username: username,
		Email:    email,
	}
	require.NoError(t, db.Create(u).Error, "failed to seed test user")

	return u
}

func TestGet(t *testing.T) {
	db := setupTestDB(t)
	seeded := seedUser(t, db, "larik", "larik@example.com")

	got, err := Get(db, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "larik", got.Username)

	_, err = Get(db, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = Get(nil, seeded.ID)
	assert.ErrorIs(t, err, ErrDBNil)
}

func TestGetByUsername(t *testing.T) {
	db := setupTestDB(t)
	seedUser(t, db, "larik", "larik@example.com")

	got, err := GetByUsername(db, "larik")
	require.NoError(t, err)
	assert.Equal(t, "larik@example.com", got.Email)

	_, err = GetByUsername(db, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = GetByUsername(db, "")
	assert.ErrorIs(t, err, ErrUsernameEmpty)
}

func TestUpdate_MergeSemantics(t *testing.T) {
	db := setupTestDB(t)
	seeded := seedUser(t, db, "larik", "larik@example.com")

	err := Update(db, seeded.ID, map[string]interface{}{
		"display_name": "Larik",
	})
	require.NoError(t, err)

	got, err := Get(db, seeded.ID)
	require.NoError(t, err)

	// updated field written, untouched fields keep their stored values
	assert.Equal(t, "Larik", got.DisplayName)
	assert.Equal(t, "larik", got.Username)
	assert.Equal(t, "larik@example.com", got.Email)
}

func TestUpdate_EmptyIsNoOp(t *testing.T) {
	db := setupTestDB(t)
	seeded := seedUser(t, db, "larik", "larik@example.com")

	require.NoError(t, Update(db, seeded.ID, map[string]interface{}{}))
}

func TestUpdate_MissingUser(t *testing.T) {
	db := setupTestDB(t)

	err := Update(db, 4242, map[string]interface{}{"display_name": "x"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestIsUsernameTaken(t *testing.T) {
	db := setupTestDB(t)
	seeded := seedUser(t, db, "Larik", "larik@example.com")

	testCases := []struct {
		name      string
		username  string
		excludeID []uint64
		want      bool
	}{
		{name: "exact match", username: "Larik", want: true},
		{name: "case-insensitive match", username: "larik", want: true},
		{name: "case-insensitive match upper", username: "LARIK", want: true},
		{name: "free username", username: "someoneelse", want: false},
		{name: "own username excluded", username: "larik", excludeID: []uint64{seeded.ID}, want: false},
		{name: "excluding someone else still taken", username: "larik", excludeID: []uint64{seeded.ID + 1}, want: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := IsUsernameTaken(db, tc.username, tc.excludeID...)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIsUsernameTaken_Validation(t *testing.T) {
	db := setupTestDB(t)

	_, err := IsUsernameTaken(db, "")
	assert.ErrorIs(t, err, ErrUsernameEmpty)

	_, err = IsUsernameTaken(nil, "larik")
	assert.ErrorIs(t, err, ErrDBNil)
}
