package rating

import (
	"testing"
	"time"

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

	err = db.AutoMigrate(&models.User{}, &models.Group{}, &models.GroupMember{}, &models.Rating{})
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func seed(t *testing.T, db *gorm.DB) (*models.User, *models.Group) {
	t.Helper()

	u := &models.User{Active: true, Username: "larik", Email: "larik@example.com"}
	require.NoError(t, db.Create(u).Error)

	g := &models.Group{PublicID: "pub-1", Name: "The Crew", InviteCode: "code1", CreatedBy: u.ID}
	require.NoError(t, db.Create(g).Error)

	return u, g
}

func TestDay(t *testing.T) {
	ts := time.Date(2025, time.March, 7, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-07", Day(ts))
}

func TestUpsert_ReplacesSameDay(t *testing.T) {
	db := setupTestDB(t)
	u, g := seed(t, db)
	day := "2025-03-07"

	require.NoError(t, Upsert(db, g.ID, u.ID, day, 4, "meh"))
	require.NoError(t, Upsert(db, g.ID, u.ID, day, 9, "turned around"))

	entries, err := ListForDay(db, g.ID, day)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 9, entries[0].Score)
	assert.Equal(t, "turned around", entries[0].Note)
}

func TestUpsert_ScoreValidation(t *testing.T) {
	db := setupTestDB(t)
	u, g := seed(t, db)

	assert.ErrorIs(t, Upsert(db, g.ID, u.ID, "2025-03-07", 0, ""), ErrScoreOutOfRange)
	assert.ErrorIs(t, Upsert(db, g.ID, u.ID, "2025-03-07", 11, ""), ErrScoreOutOfRange)
	assert.NoError(t, Upsert(db, g.ID, u.ID, "2025-03-07", 1, ""))
	assert.NoError(t, Upsert(db, g.ID, u.ID, "2025-03-07", 10, ""))
}

func TestListForDay_SeparateDays(t *testing.T) {
	db := setupTestDB(t)
	u, g := seed(t, db)

	require.NoError(t, Upsert(db, g.ID, u.ID, "2025-03-07", 5, ""))
	require.NoError(t, Upsert(db, g.ID, u.ID, "2025-03-08", 8, ""))

	entries, err := ListForDay(db, g.ID, "2025-03-07")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 5, entries[0].Score)
}

func TestGroupAverage(t *testing.T) {
	db := setupTestDB(t)
	u, g := seed(t, db)

	other := &models.User{Active: true, Username: "friend", Email: "friend@example.com"}
	require.NoError(t, db.Create(other).Error)

	_, ok, err := GroupAverage(db, g.ID, "2025-03-07")
	require.NoError(t, err)
	assert.False(t, ok, "no ratings yet")

	require.NoError(t, Upsert(db, g.ID, u.ID, "2025-03-07", 4, ""))
	require.NoError(t, Upsert(db, g.ID, other.ID, "2025-03-07", 8, ""))

	avg, ok, err := GroupAverage(db, g.ID, "2025-03-07")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.InDelta(t, 6.0, avg, 0.001)

	// a day nobody rated stays empty even once the group has history
	_, ok, err = GroupAverage(db, g.ID, "2030-01-01")
	require.NoError(t, err)
	assert.False(t, ok)
}
