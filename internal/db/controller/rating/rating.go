// Package rating provides persistence operations for daily mood ratings.
package rating

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/larik-22/howufeelin/internal/db/models"
)

const (
	// MinScore is the lowest allowed mood score.
	MinScore = 1
	// MaxScore is the highest allowed mood score.
	MaxScore = 10

	dayFormat = "2006-01-02"
)

var (
	// ErrScoreOutOfRange is returned when a score is outside [MinScore, MaxScore].
	ErrScoreOutOfRange = errors.New("score must be between 1 and 10")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Day returns the calendar day stamp used for rating uniqueness.
func Day(t time.Time) string {
	return t.Format(dayFormat)
}

// Entry is the display projection of one member's rating for a day.
type Entry struct {
	UserID    uint64
	Name      string
	AvatarURL string
	Score     int
	Note      string
}

// Upsert records a user's rating in a group for the given day. Submitting a
// second rating for the same day replaces the earlier one.
func Upsert(db *gorm.DB, groupID uint, userID uint64, day string, score int, note string) error {
	if db == nil {
		return ErrDBNil
	}
	if score < MinScore || score > MaxScore {
		return ErrScoreOutOfRange
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var existing models.Rating
		err := tx.Where("group_id = ? AND user_id = ? AND day = ?", groupID, userID, day).
			First(&existing).Error

		switch {
		case err == nil:
			return tx.Model(&existing).Updates(map[string]interface{}{
				"score": score,
				"note":  note,
			}).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(&models.Rating{
				GroupID: groupID,
				UserID:  userID,
				Day:     day,
				Score:   score,
				Note:    note,
			}).Error
		default:
			return err
		}
	})
}

// ListForDay retrieves all ratings posted in a group on a given day.
func ListForDay(db *gorm.DB, groupID uint, day string) ([]Entry, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var rows []struct {
		UserID      uint64
		Username    string
		DisplayName string
		AvatarURL   string
		Score       int
		Note        string
	}

	err := db.Table("ratings").
		Select("users.id AS user_id, users.username, users.display_name, users.avatar_url, ratings.score, ratings.note").
		Joins("JOIN users ON users.id = ratings.user_id").
		Where("ratings.group_id = ? AND ratings.day = ?", groupID, day).
		Order("users.username ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		name := row.DisplayName
		if name == "" {
			name = row.Username
		}

		entries = append(entries, Entry{
			UserID:    row.UserID,
			Name:      name,
			AvatarURL: row.AvatarURL,
			Score:     row.Score,
			Note:      row.Note,
		})
	}

	return entries, nil
}

// GroupAverage returns the average score in a group for a day.
// Returns 0 with ok=false when nobody rated that day.
func GroupAverage(db *gorm.DB, groupID uint, day string) (float64, bool, error) {
	if db == nil {
		return 0, false, ErrDBNil
	}

	// AVG over zero rows yields SQL NULL, so scan through a pointer.
	var avgs []*float64
	err := db.Table("ratings").
		Where("group_id = ? AND day = ?", groupID, day).
		Pluck("AVG(score)", &avgs).Error
	if err != nil {
		return 0, false, err
	}

	if len(avgs) == 0 || avgs[0] == nil {
		return 0, false, nil
	}

	return *avgs[0], true, nil
}
