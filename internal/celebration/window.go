// Package celebration decides when the birthday banner is active.
// The window is a cosmetic surface only; nothing here is consulted for
// authorization decisions.
package celebration

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// Window is a yearly recurring date with a symmetric day window around it.
type Window struct {
	Month time.Month
	Day   int
	// HalfWidthDays is the number of days the window extends on each side.
	HalfWidthDays int
}

// NewWindow builds a Window from an "MM-DD" date string and a half-width.
func NewWindow(date string, halfWidthDays int) (Window, error) {
	var month, day int

	if _, err := fmt.Sscanf(date, "%d-%d", &month, &day); err != nil {
		return Window{}, errors.Wrapf(err, "invalid celebration date %q, want MM-DD", date)
	}

	if month < 1 || month > 12 || day < 1 || day > 31 {
		return Window{}, errors.Errorf("invalid celebration date %q, want MM-DD", date)
	}

	return Window{
		Month:         time.Month(month),
		Day:           day,
		HalfWidthDays: halfWidthDays,
	}, nil
}

// For builds a Window around a user's stored birthday.
func For(month, day, halfWidthDays int) Window {
	return Window{
		Month:         time.Month(month),
		Day:           day,
		HalfWidthDays: halfWidthDays,
	}
}

// Active reports whether now falls inside the window. The anniversary is
// checked in the previous, current and next year so windows spanning a year
// boundary (late December into early January) work.
func (w Window) Active(now time.Time) bool {
	if w.Month == 0 || w.Day == 0 {
		return false
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	halfWidth := time.Duration(w.HalfWidthDays) * 24 * time.Hour

	for _, year := range []int{now.Year() - 1, now.Year(), now.Year() + 1} {
		anniversary := time.Date(year, w.Month, w.Day, 0, 0, 0, 0, time.UTC)

		diff := today.Sub(anniversary)
		if diff < 0 {
			diff = -diff
		}

		if diff <= halfWidth {
			return true
		}
	}

	return false
}
