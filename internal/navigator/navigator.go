// Package navigator brings a club's tee sheet to a given day.
//
// A Navigator is a run-scoped resource: Open it once, select each day of
// interest, read the rendered markup, and Close it on every exit path.
package navigator

import (
	"context"
	"errors"
	"time"

	"github.com/pfrederiksen/teesheet-sync/internal/store"
)

// ErrDayNotFound means the tee sheet cannot be positioned on the requested day
var ErrDayNotFound = errors.New("tee sheet day not found")

// Navigator positions a tee sheet and returns its rendered markup
type Navigator interface {
	// Open authenticates and reaches the tee sheet.
	Open(ctx context.Context) error

	// SelectDay moves the sheet to the next occurrence of weekday and
	// returns the resolved date as YYYY-MM-DD.
	SelectDay(ctx context.Context, weekday time.Weekday) (string, error)

	// Markup returns the markup of the currently selected day.
	Markup(ctx context.Context) (string, error)

	// Close releases the navigation resource.
	Close() error
}

// NextWeekday returns the next occurrence of weekday strictly after today.
// Asking for today's weekday yields the date one week out.
func NextWeekday(today time.Time, weekday time.Weekday) time.Time {
	today = store.DateOnly(today)
	daysAhead := int(weekday) - int(today.Weekday())
	if daysAhead <= 0 {
		daysAhead += 7
	}
	return today.AddDate(0, 0, daysAhead)
}
