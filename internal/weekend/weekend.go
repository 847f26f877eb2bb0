// Package weekend buckets tee dates into Saturday-Sunday weekends.
package weekend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pfrederiksen/teesheet-sync/internal/models"
	"github.com/pfrederiksen/teesheet-sync/internal/store"
)

// Bucket returns the Saturday and Sunday of the weekend date belongs to.
// Weekdays map to the weekend that precedes them, so Monday through Friday
// belong to the weekend before, and Saturday starts a new bucket.
func Bucket(date time.Time) (saturday, sunday time.Time) {
	date = store.DateOnly(date)

	isoWeekday := (int(date.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	daysSinceSaturday := (isoWeekday + 2) % 7

	saturday = date.AddDate(0, 0, -daysSinceSaturday)
	sunday = saturday.AddDate(0, 0, 1)
	return saturday, sunday
}

// Resolver finds or creates weekend rows. It assumes it is the only writer.
type Resolver struct {
	store store.WeekendStore
}

// NewResolver creates a Resolver backed by st
func NewResolver(st store.WeekendStore) *Resolver {
	return &Resolver{store: st}
}

// Resolve returns the weekend containing date, creating it if needed
func (r *Resolver) Resolve(ctx context.Context, date time.Time) (*models.Weekend, error) {
	saturday, sunday := Bucket(date)
	return r.GetOrCreate(ctx, saturday, sunday)
}

// GetOrCreate returns the weekend with exactly these dates, inserting it
// when it does not exist yet
func (r *Resolver) GetOrCreate(ctx context.Context, start, end time.Time) (*models.Weekend, error) {
	start, end = store.DateOnly(start), store.DateOnly(end)

	wk, err := r.store.FindWeekend(ctx, start, end)
	if err == nil {
		return wk, nil
	}
	if !errors.Is(err, store.ErrWeekendNotFound) {
		return nil, fmt.Errorf("finding weekend %s: %w", start.Format(models.DateLayout), err)
	}

	wk, err = r.store.CreateWeekend(ctx, start, end)
	if errors.Is(err, store.ErrWeekendExists) {
		wk, err = r.store.FindWeekend(ctx, start, end)
	}
	if err != nil {
		return nil, fmt.Errorf("creating weekend %s: %w", start.Format(models.DateLayout), err)
	}

	return wk, nil
}
