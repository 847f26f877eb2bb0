// Package syncer writes lottery wins and raw tee sheets to the store.
package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/pfrederiksen/teesheet-sync/internal/lottery"
	"github.com/pfrederiksen/teesheet-sync/internal/models"
	"github.com/pfrederiksen/teesheet-sync/internal/store"
	"github.com/pfrederiksen/teesheet-sync/internal/teesheet"
	"github.com/rs/zerolog"
)

// DefaultMaxPlayers is the capacity given to every synced tee time
const DefaultMaxPlayers = 4

// Store is the subset of store.Store the writer needs
type Store interface {
	store.TeeTimeStore
	store.TeeSheetStore
}

// Writer persists tee times idempotently and tee sheets append-only
type Writer struct {
	store  Store
	logger zerolog.Logger
}

// NewWriter creates a Writer
func NewWriter(st Store, logger zerolog.Logger) *Writer {
	return &Writer{store: st, logger: logger}
}

// Sync makes the won tee time available to groupID. Calling it again with
// the same win leaves a single row.
func (w *Writer) Sync(ctx context.Context, groupID, weekendID string, date time.Time, win lottery.Win) (*models.TeeTime, error) {
	clock, ok := teesheet.ParseClock(win.TeeTime)
	if !ok {
		w.logger.Warn().
			Str("tee_time", win.TeeTime).
			Str("group_id", groupID).
			Msg("Unparseable tee time label, storing as midnight")
	}

	tt := &models.TeeTime{
		WeekendID:  weekendID,
		TeeDate:    store.DateOnly(date),
		TeeTime:    clock,
		GroupID:    groupID,
		MaxPlayers: DefaultMaxPlayers,
	}

	if err := w.store.UpsertTeeTime(ctx, tt); err != nil {
		return nil, fmt.Errorf("upserting tee time %s %s: %w", tt.TeeDate.Format(models.DateLayout), clock, err)
	}

	return tt, nil
}

// Audit appends the raw tee sheet for the day, whether or not anything matched
func (w *Writer) Audit(ctx context.Context, clubID string, date time.Time, slots []models.Slot) error {
	if slots == nil {
		slots = []models.Slot{}
	}

	rec := &models.TeeSheetRecord{
		ClubID:      clubID,
		ScrapedDate: store.DateOnly(date),
		RawData:     slots,
		CreatedAt:   time.Now().UTC(),
	}

	if err := w.store.InsertTeeSheet(ctx, rec); err != nil {
		return fmt.Errorf("storing raw tee sheet %s: %w", rec.ScrapedDate.Format(models.DateLayout), err)
	}

	return nil
}
