package navigator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pfrederiksen/teesheet-sync/internal/models"
)

// Dir serves tee sheets saved as <dir>/<YYYY-MM-DD>.html, for replaying
// captured snapshots
type Dir struct {
	path string
	now  func() time.Time

	selected string
	markup   string
}

// NewDir creates a Dir navigator rooted at path
func NewDir(path string) *Dir {
	return &Dir{path: path, now: time.Now}
}

// Open checks that the snapshot directory exists
func (d *Dir) Open(ctx context.Context) error {
	info, err := os.Stat(d.path)
	if err != nil {
		return fmt.Errorf("opening snapshot directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("snapshot path %s is not a directory", d.path)
	}
	return nil
}

// SelectDay loads the snapshot for the next occurrence of weekday
func (d *Dir) SelectDay(ctx context.Context, weekday time.Weekday) (string, error) {
	date := NextWeekday(d.now(), weekday).Format(models.DateLayout)

	data, err := os.ReadFile(filepath.Join(d.path, date+".html"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: no snapshot for %s %s", ErrDayNotFound, weekday, date)
		}
		return "", fmt.Errorf("reading snapshot: %w", err)
	}

	d.selected = date
	d.markup = string(data)
	return date, nil
}

// Markup returns the loaded snapshot
func (d *Dir) Markup(ctx context.Context) (string, error) {
	if d.selected == "" {
		return "", fmt.Errorf("no day selected")
	}
	return d.markup, nil
}

// Close forgets the loaded snapshot
func (d *Dir) Close() error {
	d.selected = ""
	d.markup = ""
	return nil
}
