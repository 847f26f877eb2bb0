package syncer

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/teesheet-sync/internal/lottery"
	"github.com/pfrederiksen/teesheet-sync/internal/models"
	"github.com/pfrederiksen/teesheet-sync/internal/store/memory"
	"github.com/rs/zerolog"
)

var saturday = time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)

func TestWriter_SyncIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	w := NewWriter(st, zerolog.Nop())
	win := lottery.Win{TeeTime: "8:10 am", GroupID: "group-b", InvitationID: "inv-1", WonByName: "Jane Roe"}

	first, err := w.Sync(ctx, win.GroupID, "weekend-1", saturday, win)
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	second, err := w.Sync(ctx, win.GroupID, "weekend-1", saturday, win)
	if err != nil {
		t.Fatalf("second Sync() error = %v", err)
	}

	rows := st.TeeTimes()
	if len(rows) != 1 {
		t.Fatalf("store has %d tee times, want 1", len(rows))
	}
	if first.ID != second.ID {
		t.Errorf("Sync() ids differ: %s vs %s", first.ID, second.ID)
	}

	got := rows[0]
	if got.TeeTime != "08:10:00" || got.GroupID != "group-b" || got.WeekendID != "weekend-1" || got.MaxPlayers != DefaultMaxPlayers {
		t.Errorf("stored tee time = %+v", got)
	}
	if !got.TeeDate.Equal(saturday) {
		t.Errorf("TeeDate = %s, want %s", got.TeeDate, saturday)
	}
}

func TestWriter_SyncWarnsOnFallback(t *testing.T) {
	var buf bytes.Buffer
	st := memory.New()
	w := NewWriter(st, zerolog.New(&buf))

	tt, err := w.Sync(context.Background(), "g1", "w1", saturday, lottery.Win{TeeTime: "Shotgun"})
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	if tt.TeeTime != "00:00:00" {
		t.Errorf("TeeTime = %q, want midnight fallback", tt.TeeTime)
	}
	if !strings.Contains(buf.String(), "Unparseable tee time label") {
		t.Errorf("expected a fallback warning, got %q", buf.String())
	}
}

func TestWriter_AuditAlwaysAppends(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	w := NewWriter(st, zerolog.Nop())

	if err := w.Audit(ctx, "club-1", saturday, nil); err != nil {
		t.Fatalf("Audit(nil) error = %v", err)
	}
	slots := []models.Slot{{TeeTime: "8:00 am", Golfers: []string{"Visitor"}}}
	if err := w.Audit(ctx, "club-1", saturday, slots); err != nil {
		t.Fatalf("Audit() error = %v", err)
	}

	sheets := st.TeeSheets()
	if len(sheets) != 2 {
		t.Fatalf("store has %d tee sheets, want 2", len(sheets))
	}
	if sheets[0].RawData == nil || len(sheets[0].RawData) != 0 {
		t.Errorf("empty audit RawData = %#v, want empty slice", sheets[0].RawData)
	}
	if sheets[1].ClubID != "club-1" || len(sheets[1].RawData) != 1 {
		t.Errorf("audit record = %+v", sheets[1])
	}
}

type brokenStore struct{}

func (brokenStore) UpsertTeeTime(ctx context.Context, tt *models.TeeTime) error {
	return errors.New("disk full")
}

func (brokenStore) InsertTeeSheet(ctx context.Context, rec *models.TeeSheetRecord) error {
	return errors.New("disk full")
}

func TestWriter_PropagatesStoreErrors(t *testing.T) {
	w := NewWriter(brokenStore{}, zerolog.Nop())

	if _, err := w.Sync(context.Background(), "g1", "w1", saturday, lottery.Win{TeeTime: "8:00 am"}); err == nil {
		t.Error("Sync() error = nil, want store error")
	}
	if err := w.Audit(context.Background(), "club-1", saturday, nil); err == nil {
		t.Error("Audit() error = nil, want store error")
	}
}
