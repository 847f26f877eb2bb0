package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pfrederiksen/teesheet-sync/internal/lottery"
	"github.com/pfrederiksen/teesheet-sync/internal/models"
)

func TestSaveAndLoadDay(t *testing.T) {
	tmpDir := t.TempDir()

	storage, err := New(tmpDir)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	snapshot := &DaySnapshot{
		ClubID:    "club-1",
		Date:      "2026-10-17",
		WeekendID: "weekend-1",
		Slots: []models.Slot{
			{TeeTime: "8:00 am", Golfers: []string{"Mike Johnson", "Other Golfer"}},
		},
		Wins: []lottery.Win{
			{TeeTime: "8:00 am", GroupID: "group-a", UserID: "user-mike", WonByName: "Mike Johnson"},
		},
	}

	if err := storage.SaveDay(snapshot); err != nil {
		t.Fatalf("SaveDay() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(tmpDir, "club-1", "teesheet_2026-10-17.json")); err != nil {
		t.Fatalf("archive file not written: %v", err)
	}

	got, err := storage.LoadDay("club-1", "2026-10-17")
	if err != nil {
		t.Fatalf("LoadDay() error = %v", err)
	}
	if got.WeekendID != "weekend-1" || len(got.Slots) != 1 || len(got.Wins) != 1 {
		t.Errorf("LoadDay() = %+v", got)
	}
	if got.Wins[0].WonByName != "Mike Johnson" {
		t.Errorf("Wins[0].WonByName = %q", got.Wins[0].WonByName)
	}
	if got.SavedAt == "" {
		t.Error("SavedAt not set")
	}
}

func TestSaveDay_EmptyDay(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	if err := storage.SaveDay(&DaySnapshot{ClubID: "club-1", Date: "2026-10-18"}); err != nil {
		t.Fatalf("SaveDay() error = %v", err)
	}

	got, err := storage.LoadDay("club-1", "2026-10-18")
	if err != nil {
		t.Fatalf("LoadDay() error = %v", err)
	}
	if got.Slots == nil || got.Wins == nil {
		t.Errorf("empty day should round-trip as empty slices, got %+v", got)
	}
}

func TestSaveDay_RequiresKey(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	if err := storage.SaveDay(&DaySnapshot{Date: "2026-10-18"}); err == nil {
		t.Error("SaveDay() without club id should fail")
	}
}

func TestLoadDay_Missing(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	_, err = storage.LoadDay("club-1", "2026-10-17")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadDay() error = %v, want os.ErrNotExist", err)
	}
}

func TestNew_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if _, err := New("~/archive"); err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(home, "archive")); err != nil {
		t.Errorf("expanded directory not created: %v", err)
	}
}
