package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/teesheet-sync/internal/lottery"
	"github.com/pfrederiksen/teesheet-sync/internal/models"
)

// DaySnapshot is one archived tee sheet day
type DaySnapshot struct {
	ClubID    string        `json:"club_id"`
	Date      string        `json:"date"`
	WeekendID string        `json:"weekend_id,omitempty"`
	Slots     []models.Slot `json:"slots"`
	Wins      []lottery.Win `json:"wins"`
	SavedAt   string        `json:"saved_at"` // RFC3339 timestamp
}

// Storage handles the archive directory
type Storage struct {
	dataDir string
}

// New creates a Storage instance, creating dataDir if needed
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// dayPath returns the path of a club's archived day
func (s *Storage) dayPath(clubID, date string) string {
	return filepath.Join(s.dataDir, clubID, fmt.Sprintf("teesheet_%s.json", date))
}

// SaveDay writes the day, replacing an earlier archive of the same date
func (s *Storage) SaveDay(snapshot *DaySnapshot) error {
	if snapshot.ClubID == "" || snapshot.Date == "" {
		return fmt.Errorf("club id and date are required")
	}

	path := s.dayPath(snapshot.ClubID, snapshot.Date)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating club directory: %w", err)
	}

	snapshot.SavedAt = time.Now().UTC().Format(time.RFC3339)
	if snapshot.Slots == nil {
		snapshot.Slots = []models.Slot{}
	}
	if snapshot.Wins == nil {
		snapshot.Wins = []lottery.Win{}
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}

	return nil
}

// LoadDay reads an archived day. A missing archive is reported with an
// error wrapping os.ErrNotExist.
func (s *Storage) LoadDay(clubID, date string) (*DaySnapshot, error) {
	data, err := os.ReadFile(s.dayPath(clubID, date))
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot DaySnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	return &snapshot, nil
}
