// Package memory implements store.Store in memory.
// Data is lost when the process exits; it backs the package tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pfrederiksen/teesheet-sync/internal/models"
	"github.com/pfrederiksen/teesheet-sync/internal/store"
)

var _ store.Store = (*Store)(nil)

type teeTimeKey struct {
	weekendID string
	teeDate   string
	teeTime   string
	groupID   string
}

type weekendKey struct {
	start string
	end   string
}

// Store holds every table in maps and slices.
// Slices keep insertion order, which stands in for storage iteration order.
type Store struct {
	mu sync.RWMutex

	clubs       map[string]*models.Club
	groups      []models.Group
	memberships []models.Membership
	invitations []models.Invitation

	weekends     map[weekendKey]*models.Weekend
	teeTimes     map[teeTimeKey]*models.TeeTime
	teeTimeOrder []teeTimeKey
	teeSheets    []models.TeeSheetRecord
}

// New creates an empty in-memory store
func New() *Store {
	return &Store{
		clubs:    make(map[string]*models.Club),
		weekends: make(map[weekendKey]*models.Weekend),
		teeTimes: make(map[teeTimeKey]*models.TeeTime),
	}
}

// AddClub registers a club and its groups
func (s *Store) AddClub(club models.Club, groups ...models.Group) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := club
	s.clubs[club.ID] = &clone
	for _, g := range groups {
		g.ClubID = club.ID
		s.groups = append(s.groups, g)
	}
}

// AddMemberships appends membership rows in the given order
func (s *Store) AddMemberships(memberships ...models.Membership) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memberships = append(s.memberships, memberships...)
}

// AddInvitations appends invitation rows in the given order
func (s *Store) AddInvitations(invitations ...models.Invitation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invitations = append(s.invitations, invitations...)
}

// GetClub retrieves a club by id
func (s *Store) GetClub(ctx context.Context, clubID string) (*models.Club, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	club, ok := s.clubs[clubID]
	if !ok {
		return nil, store.ErrClubNotFound
	}
	clone := *club
	return &clone, nil
}

// ListGroups returns the club's groups in insertion order
func (s *Store) ListGroups(ctx context.Context, clubID string) ([]models.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	groups := make([]models.Group, 0)
	for _, g := range s.groups {
		if g.ClubID == clubID {
			groups = append(groups, g)
		}
	}
	return groups, nil
}

// ListMemberships returns all memberships in insertion order
func (s *Store) ListMemberships(ctx context.Context) ([]models.Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Membership, len(s.memberships))
	copy(out, s.memberships)
	return out, nil
}

// ListPendingInvitations returns unclaimed group member invitations in insertion order
func (s *Store) ListPendingInvitations(ctx context.Context) ([]models.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Invitation, 0)
	for _, inv := range s.invitations {
		if inv.IsPendingMember() {
			out = append(out, inv)
		}
	}
	return out, nil
}

// FindWeekend looks up a weekend by exact dates
func (s *Store) FindWeekend(ctx context.Context, start, end time.Time) (*models.Weekend, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wk, ok := s.weekends[newWeekendKey(start, end)]
	if !ok {
		return nil, store.ErrWeekendNotFound
	}
	clone := *wk
	return &clone, nil
}

// CreateWeekend inserts a weekend, enforcing uniqueness on its dates
func (s *Store) CreateWeekend(ctx context.Context, start, end time.Time) (*models.Weekend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := newWeekendKey(start, end)
	if _, exists := s.weekends[key]; exists {
		return nil, store.ErrWeekendExists
	}

	wk := &models.Weekend{
		ID:        uuid.NewString(),
		StartDate: store.DateOnly(start),
		EndDate:   store.DateOnly(end),
	}
	s.weekends[key] = wk

	clone := *wk
	return &clone, nil
}

// UpsertTeeTime inserts or updates a tee time on its conflict key
func (s *Store) UpsertTeeTime(ctx context.Context, tt *models.TeeTime) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := teeTimeKey{
		weekendID: tt.WeekendID,
		teeDate:   tt.TeeDate.Format(models.DateLayout),
		teeTime:   tt.TeeTime,
		groupID:   tt.GroupID,
	}

	if existing, ok := s.teeTimes[key]; ok {
		existing.MaxPlayers = tt.MaxPlayers
		tt.ID = existing.ID
		return nil
	}

	clone := *tt
	clone.ID = uuid.NewString()
	clone.TeeDate = store.DateOnly(tt.TeeDate)
	s.teeTimes[key] = &clone
	s.teeTimeOrder = append(s.teeTimeOrder, key)
	tt.ID = clone.ID

	return nil
}

// InsertTeeSheet appends an audit record
func (s *Store) InsertTeeSheet(ctx context.Context, rec *models.TeeSheetRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *rec
	clone.RawData = make([]models.Slot, len(rec.RawData))
	copy(clone.RawData, rec.RawData)
	if clone.CreatedAt.IsZero() {
		clone.CreatedAt = time.Now().UTC()
	}
	s.teeSheets = append(s.teeSheets, clone)
	return nil
}

// Weekends returns every stored weekend
func (s *Store) Weekends() []models.Weekend {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Weekend, 0, len(s.weekends))
	for _, wk := range s.weekends {
		out = append(out, *wk)
	}
	return out
}

// TeeTimes returns every stored tee time in insertion order
func (s *Store) TeeTimes() []models.TeeTime {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.TeeTime, 0, len(s.teeTimeOrder))
	for _, key := range s.teeTimeOrder {
		out = append(out, *s.teeTimes[key])
	}
	return out
}

// TeeSheets returns every audit record in insertion order
func (s *Store) TeeSheets() []models.TeeSheetRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.TeeSheetRecord, len(s.teeSheets))
	copy(out, s.teeSheets)
	return out
}

// Close is a no-op
func (s *Store) Close() error {
	return nil
}

func newWeekendKey(start, end time.Time) weekendKey {
	return weekendKey{
		start: start.Format(models.DateLayout),
		end:   end.Format(models.DateLayout),
	}
}
