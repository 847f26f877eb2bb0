// Package store defines the storage contract of the tee sheet engine.
//
// The engine only needs equality-filtered reads, inserts, and upserts keyed
// on a conflict key. Adapters live in the memory, postgres and mongo
// subpackages.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/pfrederiksen/teesheet-sync/internal/models"
)

// Sentinel errors for store operations
var (
	ErrClubNotFound    = errors.New("club not found")
	ErrWeekendNotFound = errors.New("weekend not found")
	ErrWeekendExists   = errors.New("weekend already exists")
)

// ClubStore reads club configuration
type ClubStore interface {
	// GetClub returns ErrClubNotFound when no club has the id.
	GetClub(ctx context.Context, clubID string) (*models.Club, error)

	// ListGroups returns every group of the club.
	ListGroups(ctx context.Context, clubID string) ([]models.Group, error)
}

// MemberStore reads affiliation rows across all groups
type MemberStore interface {
	// ListMemberships returns memberships joined with their profile names,
	// ordered by creation time, then user id, then group id. Directory
	// precedence between two primary memberships depends on this order.
	ListMemberships(ctx context.Context) ([]models.Membership, error)

	// ListPendingInvitations returns unclaimed group_member invitations,
	// ordered by creation time, then id.
	ListPendingInvitations(ctx context.Context) ([]models.Invitation, error)
}

// WeekendStore reads and creates weekend buckets
type WeekendStore interface {
	// FindWeekend returns ErrWeekendNotFound when no row matches exactly.
	FindWeekend(ctx context.Context, start, end time.Time) (*models.Weekend, error)

	// CreateWeekend inserts a new weekend and returns it with its id.
	CreateWeekend(ctx context.Context, start, end time.Time) (*models.Weekend, error)
}

// TeeTimeStore writes tee times
type TeeTimeStore interface {
	// UpsertTeeTime inserts the tee time or, when a row with the same
	// (weekend, date, time, group) exists, overwrites its max players.
	// The stored id is written back into tt.
	UpsertTeeTime(ctx context.Context, tt *models.TeeTime) error
}

// TeeSheetStore appends raw tee sheet audit records
type TeeSheetStore interface {
	InsertTeeSheet(ctx context.Context, rec *models.TeeSheetRecord) error
}

// Store is everything a run needs
type Store interface {
	ClubStore
	MemberStore
	WeekendStore
	TeeTimeStore
	TeeSheetStore

	Close() error
}

// DateOnly truncates t to its calendar date in UTC
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
