// Package postgres implements store.Store on PostgreSQL with pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pfrederiksen/teesheet-sync/internal/models"
	"github.com/pfrederiksen/teesheet-sync/internal/store"
	"github.com/rs/zerolog/log"
)

var _ store.Store = (*Store)(nil)

// Config configures a PostgreSQL store.
type Config struct {
	Pool PoolConfig

	// AutoMigrate applies pending schema migrations on startup.
	AutoMigrate bool
}

// Store implements store.Store using a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL and optionally migrates the schema.
func New(ctx context.Context, cfg *Config) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("postgres config is required")
	}

	pool, err := NewPool(ctx, &cfg.Pool)
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return NewFromPool(pool), nil
}

// NewFromPool wraps an existing pool. Close closes the pool.
func NewFromPool(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// GetClub retrieves a club by id.
func (s *Store) GetClub(ctx context.Context, clubID string) (*models.Club, error) {
	query := `
		SELECT id::text, name, scraper_type
		FROM clubs
		WHERE id = $1
	`

	var club models.Club
	err := s.pool.QueryRow(ctx, query, clubID).Scan(&club.ID, &club.Name, &club.ScraperType)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to get club: %w", mapPostgresError(err))
	}

	return &club, nil
}

// ListGroups returns the club's groups ordered by creation.
func (s *Store) ListGroups(ctx context.Context, clubID string) ([]models.Group, error) {
	query := `
		SELECT id::text, club_id::text, name
		FROM groups
		WHERE club_id = $1
		ORDER BY created_at, id
	`

	rows, err := s.pool.Query(ctx, query, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", mapPostgresError(err))
	}

	groups, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Group, error) {
		var g models.Group
		err := row.Scan(&g.ID, &g.ClubID, &g.Name)
		return g, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan groups: %w", err)
	}

	return groups, nil
}

// ListMemberships returns all memberships joined with their profile names.
func (s *Store) ListMemberships(ctx context.Context) ([]models.Membership, error) {
	query := `
		SELECT m.user_id::text, m.group_id::text, m.is_primary,
		       p.full_name, COALESCE(p.normalized_name, '')
		FROM memberships m
		JOIN profiles p ON p.id = m.user_id
		ORDER BY m.created_at, m.user_id, m.group_id
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", mapPostgresError(err))
	}

	memberships, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Membership, error) {
		var m models.Membership
		err := row.Scan(&m.UserID, &m.GroupID, &m.IsPrimary, &m.FullName, &m.NormalizedName)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan memberships: %w", err)
	}

	return memberships, nil
}

// ListPendingInvitations returns unclaimed group member invitations.
func (s *Store) ListPendingInvitations(ctx context.Context) ([]models.Invitation, error) {
	query := `
		SELECT id::text, group_id::text, display_name, invitation_type
		FROM invitations
		WHERE claimed_by IS NULL AND invitation_type = $1
		ORDER BY created_at, id
	`

	rows, err := s.pool.Query(ctx, query, models.InvitationTypeGroupMember)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", mapPostgresError(err))
	}

	invitations, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Invitation, error) {
		var inv models.Invitation
		err := row.Scan(&inv.ID, &inv.GroupID, &inv.DisplayName, &inv.InvitationType)
		return inv, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan invitations: %w", err)
	}

	return invitations, nil
}

// FindWeekend looks up a weekend by its exact dates.
func (s *Store) FindWeekend(ctx context.Context, start, end time.Time) (*models.Weekend, error) {
	query := `
		SELECT id::text, start_date, end_date
		FROM weekends
		WHERE start_date = $1 AND end_date = $2
	`

	var wk models.Weekend
	err := s.pool.QueryRow(ctx, query, store.DateOnly(start), store.DateOnly(end)).
		Scan(&wk.ID, &wk.StartDate, &wk.EndDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrWeekendNotFound
		}
		return nil, fmt.Errorf("failed to find weekend: %w", mapPostgresError(err))
	}

	return &wk, nil
}

// CreateWeekend inserts a weekend. A duplicate returns store.ErrWeekendExists.
func (s *Store) CreateWeekend(ctx context.Context, start, end time.Time) (*models.Weekend, error) {
	query := `
		INSERT INTO weekends (start_date, end_date)
		VALUES ($1, $2)
		RETURNING id::text, start_date, end_date
	`

	var wk models.Weekend
	err := s.pool.QueryRow(ctx, query, store.DateOnly(start), store.DateOnly(end)).
		Scan(&wk.ID, &wk.StartDate, &wk.EndDate)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrWeekendExists
		}
		return nil, fmt.Errorf("failed to create weekend: %w", mapPostgresError(err))
	}

	log.Debug().
		Str("weekend_id", wk.ID).
		Str("start_date", wk.StartDate.Format(models.DateLayout)).
		Msg("Created weekend")

	return &wk, nil
}

// UpsertTeeTime inserts a tee time or updates max players on conflict.
func (s *Store) UpsertTeeTime(ctx context.Context, tt *models.TeeTime) error {
	query := `
		INSERT INTO tee_times (weekend_id, tee_date, tee_time, group_id, max_players)
		VALUES ($1, $2, $3::text::time, $4, $5)
		ON CONFLICT (weekend_id, tee_date, tee_time, group_id)
		DO UPDATE SET max_players = EXCLUDED.max_players, updated_at = now()
		RETURNING id::text
	`

	err := s.pool.QueryRow(ctx, query,
		tt.WeekendID,
		store.DateOnly(tt.TeeDate),
		tt.TeeTime,
		tt.GroupID,
		tt.MaxPlayers,
	).Scan(&tt.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert tee time: %w", mapPostgresError(err))
	}

	return nil
}

// InsertTeeSheet appends a raw tee sheet record.
func (s *Store) InsertTeeSheet(ctx context.Context, rec *models.TeeSheetRecord) error {
	query := `
		INSERT INTO external_tee_sheets (club_id, scraped_date, raw_data, created_at)
		VALUES ($1, $2, $3, $4)
	`

	slots := rec.RawData
	if slots == nil {
		slots = []models.Slot{}
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx, query, rec.ClubID, store.DateOnly(rec.ScrapedDate), slots, createdAt)
	if err != nil {
		return fmt.Errorf("failed to insert tee sheet: %w", mapPostgresError(err))
	}

	return nil
}
