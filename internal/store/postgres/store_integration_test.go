//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pfrederiksen/teesheet-sync/internal/lottery"
	"github.com/pfrederiksen/teesheet-sync/internal/models"
	"github.com/pfrederiksen/teesheet-sync/internal/store"
	"github.com/pfrederiksen/teesheet-sync/internal/syncer"
	"github.com/pfrederiksen/teesheet-sync/internal/weekend"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	clubID     = "11111111-1111-1111-1111-111111111111"
	groupA     = "22222222-2222-2222-2222-222222222222"
	groupB     = "33333333-3333-3333-3333-333333333333"
	mikeID     = "44444444-4444-4444-4444-444444444444"
	claimerID  = "55555555-5555-5555-5555-555555555555"
	janeInvite = "66666666-6666-6666-6666-666666666666"
)

func setupPostgresContainer(t *testing.T, ctx context.Context) (*Store, func()) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connString := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	st, err := New(ctx, &Config{
		Pool:        PoolConfig{ConnString: connString},
		AutoMigrate: true,
	})
	require.NoError(t, err)

	cleanup := func() {
		_ = st.Close()
		_ = container.Terminate(ctx)
	}

	return st, cleanup
}

func seed(t *testing.T, ctx context.Context, st *Store) {
	statements := []string{
		`INSERT INTO clubs (id, name, scraper_type) VALUES ('` + clubID + `', '1757 Golf Club', '1757')`,
		`INSERT INTO groups (id, club_id, name, created_at) VALUES
			('` + groupA + `', '` + clubID + `', 'Group A', now() - interval '2 minutes'),
			('` + groupB + `', '` + clubID + `', 'Group B', now() - interval '1 minute')`,
		`INSERT INTO profiles (id, full_name) VALUES
			('` + mikeID + `', 'Mike Johnson'),
			('` + claimerID + `', 'Someone Else')`,
		`INSERT INTO memberships (user_id, group_id, is_primary) VALUES ('` + mikeID + `', '` + groupA + `', true)`,
		`INSERT INTO invitations (id, group_id, display_name, invitation_type) VALUES
			('` + janeInvite + `', '` + groupB + `', 'Jane Roe', 'group_member')`,
		`INSERT INTO invitations (group_id, display_name, invitation_type, claimed_by) VALUES
			('` + groupB + `', 'Claimed Person', 'group_member', '` + claimerID + `')`,
		`INSERT INTO invitations (group_id, display_name, invitation_type) VALUES
			('` + groupB + `', 'Guest Person', 'guest')`,
	}

	for _, stmt := range statements {
		_, err := st.pool.Exec(ctx, stmt)
		require.NoError(t, err)
	}
}

func TestIntegration_Store(t *testing.T) {
	ctx := context.Background()
	st, cleanup := setupPostgresContainer(t, ctx)
	defer cleanup()

	seed(t, ctx, st)

	t.Run("migrations are idempotent", func(t *testing.T) {
		require.NoError(t, Migrate(ctx, st.pool))
	})

	t.Run("club and groups", func(t *testing.T) {
		club, err := st.GetClub(ctx, clubID)
		require.NoError(t, err)
		require.Equal(t, "1757 Golf Club", club.Name)
		require.Equal(t, "1757", club.ScraperType)

		_, err = st.GetClub(ctx, "99999999-9999-9999-9999-999999999999")
		require.ErrorIs(t, err, store.ErrClubNotFound)

		groups, err := st.ListGroups(ctx, clubID)
		require.NoError(t, err)
		require.Len(t, groups, 2)
		require.Equal(t, groupA, groups[0].ID)
		require.Equal(t, groupB, groups[1].ID)
	})

	t.Run("affiliation rows", func(t *testing.T) {
		memberships, err := st.ListMemberships(ctx)
		require.NoError(t, err)
		require.Len(t, memberships, 1)
		require.Equal(t, "Mike Johnson", memberships[0].FullName)
		require.True(t, memberships[0].IsPrimary)

		invitations, err := st.ListPendingInvitations(ctx)
		require.NoError(t, err)
		require.Len(t, invitations, 1)
		require.Equal(t, janeInvite, invitations[0].ID)
	})

	t.Run("weekend get or create", func(t *testing.T) {
		resolver := weekend.NewResolver(st)
		sat := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)

		first, err := resolver.Resolve(ctx, sat)
		require.NoError(t, err)
		second, err := resolver.Resolve(ctx, sat.AddDate(0, 0, 1))
		require.NoError(t, err)
		require.Equal(t, first.ID, second.ID)
		require.Equal(t, "2026-10-18", second.EndDate.Format(models.DateLayout))

		_, err = st.CreateWeekend(ctx, first.StartDate, first.EndDate)
		require.ErrorIs(t, err, store.ErrWeekendExists)

		var count int
		require.NoError(t, st.pool.QueryRow(ctx, `SELECT count(*) FROM weekends`).Scan(&count))
		require.Equal(t, 1, count)
	})

	t.Run("weekend rejects non saturday start", func(t *testing.T) {
		fri := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
		_, err := st.CreateWeekend(ctx, fri, fri.AddDate(0, 0, 1))
		require.Error(t, err)
		require.Contains(t, err.Error(), "check constraint violation")
	})

	t.Run("tee time sync is idempotent", func(t *testing.T) {
		sat := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
		wk, err := weekend.NewResolver(st).Resolve(ctx, sat)
		require.NoError(t, err)

		writer := syncer.NewWriter(st, zerolog.Nop())
		win := lottery.Win{TeeTime: "8:10 am", GroupID: groupA, UserID: mikeID, WonByName: "Mike Johnson"}

		first, err := writer.Sync(ctx, groupA, wk.ID, sat, win)
		require.NoError(t, err)
		second, err := writer.Sync(ctx, groupA, wk.ID, sat, win)
		require.NoError(t, err)
		require.Equal(t, first.ID, second.ID)

		var teeTime string
		var maxPlayers int
		err = st.pool.QueryRow(ctx,
			`SELECT tee_time::text, max_players FROM tee_times WHERE id = $1`, first.ID,
		).Scan(&teeTime, &maxPlayers)
		require.NoError(t, err)
		require.Equal(t, "08:10:00", teeTime)
		require.Equal(t, syncer.DefaultMaxPlayers, maxPlayers)

		var count int
		require.NoError(t, st.pool.QueryRow(ctx, `SELECT count(*) FROM tee_times`).Scan(&count))
		require.Equal(t, 1, count)
	})

	t.Run("tee sheets are append only", func(t *testing.T) {
		writer := syncer.NewWriter(st, zerolog.Nop())
		sun := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
		slots := []models.Slot{{TeeTime: "7:30 am", Golfers: []string{"* BLOCKED *", ""}}}

		require.NoError(t, writer.Audit(ctx, clubID, sun, slots))
		require.NoError(t, writer.Audit(ctx, clubID, sun, nil))

		var count int
		require.NoError(t, st.pool.QueryRow(ctx,
			`SELECT count(*) FROM external_tee_sheets WHERE club_id = $1 AND scraped_date = $2`,
			clubID, sun,
		).Scan(&count))
		require.Equal(t, 2, count)

		var golfer string
		require.NoError(t, st.pool.QueryRow(ctx,
			`SELECT raw_data->0->'golfers'->>0 FROM external_tee_sheets ORDER BY id LIMIT 1`,
		).Scan(&golfer))
		require.Equal(t, "* BLOCKED *", golfer)
	})
}
