// Package pipeline runs the tee sheet lottery sync for a club.
//
// A run loads the club's affiliates once, opens the navigator, and processes
// Saturday then Sunday. Each day is parsed, matched, synced into its weekend
// bucket, and recorded in the audit trail whether or not anything matched.
// Any failure aborts the run; the navigator is always closed.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pfrederiksen/teesheet-sync/internal/affiliation"
	"github.com/pfrederiksen/teesheet-sync/internal/logger"
	"github.com/pfrederiksen/teesheet-sync/internal/lottery"
	"github.com/pfrederiksen/teesheet-sync/internal/models"
	"github.com/pfrederiksen/teesheet-sync/internal/navigator"
	"github.com/pfrederiksen/teesheet-sync/internal/storage"
	"github.com/pfrederiksen/teesheet-sync/internal/store"
	"github.com/pfrederiksen/teesheet-sync/internal/syncer"
	"github.com/pfrederiksen/teesheet-sync/internal/teesheet"
	"github.com/pfrederiksen/teesheet-sync/internal/weekend"
	"github.com/rs/zerolog"
)

// ErrNoGroups means the club has no groups to sync tee times into
var ErrNoGroups = errors.New("club has no groups")

// WeekendDays are processed in this order on every run
var WeekendDays = []time.Weekday{time.Saturday, time.Sunday}

// DayResult summarizes one processed day
type DayResult struct {
	Weekday   string        `json:"weekday"`
	Date      string        `json:"date"`
	SlotCount int           `json:"slot_count"`
	WeekendID string        `json:"weekend_id,omitempty"`
	Wins      []lottery.Win `json:"wins"`
}

// Pipeline processes single days against a fixed directory
type Pipeline struct {
	clubID   string
	dir      *affiliation.Directory
	nav      navigator.Navigator
	weekends *weekend.Resolver
	writer   *syncer.Writer
	archive  *storage.Storage
	settle   time.Duration
	logger   zerolog.Logger
	metrics  *logger.Metrics
}

// ProcessDay selects the next occurrence of weekday and syncs its lottery wins
func (p *Pipeline) ProcessDay(ctx context.Context, weekday time.Weekday) (*DayResult, error) {
	started := time.Now()
	log := p.logger.With().Str("weekday", weekday.String()).Logger()
	log.Info().Msg("Processing day")

	dateText, err := p.nav.SelectDay(ctx, weekday)
	if err != nil {
		return nil, fmt.Errorf("selecting %s: %w", weekday, err)
	}
	date, err := time.Parse(models.DateLayout, dateText)
	if err != nil {
		return nil, fmt.Errorf("parsing tee date %q: %w", dateText, err)
	}
	log = log.With().Str("date", dateText).Logger()

	if p.settle > 0 {
		time.Sleep(p.settle)
	}

	markup, err := p.nav.Markup(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading tee sheet for %s: %w", dateText, err)
	}

	slots := teesheet.Parse(markup)
	log.Info().Int("slots", len(slots)).Msg("Parsed tee sheet")

	wins := lottery.Match(slots, p.dir)
	log.Info().Int("wins", len(wins)).Msg("Matched lottery wins")

	result := &DayResult{
		Weekday:   weekday.String(),
		Date:      dateText,
		SlotCount: len(slots),
		Wins:      wins,
	}

	if len(wins) > 0 {
		wk, err := p.weekends.Resolve(ctx, date)
		if err != nil {
			return nil, err
		}
		result.WeekendID = wk.ID

		for _, win := range wins {
			if _, err := p.writer.Sync(ctx, win.GroupID, wk.ID, date, win); err != nil {
				return nil, err
			}
			p.metrics.IncrCounter("wins." + win.MemberType())
			log.Info().
				Str("tee_time", win.TeeTime).
				Str("group_id", win.GroupID).
				Str("won_by", win.WonByName).
				Str("member_type", win.MemberType()).
				Msg("Synced tee time")
		}
	}

	if err := p.writer.Audit(ctx, p.clubID, date, slots); err != nil {
		return nil, err
	}

	if p.archive != nil {
		err := p.archive.SaveDay(&storage.DaySnapshot{
			ClubID:    p.clubID,
			Date:      dateText,
			WeekendID: result.WeekendID,
			Slots:     slots,
			Wins:      wins,
		})
		if err != nil {
			return nil, fmt.Errorf("archiving %s: %w", dateText, err)
		}
	}

	p.metrics.IncrCounter("days.processed")
	p.metrics.AddCounter("slots.parsed", int64(len(slots)))
	p.metrics.RecordTiming("day.process", time.Since(started))

	return result, nil
}

// Report summarizes a full run
type Report struct {
	ClubID     string         `json:"club_id"`
	ClubName   string         `json:"club_name"`
	Groups     []models.Group `json:"groups"`
	Members    int            `json:"members"`
	Pending    int            `json:"pending"`
	Days       []*DayResult   `json:"days"`
	TotalWins  int            `json:"total_wins"`
	FinishedAt time.Time      `json:"finished_at"`
}

// Runner wires a full run for one club
type Runner struct {
	ClubID    string
	Store     store.Store
	Navigator navigator.Navigator
	Logger    zerolog.Logger

	// Archive, when set, receives a local copy of each processed day.
	Archive *storage.Storage

	// Settle is the fixed pause after selecting a day. Zero disables it.
	Settle time.Duration

	// Days defaults to WeekendDays.
	Days []time.Weekday

	// Metrics, when set, collects per-day counters and timings.
	Metrics *logger.Metrics
}

// Run processes every configured day sequentially and aggregates the wins
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	log := r.Logger.With().Str("club_id", r.ClubID).Logger()

	club, err := r.Store.GetClub(ctx, r.ClubID)
	if err != nil {
		return nil, fmt.Errorf("fetching club configuration: %w", err)
	}
	log.Info().Str("club", club.Name).Str("scraper_type", club.ScraperType).Msg("Processing club")

	groups, err := r.Store.ListGroups(ctx, r.ClubID)
	if err != nil {
		return nil, fmt.Errorf("fetching club groups: %w", err)
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoGroups, club.Name)
	}
	for _, g := range groups {
		log.Info().Str("group_id", g.ID).Str("group", g.Name).Msg("Found group")
	}

	dir, err := r.loadDirectory(ctx, groups)
	if err != nil {
		return nil, err
	}
	members, pending := dir.Counts()
	log.Info().Int("members", members).Int("pending", pending).Msg("Loaded club affiliates")
	if dir.Len() == 0 {
		log.Warn().Msg("No club affiliates found, no tee times will be matched")
	}

	if err := r.Navigator.Open(ctx); err != nil {
		r.closeNavigator(log)
		return nil, fmt.Errorf("opening tee sheet: %w", err)
	}
	defer r.closeNavigator(log)

	p := &Pipeline{
		clubID:   r.ClubID,
		dir:      dir,
		nav:      r.Navigator,
		weekends: weekend.NewResolver(r.Store),
		writer:   syncer.NewWriter(r.Store, log),
		archive:  r.Archive,
		settle:   r.Settle,
		logger:   log,
		metrics:  r.Metrics,
	}

	days := r.Days
	if len(days) == 0 {
		days = WeekendDays
	}

	report := &Report{
		ClubID:   club.ID,
		ClubName: club.Name,
		Groups:   groups,
		Members:  members,
		Pending:  pending,
		Days:     make([]*DayResult, 0, len(days)),
	}

	for _, day := range days {
		result, err := p.ProcessDay(ctx, day)
		if err != nil {
			log.Error().Err(err).Str("weekday", day.String()).Msg("Run aborted")
			return nil, err
		}
		report.Days = append(report.Days, result)
		report.TotalWins += len(result.Wins)
	}

	report.FinishedAt = time.Now().UTC()
	log.Info().Int("total_wins", report.TotalWins).Msg("Run complete")

	return report, nil
}

func (r *Runner) loadDirectory(ctx context.Context, groups []models.Group) (*affiliation.Directory, error) {
	memberships, err := r.Store.ListMemberships(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching memberships: %w", err)
	}

	invitations, err := r.Store.ListPendingInvitations(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching invitations: %w", err)
	}

	groupIDs := make([]string, 0, len(groups))
	for _, g := range groups {
		groupIDs = append(groupIDs, g.ID)
	}

	return affiliation.Build(groupIDs, memberships, invitations), nil
}

func (r *Runner) closeNavigator(log zerolog.Logger) {
	if err := r.Navigator.Close(); err != nil {
		log.Warn().Err(err).Msg("Closing tee sheet navigator")
	}
}
