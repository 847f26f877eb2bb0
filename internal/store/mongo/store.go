// Package mongo implements store.Store on MongoDB.
//
// Memberships carry the member's full name directly rather than joining a
// profiles collection. Dates are stored as UTC midnight timestamps and tee
// times as "HH:MM:SS" strings, so the tee time conflict key is a plain
// compound unique index.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pfrederiksen/teesheet-sync/internal/models"
	"github.com/pfrederiksen/teesheet-sync/internal/store"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	ClubsCollection       = "clubs"
	GroupsCollection      = "groups"
	MembershipsCollection = "memberships"
	InvitationsCollection = "invitations"
	WeekendsCollection    = "weekends"
	TeeTimesCollection    = "tee_times"
	TeeSheetsCollection   = "external_tee_sheets"
)

// DefaultDatabase is used when Config.Database is empty
const DefaultDatabase = "teesheet"

var _ store.Store = (*Store)(nil)

// Config configures a MongoDB store
type Config struct {
	URI      string
	Database string

	// ConnectTimeout bounds connect and ping. Default: 10s
	ConnectTimeout time.Duration
}

// Store implements store.Store on a MongoDB database
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects, pings, and ensures indexes
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("mongodb uri is required")
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 10 * time.Second
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	s := &Store{client: client, db: client.Database(cfg.Database)}
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	log.Debug().Str("database", cfg.Database).Msg("Connected to MongoDB")
	return s, nil
}

// EnsureIndexes creates the unique and lookup indexes the store relies on
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		GroupsCollection: {
			{Keys: bson.D{{Key: "club_id", Value: 1}}},
		},
		MembershipsCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "group_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "created_at", Value: 1}, {Key: "user_id", Value: 1}, {Key: "group_id", Value: 1}}},
		},
		InvitationsCollection: {
			{Keys: bson.D{{Key: "invitation_type", Value: 1}, {Key: "claimed_by", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		WeekendsCollection: {
			{Keys: bson.D{{Key: "start_date", Value: 1}, {Key: "end_date", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		TeeTimesCollection: {
			{
				Keys: bson.D{
					{Key: "weekend_id", Value: 1},
					{Key: "tee_date", Value: 1},
					{Key: "tee_time", Value: 1},
					{Key: "group_id", Value: 1},
				},
				Options: options.Index().SetUnique(true),
			},
		},
		TeeSheetsCollection: {
			{Keys: bson.D{{Key: "club_id", Value: 1}, {Key: "scraped_date", Value: 1}}},
		},
	}

	for name, idx := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", name, err)
		}
	}
	return nil
}

// Close disconnects the client
func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}

type membershipDocument struct {
	UserID         string    `bson:"user_id"`
	GroupID        string    `bson:"group_id"`
	IsPrimary      bool      `bson:"is_primary"`
	FullName       string    `bson:"full_name"`
	NormalizedName string    `bson:"normalized_name,omitempty"`
	CreatedAt      time.Time `bson:"created_at"`
}

type invitationDocument struct {
	ID             string    `bson:"_id"`
	GroupID        string    `bson:"group_id"`
	DisplayName    string    `bson:"display_name"`
	InvitationType string    `bson:"invitation_type"`
	ClaimedBy      string    `bson:"claimed_by,omitempty"`
	CreatedAt      time.Time `bson:"created_at"`
}

type teeTimeDocument struct {
	ID         string    `bson:"_id"`
	WeekendID  string    `bson:"weekend_id"`
	TeeDate    time.Time `bson:"tee_date"`
	TeeTime    string    `bson:"tee_time"`
	GroupID    string    `bson:"group_id"`
	MaxPlayers int       `bson:"max_players"`
	CreatedAt  time.Time `bson:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

type teeSheetDocument struct {
	ID          string        `bson:"_id"`
	ClubID      string        `bson:"club_id"`
	ScrapedDate time.Time     `bson:"scraped_date"`
	RawData     []models.Slot `bson:"raw_data"`
	CreatedAt   time.Time     `bson:"created_at"`
}

// GetClub retrieves a club by id
func (s *Store) GetClub(ctx context.Context, clubID string) (*models.Club, error) {
	var club models.Club
	err := s.db.Collection(ClubsCollection).FindOne(ctx, bson.M{"_id": clubID}).Decode(&club)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrClubNotFound
		}
		return nil, fmt.Errorf("failed to get club: %w", err)
	}
	return &club, nil
}

// ListGroups returns the club's groups ordered by id
func (s *Store) ListGroups(ctx context.Context, clubID string) ([]models.Group, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.db.Collection(GroupsCollection).Find(ctx, bson.M{"club_id": clubID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer cursor.Close(ctx)

	groups := make([]models.Group, 0)
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, fmt.Errorf("failed to decode groups: %w", err)
	}
	return groups, nil
}

// ListMemberships returns every membership ordered by creation
func (s *Store) ListMemberships(ctx context.Context) ([]models.Membership, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: 1},
		{Key: "user_id", Value: 1},
		{Key: "group_id", Value: 1},
	})
	cursor, err := s.db.Collection(MembershipsCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []membershipDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode memberships: %w", err)
	}

	memberships := make([]models.Membership, 0, len(docs))
	for _, d := range docs {
		memberships = append(memberships, models.Membership{
			UserID:         d.UserID,
			GroupID:        d.GroupID,
			IsPrimary:      d.IsPrimary,
			FullName:       d.FullName,
			NormalizedName: d.NormalizedName,
		})
	}
	return memberships, nil
}

// ListPendingInvitations returns unclaimed group member invitations
func (s *Store) ListPendingInvitations(ctx context.Context) ([]models.Invitation, error) {
	filter := bson.M{
		"invitation_type": models.InvitationTypeGroupMember,
		"$or": bson.A{
			bson.M{"claimed_by": bson.M{"$exists": false}},
			bson.M{"claimed_by": ""},
			bson.M{"claimed_by": nil},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := s.db.Collection(InvitationsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []invitationDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode invitations: %w", err)
	}

	invitations := make([]models.Invitation, 0, len(docs))
	for _, d := range docs {
		invitations = append(invitations, models.Invitation{
			ID:             d.ID,
			GroupID:        d.GroupID,
			DisplayName:    d.DisplayName,
			InvitationType: d.InvitationType,
		})
	}
	return invitations, nil
}

// FindWeekend looks up a weekend by its exact dates
func (s *Store) FindWeekend(ctx context.Context, start, end time.Time) (*models.Weekend, error) {
	filter := bson.M{"start_date": store.DateOnly(start), "end_date": store.DateOnly(end)}

	var wk models.Weekend
	err := s.db.Collection(WeekendsCollection).FindOne(ctx, filter).Decode(&wk)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrWeekendNotFound
		}
		return nil, fmt.Errorf("failed to find weekend: %w", err)
	}
	wk.StartDate = wk.StartDate.UTC()
	wk.EndDate = wk.EndDate.UTC()
	return &wk, nil
}

// CreateWeekend inserts a weekend. A duplicate returns store.ErrWeekendExists.
func (s *Store) CreateWeekend(ctx context.Context, start, end time.Time) (*models.Weekend, error) {
	wk := &models.Weekend{
		ID:        uuid.NewString(),
		StartDate: store.DateOnly(start),
		EndDate:   store.DateOnly(end),
	}

	if _, err := s.db.Collection(WeekendsCollection).InsertOne(ctx, wk); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, store.ErrWeekendExists
		}
		return nil, fmt.Errorf("failed to create weekend: %w", err)
	}

	log.Debug().
		Str("weekend_id", wk.ID).
		Str("start_date", wk.StartDate.Format(models.DateLayout)).
		Msg("Created weekend")

	return wk, nil
}

// UpsertTeeTime inserts a tee time or updates max players on its conflict key
func (s *Store) UpsertTeeTime(ctx context.Context, tt *models.TeeTime) error {
	now := time.Now().UTC()
	filter := bson.M{
		"weekend_id": tt.WeekendID,
		"tee_date":   store.DateOnly(tt.TeeDate),
		"tee_time":   tt.TeeTime,
		"group_id":   tt.GroupID,
	}
	update := bson.M{
		"$set": bson.M{
			"max_players": tt.MaxPlayers,
			"updated_at":  now,
		},
		"$setOnInsert": bson.M{
			"_id":        uuid.NewString(),
			"created_at": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc teeTimeDocument
	err := s.db.Collection(TeeTimesCollection).FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if err != nil {
		return fmt.Errorf("failed to upsert tee time: %w", err)
	}

	tt.ID = doc.ID
	return nil
}

// InsertTeeSheet appends a raw tee sheet record
func (s *Store) InsertTeeSheet(ctx context.Context, rec *models.TeeSheetRecord) error {
	doc := teeSheetDocument{
		ID:          uuid.NewString(),
		ClubID:      rec.ClubID,
		ScrapedDate: store.DateOnly(rec.ScrapedDate),
		RawData:     rec.RawData,
		CreatedAt:   rec.CreatedAt,
	}
	if doc.RawData == nil {
		doc.RawData = []models.Slot{}
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	if _, err := s.db.Collection(TeeSheetsCollection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to insert tee sheet: %w", err)
	}
	return nil
}
