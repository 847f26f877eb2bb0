// Package models defines the records exchanged between the tee sheet engine
// and its stores.
package models

import "time"

// DateLayout is the calendar-date format used for tee dates and weekends
const DateLayout = "2006-01-02"

// InvitationTypeGroupMember marks an invitation that makes the invitee a
// member of a group once claimed
const InvitationTypeGroupMember = "group_member"

// Club is the organization whose groups are tracked
type Club struct {
	ID          string `json:"id" bson:"_id"`
	Name        string `json:"name" bson:"name"`
	ScraperType string `json:"scraper_type" bson:"scraper_type"`
}

// Group belongs to exactly one club
type Group struct {
	ID     string `json:"id" bson:"_id"`
	ClubID string `json:"club_id" bson:"club_id"`
	Name   string `json:"name" bson:"name"`
}

// Membership links a registered user to a group
type Membership struct {
	UserID         string `json:"user_id" bson:"user_id"`
	GroupID        string `json:"group_id" bson:"group_id"`
	IsPrimary      bool   `json:"is_primary" bson:"is_primary"`
	FullName       string `json:"full_name" bson:"full_name"`
	NormalizedName string `json:"normalized_name,omitempty" bson:"normalized_name,omitempty"`
}

// Invitation is a pending affiliate who has not created an account yet
type Invitation struct {
	ID             string `json:"id" bson:"_id"`
	GroupID        string `json:"group_id" bson:"group_id"`
	DisplayName    string `json:"display_name" bson:"display_name"`
	InvitationType string `json:"invitation_type" bson:"invitation_type"`
	ClaimedBy      string `json:"claimed_by,omitempty" bson:"claimed_by,omitempty"` // empty while unclaimed
}

// IsPendingMember reports whether the invitation is an unclaimed group member invite
func (i Invitation) IsPendingMember() bool {
	return i.InvitationType == InvitationTypeGroupMember && i.ClaimedBy == ""
}

// Slot is one row of a tee sheet as rendered
type Slot struct {
	TeeTime string   `json:"tee_time" bson:"tee_time"`
	Golfers []string `json:"golfers" bson:"golfers"`
}

// Weekend is a Saturday-Sunday bucket
type Weekend struct {
	ID        string    `json:"id" bson:"_id"`
	StartDate time.Time `json:"start_date" bson:"start_date"`
	EndDate   time.Time `json:"end_date" bson:"end_date"`
}

// TeeTime is a tee time made available to a group.
// Unique on (WeekendID, TeeDate, TeeTime, GroupID).
type TeeTime struct {
	ID         string    `json:"id"`
	WeekendID  string    `json:"weekend_id"`
	TeeDate    time.Time `json:"tee_date"`
	TeeTime    string    `json:"tee_time"` // HH:MM:SS
	GroupID    string    `json:"group_id"`
	MaxPlayers int       `json:"max_players"`
}

// TeeSheetRecord is the raw audit copy of one scraped day
type TeeSheetRecord struct {
	ClubID      string    `json:"club_id"`
	ScrapedDate time.Time `json:"scraped_date"`
	RawData     []Slot    `json:"raw_data"`
	CreatedAt   time.Time `json:"created_at"`
}
