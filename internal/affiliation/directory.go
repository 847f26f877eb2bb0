package affiliation

import "github.com/pfrederiksen/teesheet-sync/internal/models"

// Entry is the resolved affiliation for one identity.
// Exactly one of UserID and InvitationID is set.
type Entry struct {
	GroupID      string `json:"group_id"`
	UserID       string `json:"user_id,omitempty"`
	InvitationID string `json:"invitation_id,omitempty"`
}

// Pending reports whether the entry refers to an unclaimed invitation
func (e Entry) Pending() bool {
	return e.InvitationID != ""
}

// Directory is an immutable identity -> Entry snapshot
type Directory struct {
	entries map[string]Entry
}

type entries map[string]Entry

// Build derives a Directory from the club's group ids and the current
// membership and invitation rows. Rows outside the club's groups and rows
// without a usable name are skipped.
func Build(groupIDs []string, memberships []models.Membership, invitations []models.Invitation) *Directory {
	acc := make(entries)
	if len(groupIDs) == 0 {
		return &Directory{entries: acc}
	}

	inClub := make(map[string]struct{}, len(groupIDs))
	for _, id := range groupIDs {
		inClub[id] = struct{}{}
	}

	for _, m := range memberships {
		if _, ok := inClub[m.GroupID]; !ok {
			continue
		}
		foldMembership(acc, m)
	}

	for _, inv := range invitations {
		if _, ok := inClub[inv.GroupID]; !ok {
			continue
		}
		foldInvitation(acc, inv)
	}

	return &Directory{entries: acc}
}

// foldMembership records m when its identity is free or m is primary
func foldMembership(acc entries, m models.Membership) {
	identity := membershipIdentity(m)
	if identity == "" {
		return
	}
	if _, seen := acc[identity]; seen && !m.IsPrimary {
		return
	}
	acc[identity] = Entry{GroupID: m.GroupID, UserID: m.UserID}
}

// foldInvitation records inv only when nothing holds its identity yet
func foldInvitation(acc entries, inv models.Invitation) {
	if !inv.IsPendingMember() {
		return
	}
	identity := Normalize(inv.DisplayName)
	if identity == "" {
		return
	}
	if _, seen := acc[identity]; seen {
		return
	}
	acc[identity] = Entry{GroupID: inv.GroupID, InvitationID: inv.ID}
}

func membershipIdentity(m models.Membership) string {
	if identity := Normalize(m.NormalizedName); identity != "" {
		return identity
	}
	return Normalize(m.FullName)
}

// Lookup returns the entry for an already normalized identity
func (d *Directory) Lookup(identity string) (Entry, bool) {
	if d == nil || identity == "" {
		return Entry{}, false
	}
	e, ok := d.entries[identity]
	return e, ok
}

// Len returns the number of distinct identities
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Counts returns how many identities resolve to members and to pending invitees
func (d *Directory) Counts() (members, pending int) {
	if d == nil {
		return 0, 0
	}
	for _, e := range d.entries {
		if e.Pending() {
			pending++
		} else {
			members++
		}
	}
	return members, pending
}
