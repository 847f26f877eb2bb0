// Package lottery finds the tee times a club's affiliates won in the lottery.
package lottery

import (
	"github.com/pfrederiksen/teesheet-sync/internal/affiliation"
	"github.com/pfrederiksen/teesheet-sync/internal/models"
	"github.com/pfrederiksen/teesheet-sync/internal/teesheet"
)

// Win is a tee sheet slot booked under an affiliate's name
type Win struct {
	TeeTime      string `json:"tee_time"`
	GroupID      string `json:"group_id"`
	UserID       string `json:"won_by_user_id,omitempty"`
	InvitationID string `json:"invitation_id,omitempty"`
	WonByName    string `json:"won_by_name"`
}

// Pending reports whether the winner is an unclaimed invitee
func (w Win) Pending() bool {
	return w.InvitationID != ""
}

// MemberType labels the winner for reports: "member" or "pending"
func (w Win) MemberType() string {
	if w.Pending() {
		return "pending"
	}
	return "member"
}

// Match returns at most one Win per slot, in slot order. The first listed
// golfer that resolves in the directory wins the slot; later affiliates in
// the same slot are ignored.
func Match(slots []models.Slot, dir *affiliation.Directory) []Win {
	wins := make([]Win, 0)

	for _, slot := range slots {
		for _, golfer := range slot.Golfers {
			if golfer == "" || teesheet.IsBlocked(golfer) {
				continue
			}

			entry, ok := dir.Lookup(affiliation.Normalize(golfer))
			if !ok {
				continue
			}

			wins = append(wins, Win{
				TeeTime:      slot.TeeTime,
				GroupID:      entry.GroupID,
				UserID:       entry.UserID,
				InvitationID: entry.InvitationID,
				WonByName:    golfer,
			})
			break
		}
	}

	return wins
}

// ByGroup groups wins by group id, keeping slot order within each group
func ByGroup(wins []Win) map[string][]Win {
	grouped := make(map[string][]Win)
	for _, w := range wins {
		grouped[w.GroupID] = append(grouped[w.GroupID], w)
	}
	return grouped
}
