package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/pfrederiksen/teesheet-sync/internal/lottery"
	"github.com/pfrederiksen/teesheet-sync/internal/pipeline"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// DayOutput is one processed day in the output
type DayOutput struct {
	Weekday   string                   `json:"weekday"`
	Date      string                   `json:"date"`
	SlotCount int                      `json:"slot_count"`
	WeekendID string                   `json:"weekend_id,omitempty"`
	Wins      []lottery.Win            `json:"wins"`
	ByGroup   map[string][]lottery.Win `json:"by_group,omitempty"`
}

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt  time.Time         `json:"checked_at"`
	ClubID     string            `json:"club_id"`
	ClubName   string            `json:"club_name"`
	GroupNames map[string]string `json:"group_names"`
	Members    int               `json:"members"`
	Pending    int               `json:"pending"`
	Days       []DayOutput       `json:"days"`
	WinCount   int               `json:"win_count"`
}

// NewOutputResult flattens a run report, sorting each day's wins
func NewOutputResult(report *pipeline.Report, order SortOrder) *OutputResult {
	result := &OutputResult{
		CheckedAt:  report.FinishedAt,
		ClubID:     report.ClubID,
		ClubName:   report.ClubName,
		GroupNames: make(map[string]string, len(report.Groups)),
		Members:    report.Members,
		Pending:    report.Pending,
		Days:       make([]DayOutput, 0, len(report.Days)),
		WinCount:   report.TotalWins,
	}

	for _, g := range report.Groups {
		result.GroupNames[g.ID] = g.Name
	}

	for _, day := range report.Days {
		wins := append([]lottery.Win(nil), day.Wins...)
		sortWins(wins, order, result.GroupNames)

		out := DayOutput{
			Weekday:   day.Weekday,
			Date:      day.Date,
			SlotCount: day.SlotCount,
			WeekendID: day.WeekendID,
			Wins:      wins,
		}
		if len(wins) > 0 {
			out.ByGroup = lottery.ByGroup(wins)
		}
		if out.Wins == nil {
			out.Wins = []lottery.Win{}
		}
		result.Days = append(result.Days, out)
	}

	return result
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	fmt.Fprintf(w, "%s: %d members, %d pending invitations\n", result.ClubName, result.Members, result.Pending)

	for _, day := range result.Days {
		fmt.Fprintf(w, "\n%s %s (%d tee times on sheet)\n", day.Weekday, day.Date, day.SlotCount)

		if len(day.Wins) == 0 {
			fmt.Fprintln(w, "  No lottery wins found.")
			continue
		}

		for _, win := range day.Wins {
			fmt.Fprintf(w, "  %-8s %-20s %s (%s)\n",
				win.TeeTime, result.groupLabel(win.GroupID), win.WonByName, win.MemberType())
			if verbose {
				if win.Pending() {
					fmt.Fprintf(w, "           Invitation: %s\n", win.InvitationID)
				} else {
					fmt.Fprintf(w, "           User: %s\n", win.UserID)
				}
			}
		}

		if verbose && len(day.ByGroup) > 0 {
			groups := make([]string, 0, len(day.ByGroup))
			for id := range day.ByGroup {
				groups = append(groups, id)
			}
			sort.Slice(groups, func(i, j int) bool {
				return result.groupLabel(groups[i]) < result.groupLabel(groups[j])
			})

			for _, id := range groups {
				fmt.Fprintf(w, "  %s: %d tee times\n", result.groupLabel(id), len(day.ByGroup[id]))
			}
		}
	}

	fmt.Fprintf(w, "\nTotal: %d lottery wins across %d days\n", result.WinCount, len(result.Days))
	return nil
}

func (r *OutputResult) groupLabel(groupID string) string {
	if name := r.GroupNames[groupID]; name != "" {
		return name
	}
	return groupID
}
