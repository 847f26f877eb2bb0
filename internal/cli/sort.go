package cli

import (
	"sort"
	"strings"

	"github.com/pfrederiksen/teesheet-sync/internal/lottery"
	"github.com/pfrederiksen/teesheet-sync/internal/teesheet"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByTime  SortOrder = "time"
	SortByGroup SortOrder = "group"
	SortByName  SortOrder = "name"
)

func (s SortOrder) valid() bool {
	switch s {
	case SortByTime, SortByGroup, SortByName:
		return true
	}
	return false
}

// sortWins sorts wins in place. Ties keep sheet order.
func sortWins(wins []lottery.Win, order SortOrder, groupNames map[string]string) {
	switch order {
	case SortByTime:
		sort.SliceStable(wins, func(i, j int) bool {
			return compareByTime(wins[i], wins[j])
		})
	case SortByGroup:
		sort.SliceStable(wins, func(i, j int) bool {
			gi, gj := groupName(wins[i], groupNames), groupName(wins[j], groupNames)
			if gi != gj {
				return gi < gj
			}
			return compareByTime(wins[i], wins[j])
		})
	case SortByName:
		sort.SliceStable(wins, func(i, j int) bool {
			return strings.ToLower(wins[i].WonByName) < strings.ToLower(wins[j].WonByName)
		})
	}
}

// compareByTime orders by clock time; unparseable labels sort last
func compareByTime(a, b lottery.Win) bool {
	ta, okA := teesheet.ParseClock(a.TeeTime)
	tb, okB := teesheet.ParseClock(b.TeeTime)

	if okA != okB {
		return okA
	}
	return ta < tb
}

func groupName(w lottery.Win, groupNames map[string]string) string {
	if name := groupNames[w.GroupID]; name != "" {
		return strings.ToLower(name)
	}
	return strings.ToLower(w.GroupID)
}
