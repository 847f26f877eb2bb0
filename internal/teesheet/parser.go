package teesheet

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/teesheet-sync/internal/models"
)

// BlockedMarker fills a cell the club has made unavailable
const BlockedMarker = "* BLOCKED *"

// sheetSelector matches the bordered tee sheet table
const sheetSelector = "table.table.table-bordered.header"

// Parse extracts slots from rendered tee sheet markup, in rendered order
func Parse(markup string) []models.Slot {
	return ParseReader(strings.NewReader(markup))
}

// ParseReader is Parse for a streamed document
func ParseReader(r io.Reader) []models.Slot {
	slots := make([]models.Slot, 0)

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return slots
	}

	table := doc.Find(sheetSelector).First()
	if table.Length() == 0 {
		return slots
	}

	tbody := table.ChildrenFiltered("tbody").First()
	if tbody.Length() == 0 {
		return slots
	}

	tbody.ChildrenFiltered("tr").Each(func(i int, row *goquery.Selection) {
		cells := row.ChildrenFiltered("td")
		if cells.Length() == 0 {
			return
		}

		slot := models.Slot{
			TeeTime: cellText(cells.First()),
			Golfers: make([]string, 0, cells.Length()-1),
		}
		cells.Slice(1, goquery.ToEnd).Each(func(j int, cell *goquery.Selection) {
			slot.Golfers = append(slot.Golfers, cellText(cell))
		})

		slots = append(slots, slot)
	})

	return slots
}

// IsBlocked reports whether a golfer cell holds the blocked marker
func IsBlocked(golfer string) bool {
	return golfer == BlockedMarker
}

func cellText(cell *goquery.Selection) string {
	return strings.TrimSpace(cell.Text())
}
