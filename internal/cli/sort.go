package cli

import (
	"fmt"
	"sort"

	"github.com/pfrederiksen/dp-headlines/internal/headline"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByFile     SortOrder = "file"
	SortByDate     SortOrder = "date"
	SortByDateDesc SortOrder = "date-desc"
	SortByCount    SortOrder = "count"
)

func parseSortOrder(raw string) (SortOrder, error) {
	switch order := SortOrder(raw); order {
	case SortByFile, SortByDate, SortByDateDesc, SortByCount:
		return order, nil
	default:
		return "", fmt.Errorf("invalid sort: %s (must be 'file', 'date', 'date-desc' or 'count')", raw)
	}
}

// sortSnapshots sorts snapshots in place. SortByFile keeps the store's order.
func sortSnapshots(snaps []*headline.Snapshot, order SortOrder) {
	switch order {
	case SortByDate:
		sort.SliceStable(snaps, func(i, j int) bool {
			return snaps[i].Date < snaps[j].Date
		})
	case SortByDateDesc:
		sort.SliceStable(snaps, func(i, j int) bool {
			return snaps[i].Date > snaps[j].Date
		})
	case SortByCount:
		sort.SliceStable(snaps, func(i, j int) bool {
			if len(snaps[i].Headlines) != len(snaps[j].Headlines) {
				return len(snaps[i].Headlines) > len(snaps[j].Headlines)
			}
			// If counts are equal, newest first
			return snaps[i].Date > snaps[j].Date
		})
	}
}
