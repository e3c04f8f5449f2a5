package stats

import (
	"sort"

	"github.com/RohanGottipati/typeflow/internal/model"
)

// TopHotspots ranks second buckets by descending count and returns the
// top n. Second 0 is excluded from the ranking as pre-start noise. Ties
// break on the earlier second for determinism.
func TopHotspots(bySecond map[int]int, n int) []model.Hotspot {
	if n <= 0 || len(bySecond) == 0 {
		return nil
	}
	spots := make([]model.Hotspot, 0, len(bySecond))
	for second, count := range bySecond {
		if second == 0 || count <= 0 {
			continue
		}
		spots = append(spots, model.Hotspot{Second: second, Count: count})
	}
	sort.Slice(spots, func(i, j int) bool {
		if spots[i].Count == spots[j].Count {
			return spots[i].Second < spots[j].Second
		}
		return spots[i].Count > spots[j].Count
	})
	if n > len(spots) {
		n = len(spots)
	}
	return spots[:n]
}

// TopMissedCharacters returns the most frequently missed expected
// characters, count descending, character ascending on ties.
func TopMissedCharacters(missed map[string]int, n int) []string {
	if n <= 0 || len(missed) == 0 {
		return nil
	}
	type item struct {
		ch    string
		count int
	}
	items := make([]item, 0, len(missed))
	for ch, count := range missed {
		items = append(items, item{ch: ch, count: count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].count == items[j].count {
			return items[i].ch < items[j].ch
		}
		return items[i].count > items[j].count
	})
	if n > len(items) {
		n = len(items)
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, items[i].ch)
	}
	return out
}
