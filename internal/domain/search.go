package domain

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Filter selects which tagged subset enters the text filter.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterBookmarks Filter = "bookmarks"
	FilterTabs      Filter = "tabs"
)

// SortKey selects the result ordering.
type SortKey string

const (
	SortDate SortKey = "date" // descending by LastUsed, missing timestamps sink
	SortName SortKey = "name" // locale-aware title comparison
	SortType SortKey = "type" // kind tag, so all bookmarks before all tabs
)

// Query is the full search state for one aggregation pass. It is an explicit
// value so the aggregation stays a pure function over the two snapshots.
type Query struct {
	Text   string
	Filter Filter
	Sort   SortKey
}

// ParseFilter maps a raw filter value to a Filter, defaulting to all.
func ParseFilter(s string) Filter {
	switch Filter(s) {
	case FilterBookmarks:
		return FilterBookmarks
	case FilterTabs:
		return FilterTabs
	default:
		return FilterAll
	}
}

// ParseSortKey maps a raw sort value to a SortKey, defaulting to date.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortName:
		return SortName
	case SortType:
		return SortType
	default:
		return SortDate
	}
}

// nameCollator backs the locale-aware title comparison for SortName.
// language.Und gives the neutral default ordering.
var nameCollator = collate.New(language.Und)

// Search merges the two snapshots into one tagged, filtered, sorted list.
// It is re-derived from scratch on every call; there is no incremental
// diffing. Pass a nil tabs slice when the view is restricted to bookmarks.
func Search(bookmarks []BookmarkItem, tabs []TabItem, q Query) []Result {
	results := make([]Result, 0, len(bookmarks)+len(tabs))

	if q.Filter == FilterAll || q.Filter == FilterBookmarks {
		for _, b := range bookmarks {
			results = append(results, b)
		}
	}
	if q.Filter == FilterAll || q.Filter == FilterTabs {
		for _, t := range tabs {
			results = append(results, t)
		}
	}

	if needle := strings.ToLower(q.Text); needle != "" {
		filtered := results[:0]
		for _, r := range results {
			if strings.Contains(strings.ToLower(r.Title()), needle) ||
				(r.URL() != "" && strings.Contains(strings.ToLower(r.URL()), needle)) {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}

	sortResults(results, q.Sort)
	return results
}

func sortResults(results []Result, key SortKey) {
	switch key {
	case SortName:
		sort.SliceStable(results, func(i, j int) bool {
			return nameCollator.CompareString(results[i].Title(), results[j].Title()) < 0
		})
	case SortType:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Kind() < results[j].Kind()
		})
	default:
		// Descending by timestamp. The zero time is the minimum, so items
		// without one naturally sink to the end.
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].LastUsed().After(results[j].LastUsed())
		})
	}
}
