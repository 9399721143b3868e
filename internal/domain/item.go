package domain

import "time"

// ItemKind discriminates the two sources a search result can come from.
// The kind is fixed at construction time and never reinterpreted.
type ItemKind string

const (
	KindBookmark ItemKind = "bookmark"
	KindTab      ItemKind = "tab"
)

// Result is the unified search result: either a BookmarkItem or a TabItem.
// Each variant carries only the fields its source actually provides.
type Result interface {
	Kind() ItemKind

	// Title may be empty for tabs that never finished loading.
	Title() string

	// URL may be empty (e.g. a tab on an internal page).
	URL() string

	// LastUsed is the normalized timestamp used for date sorting:
	// dateAdded for bookmarks, lastAccessed for tabs.
	// The zero time means the source never provided one.
	LastUsed() time.Time
}

// BookmarkItem is a flattened leaf of the browser bookmark tree.
type BookmarkItem struct {
	// ID is the browser-assigned bookmark node id.
	ID string

	BookmarkTitle string
	BookmarkURL   string

	// DateAdded is zero when the browser did not report one.
	DateAdded time.Time

	// ParentID is the immediate parent folder node id.
	// It is the only tree relation kept after flattening and is used
	// solely to resolve a folder label for display.
	ParentID string
}

func (b BookmarkItem) Kind() ItemKind      { return KindBookmark }
func (b BookmarkItem) Title() string       { return b.BookmarkTitle }
func (b BookmarkItem) URL() string         { return b.BookmarkURL }
func (b BookmarkItem) LastUsed() time.Time { return b.DateAdded }

// TabItem is a live browser tab. Volatile: re-fetched on demand, never stored.
type TabItem struct {
	// ID is the browser tab id. Zero means the browser omitted it.
	ID int

	TabTitle string
	TabURL   string

	// LastAccessed is zero when the browser did not report one.
	LastAccessed time.Time

	WindowID int
	Active   bool
}

func (t TabItem) Kind() ItemKind      { return KindTab }
func (t TabItem) Title() string       { return t.TabTitle }
func (t TabItem) URL() string         { return t.TabURL }
func (t TabItem) LastUsed() time.Time { return t.LastAccessed }

// BookmarkNode is a raw node of the browser bookmark tree as delivered by
// the bridge. Folders have no URL; only leaves carrying a URL survive
// flattening.
type BookmarkNode struct {
	ID        string
	Title     string
	URL       string
	ParentID  string
	DateAdded time.Time
	Children  []BookmarkNode
}

// FlattenBookmarks walks the tree and keeps exactly the nodes having a URL,
// at any depth. Tree structure is discarded except each node's immediate
// parent id.
func FlattenBookmarks(nodes []BookmarkNode) []BookmarkItem {
	var out []BookmarkItem
	var walk func(ns []BookmarkNode)
	walk = func(ns []BookmarkNode) {
		for _, n := range ns {
			if n.URL != "" {
				out = append(out, BookmarkItem{
					ID:            n.ID,
					BookmarkTitle: n.Title,
					BookmarkURL:   n.URL,
					DateAdded:     n.DateAdded,
					ParentID:      n.ParentID,
				})
			}
			if len(n.Children) > 0 {
				walk(n.Children)
			}
		}
	}
	walk(nodes)
	return out
}

// BookmarkedURLs builds the URL set used to derive the star state of tabs.
// Matching is exact string equality, no normalization.
func BookmarkedURLs(bookmarks []BookmarkItem) map[string]bool {
	urls := make(map[string]bool, len(bookmarks))
	for _, b := range bookmarks {
		if b.BookmarkURL != "" {
			urls[b.BookmarkURL] = true
		}
	}
	return urls
}

// BookmarksByURL returns every bookmark whose URL exactly matches url.
// Un-starring a tab removes all of them: "un-bookmark this URL everywhere".
func BookmarksByURL(bookmarks []BookmarkItem, url string) []BookmarkItem {
	var matches []BookmarkItem
	for _, b := range bookmarks {
		if b.BookmarkURL == url {
			matches = append(matches, b)
		}
	}
	return matches
}
