package bridge

import (
	"time"

	"github.com/findmylink/companion/internal/domain"
)

// wireBookmarkNode is a chrome.bookmarks.BookmarkTreeNode as serialized by
// the extension. Timestamps arrive as milliseconds since the epoch.
type wireBookmarkNode struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	URL       string             `json:"url,omitempty"`
	ParentID  string             `json:"parentId,omitempty"`
	DateAdded float64            `json:"dateAdded,omitempty"`
	Children  []wireBookmarkNode `json:"children,omitempty"`
}

// wireTab is a chrome.tabs.Tab as serialized by the extension.
type wireTab struct {
	ID           int     `json:"id,omitempty"`
	Title        string  `json:"title,omitempty"`
	URL          string  `json:"url,omitempty"`
	LastAccessed float64 `json:"lastAccessed,omitempty"`
	WindowID     int     `json:"windowId,omitempty"`
	Active       bool    `json:"active,omitempty"`
}

func mapBookmarkNode(n wireBookmarkNode) domain.BookmarkNode {
	return domain.BookmarkNode{
		ID:        n.ID,
		Title:     n.Title,
		URL:       n.URL,
		ParentID:  n.ParentID,
		DateAdded: msToTime(n.DateAdded),
		Children:  mapBookmarkNodes(n.Children),
	}
}

func mapBookmarkNodes(nodes []wireBookmarkNode) []domain.BookmarkNode {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]domain.BookmarkNode, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, mapBookmarkNode(n))
	}
	return out
}

func mapTabs(tabs []wireTab) []domain.TabItem {
	out := make([]domain.TabItem, 0, len(tabs))
	for _, t := range tabs {
		out = append(out, domain.TabItem{
			ID:           t.ID,
			TabTitle:     t.Title,
			TabURL:       t.URL,
			LastAccessed: msToTime(t.LastAccessed),
			WindowID:     t.WindowID,
			Active:       t.Active,
		})
	}
	return out
}

// msToTime converts a millisecond epoch timestamp, keeping the zero value
// for "never reported".
func msToTime(ms float64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(int64(ms)).UTC()
}
