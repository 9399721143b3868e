package browser

import (
	"context"

	"github.com/findmylink/companion/internal/domain"
)

// Browser is the surface of the host browser the companion needs: enumerate
// the bookmark tree, mutate bookmarks, query and drive tabs and windows, and
// push extension-level notifications. Every call goes to the live browser;
// nothing is cached on this side.
type Browser interface {
	// BookmarkTree returns the full bookmark tree roots.
	BookmarkTree(ctx context.Context) ([]domain.BookmarkNode, error)

	// Bookmark returns a single node by id. Used to resolve the parent
	// folder title of a flattened leaf.
	Bookmark(ctx context.Context, id string) (domain.BookmarkNode, error)

	// CreateBookmark adds a bookmark under the browser's default folder.
	CreateBookmark(ctx context.Context, title, url string) (domain.BookmarkNode, error)

	// RemoveBookmark deletes one bookmark node by id.
	RemoveBookmark(ctx context.Context, id string) error

	// Tabs returns every open tab across all windows.
	Tabs(ctx context.Context) ([]domain.TabItem, error)

	// ActivateTab makes the tab active within its window.
	ActivateTab(ctx context.Context, tabID int) error

	// FocusWindow brings the window to the foreground.
	FocusWindow(ctx context.Context, windowID int) error

	// CreateTab opens a new tab navigating to url.
	CreateTab(ctx context.Context, url string) error

	// Notify broadcasts an extension runtime message (e.g. token_updated)
	// so open views reload themselves.
	Notify(ctx context.Context, event string) error
}
