package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/findmylink/companion/internal/domain"
	"github.com/findmylink/companion/internal/httpserver/deps"
	"github.com/findmylink/companion/internal/i18n"
	"github.com/findmylink/companion/internal/logger"
)

type searchItem struct {
	Kind  string `json:"kind"`
	Title string `json:"title"`
	URL   string `json:"url"`

	// ID is the bookmark node id, set for bookmark results only.
	ID string `json:"id,omitempty"`

	// TabID and WindowID locate a tab result in the live browser.
	TabID    int `json:"tab_id,omitempty"`
	WindowID int `json:"window_id,omitempty"`

	// Folder is the parent folder label of a bookmark, omitted for the
	// top-level bar.
	Folder string `json:"folder,omitempty"`

	// Age is the humanized time since the item was added or last used.
	Age string `json:"age,omitempty"`

	// Bookmarked reports whether the result's URL exists anywhere in the
	// bookmark tree. Always true for bookmark results; drives the star on
	// tab results.
	Bookmarked bool `json:"bookmarked"`
}

type searchEmpty struct {
	Message string `json:"message"`
	Hint    string `json:"hint"`
}

type searchResponse struct {
	Items         []searchItem `json:"items"`
	Footer        string       `json:"footer"`
	OnlyBookmarks bool         `json:"only_bookmarks"`
	Empty         *searchEmpty `json:"empty,omitempty"`
}

// Search serves the unified result list for the popup. Both sources are
// re-fetched from the browser on every request; nothing is cached between
// keystrokes.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tr := translator(d, r)

		// Every state serves the search; logged-out and unsubscribed users
		// just get the bookmarks-only variant.
		sel, err := d.Selector.Classify(ctx)
		if err != nil {
			logHandlerError(d, "search", err)
			writeError(w, http.StatusInternalServerError, "internal", "")
			return
		}

		q := domain.Query{
			Text:   strings.TrimSpace(r.URL.Query().Get("q")),
			Filter: domain.ParseFilter(r.URL.Query().Get("filter")),
			Sort:   domain.ParseSortKey(r.URL.Query().Get("sort")),
		}

		d.Logger.Debug("search request",
			logger.String("query", q.Text),
			logger.String("filter", string(q.Filter)),
			logger.String("sort", string(q.Sort)))

		resp, err := renderSearch(ctx, d, tr, q, sel.OnlyBookmarks)
		if err != nil {
			logHandlerError(d, "search", err)
			writeError(w, http.StatusBadGateway, "browser_unavailable", "")
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// renderSearch fetches both sources fresh, runs the query and shapes the
// response. Shared by the search and toggle endpoints so a mutation returns
// the same list the next search would.
func renderSearch(ctx context.Context, d deps.Deps, tr *i18n.Translator, q domain.Query, onlyBookmarks bool) (searchResponse, error) {
	tree, err := d.Browser.BookmarkTree(ctx)
	if err != nil {
		return searchResponse{}, err
	}
	bookmarks := domain.FlattenBookmarks(tree)

	var tabs []domain.TabItem
	if !onlyBookmarks {
		tabs, err = d.Browser.Tabs(ctx)
		if err != nil {
			return searchResponse{}, err
		}
	}

	results := domain.Search(bookmarks, tabs, q)
	starred := domain.BookmarkedURLs(bookmarks)

	now := d.TimeNow()
	folders := map[string]string{}
	items := make([]searchItem, 0, len(results))

	for _, res := range results {
		item := searchItem{
			Kind:       string(res.Kind()),
			Title:      res.Title(),
			URL:        res.URL(),
			Age:        humanizeAge(tr, now, res.LastUsed()),
			Bookmarked: starred[res.URL()],
		}

		switch v := res.(type) {
		case domain.BookmarkItem:
			item.ID = v.ID
			item.Folder = folderLabel(ctx, d, folders, v.ParentID)
		case domain.TabItem:
			item.TabID = v.ID
			item.WindowID = v.WindowID
		}

		items = append(items, item)
	}

	resp := searchResponse{
		Items:         items,
		Footer:        tr.ResultsFooter(len(items)),
		OnlyBookmarks: onlyBookmarks,
	}

	if len(items) == 0 && q.Text != "" {
		resp.Empty = &searchEmpty{
			Message: tr.T("bookmark_search.no_results", nil),
			Hint:    tr.T("search.try_changing_query", nil),
		}
	}

	return resp, nil
}

// rootFolderTitles are the browser-managed top-level folders whose names add
// no information next to a result.
var rootFolderTitles = map[string]bool{
	"Bookmarks bar":   true,
	"Other bookmarks": true,
	"Закладки":        true,
	"Панель закладок": true,
}

// folderLabel resolves the parent folder title of a bookmark, memoized per
// request. Lookup failures degrade to an empty label.
func folderLabel(ctx context.Context, d deps.Deps, cache map[string]string, parentID string) string {
	if parentID == "" {
		return ""
	}
	if title, ok := cache[parentID]; ok {
		return title
	}

	title := ""
	node, err := d.Browser.Bookmark(ctx, parentID)
	if err != nil {
		d.Logger.Debug("parent folder lookup failed",
			logger.String("parent_id", parentID),
			logger.Error(err))
	} else if !rootFolderTitles[node.Title] {
		title = node.Title
	}

	cache[parentID] = title
	return title
}

func humanizeAge(tr *i18n.Translator, now, t time.Time) string {
	if t.IsZero() {
		return ""
	}
	since := now.Sub(t)
	switch {
	case since < time.Hour:
		return tr.T("time.just_now", nil)
	case since < 24*time.Hour:
		return tr.T("time.hours_ago", map[string]string{
			"hours": strconv.Itoa(int(since / time.Hour)),
		})
	default:
		return tr.T("time.days_ago", map[string]string{
			"days": strconv.Itoa(int(since / (24 * time.Hour))),
		})
	}
}
