package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/findmylink/companion/internal/domain"
	"github.com/findmylink/companion/internal/httpserver/deps"
	"github.com/findmylink/companion/internal/logger"
)

type openRequest struct {
	Kind     string `json:"kind"`
	URL      string `json:"url"`
	TabID    int    `json:"tab_id"`
	WindowID int    `json:"window_id"`
}

// OpenItem activates a live tab in place or opens the URL in a new tab.
// A tab result whose tab has since closed falls back to a new tab too.
func OpenItem(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req openRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid json body")
			return
		}

		if req.Kind == string(domain.KindTab) && req.TabID != 0 {
			if err := d.Browser.ActivateTab(ctx, req.TabID); err == nil {
				if req.WindowID != 0 {
					if err := d.Browser.FocusWindow(ctx, req.WindowID); err != nil {
						d.Logger.Warn("window focus failed",
							logger.Int("window_id", req.WindowID),
							logger.Error(err))
					}
				}
				writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
				return
			}
			d.Logger.Debug("tab activation failed, opening url instead",
				logger.Int("tab_id", req.TabID))
		}

		if req.URL == "" {
			writeError(w, http.StatusBadRequest, "bad_request", "url is required")
			return
		}
		if err := d.Browser.CreateTab(ctx, req.URL); err != nil {
			logHandlerError(d, "open", err)
			writeError(w, http.StatusBadGateway, "browser_unavailable", "")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

type toggleRequest struct {
	Kind  string `json:"kind"`
	ID    string `json:"id"`
	URL   string `json:"url"`
	Title string `json:"title"`

	// The query the popup was showing so the response carries a fresh
	// render of the same list.
	Query  string `json:"query"`
	Filter string `json:"filter"`
	Sort   string `json:"sort"`
}

// ToggleBookmark stars or un-stars a result. Un-starring removes every
// bookmark carrying the URL, not just one copy, so the star state stays
// consistent across duplicates. The response is the re-rendered result
// list, fetched fresh after the mutation.
func ToggleBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tr := translator(d, r)

		var req toggleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid json body")
			return
		}

		// Bookmark toggles work in every state, including logged out.
		// Only tab starring needs the subscription.
		sel, err := d.Selector.Classify(ctx)
		if err != nil {
			logHandlerError(d, "toggle", err)
			writeError(w, http.StatusInternalServerError, "internal", "")
			return
		}
		if sel.OnlyBookmarks && req.Kind == string(domain.KindTab) {
			writeError(w, http.StatusForbidden, "subscription_required", "")
			return
		}

		switch req.Kind {
		case string(domain.KindBookmark):
			if req.ID == "" {
				writeError(w, http.StatusBadRequest, "bad_request", "id is required")
				return
			}
			if err := d.Browser.RemoveBookmark(ctx, req.ID); err != nil {
				logHandlerError(d, "toggle", err)
				writeError(w, http.StatusBadGateway, "browser_unavailable", "")
				return
			}

		case string(domain.KindTab):
			if req.URL == "" {
				writeError(w, http.StatusBadRequest, "bad_request", "url is required")
				return
			}
			if err := toggleTabBookmark(r, d, req); err != nil {
				logHandlerError(d, "toggle", err)
				writeError(w, http.StatusBadGateway, "browser_unavailable", "")
				return
			}

		default:
			writeError(w, http.StatusBadRequest, "bad_request", "unknown item kind")
			return
		}

		q := domain.Query{
			Text:   strings.TrimSpace(req.Query),
			Filter: domain.ParseFilter(req.Filter),
			Sort:   domain.ParseSortKey(req.Sort),
		}
		resp, err := renderSearch(ctx, d, tr, q, sel.OnlyBookmarks)
		if err != nil {
			logHandlerError(d, "toggle", err)
			writeError(w, http.StatusBadGateway, "browser_unavailable", "")
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// toggleTabBookmark flips the star on a tab: bookmarked anywhere => remove
// every copy, otherwise create one under the default folder.
func toggleTabBookmark(r *http.Request, d deps.Deps, req toggleRequest) error {
	ctx := r.Context()

	tree, err := d.Browser.BookmarkTree(ctx)
	if err != nil {
		return err
	}
	existing := domain.BookmarksByURL(domain.FlattenBookmarks(tree), req.URL)

	if len(existing) == 0 {
		title := req.Title
		if title == "" {
			title = req.URL
		}
		_, err := d.Browser.CreateBookmark(ctx, title, req.URL)
		return err
	}

	for _, b := range existing {
		if err := d.Browser.RemoveBookmark(ctx, b.ID); err != nil {
			return err
		}
	}
	d.Logger.Debug("removed bookmarks for url",
		logger.Int("count", len(existing)),
		logger.String("url", req.URL))
	return nil
}
