package handlers

import (
	"net/http"
	"time"

	"github.com/findmylink/companion/internal/httpserver/deps"
	"github.com/findmylink/companion/internal/i18n"
	"github.com/findmylink/companion/internal/view"
)

type loginSection struct {
	Description string `json:"description"`
	Button      string `json:"button"`
	URL         string `json:"url"`
}

type subscriptionSection struct {
	// Status is the indicator variant: green, yellow or red. Empty when
	// the profile carried no subscription at all.
	Status string `json:"status,omitempty"`

	// Label is the localized status line, e.g. "Subscription active
	// until 01.09.2026".
	Label string `json:"label,omitempty"`

	Description     string `json:"description,omitempty"`
	SubscribeButton string `json:"subscribe_button,omitempty"`
	SubscribeURL    string `json:"subscribe_url,omitempty"`
	RefreshButton   string `json:"refresh_button"`
}

type viewResponse struct {
	State         string `json:"state"`
	UserID        int64  `json:"user_id,omitempty"`
	OnlyBookmarks bool   `json:"only_bookmarks"`
	Placeholder   string `json:"placeholder"`

	Login        *loginSection        `json:"login,omitempty"`
	Subscription *subscriptionSection `json:"subscription,omitempty"`
}

// View runs the one-shot classification and returns everything the popup
// needs to render its top-level state, with all texts already localized.
func View(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tr := translator(d, r)

		sel, err := d.Selector.Classify(ctx)
		if err != nil {
			logHandlerError(d, "view", err)
			writeError(w, http.StatusInternalServerError, "internal", "")
			return
		}

		resp := viewResponse{
			State:         string(sel.State),
			UserID:        sel.UserID,
			OnlyBookmarks: sel.OnlyBookmarks,
			Placeholder:   tr.T("bookmark_search.placeholder", nil),
		}

		switch sel.State {
		case view.StateLoggedOut:
			resp.Login = &loginSection{
				Description: tr.T("login.description", nil),
				Button:      tr.T("login.button", nil),
				URL:         d.Auth.LoginURL(),
			}

		case view.StateNoSubscription:
			sec := &subscriptionSection{
				Description:     tr.T("subscription.description", nil),
				SubscribeButton: tr.T("subscription.subscribe_button", nil),
				SubscribeURL:    d.BotStartURL("subscribe"),
				RefreshButton:   tr.T("subscription.refresh_status", nil),
			}
			if sel.Subscription != nil {
				sec.Status = string(sel.Status)
				sec.Label = tr.T("subscription.inactive", nil)
			}
			resp.Subscription = sec

		case view.StateSubscribed:
			resp.Subscription = &subscriptionSection{
				Status: string(sel.Status),
				Label: tr.T("subscription.active", map[string]string{
					"end_date": formatEndDate(tr, sel.Subscription.EndDate),
				}),
				RefreshButton: tr.T("subscription.refresh_status", nil),
			}
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

// formatEndDate renders the end date the way the locale writes dates.
func formatEndDate(tr *i18n.Translator, t time.Time) string {
	if tr.Lang() == "ru" {
		return t.Format("02.01.2006")
	}
	return t.Format("1/2/2006")
}
