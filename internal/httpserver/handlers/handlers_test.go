package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/findmylink/companion/internal/api"
	"github.com/findmylink/companion/internal/auth"
	"github.com/findmylink/companion/internal/browser"
	"github.com/findmylink/companion/internal/credstore"
	"github.com/findmylink/companion/internal/domain"
	"github.com/findmylink/companion/internal/httpserver/deps"
	"github.com/findmylink/companion/internal/i18n"
	"github.com/findmylink/companion/internal/logger"
	"github.com/findmylink/companion/internal/view"
)

const backendURL = "https://findmylink.ru"

// fakeBackend serves one canned profile, or the collapsed failure.
type fakeBackend struct {
	profile *api.Profile
	promo   *api.PromoResult
	login   *api.AuthResult
	fail    bool
}

func (f *fakeBackend) Profile(ctx context.Context, token string) (*api.Profile, error) {
	if f.fail || f.profile == nil {
		return nil, api.ErrUnavailable
	}
	return f.profile, nil
}

func (f *fakeBackend) Subscription(ctx context.Context, token string, userID int64) (*api.SubscriptionInfo, error) {
	return nil, api.ErrUnavailable
}

func (f *fakeBackend) ApplyPromo(ctx context.Context, token, code string) (*api.PromoResult, error) {
	if f.fail || f.promo == nil {
		return nil, api.ErrUnavailable
	}
	return f.promo, nil
}

func (f *fakeBackend) TelegramAuth(ctx context.Context, params map[string]string) (*api.AuthResult, error) {
	if f.fail || f.login == nil {
		return nil, api.ErrUnavailable
	}
	return f.login, nil
}

func subscribedProfile(end time.Time) *api.Profile {
	return &api.Profile{
		UserID: 42,
		Subscription: &api.SubscriptionInfo{
			EndDate: end.Format(time.RFC3339),
			Active:  true,
		},
	}
}

type fixture struct {
	deps    deps.Deps
	browser *browser.Memory
	store   *credstore.MemoryStore
}

func newFixture(t *testing.T, backend api.Backend) fixture {
	t.Helper()

	log := logger.New("error", false)
	bundle, err := i18n.Load("../../../locales", "en", log)
	require.NoError(t, err)

	mem := browser.NewMemory()
	store := credstore.NewMemoryStore()

	return fixture{
		deps: deps.Deps{
			Logger:       log,
			StartTime:    time.Now(),
			TimeNow:      time.Now,
			Browser:      mem,
			Credentials:  store,
			Backend:      backend,
			Translations: bundle,
			Auth:         auth.NewFlow(store, mem, backendURL, backendURL, log),
			Selector:     view.NewSelector(store, backend, log),
			DefaultLang:  "en",
			BotStartURL: func(payload string) string {
				return "https://t.me/findmlbot?start=" + payload
			},
		},
		browser: mem,
		store:   store,
	}
}

func (f fixture) login(t *testing.T) {
	t.Helper()
	require.NoError(t, f.store.SetToken(context.Background(), "tok"))
}

func doJSON(t *testing.T, h http.HandlerFunc, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestSearchLoggedOutServesBookmarksOnly(t *testing.T) {
	f := newFixture(t, &fakeBackend{})

	f.browser.SeedBookmark(domain.BookmarkNode{ID: "10", Title: "GitHub", URL: "https://github.com"})
	f.browser.SeedTab(domain.TabItem{ID: 7, TabTitle: "GitLab CI", TabURL: "https://gitlab.com/ci", WindowID: 1})

	rec := doJSON(t, Search(f.deps), http.MethodGet, "/search?q=git", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[searchResponse](t, rec)
	assert.True(t, resp.OnlyBookmarks)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "bookmark", resp.Items[0].Kind)
	assert.Equal(t, "GitHub", resp.Items[0].Title)
}

func TestSearchUnified(t *testing.T) {
	f := newFixture(t, &fakeBackend{profile: subscribedProfile(time.Now().Add(90 * 24 * time.Hour))})
	f.login(t)

	f.browser.SeedBookmark(domain.BookmarkNode{ID: "10", Title: "GitHub", URL: "https://github.com"})
	f.browser.SeedTab(domain.TabItem{ID: 7, TabTitle: "GitLab CI", TabURL: "https://gitlab.com/ci", WindowID: 1})
	f.browser.SeedTab(domain.TabItem{ID: 8, TabTitle: "News", TabURL: "https://news.example.com", WindowID: 1})

	rec := doJSON(t, Search(f.deps), http.MethodGet, "/search?q=git", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[searchResponse](t, rec)
	require.Len(t, resp.Items, 2)
	assert.False(t, resp.OnlyBookmarks)
	assert.Equal(t, "2 results found", resp.Footer)
	assert.Nil(t, resp.Empty)

	kinds := map[string]searchItem{}
	for _, it := range resp.Items {
		kinds[it.Kind] = it
	}
	assert.Equal(t, "GitHub", kinds["bookmark"].Title)
	assert.True(t, kinds["bookmark"].Bookmarked)
	assert.Empty(t, kinds["bookmark"].Folder, "bar-level bookmarks carry no folder label")
	assert.Equal(t, 7, kinds["tab"].TabID)
	assert.False(t, kinds["tab"].Bookmarked)
}

func TestSearchFolderLabel(t *testing.T) {
	f := newFixture(t, &fakeBackend{profile: subscribedProfile(time.Now().Add(90 * 24 * time.Hour))})
	f.login(t)

	f.browser.SeedBookmark(domain.BookmarkNode{ID: "20", Title: "Work", ParentID: browser.DefaultFolderID})
	f.browser.SeedBookmark(domain.BookmarkNode{ID: "21", Title: "Tracker", URL: "https://tracker.example.com", ParentID: "20"})

	rec := doJSON(t, Search(f.deps), http.MethodGet, "/search?q=tracker", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[searchResponse](t, rec)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Work", resp.Items[0].Folder)
}

func TestSearchWithoutSubscriptionSkipsTabs(t *testing.T) {
	f := newFixture(t, &fakeBackend{profile: &api.Profile{UserID: 42}})
	f.login(t)

	f.browser.SeedBookmark(domain.BookmarkNode{ID: "10", Title: "GitHub", URL: "https://github.com"})
	f.browser.SeedTab(domain.TabItem{ID: 7, TabTitle: "GitHub tab", TabURL: "https://github.com/x", WindowID: 1})

	rec := doJSON(t, Search(f.deps), http.MethodGet, "/search?q=github", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[searchResponse](t, rec)
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.OnlyBookmarks)
	assert.Equal(t, "bookmark", resp.Items[0].Kind)
}

func TestSearchEmptyState(t *testing.T) {
	f := newFixture(t, &fakeBackend{profile: &api.Profile{UserID: 42}})
	f.login(t)

	rec := doJSON(t, Search(f.deps), http.MethodGet, "/search?q=nothing-matches", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[searchResponse](t, rec)
	assert.Empty(t, resp.Items)
	require.NotNil(t, resp.Empty)
	assert.Equal(t, "No results found", resp.Empty.Message)
	assert.Equal(t, "Try changing your query", resp.Empty.Hint)

	rec = doJSON(t, Search(f.deps), http.MethodGet, "/search?q=", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[searchResponse](t, rec).Empty, "blank query renders no empty-state")
}

func TestSearchRussianFooter(t *testing.T) {
	f := newFixture(t, &fakeBackend{profile: &api.Profile{UserID: 42}})
	f.login(t)

	f.browser.SeedBookmark(domain.BookmarkNode{ID: "10", Title: "GitHub", URL: "https://github.com"})

	rec := doJSON(t, Search(f.deps), http.MethodGet, "/search?q=git&lang=ru", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "1 результат найден", decode[searchResponse](t, rec).Footer)
}

func TestOpenItemActivatesLiveTab(t *testing.T) {
	f := newFixture(t, &fakeBackend{profile: subscribedProfile(time.Now().Add(time.Hour))})
	f.browser.SeedTab(domain.TabItem{ID: 7, TabURL: "https://gitlab.com", WindowID: 3})

	rec := doJSON(t, OpenItem(f.deps), http.MethodPost, "/items/open", openRequest{
		Kind: "tab", TabID: 7, WindowID: 3, URL: "https://gitlab.com",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, f.browser.FocusedWindow())
}

func TestOpenItemFallsBackToNewTab(t *testing.T) {
	f := newFixture(t, &fakeBackend{})

	rec := doJSON(t, OpenItem(f.deps), http.MethodPost, "/items/open", openRequest{
		Kind: "tab", TabID: 99, URL: "https://example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	tabs, err := f.browser.Tabs(context.Background())
	require.NoError(t, err)
	require.Len(t, tabs, 1)
	assert.Equal(t, "https://example.com", tabs[0].TabURL)
}

func TestToggleStarsAndUnstarsTab(t *testing.T) {
	f := newFixture(t, &fakeBackend{profile: subscribedProfile(time.Now().Add(90 * 24 * time.Hour))})
	f.login(t)

	f.browser.SeedTab(domain.TabItem{ID: 7, TabTitle: "GitLab", TabURL: "https://gitlab.com", WindowID: 1})
	// Two copies of the same URL in different folders.
	f.browser.SeedBookmark(domain.BookmarkNode{ID: "30", Title: "GL one", URL: "https://gitlab.com"})
	f.browser.SeedBookmark(domain.BookmarkNode{ID: "31", Title: "GL two", URL: "https://gitlab.com"})

	rec := doJSON(t, ToggleBookmark(f.deps), http.MethodPost, "/items/toggle", toggleRequest{
		Kind: "tab", URL: "https://gitlab.com", Title: "GitLab", Query: "gitlab",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Un-star removed every copy; only the live tab remains, unstarred.
	resp := decode[searchResponse](t, rec)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "tab", resp.Items[0].Kind)
	assert.False(t, resp.Items[0].Bookmarked)

	// Toggling again creates a fresh bookmark.
	rec = doJSON(t, ToggleBookmark(f.deps), http.MethodPost, "/items/toggle", toggleRequest{
		Kind: "tab", URL: "https://gitlab.com", Title: "GitLab", Query: "gitlab",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp = decode[searchResponse](t, rec)
	require.Len(t, resp.Items, 2)
	for _, it := range resp.Items {
		assert.True(t, it.Bookmarked)
	}
}

func TestToggleRemovesBookmark(t *testing.T) {
	f := newFixture(t, &fakeBackend{profile: &api.Profile{UserID: 42}})
	f.login(t)

	f.browser.SeedBookmark(domain.BookmarkNode{ID: "10", Title: "GitHub", URL: "https://github.com"})

	rec := doJSON(t, ToggleBookmark(f.deps), http.MethodPost, "/items/toggle", toggleRequest{
		Kind: "bookmark", ID: "10", Query: "github",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[searchResponse](t, rec).Items)
}

func TestToggleRemovesBookmarkLoggedOut(t *testing.T) {
	f := newFixture(t, &fakeBackend{})

	f.browser.SeedBookmark(domain.BookmarkNode{ID: "10", Title: "GitHub", URL: "https://github.com"})

	rec := doJSON(t, ToggleBookmark(f.deps), http.MethodPost, "/items/toggle", toggleRequest{
		Kind: "bookmark", ID: "10", Query: "github",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[searchResponse](t, rec).Items)
}

func TestToggleTabRequiresSubscription(t *testing.T) {
	f := newFixture(t, &fakeBackend{profile: &api.Profile{UserID: 42}})
	f.login(t)

	rec := doJSON(t, ToggleBookmark(f.deps), http.MethodPost, "/items/toggle", toggleRequest{
		Kind: "tab", URL: "https://gitlab.com",
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "subscription_required", decode[errorResponse](t, rec).Error)
}

func TestViewLoggedOut(t *testing.T) {
	f := newFixture(t, &fakeBackend{})

	rec := doJSON(t, View(f.deps), http.MethodGet, "/view", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[viewResponse](t, rec)
	assert.Equal(t, "logged_out", resp.State)
	assert.True(t, resp.OnlyBookmarks)
	require.NotNil(t, resp.Login)
	assert.Equal(t, backendURL+"/extension-auth", resp.Login.URL)
	assert.Equal(t, "Log in with Telegram", resp.Login.Button)
	assert.Nil(t, resp.Subscription)
}

func TestViewSubscribed(t *testing.T) {
	end := time.Date(2027, 3, 9, 0, 0, 0, 0, time.UTC)
	f := newFixture(t, &fakeBackend{profile: subscribedProfile(end)})
	f.login(t)

	rec := doJSON(t, View(f.deps), http.MethodGet, "/view?lang=ru", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[viewResponse](t, rec)
	assert.Equal(t, "logged_in_with_subscription", resp.State)
	assert.False(t, resp.OnlyBookmarks)
	require.NotNil(t, resp.Subscription)
	assert.Equal(t, "green", resp.Subscription.Status)
	assert.Equal(t, "Подписка активна до 09.03.2027", resp.Subscription.Label)
}

func TestViewNoSubscription(t *testing.T) {
	f := newFixture(t, &fakeBackend{profile: &api.Profile{UserID: 42}})
	f.login(t)

	rec := doJSON(t, View(f.deps), http.MethodGet, "/view", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[viewResponse](t, rec)
	assert.Equal(t, "logged_in_no_subscription", resp.State)
	assert.True(t, resp.OnlyBookmarks)
	require.NotNil(t, resp.Subscription)
	assert.Equal(t, "https://t.me/findmlbot?start=subscribe", resp.Subscription.SubscribeURL)
	assert.Empty(t, resp.Subscription.Status, "no subscription record, no indicator")
}

func TestAuthTokenStoresAndNotifies(t *testing.T) {
	f := newFixture(t, &fakeBackend{})

	rec := doJSON(t, AuthToken(f.deps), http.MethodPost, "/auth/token", tokenRequest{
		Origin: backendURL, Token: "tok-1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	token, err := f.store.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-1", token)
	assert.Equal(t, []string{auth.EventTokenUpdated}, f.browser.Events())
}

func TestAuthTokenRejectsForeignOrigin(t *testing.T) {
	f := newFixture(t, &fakeBackend{})

	rec := doJSON(t, AuthToken(f.deps), http.MethodPost, "/auth/token", tokenRequest{
		Origin: "https://evil.example.com", Token: "tok-1",
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	_, err := f.store.Token(context.Background())
	assert.ErrorIs(t, err, credstore.ErrNotFound)
}

func TestTelegramLogin(t *testing.T) {
	f := newFixture(t, &fakeBackend{login: &api.AuthResult{Token: "tok-tg", UserID: 42}})

	rec := doJSON(t, TelegramLogin(f.deps), http.MethodPost, "/auth/telegram", map[string]string{
		"id": "42", "auth_date": "1756500000", "hash": "abc",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	token, err := f.store.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-tg", token)
	userID, err := f.store.UserID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "42", userID)
	assert.Equal(t, []string{auth.EventTokenUpdated}, f.browser.Events())
}

func TestTelegramLoginMissingHash(t *testing.T) {
	f := newFixture(t, &fakeBackend{})

	rec := doJSON(t, TelegramLogin(f.deps), http.MethodPost, "/auth/telegram", map[string]string{
		"id": "42",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutClearsCredentials(t *testing.T) {
	f := newFixture(t, &fakeBackend{})
	f.login(t)

	rec := doJSON(t, Logout(f.deps), http.MethodPost, "/auth/logout", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := f.store.Token(context.Background())
	assert.ErrorIs(t, err, credstore.ErrNotFound)
}

func TestApplyPromo(t *testing.T) {
	f := newFixture(t, &fakeBackend{promo: &api.PromoResult{Message: "30 days added"}})
	f.login(t)

	rec := doJSON(t, ApplyPromo(f.deps), http.MethodPost, "/promo", promoRequest{Code: "SPRING"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "30 days added", decode[promoResponse](t, rec).Message)
}

func TestApplyPromoWithoutToken(t *testing.T) {
	f := newFixture(t, &fakeBackend{})

	rec := doJSON(t, ApplyPromo(f.deps), http.MethodPost, "/promo", promoRequest{Code: "SPRING"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestApplyPromoBackendDown(t *testing.T) {
	f := newFixture(t, &fakeBackend{fail: true})
	f.login(t)

	rec := doJSON(t, ApplyPromo(f.deps), http.MethodPost, "/promo", promoRequest{Code: "SPRING"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Invalid promo code", decode[errorResponse](t, rec).Message)
}

func TestHealthz(t *testing.T) {
	f := newFixture(t, &fakeBackend{})
	f.deps.Version = "1.2.3"

	rec := doJSON(t, Healthz(f.deps), http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[healthzResponse](t, rec)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
}

func TestReadyz(t *testing.T) {
	f := newFixture(t, &fakeBackend{})

	rec := doJSON(t, Readyz(f.deps), http.MethodGet, "/readyz", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[readyzResponse](t, rec).Ready)
}
