package deps

import (
	"time"

	"github.com/findmylink/companion/internal/api"
	"github.com/findmylink/companion/internal/auth"
	"github.com/findmylink/companion/internal/browser"
	"github.com/findmylink/companion/internal/credstore"
	"github.com/findmylink/companion/internal/i18n"
	"github.com/findmylink/companion/internal/logger"
	"github.com/findmylink/companion/internal/view"
)

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	Browser      browser.Browser  // live browser state via the bridge
	Credentials  credstore.Store  // token / user id persistence
	Backend      api.Backend      // FindMyLink backend client
	Translations *i18n.Bundle     // loaded locale tables
	Auth         *auth.Flow       // Telegram login hand-off
	Selector     *view.Selector   // top-level view classification

	DefaultLang string              // fallback when the request declares no language
	BotStartURL func(string) string // Telegram bot deep link builder
}
