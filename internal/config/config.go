package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ListenPort      string        // ex: ":8750"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	BackendBaseURL string // FindMyLink backend, ex: https://findmylink.ru
	BackendOrigin  string // derived from BackendBaseURL, login messages from any other origin are dropped
	BotUsername    string // Telegram bot handle, ex: findmlbot

	LocaleDir   string // directory holding the <lang>.yaml translation files
	DefaultLang string // fallback language, ex: "en"

	BridgeAddr string // TCP bridge address for dev; empty => stdio native-messaging host

	// Redis (credential store)
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("FINDMYLINK_LISTEN_PORT", ":8750"),
		ShutdownTimeout: mustDuration("FINDMYLINK_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("FINDMYLINK_LOG_LEVEL", "info"),
		PrettyLog: mustBool("FINDMYLINK_PRETTY_LOG", true),

		// Backend
		BackendBaseURL: getenv("FINDMYLINK_BACKEND_URL", "https://findmylink.ru"),
		BotUsername:    getenv("FINDMYLINK_BOT_USERNAME", "findmlbot"),

		// Translations
		LocaleDir:   getenv("FINDMYLINK_LOCALE_DIR", "locales"),
		DefaultLang: getenv("FINDMYLINK_DEFAULT_LANG", "en"),

		// Browser bridge
		BridgeAddr: getenv("FINDMYLINK_BRIDGE_ADDR", ""),

		// Redis settings
		RedisAddr:             requireEnv("FINDMYLINK_REDIS_ADDR"),
		RedisUser:             getenv("FINDMYLINK_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("FINDMYLINK_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("FINDMYLINK_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("FINDMYLINK_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),
	}

	cfg.BackendOrigin = mustOrigin(cfg.BackendBaseURL)

	if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
		panic("❌ FATAL: FINDMYLINK_REDIS_PASSWORD is required when FINDMYLINK_REDIS_PASSWORD_REQUIRED=true")
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// mustOrigin reduces a base URL to its scheme://host[:port] origin.
func mustOrigin(baseURL string) string {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		panic(fmt.Sprintf("❌ FATAL: Invalid FINDMYLINK_BACKEND_URL: %s", baseURL))
	}
	return u.Scheme + "://" + u.Host
}

// BotStartURL is the deep link opening the Telegram bot with a start payload.
func (c *Config) BotStartURL(payload string) string {
	handle := strings.TrimPrefix(c.BotUsername, "@")
	return fmt.Sprintf("https://t.me/%s?start=%s", handle, payload)
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
