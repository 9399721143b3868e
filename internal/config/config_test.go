package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("FINDMYLINK_REDIS_ADDR", "localhost:6379")

	cfg := Load()

	if cfg.ListenPort != ":8750" {
		t.Errorf("ListenPort = %q, want :8750", cfg.ListenPort)
	}
	if cfg.BackendBaseURL != "https://findmylink.ru" {
		t.Errorf("BackendBaseURL = %q", cfg.BackendBaseURL)
	}
	if cfg.BackendOrigin != "https://findmylink.ru" {
		t.Errorf("BackendOrigin = %q", cfg.BackendOrigin)
	}
	if cfg.DefaultLang != "en" {
		t.Errorf("DefaultLang = %q", cfg.DefaultLang)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
	}
}

func TestLoadRequiresRedisAddr(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("Load() should panic without FINDMYLINK_REDIS_ADDR")
		}
	}()
	Load()
}

func TestBackendOriginStripsPath(t *testing.T) {
	t.Setenv("FINDMYLINK_REDIS_ADDR", "localhost:6379")
	t.Setenv("FINDMYLINK_BACKEND_URL", "https://staging.findmylink.ru/api/v1")

	cfg := Load()
	if cfg.BackendOrigin != "https://staging.findmylink.ru" {
		t.Errorf("BackendOrigin = %q, want scheme://host only", cfg.BackendOrigin)
	}
}

func TestMustOriginPanicsOnGarbage(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("mustOrigin() should panic on an unparsable URL")
		}
	}()
	mustOrigin("not a url")
}

func TestBotStartURL(t *testing.T) {
	tests := []struct {
		name     string
		username string
		payload  string
		want     string
	}{
		{
			name:     "with at prefix",
			username: "@findmlbot",
			payload:  "subscribe",
			want:     "https://t.me/findmlbot?start=subscribe",
		},
		{
			name:     "bare handle",
			username: "findmlbot",
			payload:  "extension",
			want:     "https://t.me/findmlbot?start=extension",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{BotUsername: tt.username}
			if got := cfg.BotStartURL(tt.payload); got != tt.want {
				t.Errorf("BotStartURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMustDurationFallback(t *testing.T) {
	t.Setenv("TEST_DURATION", "garbage")
	if got := mustDuration("TEST_DURATION", 7*time.Second); got != 7*time.Second {
		t.Errorf("mustDuration() = %v, want default on parse failure", got)
	}
	t.Setenv("TEST_DURATION", "250ms")
	if got := mustDuration("TEST_DURATION", 7*time.Second); got != 250*time.Millisecond {
		t.Errorf("mustDuration() = %v", got)
	}
}
