package config_test

import (
	"testing"
	"time"

	"github.com/Houeta/pricewatch/internal/config"
	"github.com/stretchr/testify/assert"
)

func TestMustLoad(t *testing.T) {
	t.Run("error - empty required env variable", func(t *testing.T) {
		t.Setenv("PW_TELEGRAM_TOKEN", "")

		assert.PanicsWithError(t, config.ErrEmptyToken.Error(), func() {
			config.MustLoad()
		})
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("PW_TELEGRAM_TOKEN", "telegramToken")

		cfg := config.MustLoad()

		assert.Equal(t, "production", cfg.Env)
		assert.Equal(t, "pricewatch.db", cfg.StoragePath)
		assert.Equal(t, ":8080", cfg.HTTPAddr)
		assert.Equal(t, 24*time.Hour, cfg.ShareTTL)
		assert.Equal(t, time.Hour, cfg.CheckInterval)
		assert.Equal(t, 5, cfg.JoinRate)
		assert.Equal(t, "default", cfg.Store.ID)
		assert.Equal(t, "default", cfg.Store.Name)
		assert.Empty(t, cfg.Store.URL)
	})

	t.Run("success", func(t *testing.T) {
		t.Setenv("PW_ENV", "local")
		t.Setenv("PW_TELEGRAM_TOKEN", "telegramToken")
		t.Setenv("PW_STORAGE_PATH", "some/path/to/db")
		t.Setenv("PW_HTTP_ADDR", "127.0.0.1:9000")
		t.Setenv("PW_SHARE_TTL", "2h")
		t.Setenv("PW_CHECK_INTERVAL", "30m")
		t.Setenv("PW_JOIN_RATE", "3")
		t.Setenv("PW_STORE_ID", "corner")
		t.Setenv("PW_STORE_NAME", "Corner Shop")
		t.Setenv("PW_STORE_URL", "https://example.com/prices")

		cfg := config.MustLoad()

		assert.Equal(t, "local", cfg.Env)
		assert.Equal(t, 15*time.Second, cfg.Tg.Timeout)
		assert.Equal(t, "telegramToken", cfg.Tg.Token)
		assert.Equal(t, "some/path/to/db", cfg.StoragePath)
		assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
		assert.Equal(t, 2*time.Hour, cfg.ShareTTL)
		assert.Equal(t, 30*time.Minute, cfg.CheckInterval)
		assert.Equal(t, 3, cfg.JoinRate)
		assert.Equal(t, config.Store{ID: "corner", Name: "Corner Shop", URL: "https://example.com/prices"}, cfg.Store)
	})
}
