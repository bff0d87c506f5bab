package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

var ErrEmptyToken = errors.New("error getting PW_TELEGRAM_TOKEN: variable not specified or contains an empty string")

type Config struct {
	Env           string // Env is the current environment: local, development, production.
	StoragePath   string
	HTTPAddr      string
	ShareTTL      time.Duration // ShareTTL is how long a share code stays valid.
	CheckInterval time.Duration // CheckInterval is the pause between store page scans.
	JoinRate      int           // JoinRate is the number of join attempts allowed per user and minute.
	Store         Store
	Tg            Telegram
}

// Store is the shop whose price page is watched. The checker is disabled when URL is empty.
type Store struct {
	ID   string
	Name string
	URL  string
}

type Telegram struct {
	Token   string        // Token is an unique telgram bot token.
	Timeout time.Duration // Timeout is a poller timeout duration.
}

// MustLoad loads the configuration from environment variables and returns a Config struct.
func MustLoad() *Config {
	// Automatically binds environment variables to config keys
	viper.SetEnvPrefix("PW")
	viper.AutomaticEnv()

	// optional args
	viper.SetDefault("ENV", "production")
	viper.SetDefault("TELEGRAM_TIMEOUT", "15s")
	viper.SetDefault("STORAGE_PATH", "pricewatch.db")
	viper.SetDefault("HTTP_ADDR", ":8080")
	viper.SetDefault("SHARE_TTL", "24h")
	viper.SetDefault("CHECK_INTERVAL", "1h")
	viper.SetDefault("JOIN_RATE", 5)
	viper.SetDefault("STORE_ID", "default")

	if viper.GetString("TELEGRAM_TOKEN") == "" {
		panic(ErrEmptyToken)
	}

	storeName := viper.GetString("STORE_NAME")
	if storeName == "" {
		storeName = viper.GetString("STORE_ID")
	}

	return &Config{
		Env:           viper.GetString("ENV"),
		StoragePath:   viper.GetString("STORAGE_PATH"),
		HTTPAddr:      viper.GetString("HTTP_ADDR"),
		ShareTTL:      viper.GetDuration("SHARE_TTL"),
		CheckInterval: viper.GetDuration("CHECK_INTERVAL"),
		JoinRate:      viper.GetInt("JOIN_RATE"),
		Store: Store{
			ID:   viper.GetString("STORE_ID"),
			Name: storeName,
			URL:  viper.GetString("STORE_URL"),
		},
		Tg: Telegram{
			Token:   viper.GetString("TELEGRAM_TOKEN"),
			Timeout: viper.GetDuration("TELEGRAM_TIMEOUT"),
		},
	}
}
