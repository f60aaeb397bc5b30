package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config carries everything the relay reads from the environment. It is
// built once at startup and passed into component constructors; no
// component reads ambient environment state directly.
type Config struct {
	LineChannelSecret string
	LineChannelToken  string

	GeminiAPIKey string
	GeminiModel  string

	// FirebaseURL selects the Firebase Realtime Database store when set;
	// otherwise history lives in a local sqlite file at SQLitePath.
	FirebaseURL string
	SQLitePath  string

	// CWAAPIKey authorizes the open-data weather and earthquake APIs.
	CWAAPIKey string

	DefaultLocation string
	HistoryTokens   int
	Port            int
}

// Load reads configuration from environment variables. Missing messaging
// or model credentials are fatal; everything else has a default.
func Load() (Config, error) {
	cfg := Config{
		LineChannelSecret: os.Getenv("LINE_CHANNEL_SECRET"),
		LineChannelToken:  os.Getenv("LINE_CHANNEL_ACCESS_TOKEN"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       envOrDefault("GEMINI_MODEL", "gemini-1.5-pro"),
		FirebaseURL:       os.Getenv("FIREBASE_URL"),
		SQLitePath:        envOrDefault("SQLITE_PATH", "linebot.db"),
		CWAAPIKey:         os.Getenv("OPEN_API_KEY"),
		DefaultLocation:   envOrDefault("DEFAULT_LOCATION", "台北市"),
		HistoryTokens:     envIntOrDefault("HISTORY_TOKEN_BUDGET", 4096),
		Port:              envIntOrDefault("PORT", 8080),
	}

	if cfg.LineChannelSecret == "" || cfg.LineChannelToken == "" {
		return Config{}, fmt.Errorf("LINE_CHANNEL_SECRET and LINE_CHANNEL_ACCESS_TOKEN are required in environment")
	}
	if cfg.GeminiAPIKey == "" {
		return Config{}, fmt.Errorf("GEMINI_API_KEY is required in environment")
	}
	if cfg.HistoryTokens <= 0 {
		return Config{}, fmt.Errorf("HISTORY_TOKEN_BUDGET must be positive")
	}
	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
