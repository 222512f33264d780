package cmd

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read at startup, optionally from a .env file.
const (
	envDataPath  = "DINECLI_DATA"
	envFeedURL   = "DINECLI_FEED_URL"
	envLocations = "DINECLI_LOCATIONS"

	defaultDataPath = "dining_snapshot.csv"
)

type config struct {
	DataPath  string
	FeedURL   string
	Locations []string
}

// loadConfig merges .env, the process environment and flags. Flags win.
func loadConfig(logger *slog.Logger) config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("ignoring unreadable .env", "error", err)
	}

	cfg := config{
		DataPath:  os.Getenv(envDataPath),
		FeedURL:   os.Getenv(envFeedURL),
		Locations: splitList(os.Getenv(envLocations)),
	}
	if cfg.DataPath == "" {
		cfg.DataPath = defaultDataPath
	}
	if flagData != "" {
		cfg.DataPath = flagData
	}
	if flagFeed != "" {
		cfg.FeedURL = flagFeed
	}
	if loc := strings.TrimSpace(flagLocation); loc != "" {
		cfg.Locations = []string{loc}
	}

	logger.Debug("configuration loaded",
		"data", cfg.DataPath,
		"feed", cfg.FeedURL != "",
		"locations", cfg.Locations,
	)
	return cfg
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
