// Package config loads and persists the application configuration from a
// JSON file under the user's config directory.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/codefionn/exprschnell/internal/consts"
)

// Config represents application configuration
type Config struct {
	MaxDepth        int    `json:"max_depth"`         // maximum parenthesis nesting depth
	Precision       int    `json:"precision"`         // fractional digits for float output, -1 for shortest
	LogLevel        string `json:"log_level"`         // debug, info, warn, error, none
	LogPath         string `json:"log_path"`
	HistoryPath     string `json:"history_path"`
	DisableHistory  bool   `json:"disable_history"`
	MaxCacheEntries int    `json:"max_cache_entries"`
	PuzzleAttempts  int    `json:"puzzle_attempts"`
}

func defaultConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		if appData := strings.TrimSpace(os.Getenv("APPDATA")); appData != "" {
			return filepath.Join(appData, "exprschnell")
		}
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, "AppData", "Roaming", "exprschnell")
	default:
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, ".config", "exprschnell")
	}
}

func defaultStateDir() string {
	switch runtime.GOOS {
	case "linux":
		if stateHome := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); stateHome != "" {
			return filepath.Join(stateHome, "exprschnell")
		}
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, ".local", "state", "exprschnell")
	case "windows":
		if localAppData := strings.TrimSpace(os.Getenv("LOCALAPPDATA")); localAppData != "" {
			return filepath.Join(localAppData, "exprschnell")
		}
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, "AppData", "Local", "exprschnell")
	default:
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, ".config", "exprschnell")
	}
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	stateDir := defaultStateDir()

	return &Config{
		MaxDepth:        consts.DefaultMaxNestingDepth,
		Precision:       consts.DefaultPrecision,
		LogLevel:        "info",
		LogPath:         filepath.Join(stateDir, "exprschnell.log"),
		HistoryPath:     filepath.Join(stateDir, "history.db"),
		MaxCacheEntries: consts.DefaultMaxCacheEntries,
		PuzzleAttempts:  consts.DefaultPuzzleAttempts,
	}
}

// Load loads configuration from file. A missing file yields the defaults;
// a present file only overrides the fields it sets.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	stateDir := defaultStateDir()
	if config.MaxDepth <= 0 {
		config.MaxDepth = consts.DefaultMaxNestingDepth
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.LogPath == "" {
		config.LogPath = filepath.Join(stateDir, "exprschnell.log")
	}
	if config.HistoryPath == "" {
		config.HistoryPath = filepath.Join(stateDir, "history.db")
	}
	if config.MaxCacheEntries <= 0 {
		config.MaxCacheEntries = consts.DefaultMaxCacheEntries
	}
	if config.PuzzleAttempts <= 0 {
		config.PuzzleAttempts = consts.DefaultPuzzleAttempts
	}

	return config, nil
}

// Save saves configuration to file
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// GetConfigPath returns the default config path
func GetConfigPath() string {
	return filepath.Join(defaultConfigDir(), "config.json")
}
