// Package heaprc loads the configuration file consulted by the heapsh
// command-line tool.
package heaprc

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
)

// FileName is the name of the config file, resolved relative to the user's
// home directory.
const FileName = ".heaprc"

// Config holds user preferences shared across the heap command-line tools.
// The file is HuJSON (JSON with comments and trailing commas allowed), so
// it can be hand-edited comfortably.
type Config struct {
	// Format controls how heapsh prints keys/values: "text" (the default)
	// or "hex". Input parsing does not depend on it: a "0x" prefix always
	// selects hex.
	Format string `json:"format,omitempty"`

	// DefaultLimit caps how many entries heapsh's iter command prints when
	// no explicit limit is given on the command line. Zero means
	// unlimited.
	DefaultLimit int `json:"default_limit,omitempty"`
}

// Default returns the configuration used when no rc file is present.
func Default() Config {
	return Config{Format: "text"}
}

// path returns the absolute path to the rc file under the user's home
// directory.
func path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, FileName), nil
}

// Load reads and parses the rc file, returning [Default] unchanged if it
// does not exist.
func Load() (Config, error) {
	p, err := path()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, err
	}

	std, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := json.Unmarshal(std, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg to the rc file atomically: a temp file is written and
// renamed into place, so a crash mid-write never leaves a truncated or
// half-written config behind.
func Save(cfg Config) error {
	p, err := path()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return atomic.WriteFile(p, bytes.NewReader(data))
}
