package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// DefaultConfigFile is the config location relative to the working directory
const DefaultConfigFile = "config.json"

// Config is the persisted application state
type Config struct {
	Categories []Category
	LastSource string
	LastDest   string
}

// categoryJSON and configJSON mirror the on-disk schema
type categoryJSON struct {
	Emoji string `json:"emoji"`
	Color string `json:"color"`
	Count int    `json:"count"`
}

type configJSON struct {
	Categories map[string]categoryJSON `json:"categories"`
	LastSource string                  `json:"last_source"`
	LastDest   string                  `json:"last_dest"`
}

// DefaultConfig returns a config holding only the built-in categories
func DefaultConfig() *Config {
	return &Config{Categories: DefaultCategories()}
}

// LoadConfig reads the config file and merges it over the built-in defaults.
// It never leaves the caller without a usable config: a missing file yields
// the defaults and a nil error, a malformed file yields the defaults and a
// non-nil error describing the problem.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var raw configJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.LastSource = raw.LastSource
	cfg.LastDest = raw.LastDest

	known := make(map[string]bool, len(cfg.Categories))
	for i := range cfg.Categories {
		c := &cfg.Categories[i]
		known[c.Name] = true
		saved, ok := raw.Categories[c.Name]
		if !ok {
			continue
		}
		mergeSaved(c, saved)
	}

	// Categories added through the editor are kept, sorted for a stable order.
	// Names that are not plain folder names are dropped.
	var extra []string
	for name := range raw.Categories {
		if !known[name] && ValidateCategoryName(name) == nil {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		c := Category{Name: name, Count: 1}
		mergeSaved(&c, raw.Categories[name])
		cfg.Categories = append(cfg.Categories, c)
	}

	return cfg, nil
}

func mergeSaved(c *Category, saved categoryJSON) {
	if saved.Count >= 1 {
		c.Count = saved.Count
	}
	if saved.Emoji != "" {
		c.Emoji = saved.Emoji
	}
	if saved.Color != "" {
		c.Color = saved.Color
	}
}

// SaveConfig writes the config as indented JSON, replacing the file atomically
func SaveConfig(path string, cfg *Config) error {
	raw := configJSON{
		Categories: make(map[string]categoryJSON, len(cfg.Categories)),
		LastSource: cfg.LastSource,
		LastDest:   cfg.LastDest,
	}
	for _, c := range cfg.Categories {
		raw.Categories[c.Name] = categoryJSON{Emoji: c.Emoji, Color: c.Color, Count: c.Count}
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := writeFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("failed to save config %s: %w", path, err)
	}
	return nil
}

// writeFileAtomic writes to a temporary sibling and renames it into place
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
