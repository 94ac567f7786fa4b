package app

import (
	"context"
	"fmt"
	"time"

	"github.com/lepinkainen/sortshot/shot"
	"github.com/lepinkainen/sortshot/store"
)

// Session owns the config, category registry and history for one process.
// Its methods run on a single foreground goroutine; AI workers only report
// back through events that the caller feeds to ApplyAIEvent.
type Session struct {
	ConfigPath string
	Registry   *store.Registry
	History    *store.Ledger

	source string
	dest   string
	warn   func(error)
}

// AIOptions configures an AI naming batch
type AIOptions struct {
	Prompt  string
	Timeout time.Duration
	Rename  shot.RenameOptions
}

// Open loads config and history. Load problems never stop the session:
// they are passed to warn and the defaults are used instead.
func Open(configPath, historyPath string, warn func(error)) *Session {
	if warn == nil {
		warn = func(error) {}
	}

	cfg, err := store.LoadConfig(configPath)
	if err != nil {
		warn(err)
	}

	ledger, err := store.LoadLedger(historyPath)
	if err != nil {
		warn(err)
	}

	return &Session{
		ConfigPath: configPath,
		Registry:   store.NewRegistry(cfg.Categories),
		History:    ledger,
		source:     cfg.LastSource,
		dest:       cfg.LastDest,
		warn:       warn,
	}
}

// Config returns a snapshot of the state that gets persisted
func (s *Session) Config() *store.Config {
	return &store.Config{
		Categories: s.Registry.Categories(),
		LastSource: s.source,
		LastDest:   s.dest,
	}
}

// Save persists the config. A failure is reported as a warning and returned.
func (s *Session) Save() error {
	if err := store.SaveConfig(s.ConfigPath, s.Config()); err != nil {
		s.warn(err)
		return err
	}
	return nil
}

// Source returns the current source folder
func (s *Session) Source() string { return s.source }

// Dest returns the current destination root
func (s *Session) Dest() string { return s.dest }

// SetFolders updates the remembered folders. Empty values keep the current one.
func (s *Session) SetFolders(source, dest string) {
	changed := false
	if source != "" && source != s.source {
		s.source = source
		changed = true
	}
	if dest != "" && dest != s.dest {
		s.dest = dest
		changed = true
	}
	if changed {
		_ = s.Save()
	}
}

// ListImages lists the images in the current source folder
func (s *Session) ListImages() ([]string, error) {
	return shot.ListImages(s.source)
}

// RenameSelected copies files into the category folder, numbering them from
// the category counter. The counter advances by len(files) even when some
// copies fail. History and config are written before returning.
func (s *Session) RenameSelected(category string, files []string, opts shot.RenameOptions) (*shot.BatchResult, error) {
	if len(files) == 0 {
		return nil, shot.ErrEmptySelection
	}
	if _, ok := s.Registry.Get(category); !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrUnknownCategory, category)
	}
	if _, err := shot.PrepareTarget(s.source, s.dest, category); err != nil {
		return nil, err
	}

	start, err := s.Registry.Allocate(category, len(files))
	if err != nil {
		return nil, err
	}

	result, err := shot.RenameBatch(files, category, start, s.source, s.dest, opts)
	if err != nil {
		_ = s.Save()
		return nil, err
	}

	if err := s.History.Append(category, result.Lines); err != nil {
		s.warn(err)
	}
	_ = s.Save()

	return result, nil
}

// StartAI launches an AI naming batch over files. The returned events must
// be passed to ApplyAIEvent in order.
func (s *Session) StartAI(ctx context.Context, files []string, describer shot.Describer, opts AIOptions) (<-chan shot.Event, error) {
	namer := &shot.Namer{
		Describer: describer,
		Counter:   s.Registry,
		Category:  store.AICategory,
		Prompt:    opts.Prompt,
		SourceDir: s.source,
		DestDir:   s.dest,
		Options:   opts.Rename,
		Timeout:   opts.Timeout,
		Now:       s.History.Now,
	}
	return namer.Run(ctx, files)
}

// ApplyAIEvent commits the effects of one worker event: the config after
// each file, and one history block when the batch finishes
func (s *Session) ApplyAIEvent(ev shot.Event) {
	switch ev.Kind {
	case shot.EventFileDone:
		_ = s.Save()
	case shot.EventFinished:
		if ev.Result != nil && len(ev.Result.Lines) > 0 {
			if err := s.History.Append(store.AICategory, ev.Result.Lines); err != nil {
				s.warn(err)
			}
		}
		_ = s.Save()
	}
}

// EditCategories replaces the category definitions from editor text
func (s *Session) EditCategories(text string) error {
	defs, err := store.ParseCategoryLines(text)
	if err != nil {
		return err
	}
	s.Registry.ReplaceDefinitions(defs)
	_ = s.Save()
	return nil
}

// ResetCategories restores the built-in categories with fresh counters
func (s *Session) ResetCategories() {
	s.Registry.Reset()
	_ = s.Save()
}

// ClearHistory wipes the history log
func (s *Session) ClearHistory() {
	if err := s.History.Clear(); err != nil {
		s.warn(err)
	}
}

// Close saves the config one last time
func (s *Session) Close() error {
	return s.Save()
}
