package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lepinkainen/sortshot/shot"
	"github.com/lepinkainen/sortshot/store"
)

type stubDescriber struct {
	reply string
	err   error
}

func (d stubDescriber) Describe(ctx context.Context, prompt, imagePath string) (string, error) {
	return d.reply, d.err
}

// newTestSession opens a session in a temp dir with source and dest folders
// and the given files in the source
func newTestSession(t *testing.T, files ...string) (*Session, *[]error) {
	t.Helper()
	root := t.TempDir()
	src := filepath.Join(root, "src")
	dst := filepath.Join(root, "dst")
	for _, d := range []string{src, dst} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(src, f), []byte(f), 0644); err != nil {
			t.Fatal(err)
		}
	}

	var warnings []error
	s := Open(filepath.Join(root, "config.json"), filepath.Join(root, "history.txt"), func(err error) {
		warnings = append(warnings, err)
	})
	s.History.Now = func() time.Time { return time.Date(2024, 3, 9, 14, 5, 30, 0, time.Local) }
	s.SetFolders(src, dst)
	return s, &warnings
}

func TestOpen_MissingFiles(t *testing.T) {
	dir := t.TempDir()
	var warnings []error
	s := Open(filepath.Join(dir, "config.json"), filepath.Join(dir, "history.txt"), func(err error) {
		warnings = append(warnings, err)
	})

	if len(warnings) != 0 {
		t.Errorf("Expected no warnings for missing files, got %v", warnings)
	}
	if len(s.Registry.Categories()) != len(store.DefaultCategories()) {
		t.Errorf("Expected built-in categories, got %v", s.Registry.Categories())
	}
	if s.History.Text() != "" {
		t.Errorf("Expected empty history, got %q", s.History.Text())
	}
}

func TestOpen_MalformedConfigWarns(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	if err := os.WriteFile(configPath, []byte("{broken"), 0644); err != nil {
		t.Fatal(err)
	}

	var warnings []error
	s := Open(configPath, filepath.Join(dir, "history.txt"), func(err error) {
		warnings = append(warnings, err)
	})

	if len(warnings) != 1 {
		t.Errorf("Expected one warning, got %v", warnings)
	}
	if c, ok := s.Registry.Get("tickets"); !ok || c.Count != 1 {
		t.Errorf("Expected default tickets category, got %+v", c)
	}
}

func TestSession_SetFoldersPersists(t *testing.T) {
	s, _ := newTestSession(t)

	reopened := Open(s.ConfigPath, filepath.Join(t.TempDir(), "h.txt"), nil)
	if reopened.Source() != s.Source() || reopened.Dest() != s.Dest() {
		t.Errorf("Expected folders %q/%q after reload, got %q/%q", s.Source(), s.Dest(), reopened.Source(), reopened.Dest())
	}

	s.SetFolders("", "")
	if s.Source() == "" || s.Dest() == "" {
		t.Error("Empty values should keep the current folders")
	}
}

func TestSession_RenameSelected(t *testing.T) {
	s, warnings := newTestSession(t, "a.png", "b.png", "c.png")

	result, err := s.RenameSelected("tickets", []string{"c.png", "a.png"}, shot.RenameOptions{})
	if err != nil {
		t.Fatalf("RenameSelected() error = %v", err)
	}

	if result.Succeeded != 2 {
		t.Errorf("Expected 2 successes, got %s", result.Summary())
	}
	if c, _ := s.Registry.Get("tickets"); c.Count != 3 {
		t.Errorf("Expected tickets counter at 3, got %d", c.Count)
	}
	if s.Registry.NextName("tickets") != "tickets_003" {
		t.Errorf("Unexpected next name %q", s.Registry.NextName("tickets"))
	}

	history := s.History.Text()
	for _, want := range []string{
		"--- 2024-03-09 14:05:30 - Category: tickets ---",
		"c.png → tickets/tickets_001.png",
		"a.png → tickets/tickets_002.png",
	} {
		if !strings.Contains(history, want) {
			t.Errorf("History missing %q:\n%s", want, history)
		}
	}

	// Counter survives a restart
	reopened := Open(s.ConfigPath, filepath.Join(t.TempDir(), "h.txt"), nil)
	if c, _ := reopened.Registry.Get("tickets"); c.Count != 3 {
		t.Errorf("Expected persisted tickets counter 3, got %d", c.Count)
	}

	if len(*warnings) != 0 {
		t.Errorf("Unexpected warnings: %v", *warnings)
	}
}

func TestSession_RenameSelectedCounterAdvancesOnFailure(t *testing.T) {
	s, _ := newTestSession(t, "a.png")

	result, err := s.RenameSelected("chats", []string{"a.png", "gone.png"}, shot.RenameOptions{})
	if err != nil {
		t.Fatalf("RenameSelected() error = %v", err)
	}
	if result.Failed != 1 {
		t.Errorf("Expected 1 failure, got %s", result.Summary())
	}
	if c, _ := s.Registry.Get("chats"); c.Count != 3 {
		t.Errorf("Expected chats counter at 3, got %d", c.Count)
	}
	if !strings.Contains(s.History.Text(), "Error with gone.png: ") {
		t.Error("Expected the failure line in history")
	}
}

func TestSession_RenameSelectedErrors(t *testing.T) {
	s, _ := newTestSession(t, "a.png")

	t.Run("Unknown category", func(t *testing.T) {
		_, err := s.RenameSelected("nope", []string{"a.png"}, shot.RenameOptions{})
		if !errors.Is(err, store.ErrUnknownCategory) {
			t.Errorf("Expected ErrUnknownCategory, got %v", err)
		}
	})

	t.Run("Empty selection", func(t *testing.T) {
		_, err := s.RenameSelected("tickets", nil, shot.RenameOptions{})
		if !errors.Is(err, shot.ErrEmptySelection) {
			t.Errorf("Expected ErrEmptySelection, got %v", err)
		}
	})

	t.Run("Missing destination leaves counter", func(t *testing.T) {
		dest := s.Dest()
		s.dest = filepath.Join(dest, "missing")
		defer func() { s.dest = dest }()

		_, err := s.RenameSelected("tickets", []string{"a.png"}, shot.RenameOptions{})
		if !errors.Is(err, shot.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
		if c, _ := s.Registry.Get("tickets"); c.Count != 1 {
			t.Errorf("Counter should not move on an aborted batch, got %d", c.Count)
		}
	})

	t.Run("Category folder blocked by a file", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(s.Dest(), "tickets"), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		defer os.Remove(filepath.Join(s.Dest(), "tickets"))

		if _, err := s.RenameSelected("tickets", []string{"a.png"}, shot.RenameOptions{}); err == nil {
			t.Error("Expected an error when the category folder cannot be created")
		}
		if c, _ := s.Registry.Get("tickets"); c.Count != 1 {
			t.Errorf("Counter should not move when the category folder cannot be created, got %d", c.Count)
		}

		reloaded, err := store.LoadConfig(s.ConfigPath)
		if err != nil {
			t.Fatal(err)
		}
		for _, c := range reloaded.Categories {
			if c.Name == "tickets" && c.Count != 1 {
				t.Errorf("Saved tickets counter should stay at 1, got %d", c.Count)
			}
		}
	})

	if s.History.Text() != "" {
		t.Errorf("Failed batches should not write history, got %q", s.History.Text())
	}
}

func TestSession_AIBatch(t *testing.T) {
	s, warnings := newTestSession(t, "a.png", "b.jpg")

	events, err := s.StartAI(context.Background(), []string{"a.png", "b.jpg"}, stubDescriber{reply: "red-sports-car"}, AIOptions{})
	if err != nil {
		t.Fatalf("StartAI() error = %v", err)
	}

	var last shot.Event
	for ev := range events {
		s.ApplyAIEvent(ev)
		last = ev
	}

	if last.Kind != shot.EventFinished || last.Result == nil {
		t.Fatalf("Expected a finished event with a result, got %+v", last)
	}
	if last.Result.Succeeded != 2 {
		t.Errorf("Expected 2 successes, got %s", last.Result.Summary())
	}

	for _, name := range []string{"red-sports-car_001.png", "red-sports-car_002.png"} {
		if _, err := os.Stat(filepath.Join(s.Dest(), shot.AIFolder, name)); err != nil {
			t.Errorf("Expected %s: %v", name, err)
		}
	}

	history := s.History.Text()
	if !strings.Contains(history, "Category: ai_smart") {
		t.Errorf("Expected an ai_smart history block, got:\n%s", history)
	}
	if strings.Count(history, "---\n") != 1 {
		t.Errorf("Expected exactly one history block, got:\n%s", history)
	}

	reopened := Open(s.ConfigPath, filepath.Join(t.TempDir(), "h.txt"), nil)
	if c, _ := reopened.Registry.Get(store.AICategory); c.Count != 3 {
		t.Errorf("Expected persisted ai_smart counter 3, got %d", c.Count)
	}
	if len(*warnings) != 0 {
		t.Errorf("Unexpected warnings: %v", *warnings)
	}
}

func TestSession_AIFallbackOnError(t *testing.T) {
	s, _ := newTestSession(t, "a.png")

	events, err := s.StartAI(context.Background(), []string{"a.png"}, stubDescriber{err: errors.New("offline")}, AIOptions{})
	if err != nil {
		t.Fatalf("StartAI() error = %v", err)
	}
	for ev := range events {
		s.ApplyAIEvent(ev)
	}

	if !strings.Contains(s.History.Text(), "a.png → ai_renamed/image-20240309-140530_001.png") {
		t.Errorf("Expected fallback name in history, got:\n%s", s.History.Text())
	}
}

func TestSession_EditCategories(t *testing.T) {
	s, _ := newTestSession(t, "a.png")
	if _, err := s.RenameSelected("tickets", []string{"a.png"}, shot.RenameOptions{}); err != nil {
		t.Fatal(err)
	}

	if err := s.EditCategories("tickets,🎟,#000000\nreceipts,🧾,#123456\n"); err != nil {
		t.Fatalf("EditCategories() error = %v", err)
	}

	if c, _ := s.Registry.Get("tickets"); c.Count != 2 || c.Emoji != "🎟" {
		t.Errorf("Expected tickets to keep its counter and take the new emoji, got %+v", c)
	}
	if _, ok := s.Registry.Get("receipts"); !ok {
		t.Error("Expected receipts to be added")
	}
	if _, ok := s.Registry.Get(store.AICategory); !ok {
		t.Error("The AI category must survive an edit")
	}

	reopened := Open(s.ConfigPath, filepath.Join(t.TempDir(), "h.txt"), nil)
	if _, ok := reopened.Registry.Get("receipts"); !ok {
		t.Error("Expected receipts after reload")
	}

	if err := s.EditCategories("\n  \nbad-line\n"); err == nil {
		t.Error("Expected an error for text with no valid categories")
	}

	err := s.EditCategories("tickets,🎟,#000000\n../outside,x,#fff\n")
	if !errors.Is(err, store.ErrInvalidCategoryName) {
		t.Errorf("Expected ErrInvalidCategoryName, got %v", err)
	}
	if _, ok := s.Registry.Get("../outside"); ok {
		t.Error("A rejected edit must not change the categories")
	}
}

func TestSession_ResetCategories(t *testing.T) {
	s, _ := newTestSession(t, "a.png")
	_, _ = s.RenameSelected("funny", []string{"a.png"}, shot.RenameOptions{})

	s.ResetCategories()

	if c, _ := s.Registry.Get("funny"); c.Count != 1 {
		t.Errorf("Expected funny counter reset to 1, got %d", c.Count)
	}
}

func TestSession_ClearHistory(t *testing.T) {
	s, _ := newTestSession(t, "a.png")
	_, _ = s.RenameSelected("funny", []string{"a.png"}, shot.RenameOptions{})

	s.ClearHistory()

	if s.History.Text() != "" {
		t.Errorf("Expected empty history, got %q", s.History.Text())
	}
}

func TestSession_PersistFailureWarns(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	var warnings []error
	s := Open(filepath.Join(blocker, "config.json"), filepath.Join(dir, "history.txt"), func(err error) {
		warnings = append(warnings, err)
	})

	loaded := len(warnings)
	s.ResetCategories()

	if len(warnings) <= loaded {
		t.Error("Expected a warning when the config cannot be written")
	}
	if _, ok := s.Registry.Get("tickets"); !ok {
		t.Error("The in-memory state should stay usable")
	}
}
