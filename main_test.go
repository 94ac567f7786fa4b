package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestCLI_Structure(t *testing.T) {
	// Compile-time check that all commands exist
	var cli CLI

	_ = cli.Pick
	_ = cli.List
	_ = cli.Rename
	_ = cli.AIRename
	_ = cli.Categories
	_ = cli.History
	_ = cli.AITest
	_ = cli.Similar
}

func newParser(t *testing.T, cli *CLI) *kong.Kong {
	t.Helper()
	parser, err := kong.New(cli,
		kong.Name("sortshot"),
		kong.Vars{"version": "test"},
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
	)
	if err != nil {
		t.Fatalf("Failed to build parser: %v", err)
	}
	return parser
}

func TestKongParsing(t *testing.T) {
	var cli CLI
	parser := kong.Must(&cli)

	if parser == nil {
		t.Error("Kong parser should not be nil")
	}
}

func TestKongParsing_Commands(t *testing.T) {
	testCases := []struct {
		name        string
		args        []string
		command     string
		expectError bool
	}{
		{"Default is pick", []string{}, "pick", false},
		{"List", []string{"list"}, "list", false},
		{"Rename with files", []string{"rename", "tickets", "a.png", "b.png"}, "rename <category> <files>", false},
		{"Rename all", []string{"rename", "chats", "--all"}, "rename <category>", false},
		{"Rename without category", []string{"rename"}, "", true},
		{"Rename bad extension policy", []string{"rename", "chats", "--all", "--ext", "webp"}, "", true},
		{"AI rename", []string{"ai-rename", "--all", "--model", "gemini-2.0-flash"}, "ai-rename", false},
		{"Categories default", []string{"categories"}, "categories show", false},
		{"Categories reset", []string{"categories", "reset", "--yes"}, "categories reset", false},
		{"History default", []string{"history"}, "history show", false},
		{"History clear", []string{"history", "clear", "-y"}, "history clear", false},
		{"AI test", []string{"ai-test"}, "ai-test", false},
		{"Similar", []string{"similar", "--threshold", "5"}, "similar", false},
		{"Similar threshold too high", []string{"similar", "--threshold", "65"}, "", true},
		{"Similar negative threshold", []string{"similar", "--threshold", "-1"}, "", true},
		{"Unknown command", []string{"sort"}, "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var cli CLI
			parser := newParser(t, &cli)

			ctx, err := parser.Parse(tc.args)
			if tc.expectError {
				if err == nil {
					t.Errorf("Expected error for args %v, got none", tc.args)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error for args %v: %v", tc.args, err)
			}
			if !strings.HasPrefix(ctx.Command(), tc.command) {
				t.Errorf("Expected command %q, got %q", tc.command, ctx.Command())
			}
		})
	}
}

func TestKongParsing_Defaults(t *testing.T) {
	var cli CLI
	parser := newParser(t, &cli)

	if _, err := parser.Parse([]string{"rename", "tickets", "--all"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if filepath.Base(cli.ConfigPath) != "config.json" {
		t.Errorf("Expected config.json, got %s", cli.ConfigPath)
	}
	if filepath.Base(cli.HistoryPath) != "history.txt" {
		t.Errorf("Expected history.txt, got %s", cli.HistoryPath)
	}
	if filepath.Base(cli.EnvFile) != ".env" {
		t.Errorf("Expected .env, got %s", cli.EnvFile)
	}
	if cli.Rename.Ext != "png" {
		t.Errorf("Expected default extension policy png, got %s", cli.Rename.Ext)
	}
	if !cli.Rename.All {
		t.Error("Expected --all to be set")
	}
}

func TestKongParsing_AIDefaults(t *testing.T) {
	var cli CLI
	parser := newParser(t, &cli)

	if _, err := parser.Parse([]string{"ai-rename", "a.png"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	ai := cli.AIRename.AIFlags
	if ai.Model != "gemini-2.5-flash" {
		t.Errorf("Expected default model gemini-2.5-flash, got %s", ai.Model)
	}
	if ai.Timeout.Seconds() != 60 {
		t.Errorf("Expected 60s timeout, got %v", ai.Timeout)
	}
	if ai.MaxEdge != 1024 {
		t.Errorf("Expected max edge 1024, got %d", ai.MaxEdge)
	}
	if len(cli.AIRename.Files) != 1 || cli.AIRename.Files[0] != "a.png" {
		t.Errorf("Expected [a.png], got %v", cli.AIRename.Files)
	}
}

func TestKongParsing_ConfigFromEnv(t *testing.T) {
	dir := t.TempDir()
	custom := filepath.Join(dir, "custom.json")
	t.Setenv("SORTSHOT_CONFIG", custom)

	var cli CLI
	parser := newParser(t, &cli)

	if _, err := parser.Parse([]string{"list"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cli.ConfigPath != custom {
		t.Errorf("Expected %s, got %s", custom, cli.ConfigPath)
	}
}

func TestSimilarCmd_DefaultThreshold(t *testing.T) {
	var cli CLI
	parser := newParser(t, &cli)

	if _, err := parser.Parse([]string{"similar"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if cli.Similar.Threshold != 10 {
		t.Errorf("Expected default threshold 10, got %d", cli.Similar.Threshold)
	}
	if cli.Similar.Workers != 0 {
		t.Errorf("Expected default workers 0, got %d", cli.Similar.Workers)
	}
}

func TestVersion(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}

	if Version != "dev" {
		t.Logf("Version is %q (expected 'dev' for development builds)", Version)
	}
}
