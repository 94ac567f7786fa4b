package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/lepinkainen/sortshot/app"
	"github.com/lepinkainen/sortshot/shot"
	"github.com/lepinkainen/sortshot/store"
	"github.com/lepinkainen/sortshot/types"
	"github.com/lepinkainen/sortshot/ui"
	"github.com/lepinkainen/sortshot/utils"
	"github.com/lepinkainen/sortshot/vision"
)

// FolderFlags select the source folder and destination root. Both default
// to the folders used last time.
type FolderFlags struct {
	Source string `short:"s" help:"Folder with screenshots (defaults to the last one used)" type:"path"`
	Dest   string `short:"d" help:"Destination root for category folders (defaults to the last one used)" type:"path"`
}

func (f FolderFlags) apply(session *app.Session) {
	session.SetFolders(f.Source, f.Dest)
}

// SelectionFlags pick which images a batch works on
type SelectionFlags struct {
	Files []string `arg:"" optional:"" name:"files" help:"Image filenames in the source folder, in naming order"`
	All   bool     `help:"Use every image in the source folder"`
	Ext   string   `help:"Extension handling: png names every copy .png, keep keeps the source extension, convert re-encodes to PNG" enum:"png,keep,convert" default:"png"`
}

// selected resolves the requested files against the source listing. Names
// that are not listed images are returned separately.
func (f SelectionFlags) selected(session *app.Session) ([]string, []string, error) {
	listing, err := session.ListImages()
	if err != nil {
		return nil, nil, err
	}

	selection := shot.NewSelection(listing)
	if f.All {
		selection.SelectAll()
		return selection.Files(), nil, nil
	}

	var skipped []string
	for _, name := range f.Files {
		base := baseName(name)
		if selection.IsSelected(base) {
			continue
		}
		before := selection.Len()
		selection.Toggle(base)
		if selection.Len() == before {
			skipped = append(skipped, name)
		}
	}
	return selection.Files(), skipped, nil
}

func (f SelectionFlags) options() (shot.RenameOptions, error) {
	policy, err := shot.ParseExtensionPolicy(f.Ext)
	if err != nil {
		return shot.RenameOptions{}, err
	}
	return shot.RenameOptions{Extension: policy}, nil
}

// AIFlags configure the vision client
type AIFlags struct {
	APIKey     string        `name:"api-key" help:"Gemini API key (defaults to GEMINI_API_KEY or GOOGLE_API_KEY)"`
	Model      string        `help:"Gemini model name" default:"gemini-2.5-flash"`
	Prompt     string        `help:"Prompt sent with each image (defaults to the built-in filename prompt)"`
	PromptFile string        `name:"prompt-file" help:"Read the prompt from a file; an empty file uses the short prompt" type:"path"`
	Timeout    time.Duration `help:"Timeout for each image request" default:"60s"`
	MaxEdge    int           `name:"max-edge" help:"Downscale images whose longest edge exceeds this many pixels (0 disables)" default:"1024"`
}

func (f AIFlags) client() (*vision.Client, error) {
	key := utils.ResolveAPIKey(f.APIKey, os.Getenv)
	if err := utils.ValidateAPIKey(key); err != nil {
		return nil, err
	}
	return vision.NewClient(key, vision.WithModel(f.Model), vision.WithMaxEdge(f.MaxEdge))
}

func (f AIFlags) prompt() (string, error) {
	if f.PromptFile != "" {
		data, err := os.ReadFile(f.PromptFile)
		if err != nil {
			return "", fmt.Errorf("failed to read prompt file: %w", err)
		}
		return string(data), nil
	}
	if f.Prompt != "" {
		return f.Prompt, nil
	}
	return shot.DefaultPrompt, nil
}

func (f AIFlags) aiOptions(rename shot.RenameOptions) (app.AIOptions, error) {
	prompt, err := f.prompt()
	if err != nil {
		return app.AIOptions{}, err
	}
	return app.AIOptions{Prompt: prompt, Timeout: f.Timeout, Rename: rename}, nil
}

func configPath(appCtx *types.AppContext) string {
	if appCtx != nil && appCtx.ConfigPath != "" {
		return appCtx.ConfigPath
	}
	return store.DefaultConfigFile
}

func historyPath(appCtx *types.AppContext) string {
	if appCtx != nil && appCtx.HistoryPath != "" {
		return appCtx.HistoryPath
	}
	return store.DefaultHistoryFile
}

// openSession loads the session, printing persistence problems as warnings
func openSession(appCtx *types.AppContext) *app.Session {
	return app.Open(configPath(appCtx), historyPath(appCtx), printWarning)
}

func printWarning(err error) {
	fmt.Printf("%s\n", ui.WarnStyle.Render(fmt.Sprintf("⚠️  %v", err)))
}

func printHeader(appCtx *types.AppContext) {
	fmt.Println(ui.HeaderStyle.Render(fmt.Sprintf("Sortshot %s", appCtx.VersionOrDefault())))
}

// printBatch prints one line per file followed by the summary
func printBatch(result *shot.BatchResult) {
	for _, item := range result.Items {
		if item.Err != nil {
			fmt.Printf("%s\n", ui.ErrorStyle.Render("❌ "+item.Line))
		} else {
			fmt.Printf("%s\n", ui.SuccessStyle.Render("✅ "+item.Line))
		}
	}
	fmt.Printf("\n%s\n", ui.InfoStyle.Render(fmt.Sprintf("✅ %d successful, ❌ %d failed", result.Succeeded, result.Failed)))
}

func printSkipped(skipped []string) {
	for _, name := range skipped {
		fmt.Printf("%s\n", ui.WarnStyle.Render(fmt.Sprintf("⚠️  %s is not an image in the source folder, skipping", name)))
	}
}

// confirm asks a yes/no question on out and reads the answer from in
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// nextLabel previews the next name for a category. AI copies are named from
// their description, so only the number is known in advance.
func nextLabel(registry *store.Registry, c store.Category) string {
	if c.Name == store.AICategory {
		return fmt.Sprintf("#%03d", c.Count)
	}
	return registry.NextName(c.Name)
}

func baseName(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		return name[i+1:]
	}
	return name
}

func truncateString(s string, max int) string {
	if len([]rune(s)) > max {
		return string([]rune(s)[:max]) + "..."
	}
	return s
}
