package shot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// AIFolder is the destination subfolder for AI-named copies
	AIFolder = "ai_renamed"

	// DefaultAICategory is the pseudo-category whose counter numbers AI names
	DefaultAICategory = "ai_smart"

	// DefaultRequestTimeout bounds a single describe call
	DefaultRequestTimeout = 60 * time.Second
)

// ShortPrompt is used when the configured prompt is blank
const ShortPrompt = "Generate a descriptive filename (3-5 words, use hyphens) for this image."

// DefaultPrompt asks the vision model for a bare hyphenated filename
const DefaultPrompt = `You are a filename generator. Look at this image and create a short, descriptive filename (3-5 words).

Rules:
- Use ONLY lowercase letters, numbers, and hyphens
- NO spaces, NO special characters
- Describe the MAIN subject of the image
- Be specific but concise
- DO NOT use words like "image", "photo", "picture", "screenshot"
- DO NOT add any explanations, just return the filename

Examples:
- For a cat photo: "sleeping-orange-cat"
- For a food photo: "homemade-pizza-slice"
- For a landscape: "sunset-mountain-lake"
- For a document: "quarterly-report-2024"
- For a meme: "distracted-boyfriend-meme"

Generate only the filename, nothing else:`

// Describer produces a free-text description of an image for a prompt
type Describer interface {
	Describe(ctx context.Context, prompt, imagePath string) (string, error)
}

// Allocator hands out sequence numbers for a category
type Allocator interface {
	Allocate(category string, n int) (int, error)
}

// EventKind tells the consumer what an Event reports
type EventKind int

const (
	EventStarted EventKind = iota
	EventFileStarted
	EventFileDone
	EventFinished
)

// Event is sent from the AI worker to its single consumer
type Event struct {
	Kind  EventKind
	Index int // 0-based position of the file in the batch
	Total int

	File     string
	Item     FileResult
	Fallback bool  // the timestamp name was used
	Err      error // inference error behind a fallback, or cancellation on EventFinished

	Result *BatchResult // set on EventFinished
}

// Namer renames files from AI descriptions, one file at a time
type Namer struct {
	Describer Describer
	Counter   Allocator
	Category  string
	Prompt    string
	SourceDir string
	DestDir   string
	Options   RenameOptions
	Timeout   time.Duration
	Now       func() time.Time
}

func (n *Namer) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now()
}

func (n *Namer) category() string {
	if n.Category != "" {
		return n.Category
	}
	return DefaultAICategory
}

func (n *Namer) prompt() string {
	if strings.TrimSpace(n.Prompt) != "" {
		return n.Prompt
	}
	return ShortPrompt
}

// Run checks the folders, then processes files on a background goroutine in
// the given order. Progress arrives on the returned channel, which closes
// after the EventFinished event. The worker never touches history or config;
// the consumer commits those.
func (n *Namer) Run(ctx context.Context, files []string) (<-chan Event, error) {
	if len(files) == 0 {
		return nil, ErrEmptySelection
	}
	if n.Describer == nil || n.Counter == nil {
		return nil, fmt.Errorf("namer is missing a describer or counter")
	}
	if err := CheckFolders(n.SourceDir, n.DestDir); err != nil {
		return nil, err
	}

	targetDir := filepath.Join(n.DestDir, AIFolder)
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", targetDir, err)
	}

	files = append([]string(nil), files...)
	events := make(chan Event, len(files)*2+2)

	go func() {
		defer close(events)

		total := len(files)
		result := &BatchResult{Category: n.category(), Folder: AIFolder}
		events <- Event{Kind: EventStarted, Total: total}

		for i, file := range files {
			if err := ctx.Err(); err != nil {
				events <- Event{Kind: EventFinished, Total: total, Err: err, Result: result}
				return
			}

			events <- Event{Kind: EventFileStarted, Index: i, Total: total, File: file}

			item, seq, fallback, inferErr := n.processFile(ctx, targetDir, file)
			if result.Start == 0 {
				result.Start = seq
			}
			result.add(item)
			if fallback {
				result.Fallbacks++
			}

			events <- Event{
				Kind:     EventFileDone,
				Index:    i,
				Total:    total,
				File:     file,
				Item:     item,
				Fallback: fallback,
				Err:      inferErr,
			}
		}

		events <- Event{Kind: EventFinished, Total: total, Result: result}
	}()

	return events, nil
}

// processFile describes, names and copies one file. The inference error, if
// any, is returned separately: it only triggers the fallback name.
func (n *Namer) processFile(ctx context.Context, targetDir, file string) (FileResult, int, bool, error) {
	src := filepath.Join(n.SourceDir, file)

	reqCtx := ctx
	cancel := func() {}
	timeout := n.Timeout
	if timeout == 0 {
		timeout = DefaultRequestTimeout
	}
	if timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, timeout)
	}
	raw, inferErr := n.Describer.Describe(reqCtx, n.prompt(), src)
	cancel()

	slug, ok := "", false
	if inferErr == nil {
		slug, ok = slugify(raw)
	}
	fallback := !ok
	if fallback {
		slug = FallbackName(n.now())
	}

	item := FileResult{Source: file}

	seq, err := n.Counter.Allocate(n.category(), 1)
	if err != nil {
		item.Err = err
		item.Line = failureLine(file, err)
		return item, 0, fallback, inferErr
	}

	item.NewName = SequenceName(slug, seq, outputExtension(file, n.Options.Extension))
	if err := copyImage(src, filepath.Join(targetDir, item.NewName), n.Options.Extension); err != nil {
		item.Err = err
		item.Line = failureLine(file, err)
	} else {
		item.Line = successLine(file, AIFolder, item.NewName)
	}

	return item, seq, fallback, inferErr
}
