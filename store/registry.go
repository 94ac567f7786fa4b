package store

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

// AICategory is the pseudo-category whose counter numbers AI-named files
const AICategory = "ai_smart"

// ErrUnknownCategory is returned when a category name is not registered
var ErrUnknownCategory = errors.New("unknown category")

// ErrInvalidCategoryName is returned for names that cannot be used as a
// single folder under the destination root
var ErrInvalidCategoryName = errors.New("invalid category name")

// ValidateCategoryName rejects names containing path separators or dot
// segments
func ValidateCategoryName(name string) error {
	if name == "" || name == "." || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidCategoryName, name)
	}
	return nil
}

// Category is a named bucket with its own filename prefix and sequence counter
type Category struct {
	Name  string
	Emoji string
	Color string
	Count int // next sequence number, always >= 1
}

// DefaultCategories returns the built-in category set in display order
func DefaultCategories() []Category {
	return []Category{
		{Name: "tickets", Emoji: "🎫", Color: "#FF6B6B", Count: 1},
		{Name: "chats", Emoji: "💬", Color: "#4ECDC4", Count: 1},
		{Name: "funny", Emoji: "😂", Color: "#FFE66D", Count: 1},
		{Name: "movie", Emoji: "🎬", Color: "#95E1D3", Count: 1},
		{Name: "others", Emoji: "📁", Color: "#A8E6CF", Count: 1},
		{Name: AICategory, Emoji: "🤖", Color: "#9B59B6", Count: 1},
	}
}

// Registry is the live in-memory category set. All counter changes go
// through Allocate so concurrent callers never hand out the same number.
type Registry struct {
	mu    sync.Mutex
	order []string
	cats  map[string]*Category
}

// NewRegistry creates a registry holding copies of the given categories
func NewRegistry(categories []Category) *Registry {
	r := &Registry{}
	r.set(categories)
	return r
}

func (r *Registry) set(categories []Category) {
	r.order = make([]string, 0, len(categories))
	r.cats = make(map[string]*Category, len(categories))
	for _, c := range categories {
		if _, dup := r.cats[c.Name]; dup {
			continue
		}
		if c.Count < 1 {
			c.Count = 1
		}
		cat := c
		r.order = append(r.order, c.Name)
		r.cats[c.Name] = &cat
	}
}

// Get returns a copy of the named category
func (r *Registry) Get(name string) (Category, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cats[name]
	if !ok {
		return Category{}, false
	}
	return *c, true
}

// Categories returns a snapshot of all categories in display order
func (r *Registry) Categories() []Category {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Category, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, *r.cats[name])
	}
	return out
}

// Allocate reserves n consecutive sequence numbers for the category and
// returns the first one. The counter advances by exactly n.
func (r *Registry) Allocate(name string, n int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("cannot allocate %d sequence numbers", n)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.cats[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownCategory, name)
	}
	start := c.Count
	c.Count += n
	return start, nil
}

// NextName previews the name the next file in the category would receive,
// without the extension
func (r *Registry) NextName(name string) string {
	c, ok := r.Get(name)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s_%03d", c.Name, c.Count)
}

// ReplaceDefinitions swaps in a new set of category definitions. Counters
// carry over by name and new names start at 1. The AI pseudo-category is
// always kept so AI batches keep numbering.
func (r *Registry) ReplaceDefinitions(defs []Category) {
	r.mu.Lock()
	defer r.mu.Unlock()

	merged := make([]Category, 0, len(defs)+1)
	hasAI := false
	for _, d := range defs {
		d.Count = 1
		if old, ok := r.cats[d.Name]; ok {
			d.Count = old.Count
		}
		if d.Name == AICategory {
			hasAI = true
		}
		merged = append(merged, d)
	}
	if !hasAI {
		if old, ok := r.cats[AICategory]; ok {
			merged = append(merged, *old)
		} else {
			for _, d := range DefaultCategories() {
				if d.Name == AICategory {
					merged = append(merged, d)
				}
			}
		}
	}
	r.set(merged)
}

// Reset restores the built-in categories with all counters back at 1
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.set(DefaultCategories())
}

// ParseCategoryLines parses editor text with one "name,emoji,color" per line.
// Blank lines and lines with fewer than three fields are skipped. A name
// that is not a plain folder name fails the whole parse.
func ParseCategoryLines(text string) ([]Category, error) {
	var defs []Category
	seen := make(map[string]bool)

	for i, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) < 3 {
			continue
		}
		name := strings.TrimSpace(parts[0])
		if name == "" || seen[name] {
			continue
		}
		if err := ValidateCategoryName(name); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		seen[name] = true
		defs = append(defs, Category{
			Name:  name,
			Emoji: strings.TrimSpace(parts[1]),
			Color: strings.TrimSpace(parts[2]),
			Count: 1,
		})
	}

	if len(defs) == 0 {
		return nil, errors.New("no valid categories found")
	}
	return defs, nil
}

// FormatCategoryLines renders categories in the editor format
func FormatCategoryLines(categories []Category) string {
	var b strings.Builder
	for _, c := range categories {
		fmt.Fprintf(&b, "%s,%s,%s\n", c.Name, c.Emoji, c.Color)
	}
	return b.String()
}
