package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lepinkainen/sortshot/app"
	"github.com/lepinkainen/sortshot/shot"
	"github.com/lepinkainen/sortshot/store"
)

// ResultEntry is one processed file in the results list
type ResultEntry struct {
	OriginalName string
	NewName      string // folder/name
	Fallback     bool
	Error        string
}

func (e ResultEntry) FilterValue() string { return e.OriginalName }
func (e ResultEntry) Title() string       { return e.OriginalName }
func (e ResultEntry) Description() string {
	if e.Error != "" {
		return fmt.Sprintf("❌ %s", e.Error)
	}
	if e.Fallback {
		return fmt.Sprintf("⚠️  → %s (fallback name)", e.NewName)
	}
	if e.NewName != "" {
		return fmt.Sprintf("✓ → %s", e.NewName)
	}
	return "🔄 Processing..."
}

func entryFromItem(folder string, item shot.FileResult, fallback bool) ResultEntry {
	entry := ResultEntry{OriginalName: item.Source, Fallback: fallback}
	if item.Err != nil {
		entry.Error = item.Err.Error()
	} else {
		entry.NewName = folder + "/" + item.NewName
	}
	return entry
}

// WarningLog collects persistence warnings raised while the TUI runs.
// It is only touched from the bubbletea update loop.
type WarningLog struct {
	Errors []error
}

// Add records a warning
func (w *WarningLog) Add(err error) {
	w.Errors = append(w.Errors, err)
}

// Last returns the most recent warning text
func (w *WarningLog) Last() string {
	if w == nil || len(w.Errors) == 0 {
		return ""
	}
	return w.Errors[len(w.Errors)-1].Error()
}

// PickerOptions configures the picker
type PickerOptions struct {
	Describer shot.Describer // nil disables AI renaming
	AI        app.AIOptions
	Rename    shot.RenameOptions
	Warnings  *WarningLog
	Version   string
}

// PickerModel is the interactive screenshot picker
type PickerModel struct {
	// Application state
	session   *app.Session
	selection *shot.Selection
	cursor    int
	entries   []ResultEntry

	describer shot.Describer
	aiOpts    app.AIOptions
	rename    shot.RenameOptions
	warnings  *WarningLog

	// AI batch state
	ctx       context.Context
	cancel    context.CancelFunc
	aiEvents  <-chan shot.Event
	aiRunning bool
	aiDone    int
	aiTotal   int

	// UI components
	progress progress.Model
	results  list.Model

	// Layout
	width  int
	height int

	// Control state
	status   string
	showHelp bool
	stopping bool
	quitting bool

	version string
}

// NewPickerModel creates a picker over the session's source folder
func NewPickerModel(session *app.Session, opts PickerOptions) PickerModel {
	results := list.New([]list.Item{}, list.NewDefaultDelegate(), 76, 10)
	results.Title = "Processed Files"
	results.SetShowHelp(false)

	ctx, cancel := context.WithCancel(context.Background())

	version := opts.Version
	if version == "" {
		version = "dev"
	}

	return PickerModel{
		session:   session,
		selection: shot.NewSelection(nil),
		describer: opts.Describer,
		aiOpts:    opts.AI,
		rename:    opts.Rename,
		warnings:  opts.Warnings,
		ctx:       ctx,
		cancel:    cancel,
		progress:  progress.New(progress.WithDefaultGradient()),
		results:   results,
		showHelp:  true,
		version:   version,
	}
}

// Init implements tea.Model
func (m PickerModel) Init() tea.Cmd {
	return m.loadFiles()
}

// Cancel stops a running AI batch after its current file
func (m PickerModel) Cancel() {
	m.cancel()
}

// Entries returns the processed files shown in the results list
func (m PickerModel) Entries() []ResultEntry {
	return m.entries
}

// Selection returns the current selection
func (m PickerModel) Selection() *shot.Selection {
	return m.selection
}

// Status returns the status line text
func (m PickerModel) Status() string {
	return m.status
}

// AIRunning reports whether an AI batch is in progress
func (m PickerModel) AIRunning() bool {
	return m.aiRunning
}

func (m PickerModel) loadFiles() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		files, err := session.ListImages()
		return FilesLoadedMsg{Files: files, Err: err}
	}
}

// waitForEvent reads the next worker event; a closed channel becomes AIDoneMsg
func waitForEvent(events <-chan shot.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return AIDoneMsg{}
		}
		return AIEventMsg{Event: ev}
	}
}

// Update implements tea.Model
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.results.SetSize(msg.Width-4, msg.Height/3)
		m.progress.Width = max(10, min(msg.Width-20, 60))

	case FilesLoadedMsg:
		if msg.Err != nil {
			m.selection.Reset(nil)
			m.status = ErrorStyle.Render(fmt.Sprintf("❌ %v", msg.Err))
		} else {
			m.selection.Reset(msg.Files)
			m.status = InfoStyle.Render(fmt.Sprintf("Loaded %d images", len(msg.Files)))
		}
		if n := len(m.selection.Listing()); m.cursor >= n {
			m.cursor = max(0, n-1)
		}

	case AIEventMsg:
		return m.handleAIEvent(msg.Event)

	case AIDoneMsg:
		m.aiRunning = false
		m.aiEvents = nil
		if m.stopping {
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m PickerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.stopping {
		return m, nil
	}

	key := msg.String()
	switch key {
	case "ctrl+c", "q":
		if m.aiRunning {
			// Let the worker finish its current file so the batch is committed
			m.stopping = true
			m.cancel()
			m.status = WarnStyle.Render("⏹  Stopping after the current file...")
			return m, nil
		}
		m.quitting = true
		m.cancel()
		return m, tea.Quit

	case "h", "?":
		m.showHelp = !m.showHelp

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.selection.Listing())-1 {
			m.cursor++
		}

	case " ": // spacebar toggles the file under the cursor
		listing := m.selection.Listing()
		if m.cursor < len(listing) {
			m.selection.Toggle(listing[m.cursor])
		}

	case "a":
		m.selection.ToggleAll()

	case "r":
		if m.aiRunning {
			m.status = WarnStyle.Render("⚠️  AI batch in progress")
			return m, nil
		}
		return m, m.loadFiles()

	case "i":
		return m.startAI()

	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			return m.renameInto(int(key[0] - '1')), nil
		}
	}

	return m, nil
}

// renameCategories lists the categories bound to the number keys
func (m PickerModel) renameCategories() []store.Category {
	var cats []store.Category
	for _, c := range m.session.Registry.Categories() {
		if c.Name != store.AICategory {
			cats = append(cats, c)
		}
	}
	if len(cats) > 9 {
		cats = cats[:9]
	}
	return cats
}

func (m PickerModel) renameInto(index int) PickerModel {
	cats := m.renameCategories()
	if index >= len(cats) {
		return m
	}
	if m.aiRunning {
		m.status = WarnStyle.Render("⚠️  AI batch in progress")
		return m
	}
	if m.selection.Len() == 0 {
		m.status = WarnStyle.Render("⚠️  No files selected")
		return m
	}

	category := cats[index].Name
	result, err := m.session.RenameSelected(category, m.selection.Files(), m.rename)
	if err != nil {
		m.status = ErrorStyle.Render(fmt.Sprintf("❌ %v", err))
		return m
	}

	for _, item := range result.Items {
		m.addEntry(entryFromItem(result.Folder, item, false))
	}
	m.selection.Clear()
	m.status = summaryLine(result)
	return m
}

func (m PickerModel) startAI() (tea.Model, tea.Cmd) {
	if m.aiRunning {
		m.status = WarnStyle.Render("⚠️  AI batch in progress")
		return m, nil
	}
	if m.describer == nil {
		m.status = WarnStyle.Render("⚠️  AI is not configured: set GEMINI_API_KEY or pass --api-key")
		return m, nil
	}
	if m.selection.Len() == 0 {
		m.status = WarnStyle.Render("⚠️  No files selected")
		return m, nil
	}

	files := m.selection.Files()
	events, err := m.session.StartAI(m.ctx, files, m.describer, m.aiOpts)
	if err != nil {
		m.status = ErrorStyle.Render(fmt.Sprintf("❌ %v", err))
		return m, nil
	}

	m.aiRunning = true
	m.aiEvents = events
	m.aiDone = 0
	m.aiTotal = len(files)
	m.status = ProcessingStyle.Render(fmt.Sprintf("🤖 Analyzing %d images...", len(files)))
	return m, waitForEvent(events)
}

func (m PickerModel) handleAIEvent(ev shot.Event) (tea.Model, tea.Cmd) {
	m.session.ApplyAIEvent(ev)

	switch ev.Kind {
	case shot.EventStarted:
		m.aiTotal = ev.Total

	case shot.EventFileStarted:
		m.status = ProcessingStyle.Render(fmt.Sprintf("🤖 Analyzing %s (%d/%d)", ev.File, ev.Index+1, ev.Total))

	case shot.EventFileDone:
		m.aiDone++
		m.addEntry(entryFromItem(shot.AIFolder, ev.Item, ev.Fallback))

	case shot.EventFinished:
		if ev.Err != nil {
			m.status = WarnStyle.Render(fmt.Sprintf("⏹  Stopped: %d of %d processed", m.aiDone, ev.Total))
		} else if ev.Result != nil {
			m.status = summaryLine(ev.Result)
		}
		m.selection.Clear()
	}

	return m, waitForEvent(m.aiEvents)
}

func (m *PickerModel) addEntry(entry ResultEntry) {
	m.entries = append(m.entries, entry)
	items := make([]list.Item, len(m.entries))
	for i, e := range m.entries {
		items[i] = e
	}
	m.results.SetItems(items)
	m.results.Select(len(items) - 1)
}

func summaryLine(result *shot.BatchResult) string {
	line := fmt.Sprintf("✅ %d successful, ❌ %d failed", result.Succeeded, result.Failed)
	if result.Fallbacks > 0 {
		line += fmt.Sprintf(", ⚠️  %d fallback names", result.Fallbacks)
	}
	return SuccessStyle.Render(line)
}

// visibleRange returns the slice of rows to draw so the cursor stays visible
func visibleRange(cursor, total, rows int) (int, int) {
	if rows <= 0 || total <= rows {
		return 0, total
	}
	start := cursor - rows/2
	if start < 0 {
		start = 0
	}
	end := start + rows
	if end > total {
		end = total
		start = end - rows
	}
	return start, end
}

// View implements tea.Model
func (m PickerModel) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	var content strings.Builder

	content.WriteString(HeaderStyle.Render(fmt.Sprintf("Sortshot %s", m.version)))
	content.WriteString("\n")
	content.WriteString(MutedStyle.Render(fmt.Sprintf("From: %s", m.session.Source())))
	content.WriteString("\n")
	content.WriteString(MutedStyle.Render(fmt.Sprintf("To:   %s", m.session.Dest())))
	content.WriteString("\n\n")

	content.WriteString(m.renderCategories())
	content.WriteString("\n")
	content.WriteString(m.renderFileList())
	content.WriteString("\n")

	if m.aiRunning {
		percent := 0.0
		if m.aiTotal > 0 {
			percent = float64(m.aiDone) / float64(m.aiTotal)
		}
		content.WriteString(fmt.Sprintf("AI Progress: %s (%d/%d)\n\n", m.progress.ViewAs(percent), m.aiDone, m.aiTotal))
	}

	if m.status != "" {
		content.WriteString(m.status)
		content.WriteString("\n")
	}
	if w := m.warnings.Last(); w != "" {
		content.WriteString(WarnStyle.Render("⚠️  " + w))
		content.WriteString("\n")
	}

	if len(m.entries) > 0 {
		content.WriteString("\n")
		content.WriteString(m.results.View())
		content.WriteString("\n")
	}

	content.WriteString("\n")
	if m.showHelp {
		content.WriteString(m.renderHelp())
	} else {
		content.WriteString(MutedStyle.Render("Press 'h' for help"))
	}

	return content.String()
}

func (m PickerModel) renderCategories() string {
	var content strings.Builder

	for i, c := range m.renameCategories() {
		label := fmt.Sprintf("[%d] %s %s", i+1, c.Emoji, c.Name)
		content.WriteString(CategoryStyle(c.Color).Render(label))
		content.WriteString(MutedStyle.Render(fmt.Sprintf("  next: %s", m.session.Registry.NextName(c.Name))))
		content.WriteString("\n")
	}

	ai, _ := m.session.Registry.Get(store.AICategory)
	label := fmt.Sprintf("[i] %s AI rename → %s/", ai.Emoji, shot.AIFolder)
	if m.describer == nil {
		content.WriteString(MutedStyle.Render(label + "  (not configured)"))
	} else {
		content.WriteString(CategoryStyle(ai.Color).Render(label))
		content.WriteString(MutedStyle.Render(fmt.Sprintf("  next #%03d", ai.Count)))
	}
	content.WriteString("\n")

	return content.String()
}

func (m PickerModel) renderFileList() string {
	var content strings.Builder

	listing := m.selection.Listing()
	content.WriteString(InfoStyle.Render(fmt.Sprintf("Images (%d selected of %d)", m.selection.Len(), len(listing))))
	content.WriteString("\n")

	if len(listing) == 0 {
		content.WriteString(MutedStyle.Render("  No images found in the source folder"))
		content.WriteString("\n")
		return content.String()
	}

	rows := 15
	if m.height > 0 {
		rows = max(3, m.height/3)
	}
	start, end := visibleRange(m.cursor, len(listing), rows)

	for i := start; i < end; i++ {
		name := listing[i]
		selected := m.selection.IsSelected(name)

		var line strings.Builder
		if selected {
			line.WriteString("[✓] ")
		} else {
			line.WriteString("[ ] ")
		}

		if i == m.cursor {
			if selected {
				line.WriteString(SuccessStyle.Reverse(true).Render(name))
			} else {
				line.WriteString(lipgloss.NewStyle().Reverse(true).Render(name))
			}
		} else if selected {
			line.WriteString(SuccessStyle.Render(name))
		} else {
			line.WriteString(name)
		}

		content.WriteString(line.String())
		content.WriteString("\n")
	}

	if end < len(listing) {
		content.WriteString(MutedStyle.Render(fmt.Sprintf("  ... %d more", len(listing)-end)))
		content.WriteString("\n")
	}

	return content.String()
}

func (m PickerModel) renderHelp() string {
	help := []string{
		"Navigation: ↑/k up, ↓/j down",
		"Selection: space toggle, a toggle all",
		"Rename: 1-9 copy into category, i AI rename",
		"Other: r reload, h help, q quit",
	}
	return MutedStyle.Render(strings.Join(help, "\n"))
}
