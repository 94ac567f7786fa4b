package ui

import "github.com/lepinkainen/sortshot/shot"

// TUI message types for AI worker communication
type AIEventMsg struct {
	Event shot.Event
}

// AIDoneMsg is sent once the worker's event channel has closed
type AIDoneMsg struct{}

type FilesLoadedMsg struct {
	Files []string
	Err   error
}
