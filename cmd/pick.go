package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lepinkainen/sortshot/app"
	"github.com/lepinkainen/sortshot/shot"
	"github.com/lepinkainen/sortshot/types"
	"github.com/lepinkainen/sortshot/ui"
)

// PickCmd opens the interactive picker. AI renaming is enabled when an API
// key is available.
type PickCmd struct {
	Ext string `help:"Extension handling: png, keep or convert" enum:"png,keep,convert" default:"png"`
	FolderFlags
	AIFlags
}

func (cmd *PickCmd) Run(appCtx *types.AppContext) error {
	warnings := &ui.WarningLog{}
	session := app.Open(configPath(appCtx), historyPath(appCtx), warnings.Add)
	cmd.apply(session)

	policy, err := shot.ParseExtensionPolicy(cmd.Ext)
	if err != nil {
		return err
	}
	rename := shot.RenameOptions{Extension: policy}

	aiOpts, err := cmd.aiOptions(rename)
	if err != nil {
		return err
	}

	opts := ui.PickerOptions{
		AI:       aiOpts,
		Rename:   rename,
		Warnings: warnings,
		Version:  appCtx.VersionOrDefault(),
	}
	if client, err := cmd.client(); err == nil {
		opts.Describer = client
	}

	model := ui.NewPickerModel(session, opts)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, runErr := p.Run()

	model.Cancel()
	_ = session.Close()

	for _, w := range warnings.Errors {
		printWarning(w)
	}
	if runErr != nil {
		return fmt.Errorf("picker failed: %w", runErr)
	}
	return nil
}
