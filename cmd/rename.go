package cmd

import (
	"errors"
	"fmt"

	"github.com/lepinkainen/sortshot/shot"
	"github.com/lepinkainen/sortshot/store"
	"github.com/lepinkainen/sortshot/types"
	"github.com/lepinkainen/sortshot/ui"
)

// RenameCmd copies the selected screenshots into a category folder with
// sequential names
type RenameCmd struct {
	Category string `arg:"" name:"category" help:"Category to file the screenshots under"`
	SelectionFlags
	FolderFlags
}

func (cmd *RenameCmd) Run(appCtx *types.AppContext) error {
	if cmd.Category == store.AICategory {
		return fmt.Errorf("%s is numbered by the ai-rename command", store.AICategory)
	}

	session := openSession(appCtx)
	defer session.Close()
	cmd.apply(session)

	opts, err := cmd.options()
	if err != nil {
		return err
	}

	files, skipped, err := cmd.selected(session)
	if err != nil {
		return err
	}
	printSkipped(skipped)

	printHeader(appCtx)
	fmt.Printf("Renaming %d file(s) into %s...\n\n", len(files), cmd.Category)

	result, err := session.RenameSelected(cmd.Category, files, opts)
	if err != nil {
		if errors.Is(err, shot.ErrEmptySelection) {
			fmt.Printf("%s\n", ui.WarnStyle.Render("⚠️  No files selected"))
			return nil
		}
		return err
	}

	printBatch(result)
	fmt.Printf("%s\n", ui.MutedStyle.Render(fmt.Sprintf("Next: %s", session.Registry.NextName(cmd.Category))))
	return nil
}
