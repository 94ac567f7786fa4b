package cmd

import (
	"fmt"

	"github.com/lepinkainen/sortshot/types"
	"github.com/lepinkainen/sortshot/ui"
)

// ListCmd shows the images in the source folder and the next name of every
// category
type ListCmd struct {
	FolderFlags
}

func (cmd *ListCmd) Run(appCtx *types.AppContext) error {
	session := openSession(appCtx)
	defer session.Close()
	cmd.apply(session)

	printHeader(appCtx)
	fmt.Printf("Source: %s\nDestination: %s\n\n", session.Source(), session.Dest())

	fmt.Printf("%s\n", ui.InfoStyle.Render("Categories:"))
	for i, c := range session.Registry.Categories() {
		fmt.Printf("  %d. %s %s → next %s\n", i+1, c.Emoji, ui.CategoryStyle(c.Color).Render(c.Name), nextLabel(session.Registry, c))
	}

	files, err := session.ListImages()
	if err != nil {
		return err
	}

	fmt.Printf("\n%s\n", ui.InfoStyle.Render(fmt.Sprintf("Found %d image(s):", len(files))))
	for _, f := range files {
		fmt.Printf("  %s\n", f)
	}
	return nil
}
