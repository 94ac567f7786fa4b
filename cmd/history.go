package cmd

import (
	"fmt"
	"os"

	"github.com/lepinkainen/sortshot/types"
	"github.com/lepinkainen/sortshot/ui"
)

// HistoryCmd groups the rename history sub-commands
type HistoryCmd struct {
	Show  HistoryShowCmd  `cmd:"" default:"1" help:"Print the rename history"`
	Clear HistoryClearCmd `cmd:"" help:"Erase the rename history"`
}

type HistoryShowCmd struct{}

func (cmd *HistoryShowCmd) Run(appCtx *types.AppContext) error {
	session := openSession(appCtx)
	defer session.Close()

	text := session.History.Text()
	if text == "" {
		fmt.Printf("%s\n", ui.MutedStyle.Render("No history yet"))
		return nil
	}
	fmt.Print(text)
	return nil
}

type HistoryClearCmd struct {
	Yes bool `short:"y" help:"Do not ask for confirmation"`
}

func (cmd *HistoryClearCmd) Run(appCtx *types.AppContext) error {
	if !cmd.Yes && !confirm(os.Stdin, os.Stdout, "Clear the rename history?") {
		fmt.Println("Cancelled")
		return nil
	}

	session := openSession(appCtx)
	defer session.Close()

	session.ClearHistory()
	fmt.Printf("%s\n", ui.SuccessStyle.Render("✅ History cleared"))
	return nil
}
