package main

import (
	"github.com/alecthomas/kong"
	"github.com/lepinkainen/sortshot/cmd"
	"github.com/lepinkainen/sortshot/types"
	"github.com/lepinkainen/sortshot/utils"
)

var Version = "dev"

type CLI struct {
	ConfigPath  string `name:"config" help:"Path to the config file" default:"config.json" env:"SORTSHOT_CONFIG" type:"path"`
	HistoryPath string `name:"history-file" help:"Path to the rename history file" default:"history.txt" env:"SORTSHOT_HISTORY" type:"path"`
	EnvFile     string `name:"env-file" help:"Load environment variables (API keys) from this file if it exists" default:".env" type:"path"`

	Pick       cmd.PickCmd       `cmd:"" default:"1" help:"Pick screenshots interactively and sort them into categories"`
	List       cmd.ListCmd       `cmd:"" help:"List source images and the next name of each category"`
	Rename     cmd.RenameCmd     `cmd:"" help:"Copy screenshots into a category folder with sequential names"`
	AIRename   cmd.AIRenameCmd   `cmd:"" name:"ai-rename" help:"Name screenshots from a vision model description"`
	Categories cmd.CategoriesCmd `cmd:"" help:"Manage categories"`
	History    cmd.HistoryCmd    `cmd:"" name:"history" help:"Show or clear the rename history"`
	AITest     cmd.AITestCmd     `cmd:"" name:"ai-test" help:"Check the vision API connection"`
	Similar    cmd.SimilarCmd    `cmd:"" help:"Find visually similar screenshots"`

	Version kong.VersionFlag `help:"Show version"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("sortshot"),
		kong.Description("Sort screenshots into category folders with sequential or AI-generated names"),
		kong.UsageOnError(),
		kong.Vars{"version": Version},
	)

	ctx.FatalIfErrorf(utils.LoadDotEnv(cli.EnvFile))

	err := ctx.Run(&types.AppContext{
		Version:     Version,
		ConfigPath:  cli.ConfigPath,
		HistoryPath: cli.HistoryPath,
	})
	ctx.FatalIfErrorf(err)
}
