package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lepinkainen/sortshot/shot"
	"github.com/lepinkainen/sortshot/types"
	"github.com/lepinkainen/sortshot/ui"
	"github.com/schollz/progressbar/v3"
)

// AIRenameCmd names the selected screenshots from a vision model's
// description of each one
type AIRenameCmd struct {
	SelectionFlags
	FolderFlags
	AIFlags
}

func (cmd *AIRenameCmd) Run(appCtx *types.AppContext) error {
	session := openSession(appCtx)
	defer session.Close()
	cmd.FolderFlags.apply(session)

	rename, err := cmd.options()
	if err != nil {
		return err
	}
	opts, err := cmd.aiOptions(rename)
	if err != nil {
		return err
	}

	client, err := cmd.client()
	if err != nil {
		return err
	}

	files, skipped, err := cmd.selected(session)
	if err != nil {
		return err
	}
	printSkipped(skipped)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events, err := session.StartAI(ctx, files, client, opts)
	if err != nil {
		if errors.Is(err, shot.ErrEmptySelection) {
			fmt.Printf("%s\n", ui.WarnStyle.Render("⚠️  No files selected"))
			return nil
		}
		return err
	}

	printHeader(appCtx)
	fmt.Printf("Naming %d file(s) with %s...\n\n", len(files), client.Model())

	bar := progressbar.Default(int64(len(files)), "AI naming")

	var final shot.Event
	for ev := range events {
		session.ApplyAIEvent(ev)
		switch ev.Kind {
		case shot.EventFileStarted:
			bar.Describe(truncateString(ev.File, 30))
		case shot.EventFileDone:
			_ = bar.Add(1)
		case shot.EventFinished:
			final = ev
		}
	}
	_ = bar.Finish()
	fmt.Println()

	if final.Result == nil {
		return nil
	}
	printBatch(final.Result)
	if final.Result.Fallbacks > 0 {
		fmt.Printf("%s\n", ui.WarnStyle.Render(fmt.Sprintf("⚠️  %d fallback name(s) used", final.Result.Fallbacks)))
	}
	if errors.Is(final.Err, context.Canceled) {
		fmt.Printf("%s\n", ui.WarnStyle.Render("⚠️  Interrupted, remaining files were not processed"))
	}
	return nil
}
