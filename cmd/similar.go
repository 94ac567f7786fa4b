package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/lepinkainen/sortshot/shot"
	"github.com/lepinkainen/sortshot/types"
	"github.com/lepinkainen/sortshot/ui"
	"github.com/lepinkainen/sortshot/utils"
)

// SimilarCmd finds near-duplicate screenshots in the source folder using
// perceptual hashing
type SimilarCmd struct {
	Threshold int `help:"Hamming distance threshold for similarity (0-64)" default:"10"`
	Workers   int `short:"w" help:"Number of hashing workers (default: 1 on network folders, NumCPU otherwise)"`
	FolderFlags
}

// Validate is called by kong after parsing
func (cmd *SimilarCmd) Validate() error {
	if cmd.Threshold < 0 || cmd.Threshold > 64 {
		return fmt.Errorf("threshold must be between 0 and 64, got %d", cmd.Threshold)
	}
	return nil
}

func (cmd *SimilarCmd) Run(appCtx *types.AppContext) error {
	session := openSession(appCtx)
	defer session.Close()
	cmd.apply(session)

	files, err := session.ListImages()
	if err != nil {
		return err
	}
	if len(files) < 2 {
		fmt.Printf("%s\n", ui.ErrorStyle.Render("❌ Need at least 2 images to compare"))
		return nil
	}

	workers := utils.WorkerCount(cmd.Workers, session.Source())
	fmt.Printf("%s\n", ui.InfoStyle.Render(fmt.Sprintf("Calculating perceptual hashes for %d files with %d worker(s)...", len(files), workers)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := shot.FindSimilar(ctx, session.Source(), files, cmd.Threshold, workers)
	if err != nil {
		return fmt.Errorf("failed to compare images: %w", err)
	}

	for _, skipped := range report.Skipped {
		fmt.Printf("%s\n", ui.ErrorStyle.Render("❌ "+skipped.Line))
	}

	fmt.Printf("\n%s\n", ui.InfoStyle.Render(fmt.Sprintf("Compared %d files for similarity (threshold: %d):", report.Hashed, cmd.Threshold)))

	if len(report.Pairs) == 0 {
		fmt.Printf("%s\n", ui.SuccessStyle.Render("✅ No similar files found within threshold"))
		return nil
	}
	for _, pair := range report.Pairs {
		fmt.Printf("🎯 Similar (distance %d): %s ↔ %s\n", pair.Distance, pair.A, pair.B)
	}
	return nil
}
