package cmd

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/lepinkainen/sortshot/store"
	"github.com/lepinkainen/sortshot/types"
	"github.com/lepinkainen/sortshot/ui"
	"github.com/mattn/go-isatty"
)

// CategoriesCmd groups the category management sub-commands
type CategoriesCmd struct {
	Show  CategoriesShowCmd  `cmd:"" default:"1" help:"Show categories and their counters"`
	Edit  CategoriesEditCmd  `cmd:"" help:"Replace the category definitions"`
	Reset CategoriesResetCmd `cmd:"" help:"Restore the built-in categories with fresh counters"`
}

type CategoriesShowCmd struct {
	Raw bool `help:"Print the editable name,emoji,color lines"`
}

func (cmd *CategoriesShowCmd) Run(appCtx *types.AppContext) error {
	session := openSession(appCtx)
	defer session.Close()

	categories := session.Registry.Categories()
	if cmd.Raw {
		fmt.Print(store.FormatCategoryLines(categories))
		return nil
	}

	for _, c := range categories {
		fmt.Printf("%s %s  count %d  next %s\n", c.Emoji, ui.CategoryStyle(c.Color).Render(c.Name), c.Count, nextLabel(session.Registry, c))
	}
	return nil
}

// CategoriesEditCmd reads "name,emoji,color" lines from a file, from piped
// stdin, or from an editor session
type CategoriesEditCmd struct {
	File string `arg:"" optional:"" name:"file" help:"File with one name,emoji,color line per category" type:"existingfile"`
}

func (cmd *CategoriesEditCmd) Run(appCtx *types.AppContext) error {
	session := openSession(appCtx)
	defer session.Close()

	text, err := cmd.read(store.FormatCategoryLines(session.Registry.Categories()))
	if err != nil {
		return err
	}

	if err := session.EditCategories(text); err != nil {
		return fmt.Errorf("invalid categories: %w", err)
	}

	fmt.Printf("%s\n", ui.SuccessStyle.Render(fmt.Sprintf("✅ %d categories saved", len(session.Registry.Categories()))))
	return nil
}

func (cmd *CategoriesEditCmd) read(current string) (string, error) {
	if cmd.File != "" {
		data, err := os.ReadFile(cmd.File)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", cmd.File, err)
		}
		return string(data), nil
	}

	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	return editInEditor(current)
}

// editInEditor opens text in $VISUAL or $EDITOR and returns the saved result
func editInEditor(text string) (string, error) {
	editor := os.Getenv("VISUAL")
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vi"
	}

	tmp, err := os.CreateTemp("", "sortshot-categories-*.txt")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(text); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	args := append(strings.Fields(editor), tmp.Name())
	c := exec.Command(args[0], args[1:]...)
	c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := c.Run(); err != nil {
		return "", fmt.Errorf("editor %s failed: %w", editor, err)
	}

	data, err := os.ReadFile(tmp.Name())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

type CategoriesResetCmd struct {
	Yes bool `short:"y" help:"Do not ask for confirmation"`
}

func (cmd *CategoriesResetCmd) Run(appCtx *types.AppContext) error {
	if !cmd.Yes && !confirm(os.Stdin, os.Stdout, "Reset all categories and counters?") {
		fmt.Println("Cancelled")
		return nil
	}

	session := openSession(appCtx)
	defer session.Close()

	session.ResetCategories()
	fmt.Printf("%s\n", ui.SuccessStyle.Render("✅ Categories reset to defaults"))
	return nil
}
