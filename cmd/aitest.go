package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/lepinkainen/sortshot/types"
	"github.com/lepinkainen/sortshot/ui"
	"github.com/lepinkainen/sortshot/utils"
)

// AITestCmd checks that the API key works with a text-only request
type AITestCmd struct {
	APIKey  string        `name:"api-key" help:"Gemini API key (defaults to GEMINI_API_KEY or GOOGLE_API_KEY)"`
	Model   string        `help:"Gemini model name" default:"gemini-2.5-flash"`
	Timeout time.Duration `help:"Request timeout" default:"30s"`
}

func (cmd *AITestCmd) Run(appCtx *types.AppContext) error {
	printHeader(appCtx)

	key := utils.ResolveAPIKey(cmd.APIKey, os.Getenv)
	fmt.Printf("API key: %s\n", utils.MaskKey(key))
	fmt.Printf("Model: %s\n\n", cmd.Model)

	client, err := AIFlags{APIKey: key, Model: cmd.Model}.client()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cmd.Timeout)
	defer cancel()

	reply, err := client.Ping(ctx)
	if err != nil {
		fmt.Printf("%s\n", ui.ErrorStyle.Render(fmt.Sprintf("❌ Connection failed: %v", err)))
		return err
	}

	fmt.Printf("%s\n", ui.SuccessStyle.Render("✅ Connection working"))
	fmt.Printf("Reply: %s\n", truncateString(reply, 200))
	return nil
}
