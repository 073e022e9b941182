package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var shopsCmd = &cobra.Command{
	Use:   "shops",
	Short: "List registered shops",
	RunE:  runShops,
}

func init() {
	rootCmd.AddCommand(shopsCmd)
}

func runShops(cmd *cobra.Command, _ []string) error {
	if shopStore == nil {
		return errors.New("shop store not configured")
	}

	shops, err := shopStore.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing shops: %w", err)
	}

	if len(shops) == 0 {
		cmd.Println("No shops registered yet; run an ingest cycle first.")
		return nil
	}

	cmd.Println(headerStyle.Render(fmt.Sprintf("%-14s %-16s %s", "Code", "Name", "URL")))
	for _, shop := range shops {
		cmd.Printf("%-14s %-16s %s\n", shop.Code, shop.Name, mutedStyle.Render(shop.BaseURL))
	}
	return nil
}
