package fetch

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hmelton/plaidbean/pkg/fetch"
	"github.com/hmelton/plaidbean/pkg/persistence"
)

var configPath *string

// FetchCmd represents the fetch command
var FetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "fetch account data from plaid into snapshots",
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := fetch.Fetch(*configPath); err != nil {
			return fmt.Errorf("fetch failed: %w", err)
		}
		return nil
	},
}

func init() {
	configPath = FetchCmd.PersistentFlags().String("config", persistence.DefaultConfigPath, "config file path")
}
