package extract

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hmelton/plaidbean/pkg/extract"
	"github.com/hmelton/plaidbean/pkg/persistence"
)

var configPath *string

// ExtractCmd represents the extract command
var ExtractCmd = &cobra.Command{
	Use:   "extract",
	Short: "convert snapshots into beancount entries",
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := extract.Extract(*configPath); err != nil {
			return fmt.Errorf("extract failed: %w", err)
		}
		return nil
	},
}

func init() {
	configPath = ExtractCmd.PersistentFlags().String("config", persistence.DefaultConfigPath, "config file path")
}
