package relink

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hmelton/plaidbean/pkg/link"
	"github.com/hmelton/plaidbean/pkg/persistence"
)

var (
	configPath  *string
	institution *string
)

// RelinkCmd represents the relink command
var RelinkCmd = &cobra.Command{
	Use:   "relink",
	Short: "re-authenticate a linked institution",
	Run: func(_ *cobra.Command, _ []string) {
		if err := link.Relink(*configPath, *institution); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	configPath = RelinkCmd.PersistentFlags().String("config", persistence.DefaultConfigPath, "config file path")

	institution = RelinkCmd.PersistentFlags().String("institution", "", "")
	_ = RelinkCmd.MarkPersistentFlagRequired("institution")
}
