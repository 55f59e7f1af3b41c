package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hmelton/plaidbean/cmd/extract"
	"github.com/hmelton/plaidbean/cmd/fetch"
	"github.com/hmelton/plaidbean/cmd/link"
	"github.com/hmelton/plaidbean/cmd/migrate"
	"github.com/hmelton/plaidbean/cmd/relink"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "plaidbean",
	Short: "generate beancount ledgers from Plaid account data",
	Long: `plaidbean links financial institutions through Plaid, fetches their
accounts, transactions and holdings into local snapshots, and converts the
snapshots into balanced beancount entries.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cobra.OnInitialize(func() {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	})

	rootCmd.AddCommand(link.LinkCmd)
	rootCmd.AddCommand(relink.RelinkCmd)
	rootCmd.AddCommand(fetch.FetchCmd)
	rootCmd.AddCommand(extract.ExtractCmd)
	rootCmd.AddCommand(migrate.MigrateCmd)
}
