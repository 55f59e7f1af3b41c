package link

import (
	"fmt"
	"os"

	"github.com/plaid/plaid-go/plaid"
	"github.com/spf13/cobra"

	"github.com/hmelton/plaidbean/pkg/link"
	"github.com/hmelton/plaidbean/pkg/persistence"
)

var (
	configPath  *string
	institution *string
	products    *[]string
)

// LinkCmd represents the link command
var LinkCmd = &cobra.Command{
	Use:   "link",
	Short: "link an institution",
	Run: func(_ *cobra.Command, _ []string) {
		var plaidProducts []plaid.Products
		for _, product := range *products {
			if product != string(plaid.PRODUCTS_INVESTMENTS) && product != string(plaid.PRODUCTS_TRANSACTIONS) {
				fmt.Println("products should be investments or transactions")
				os.Exit(1)
			}
			plaidProducts = append(plaidProducts, plaid.Products(product))
		}

		if err := link.Link(*configPath, *institution, plaidProducts); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	configPath = LinkCmd.PersistentFlags().String("config", persistence.DefaultConfigPath, "config file path")

	institution = LinkCmd.PersistentFlags().String("institution", "", "")
	_ = LinkCmd.MarkPersistentFlagRequired("institution")

	products = LinkCmd.PersistentFlags().StringSlice("products", []string{"transactions"}, "products to link (transactions, investments)")
}
