//	@title			Stock Manager API
//	@version		1.0
//	@description	Inventory ledger: catalog, purchases, sales and sales analytics.
//	@BasePath		/api/v1
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "stock-manager",
	Short: "Inventory ledger API",
	Long:  "stock-manager keeps a product catalog, records purchases and sales against it and reports on sales.",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML config file (falls back to CONFIG_PATH)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
