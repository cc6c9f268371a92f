package main

import (
	"log"
	"os"

	"productcrud/cmd/migrate"
	"productcrud/cmd/serve"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := newRootCommand(viper.New()).Execute(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func newRootCommand(v *viper.Viper) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "productcrud",
		Short:        "CRUD HTTP service for products",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("config", "", "Path to a config file (yaml, json, toml or env)")

	rootCmd.AddCommand(serve.NewServeCommand(v))
	rootCmd.AddCommand(migrate.NewMigrateCommand(v))
	return rootCmd
}
