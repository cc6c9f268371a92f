// Package migrate implements the command that creates the products table.
package migrate

import (
	"fmt"
	"log"

	"productcrud/internal/config"
	"productcrud/internal/database"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewMigrateCommand returns the migrate command.
func NewMigrateCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the products table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			configFile, err := cmd.Flags().GetString("config")
			if err != nil {
				return err
			}
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			if cfg.Database.Driver == config.DriverMemory {
				return fmt.Errorf("nothing to migrate for the %s driver", config.DriverMemory)
			}

			dbCfg := cfg.Database
			dbCfg.AutoMigrate = true
			db, err := database.Open(dbCfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			log.Printf("Migrated %s database", dbCfg.Driver)
			return nil
		},
	}
}
