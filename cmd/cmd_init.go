package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kunnath/EDEKA-Analytics/pkg/db"
	"github.com/kunnath/EDEKA-Analytics/pkg/models"
)

func NewInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the internal database schema",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(); err != nil {
				return err
			}
			return setupDatabases(false)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			zap.S().Info("initializing internal database schema")
			if err := models.InitSchema(db.GetInternalDB()); err != nil {
				return err
			}
			zap.S().Info("internal database schema initialized")
			fmt.Printf("schema initialized for database %s\n", cfg.Databases.Internal.Database)
			return nil
		},
	}
	return cmd
}
