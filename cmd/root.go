package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kunnath/EDEKA-Analytics/pkg/config"
	"github.com/kunnath/EDEKA-Analytics/pkg/db"
	"github.com/kunnath/EDEKA-Analytics/pkg/notify"
	syncengine "github.com/kunnath/EDEKA-Analytics/pkg/sync"
	"github.com/kunnath/EDEKA-Analytics/pkg/util"
)

var cfg *config.Config
var configFilePath string

func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   util.AppName,
		Short: "EDEKA analytics database synchronization tool",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableNoDescFlag:   true,
			DisableDescriptions: true,
			HiddenDefaultCmd:    true,
		},
		Version: util.GetVersion().Version,
	}
	cmd.PersistentFlags().StringVarP(&configFilePath, "config", "c", "./etc/config.yaml", "path to the config file")

	cmd.AddCommand(NewSyncCommand())
	cmd.AddCommand(NewSchedulerCommand())
	cmd.AddCommand(NewInitCommand())
	cmd.AddCommand(NewServerCommand())
	return cmd
}

// loadConfig resolves and validates the config file, then rebuilds the
// global logger if a file sink is configured.
func loadConfig() error {
	var err error
	cfg, err = config.Load(configFilePath)
	if err != nil {
		return err
	}
	if cfg.Log != nil && cfg.Log.File != "" {
		logger := util.InitZapLogWithFile(cfg.Log)
		zap.ReplaceGlobals(logger)
	}
	return nil
}

// setupDatabases opens the internal handle and, when the run needs a real
// source, the external one. Development mode replaces the external read
// with the synthetic generator, so no external handle is opened.
func setupDatabases(withExternal bool) error {
	if err := db.InitInternalDB(cfg.Databases.Internal); err != nil {
		return err
	}
	if withExternal && !config.DevMode() {
		if err := db.InitExternalDB(cfg.Databases.External); err != nil {
			return err
		}
	}
	return nil
}

// newManager builds the orchestrator and attaches the optional NATS
// notifier.
func newManager() (*syncengine.Manager, func(), error) {
	manager := syncengine.NewManagerFromDBs(cfg, db.GetInternalDB(), db.GetExternalDB(), zap.S())
	cleanup := func() {}
	if cfg.Nats != nil {
		notifier, err := notify.NewNotifier(cfg.Nats)
		if err != nil {
			zap.S().Warnf("nats notifier unavailable: %v", err)
		} else {
			manager.SetNotifier(notifier)
			cleanup = notifier.Close
		}
	}
	return manager, cleanup, nil
}
