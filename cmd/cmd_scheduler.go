package cmd

import (
	"context"
	stderrors "errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	syncengine "github.com/kunnath/EDEKA-Analytics/pkg/sync"
)

func NewSchedulerCommand() *cobra.Command {
	var cronExpr string
	var runOnStart bool
	cmd := &cobra.Command{
		Use:   "scheduler",
		Short: "Run the sync on a fixed interval (or --cron expression) until interrupted",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(); err != nil {
				return err
			}
			return setupDatabases(true)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, cleanup, err := newManager()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			scheduler := syncengine.NewScheduler(manager, zap.S())

			if runOnStart {
				zap.S().Info("running initial sync before entering the schedule...")
				if _, err := manager.SyncAll(); err != nil {
					zap.S().Errorf("initial sync failed: %v", err)
				}
			}

			g, c := errgroup.WithContext(ctx)
			g.Go(func() error {
				if cronExpr != "" {
					return scheduler.StartCron(c, cronExpr)
				}
				scheduler.StartInterval(c, syncengine.IntervalFromEnv(zap.S()))
				return nil
			})

			zap.S().Info("scheduler running, waiting for exit signal...")
			if err := g.Wait(); err != nil && !stderrors.Is(err, context.Canceled) {
				return err
			}
			zap.S().Info("scheduler stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&cronExpr, "cron", "", "cron expression (5 or 6 fields) overriding the interval")
	cmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "run one sync immediately before scheduling")
	return cmd
}
