package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kunnath/EDEKA-Analytics/pkg/server"
	"github.com/kunnath/EDEKA-Analytics/pkg/util"
)

func NewServerCommand() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Serve the ops API (manual sync trigger, sync log)",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadConfig(); err != nil {
				return err
			}
			if err := util.IsValidPort(port); err != nil {
				return err
			}
			return setupDatabases(true)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			zap.S().Infof("*** %s %s ***", util.AppName, util.GetVersion().Version)

			manager, cleanup, err := newManager()
			if err != nil {
				return err
			}
			defer cleanup()

			webServer := server.NewServer(port, server.NewHandler(manager, zap.S()))

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			g, c := errgroup.WithContext(ctx)
			g.Go(func() error {
				return webServer.Run()
			})
			g.Go(func() error {
				<-c.Done()
				_ = webServer.GracefulShutdown(context.Background())
				return c.Err()
			})
			if err := g.Wait(); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "ops api listen port")
	return cmd
}
