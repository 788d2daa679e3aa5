package main

import (
	"context"
	"os/signal"
	"syscall"

	"clamir/app"
	"clamir/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the panel buttons over NATS",
	Long: "Subscribes to request.clamir.<button> and answers each request through the panel. " +
		"Connect notifications are published to clamir.notify.<kind>.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		rt, err := newRuntime(ctx, runtimeOptions{needNats: true})
		if err != nil {
			return err
		}
		defer rt.Close()

		panel, err := rt.panel(logNotifier(rt.log))
		if err != nil {
			return err
		}

		bridge, err := attachBridge(ctx, panel, rt.nc, rt.log)
		if err != nil {
			return err
		}

		<-ctx.Done()

		rt.log.Info("received shutdown signal, shutting down...")
		bridge.Stop()
		return nil
	},
}

// logNotifier acknowledges every notification by logging it.
func logNotifier(log *zap.Logger) app.Notifier {
	return app.NotifierFunc(func(_ context.Context, n models.Notification) error {
		log.Info(n.Message,
			zap.String("session", n.SessionID),
			zap.String("kind", string(n.Kind)),
			zap.Int("attempt", n.Attempt))
		return nil
	})
}
