package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/leadcache/internal/core/services"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep the cache in sync on a fixed interval",
	Long: `Runs the sync pipeline continuously. The first round runs
immediately; subsequent rounds run on the configured interval until
interrupted. Round failures are logged and retried on the next tick.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0,
		"Sync interval (default from config, else "+services.DefaultSyncInterval.String()+")")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if scheduler == nil && syncCoordinator == nil {
		return errors.New("sync service not configured")
	}

	sched := scheduler
	if sched == nil || watchInterval > 0 {
		interval := watchInterval
		if interval <= 0 && configStore != nil {
			interval = configStore.GetDuration("sync.interval")
		}
		sched = services.NewScheduler(interval, syncCoordinator)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Println("Watching for changes. Press Ctrl+C to stop.")

	err := sched.Start(ctx)
	if errors.Is(err, context.Canceled) {
		cmd.Println("\nStopped.")
		return nil
	}
	return err
}
