package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/leadcache/internal/core/ports/driving"
)

var syncCmd = &cobra.Command{
	Use:   "sync [list-id]",
	Short: "Synchronise cached lists with their remote feeds",
	Long: `Pulls pending changes from the remote delta feeds and reconciles
them into the local cache. If a list ID is provided, only that list is
synchronised. Otherwise, all configured lists are synchronised and the
derived-status pass runs afterwards.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	if syncCoordinator == nil {
		return errors.New("sync service not configured")
	}

	ctx := context.Background()

	if len(args) > 0 {
		listID := args[0]
		cmd.Printf("Synchronising list: %s...\n", listID)

		if err := syncWithProgress(ctx, cmd, syncCoordinator, listID); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}

		cmd.Printf("List %s synchronised successfully.\n", listID)
	} else {
		cmd.Println("Synchronising all lists...")

		if err := syncCoordinator.SyncAll(ctx); err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}

		cmd.Println("All lists synchronised successfully.")
	}

	return nil
}

// syncWithProgress runs sync while displaying progress updates.
func syncWithProgress(
	ctx context.Context,
	cmd *cobra.Command,
	coord driving.SyncCoordinator,
	listID string,
) error {
	// Start sync in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- coord.Sync(ctx, listID)
	}()

	// Poll status every 500ms
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	lastCount := 0
	for {
		select {
		case err := <-errCh:
			// Print final status (ignore status error - best effort)
			status, statusErr := coord.Status(ctx, listID)
			if statusErr == nil && status != nil && status.RecordsApplied > 0 {
				cmd.Printf("\rApplied %d change records\n", status.RecordsApplied)
			}
			return err
		case <-ticker.C:
			// Check progress (ignore status error - best effort)
			status, statusErr := coord.Status(ctx, listID)
			if statusErr == nil && status != nil && status.RecordsApplied > lastCount {
				cmd.Printf("\rApplying... %d change records", status.RecordsApplied)
				lastCount = status.RecordsApplied
			}
		}
	}
}
