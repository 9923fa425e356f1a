package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status for each list",
	Long: `Shows the last sync outcome per configured list: whether a sync is
running, how many change records the last pass applied and the last
error if one occurred.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if syncCoordinator == nil {
		return errors.New("sync service not configured")
	}
	if len(listIDs) == 0 {
		cmd.Println("No lists configured.")
		return nil
	}

	ctx := context.Background()

	for _, listID := range listIDs {
		status, err := syncCoordinator.Status(ctx, listID)
		if err != nil {
			cmd.Printf("%s: status unavailable: %v\n", listID, err)
			continue
		}

		switch {
		case status.Running:
			cmd.Printf("%s: sync in progress\n", listID)
		case status.LastError != "":
			cmd.Printf("%s: last sync failed (%s), cached data is as of last successful sync\n",
				listID, status.LastError)
		default:
			cmd.Printf("%s: ok, %d records applied on last sync\n", listID, status.RecordsApplied)
		}
	}

	if configStore != nil {
		cmd.Printf("\nConfig: %s\n", configStore.Path())
	}
	return nil
}
