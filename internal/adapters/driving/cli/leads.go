package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/leadcache/internal/core/domain"
)

var (
	leadsStatusFilter string
	leadsSyncFirst    bool
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List cached leads",
	Long: `Prints the locally cached lead snapshot. Reads are served from the
cache without touching the remote API; pass --sync to pull pending
changes first.`,
	RunE: runLeads,
}

func init() {
	leadsCmd.Flags().StringVar(&leadsStatusFilter, "status", "", "Only show leads with this status")
	leadsCmd.Flags().BoolVar(&leadsSyncFirst, "sync", false, "Synchronise before listing")
	rootCmd.AddCommand(leadsCmd)
}

func runLeads(cmd *cobra.Command, _ []string) error {
	if leadEngine == nil {
		return errors.New("lead cache not configured")
	}

	ctx := context.Background()

	if leadsStatusFilter != "" && !domain.LeadStatus(leadsStatusFilter).IsValid() {
		return fmt.Errorf("unknown status %q", leadsStatusFilter)
	}

	if leadsSyncFirst {
		if syncCoordinator == nil {
			return errors.New("sync service not configured")
		}
		if err := syncCoordinator.SyncAll(ctx); err != nil {
			// Stale data is still usable data.
			cmd.PrintErrf("Warning: sync failed, showing cached data as of last successful sync: %v\n", err)
		}
	}

	if err := leadEngine.Load(ctx); err != nil {
		return fmt.Errorf("load cache: %w", err)
	}

	leads := leadEngine.Items()
	if leadsStatusFilter != "" {
		filtered := leads[:0]
		for _, lead := range leads {
			if lead.Status == domain.LeadStatus(leadsStatusFilter) {
				filtered = append(filtered, lead)
			}
		}
		leads = filtered
	}

	if len(leads) == 0 {
		cmd.Println("No leads cached. Run 'leadcache sync' to populate the cache.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCOMPANY\tSTATUS\tLAST ACTIVITY")
	for _, lead := range leads {
		lastActivity := "-"
		if !lead.LastActivity.IsZero() {
			lastActivity = lead.LastActivity.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			lead.ID, lead.Name, lead.Company, lead.Status, lastActivity)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	cmd.Printf("\n%d leads\n", len(leads))
	return nil
}
