// Package cli implements the leadcache command-line interface using cobra.
// Commands are thin: they validate input, call into the core services and
// format output. All wiring happens in main.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/leadcache/internal/core/domain"
	"github.com/custodia-labs/leadcache/internal/core/ports/driven"
	"github.com/custodia-labs/leadcache/internal/core/ports/driving"
	"github.com/custodia-labs/leadcache/internal/core/services"
	"github.com/custodia-labs/leadcache/internal/logger"
)

// version is the build version, injected via SetVersion from main.
var version = "dev"

// Injected services. main wires these before calling Execute; commands
// treat a nil service as "not configured".
var (
	syncCoordinator driving.SyncCoordinator
	leadEngine      *services.Engine[domain.Lead]
	scheduler       *services.Scheduler
	configStore     driven.ConfigStore
	listIDs         []string
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "leadcache",
	Short: "Local delta-synchronised cache of CRM lead lists",
	Long: `leadcache keeps a local cache of remote CRM lead lists in sync
through their delta feeds and derives lead statuses by correlating
contact addresses against the message store.

The cache survives restarts: reads are served locally and refreshed
incrementally, so the remote API is only asked for what changed.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
}

// Services bundles everything the commands need.
type Services struct {
	Coordinator driving.SyncCoordinator
	LeadEngine  *services.Engine[domain.Lead]
	Scheduler   *services.Scheduler
	Config      driven.ConfigStore

	// ListIDs are the registered lists, in registration order.
	ListIDs []string
}

// SetServices injects the wired services into the command tree.
func SetServices(s Services) {
	syncCoordinator = s.Coordinator
	leadEngine = s.LeadEngine
	scheduler = s.Scheduler
	configStore = s.Config
	listIDs = s.ListIDs
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
