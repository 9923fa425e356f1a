// Command leadcache maintains a local, delta-synchronised cache of
// remote CRM lead lists and derives lead statuses from message activity.
package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/leadcache/internal/adapters/driven/auth"
	"github.com/custodia-labs/leadcache/internal/adapters/driven/config/file"
	"github.com/custodia-labs/leadcache/internal/adapters/driven/correlate"
	"github.com/custodia-labs/leadcache/internal/adapters/driven/feed"
	"github.com/custodia-labs/leadcache/internal/adapters/driven/notify"
	"github.com/custodia-labs/leadcache/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/leadcache/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/leadcache/internal/adapters/driving/cli"
	"github.com/custodia-labs/leadcache/internal/core/domain"
	"github.com/custodia-labs/leadcache/internal/core/ports/driven"
	"github.com/custodia-labs/leadcache/internal/core/services"
	"github.com/custodia-labs/leadcache/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "dev"

const (
	leadListID    = "leads"
	contactListID = "contacts"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}

	// Storage: SQLite with an in-memory fallback, so a broken data dir
	// degrades to a session cache instead of refusing to start.
	var store driven.SnapshotStore
	sqliteStore, err := sqlite.NewStore(configStore.GetString("storage.data_dir"))
	if err != nil {
		logger.Warn("opening persistent cache failed, falling back to in-memory: %v", err)
		store = memory.NewSnapshotStore()
	} else {
		store = sqliteStore
		defer sqliteStore.Close()
	}

	tokens := tokenProvider(configStore)
	baseURL := configStore.GetString("api.base_url")
	notifier := notify.NewLogNotifier()

	leadEngine := services.NewEngine(
		leadListID,
		feed.NewClient(feed.ClientConfig{BaseURL: baseURL, ListID: leadListID, Tokens: tokens}),
		store,
		domain.LeadFromChange,
		notifier,
	)
	contactEngine := services.NewEngine(
		contactListID,
		feed.NewClient(feed.ClientConfig{BaseURL: baseURL, ListID: contactListID, Tokens: tokens}),
		store,
		domain.ContactFromChange,
		notifier,
	)

	evaluator := services.NewEvaluator(statusPolicy(configStore), leadEngine, contactEngine, messageSearch(configStore, tokens))

	coordinator := services.NewCoordinator(evaluator)
	coordinator.Register(leadEngine)
	coordinator.Register(contactEngine)

	scheduler := services.NewScheduler(configStore.GetDuration("sync.interval"), coordinator)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Coordinator: coordinator,
		LeadEngine:  leadEngine,
		Scheduler:   scheduler,
		Config:      configStore,
		ListIDs:     []string{leadListID, contactListID},
	})

	return cli.Execute()
}

// tokenProvider picks the auth scheme from config: a static token when
// one is set, otherwise unauthenticated.
func tokenProvider(cfg driven.ConfigStore) driven.TokenProvider {
	if token := cfg.GetString("api.token"); token != "" {
		return auth.NewStaticTokenProvider(token)
	}
	return auth.NewNullTokenProvider()
}

// messageSearch builds the correlation transport, or nil when no mail
// API is configured, which disables the derived-status pass.
func messageSearch(cfg driven.ConfigStore, tokens driven.TokenProvider) driven.MessageSearch {
	mailURL := cfg.GetString("mail.base_url")
	if mailURL == "" {
		return nil
	}
	return correlate.NewClient(correlate.ClientConfig{BaseURL: mailURL, Tokens: tokens})
}

// statusPolicy reads evaluator tuning from config, falling back to the
// domain defaults for anything unset.
func statusPolicy(cfg driven.ConfigStore) domain.StatusPolicy {
	policy := domain.DefaultStatusPolicy()
	policy.UserAddress = cfg.GetString("status.user_address")

	if mode := domain.CandidateMode(cfg.GetString("status.candidate_mode")); mode.IsValid() {
		policy.Mode = mode
	}
	if size := cfg.GetInt("status.batch_size"); size > 0 {
		policy.BatchSize = size
	}
	if d := cfg.GetDuration("status.our_reply_escalation"); d > 0 {
		policy.OurReplyEscalation = d
	}
	if d := cfg.GetDuration("status.their_reply_escalation"); d > 0 {
		policy.TheirReplyEscalation = d
	}
	return policy
}
