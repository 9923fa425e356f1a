// Package services implements the core business logic for leadcache.
//
// The three central services mirror the sync pipeline:
//
//   - Engine: keeps one list's snapshot consistent with its change feed
//   - Coordinator: runs all engines together and isolates their failures
//   - Evaluator: computes derived lead statuses after each sync round
//
// Scheduler drives the pipeline periodically for watch mode.
//
// Services depend only on domain types and port interfaces, never on
// concrete adapters.
package services
