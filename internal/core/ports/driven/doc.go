// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ChangeFeed: Pulls cursor-paginated change pages from a remote list
//   - SnapshotStore: List snapshot + cursor persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - MessageSearch: Batched message correlation. Without it, the
//     derived-status pass is disabled.
//   - TokenProvider: Access tokens for authenticated transports. The
//     null provider serves unauthenticated endpoints.
//   - Notifier: Change notification sink. Without it, consumers poll.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
