// Package domain defines the core business entities for leadcache.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ChangeRecord: One entry from a remote list's change feed
//   - Lead: A tracked sales lead, reconciled from the feed
//   - Contact: An anchor record linking a lead to email addresses
//   - ListState: The persisted snapshot + cursor for one list
//   - StatusPolicy: Configuration for derived-status evaluation
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
