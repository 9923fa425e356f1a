package domain

import "time"

// CandidateMode selects which leads the evaluator rechecks each pass.
type CandidateMode string

// Available candidate modes.
const (
	// CandidateModeAll rechecks every lead in the snapshot.
	CandidateModeAll CandidateMode = "all"

	// CandidateModeActive rechecks only leads not in a terminal status.
	CandidateModeActive CandidateMode = "active"
)

// IsValid returns true if the candidate mode is recognised.
func (m CandidateMode) IsValid() bool {
	return m == CandidateModeAll || m == CandidateModeActive
}

// String returns the string representation.
func (m CandidateMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m CandidateMode) Description() string {
	switch m {
	case CandidateModeAll:
		return "All leads (recheck everything)"
	case CandidateModeActive:
		return "Active leads (skip closed)"
	default:
		return unknownDescription
	}
}

// Default evaluation settings.
const (
	// DefaultCorrelationBatchSize is the remote batch API's sub-request
	// limit per multiplexed call.
	DefaultCorrelationBatchSize = 20

	// DefaultOurReplyEscalation escalates a lead awaiting our reply.
	DefaultOurReplyEscalation = 48 * time.Hour

	// DefaultTheirReplyEscalation escalates a lead awaiting their reply
	// or merely on file.
	DefaultTheirReplyEscalation = 168 * time.Hour
)

// StatusPolicy configures the derived-status evaluation pass.
type StatusPolicy struct {
	// Mode selects evaluation candidates.
	Mode CandidateMode

	// BatchSize bounds sub-requests per multiplexed search call.
	BatchSize int

	// OurReplyEscalation is how long a lead may sit awaiting our reply
	// before it is forced to action required.
	OurReplyEscalation time.Duration

	// TheirReplyEscalation is how long a lead may sit awaiting their
	// reply, or on file, before it is forced to action required.
	TheirReplyEscalation time.Duration

	// UserAddress is the authenticated user's own address, used to
	// classify message direction.
	UserAddress string
}

// DefaultStatusPolicy returns the default evaluation configuration.
func DefaultStatusPolicy() StatusPolicy {
	return StatusPolicy{
		Mode:                 CandidateModeActive,
		BatchSize:            DefaultCorrelationBatchSize,
		OurReplyEscalation:   DefaultOurReplyEscalation,
		TheirReplyEscalation: DefaultTheirReplyEscalation,
	}
}

// EscalationThreshold returns the stale-conversation threshold for a
// status, or zero if the status never escalates.
func (p StatusPolicy) EscalationThreshold(status LeadStatus) time.Duration {
	switch status {
	case LeadStatusAwaitingOurReply:
		return p.OurReplyEscalation
	case LeadStatusAwaitingTheirReply, LeadStatusOnFile:
		return p.TheirReplyEscalation
	default:
		return 0
	}
}
