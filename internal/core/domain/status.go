package domain

const unknownDescription = "Unknown"

// LeadStatus describes where a lead sits in the contact cycle.
type LeadStatus string

// Available lead statuses.
const (
	// LeadStatusNew is a freshly imported lead with no recorded contact.
	LeadStatusNew LeadStatus = "new"

	// LeadStatusAwaitingOurReply means the last message came from the lead.
	LeadStatusAwaitingOurReply LeadStatus = "awaiting_our_reply"

	// LeadStatusAwaitingTheirReply means the last message came from us.
	LeadStatusAwaitingTheirReply LeadStatus = "awaiting_their_reply"

	// LeadStatusOnFile is a lead kept for reference without an active thread.
	LeadStatusOnFile LeadStatus = "on_file"

	// LeadStatusActionRequired means the conversation has gone stale and
	// needs a follow-up.
	LeadStatusActionRequired LeadStatus = "action_required"

	// LeadStatusClosedWon is a converted lead.
	LeadStatusClosedWon LeadStatus = "closed_won"

	// LeadStatusClosedLost is a lead that did not convert.
	LeadStatusClosedLost LeadStatus = "closed_lost"
)

// IsValid returns true if the status is recognised.
func (s LeadStatus) IsValid() bool {
	switch s {
	case LeadStatusNew, LeadStatusAwaitingOurReply, LeadStatusAwaitingTheirReply,
		LeadStatusOnFile, LeadStatusActionRequired, LeadStatusClosedWon, LeadStatusClosedLost:
		return true
	default:
		return false
	}
}

// IsTerminal returns true for statuses that end the contact cycle.
// Terminal leads are skipped by the evaluator in active candidate mode.
func (s LeadStatus) IsTerminal() bool {
	return s == LeadStatusClosedWon || s == LeadStatusClosedLost
}

// String returns the string representation.
func (s LeadStatus) String() string {
	return string(s)
}

// Description returns a human-readable description of the status.
func (s LeadStatus) Description() string {
	switch s {
	case LeadStatusNew:
		return "New (no contact yet)"
	case LeadStatusAwaitingOurReply:
		return "Awaiting our reply"
	case LeadStatusAwaitingTheirReply:
		return "Awaiting their reply"
	case LeadStatusOnFile:
		return "On file"
	case LeadStatusActionRequired:
		return "Action required"
	case LeadStatusClosedWon:
		return "Closed (won)"
	case LeadStatusClosedLost:
		return "Closed (lost)"
	default:
		return unknownDescription
	}
}
