package domain

import (
	"strconv"
	"time"
)

// Well-known lead field names as transmitted by the list feed.
const (
	FieldName              = "name"
	FieldCompany           = "company"
	FieldEmail             = "email"
	FieldStatus            = "status"
	FieldStatusChangedAt   = "status_changed_at"
	FieldStatusSetBySystem = "status_set_by_system"
	FieldLastActivity      = "last_activity"
)

// Lead is the reconciled local representation of one remote lead record.
// It is owned exclusively by the lead list's sync engine and mutated only
// through change application or the engine's write-back path.
type Lead struct {
	// ID is the remote identifier, unique within the lead list.
	ID string `json:"id"`

	// Name is the lead's display name.
	Name string `json:"name"`

	// Company is the lead's organisation.
	Company string `json:"company,omitempty"`

	// Email is the lead's primary address, if the list carries one.
	Email string `json:"email,omitempty"`

	// Status is the lead's position in the contact cycle.
	Status LeadStatus `json:"status"`

	// StatusSetBySystem marks the status as computed by the evaluator
	// rather than set by a user. Any explicit user write clears it.
	StatusSetBySystem bool `json:"status_set_by_system"`

	// StatusChangedAt is when Status last changed, by either party.
	StatusChangedAt time.Time `json:"status_changed_at,omitempty"`

	// LastActivity is the timestamp of the newest known correspondence.
	LastActivity time.Time `json:"last_activity,omitempty"`

	// Extra carries unmodelled feed fields through unchanged so that
	// round-trip fidelity is preserved without dynamic typing.
	Extra map[string]string `json:"extra,omitempty"`
}

// ItemID implements Syncable.
func (l Lead) ItemID() string {
	return l.ID
}

// LeadFromChange builds a Lead from a feed change record.
// Unknown fields land in Extra; malformed timestamps are treated as unset.
func LeadFromChange(rec ChangeRecord) (Lead, error) {
	if rec.ID == "" {
		return Lead{}, ErrInvalidInput
	}

	lead := Lead{ID: rec.ID, Status: LeadStatusNew}
	for key, val := range rec.Fields {
		switch key {
		case FieldName:
			lead.Name = val
		case FieldCompany:
			lead.Company = val
		case FieldEmail:
			lead.Email = val
		case FieldStatus:
			if status := LeadStatus(val); status.IsValid() {
				lead.Status = status
			}
		case FieldStatusSetBySystem:
			if b, err := strconv.ParseBool(val); err == nil {
				lead.StatusSetBySystem = b
			}
		case FieldStatusChangedAt:
			lead.StatusChangedAt = parseFeedTime(val)
		case FieldLastActivity:
			lead.LastActivity = parseFeedTime(val)
		default:
			if lead.Extra == nil {
				lead.Extra = make(map[string]string)
			}
			lead.Extra[key] = val
		}
	}
	return lead, nil
}

// parseFeedTime parses an RFC 3339 timestamp from the feed.
// Returns the zero time for empty or malformed values.
func parseFeedTime(val string) time.Time {
	if val == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return time.Time{}
	}
	return t
}
