package domain

import "strings"

// Contact field names as transmitted by the contact list feed.
const (
	FieldLeadID = "lead_id"
	FieldEmails = "emails"
)

// Contact is an anchor record linking a lead to one or more email
// addresses used for message correlation.
type Contact struct {
	// ID is the remote identifier, unique within the contact list.
	ID string `json:"id"`

	// LeadID is the lead this contact anchors.
	LeadID string `json:"lead_id"`

	// Name is the contact's display name.
	Name string `json:"name,omitempty"`

	// Emails are the contact's addresses, as transmitted.
	Emails []string `json:"emails,omitempty"`

	// Extra carries unmodelled feed fields through unchanged.
	Extra map[string]string `json:"extra,omitempty"`
}

// ItemID implements Syncable.
func (c Contact) ItemID() string {
	return c.ID
}

// UsableEmails returns the contact's addresses that look valid enough
// to use as correlation keys.
func (c Contact) UsableEmails() []string {
	var usable []string
	for _, addr := range c.Emails {
		if looksLikeEmail(addr) {
			usable = append(usable, strings.TrimSpace(addr))
		}
	}
	return usable
}

// looksLikeEmail is a cheap shape check, not RFC validation.
// Correlation queries just need a local part and a domain with a dot.
func looksLikeEmail(addr string) bool {
	addr = strings.TrimSpace(addr)
	at := strings.Index(addr, "@")
	if at <= 0 || at == len(addr)-1 {
		return false
	}
	host := addr[at+1:]
	return strings.Contains(host, ".") && !strings.ContainsAny(addr, " \t")
}

// ContactFromChange builds a Contact from a feed change record.
// The emails field is a semicolon- or comma-separated list.
func ContactFromChange(rec ChangeRecord) (Contact, error) {
	if rec.ID == "" {
		return Contact{}, ErrInvalidInput
	}

	contact := Contact{ID: rec.ID}
	for key, val := range rec.Fields {
		switch key {
		case FieldName:
			contact.Name = val
		case FieldLeadID:
			contact.LeadID = val
		case FieldEmails:
			contact.Emails = splitEmails(val)
		default:
			if contact.Extra == nil {
				contact.Extra = make(map[string]string)
			}
			contact.Extra[key] = val
		}
	}
	return contact, nil
}

// splitEmails splits a feed email list on semicolons and commas.
func splitEmails(val string) []string {
	fields := strings.FieldsFunc(val, func(r rune) bool {
		return r == ';' || r == ','
	})
	var emails []string
	for _, f := range fields {
		if trimmed := strings.TrimSpace(f); trimmed != "" {
			emails = append(emails, trimmed)
		}
	}
	return emails
}
