package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactFromChange_SplitsEmails(t *testing.T) {
	rec := ChangeRecord{
		ID: "contact-1",
		Fields: map[string]string{
			"name":    "Ada Lovelace",
			"lead_id": "lead-1",
			"emails":  "ada@analytical.example; a.lovelace@babbage.example,ops@analytical.example",
		},
	}

	contact, err := ContactFromChange(rec)
	require.NoError(t, err)
	assert.Equal(t, "lead-1", contact.LeadID)
	assert.Equal(t, []string{
		"ada@analytical.example",
		"a.lovelace@babbage.example",
		"ops@analytical.example",
	}, contact.Emails)
}

func TestContact_UsableEmails_FiltersShapelessAddresses(t *testing.T) {
	contact := Contact{
		ID: "contact-2",
		Emails: []string{
			"valid@corp.example",
			"no-at-sign",
			"@missing-local.example",
			"trailing@",
			"spaces in@side.example",
			"plain@localhost",
		},
	}

	assert.Equal(t, []string{"valid@corp.example"}, contact.UsableEmails())
}

func TestContact_UsableEmails_EmptyList(t *testing.T) {
	assert.Nil(t, Contact{ID: "contact-3"}.UsableEmails())
}

func TestContactFromChange_EmptyIDRejected(t *testing.T) {
	_, err := ContactFromChange(ChangeRecord{ID: ""})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
