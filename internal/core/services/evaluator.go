package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/leadcache/internal/core/domain"
	"github.com/custodia-labs/leadcache/internal/core/ports/driven"
	"github.com/custodia-labs/leadcache/internal/logger"
)

// LeadSource is the evaluator's view of the lead engine. Write-back goes
// through SaveItems so the snapshot's ownership stays with the engine.
type LeadSource interface {
	Items() []domain.Lead
	SaveItems(ctx context.Context, leads []domain.Lead) error
}

// ContactSource is the evaluator's read-only view of the anchor engine.
type ContactSource interface {
	Items() []domain.Contact
}

// Evaluator computes derived lead statuses by correlating each lead's
// anchor addresses against the remote message search.
//
// One Evaluate call produces at most one write-back (and therefore one
// change notification), no matter how many leads changed.
type Evaluator struct {
	policy   domain.StatusPolicy
	leads    LeadSource
	contacts ContactSource
	search   driven.MessageSearch

	// now is injectable for tests.
	now func() time.Time
}

// NewEvaluator creates a derived-status evaluator.
func NewEvaluator(
	policy domain.StatusPolicy,
	leads LeadSource,
	contacts ContactSource,
	search driven.MessageSearch,
) *Evaluator {
	if policy.BatchSize <= 0 {
		policy.BatchSize = domain.DefaultCorrelationBatchSize
	}
	if !policy.Mode.IsValid() {
		policy.Mode = domain.CandidateModeActive
	}
	return &Evaluator{
		policy:   policy,
		leads:    leads,
		contacts: contacts,
		search:   search,
		now:      time.Now,
	}
}

// Evaluate runs one derived-status pass over the lead snapshot.
//
// The pass is all-or-nothing at the call level: a failed batch call
// commits nothing. Failures of individual sub-requests within a batch
// only skip the affected lead.
func (ev *Evaluator) Evaluate(ctx context.Context) error {
	if ev.search == nil {
		logger.Debug("status evaluation disabled: no message search configured")
		return nil
	}

	candidates := ev.selectCandidates()
	if len(candidates) == 0 {
		return nil
	}

	anchors := ev.anchorAddresses()
	signals, err := ev.correlate(ctx, candidates, anchors)
	if err != nil {
		return err
	}

	now := ev.now()
	var changed []domain.Lead
	for _, lead := range candidates {
		updated, dirty := ev.applySignal(lead, signals[lead.ID])
		updated, escalated := ev.escalate(updated, now)
		if dirty || escalated {
			changed = append(changed, updated)
		}
	}

	if len(changed) == 0 {
		return nil
	}
	logger.Info("Status evaluation updated %d of %d leads", len(changed), len(candidates))
	return ev.leads.SaveItems(ctx, changed)
}

// selectCandidates picks leads to recheck according to the policy mode.
func (ev *Evaluator) selectCandidates() []domain.Lead {
	all := ev.leads.Items()
	if ev.policy.Mode == domain.CandidateModeAll {
		return all
	}
	var active []domain.Lead
	for _, lead := range all {
		if !lead.Status.IsTerminal() {
			active = append(active, lead)
		}
	}
	return active
}

// anchorAddresses groups usable anchor addresses per lead, deduplicated.
func (ev *Evaluator) anchorAddresses() map[string][]string {
	anchors := make(map[string][]string)
	seen := make(map[string]map[string]bool)
	for _, contact := range ev.contacts.Items() {
		if contact.LeadID == "" {
			continue
		}
		for _, addr := range contact.UsableEmails() {
			key := strings.ToLower(addr)
			if seen[contact.LeadID] == nil {
				seen[contact.LeadID] = make(map[string]bool)
			}
			if seen[contact.LeadID][key] {
				continue
			}
			seen[contact.LeadID][key] = true
			anchors[contact.LeadID] = append(anchors[contact.LeadID], addr)
		}
	}
	return anchors
}

// correlate fetches each candidate's newest valid message, batching
// sub-requests to the remote limit. Leads without usable anchor
// addresses are skipped. A call-level batch failure aborts the pass;
// per-item failures only drop that item's signal.
func (ev *Evaluator) correlate(
	ctx context.Context,
	candidates []domain.Lead,
	anchors map[string][]string,
) (map[string]*domain.Message, error) {
	var queries []driven.MessageQuery
	for _, lead := range candidates {
		addrs := anchors[lead.ID]
		if len(addrs) == 0 {
			continue
		}
		queries = append(queries, driven.MessageQuery{ID: lead.ID, Addresses: addrs})
	}

	signals := make(map[string]*domain.Message)
	for start := 0; start < len(queries); start += ev.policy.BatchSize {
		end := start + ev.policy.BatchSize
		if end > len(queries) {
			end = len(queries)
		}

		results, err := ev.search.SearchBatch(ctx, queries[start:end])
		if err != nil {
			return nil, fmt.Errorf("message search batch: %w", err)
		}

		for _, res := range results {
			if res.Err != nil {
				logger.Debug("lead %s: message search failed, skipping: %v", res.ID, res.Err)
				continue
			}
			if msg := newestValid(res.Messages); msg != nil {
				signals[res.ID] = msg
			}
		}
	}
	return signals, nil
}

// newestValid returns the first non-draft message in feed-rank order.
// The feed ranks newest first; no re-sort on this side.
func newestValid(messages []domain.Message) *domain.Message {
	for i := range messages {
		if !messages[i].Draft {
			return &messages[i]
		}
	}
	return nil
}

// applySignal folds a correlated message into the lead. A message is
// only a signal when strictly newer than the last known activity, and a
// status the user set after the message's timestamp is never overwritten.
func (ev *Evaluator) applySignal(lead domain.Lead, msg *domain.Message) (domain.Lead, bool) {
	if msg == nil || !msg.Received.After(lead.LastActivity) {
		return lead, false
	}

	lead.LastActivity = msg.Received

	userSetLater := !lead.StatusSetBySystem && lead.StatusChangedAt.After(msg.Received)
	if !userSetLater {
		status := domain.LeadStatusAwaitingOurReply
		if strings.EqualFold(msg.From, ev.policy.UserAddress) {
			status = domain.LeadStatusAwaitingTheirReply
		}
		if lead.Status != status {
			lead.Status = status
			lead.StatusSetBySystem = true
			lead.StatusChangedAt = msg.Received
		}
	}
	return lead, true
}

// escalate forces a stale conversation to action required. Runs for
// every candidate whether or not a message signal arrived this pass.
func (ev *Evaluator) escalate(lead domain.Lead, now time.Time) (domain.Lead, bool) {
	threshold := ev.policy.EscalationThreshold(lead.Status)
	if threshold == 0 || lead.LastActivity.IsZero() {
		return lead, false
	}

	// Elapsed wall-clock hours against a day-denominated threshold.
	elapsedDays := now.Sub(lead.LastActivity).Hours() / 24
	if elapsedDays <= threshold.Hours()/24 {
		return lead, false
	}

	lead.Status = domain.LeadStatusActionRequired
	lead.StatusSetBySystem = true
	lead.StatusChangedAt = now
	return lead, true
}
