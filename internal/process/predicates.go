package process

import (
	"slices"

	"txmirror/internal/domain"
)

// The predicates below are closed-set membership tests. They return false for
// anything outside their set, including transitions that are not part of the
// vocabulary; callers that must tell the two apart check Known first or go
// through the classify package.

// IsRelevantPastTransition reports whether t should be shown in an activity
// feed. The first transition and system-driven expirations are left out.
func (p *Process) IsRelevantPastTransition(t domain.Transition) bool {
	return p.relevant.has(t)
}

// IsCustomerReview reports whether t is a review written by the customer.
func (p *Process) IsCustomerReview(t domain.Transition) bool {
	return p.customerReview.has(t)
}

// IsProviderReview reports whether t is a review written by the provider.
func (p *Process) IsProviderReview(t domain.Transition) bool {
	return p.providerReview.has(t)
}

// IsPrivileged reports whether t must be requested through the trusted
// server endpoint instead of directly with the SDK.
func (p *Process) IsPrivileged(t domain.Transition) bool {
	return p.privileged.has(t)
}

// IsCompleted reports whether a transaction whose last transition is t is
// finished, whatever path it took.
func (p *Process) IsCompleted(t domain.Transition) bool {
	return p.completed.has(t)
}

// IsRefunded reports whether t means the order did not happen and the
// payment is returned to the customer.
func (p *Process) IsRefunded(t domain.Transition) bool {
	return p.refunded.has(t)
}

// NeedsProviderAttention reports whether transactions in s wait on the provider.
func (p *Process) NeedsProviderAttention(s domain.State) bool {
	return slices.Contains(p.attention, s)
}

// StatesNeedingProviderAttention returns the states highlighted in provider inboxes.
func (p *Process) StatesNeedingProviderAttention() []domain.State {
	return slices.Clone(p.attention)
}

// FilterRelevant keeps the transitions worth showing in an activity feed,
// preserving order.
func (p *Process) FilterRelevant(ts []domain.Transition) []domain.Transition {
	out := make([]domain.Transition, 0, len(ts))
	for _, t := range ts {
		if p.IsRelevantPastTransition(t) {
			out = append(out, t)
		}
	}
	return out
}
