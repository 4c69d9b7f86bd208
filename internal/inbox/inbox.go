// Package inbox turns inbox tab names into transaction queries.
package inbox

import (
	"slices"

	"txmirror/internal/domain"
	"txmirror/internal/process"
	"txmirror/internal/process/purchase"
)

// Standard inbox statuses.
const (
	StatusAll            = "all"
	StatusInquiries      = "inquiries"
	StatusFulfilled      = "fulfilled"
	StatusPaymentExpired = "paymentExpired"
	StatusUnfulfilled    = "unfulfilled"
	StatusAttention      = "attention"
)

// Hotel inbox statuses select by process instead of last transition.
const (
	StatusApplications    = "applications"
	StatusCreatorOutreach = "creatorOutreach"
)

// Process names used by the hotel inbox tabs.
const (
	NegotiationProcessName = "default-negotiation"
	PurchaseProcessName    = "default-purchase"
)

// Query selects transactions. Empty fields do not restrict the result.
type Query struct {
	LastTransitions []domain.Transition
	ProcessNames    []string
	// NeedsProviderAttention keeps transactions waiting on the provider.
	NeedsProviderAttention bool
}

// Filter builds and evaluates queries against the registered processes.
type Filter struct {
	registry *process.Registry
}

// New creates a Filter.
func New(registry *process.Registry) *Filter {
	return &Filter{registry: registry}
}

// Statuses lists every status Query understands.
func Statuses() []string {
	return []string{
		StatusAll,
		StatusInquiries,
		StatusFulfilled,
		StatusPaymentExpired,
		StatusUnfulfilled,
		StatusAttention,
		StatusApplications,
		StatusCreatorOutreach,
	}
}

// StandardQuery returns the query behind a standard inbox tab.
func (f *Filter) StandardQuery(status string) (Query, error) {
	all := f.registry.AllTransitions()

	switch status {
	case StatusAll:
		return Query{LastTransitions: all}, nil
	case StatusInquiries:
		return Query{LastTransitions: []domain.Transition{purchase.Inquire}}, nil
	case StatusFulfilled:
		return Query{LastTransitions: slices.Clone(purchase.FulfilledTransitions)}, nil
	case StatusPaymentExpired:
		return Query{LastTransitions: []domain.Transition{purchase.ExpirePayment}}, nil
	case StatusUnfulfilled:
		excluded := append([]domain.Transition{purchase.Inquire}, purchase.FulfilledTransitions...)
		unfulfilled := slices.DeleteFunc(all, func(t domain.Transition) bool {
			return slices.Contains(excluded, t)
		})
		return Query{LastTransitions: unfulfilled}, nil
	case StatusAttention:
		return Query{NeedsProviderAttention: true}, nil
	}
	return Query{}, domain.NewValidationError("status", "unknown inbox status "+status)
}

// HotelQuery returns the query behind a hotel inbox tab.
func (f *Filter) HotelQuery(status string) (Query, error) {
	switch status {
	case StatusApplications:
		return Query{ProcessNames: []string{NegotiationProcessName}}, nil
	case StatusCreatorOutreach:
		return Query{ProcessNames: []string{PurchaseProcessName}}, nil
	}
	return Query{}, domain.NewValidationError("status", "unknown hotel inbox status "+status)
}

// Query returns the query for any standard or hotel status.
func (f *Filter) Query(status string) (Query, error) {
	if q, err := f.HotelQuery(status); err == nil {
		return q, nil
	}
	return f.StandardQuery(status)
}

// Match reports whether tx satisfies q. Transactions of unregistered
// processes or with unknown last transitions never need attention.
func (f *Filter) Match(q Query, tx *domain.Transaction) bool {
	if len(q.LastTransitions) > 0 && !slices.Contains(q.LastTransitions, tx.LastTransition) {
		return false
	}
	if len(q.ProcessNames) > 0 && !slices.Contains(q.ProcessNames, tx.Process.Name()) {
		return false
	}
	if q.NeedsProviderAttention {
		p, err := f.registry.Lookup(tx.Process)
		if err != nil {
			return false
		}
		state, err := p.DeriveState(tx.LastTransition)
		if err != nil || !p.NeedsProviderAttention(state) {
			return false
		}
	}
	return true
}

// Select returns the transactions matching q, keeping their order.
func (f *Filter) Select(q Query, txs []*domain.Transaction) []*domain.Transaction {
	out := make([]*domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if f.Match(q, tx) {
			out = append(out, tx)
		}
	}
	return out
}
