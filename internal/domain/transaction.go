// Package domain contains the transaction records and error types shared by
// the process mirror and the CLI.
package domain

import "time"

// HistoryEntry is one transition the backend reported for a transaction.
type HistoryEntry struct {
	Transition Transition
	From       State
	To         State
	At         time.Time
}

// Transaction is the client's view of a marketplace transaction. Only the
// last transition is authoritative; History is what this client observed.
type Transaction struct {
	ID             string
	Process        ProcessAlias
	LastTransition Transition
	History        []HistoryEntry
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewTransaction creates a transaction that has not seen any transition yet.
func NewTransaction(id string, process ProcessAlias) *Transaction {
	now := time.Now()
	return &Transaction{
		ID:        id,
		Process:   process,
		History:   make([]HistoryEntry, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Record appends a transition taken from one state to another.
func (t *Transaction) Record(transition Transition, from, to State) {
	now := time.Now()
	t.History = append(t.History, HistoryEntry{
		Transition: transition,
		From:       from,
		To:         to,
		At:         now,
	})
	t.LastTransition = transition
	t.UpdatedAt = now
}

// Transitions returns the recorded transitions in order.
func (t *Transaction) Transitions() []Transition {
	out := make([]Transition, 0, len(t.History))
	for _, h := range t.History {
		out = append(out, h.Transition)
	}
	return out
}

// IsNew reports whether the backend has not reported any transition yet.
func (t *Transaction) IsNew() bool {
	return t.LastTransition == ""
}
