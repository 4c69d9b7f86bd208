// Package classify answers UI questions about a transaction from its last
// transition. Unlike the bare process predicates, it tells an unknown
// transition apart from a known one that is simply not in a set: the answer
// falls back to false, and the occurrence is logged and counted so the
// vocabulary can be updated.
package classify

import (
	"log/slog"

	"txmirror/internal/domain"
	"txmirror/internal/metrics"
	"txmirror/internal/process"
)

// Route tells how a transition request has to be sent.
type Route string

const (
	// RoutePrivileged requests go through the trusted server endpoint,
	// which creates payment intents on the way.
	RoutePrivileged Route = "privileged"
	// RouteSDK requests are sent directly with the marketplace SDK.
	RouteSDK Route = "sdk"
)

// Classification bundles every predicate for one transition.
type Classification struct {
	Transition             domain.Transition
	State                  domain.State
	Relevant               bool
	CustomerReview         bool
	ProviderReview         bool
	Privileged             bool
	Completed              bool
	Refunded               bool
	NeedsProviderAttention bool
}

// Classifier classifies transitions of a single process.
type Classifier struct {
	process *process.Process
	logger  *slog.Logger
	metrics metrics.Metrics
}

// New creates a Classifier. A nil logger or metrics discards the reports.
func New(p *process.Process, logger *slog.Logger, m metrics.Metrics) *Classifier {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if m == nil {
		m = metrics.NoopMetrics{}
	}
	return &Classifier{
		process: p,
		logger:  logger.With("process", string(p.Alias())),
		metrics: m,
	}
}

// Process returns the classified process.
func (c *Classifier) Process() *process.Process {
	return c.process
}

// Check returns an *UnknownTransitionError, after logging and counting it,
// if t is outside the vocabulary.
func (c *Classifier) Check(t domain.Transition) error {
	if c.process.Known(t) {
		return nil
	}
	c.logger.Warn("unknown transition", "transition", string(t))
	c.metrics.UnknownTransition(string(c.process.Alias()), string(t))
	return domain.NewUnknownTransitionError(t, c.process.Alias())
}

// Classify evaluates every predicate for t. For an unknown transition it
// returns an all-false Classification together with an *UnknownTransitionError.
func (c *Classifier) Classify(t domain.Transition) (Classification, error) {
	if err := c.Check(t); err != nil {
		return Classification{Transition: t}, err
	}
	p := c.process
	state, err := p.DeriveState(t)
	if err != nil {
		return Classification{Transition: t}, err
	}
	return Classification{
		Transition:             t,
		State:                  state,
		Relevant:               p.IsRelevantPastTransition(t),
		CustomerReview:         p.IsCustomerReview(t),
		ProviderReview:         p.IsProviderReview(t),
		Privileged:             p.IsPrivileged(t),
		Completed:              p.IsCompleted(t),
		Refunded:               p.IsRefunded(t),
		NeedsProviderAttention: p.NeedsProviderAttention(state),
	}, nil
}

// IsRelevantPastTransition is process.IsRelevantPastTransition with unknown reporting.
func (c *Classifier) IsRelevantPastTransition(t domain.Transition) bool {
	return c.Check(t) == nil && c.process.IsRelevantPastTransition(t)
}

// IsCustomerReview is process.IsCustomerReview with unknown reporting.
func (c *Classifier) IsCustomerReview(t domain.Transition) bool {
	return c.Check(t) == nil && c.process.IsCustomerReview(t)
}

// IsProviderReview is process.IsProviderReview with unknown reporting.
func (c *Classifier) IsProviderReview(t domain.Transition) bool {
	return c.Check(t) == nil && c.process.IsProviderReview(t)
}

// IsPrivileged is process.IsPrivileged with unknown reporting.
func (c *Classifier) IsPrivileged(t domain.Transition) bool {
	return c.Check(t) == nil && c.process.IsPrivileged(t)
}

// IsCompleted is process.IsCompleted with unknown reporting.
func (c *Classifier) IsCompleted(t domain.Transition) bool {
	return c.Check(t) == nil && c.process.IsCompleted(t)
}

// IsRefunded is process.IsRefunded with unknown reporting.
func (c *Classifier) IsRefunded(t domain.Transition) bool {
	return c.Check(t) == nil && c.process.IsRefunded(t)
}

// Route decides whether a request for t must go through the trusted server.
func (c *Classifier) Route(t domain.Transition) (Route, error) {
	if err := c.Check(t); err != nil {
		return "", err
	}
	if c.process.IsPrivileged(t) {
		return RoutePrivileged, nil
	}
	return RouteSDK, nil
}

// RelevantHistory returns the history entries worth showing in an activity
// feed. Entries with unknown transitions are reported and left out.
func (c *Classifier) RelevantHistory(tx *domain.Transaction) []domain.HistoryEntry {
	out := make([]domain.HistoryEntry, 0, len(tx.History))
	for _, h := range tx.History {
		if c.IsRelevantPastTransition(h.Transition) {
			out = append(out, h)
		}
	}
	return out
}
