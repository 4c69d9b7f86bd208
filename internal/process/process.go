// Package process holds the client-side mirror of marketplace transaction
// processes. A Process is built once from a Definition and is read-only
// afterwards, so it is safe to share between goroutines.
package process

import (
	"slices"

	"txmirror/internal/domain"
)

// Edge is a single allowed transition between two states.
type Edge struct {
	From       domain.State
	Transition domain.Transition
	To         domain.State
}

// Definition describes a process the way the marketplace API defines it.
// Order of States, Transitions and Edges is kept for listings and exports.
type Definition struct {
	Alias       domain.ProcessAlias
	Initial     domain.State
	States      []domain.State
	Transitions []domain.Transition
	Edges       []Edge
	// Final states are marked as such in exports. They must have no outgoing edges.
	Final []domain.State

	Relevant               []domain.Transition
	CustomerReview         []domain.Transition
	ProviderReview         []domain.Transition
	Privileged             []domain.Transition
	Completed              []domain.Transition
	Refunded               []domain.Transition
	NeedsProviderAttention []domain.State
}

type transitionSet map[domain.Transition]struct{}

func newTransitionSet(ts []domain.Transition) transitionSet {
	s := make(transitionSet, len(ts))
	for _, t := range ts {
		s[t] = struct{}{}
	}
	return s
}

func (s transitionSet) has(t domain.Transition) bool {
	_, ok := s[t]
	return ok
}

// Process is an immutable, validated process graph plus its classifier sets.
type Process struct {
	alias       domain.ProcessAlias
	initial     domain.State
	states      []domain.State
	transitions []domain.Transition
	final       map[domain.State]bool

	// graph[state][transition] = next state
	graph    map[domain.State]map[domain.Transition]domain.State
	outgoing map[domain.State][]domain.Transition
	source   map[domain.Transition]domain.State
	target   map[domain.Transition]domain.State

	relevant       transitionSet
	customerReview transitionSet
	providerReview transitionSet
	privileged     transitionSet
	completed      transitionSet
	refunded       transitionSet
	attention      []domain.State
}

// New validates def and builds a Process from it.
func New(def Definition) (*Process, error) {
	if err := Validate(def); err != nil {
		return nil, err
	}

	p := &Process{
		alias:          def.Alias,
		initial:        def.Initial,
		states:         slices.Clone(def.States),
		transitions:    slices.Clone(def.Transitions),
		final:          make(map[domain.State]bool, len(def.Final)),
		graph:          make(map[domain.State]map[domain.Transition]domain.State, len(def.States)),
		outgoing:       make(map[domain.State][]domain.Transition, len(def.States)),
		source:         make(map[domain.Transition]domain.State, len(def.Edges)),
		target:         make(map[domain.Transition]domain.State, len(def.Edges)),
		relevant:       newTransitionSet(def.Relevant),
		customerReview: newTransitionSet(def.CustomerReview),
		providerReview: newTransitionSet(def.ProviderReview),
		privileged:     newTransitionSet(def.Privileged),
		completed:      newTransitionSet(def.Completed),
		refunded:       newTransitionSet(def.Refunded),
		attention:      slices.Clone(def.NeedsProviderAttention),
	}
	for _, s := range def.States {
		p.graph[s] = make(map[domain.Transition]domain.State)
	}
	for _, s := range def.Final {
		p.final[s] = true
	}
	for _, e := range def.Edges {
		p.graph[e.From][e.Transition] = e.To
		p.outgoing[e.From] = append(p.outgoing[e.From], e.Transition)
		p.source[e.Transition] = e.From
		p.target[e.Transition] = e.To
	}
	return p, nil
}

// MustNew is like New but panics on an invalid definition. It is meant for
// package-level process values.
func MustNew(def Definition) *Process {
	p, err := New(def)
	if err != nil {
		panic(err)
	}
	return p
}

// Alias returns the process alias.
func (p *Process) Alias() domain.ProcessAlias {
	return p.alias
}

// Initial returns the starting state of new transactions.
func (p *Process) Initial() domain.State {
	return p.initial
}

// States returns all states in declaration order.
func (p *Process) States() []domain.State {
	return slices.Clone(p.states)
}

// Transitions returns the vocabulary in declaration order.
func (p *Process) Transitions() []domain.Transition {
	return slices.Clone(p.transitions)
}

// Known reports whether t is part of the vocabulary.
func (p *Process) Known(t domain.Transition) bool {
	_, ok := p.source[t]
	return ok
}

// HasState reports whether s is a state of this process.
func (p *Process) HasState(s domain.State) bool {
	_, ok := p.graph[s]
	return ok
}

// IsTerminal reports whether no transition leaves s.
func (p *Process) IsTerminal(s domain.State) bool {
	return p.HasState(s) && len(p.outgoing[s]) == 0
}

// IsFinal reports whether s is marked final.
func (p *Process) IsFinal(s domain.State) bool {
	return p.final[s]
}

// Available returns the transitions leaving s, in declaration order.
func (p *Process) Available(s domain.State) []domain.Transition {
	return slices.Clone(p.outgoing[s])
}

// NextState returns the state reached by taking t from s.
func (p *Process) NextState(s domain.State, t domain.Transition) (domain.State, error) {
	if !p.Known(t) {
		return "", domain.NewUnknownTransitionError(t, p.alias)
	}
	edges, ok := p.graph[s]
	if !ok {
		return "", domain.NewInvalidTransitionError(s, t)
	}
	next, ok := edges[t]
	if !ok {
		return "", domain.NewInvalidTransitionError(s, t)
	}
	return next, nil
}

// DeriveState returns the current state of a transaction whose last
// transition is last. An empty last transition means the initial state.
// Each transition labels exactly one edge, so the result is unambiguous.
func (p *Process) DeriveState(last domain.Transition) (domain.State, error) {
	if last == "" {
		return p.initial, nil
	}
	to, ok := p.target[last]
	if !ok {
		return "", domain.NewUnknownTransitionError(last, p.alias)
	}
	return to, nil
}

// SourceState returns the only state t can be taken from.
func (p *Process) SourceState(t domain.Transition) (domain.State, error) {
	from, ok := p.source[t]
	if !ok {
		return "", domain.NewUnknownTransitionError(t, p.alias)
	}
	return from, nil
}
