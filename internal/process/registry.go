package process

import (
	"fmt"
	"slices"

	"txmirror/internal/domain"
)

// Registry maps process aliases to processes. Several processes (purchase,
// negotiation) coexist on the same marketplace.
type Registry struct {
	byAlias map[domain.ProcessAlias]*Process
	order   []domain.ProcessAlias
}

// NewRegistry creates a registry from the given processes. Aliases must be unique.
func NewRegistry(procs ...*Process) (*Registry, error) {
	r := &Registry{byAlias: make(map[domain.ProcessAlias]*Process, len(procs))}
	for _, p := range procs {
		if _, dup := r.byAlias[p.Alias()]; dup {
			return nil, fmt.Errorf("process %s registered twice", p.Alias())
		}
		r.byAlias[p.Alias()] = p
		r.order = append(r.order, p.Alias())
	}
	return r, nil
}

// Lookup returns the process registered under alias.
func (r *Registry) Lookup(alias domain.ProcessAlias) (*Process, error) {
	p, ok := r.byAlias[alias]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownProcess, alias)
	}
	return p, nil
}

// LookupName returns the process whose alias name (without release) is name.
func (r *Registry) LookupName(name string) (*Process, error) {
	for _, alias := range r.order {
		if alias.Name() == name {
			return r.byAlias[alias], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUnknownProcess, name)
}

// Resolve accepts either a full alias or a bare process name.
func (r *Registry) Resolve(s string) (*Process, error) {
	if p, ok := r.byAlias[domain.ProcessAlias(s)]; ok {
		return p, nil
	}
	return r.LookupName(s)
}

// Aliases returns registered aliases in registration order.
func (r *Registry) Aliases() []domain.ProcessAlias {
	return slices.Clone(r.order)
}

// AllTransitions returns the sorted union of every registered vocabulary.
func (r *Registry) AllTransitions() []domain.Transition {
	var all []domain.Transition
	for _, alias := range r.order {
		all = append(all, r.byAlias[alias].transitions...)
	}
	slices.Sort(all)
	return slices.Compact(all)
}
