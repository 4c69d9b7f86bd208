package process

import (
	"fmt"
	"strings"

	"txmirror/internal/domain"
)

// Issue codes reported by Validate.
const (
	IssueMissingAlias        = "MISSING_ALIAS"
	IssueMissingInitial      = "MISSING_INITIAL"
	IssueInitialNotFound     = "INITIAL_NOT_FOUND"
	IssueDuplicateState      = "DUPLICATE_STATE"
	IssueDuplicateTransition = "DUPLICATE_TRANSITION"
	IssueBadTransitionName   = "BAD_TRANSITION_NAME"
	IssueUnknownState        = "UNKNOWN_STATE"
	IssueUnknownTransition   = "UNKNOWN_TRANSITION"
	IssueAmbiguousTransition = "AMBIGUOUS_TRANSITION"
	IssueUnusedTransition    = "UNUSED_TRANSITION"
	IssueInitialReentered    = "INITIAL_REENTERED"
	IssueNoTerminal          = "NO_TERMINAL"
	IssueFinalHasEdges       = "FINAL_HAS_EDGES"
	IssueUnreachableState    = "UNREACHABLE_STATE"
)

// Issue is one problem found in a Definition.
type Issue struct {
	Code    string
	Message string
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s", i.Code, i.Message)
}

// DefinitionError lists everything wrong with a Definition.
type DefinitionError struct {
	Alias  domain.ProcessAlias
	Issues []Issue
}

func (e *DefinitionError) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("process %s: %s", e.Alias, e.Issues[0])
	}
	var b strings.Builder
	fmt.Fprintf(&b, "process %s: %d issues:", e.Alias, len(e.Issues))
	for _, issue := range e.Issues {
		b.WriteString("\n  ")
		b.WriteString(issue.String())
	}
	return b.String()
}

// Has reports whether an issue with the given code was found.
func (e *DefinitionError) Has(code string) bool {
	for _, issue := range e.Issues {
		if issue.Code == code {
			return true
		}
	}
	return false
}

func (e *DefinitionError) add(code, format string, args ...any) {
	e.Issues = append(e.Issues, Issue{Code: code, Message: fmt.Sprintf(format, args...)})
}

// Validate checks that def describes a finite-state machine the client can
// derive states from:
//   - vocabulary and states have no duplicates
//   - every transition labels exactly one edge
//   - the initial state has no incoming edges, so no path returns to it
//   - at least one state is terminal and final states have no outgoing edges
//   - every state is reachable from the initial state
//   - classifier sets only name known transitions and states
//
// It returns nil or a *DefinitionError.
func Validate(def Definition) error {
	errs := &DefinitionError{Alias: def.Alias}

	if def.Alias == "" {
		errs.add(IssueMissingAlias, "alias is required")
	}

	states := make(map[domain.State]bool, len(def.States))
	for _, s := range def.States {
		if states[s] {
			errs.add(IssueDuplicateState, "state %q declared twice", s)
		}
		states[s] = true
	}

	switch {
	case def.Initial == "":
		errs.add(IssueMissingInitial, "initial state is required")
	case !states[def.Initial]:
		errs.add(IssueInitialNotFound, "initial state %q is not declared", def.Initial)
	}

	vocab := make(map[domain.Transition]int, len(def.Transitions))
	for _, t := range def.Transitions {
		if _, dup := vocab[t]; dup {
			errs.add(IssueDuplicateTransition, "transition %q declared twice", t)
		}
		if !strings.HasPrefix(string(t), domain.TransitionPrefix) || t.Name() == "" {
			errs.add(IssueBadTransitionName, "transition %q must look like %s<name>", t, domain.TransitionPrefix)
		}
		vocab[t] = 0
	}

	outgoing := make(map[domain.State]int, len(def.States))
	adjacency := make(map[domain.State][]domain.State, len(def.States))
	for _, e := range def.Edges {
		if !states[e.From] {
			errs.add(IssueUnknownState, "edge %s leaves undeclared state %q", e.Transition, e.From)
		}
		if !states[e.To] {
			errs.add(IssueUnknownState, "edge %s enters undeclared state %q", e.Transition, e.To)
		}
		if _, ok := vocab[e.Transition]; !ok {
			errs.add(IssueUnknownTransition, "edge label %q is not in the vocabulary", e.Transition)
			continue
		}
		vocab[e.Transition]++
		if vocab[e.Transition] == 2 {
			errs.add(IssueAmbiguousTransition, "transition %q labels more than one edge", e.Transition)
		}
		if e.To == def.Initial {
			errs.add(IssueInitialReentered, "transition %q leads back to initial state %q", e.Transition, def.Initial)
		}
		outgoing[e.From]++
		adjacency[e.From] = append(adjacency[e.From], e.To)
	}
	for _, t := range def.Transitions {
		if vocab[t] == 0 {
			errs.add(IssueUnusedTransition, "transition %q labels no edge", t)
		}
	}

	terminal := 0
	for _, s := range def.States {
		if outgoing[s] == 0 {
			terminal++
		}
	}
	if len(def.States) > 0 && terminal == 0 {
		errs.add(IssueNoTerminal, "no state is terminal")
	}
	for _, s := range def.Final {
		if !states[s] {
			errs.add(IssueUnknownState, "final state %q is not declared", s)
		} else if outgoing[s] > 0 {
			errs.add(IssueFinalHasEdges, "final state %q has outgoing transitions", s)
		}
	}

	if states[def.Initial] {
		reached := reachable(def.Initial, adjacency)
		for _, s := range def.States {
			if !reached[s] {
				errs.add(IssueUnreachableState, "state %q is not reachable from %q", s, def.Initial)
			}
		}
	}

	sets := []struct {
		name string
		ts   []domain.Transition
	}{
		{"relevant", def.Relevant},
		{"customer review", def.CustomerReview},
		{"provider review", def.ProviderReview},
		{"privileged", def.Privileged},
		{"completed", def.Completed},
		{"refunded", def.Refunded},
	}
	for _, set := range sets {
		for _, t := range set.ts {
			if _, ok := vocab[t]; !ok {
				errs.add(IssueUnknownTransition, "%s set names unknown transition %q", set.name, t)
			}
		}
	}
	for _, s := range def.NeedsProviderAttention {
		if !states[s] {
			errs.add(IssueUnknownState, "provider attention set names undeclared state %q", s)
		}
	}

	if len(errs.Issues) > 0 {
		return errs
	}
	return nil
}

func reachable(from domain.State, adjacency map[domain.State][]domain.State) map[domain.State]bool {
	seen := map[domain.State]bool{from: true}
	queue := []domain.State{from}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, next := range adjacency[s] {
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return seen
}
