package domain

import "strings"

// TransitionPrefix is the namespace the marketplace API uses for every transition name.
const TransitionPrefix = "transition/"

// Transition is a wire-level transition identifier, e.g. "transition/accept".
// The marketplace API reports the last one taken on every transaction.
type Transition string

// String returns the wire form of the transition.
func (t Transition) String() string {
	return string(t)
}

// Name returns the transition without its "transition/" prefix.
func (t Transition) Name() string {
	return strings.TrimPrefix(string(t), TransitionPrefix)
}

// NormalizeTransition accepts either the wire form or the bare kebab name
// and returns the wire form. It does not check the name against any process.
func NormalizeTransition(s string) Transition {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, TransitionPrefix) {
		return Transition(s)
	}
	return Transition(TransitionPrefix + s)
}

// State names a node in a process graph. States only exist on the client
// side; the API never sends them.
type State string

func (s State) String() string {
	return string(s)
}

// ProcessAlias selects the process definition governing a transaction,
// e.g. "default-purchase/release-1".
type ProcessAlias string

func (a ProcessAlias) String() string {
	return string(a)
}

// Name returns the process name without the release suffix.
func (a ProcessAlias) Name() string {
	name, _, _ := strings.Cut(string(a), "/")
	return name
}
