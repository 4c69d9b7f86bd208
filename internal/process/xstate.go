package process

import (
	"encoding/json"
	"fmt"
)

// XStateMachine is a process graph in XState machine config format, usable
// with the XState visualizer.
type XStateMachine struct {
	ID      string                `json:"id"`
	Initial string                `json:"initial"`
	States  map[string]XStateNode `json:"states"`
}

// XStateNode is one state of an XStateMachine.
type XStateNode struct {
	Type string            `json:"type,omitempty"`
	On   map[string]string `json:"on,omitempty"`
}

// XState exports the graph.
func (p *Process) XState() XStateMachine {
	m := XStateMachine{
		ID:      string(p.alias),
		Initial: string(p.initial),
		States:  make(map[string]XStateNode, len(p.states)),
	}
	for _, s := range p.states {
		var node XStateNode
		if p.final[s] {
			node.Type = "final"
		}
		if out := p.outgoing[s]; len(out) > 0 {
			node.On = make(map[string]string, len(out))
			for _, t := range out {
				node.On[string(t)] = string(p.graph[s][t])
			}
		}
		m.States[string(s)] = node
	}
	return m
}

// XStateJSON exports the graph as indented JSON.
func (p *Process) XStateJSON() (string, error) {
	b, err := json.MarshalIndent(p.XState(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", p.alias, err)
	}
	return string(b), nil
}
