package automaton

import (
	"slices"

	"github.com/katalvlaran/ltlcert/bfs"
	"github.com/katalvlaran/ltlcert/core"
)

// Component is one strongly connected component of the transition graph.
// Successors index other components of the same condensation.
type Component struct {
	States     []int
	Successors []int
	Bottom     bool
}

// Automaton is a classified LDBA. It is immutable after Build; accessors
// return copies.
type Automaton struct {
	start      int
	name       string
	required   []int
	props      []string
	states     []State // ordered by ID, synthetic states last
	index      map[int]int
	components [][]int
	condensed  []Component
	reach      *bfs.BFSResult // backward from the accepting components
	graph      *core.Graph
}

// Start returns the initial state ID.
func (a *Automaton) Start() int { return a.start }

// Name returns the automaton name from the record header.
func (a *Automaton) Name() string { return a.name }

// Required returns the acceptance sets an accepting component must cover.
func (a *Automaton) Required() []int { return append([]int(nil), a.required...) }

// BuchiSets returns the number of required acceptance sets. Büchi template
// and policy i serve acceptance set Required()[i], so set numbers need not
// be contiguous.
func (a *Automaton) BuchiSets() int { return len(a.required) }

// Propositions returns the AP names indexed by HOA atom number.
func (a *Automaton) Propositions() []string { return append([]string(nil), a.props...) }

// Len returns the number of states, synthetic ones included.
func (a *Automaton) Len() int { return len(a.states) }

// State returns the state with the given ID.
func (a *Automaton) State(id int) (State, bool) {
	i, ok := a.index[id]
	if !ok {
		return State{}, false
	}

	return a.states[i].clone(), true
}

// States returns every state in ID order.
func (a *Automaton) States() []State {
	out := make([]State, len(a.states))
	for i, s := range a.states {
		out[i] = s.clone()
	}

	return out
}

// IDs returns every state ID in order.
func (a *Automaton) IDs() []int {
	out := make([]int, len(a.states))
	for i, s := range a.states {
		out[i] = s.ID
	}

	return out
}

// AcceptingComponents returns the accepting bottom components, each sorted,
// ordered by smallest member.
func (a *Automaton) AcceptingComponents() [][]int {
	out := make([][]int, len(a.components))
	for i, c := range a.components {
		out[i] = append([]int(nil), c...)
	}

	return out
}

// ComponentsOf returns the accepting components containing a state whose
// signature holds Büchi set i.
func (a *Automaton) ComponentsOf(i int) [][]int {
	var out [][]int
	for _, c := range a.components {
		for _, id := range c {
			if a.states[a.index[id]].InSignature(i) {
				out = append(out, append([]int(nil), c...))
				break
			}
		}
	}

	return out
}

// AcceptingIDs returns the IDs of Accepting states.
func (a *Automaton) AcceptingIDs() []int { return a.withStatus(Accepting) }

// RejectingIDs returns the IDs of Rejecting states.
func (a *Automaton) RejectingIDs() []int { return a.withStatus(Rejecting) }

// NonAcceptingIDs returns the IDs of transient states.
func (a *Automaton) NonAcceptingIDs() []int { return a.withStatus(NonAccepting) }

func (a *Automaton) withStatus(st Status) []int {
	var out []int
	for _, s := range a.states {
		if s.Status == st {
			out = append(out, s.ID)
		}
	}

	return out
}

// Condensation returns the component DAG in topological order: every
// successor index is greater than its component's own.
func (a *Automaton) Condensation() []Component {
	out := make([]Component, len(a.condensed))
	for i, c := range a.condensed {
		out[i] = Component{
			States:     slices.Clone(c.States),
			Successors: slices.Clone(c.Successors),
			Bottom:     c.Bottom,
		}
	}

	return out
}

// PathToAcceptance returns a shortest run from id into an accepting
// component, ending at the first accepting state. It reports false for
// rejecting and unknown states.
func (a *Automaton) PathToAcceptance(id int) ([]int, bool) {
	if a.reach == nil {
		return nil, false
	}
	ids, err := a.reach.PathTo(vid(id))
	if err != nil {
		return nil, false
	}
	path := make([]int, len(ids))
	for i, v := range ids {
		path[len(ids)-1-i] = atoi(v)
	}

	return path, true
}
