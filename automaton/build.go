package automaton

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/katalvlaran/ltlcert/bfs"
	"github.com/katalvlaran/ltlcert/core"
	"github.com/katalvlaran/ltlcert/dfs"
	"github.com/katalvlaran/ltlcert/guard"
	"github.com/katalvlaran/ltlcert/logging"
)

// Build converts rec into a classified, immutable Automaton.
func Build(rec Record, opts ...Option) (*Automaton, error) {
	o := buildOptions{logger: logging.Nop(), ctx: context.Background()}
	for _, fn := range opts {
		fn(&o)
	}

	// 1. Validate the record
	if err := validate(rec); err != nil {
		return nil, err
	}

	// 2. Transition-to-state acceptance conversion
	states := convertAcceptance(rec, o)

	a := &Automaton{
		start:    rec.Header.Start,
		name:     rec.Header.Name,
		required: sortedSet(rec.Header.AcceptanceSets),
		props:    append([]string(nil), rec.Header.Propositions...),
		states:   states,
		index:    make(map[int]int, len(states)),
	}
	for i, s := range states {
		a.index[s.ID] = i
	}

	// 3. Graph construction
	var err error
	if a.graph, err = a.buildGraph(); err != nil {
		return nil, err
	}

	// 4. Components and classification
	if err = a.classify(o); err != nil {
		return nil, err
	}

	return a, nil
}

func validate(rec Record) error {
	if len(rec.States) == 0 {
		return fmt.Errorf("%w: no states", ErrMalformedRecord)
	}
	ids := make(map[int]struct{}, len(rec.States))
	for _, rs := range rec.States {
		if rs.ID < 0 {
			return fmt.Errorf("%w: negative state id %d", ErrMalformedRecord, rs.ID)
		}
		if _, dup := ids[rs.ID]; dup {
			return fmt.Errorf("%w: duplicate state %d", ErrMalformedRecord, rs.ID)
		}
		ids[rs.ID] = struct{}{}
	}
	if _, ok := ids[rec.Header.Start]; !ok {
		return fmt.Errorf("%w: start state %d", ErrUnknownState, rec.Header.Start)
	}
	for _, rs := range rec.States {
		for _, rt := range rs.Transitions {
			if _, ok := ids[rt.Destination]; !ok {
				return fmt.Errorf("%w: %d → %d", ErrUnknownState, rs.ID, rt.Destination)
			}
			if _, err := guard.InfixToPrefix(rt.Label); err != nil {
				return fmt.Errorf("state %d: %w", rs.ID, err)
			}
		}
	}

	return nil
}

// synthKey identifies a synthetic state by destination and signature.
type synthKey struct {
	dest int
	sig  string
}

func sigString(sig []int) string {
	b := make([]byte, 0, 4*len(sig))
	for i, v := range sig {
		if i > 0 {
			b = append(b, ',')
		}
		b = strconv.AppendInt(b, int64(v), 10)
	}

	return string(b)
}

// convertAcceptance moves transition signatures onto synthetic states. States
// are visited in ID order and transitions in record order, so synthetic IDs
// are deterministic.
func convertAcceptance(rec Record, o buildOptions) []State {
	recStates := append([]RecordState(nil), rec.States...)
	sort.Slice(recStates, func(i, j int) bool { return recStates[i].ID < recStates[j].ID })

	next := recStates[len(recStates)-1].ID
	synth := make(map[synthKey]int)
	var extra []State

	states := make([]State, 0, len(recStates))
	for _, rs := range recStates {
		s := State{ID: rs.ID, Signature: sortedSet(rs.Signature)}
		for _, rt := range rs.Transitions {
			t := Transition{Destination: rt.Destination, Guard: rt.Label}
			if sig := sortedSet(rt.Signature); len(sig) > 0 {
				key := synthKey{dest: rt.Destination, sig: sigString(sig)}
				id, ok := synth[key]
				if !ok {
					next++
					id = next
					synth[key] = id
					extra = append(extra, State{
						ID:          id,
						Signature:   sig,
						Synthetic:   true,
						Transitions: []Transition{{Destination: rt.Destination, Epsilon: true}},
					})
					o.logger.Debug("synthetic acceptance state",
						"state", id, "destination", rt.Destination, "signature", sig)
				}
				t.Destination = id
			}
			s.Transitions = append(s.Transitions, t)
		}
		states = append(states, s)
	}

	return append(states, extra...)
}

func vid(id int) string { return strconv.Itoa(id) }

// atoi reads back a vertex ID written by vid.
func atoi(v string) int {
	id, _ := strconv.Atoi(v)

	return id
}

func (a *Automaton) buildGraph() (*core.Graph, error) {
	g := core.NewGraph(core.WithLoops(), core.WithMultiEdges())
	for _, s := range a.states {
		if err := g.AddVertex(vid(s.ID)); err != nil {
			return nil, err
		}
	}
	for _, s := range a.states {
		for _, t := range s.Transitions {
			if _, err := g.AddEdge(vid(s.ID), vid(t.Destination), t.Guard); err != nil {
				return nil, err
			}
		}
	}

	return g, nil
}

// classify marks Accepting, Rejecting and NonAccepting states.
func (a *Automaton) classify(o buildOptions) error {
	scc, err := dfs.StronglyConnected(a.graph, dfs.WithContext(o.ctx))
	if err != nil {
		return fmt.Errorf("automaton: components: %w", err)
	}
	bottoms, err := dfs.Bottom(a.graph, scc)
	if err != nil {
		return fmt.Errorf("automaton: bottom components: %w", err)
	}
	if err = a.condense(scc, bottoms); err != nil {
		return err
	}

	// 1. Accepting components: bottom and covering every required set
	var sources []string
	for _, ci := range bottoms {
		members := scc.Components[ci]
		if !a.covers(members) {
			continue
		}
		comp := make([]int, 0, len(members))
		for _, v := range members {
			id := atoi(v)
			comp = append(comp, id)
			a.states[a.index[id]].Status = Accepting
			sources = append(sources, v)
		}
		sort.Ints(comp)
		a.components = append(a.components, comp)
	}
	sort.Slice(a.components, func(i, j int) bool { return a.components[i][0] < a.components[j][0] })

	// 2. No accepting component: every state is rejecting
	if len(sources) == 0 {
		for i := range a.states {
			a.states[i].Status = Rejecting
		}
		o.logger.Warn("automaton has no accepting component", "states", len(a.states), "required", a.required)

		return nil
	}

	// 3. States that cannot reach acceptance are rejecting
	reach, err := bfs.Reach(a.graph, sources, bfs.WithReverse(), bfs.WithContext(o.ctx))
	if err != nil {
		return fmt.Errorf("automaton: backward reachability: %w", err)
	}
	for i, s := range a.states {
		if s.Status != Accepting && !reach.Reached(vid(s.ID)) {
			a.states[i].Status = Rejecting
		}
	}
	a.reach = reach

	o.logger.Info("automaton classified",
		"states", len(a.states),
		"transitions", a.graph.EdgeCount(),
		"components", scc.Len(),
		"accepting_components", len(a.components),
		"accepting", len(a.AcceptingIDs()),
		"rejecting", len(a.RejectingIDs()))

	return nil
}

// condense records the component DAG. Tarjan emits components in reverse
// topological order, so index i becomes n-1-i.
func (a *Automaton) condense(scc *dfs.SCCResult, bottoms []int) error {
	dag, err := dfs.Condense(a.graph, scc)
	if err != nil {
		return fmt.Errorf("automaton: condensation: %w", err)
	}
	n := scc.Len()
	a.condensed = make([]Component, n)
	for i, members := range scc.Components {
		c := &a.condensed[n-1-i]
		for _, v := range members {
			c.States = append(c.States, atoi(v))
		}
		succ, err := dag.NeighborIDs(vid(i))
		if err != nil {
			return fmt.Errorf("automaton: condensation: %w", err)
		}
		for _, j := range succ {
			c.Successors = append(c.Successors, n-1-atoi(j))
		}
		sort.Ints(c.Successors)
	}
	for _, i := range bottoms {
		a.condensed[n-1-i].Bottom = true
	}

	return nil
}

// covers reports whether the signature union of members includes every
// required acceptance set.
func (a *Automaton) covers(members []string) bool {
	have := make(map[int]struct{})
	for _, v := range members {
		for _, i := range a.states[a.index[atoi(v)]].Signature {
			have[i] = struct{}{}
		}
	}
	for _, r := range a.required {
		if _, ok := have[r]; !ok {
			return false
		}
	}

	return true
}
