package automaton_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ltlcert/automaton"
	"github.com/katalvlaran/ltlcert/guard"
)

// twoState is state 0 with a self-loop and an accepting edge to state 1,
// and state 1 looping through acceptance set 0.
func twoState() automaton.Record {
	return automaton.Record{
		Header: automaton.Header{Start: 0, AcceptanceSets: []int{0}, Propositions: []string{"goal"}},
		States: []automaton.RecordState{
			{ID: 0, Transitions: []automaton.RecordTransition{
				{Label: "t", Destination: 0},
				{Label: "0", Destination: 1, Signature: []int{0}},
			}},
			{ID: 1, Transitions: []automaton.RecordTransition{
				{Label: "t", Destination: 1, Signature: []int{0}},
			}},
		},
	}
}

func TestBuild_AcceptanceConversion(t *testing.T) {
	a, err := automaton.Build(twoState())
	require.NoError(t, err)
	require.Equal(t, 3, a.Len())
	assert.Equal(t, []int{0, 1, 2}, a.IDs())

	syn, ok := a.State(2)
	require.True(t, ok)
	assert.True(t, syn.Synthetic)
	assert.Equal(t, []int{0}, syn.Signature)
	require.Len(t, syn.Transitions, 1)
	assert.Equal(t, automaton.Transition{Destination: 1, Epsilon: true}, syn.Transitions[0])

	s0, _ := a.State(0)
	assert.Equal(t, 2, s0.Transitions[1].Destination)
	assert.Equal(t, "0", s0.Transitions[1].Guard)

	assert.Equal(t, [][]int{{1, 2}}, a.AcceptingComponents())
	assert.Equal(t, []int{1, 2}, a.AcceptingIDs())
	assert.Equal(t, []int{0}, a.NonAcceptingIDs())
	assert.Empty(t, a.RejectingIDs())
	assert.Equal(t, 1, a.BuchiSets())
	assert.Equal(t, [][]int{{1, 2}}, a.ComponentsOf(0))
	assert.Empty(t, a.ComponentsOf(1))
}

func TestBuild_NonContiguousAcceptanceSet(t *testing.T) {
	rec := twoState()
	rec.Header.AcceptanceSets = []int{1}
	rec.States[0].Transitions[1].Signature = []int{1}
	rec.States[1].Transitions[0].Signature = []int{1}
	a, err := automaton.Build(rec)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, a.Required())
	assert.Equal(t, 1, a.BuchiSets())
	assert.Equal(t, [][]int{{1, 2}}, a.ComponentsOf(1))
	assert.Empty(t, a.ComponentsOf(0))
}

func TestBuild_ZeroAcceptingComponents(t *testing.T) {
	rec := automaton.Record{
		Header: automaton.Header{Start: 0, AcceptanceSets: []int{0}},
		States: []automaton.RecordState{
			{ID: 0, Transitions: []automaton.RecordTransition{{Label: "t", Destination: 0}, {Label: "0", Destination: 1}}},
			{ID: 1, Transitions: []automaton.RecordTransition{{Label: "t", Destination: 1}}},
		},
	}
	a, err := automaton.Build(rec)
	require.NoError(t, err)
	assert.Empty(t, a.AcceptingComponents())
	assert.Equal(t, []int{0, 1}, a.RejectingIDs())
	_, ok := a.PathToAcceptance(0)
	assert.False(t, ok)
}

func TestBuild_RejectingSink(t *testing.T) {
	rec := automaton.Record{
		Header: automaton.Header{Start: 0, AcceptanceSets: []int{0}},
		States: []automaton.RecordState{
			{ID: 0, Transitions: []automaton.RecordTransition{{Label: "0", Destination: 1}, {Label: "!0", Destination: 2}}},
			{ID: 1, Transitions: []automaton.RecordTransition{{Label: "t", Destination: 1, Signature: []int{0}}}},
			{ID: 2, Transitions: []automaton.RecordTransition{{Label: "t", Destination: 2}}},
		},
	}
	a, err := automaton.Build(rec)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, a.AcceptingIDs())
	assert.Equal(t, []int{2}, a.RejectingIDs())
	assert.Equal(t, []int{0}, a.NonAcceptingIDs())

	s2, _ := a.State(2)
	assert.Equal(t, automaton.Rejecting, s2.Status)
	assert.Equal(t, "rejecting", s2.Status.String())
}

func TestBuild_Condensation(t *testing.T) {
	rec := automaton.Record{
		Header: automaton.Header{Start: 0, AcceptanceSets: []int{0}},
		States: []automaton.RecordState{
			{ID: 0, Transitions: []automaton.RecordTransition{{Label: "0", Destination: 1}, {Label: "!0", Destination: 2}}},
			{ID: 1, Transitions: []automaton.RecordTransition{{Label: "t", Destination: 1, Signature: []int{0}}}},
			{ID: 2, Transitions: []automaton.RecordTransition{{Label: "t", Destination: 2}}},
		},
	}
	a, err := automaton.Build(rec)
	require.NoError(t, err)

	dag := a.Condensation()
	require.Len(t, dag, 3)
	assert.Equal(t, []int{0}, dag[0].States)
	assert.Equal(t, []int{1, 2}, dag[0].Successors)
	assert.False(t, dag[0].Bottom)
	var bottoms [][]int
	for _, c := range dag[1:] {
		assert.True(t, c.Bottom)
		assert.Empty(t, c.Successors)
		bottoms = append(bottoms, c.States)
	}
	assert.ElementsMatch(t, [][]int{{2}, {1, 3}}, bottoms)

	path, ok := a.PathToAcceptance(0)
	require.True(t, ok)
	assert.Equal(t, []int{0, 1}, path)

	path, ok = a.PathToAcceptance(3)
	require.True(t, ok)
	assert.Equal(t, []int{3}, path)

	_, ok = a.PathToAcceptance(2)
	assert.False(t, ok)
	_, ok = a.PathToAcceptance(99)
	assert.False(t, ok)
}

func TestPathToAcceptance_Shortest(t *testing.T) {
	// 0 → 1 → 2 → 3 ↺ accepting
	rec := automaton.Record{
		Header: automaton.Header{Start: 0, AcceptanceSets: []int{0}},
		States: []automaton.RecordState{
			{ID: 0, Transitions: []automaton.RecordTransition{{Label: "t", Destination: 1}, {Label: "0", Destination: 3}}},
			{ID: 1, Transitions: []automaton.RecordTransition{{Label: "t", Destination: 2}}},
			{ID: 2, Transitions: []automaton.RecordTransition{{Label: "t", Destination: 3}}},
			{ID: 3, Transitions: []automaton.RecordTransition{{Label: "t", Destination: 3, Signature: []int{0}}}},
		},
	}
	a, err := automaton.Build(rec)
	require.NoError(t, err)

	// the direct edge wins over the chain
	path, ok := a.PathToAcceptance(0)
	require.True(t, ok)
	assert.Equal(t, []int{0, 3}, path)

	path, ok = a.PathToAcceptance(1)
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3}, path)

	dag := a.Condensation()
	require.Len(t, dag, 4)
	assert.Equal(t, []int{0}, dag[0].States)
	assert.True(t, dag[3].Bottom)
	assert.Equal(t, []int{3, 4}, dag[3].States)
}

// Two Büchi sets: only a bottom component covering both accepts.
func TestBuild_GeneralizedBuchi(t *testing.T) {
	rec := automaton.Record{
		Header: automaton.Header{Start: 0, AcceptanceSets: []int{0, 1}},
		States: []automaton.RecordState{
			{ID: 0, Transitions: []automaton.RecordTransition{{Label: "0", Destination: 1}, {Label: "!0", Destination: 2}}},
			{ID: 1, Transitions: []automaton.RecordTransition{{Label: "t", Destination: 3, Signature: []int{0}}}},
			{ID: 2, Transitions: []automaton.RecordTransition{{Label: "t", Destination: 2, Signature: []int{0}}}},
			{ID: 3, Transitions: []automaton.RecordTransition{{Label: "t", Destination: 1, Signature: []int{1}}}},
		},
	}
	a, err := automaton.Build(rec)
	require.NoError(t, err)
	// synthetic: 4 = (3,{0}), 5 = (2,{0}), 6 = (1,{1})
	assert.Equal(t, 7, a.Len())
	assert.Equal(t, 2, a.BuchiSets())
	assert.Equal(t, [][]int{{1, 3, 4, 6}}, a.AcceptingComponents())
	// {2,5} is bottom but covers only set 0
	assert.Equal(t, []int{2, 5}, a.RejectingIDs())
	assert.Equal(t, []int{0}, a.NonAcceptingIDs())
	assert.Equal(t, [][]int{{1, 3, 4, 6}}, a.ComponentsOf(1))

	s6, _ := a.State(6)
	assert.True(t, s6.InSignature(1))
	assert.False(t, s6.InSignature(0))
}

func TestBuild_SharedSyntheticState(t *testing.T) {
	rec := automaton.Record{
		Header: automaton.Header{Start: 0, AcceptanceSets: []int{0}},
		States: []automaton.RecordState{
			{ID: 0, Transitions: []automaton.RecordTransition{
				{Label: "0", Destination: 1, Signature: []int{0}},
				{Label: "!0", Destination: 1, Signature: []int{0}},
			}},
			{ID: 1, Transitions: []automaton.RecordTransition{{Label: "t", Destination: 0}}},
		},
	}
	a, err := automaton.Build(rec)
	require.NoError(t, err)
	assert.Equal(t, 3, a.Len())
	s0, _ := a.State(0)
	assert.Equal(t, 2, s0.Transitions[0].Destination)
	assert.Equal(t, 2, s0.Transitions[1].Destination)
	assert.Equal(t, []int{0, 1, 2}, a.AcceptingIDs())
}

func TestBuild_Errors(t *testing.T) {
	_, err := automaton.Build(automaton.Record{})
	assert.ErrorIs(t, err, automaton.ErrMalformedRecord)

	rec := twoState()
	rec.States = append(rec.States, automaton.RecordState{ID: 1})
	_, err = automaton.Build(rec)
	assert.ErrorIs(t, err, automaton.ErrMalformedRecord)

	rec = twoState()
	rec.States[0].Transitions[0].Destination = 7
	_, err = automaton.Build(rec)
	assert.ErrorIs(t, err, automaton.ErrUnknownState)

	rec = twoState()
	rec.Header.Start = 9
	_, err = automaton.Build(rec)
	assert.ErrorIs(t, err, automaton.ErrUnknownState)

	rec = twoState()
	rec.States[0].Transitions[0].Label = "0 &"
	_, err = automaton.Build(rec)
	assert.ErrorIs(t, err, guard.ErrMalformedGuard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = automaton.Build(twoState(), automaton.WithContext(ctx))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAccessors_ReturnCopies(t *testing.T) {
	a, err := automaton.Build(twoState())
	require.NoError(t, err)
	st := a.States()
	st[0].Transitions[0].Destination = 99
	again, _ := a.State(0)
	assert.Equal(t, 0, again.Transitions[0].Destination)

	dag := a.Condensation()
	dag[0].States[0] = 99
	assert.Equal(t, 0, a.Condensation()[0].States[0])
}

const gfa = `HOA: v1
tool: "owl ltl2ldba" "21.0"
name: "G(F(a))"
States: 1
Start: 0
acc-name: Buchi
Acceptance: 1 Inf(0)
properties: trans-acc trans-label explicit-labels
properties: semi-deterministic complete
AP: 1 "a"
--BODY--
State: 0 /* initial */
[0] 0 {0}
[!0] 0
--END--
`

func TestReadHOA(t *testing.T) {
	rec, err := automaton.ReadHOA(strings.NewReader(gfa))
	require.NoError(t, err)
	assert.Equal(t, "G(F(a))", rec.Header.Name)
	assert.Equal(t, "owl ltl2ldba 21.0", rec.Header.Tool)
	assert.Equal(t, "Buchi", rec.Header.AccName)
	assert.Equal(t, []int{0}, rec.Header.AcceptanceSets)
	assert.Equal(t, []string{"a"}, rec.Header.Propositions)
	assert.Len(t, rec.Header.Properties, 5)
	require.Len(t, rec.States, 1)
	assert.Equal(t, []automaton.RecordTransition{
		{Label: "0", Destination: 0, Signature: []int{0}},
		{Label: "!0", Destination: 0},
	}, rec.States[0].Transitions)

	a, err := automaton.Build(rec)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, a.AcceptingIDs())
}

func TestReadHOA_Errors(t *testing.T) {
	cases := map[string]error{
		"HOA: v1\n--BODY--\nState: 0\n[t] 0\n":                                automaton.ErrMalformedRecord,
		"HOA: v2\n--BODY--\n--END--\n":                                        automaton.ErrUnsupported,
		"HOA: v1\nAcceptance: 1 Fin(0)\n--BODY--\n--END--\n":                 automaton.ErrUnsupported,
		"HOA: v1\nAP: 2 \"a\"\n--BODY--\n--END--\n":                           automaton.ErrMalformedRecord,
		"HOA: v1\n--BODY--\n[t] 0\n--END--\n":                                 automaton.ErrMalformedRecord,
		"HOA: v1\n--BODY--\nState: 0\n[t] 0&1\n--END--\n":                     automaton.ErrUnsupported,
		"HOA: v1\n--BODY--\nState: 0\n[t] 0 {x}\n--END--\n":                   automaton.ErrMalformedRecord,
		"tool: \"x\"\n--BODY--\n--END--\n":                                    automaton.ErrMalformedRecord,
		"HOA: v1\nAcceptance: 1 Inf(3)\n--BODY--\nState: 0\n[t] 0\n--END--\n": automaton.ErrMalformedRecord,
	}
	for text, want := range cases {
		_, err := automaton.ReadHOA(strings.NewReader(text))
		assert.ErrorIs(t, err, want, text)
	}
}
