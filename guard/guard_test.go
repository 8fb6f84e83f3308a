package guard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ltlcert/guard"
	"github.com/katalvlaran/ltlcert/polynomial"
)

func TestInfixToPrefix(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"a", "a"},
		{"!a", "(! a)"},
		{"a&b", "(& a b)"},
		{"a&b|!c", "(| (& a b) (! c))"},
		{"a|b&c", "(| a (& b c))"},
		{"a|b|c", "(| (| a b) c)"},
		{"a&b&c", "(& (& a b) c)"},
		{"!(a&b)", "(! (& a b))"},
		{"!!a", "(! (! a))"},
		{"0 & !1", "(& 0 (! 1))"},
		{"(0 | 1) && !2", "(& (| 0 1) (! 2))"},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		got, err := guard.InfixToPrefix(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestInfixToPrefix_Malformed(t *testing.T) {
	for _, in := range []string{"a&", "&a", "(a", "a)", "a b", "a!b", "()", "a # b", "!"} {
		_, err := guard.InfixToPrefix(in)
		assert.ErrorIs(t, err, guard.ErrMalformedGuard, in)
	}
}

func testLookup() guard.Lookup {
	s1 := polynomial.Var("S1")

	return guard.Lookup{
		"a": {polynomial.AtLeast(s1, polynomial.ConstInt(0))},
		"b": {polynomial.AtLeast(s1, polynomial.ConstInt(2))},
		"c": {
			polynomial.AtLeast(s1, polynomial.ConstInt(0)),
			polynomial.AtLeast(s1, polynomial.ConstInt(2)),
		},
	}
}

func TestExpand(t *testing.T) {
	lk := testLookup()

	got, err := guard.Expand("(& a (! b))", lk)
	require.NoError(t, err)
	assert.Equal(t, "(and (>= S1 0) (>= (+ (* (- 1) S1) 2) 0))", got)

	got, err = guard.Expand("c", lk)
	require.NoError(t, err)
	assert.Equal(t, "(and (>= S1 0) (>= (+ S1 (- 2)) 0))", got)

	got, err = guard.Expand("(! c)", lk)
	require.NoError(t, err)
	assert.Equal(t, "(or (>= (* (- 1) S1) 0) (>= (+ (* (- 1) S1) 2) 0))", got)

	got, err = guard.Expand("(! (| a b))", lk)
	require.NoError(t, err)
	assert.Equal(t, "(not (or (>= S1 0) (>= (+ S1 (- 2)) 0)))", got)
}

func TestExpand_EmptyAndTrue(t *testing.T) {
	got, err := guard.Expand("", nil)
	require.NoError(t, err)
	assert.Equal(t, guard.TrueText, got)

	got, err = guard.Compile("t", nil)
	require.NoError(t, err)
	assert.Equal(t, "(> 1 0)", got)

	got, err = guard.Compile("!t", nil)
	require.NoError(t, err)
	assert.Equal(t, guard.FalseText, got)
}

func TestExpand_UnknownAtom(t *testing.T) {
	_, err := guard.Compile("a & z", testLookup())
	assert.ErrorIs(t, err, guard.ErrUnknownAtom)
}

// A region whose rendering contains another atom's name must not be rescanned.
func TestExpand_NoRescan(t *testing.T) {
	lk := guard.Lookup{
		"0": {polynomial.AtLeast(polynomial.Var("S1"), polynomial.ConstInt(1))},
		"1": {polynomial.AtLeast(polynomial.Var("S1"), polynomial.ConstInt(0))},
	}
	got, err := guard.Compile("0 & 1", lk)
	require.NoError(t, err)
	assert.Equal(t, "(and (>= (+ S1 (- 1)) 0) (>= S1 0))", got)
}

func TestNewLookup(t *testing.T) {
	regions := map[string][]polynomial.Inequality{
		"goal": {polynomial.AtLeast(polynomial.Var("S1"), polynomial.ConstInt(4))},
	}
	lk, err := guard.NewLookup([]string{"goal"}, regions)
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "goal"}, lk.Names())

	_, err = guard.NewLookup([]string{"goal", "unsafe"}, regions)
	assert.ErrorIs(t, err, guard.ErrUnknownAtom)
}

func TestAtoms(t *testing.T) {
	atoms, err := guard.Atoms("0 & !1 | (0 & 2)")
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2"}, atoms)
}

func TestParse(t *testing.T) {
	n, err := guard.Parse("a & b | !c")
	require.NoError(t, err)
	assert.Equal(t, "(| (& a b) (! c))", n.Prefix())
	assert.True(t, n.Eval(map[string]bool{"a": true, "b": true, "c": true}))
	assert.True(t, n.Eval(map[string]bool{}))
	assert.False(t, n.Eval(map[string]bool{"a": true, "c": true}))

	n, err = guard.Parse("")
	require.NoError(t, err)
	assert.Equal(t, guard.True{}, n)

	n, err = guard.Parse("!t")
	require.NoError(t, err)
	assert.False(t, n.Eval(nil))

	_, err = guard.Parse("a |")
	assert.ErrorIs(t, err, guard.ErrMalformedGuard)
}
