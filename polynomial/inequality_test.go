package polynomial_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ltlcert/polynomial"
)

func TestNewInequality_Normalizes(t *testing.T) {
	s1 := polynomial.MustParse("S1")
	five := polynomial.ConstInt(5)

	ge, relaxed, err := polynomial.NewInequality(s1, polynomial.GE, five, polynomial.StrictRejected)
	require.NoError(t, err)
	assert.False(t, relaxed)
	require.Len(t, ge, 1)
	assert.Equal(t, "S1 - 5 >= 0", ge[0].String())

	le, _, err := polynomial.NewInequality(s1, polynomial.LE, five, polynomial.StrictRejected)
	require.NoError(t, err)
	assert.Equal(t, "-S1 + 5 >= 0", le[0].String())
	assert.Equal(t, "(>= (+ (* (- 1) S1) 5) 0)", le[0].Prefix())

	eq, _, err := polynomial.NewInequality(s1, polynomial.EQ, five, polynomial.StrictRejected)
	require.NoError(t, err)
	assert.Len(t, eq, 2)
}

func TestNewInequality_StrictModes(t *testing.T) {
	s1 := polynomial.MustParse("S1")
	zero := polynomial.Zero()

	_, _, err := polynomial.NewInequality(s1, polynomial.GT, zero, polynomial.StrictRejected)
	assert.ErrorIs(t, err, polynomial.ErrStrictComparison)

	_, _, err = polynomial.NewInequality(s1, polynomial.LT, zero, 0)
	assert.ErrorIs(t, err, polynomial.ErrStrictModeUnset)

	gt, relaxed, err := polynomial.NewInequality(s1, polynomial.GT, zero, polynomial.StrictRelaxed)
	require.NoError(t, err)
	assert.True(t, relaxed)
	assert.Equal(t, "S1 >= 0", gt[0].String())

	ne, relaxed, err := polynomial.NewInequality(s1, polynomial.NE, zero, polynomial.StrictRelaxed)
	require.NoError(t, err)
	assert.True(t, relaxed)
	require.Len(t, ne, 1)
	assert.True(t, ne[0].Trivial())
}

func TestInequality_Negate(t *testing.T) {
	q := polynomial.AtLeast(polynomial.MustParse("S1"), polynomial.ConstInt(2))
	assert.Equal(t, "-S1 + 2 >= 0", q.Negate().String())
	assert.True(t, q.Negate().Negate().Expr().Equal(q.Expr()))
}

func TestParseRelations_Chained(t *testing.T) {
	ineqs, relaxed, err := polynomial.ParseRelations("-5 <= S1 <= 5; S2 > 1", polynomial.StrictRelaxed)
	require.NoError(t, err)
	assert.True(t, relaxed)
	require.Len(t, ineqs, 3)
	assert.Equal(t, "S1 + 5 >= 0", ineqs[0].String())
	assert.Equal(t, "-S1 + 5 >= 0", ineqs[1].String())
	assert.Equal(t, "S2 - 1 >= 0", ineqs[2].String())

	_, _, err = polynomial.ParseRelations("S2 > 1", polynomial.StrictRejected)
	assert.ErrorIs(t, err, polynomial.ErrStrictComparison)

	_, _, err = polynomial.ParseRelations("S1 + 2", polynomial.StrictRejected)
	assert.ErrorIs(t, err, polynomial.ErrParse)
}

func TestParseComparatorAndMode(t *testing.T) {
	for text, want := range map[string]polynomial.Comparator{
		">=": polynomial.GE, "<=": polynomial.LE, ">": polynomial.GT,
		"<": polynomial.LT, "=": polynomial.EQ, "==": polynomial.EQ, "!=": polynomial.NE,
	} {
		got, err := polynomial.ParseComparator(text)
		require.NoError(t, err, text)
		assert.Equal(t, want, got)
	}
	_, err := polynomial.ParseComparator("=<")
	assert.ErrorIs(t, err, polynomial.ErrUnknownComparator)

	m, err := polynomial.ParseStrictMode("strict_rejected")
	require.NoError(t, err)
	assert.Equal(t, polynomial.StrictRejected, m)
	_, err = polynomial.ParseStrictMode("")
	assert.ErrorIs(t, err, polynomial.ErrStrictModeUnset)
}
