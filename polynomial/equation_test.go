package polynomial_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ltlcert/polynomial"
)

func mono(t *testing.T, c polynomial.Coefficient, powers map[string]int) polynomial.Monomial {
	t.Helper()
	m, err := polynomial.NewMonomial(c, powers)
	require.NoError(t, err)

	return m
}

func TestMonomial_SameTermIgnoresCoefficient(t *testing.T) {
	a := mono(t, polynomial.KnownInt(3), map[string]int{"S1": 2, "S2": 1})
	b := mono(t, polynomial.Unknown("c"), map[string]int{"S2": 1, "S1": 2})
	c := mono(t, polynomial.KnownInt(-7), map[string]int{"S1": 2, "S2": 1, "S3": 0})
	d := mono(t, polynomial.KnownInt(3), map[string]int{"S1": 1, "S2": 1})

	// reflexive, symmetric, transitive
	assert.True(t, a.SameTerm(a))
	assert.True(t, a.SameTerm(b))
	assert.True(t, b.SameTerm(a))
	assert.True(t, b.SameTerm(c))
	assert.True(t, a.SameTerm(c))
	assert.False(t, a.SameTerm(d))
	assert.Equal(t, a.Key(), c.Key())
}

func TestMonomial_NegativeExponent(t *testing.T) {
	_, err := polynomial.NewMonomial(polynomial.KnownInt(1), map[string]int{"S1": -1})
	assert.ErrorIs(t, err, polynomial.ErrNegativeExponent)
}

func TestAddMonomial_MergesAndDropsZero(t *testing.T) {
	x := mono(t, polynomial.KnownInt(2), map[string]int{"S1": 1})
	y := mono(t, polynomial.KnownInt(5), map[string]int{"S1": 1})
	k := mono(t, polynomial.KnownInt(4), nil)
	zero := mono(t, polynomial.KnownInt(0), map[string]int{"S2": 3})

	e1 := polynomial.Zero().AddMonomial(x).AddMonomial(k).AddMonomial(y)
	e2 := polynomial.Zero().AddMonomial(y).AddMonomial(x).AddMonomial(k)
	assert.Equal(t, "7*S1 + 4", e1.String())
	assert.True(t, e1.Equal(e2), "add_monomial must be commutative")

	e3 := e1.AddMonomial(zero).AddMonomial(zero)
	assert.True(t, e1.Equal(e3), "adding zero must be idempotent")
	assert.Equal(t, 2, e3.Len())

	cancel := e1.AddMonomial(mono(t, polynomial.KnownInt(-7), map[string]int{"S1": 1}))
	assert.Equal(t, "4", cancel.String())
}

func TestAddMonomial_SymbolicMerge(t *testing.T) {
	e := polynomial.Zero().
		AddMonomial(mono(t, polynomial.Unknown("a"), map[string]int{"S1": 1})).
		AddMonomial(mono(t, polynomial.Unknown("b"), map[string]int{"S1": 1}))
	require.Equal(t, 1, e.Len())
	assert.Equal(t, []string{"a", "b"}, e.Constants())
	assert.Equal(t, "(a + b)*S1", e.String())
}

func TestEquation_ValueSemantics(t *testing.T) {
	base := polynomial.MustParse("S1 + 1")
	_ = base.Add(polynomial.MustParse("S1"))
	_ = base.AddMonomial(mono(t, polynomial.KnownInt(9), nil))
	assert.Equal(t, "S1 + 1", base.String())
}

func TestParse_RoundTrip(t *testing.T) {
	cases := []string{
		"3*S1**2*S2 - 4*S2 + 7",
		"S1**3 - S1*S2**2 + S2",
		"-2*S1 + 5",
		"0",
		"12",
		"S1*S2*S3 - S3**4",
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			e, err := polynomial.Parse(src)
			require.NoError(t, err)
			back, err := polynomial.Parse(e.String())
			require.NoError(t, err)
			assert.True(t, e.Equal(back), "%q vs %q", e, back)
			keys := func(x polynomial.Equation) []string {
				var ks []string
				for _, m := range x.Monomials() {
					ks = append(ks, m.Key())
				}
				return ks
			}
			assert.Equal(t, keys(e), keys(back))
		})
	}
}

func TestParse_OpaqueCoefficient(t *testing.T) {
	e, err := polynomial.Parse("1/(1-p) - V_reach_0_1*S1")
	require.NoError(t, err)
	assert.Equal(t, []string{"V_reach_0_1", "p"}, e.Constants())
	assert.Equal(t, []string{"S1"}, e.Variables())

	c := e.ConstantTerm()
	assert.False(t, c.IsKnown())
	v, err := c.Eval(map[string]*big.Rat{"p": big.NewRat(9, 10)})
	require.NoError(t, err)
	assert.Equal(t, "10", v.RatString())

	numeric, err := polynomial.Parse("1/(1-0.9)")
	require.NoError(t, err)
	assert.Equal(t, "10", numeric.String())
}

func TestParse_Precedence(t *testing.T) {
	cases := []struct{ src, want string }{
		{"2 + 3*S1**2", "3*S1**2 + 2"},
		{"-S1**2", "-1*S1**2"},
		{"2*3^2", "18"},
		{"(1 + S1)*2 - 4/2", "2*S1"},
		{"- -S1", "S1"},
		{"S1 - S2 - S1", "-1*S2"},
	}
	for _, tc := range cases {
		got, err := polynomial.Parse(tc.src)
		require.NoError(t, err, tc.src)
		assert.True(t, got.Equal(polynomial.MustParse(tc.want)), "%s: %s", tc.src, got)
	}
}

func TestParse_Errors(t *testing.T) {
	for _, src := range []string{"S1 +", "(S1", "S1 ** x", "S1 / S2", "3 $ 4", "1/0"} {
		_, err := polynomial.Parse(src)
		assert.Error(t, err, src)
	}
	_, err := polynomial.Parse("S1/S2")
	assert.ErrorIs(t, err, polynomial.ErrNonConstantDivisor)
	_, err = polynomial.Parse("1/0")
	assert.ErrorIs(t, err, polynomial.ErrDivisionByZero)
}

func TestSubstitute(t *testing.T) {
	e := polynomial.MustParse("S1**2 + 3*S2")
	repl := polynomial.MustParse("S1 + 1")

	got := e.Substitute("S1", repl)
	assert.True(t, got.Equal(polynomial.MustParse("S1**2 + 2*S1 + 1 + 3*S2")), got.String())

	// exponent 0 everywhere: no-op up to canonical form
	noop := e.Substitute("S3", polynomial.ConstInt(1))
	assert.True(t, e.Equal(noop))
}

func TestSubstituteAll_Simultaneous(t *testing.T) {
	e := polynomial.MustParse("S1*S2")
	got := e.SubstituteAll(map[string]polynomial.Equation{
		"S1": polynomial.MustParse("S2"),
		"S2": polynomial.MustParse("S1 + D1"),
	})
	assert.True(t, got.Equal(polynomial.MustParse("S1*S2 + S2*D1")), got.String())
}

func TestReplacePowers(t *testing.T) {
	e := polynomial.MustParse("S1*D1**2 + 2*D1 + 5")
	got, err := e.ReplacePowers("D1", map[int]polynomial.Coefficient{
		1: polynomial.KnownInt(0),
		2: polynomial.KnownInt(4),
	})
	require.NoError(t, err)
	assert.Equal(t, "4*S1 + 5", got.String())

	_, err = e.ReplacePowers("D1", map[int]polynomial.Coefficient{1: polynomial.KnownInt(0)})
	assert.ErrorIs(t, err, polynomial.ErrMissingMoment)
}

func TestPrefix(t *testing.T) {
	assert.Equal(t, "1", polynomial.PowerPrefix("x", 0))
	assert.Equal(t, "x", polynomial.PowerPrefix("x", 1))
	assert.Equal(t, "(* x x)", polynomial.PowerPrefix("x", 2))
	assert.Equal(t, "(* x (* x x))", polynomial.PowerPrefix("x", 3))
	assert.Equal(t, "(* (* x x) (* x x))", polynomial.PowerPrefix("x", 4))
	assert.Equal(t, "(* (* x x) (* x (* x x)))", polynomial.PowerPrefix("x", 5))

	e := polynomial.MustParse("a*S1 + b*S2 + c")
	assert.Equal(t, "(+ (* a S1) (+ (* b S2) c))", e.Prefix())
	assert.Equal(t, "0", polynomial.Zero().Prefix())
	assert.Equal(t, "(+ (* (- 3) S1) (/ 1 2))", polynomial.MustParse("1/2 - 3*S1").Prefix())
}

func TestEvaluateAndInstantiate(t *testing.T) {
	e := polynomial.MustParse("k*S1**2 - S1 + 1/2")
	env := map[string]*big.Rat{"k": big.NewRat(2, 1), "S1": big.NewRat(3, 1)}
	v, err := e.Evaluate(env)
	require.NoError(t, err)
	assert.Equal(t, "31/2", v.RatString())

	_, err = e.Evaluate(map[string]*big.Rat{"S1": big.NewRat(1, 1)})
	assert.ErrorIs(t, err, polynomial.ErrUnboundName)

	inst := e.Instantiate(map[string]*big.Rat{"k": big.NewRat(2, 1)})
	assert.Equal(t, "2*S1**2 - S1 + 1/2", inst.String())
}
