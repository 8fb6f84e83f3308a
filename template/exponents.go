package template

import (
	"fmt"
	"strconv"

	"github.com/katalvlaran/ltlcert/polynomial"
)

// Exponents returns every exponent tuple of length n with non-negative
// components summing to at most d, in descending lexicographic order.
//
//	Exponents(2, 1) = [[1 0] [0 1] [0 0]]
//
// The result has C(n+d, d) tuples; n <= 0 or d < 0 yields nil.
func Exponents(n, d int) [][]int {
	if n <= 0 || d < 0 {
		return nil
	}
	var (
		out [][]int
		cur = make([]int, n)
		rec func(i, left int)
	)
	rec = func(i, left int) {
		if i == n {
			out = append(out, append([]int(nil), cur...))
			return
		}
		for e := left; e >= 0; e-- {
			cur[i] = e
			rec(i+1, left-e)
		}
	}
	rec(0, d)

	return out
}

// Polynomial builds Σ_k <prefix>_<k> * vars^exp_k over Exponents(len(vars), degree)
// and returns it with its unknown constant names in index order.
func Polynomial(prefix string, vars []string, degree int) (polynomial.Equation, []string, error) {
	if degree < 0 {
		return polynomial.Equation{}, nil, fmt.Errorf("%w: %d", ErrInvalidDegree, degree)
	}
	if len(vars) == 0 {
		return polynomial.Equation{}, nil, ErrNoVariables
	}

	exps := Exponents(len(vars), degree)
	names := make([]string, len(exps))
	ms := make([]polynomial.Monomial, len(exps))
	for k, exp := range exps {
		names[k] = prefix + "_" + strconv.Itoa(k+1)
		powers := make(map[string]int, len(vars))
		for i, v := range vars {
			powers[v] = exp[i]
		}
		m, err := polynomial.NewMonomial(polynomial.Unknown(names[k]), powers)
		if err != nil {
			return polynomial.Equation{}, nil, err
		}
		ms[k] = m
	}

	return polynomial.FromMonomials(ms...), names, nil
}
