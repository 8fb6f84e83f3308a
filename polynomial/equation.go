package polynomial

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

var minusOne = big.NewRat(-1, 1)

// Equation is a polynomial: a sum of monomials with pairwise distinct terms.
//
// The zero value is the zero polynomial. Equations are values; no method
// mutates its receiver.
type Equation struct {
	terms []Monomial
}

// Zero returns the zero polynomial.
func Zero() Equation { return Equation{} }

// Const returns the constant polynomial c.
func Const(c Coefficient) Equation { return Equation{}.AddMonomial(term(c, nil)) }

// ConstInt returns the constant polynomial n.
func ConstInt(n int64) Equation { return Const(KnownInt(n)) }

// Var returns the polynomial consisting of the single variable v.
func Var(v string) Equation {
	return Equation{terms: []Monomial{term(KnownInt(1), map[string]int{v: 1})}}
}

// FromMonomials sums ms into a fresh Equation.
func FromMonomials(ms ...Monomial) Equation {
	e := Equation{}
	for _, m := range ms {
		e.terms = addInto(e.terms, m)
	}

	return e
}

// addInto merges m into terms in place and returns the updated slice.
// A zero contribution is never inserted; a merge cancelling to zero removes the term.
func addInto(terms []Monomial, m Monomial) []Monomial {
	if m.coef.IsZero() {
		return terms
	}
	for i := range terms {
		if !terms[i].SameTerm(m) {
			continue
		}
		sum := terms[i].coef.Add(m.coef)
		if sum.IsZero() {
			return append(terms[:i], terms[i+1:]...)
		}
		terms[i] = term(sum, terms[i].powers)

		return terms
	}

	return append(terms, m)
}

func (e Equation) clone() []Monomial {
	cp := make([]Monomial, len(e.terms), len(e.terms)+1)
	copy(cp, e.terms)

	return cp
}

// AddMonomial returns e + m.
func (e Equation) AddMonomial(m Monomial) Equation {
	return Equation{terms: addInto(e.clone(), m)}
}

// Add returns e + o.
func (e Equation) Add(o Equation) Equation {
	terms := e.clone()
	for _, m := range o.terms {
		terms = addInto(terms, m)
	}

	return Equation{terms: terms}
}

// Neg returns -e.
func (e Equation) Neg() Equation {
	terms := make([]Monomial, len(e.terms))
	for i, m := range e.terms {
		terms[i] = term(m.coef.Neg(), m.powers)
	}

	return Equation{terms: terms}
}

// Sub returns e - o.
func (e Equation) Sub(o Equation) Equation { return e.Add(o.Neg()) }

// Scale returns c*e.
func (e Equation) Scale(c Coefficient) Equation {
	var terms []Monomial
	for _, m := range e.terms {
		terms = addInto(terms, term(m.coef.Mul(c), m.powers))
	}

	return Equation{terms: terms}
}

// Mul returns e*o, fully expanded.
//
// Complexity: O(|e|·|o|·|e·o|).
func (e Equation) Mul(o Equation) Equation {
	var terms []Monomial
	for _, a := range e.terms {
		for _, b := range o.terms {
			terms = addInto(terms, a.Mul(b))
		}
	}

	return Equation{terms: terms}
}

// Pow returns e^k by repeated multiplication; e^0 is 1.
func (e Equation) Pow(k int) Equation {
	acc := ConstInt(1)
	for i := 0; i < k; i++ {
		acc = acc.Mul(e)
	}

	return acc
}

// Substitute replaces variable v by repl everywhere in e.
//
// For each monomial with exponent k>0 for v, repl is multiplied by itself k
// times and distributed over the remaining factors; exponent 0 is a no-op.
func (e Equation) Substitute(v string, repl Equation) Equation {
	var terms []Monomial
	for _, m := range e.terms {
		k := m.powers[v]
		if k == 0 {
			terms = addInto(terms, m)
			continue
		}
		acc := FromMonomials(m.without(v))
		for i := 0; i < k; i++ {
			acc = acc.Mul(repl)
		}
		for _, t := range acc.terms {
			terms = addInto(terms, t)
		}
	}

	return Equation{terms: terms}
}

// SubstituteAll replaces every variable named in subst simultaneously.
// Variables introduced by a replacement are not substituted again.
func (e Equation) SubstituteAll(subst map[string]Equation) Equation {
	var terms []Monomial
	for _, m := range e.terms {
		acc := FromMonomials(term(m.coef, nil))
		for _, v := range m.Vars() {
			k := m.powers[v]
			repl, ok := subst[v]
			if !ok {
				repl = Var(v)
			}
			for i := 0; i < k; i++ {
				acc = acc.Mul(repl)
			}
		}
		for _, t := range acc.terms {
			terms = addInto(terms, t)
		}
	}

	return Equation{terms: terms}
}

// ReplacePowers replaces every v^j by moments[j], e.g. a disturbance power by
// its expectation. An order missing from moments fails with ErrMissingMoment.
func (e Equation) ReplacePowers(v string, moments map[int]Coefficient) (Equation, error) {
	var terms []Monomial
	for _, m := range e.terms {
		k := m.powers[v]
		if k == 0 {
			terms = addInto(terms, m)
			continue
		}
		mom, ok := moments[k]
		if !ok {
			return Equation{}, fmt.Errorf("%w: %s**%d", ErrMissingMoment, v, k)
		}
		rest := m.without(v)
		terms = addInto(terms, term(rest.coef.Mul(mom), rest.powers))
	}

	return Equation{terms: terms}, nil
}

// IsZero reports whether e is the zero polynomial.
func (e Equation) IsZero() bool { return len(e.terms) == 0 }

// Len returns the number of monomials in e.
func (e Equation) Len() int { return len(e.terms) }

// IsConstant reports whether e mentions no variable.
func (e Equation) IsConstant() bool {
	for _, m := range e.terms {
		if !m.IsConstant() {
			return false
		}
	}

	return true
}

// ConstantTerm returns the coefficient of the constant monomial (Known(0) if none).
func (e Equation) ConstantTerm() Coefficient {
	for _, m := range e.terms {
		if m.IsConstant() {
			return m.coef
		}
	}

	return KnownInt(0)
}

// Degree returns the total degree of e; the zero polynomial has degree 0.
func (e Equation) Degree() int {
	d := 0
	for _, m := range e.terms {
		if md := m.Degree(); md > d {
			d = md
		}
	}

	return d
}

// Monomials returns e's terms in canonical order:
// descending degree, then ascending Key.
func (e Equation) Monomials() []Monomial {
	out := e.clone()
	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].Degree(), out[j].Degree()
		if di != dj {
			return di > dj
		}

		return lessKey(out[i], out[j])
	})

	return out
}

// lessKey compares exponent maps variable by variable in natural order;
// a higher power of an earlier variable sorts first.
func lessKey(a, b Monomial) bool {
	vs := unionVars(a, b)
	for _, v := range vs {
		if a.powers[v] != b.powers[v] {
			return a.powers[v] > b.powers[v]
		}
	}

	return false
}

func unionVars(a, b Monomial) []string {
	seen := make(map[string]struct{}, len(a.powers)+len(b.powers))
	for v := range a.powers {
		seen[v] = struct{}{}
	}
	for v := range b.powers {
		seen[v] = struct{}{}
	}
	vs := make([]string, 0, len(seen))
	for v := range seen {
		vs = append(vs, v)
	}
	sort.Slice(vs, func(i, j int) bool { return lessVar(vs[i], vs[j]) })

	return vs
}

// Variables returns the variables of e in natural order.
func (e Equation) Variables() []string {
	seen := make(map[string]struct{})
	for _, m := range e.terms {
		for v := range m.powers {
			seen[v] = struct{}{}
		}
	}
	vs := make([]string, 0, len(seen))
	for v := range seen {
		vs = append(vs, v)
	}
	sort.Slice(vs, func(i, j int) bool { return lessVar(vs[i], vs[j]) })

	return vs
}

// Constants returns the sorted unknown names occurring in e's coefficients.
func (e Equation) Constants() []string {
	seen := make(map[string]struct{})
	for _, m := range e.terms {
		for _, n := range m.coef.Names() {
			seen[n] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)

	return out
}

// Evaluate computes e exactly; env must bind every variable and unknown.
func (e Equation) Evaluate(env map[string]*big.Rat) (*big.Rat, error) {
	acc := new(big.Rat)
	for _, m := range e.terms {
		c, err := m.coef.Eval(env)
		if err != nil {
			return nil, err
		}
		for v, k := range m.powers {
			x, ok := env[v]
			if !ok || x == nil {
				return nil, fmt.Errorf("%w: %s", ErrUnboundName, v)
			}
			for i := 0; i < k; i++ {
				c.Mul(c, x)
			}
		}
		acc.Add(acc, c)
	}

	return acc, nil
}

// Instantiate replaces unknown names by known values from model, leaving
// unbound names symbolic. Coefficients that become fully known are folded.
func (e Equation) Instantiate(model map[string]*big.Rat) Equation {
	var terms []Monomial
	for _, m := range e.terms {
		c := m.coef
		if !c.IsKnown() {
			if r, err := c.Eval(model); err == nil {
				c = Known(r)
			}
		}
		terms = addInto(terms, term(c, m.powers))
	}

	return Equation{terms: terms}
}

// Equal reports whether e and o have the same terms with the same coefficients.
func (e Equation) Equal(o Equation) bool { return e.String() == o.String() }

// String renders e canonically, e.g. "V_reach_0_1*S1 + V_reach_0_2".
// The zero polynomial renders as "0".
func (e Equation) String() string {
	ms := e.Monomials()
	if len(ms) == 0 {
		return "0"
	}
	var b strings.Builder
	for i, m := range ms {
		neg := m.coef.Negative()
		body := m
		if neg {
			body = term(m.coef.Abs(), m.powers)
		}
		switch {
		case i == 0 && neg:
			b.WriteString("-")
		case i > 0 && neg:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		b.WriteString(body.String())
	}

	return b.String()
}

// Prefix renders e in SMT-LIB prefix form with right-nested sums.
func (e Equation) Prefix() string {
	ms := e.Monomials()
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = m.Prefix()
	}

	return nestRight("+", parts)
}
