package polynomial

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Monomial is a coefficient times a product of variable powers.
//
// Powers never holds a zero or negative exponent. Two monomials are the same
// term iff their exponent maps agree; the coefficient plays no part.
type Monomial struct {
	coef   Coefficient
	powers map[string]int
}

// NewMonomial builds c * Π v^k over powers. Zero exponents are dropped;
// a negative exponent fails with ErrNegativeExponent.
func NewMonomial(c Coefficient, powers map[string]int) (Monomial, error) {
	cp := make(map[string]int, len(powers))
	for v, k := range powers {
		if k < 0 {
			return Monomial{}, fmt.Errorf("%w: %s^%d", ErrNegativeExponent, v, k)
		}
		if k > 0 {
			cp[v] = k
		}
	}

	return Monomial{coef: c, powers: cp}, nil
}

// term builds a monomial from trusted, already positive exponents.
func term(c Coefficient, powers map[string]int) Monomial {
	return Monomial{coef: c, powers: powers}
}

// Coefficient returns m's coefficient.
func (m Monomial) Coefficient() Coefficient { return m.coef }

// Power returns the exponent of v in m (0 when absent).
func (m Monomial) Power(v string) int { return m.powers[v] }

// Powers returns a copy of m's exponent map.
func (m Monomial) Powers() map[string]int {
	cp := make(map[string]int, len(m.powers))
	for v, k := range m.powers {
		cp[v] = k
	}

	return cp
}

// Degree returns the total degree of m.
func (m Monomial) Degree() int {
	d := 0
	for _, k := range m.powers {
		d += k
	}

	return d
}

// IsConstant reports whether m has no variables.
func (m Monomial) IsConstant() bool { return len(m.powers) == 0 }

// Vars returns m's variables in natural order (S2 before S10).
func (m Monomial) Vars() []string {
	vs := make([]string, 0, len(m.powers))
	for v := range m.powers {
		vs = append(vs, v)
	}
	sort.Slice(vs, func(i, j int) bool { return lessVar(vs[i], vs[j]) })

	return vs
}

// Key is the canonical rendering of the exponent map; "" for constants.
func (m Monomial) Key() string {
	vs := m.Vars()
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v + "^" + strconv.Itoa(m.powers[v])
	}

	return strings.Join(parts, "*")
}

// SameTerm reports whether m and o have identical exponent maps.
func (m Monomial) SameTerm(o Monomial) bool {
	if len(m.powers) != len(o.powers) {
		return false
	}
	for v, k := range m.powers {
		if o.powers[v] != k {
			return false
		}
	}

	return true
}

// WithCoefficient returns m with its coefficient replaced by c.
func (m Monomial) WithCoefficient(c Coefficient) Monomial { return term(c, m.Powers()) }

// Mul returns m*o.
func (m Monomial) Mul(o Monomial) Monomial {
	powers := m.Powers()
	for v, k := range o.powers {
		powers[v] += k
	}

	return term(m.coef.Mul(o.coef), powers)
}

// without returns m with variable v removed.
func (m Monomial) without(v string) Monomial {
	powers := m.Powers()
	delete(powers, v)

	return term(m.coef, powers)
}

// varsString renders the variable part, e.g. S1**2*S2.
func (m Monomial) varsString() string {
	vs := m.Vars()
	parts := make([]string, len(vs))
	for i, v := range vs {
		if k := m.powers[v]; k > 1 {
			parts[i] = v + "**" + strconv.Itoa(k)
		} else {
			parts[i] = v
		}
	}

	return strings.Join(parts, "*")
}

// String renders m as coef*vars, eliding a unit coefficient.
func (m Monomial) String() string {
	vars := m.varsString()
	switch {
	case vars == "":
		return coefString(m.coef)
	case m.coef.IsOne():
		return vars
	case m.coef.IsKnown() && m.coef.Rat().Cmp(minusOne) == 0:
		return "-" + vars
	}

	return coefString(m.coef) + "*" + vars
}

// coefString renders a coefficient as a '*'-safe factor.
func coefString(c Coefficient) string {
	if c.IsKnown() {
		return c.String()
	}
	if p, ok := c.sym.(Product); ok {
		return p.String()
	}

	return atomString(c.sym)
}

// Prefix renders m as an SMT-LIB product with balanced power expansion.
func (m Monomial) Prefix() string {
	var factors []string
	if !m.coef.IsOne() || len(m.powers) == 0 {
		factors = append(factors, m.coef.Prefix())
	}
	for _, v := range m.Vars() {
		factors = append(factors, PowerPrefix(v, m.powers[v]))
	}
	if len(factors) == 1 {
		return factors[0]
	}

	return "(* " + strings.Join(factors, " ") + ")"
}

// PowerPrefix expands v^p as a balanced binary product:
//
//	p=0 → 1, p=1 → v, p=2 → (* v v), else (* h(⌊p/2⌋) h(⌈p/2⌉)).
func PowerPrefix(v string, p int) string {
	switch {
	case p <= 0:
		return "1"
	case p == 1:
		return v
	case p == 2:
		return "(* " + v + " " + v + ")"
	}

	return "(* " + PowerPrefix(v, p/2) + " " + PowerPrefix(v, (p+1)/2) + ")"
}

// lessVar orders identifiers by alphabetic prefix, then by numeric suffix.
func lessVar(a, b string) bool {
	pa, na := splitIndex(a)
	pb, nb := splitIndex(b)
	if pa != pb {
		return pa < pb
	}
	if na != nb {
		return na < nb
	}

	return a < b
}

func splitIndex(s string) (string, int) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return s, -1
	}
	n, err := strconv.Atoi(s[i:])
	if err != nil {
		return s, -1
	}

	return s[:i], n
}
