package template

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/katalvlaran/ltlcert/polynomial"
)

// Template holds one certificate polynomial per automaton state.
type Template struct {
	kind      Kind
	instance  int
	vars      []string
	degree    int
	states    []int
	eqs       map[int]polynomial.Equation
	constants []string
}

// New builds a template of the given kind for every state in states.
// Duplicate state IDs are collapsed; states are kept in ascending order.
func New(kind Kind, instance int, states []int, vars []string, degree int) (*Template, error) {
	ids := append([]int(nil), states...)
	sort.Ints(ids)
	t := &Template{
		kind:     kind,
		instance: instance,
		vars:     append([]string(nil), vars...),
		degree:   degree,
		eqs:      make(map[int]polynomial.Equation, len(ids)),
	}
	prefix := kind.Prefix(instance)
	for _, q := range ids {
		if _, dup := t.eqs[q]; dup {
			continue
		}
		eq, names, err := Polynomial(prefix+"_"+strconv.Itoa(q), vars, degree)
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", prefix, err)
		}
		t.states = append(t.states, q)
		t.eqs[q] = eq
		t.constants = append(t.constants, names...)
	}

	return t, nil
}

// Kind returns the certificate family.
func (t *Template) Kind() Kind { return t.kind }

// Instance returns the acceptance set index of a Buchi template.
func (t *Template) Instance() int { return t.instance }

// Prefix returns the constant-name prefix, e.g. "V_buchi0".
func (t *Template) Prefix() string { return t.kind.Prefix(t.instance) }

// Degree returns the maximal total degree.
func (t *Template) Degree() int { return t.degree }

// Vars returns a copy of the state variables.
func (t *Template) Vars() []string { return append([]string(nil), t.vars...) }

// States returns the covered state IDs in ascending order.
func (t *Template) States() []int { return append([]int(nil), t.states...) }

// Of returns V(s, q).
func (t *Template) Of(q int) (polynomial.Equation, error) {
	eq, ok := t.eqs[q]
	if !ok {
		return polynomial.Equation{}, fmt.Errorf("%w: %s has no state %d", ErrUnknownState, t.Prefix(), q)
	}

	return eq, nil
}

// Apply returns V(s', q): the template at q with each state variable replaced
// simultaneously by its successor expression from subst.
func (t *Template) Apply(q int, subst map[string]polynomial.Equation) (polynomial.Equation, error) {
	eq, err := t.Of(q)
	if err != nil {
		return polynomial.Equation{}, err
	}

	return eq.SubstituteAll(subst), nil
}

// Constants returns the unknown names, ordered by state and then by monomial index.
func (t *Template) Constants() []string { return append([]string(nil), t.constants...) }

// String renders the template as one "q: V" line per state.
func (t *Template) String() string {
	s := fmt.Sprintf("%s template (|S|=%d, |Q|=%d, degree=%d)", t.kind, len(t.vars), len(t.states), t.degree)
	for _, q := range t.states {
		s += fmt.Sprintf("\n  q%d: %s", q, t.eqs[q])
	}

	return s
}
