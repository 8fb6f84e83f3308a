package constraint

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/katalvlaran/ltlcert/guard"
	"github.com/katalvlaran/ltlcert/polynomial"
)

// Sentinel errors for constraint compilation.
var (
	// ErrInvalidProblem indicates a problem that cannot be compiled.
	ErrInvalidProblem = errors.New("constraint: invalid problem")

	// ErrUnknownKind indicates an unknown obligation name.
	ErrUnknownKind = errors.New("constraint: unknown kind")
)

// Kind identifies a verification obligation.
type Kind int

// Obligation kinds, in emission order.
const (
	NonNegativity Kind = iota
	InitialBound
	Safety
	StrictReachDecrease
	NonStrictReachDecrease
	BuchiDecrease
	InvariantInitial
	InvariantInductive
	BoundedDifference
)

var kindNames = [...]string{
	NonNegativity:          "non_negativity",
	InitialBound:           "initial_bound",
	Safety:                 "safety",
	StrictReachDecrease:    "strict_reach_decrease",
	NonStrictReachDecrease: "non_strict_reach_decrease",
	BuchiDecrease:          "buchi_decrease",
	InvariantInitial:       "invariant_initial",
	InvariantInductive:     "invariant_inductive",
	BoundedDifference:      "bounded_difference",
}

// Kinds returns every obligation kind in emission order.
func Kinds() []Kind {
	out := make([]Kind, len(kindNames))
	for i := range out {
		out[i] = Kind(i)
	}

	return out
}

// String returns the snake_case kind name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}

	return kindNames[k]
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for i, n := range kindNames {
		if n == s {
			return Kind(i), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Node is a logical combination of inequalities.
type Node interface {
	// Prefix renders the node in SMT-LIB form.
	Prefix() string
	// String renders the node for humans.
	String() string

	walk(fn func(polynomial.Inequality))
}

// Leaf is a single inequality e >= 0.
type Leaf struct{ polynomial.Inequality }

// And is a conjunction; the empty conjunction is true.
type And []Node

// Or is a disjunction; the empty disjunction is false.
type Or []Node

// True is the always-true node.
type True struct{}

// Guarded gates Body by an automaton transition guard.
// Guard holds the expanded prefix form; Label the original infix text.
type Guarded struct {
	Label string
	Guard string
	Body  Node
}

// Leaves wraps inequalities as leaves.
func Leaves(ineqs ...polynomial.Inequality) And {
	out := make(And, len(ineqs))
	for i, q := range ineqs {
		out[i] = Leaf{q}
	}

	return out
}

func (l Leaf) walk(fn func(polynomial.Inequality)) { fn(l.Inequality) }

func (a And) Prefix() string { return joinPrefix("and", guard.TrueText, a) }
func (o Or) Prefix() string  { return joinPrefix("or", guard.FalseText, o) }
func (True) Prefix() string  { return guard.TrueText }

func (g Guarded) Prefix() string {
	if g.Guard == "" || g.Guard == guard.TrueText {
		return g.Body.Prefix()
	}

	return "(and " + g.Guard + " " + g.Body.Prefix() + ")"
}

func (a And) String() string { return joinString(" & ", "true", a) }
func (o Or) String() string  { return joinString(" | ", "false", o) }
func (True) String() string  { return "true" }

func (g Guarded) String() string {
	label := g.Label
	if label == "" {
		label = "t"
	}

	return "[" + label + "] " + g.Body.String()
}

func (a And) walk(fn func(polynomial.Inequality)) {
	for _, n := range a {
		n.walk(fn)
	}
}

func (o Or) walk(fn func(polynomial.Inequality)) {
	for _, n := range o {
		n.walk(fn)
	}
}

func (True) walk(func(polynomial.Inequality)) {}

func (g Guarded) walk(fn func(polynomial.Inequality)) { g.Body.walk(fn) }

func joinPrefix(op, empty string, nodes []Node) string {
	switch len(nodes) {
	case 0:
		return empty
	case 1:
		return nodes[0].Prefix()
	}
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.Prefix()
	}

	return "(" + op + " " + strings.Join(parts, " ") + ")"
}

func joinString(sep, empty string, nodes []Node) string {
	switch len(nodes) {
	case 0:
		return empty
	case 1:
		return nodes[0].String()
	}
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}

	return "(" + strings.Join(parts, sep) + ")"
}

// Implication is ∀ Vars. LHS ⇒ RHS. A nil LHS is true.
type Implication struct {
	Name string
	Kind Kind
	Vars []string
	LHS  Node
	RHS  Node
}

// Prefix renders "(forall ((S1 Real) ...) (=> lhs rhs))". Without variables
// the quantifier is omitted.
func (c Implication) Prefix() string {
	lhs := guard.TrueText
	if c.LHS != nil {
		lhs = c.LHS.Prefix()
	}
	body := "(=> " + lhs + " " + c.RHS.Prefix() + ")"
	if len(c.Vars) == 0 {
		return body
	}
	binders := make([]string, len(c.Vars))
	for i, v := range c.Vars {
		binders[i] = "(" + v + " Real)"
	}

	return "(forall (" + strings.Join(binders, " ") + ") " + body + ")"
}

// String renders "∀ S1. lhs ⇒ rhs".
func (c Implication) String() string {
	lhs := "true"
	if c.LHS != nil {
		lhs = c.LHS.String()
	}

	return "∀ " + strings.Join(c.Vars, ",") + ". " + lhs + " ⇒ " + c.RHS.String()
}

// Constants returns the sorted unknown names on both sides.
func (c Implication) Constants() []string {
	seen := make(map[string]struct{})
	collect := func(q polynomial.Inequality) {
		for _, n := range q.Constants() {
			seen[n] = struct{}{}
		}
	}
	if c.LHS != nil {
		c.LHS.walk(collect)
	}
	c.RHS.walk(collect)
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)

	return out
}
