package polynomial

import (
	"fmt"
	"strings"
)

// Comparator is a relational operator between two equations.
type Comparator int

// Supported comparators.
const (
	GE Comparator = iota // >=
	LE                   // <=
	GT                   // >
	LT                   // <
	EQ                   // ==
	NE                   // !=
)

var comparatorText = map[Comparator]string{GE: ">=", LE: "<=", GT: ">", LT: "<", EQ: "==", NE: "!="}

func (c Comparator) String() string {
	if s, ok := comparatorText[c]; ok {
		return s
	}

	return "?"
}

// Strict reports whether c cannot be expressed as a single non-strict inequality.
func (c Comparator) Strict() bool { return c == GT || c == LT || c == NE }

// ParseComparator maps ">=", "<=", ">", "<", "==" (or "="), "!=" to a Comparator.
func ParseComparator(s string) (Comparator, error) {
	switch strings.TrimSpace(s) {
	case ">=":
		return GE, nil
	case "<=":
		return LE, nil
	case ">":
		return GT, nil
	case "<":
		return LT, nil
	case "==", "=":
		return EQ, nil
	case "!=":
		return NE, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownComparator, s)
}

// StrictMode selects how strict and ≠ comparisons are treated.
// The zero value is deliberately invalid: the caller must choose.
type StrictMode int

const (
	// StrictRelaxed replaces a strict comparison by its closure: > becomes >=,
	// < becomes <=, != becomes the always-true 1 >= 0.
	StrictRelaxed StrictMode = iota + 1

	// StrictRejected fails with ErrStrictComparison.
	StrictRejected
)

func (m StrictMode) String() string {
	switch m {
	case StrictRelaxed:
		return "strict_relaxed"
	case StrictRejected:
		return "strict_rejected"
	}

	return "unset"
}

// ParseStrictMode maps "strict_relaxed" / "strict_rejected" to a StrictMode.
func ParseStrictMode(s string) (StrictMode, error) {
	switch strings.TrimSpace(s) {
	case "strict_relaxed", "relaxed":
		return StrictRelaxed, nil
	case "strict_rejected", "rejected":
		return StrictRejected, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrStrictModeUnset, s)
}

// Inequality is the normalized relation expr >= 0.
// There is no way to build a denormalized value.
type Inequality struct {
	expr Equation
}

// AtLeastZero returns e >= 0.
func AtLeastZero(e Equation) Inequality { return Inequality{expr: e} }

// AtLeast returns left >= right, normalized to left - right >= 0.
func AtLeast(left, right Equation) Inequality { return Inequality{expr: left.Sub(right)} }

// AtMost returns left <= right, normalized to right - left >= 0.
func AtMost(left, right Equation) Inequality { return Inequality{expr: right.Sub(left)} }

// Always returns the always-true inequality 1 >= 0.
func Always() Inequality { return Inequality{expr: ConstInt(1)} }

// NewInequality normalizes left cmp right into one or more "expr >= 0" relations.
//
//	>=, <=   one inequality
//	==       two inequalities (left-right >= 0 and right-left >= 0)
//	>, <, != relaxed to their closure under StrictRelaxed (relaxed = true),
//	         ErrStrictComparison under StrictRejected,
//	         ErrStrictModeUnset when mode is the zero value.
func NewInequality(left Equation, cmp Comparator, right Equation, mode StrictMode) (ineqs []Inequality, relaxed bool, err error) {
	if cmp.Strict() {
		switch mode {
		case StrictRelaxed:
			relaxed = true
		case StrictRejected:
			return nil, false, fmt.Errorf("%w: %s %s %s", ErrStrictComparison, left, cmp, right)
		default:
			return nil, false, fmt.Errorf("%w: %s %s %s", ErrStrictModeUnset, left, cmp, right)
		}
	}

	switch cmp {
	case GE, GT:
		return []Inequality{AtLeast(left, right)}, relaxed, nil
	case LE, LT:
		return []Inequality{AtMost(left, right)}, relaxed, nil
	case EQ:
		return []Inequality{AtLeast(left, right), AtMost(left, right)}, false, nil
	case NE:
		return []Inequality{Always()}, relaxed, nil
	}

	return nil, false, fmt.Errorf("%w: %d", ErrUnknownComparator, int(cmp))
}

// Expr returns the normalized left side (the right side is always 0).
func (q Inequality) Expr() Equation { return q.expr }

// Negate returns the closure of the complement: not(e >= 0) is e < 0,
// relaxed to -e >= 0.
func (q Inequality) Negate() Inequality { return Inequality{expr: q.expr.Neg()} }

// Trivial reports whether q is a known constant c >= 0 with c non-negative.
func (q Inequality) Trivial() bool {
	if !q.expr.IsConstant() {
		return false
	}
	c := q.expr.ConstantTerm()

	return c.IsKnown() && c.Rat().Sign() >= 0
}

// Substitute applies SubstituteAll to the left side.
func (q Inequality) Substitute(subst map[string]Equation) Inequality {
	return Inequality{expr: q.expr.SubstituteAll(subst)}
}

// Constants returns the unknown names in q.
func (q Inequality) Constants() []string { return q.expr.Constants() }

// Variables returns the variables in q.
func (q Inequality) Variables() []string { return q.expr.Variables() }

// String renders "e >= 0".
func (q Inequality) String() string { return q.expr.String() + " >= 0" }

// Prefix renders "(>= e 0)".
func (q Inequality) Prefix() string { return "(>= " + q.expr.Prefix() + " 0)" }

// ParseRelations parses a ';' ',' or newline separated list of comparisons,
// each possibly chained ("-5 <= S1 <= 5"), into normalized inequalities.
// relaxed reports whether any strict comparison was relaxed.
func ParseRelations(text string, mode StrictMode, opts ...ParseOption) (ineqs []Inequality, relaxed bool, err error) {
	for _, clause := range splitClauses(text) {
		parts, cmps, err := splitComparisons(clause)
		if err != nil {
			return nil, false, err
		}
		if len(cmps) == 0 {
			return nil, false, fmt.Errorf("%w: no comparison in %q", ErrParse, clause)
		}
		sides := make([]Equation, len(parts))
		for i, p := range parts {
			if sides[i], err = Parse(p, opts...); err != nil {
				return nil, false, err
			}
		}
		for i, c := range cmps {
			out, r, err := NewInequality(sides[i], c, sides[i+1], mode)
			if err != nil {
				return nil, false, err
			}
			relaxed = relaxed || r
			ineqs = append(ineqs, out...)
		}
	}

	return ineqs, relaxed, nil
}

func splitClauses(text string) []string {
	f := func(r rune) bool { return r == ';' || r == ',' || r == '\n' }
	var out []string
	for _, c := range strings.FieldsFunc(text, f) {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}

	return out
}

// splitComparisons splits "a <= b < c" into sides and comparators.
func splitComparisons(clause string) ([]string, []Comparator, error) {
	var (
		parts []string
		cmps  []Comparator
		last  int
	)
	for i := 0; i < len(clause); i++ {
		ch := clause[i]
		if ch != '<' && ch != '>' && ch != '=' && ch != '!' {
			continue
		}
		width := 1
		if i+1 < len(clause) && clause[i+1] == '=' {
			width = 2
		}
		c, err := ParseComparator(clause[i : i+width])
		if err != nil {
			return nil, nil, err
		}
		parts = append(parts, strings.TrimSpace(clause[last:i]))
		cmps = append(cmps, c)
		i += width - 1
		last = i + 1
	}
	parts = append(parts, strings.TrimSpace(clause[last:]))

	return parts, cmps, nil
}
