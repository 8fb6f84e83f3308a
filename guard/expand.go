package guard

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/katalvlaran/ltlcert/polynomial"
)

// Lookup maps an atom to the inequalities of the region it denotes.
type Lookup map[string][]polynomial.Inequality

// NewLookup keys each region both by its proposition index ("0", "1", …),
// which is how HOA labels name atoms, and by the proposition name itself.
func NewLookup(props []string, regions map[string][]polynomial.Inequality) (Lookup, error) {
	lk := make(Lookup, 2*len(props))
	for i, name := range props {
		ineqs, ok := regions[name]
		if !ok {
			return nil, fmt.Errorf("%w: proposition %q has no region", ErrUnknownAtom, name)
		}
		lk[strconv.Itoa(i)] = ineqs
		lk[name] = ineqs
	}

	return lk, nil
}

// Names returns the lookup keys in sorted order.
func (lk Lookup) Names() []string {
	out := make([]string, 0, len(lk))
	for k := range lk {
		out = append(out, k)
	}
	sort.Strings(out)

	return out
}

// mark is a placeholder for an atom (or a negated atom) awaiting substitution.
type mark struct {
	atom    string
	negated bool
}

// Expand substitutes every atom of a prefix guard with its region. A bare atom
// becomes the conjunction of its inequalities, "(! a)" the disjunction of
// their negations. '&' and '|' become "and" and "or". An empty prefix yields
// TrueText.
func Expand(prefix string, lookup Lookup) (string, error) {
	toks := splitPrefix(prefix)
	if len(toks) == 0 {
		return TrueText, nil
	}

	// 1. Mark: replace atoms by indexes into marks, never touching text
	var (
		marks []mark
		out   []string
	)
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch {
		case t == "(" && i+3 < len(toks) && toks[i+1] == opNot && isAtom(toks[i+2]) && toks[i+3] == ")":
			out = append(out, markToken(len(marks)))
			marks = append(marks, mark{atom: toks[i+2], negated: true})
			i += 3
		case t == "(" || t == ")":
			out = append(out, t)
		case t == opAnd:
			out = append(out, "and")
		case t == opOr:
			out = append(out, "or")
		case t == opNot:
			out = append(out, "not")
		default:
			out = append(out, markToken(len(marks)))
			marks = append(marks, mark{atom: t})
		}
	}

	// 2. Substitute: render each mark exactly once
	rendered := make([]string, len(marks))
	for i, m := range marks {
		text, err := renderAtom(m, lookup)
		if err != nil {
			return "", err
		}
		rendered[i] = text
	}

	var b strings.Builder
	for i, t := range out {
		if idx, ok := markIndex(t); ok {
			t = rendered[idx]
		}
		if i > 0 && t != ")" && out[i-1] != "(" {
			b.WriteByte(' ')
		}
		b.WriteString(t)
	}

	return b.String(), nil
}

// Compile converts an infix guard straight to its expanded SMT-LIB form.
func Compile(infix string, lookup Lookup) (string, error) {
	prefix, err := InfixToPrefix(infix)
	if err != nil {
		return "", err
	}

	return Expand(prefix, lookup)
}

func renderAtom(m mark, lookup Lookup) (string, error) {
	switch m.atom {
	case "t":
		if m.negated {
			return FalseText, nil
		}
		return TrueText, nil
	case "f":
		if m.negated {
			return TrueText, nil
		}
		return FalseText, nil
	}
	ineqs, ok := lookup[m.atom]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAtom, m.atom)
	}
	if len(ineqs) == 0 {
		// an unconstrained region
		if m.negated {
			return FalseText, nil
		}
		return TrueText, nil
	}

	parts := make([]string, len(ineqs))
	for i, q := range ineqs {
		if m.negated {
			q = q.Negate()
		}
		parts[i] = q.Prefix()
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	op := "and"
	if m.negated {
		op = "or"
	}

	return "(" + op + " " + strings.Join(parts, " ") + ")", nil
}

// Mark tokens start with a byte that can never appear in a tokenized guard.
const markPrefix = "\x00"

func markToken(i int) string { return markPrefix + strconv.Itoa(i) }

func markIndex(t string) (int, bool) {
	if !strings.HasPrefix(t, markPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(t[len(markPrefix):])

	return n, err == nil
}
