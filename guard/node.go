package guard

import "fmt"

// Node is a parsed guard formula.
type Node interface {
	// Prefix renders the node in the form produced by InfixToPrefix.
	Prefix() string
	// Eval evaluates the node under a truth assignment of atoms.
	// Atoms absent from the assignment are false.
	Eval(truth map[string]bool) bool
	isNode()
}

// Atom is an atomic proposition.
type Atom struct{ Name string }

// Not negates its operand.
type Not struct{ X Node }

// And is a binary conjunction.
type And struct{ L, R Node }

// Or is a binary disjunction.
type Or struct{ L, R Node }

// True is the constant true guard (the empty label or "t").
type True struct{}

func (Atom) isNode() {}
func (Not) isNode()  {}
func (And) isNode()  {}
func (Or) isNode()   {}
func (True) isNode() {}

func (a Atom) Prefix() string { return a.Name }
func (n Not) Prefix() string  { return "(! " + n.X.Prefix() + ")" }
func (a And) Prefix() string  { return "(& " + a.L.Prefix() + " " + a.R.Prefix() + ")" }
func (o Or) Prefix() string   { return "(| " + o.L.Prefix() + " " + o.R.Prefix() + ")" }
func (True) Prefix() string   { return "t" }

func (a Atom) Eval(truth map[string]bool) bool { return truth[a.Name] }
func (n Not) Eval(truth map[string]bool) bool  { return !n.X.Eval(truth) }
func (a And) Eval(truth map[string]bool) bool  { return a.L.Eval(truth) && a.R.Eval(truth) }
func (o Or) Eval(truth map[string]bool) bool   { return o.L.Eval(truth) || o.R.Eval(truth) }
func (True) Eval(map[string]bool) bool         { return true }

// Parse converts an infix guard into a Node tree. The empty guard and "t"
// parse to True; "f" parses to Not{True}.
func Parse(expr string) (Node, error) {
	prefix, err := InfixToPrefix(expr)
	if err != nil {
		return nil, err
	}
	if prefix == "" {
		return True{}, nil
	}
	toks := splitPrefix(prefix)
	n, rest, err := parsePrefix(toks)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("%w: trailing tokens in %q", ErrMalformedGuard, expr)
	}

	return n, nil
}

// parsePrefix reads one node from the token stream of a prefix guard.
func parsePrefix(toks []string) (Node, []string, error) {
	if len(toks) == 0 {
		return nil, nil, fmt.Errorf("%w: unexpected end of guard", ErrMalformedGuard)
	}
	head := toks[0]
	if head != "(" {
		switch head {
		case "t":
			return True{}, toks[1:], nil
		case "f":
			return Not{X: True{}}, toks[1:], nil
		}
		return Atom{Name: head}, toks[1:], nil
	}
	if len(toks) < 3 {
		return nil, nil, fmt.Errorf("%w: truncated group", ErrMalformedGuard)
	}
	op := toks[1]
	x, rest, err := parsePrefix(toks[2:])
	if err != nil {
		return nil, nil, err
	}
	var n Node
	switch op {
	case opNot:
		n = Not{X: x}
	case opAnd, opOr:
		var y Node
		if y, rest, err = parsePrefix(rest); err != nil {
			return nil, nil, err
		}
		if op == opAnd {
			n = And{L: x, R: y}
		} else {
			n = Or{L: x, R: y}
		}
	default:
		return nil, nil, fmt.Errorf("%w: unknown operator %q", ErrMalformedGuard, op)
	}
	if len(rest) == 0 || rest[0] != ")" {
		return nil, nil, fmt.Errorf("%w: missing ')'", ErrMalformedGuard)
	}

	return n, rest[1:], nil
}
