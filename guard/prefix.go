package guard

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Sentinel errors for guard normalization.
var (
	// ErrMalformedGuard indicates a syntactically invalid guard.
	ErrMalformedGuard = errors.New("guard: malformed guard")

	// ErrUnknownAtom indicates an atom missing from the lookup table.
	ErrUnknownAtom = errors.New("guard: unknown atom")
)

// TrueText is the serialized always-true predicate.
const TrueText = "(> 1 0)"

// FalseText is the serialized always-false predicate.
const FalseText = "(> 0 1)"

const (
	opNot = "!"
	opAnd = "&"
	opOr  = "|"
)

var precedence = map[string]int{opNot: 3, opAnd: 2, opOr: 1}

// tokenize splits a guard into atoms, operators and parentheses.
// "&&" and "||" are accepted as "&" and "|".
func tokenize(expr string) ([]string, error) {
	var toks []string
	rs := []rune(expr)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '&' || r == '|':
			toks = append(toks, string(r))
			i++
			if i < len(rs) && rs[i] == r {
				i++
			}
		case r == '!' || r == '(' || r == ')':
			toks = append(toks, string(r))
			i++
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			j := i
			for j < len(rs) && (unicode.IsLetter(rs[j]) || unicode.IsDigit(rs[j]) || rs[j] == '_') {
				j++
			}
			toks = append(toks, string(rs[i:j]))
			i = j
		default:
			return nil, fmt.Errorf("%w: unexpected %q in %q", ErrMalformedGuard, r, expr)
		}
	}

	return toks, nil
}

func isOperator(t string) bool { _, ok := precedence[t]; return ok }

func isAtom(t string) bool { return t != "(" && t != ")" && !isOperator(t) }

// validate checks operand/operator alternation and parenthesis balance.
func validate(toks []string, expr string) error {
	depth := 0
	expectOperand := true
	for _, t := range toks {
		switch {
		case t == "(":
			if !expectOperand {
				return fmt.Errorf("%w: '(' after operand in %q", ErrMalformedGuard, expr)
			}
			depth++
		case t == ")":
			if expectOperand || depth == 0 {
				return fmt.Errorf("%w: unexpected ')' in %q", ErrMalformedGuard, expr)
			}
			depth--
		case t == opNot:
			if !expectOperand {
				return fmt.Errorf("%w: '!' after operand in %q", ErrMalformedGuard, expr)
			}
		case t == opAnd || t == opOr:
			if expectOperand {
				return fmt.Errorf("%w: missing operand before %q in %q", ErrMalformedGuard, t, expr)
			}
			expectOperand = true
		default:
			if !expectOperand {
				return fmt.Errorf("%w: missing operator before %q in %q", ErrMalformedGuard, t, expr)
			}
			expectOperand = false
		}
	}
	if expectOperand || depth != 0 {
		return fmt.Errorf("%w: incomplete guard %q", ErrMalformedGuard, expr)
	}

	return nil
}

// InfixToPrefix converts an infix guard to fully parenthesized prefix form.
//
//	"a&b|!c"  →  "(| (& a b) (! c))"
//
// The empty guard converts to the empty string.
func InfixToPrefix(expr string) (string, error) {
	toks, err := tokenize(expr)
	if err != nil {
		return "", err
	}
	if len(toks) == 0 {
		return "", nil
	}
	if err = validate(toks, expr); err != nil {
		return "", err
	}

	// 1. Reverse and swap parentheses
	rev := make([]string, len(toks))
	for i, t := range toks {
		switch t {
		case "(":
			t = ")"
		case ")":
			t = "("
		}
		rev[len(toks)-1-i] = t
	}

	// 2. Shunting-yard on the reversed stream
	postfix := shuntingYard(rev)

	// 3. Fold postfix into prefix; operands come out swapped because of step 1
	return fold(postfix, expr)
}

// shuntingYard produces postfix for a reversed infix stream. Reversal mirrors
// associativity, so left-associative operators pop only strictly higher
// precedence and the right-associative '!' pops nothing of equal precedence.
func shuntingYard(toks []string) []string {
	var (
		out   []string
		stack []string
	)
	for _, t := range toks {
		switch {
		case t == "(":
			stack = append(stack, t)
		case t == ")":
			for len(stack) > 0 && stack[len(stack)-1] != "(" {
				out = append(out, stack[len(stack)-1])
				stack = stack[:len(stack)-1]
			}
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case isOperator(t):
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if top == "(" || precedence[top] <= precedence[t] {
					break
				}
				out = append(out, top)
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, t)
		default:
			out = append(out, t)
		}
	}
	for len(stack) > 0 {
		out = append(out, stack[len(stack)-1])
		stack = stack[:len(stack)-1]
	}

	return out
}

func fold(postfix []string, expr string) (string, error) {
	var st []string
	pop := func() (string, error) {
		if len(st) == 0 {
			return "", fmt.Errorf("%w: missing operand in %q", ErrMalformedGuard, expr)
		}
		x := st[len(st)-1]
		st = st[:len(st)-1]

		return x, nil
	}
	for _, t := range postfix {
		switch {
		case t == opNot:
			x, err := pop()
			if err != nil {
				return "", err
			}
			st = append(st, "(! "+x+")")
		case isOperator(t):
			right, err := pop() // pushed last, but it was the left operand before reversal
			if err != nil {
				return "", err
			}
			left, err := pop()
			if err != nil {
				return "", err
			}
			st = append(st, "("+t+" "+right+" "+left+")")
		default:
			st = append(st, t)
		}
	}
	if len(st) != 1 {
		return "", fmt.Errorf("%w: dangling operands in %q", ErrMalformedGuard, expr)
	}

	return st[0], nil
}

// Atoms returns the distinct atoms of an infix guard in first-seen order.
func Atoms(expr string) ([]string, error) {
	toks, err := tokenize(expr)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	var out []string
	for _, t := range toks {
		if !isAtom(t) {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	return out, nil
}

// splitPrefix tokenizes the output of InfixToPrefix.
func splitPrefix(prefix string) []string {
	r := strings.NewReplacer("(", " ( ", ")", " ) ")

	return strings.Fields(r.Replace(prefix))
}
