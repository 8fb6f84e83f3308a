package system

import (
	"math/big"
	"strings"

	"github.com/katalvlaran/ltlcert/polynomial"
)

// Space is a named conjunction of inequalities, each normalized to e >= 0.
// The zero Space is the whole space.
type Space struct {
	Name         string
	Inequalities []polynomial.Inequality
	// Relaxed reports whether a strict comparison was relaxed while parsing.
	Relaxed bool
}

// NewSpace wraps already built inequalities.
func NewSpace(name string, ineqs ...polynomial.Inequality) Space {
	return Space{Name: name, Inequalities: append([]polynomial.Inequality(nil), ineqs...)}
}

// ParseSpace parses ';' ',' or newline separated, possibly chained
// comparisons. Strict comparisons follow mode.
func ParseSpace(name, text string, mode polynomial.StrictMode) (Space, error) {
	if strings.TrimSpace(text) == "" {
		return Space{Name: name}, nil
	}
	ineqs, relaxed, err := polynomial.ParseRelations(text, mode)
	if err != nil {
		return Space{}, err
	}

	return Space{Name: name, Inequalities: ineqs, Relaxed: relaxed}, nil
}

// Len returns the number of inequalities.
func (s Space) Len() int { return len(s.Inequalities) }

// Conditions returns a copy of the inequalities.
func (s Space) Conditions() []polynomial.Inequality {
	return append([]polynomial.Inequality(nil), s.Inequalities...)
}

// Variables returns the generators mentioned by s.
func (s Space) Variables() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, q := range s.Inequalities {
		for _, v := range q.Variables() {
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				out = append(out, v)
			}
		}
	}

	return out
}

// Contains reports whether the point env satisfies every inequality.
func (s Space) Contains(env map[string]*big.Rat) (bool, error) {
	for _, q := range s.Inequalities {
		v, err := q.Expr().Evaluate(env)
		if err != nil {
			return false, err
		}
		if v.Sign() < 0 {
			return false, nil
		}
	}

	return true, nil
}

// String renders the inequalities joined by " & ".
func (s Space) String() string {
	if len(s.Inequalities) == 0 {
		return "true"
	}
	parts := make([]string, len(s.Inequalities))
	for i, q := range s.Inequalities {
		parts[i] = q.String()
	}

	return strings.Join(parts, " & ")
}
