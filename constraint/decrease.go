package constraint

import (
	"context"
	"fmt"

	"github.com/katalvlaran/ltlcert/automaton"
	"github.com/katalvlaran/ltlcert/polynomial"
	"github.com/katalvlaran/ltlcert/system"
	"github.com/katalvlaran/ltlcert/template"
)

// decreaseSpec parameterizes the expected-decrease traversal.
type decreaseSpec struct {
	kind Kind
	name string
	// role selects the automaton states the obligation applies to.
	role func(automaton.State) bool
	// policy picks the control policy that produces the successor state.
	policy system.Selector
	// strict subtracts Epsilon from the decrease of target.
	strict bool
	target *template.Template
	// companion, when set, must decrease non-strictly on the same transition.
	companion *template.Template
}

// decrease emits, per dynamics piece and per state q satisfying the role,
//
//	live(q) ⇒ ∨_{q -g-> q'} [g] V(s,q) - E[V(s',q')] (- ε) ≥ 0
//
// with s' given by the piece's update under the selected policy.
func (c *Compiler) decrease(ctx context.Context, spec decreaseSpec) ([]Implication, error) {
	actions, err := c.p.Policy.Actions(spec.policy)
	if err != nil {
		return nil, err
	}

	var out []Implication
	for pi, piece := range c.p.Dynamics.Pieces {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		succ := piece.Successor(actions)
		for _, q := range c.states {
			if !spec.role(q) {
				continue
			}
			lhs, err := c.liveLHS(piece, q.ID)
			if err != nil {
				return nil, err
			}
			rhs := make(Or, 0, len(q.Transitions))
			for _, t := range q.Transitions {
				body, err := c.decreaseBody(spec.target, q.ID, t.Destination, succ, spec.strict)
				if err != nil {
					return nil, err
				}
				if spec.companion != nil {
					reach, err := c.decreaseBody(spec.companion, q.ID, t.Destination, succ, false)
					if err != nil {
						return nil, err
					}
					body = And{body, reach}
				}
				g, err := c.guarded(t, body)
				if err != nil {
					return nil, err
				}
				rhs = append(rhs, g)
			}
			out = append(out, Implication{
				Name: fmt.Sprintf("%s_p%d_q%d", spec.name, pi, q.ID),
				Kind: spec.kind,
				Vars: c.stateVars(),
				LHS:  lhs,
				RHS:  rhs,
			})
		}
	}

	return out, nil
}

// decreaseBody is V(s,q) - E[V(s',dest)] (- ε) ≥ 0 for template tm.
func (c *Compiler) decreaseBody(tm *template.Template, q, dest int, succ map[string]polynomial.Equation, strict bool) (Node, error) {
	cur, err := tm.Of(q)
	if err != nil {
		return nil, err
	}
	next, err := tm.Apply(dest, succ)
	if err != nil {
		return nil, err
	}
	expected, err := system.Expect(c.p.Disturbance, next)
	if err != nil {
		return nil, fmt.Errorf("E[%s(s', q%d)]: %w", tm.Prefix(), dest, err)
	}
	diff := cur.Sub(expected)
	if strict {
		diff = diff.Sub(polynomial.Const(polynomial.Known(c.p.Epsilon)))
	}

	return Leaf{polynomial.AtLeastZero(diff)}, nil
}

// liveLHS is space ∧ condition ∧ 1/(1-p) - V_reach(s,q) ≥ 0 (∧ Inv(s,q) ≥ 0).
func (c *Compiler) liveLHS(piece system.Piece, q int) (And, error) {
	lhs := append(c.spaceLeaves(), Leaves(piece.Condition.Inequalities...)...)
	reach, err := c.p.Templates.Reach.Of(q)
	if err != nil {
		return nil, err
	}
	bound := polynomial.Const(polynomial.Known(c.live)).Sub(reach)
	lhs = append(lhs, Leaf{polynomial.AtLeastZero(bound)})
	if c.opts.Invariant {
		inv, err := c.invariantAt(q)
		if err != nil {
			return nil, err
		}
		lhs = append(lhs, inv)
	}

	return lhs, nil
}

// strictReach: q not accepting, acceptance policy, strict reach decrease.
func (c *Compiler) strictReach(ctx context.Context) ([]Implication, error) {
	return c.decrease(ctx, decreaseSpec{
		kind: StrictReachDecrease,
		name: StrictReachDecrease.String(),
		role: func(s automaton.State) bool {
			if s.Status == automaton.Accepting {
				return false
			}

			return c.opts.IncludeRejecting || s.Status != automaton.Rejecting
		},
		policy: system.AcceptancePolicy,
		strict: true,
		target: c.p.Templates.Reach,
	})
}

// nonStrictReach: q accepting, acceptance policy, non-strict reach decrease.
func (c *Compiler) nonStrictReach(ctx context.Context) ([]Implication, error) {
	return c.decrease(ctx, decreaseSpec{
		kind:   NonStrictReachDecrease,
		name:   NonStrictReachDecrease.String(),
		role:   func(s automaton.State) bool { return s.Status == automaton.Accepting },
		policy: system.AcceptancePolicy,
		target: c.p.Templates.Reach,
	})
}

// buchi: for the i-th required acceptance set F, q accepting but not in F,
// Büchi-i policy, strict Büchi-i decrease together with non-strict reach
// decrease.
func (c *Compiler) buchi(ctx context.Context) ([]Implication, error) {
	var out []Implication
	for i, set := range c.p.Automaton.Required() {
		imps, err := c.decrease(ctx, decreaseSpec{
			kind: BuchiDecrease,
			name: fmt.Sprintf("%s%d", BuchiDecrease, i),
			role: func(s automaton.State) bool {
				return s.Status == automaton.Accepting && !s.InSignature(set)
			},
			policy:    system.BuchiPolicy(i),
			strict:    true,
			target:    c.p.Templates.Buchi[i],
			companion: c.p.Templates.Reach,
		})
		if err != nil {
			return nil, err
		}
		out = append(out, imps...)
	}

	return out, nil
}
