package constraint

import (
	"context"
	"fmt"

	"github.com/katalvlaran/ltlcert/automaton"
	"github.com/katalvlaran/ltlcert/guard"
	"github.com/katalvlaran/ltlcert/polynomial"
	"github.com/katalvlaran/ltlcert/system"
)

func (c *Compiler) stateVars() []string { return append([]string(nil), c.svars...) }

func (c *Compiler) allVars() []string {
	return append(c.stateVars(), c.dvars...)
}

func (c *Compiler) spaceLeaves() And { return Leaves(c.p.Space.Inequalities...) }

func (c *Compiler) boundLeaves() And { return Leaves(c.bounds...) }

// guarded wraps body in the expanded guard of t. Expansions are cached per label.
func (c *Compiler) guarded(t automaton.Transition, body Node) (Guarded, error) {
	prefix, ok := c.guards[t.Guard]
	if !ok {
		var err error
		if prefix, err = guard.Compile(t.Guard, c.p.Lookup); err != nil {
			return Guarded{}, fmt.Errorf("guard %q: %w", t.Guard, err)
		}
		c.guards[t.Guard] = prefix
	}

	return Guarded{Label: t.Guard, Guard: prefix, Body: body}, nil
}

func (c *Compiler) invariantAt(q int) (Leaf, error) {
	inv, err := c.p.Templates.Invariant.Of(q)
	if err != nil {
		return Leaf{}, err
	}

	return Leaf{polynomial.AtLeastZero(inv)}, nil
}

// nonNegativity: [space] ⇒ V(s,q) ≥ 0 for every certificate and state.
func (c *Compiler) nonNegativity(context.Context) ([]Implication, error) {
	var out []Implication
	for _, tm := range c.p.Templates.Certificates() {
		for _, q := range c.states {
			v, err := tm.Of(q.ID)
			if err != nil {
				return nil, err
			}
			imp := Implication{
				Name: fmt.Sprintf("%s_%s_q%d", NonNegativity, tm.Prefix(), q.ID),
				Kind: NonNegativity,
				Vars: c.stateVars(),
				RHS:  Leaf{polynomial.AtLeastZero(v)},
			}
			if c.opts.NonNegMode == NonNegOverSpace {
				imp.LHS = c.spaceLeaves()
			}
			out = append(out, imp)
		}
	}

	return out, nil
}

// initialBound: space ∧ init ⇒ 1 - V_reach(s,q0) ≥ 0.
func (c *Compiler) initialBound(context.Context) ([]Implication, error) {
	q0 := c.p.Automaton.Start()
	v, err := c.p.Templates.Reach.Of(q0)
	if err != nil {
		return nil, err
	}
	lhs := append(c.spaceLeaves(), Leaves(c.p.Initial.Inequalities...)...)

	return []Implication{{
		Name: fmt.Sprintf("%s_q%d", InitialBound, q0),
		Kind: InitialBound,
		Vars: c.stateVars(),
		LHS:  lhs,
		RHS:  Leaf{polynomial.AtMost(v, polynomial.ConstInt(1))},
	}}, nil
}

// safety: space ⇒ V_safe(s,q) ≥ 0 for every rejecting state.
func (c *Compiler) safety(context.Context) ([]Implication, error) {
	var out []Implication
	for _, q := range c.states {
		if q.Status != automaton.Rejecting {
			continue
		}
		v, err := c.p.Templates.Safe.Of(q.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, Implication{
			Name: fmt.Sprintf("%s_q%d", Safety, q.ID),
			Kind: Safety,
			Vars: c.stateVars(),
			LHS:  c.spaceLeaves(),
			RHS:  Leaf{polynomial.AtLeastZero(v)},
		})
	}

	return out, nil
}

// invariantInitial: space ∧ init ⇒ Inv(s,q0) ≥ 0.
func (c *Compiler) invariantInitial(context.Context) ([]Implication, error) {
	q0 := c.p.Automaton.Start()
	inv, err := c.invariantAt(q0)
	if err != nil {
		return nil, err
	}
	lhs := append(c.spaceLeaves(), Leaves(c.p.Initial.Inequalities...)...)

	return []Implication{{
		Name: fmt.Sprintf("%s_q%d", InvariantInitial, q0),
		Kind: InvariantInitial,
		Vars: c.stateVars(),
		LHS:  lhs,
		RHS:  inv,
	}}, nil
}

// invariantInductive, per piece, state and transition q -g-> q':
//
//	space ∧ cond ∧ D-bounds ∧ [g] Inv(s,q) ≥ 0 ⇒ Inv(s',q') ≥ 0
//
// under the acceptance policy, quantified over state and disturbance.
func (c *Compiler) invariantInductive(ctx context.Context) ([]Implication, error) {
	actions, err := c.p.Policy.Actions(system.AcceptancePolicy)
	if err != nil {
		return nil, err
	}
	inv := c.p.Templates.Invariant

	var out []Implication
	for pi, piece := range c.p.Dynamics.Pieces {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		succ := piece.Successor(actions)
		for _, q := range c.states {
			cur, err := c.invariantAt(q.ID)
			if err != nil {
				return nil, err
			}
			for ti, t := range q.Transitions {
				next, err := inv.Apply(t.Destination, succ)
				if err != nil {
					return nil, err
				}
				g, err := c.guarded(t, cur)
				if err != nil {
					return nil, err
				}
				lhs := append(c.spaceLeaves(), Leaves(piece.Condition.Inequalities...)...)
				lhs = append(lhs, c.boundLeaves()...)
				lhs = append(lhs, g)
				out = append(out, Implication{
					Name: fmt.Sprintf("%s_p%d_q%d_t%d", InvariantInductive, pi, q.ID, ti),
					Kind: InvariantInductive,
					Vars: c.allVars(),
					LHS:  lhs,
					RHS:  Leaf{polynomial.AtLeastZero(next)},
				})
			}
		}
	}

	return out, nil
}

// boundedDifference, per piece, state and transition q -g-> q':
//
//	space ∧ D-bounds ∧ cond ∧ [g] (Inv ≥ 0 ∧ V_safe(s,q) ≤ 0)
//	  ⇒ -Delta ≤ V_b0(s,q) - V_b0(s',q') ≤ Delta
//
// Accepting states use the first Büchi policy, all others the acceptance policy.
func (c *Compiler) boundedDifference(ctx context.Context) ([]Implication, error) {
	if len(c.p.Templates.Buchi) == 0 {
		c.log.Warn("bounded difference skipped: no buchi template")
		return nil, nil
	}
	b0 := c.p.Templates.Buchi[0]
	delta := polynomial.Const(polynomial.Unknown(DeltaName))

	accActions, err := c.p.Policy.Actions(system.AcceptancePolicy)
	if err != nil {
		return nil, err
	}
	bActions := accActions
	if c.p.Policy.BuchiCount() > 0 {
		if bActions, err = c.p.Policy.Actions(system.BuchiPolicy(0)); err != nil {
			return nil, err
		}
	}

	var out []Implication
	for pi, piece := range c.p.Dynamics.Pieces {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		accSucc, bSucc := piece.Successor(accActions), piece.Successor(bActions)
		for _, q := range c.states {
			succ := accSucc
			if q.Status == automaton.Accepting {
				succ = bSucc
			}
			cur, err := b0.Of(q.ID)
			if err != nil {
				return nil, err
			}
			vsafe, err := c.p.Templates.Safe.Of(q.ID)
			if err != nil {
				return nil, err
			}
			premise := And{Leaf{polynomial.AtMost(vsafe, polynomial.Zero())}}
			if c.opts.Invariant {
				inv, err := c.invariantAt(q.ID)
				if err != nil {
					return nil, err
				}
				premise = And{inv, premise[0]}
			}
			for ti, t := range q.Transitions {
				next, err := b0.Apply(t.Destination, succ)
				if err != nil {
					return nil, err
				}
				diff := cur.Sub(next)
				g, err := c.guarded(t, premise)
				if err != nil {
					return nil, err
				}
				lhs := append(c.spaceLeaves(), c.boundLeaves()...)
				lhs = append(lhs, Leaves(piece.Condition.Inequalities...)...)
				lhs = append(lhs, g)
				out = append(out, Implication{
					Name: fmt.Sprintf("%s_p%d_q%d_t%d", BoundedDifference, pi, q.ID, ti),
					Kind: BoundedDifference,
					Vars: c.allVars(),
					LHS:  lhs,
					RHS: And{
						Leaf{polynomial.AtLeastZero(diff.Add(delta))},
						Leaf{polynomial.AtLeastZero(delta.Sub(diff))},
					},
				})
			}
		}
	}
	return out, nil
}
