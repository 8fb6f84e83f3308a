package constraint

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sort"

	"github.com/katalvlaran/ltlcert/automaton"
	"github.com/katalvlaran/ltlcert/guard"
	"github.com/katalvlaran/ltlcert/logging"
	"github.com/katalvlaran/ltlcert/polynomial"
	"github.com/katalvlaran/ltlcert/system"
	"github.com/katalvlaran/ltlcert/template"
)

// Problem is everything a compilation consumes.
type Problem struct {
	Automaton   *automaton.Automaton
	Templates   *template.Set
	Space       system.Space
	Initial     system.Space
	Dynamics    *system.Dynamics
	Disturbance system.Disturbance // nil without noise
	Policy      *system.Policy

	// Lookup maps guard atoms to regions. When nil it is built from Regions,
	// one relation text per proposition name, parsed with the compiler's
	// strict mode.
	Lookup  guard.Lookup
	Regions map[string]string

	// Epsilon is the strict decrease margin (> 0).
	Epsilon *big.Rat
	// Probability is the threshold p in [0, 1); decrease obligations apply
	// where V_reach <= 1/(1-p).
	Probability *big.Rat
}

// NonNegMode picks the premise of non-negativity obligations.
type NonNegMode int

const (
	// NonNegOverSpace requires V >= 0 on the system space.
	NonNegOverSpace NonNegMode = iota
	// NonNegUnrestricted requires V >= 0 everywhere; the premise is absent.
	NonNegUnrestricted
)

// String returns "over_space" or "unrestricted".
func (m NonNegMode) String() string {
	if m == NonNegUnrestricted {
		return "unrestricted"
	}

	return "over_space"
}

// Option configures a Compiler.
type Option func(*Options)

// Options holds compiler settings.
type Options struct {
	Logger            *slog.Logger
	StrictMode        polynomial.StrictMode
	NonNegMode        NonNegMode
	Invariant         bool
	BoundedDifference bool
	IncludeRejecting  bool
}

// DefaultOptions returns NonNegOverSpace, StrictRejected, rejecting states
// included in the strict reach decrease, and no optional obligations.
func DefaultOptions() Options {
	return Options{
		Logger:           logging.Nop(),
		StrictMode:       polynomial.StrictRejected,
		NonNegMode:       NonNegOverSpace,
		IncludeRejecting: true,
	}
}

// WithLogger injects the compilation logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = logging.OrNop(l) }
}

// WithStrictMode sets how strict comparisons in Problem.Regions are handled.
func WithStrictMode(m polynomial.StrictMode) Option {
	return func(o *Options) { o.StrictMode = m }
}

// WithNonNegMode sets the non-negativity premise.
func WithNonNegMode(m NonNegMode) Option {
	return func(o *Options) { o.NonNegMode = m }
}

// WithInvariant enables the invariant obligations and the invariant premise
// of the decrease obligations. The template set must carry an invariant.
func WithInvariant(on bool) Option {
	return func(o *Options) { o.Invariant = on }
}

// WithBoundedDifference enables the Büchi bounded-difference obligation.
func WithBoundedDifference(on bool) Option {
	return func(o *Options) { o.BoundedDifference = on }
}

// WithIncludeRejecting controls whether rejecting states take part in the
// strict reach decrease.
func WithIncludeRejecting(on bool) Option {
	return func(o *Options) { o.IncludeRejecting = on }
}

// DeltaName is the unknown bounding the Büchi certificate difference.
const DeltaName = "Delta_buchi"

// Result is the output of Compile.
type Result struct {
	Implications []Implication
	// Constants are every unknown to declare: template constants, policy
	// constants, then any other name met in an implication, each once.
	Constants []string
	Counts    map[Kind]int
}

// Compiler turns a Problem into implications.
type Compiler struct {
	p      Problem
	opts   Options
	log    *slog.Logger
	states []automaton.State
	svars  []string
	dvars  []string
	bounds []polynomial.Inequality
	live   *big.Rat
	guards map[string]string
}

// NewCompiler validates p and prepares the guard lookup.
func NewCompiler(p Problem, opts ...Option) (*Compiler, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	c := &Compiler{p: p, opts: o, log: o.Logger, guards: make(map[string]string)}

	// 1. Presence
	switch {
	case p.Automaton == nil:
		return nil, fmt.Errorf("%w: no automaton", ErrInvalidProblem)
	case p.Templates == nil || p.Templates.Reach == nil || p.Templates.Safe == nil:
		return nil, fmt.Errorf("%w: no templates", ErrInvalidProblem)
	case p.Dynamics == nil:
		return nil, fmt.Errorf("%w: no dynamics", ErrInvalidProblem)
	case p.Policy == nil:
		return nil, fmt.Errorf("%w: no policy", ErrInvalidProblem)
	case o.Invariant && p.Templates.Invariant == nil:
		return nil, fmt.Errorf("%w: invariant requested without invariant template", ErrInvalidProblem)
	}

	// 2. Parameters
	if p.Epsilon == nil || p.Epsilon.Sign() <= 0 {
		return nil, fmt.Errorf("%w: epsilon must be positive", ErrInvalidProblem)
	}
	one := big.NewRat(1, 1)
	if p.Probability == nil || p.Probability.Sign() < 0 || p.Probability.Cmp(one) >= 0 {
		return nil, fmt.Errorf("%w: probability must lie in [0, 1)", ErrInvalidProblem)
	}
	c.live = new(big.Rat).Quo(one, new(big.Rat).Sub(one, p.Probability))

	// 3. Shapes
	sets := p.Automaton.BuchiSets()
	if len(p.Templates.Buchi) < sets {
		return nil, fmt.Errorf("%w: %d buchi templates for %d acceptance sets",
			ErrInvalidProblem, len(p.Templates.Buchi), sets)
	}
	if p.Policy.BuchiCount() < sets {
		return nil, fmt.Errorf("%w: %d buchi policies for %d acceptance sets",
			ErrInvalidProblem, p.Policy.BuchiCount(), sets)
	}
	noise := 0
	if p.Disturbance != nil {
		noise = p.Disturbance.Dimension()
	}
	if noise != p.Dynamics.DisturbanceDim {
		return nil, fmt.Errorf("%w: disturbance dimension %d, dynamics expects %d",
			ErrInvalidProblem, noise, p.Dynamics.DisturbanceDim)
	}
	for _, q := range p.Automaton.IDs() {
		if _, err := p.Templates.Reach.Of(q); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidProblem, err)
		}
	}

	// 4. Guard lookup
	if c.p.Lookup == nil {
		lk, err := c.buildLookup()
		if err != nil {
			return nil, err
		}
		c.p.Lookup = lk
	}

	c.states = p.Automaton.States()
	c.svars = p.Templates.Reach.Vars()
	c.dvars = system.DisturbanceVars(p.Dynamics.DisturbanceDim)
	c.bounds = system.BoundInequalities(p.Disturbance)

	return c, nil
}

func (c *Compiler) buildLookup() (guard.Lookup, error) {
	props := c.p.Automaton.Propositions()
	regions := make(map[string][]polynomial.Inequality, len(props))
	names := make([]string, 0, len(c.p.Regions))
	for name := range c.p.Regions {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ineqs, relaxed, err := polynomial.ParseRelations(c.p.Regions[name], c.opts.StrictMode)
		if err != nil {
			return nil, fmt.Errorf("region %q: %w", name, err)
		}
		if relaxed {
			c.log.Warn("strict comparison relaxed", slog.String("region", name))
		}
		regions[name] = ineqs
	}
	if len(props) == 0 {
		return guard.Lookup{}, nil
	}

	return guard.NewLookup(props, regions)
}

// Options returns the effective settings.
func (c *Compiler) Options() Options { return c.opts }

type step struct {
	kind Kind
	run  func(context.Context) ([]Implication, error)
}

// Compile emits every enabled obligation in order. ctx is checked between
// obligations and dynamics pieces.
func (c *Compiler) Compile(ctx context.Context) (*Result, error) {
	res := &Result{Counts: make(map[Kind]int)}
	steps := []step{
		{NonNegativity, c.nonNegativity},
		{InitialBound, c.initialBound},
		{Safety, c.safety},
		{StrictReachDecrease, c.strictReach},
		{NonStrictReachDecrease, c.nonStrictReach},
		{BuchiDecrease, c.buchi},
	}
	if c.opts.Invariant {
		steps = append(steps, step{InvariantInitial, c.invariantInitial}, step{InvariantInductive, c.invariantInductive})
	}
	if c.opts.BoundedDifference {
		steps = append(steps, step{BoundedDifference, c.boundedDifference})
	}

	for _, st := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := st.run(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", st.kind, err)
		}
		res.Implications = append(res.Implications, out...)
		res.Counts[st.kind] += len(out)
		c.log.Debug("obligation compiled", slog.String("kind", st.kind.String()), slog.Int("count", len(out)))
	}
	res.Constants = c.constants(res.Implications)
	c.log.Info("constraints compiled",
		slog.Int("implications", len(res.Implications)),
		slog.Int("constants", len(res.Constants)))

	return res, nil
}

func (c *Compiler) constants(imps []Implication) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(names []string) {
		for _, n := range names {
			if _, ok := seen[n]; !ok {
				seen[n] = struct{}{}
				out = append(out, n)
			}
		}
	}
	add(c.p.Templates.Constants())
	add(c.p.Policy.Constants())
	for _, imp := range imps {
		add(imp.Constants())
	}

	return out
}
