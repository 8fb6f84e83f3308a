package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/katalvlaran/ltlcert/automaton"
	"github.com/katalvlaran/ltlcert/bridge"
	"github.com/katalvlaran/ltlcert/config"
	"github.com/katalvlaran/ltlcert/constraint"
	"github.com/katalvlaran/ltlcert/polynomial"
	"github.com/katalvlaran/ltlcert/system"
	"github.com/katalvlaran/ltlcert/template"
)

// run is the state carried from stage to stage.
type run struct {
	runner  *Runner
	log     *slog.Logger
	input   string
	problem config.Problem
	report  *Report

	mode        polynomial.StrictMode
	nonNeg      constraint.NonNegMode
	space       system.Space
	initial     system.Space
	disturbance system.Disturbance
	epsilon     *big.Rat
	probability *big.Rat
	dynamics    *system.Dynamics
}

func (st *run) handlers() map[Stage]func(context.Context) error {
	return map[Stage]func(context.Context) error{
		ParseInput:          st.parseInput,
		PrepareRequirements: st.prepareRequirements,
		ConstructAutomaton:  st.constructAutomaton,
		PreparePolicy:       st.preparePolicy,
		SynthesizeTemplates: st.synthesizeTemplates,
		GenerateConstraints: st.generateConstraints,
		Serialize:           st.serialize,
		Solve:               st.solve,
	}
}

func (st *run) parseInput(_ context.Context) error {
	p, err := config.Load(st.input)
	if err != nil {
		return err
	}
	st.problem = p
	st.log.Info("problem loaded", slog.String("input", st.input))

	return nil
}

func (st *run) prepareRequirements(_ context.Context) error {
	p := st.problem
	st.report.Problem = p
	var err error

	// 1. Normalization policy
	st.mode = st.runner.opts.StrictMode
	if st.mode == 0 {
		if st.mode, err = polynomial.ParseStrictMode(p.Constraints.StrictMode); err != nil {
			return err
		}
	}
	st.nonNeg = constraint.NonNegOverSpace
	if p.Constraints.NonNegativity == constraint.NonNegUnrestricted.String() {
		st.nonNeg = constraint.NonNegUnrestricted
	}

	// 2. Spaces
	if st.space, err = system.ParseSpace("system", p.System.SystemSpace, st.mode); err != nil {
		return err
	}
	if st.initial, err = system.ParseSpace("initial", p.System.InitialSpace, st.mode); err != nil {
		return err
	}

	// 3. Noise and parameters
	st.disturbance, err = system.NewDisturbance(p.Disturbance.Name, p.System.DisturbanceDim, p.Disturbance.Parameters)
	if err != nil {
		return err
	}
	st.epsilon = system.Rat(p.Synthesis.Epsilon)
	st.probability = system.Rat(p.Synthesis.Probability)

	// 4. Output directory
	dir := st.runner.opts.OutDir
	if dir == "" {
		base := p.Dir
		if base == "" {
			base = "."
		}
		dir = filepath.Join(base, "temp", st.report.RunID)
	}
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	st.report.OutDir = dir

	return nil
}

func (st *run) constructAutomaton(ctx context.Context) error {
	p := st.problem

	// 1. Dynamics
	pieces := make([]system.Piece, len(p.System.Dynamics))
	for i, pc := range p.System.Dynamics {
		piece, err := system.ParsePiece(pc.Condition, pc.Transforms, st.mode)
		if err != nil {
			return fmt.Errorf("dynamics piece %d: %w", i, err)
		}
		pieces[i] = piece
	}
	dyn, err := system.NewDynamics(p.System.StateDim, p.System.ActionDim, p.System.DisturbanceDim, pieces...)
	if err != nil {
		return err
	}
	st.dynamics = dyn

	// 2. HOA text
	hoa, err := st.hoaText(ctx)
	if err != nil {
		return err
	}
	if err = os.WriteFile(st.report.Path(HOAFile), []byte(hoa), 0o644); err != nil {
		return err
	}

	// 3. LDBA
	rec, err := automaton.ReadHOA(strings.NewReader(hoa))
	if err != nil {
		return err
	}
	aut, err := automaton.Build(rec, automaton.WithLogger(st.log), automaton.WithContext(ctx))
	if err != nil {
		return err
	}
	st.report.Automaton = aut
	st.log.Info("automaton constructed",
		slog.Int("states", aut.Len()),
		slog.Int("buchi_sets", aut.BuchiSets()),
		slog.Int("accepting", len(aut.AcceptingIDs())),
		slog.Int("rejecting", len(aut.RejectingIDs())))

	return nil
}

// hoaText prefers inline HOA, then a HOA file, then the translator.
func (st *run) hoaText(ctx context.Context) (string, error) {
	spec := st.problem.Specification
	switch {
	case strings.TrimSpace(spec.HOA) != "":
		return spec.HOA, nil
	case spec.HOAPath != "":
		raw, err := os.ReadFile(st.problem.Resolve(spec.HOAPath))
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	tr := st.runner.opts.Translator
	if tr == nil {
		tr = bridge.NewTranslator(st.problem.OwlPath(),
			bridge.WithTranslatorLogger(st.log),
			bridge.WithTranslatorTimeout(st.problem.Synthesis.Timeout))
	}

	return tr.Translate(ctx, spec.Formula)
}

func (st *run) preparePolicy(_ context.Context) error {
	p := st.problem
	spec := system.PolicySpec{Acceptance: p.Actions.ControlPolicy, Buchi: p.Actions.BuchiPolicies}
	dims := system.PolicyDims{
		State:     p.System.StateDim,
		Action:    p.System.ActionDim,
		BuchiSets: st.report.Automaton.BuchiSets(),
		Degree:    p.PolicyDegree(),
	}
	pol, err := system.NewPolicy(spec, dims, system.WithLogger(st.log))
	if err != nil {
		return err
	}
	st.report.Policy = pol
	st.log.Debug("policy prepared", slog.Bool("templated", pol.Templated()), slog.String("policy", pol.String()))

	return nil
}

func (st *run) synthesizeTemplates(_ context.Context) error {
	p := st.problem
	aut := st.report.Automaton
	var opts []template.SetOption
	if p.Constraints.Invariant {
		opts = append(opts, template.WithInvariant())
	}
	set, err := template.NewSet(aut.IDs(), system.StateVars(p.System.StateDim), p.Synthesis.Degree, aut.BuchiSets(), opts...)
	if err != nil {
		return err
	}
	st.report.Templates = set

	return nil
}

func (st *run) generateConstraints(ctx context.Context) error {
	p := st.problem
	c, err := constraint.NewCompiler(constraint.Problem{
		Automaton:   st.report.Automaton,
		Templates:   st.report.Templates,
		Space:       st.space,
		Initial:     st.initial,
		Dynamics:    st.dynamics,
		Disturbance: st.disturbance,
		Policy:      st.report.Policy,
		Regions:     p.Specification.Lookup,
		Epsilon:     st.epsilon,
		Probability: st.probability,
	},
		constraint.WithLogger(st.log),
		constraint.WithStrictMode(st.mode),
		constraint.WithNonNegMode(st.nonNeg),
		constraint.WithInvariant(p.Constraints.Invariant),
		constraint.WithBoundedDifference(p.Constraints.BoundedDifference),
		constraint.WithIncludeRejecting(p.Constraints.IncludeRejecting),
	)
	if err != nil {
		return err
	}
	res, err := c.Compile(ctx)
	if err != nil {
		return err
	}
	st.report.Result = res

	m := st.runner.opts.Metrics
	for k, n := range res.Counts {
		m.AddObligations(k.String(), n)
	}
	m.ObserveConstants(len(res.Constants))

	return nil
}

func (st *run) serialize(_ context.Context) error {
	p := st.problem
	res := st.report.Result

	// 1. Problem
	if err := writeFile(st.report.Path(ProblemFile), func(w io.Writer) error {
		return bridge.WriteProblem(w, res.Constants, res.Implications)
	}); err != nil {
		return err
	}

	// 2. Solver configuration
	cfg, err := bridge.NewSolverConfig(p.Synthesis.Theorem, p.Synthesis.Solver, p.Synthesis.Degree,
		st.report.Path(SolverOutputFile))
	if err != nil {
		return err
	}
	if err = writeFile(st.report.Path(ConfigFile), cfg.WriteJSON); err != nil {
		return err
	}
	st.log.Info("problem serialized",
		slog.Int("implications", len(res.Implications)),
		slog.Int("constants", len(res.Constants)),
		slog.String("file", st.report.Path(ProblemFile)))

	return nil
}

func (st *run) solve(ctx context.Context) error {
	s := st.runner.opts.Solver
	if s == nil {
		syn := st.problem.Synthesis
		opts := []bridge.SolverOption{
			bridge.WithSolverLogger(st.log),
			bridge.WithSolverTimeout(syn.Timeout),
		}
		if len(syn.SolverArgs) > 0 {
			opts = append(opts, bridge.WithSolverArgs(syn.SolverArgs...))
		}
		s = bridge.NewSolver(syn.SolverCommand, opts...)
	}
	verdict, model, err := s.Solve(ctx, st.report.Path(ProblemFile), st.report.Path(ConfigFile))
	if err != nil {
		return err
	}
	st.report.Verdict, st.report.Model = verdict, model
	st.runner.opts.Metrics.Verdict(verdict.String())

	return os.WriteFile(st.report.Path(ModelFile), []byte(verdict.String()+"\n"+model.String()), 0o644)
}

// writeFile creates path and hands it to write.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = write(f); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
