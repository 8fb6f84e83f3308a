package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/ltlcert/automaton"
	"github.com/katalvlaran/ltlcert/bridge"
	"github.com/katalvlaran/ltlcert/config"
	"github.com/katalvlaran/ltlcert/constraint"
	"github.com/katalvlaran/ltlcert/logging"
	"github.com/katalvlaran/ltlcert/metrics"
	"github.com/katalvlaran/ltlcert/polynomial"
	"github.com/katalvlaran/ltlcert/store"
	"github.com/katalvlaran/ltlcert/system"
	"github.com/katalvlaran/ltlcert/template"
)

// Output file names.
const (
	HOAFile     = "ltl2ldba.hoa"
	ProblemFile = "problem.smt2"
	ConfigFile  = "config.json"
	ModelFile   = "model.txt"
	// SolverOutputFile is the output_path handed to the solver.
	SolverOutputFile = "solver_output.txt"
)

// Option configures a Runner.
type Option func(*Options)

// Options holds runner settings.
type Options struct {
	Logger  *slog.Logger
	Metrics *metrics.Recorder
	Store   store.Store

	// OutDir receives the run files. Empty means <input dir>/temp/<run id>.
	OutDir    string
	SkipSolve bool

	// StrictMode overrides the problem's strict_mode when set.
	StrictMode polynomial.StrictMode

	// Translator and Solver default to the commands named in the problem.
	Translator *bridge.Translator
	Solver     *bridge.Solver
}

// WithLogger injects the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = logging.OrNop(l) }
}

// WithMetrics records into m.
func WithMetrics(m *metrics.Recorder) Option {
	return func(o *Options) { o.Metrics = m }
}

// WithStore saves a summary of every run into s.
func WithStore(s store.Store) Option {
	return func(o *Options) { o.Store = s }
}

// WithOutDir fixes the output directory.
func WithOutDir(dir string) Option {
	return func(o *Options) { o.OutDir = dir }
}

// WithSkipSolve stops after Serialize.
func WithSkipSolve(skip bool) Option {
	return func(o *Options) { o.SkipSolve = skip }
}

// WithStrictMode overrides the problem's strict comparison handling.
func WithStrictMode(m polynomial.StrictMode) Option {
	return func(o *Options) { o.StrictMode = m }
}

// WithTranslator replaces the LTL translator.
func WithTranslator(t *bridge.Translator) Option {
	return func(o *Options) { o.Translator = t }
}

// WithSolver replaces the solver.
func WithSolver(s *bridge.Solver) Option {
	return func(o *Options) { o.Solver = s }
}

// Report is what a run produced, as far as it got.
type Report struct {
	RunID  string
	Input  string
	OutDir string
	// Stage is the stage the run ended in: Done on success, the failing
	// stage otherwise.
	Stage Stage

	Problem   config.Problem
	Automaton *automaton.Automaton
	Policy    *system.Policy
	Templates *template.Set
	Result    *constraint.Result

	Verdict bridge.Verdict
	Model   bridge.Model

	Started  time.Time
	Finished time.Time
}

// Path returns the location of an output file.
func (r *Report) Path(name string) string { return filepath.Join(r.OutDir, name) }

// Runner executes problems. It is safe for concurrent runs.
type Runner struct {
	opts Options
	log  *slog.Logger
}

// NewRunner returns a Runner with opts applied.
func NewRunner(opts ...Option) *Runner {
	o := Options{Logger: logging.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	return &Runner{opts: o, log: o.Logger}
}

// Run loads the problem file at path and runs every stage.
func (r *Runner) Run(ctx context.Context, path string) (*Report, error) {
	return r.execute(ctx, &run{input: path}, ParseInput)
}

// RunProblem runs an already decoded problem, starting at
// PrepareRequirements.
func (r *Runner) RunProblem(ctx context.Context, p config.Problem) (*Report, error) {
	return r.execute(ctx, &run{input: p.Dir, problem: p}, PrepareRequirements)
}

func (r *Runner) execute(ctx context.Context, st *run, from Stage) (*Report, error) {
	st.runner = r
	st.report = &Report{
		RunID:   uuid.NewString(),
		Input:   st.input,
		Started: time.Now().UTC(),
	}
	st.log = r.log.With(slog.String("run", st.report.RunID))
	handlers := st.handlers()

	var err error
	stage := from
	for ; stage != Done; stage = stage.Next() {
		if stage == Solve && r.opts.SkipSolve {
			st.log.Info("solve skipped")
			continue
		}
		if err = ctx.Err(); err != nil {
			break
		}
		st.log.Debug(stage.title() + " stage started")
		t0 := time.Now()
		err = handlers[stage](ctx)
		r.opts.Metrics.ObserveStage(stage.String(), time.Since(t0))
		if err != nil {
			break
		}
		st.log.Debug(stage.title() + " stage completed")
	}
	st.report.Stage = stage
	st.report.Finished = time.Now().UTC()
	if err != nil {
		err = &StageError{Stage: stage, Err: err}
		st.log.Error("run failed", slog.String("stage", stage.String()), slog.Any("error", err))
	}
	r.finish(ctx, st, err)

	return st.report, err
}

func (r *Runner) finish(ctx context.Context, st *run, runErr error) {
	rep := st.report
	status := "ok"
	switch {
	case runErr != nil:
		status = "failed"
	case r.opts.SkipSolve:
		status = "emitted"
	}
	r.opts.Metrics.RunFinished(status)
	if runErr == nil {
		st.log.Info("run finished",
			slog.String("status", status),
			slog.String("verdict", rep.Verdict.String()),
			slog.String("out", rep.OutDir),
			slog.Duration("elapsed", rep.Finished.Sub(rep.Started)))
	}
	if r.opts.Store == nil {
		return
	}

	row := store.Run{
		ID:       rep.RunID,
		Input:    rep.Input,
		Formula:  rep.Problem.Specification.Formula,
		Stage:    rep.Stage.String(),
		Status:   status,
		Verdict:  rep.Verdict.String(),
		OutDir:   rep.OutDir,
		Started:  rep.Started,
		Finished: rep.Finished,
	}
	if runErr != nil {
		row.Error = runErr.Error()
	}
	if rep.Result != nil {
		row.Implications = len(rep.Result.Implications)
		row.Constants = len(rep.Result.Constants)
		row.Counts = make(map[string]int, len(rep.Result.Counts))
		for k, n := range rep.Result.Counts {
			row.Counts[k.String()] = n
		}
	}
	if rep.Model != nil {
		row.Model = make(map[string]string, len(rep.Model))
		for n, v := range rep.Model {
			row.Model[n] = v.RatString()
		}
	}
	// the run's own ctx may be the reason it failed
	saveCtx := ctx
	if ctx.Err() != nil {
		saveCtx = context.WithoutCancel(ctx)
	}
	if err := r.opts.Store.SaveRun(saveCtx, row); err != nil {
		st.log.Warn("run not stored", slog.Any("error", err))
	}
}

// IsStage reports whether err is a StageError raised in stage.
func IsStage(err error, stage Stage) bool {
	var se *StageError

	return errors.As(err, &se) && se.Stage == stage
}
