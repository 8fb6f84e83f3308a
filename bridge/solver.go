package bridge

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/katalvlaran/ltlcert/logging"
)

// Placeholders substituted in solver arguments.
const (
	ProblemPlaceholder = "{problem}"
	ConfigPlaceholder  = "{config}"
)

// DefaultSolverCommand is the solver executable used when none is configured.
const DefaultSolverCommand = "polyhorn"

// DefaultSolverArgs passes the problem and configuration paths.
var DefaultSolverArgs = []string{"--smt2", ProblemPlaceholder, "--config", ConfigPlaceholder}

// Solver runs an external Positivstellensatz solver.
type Solver struct {
	command string
	args    []string
	timeout time.Duration
	log     *slog.Logger
}

// SolverOption configures a Solver.
type SolverOption func(*Solver)

// WithSolverArgs replaces the argument template. ProblemPlaceholder and
// ConfigPlaceholder are substituted in every argument.
func WithSolverArgs(args ...string) SolverOption {
	return func(s *Solver) { s.args = append([]string(nil), args...) }
}

// WithSolverTimeout bounds one run; zero means no bound beyond ctx.
func WithSolverTimeout(d time.Duration) SolverOption {
	return func(s *Solver) { s.timeout = d }
}

// WithSolverLogger injects the logger.
func WithSolverLogger(l *slog.Logger) SolverOption {
	return func(s *Solver) { s.log = logging.OrNop(l) }
}

// NewSolver returns a Solver running command (DefaultSolverCommand if empty).
func NewSolver(command string, opts ...SolverOption) *Solver {
	if strings.TrimSpace(command) == "" {
		command = DefaultSolverCommand
	}
	s := &Solver{
		command: command,
		args:    append([]string(nil), DefaultSolverArgs...),
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Command returns the configured executable.
func (s *Solver) Command() string { return s.command }

// Args returns the arguments for the given paths.
func (s *Solver) Args(problemPath, configPath string) []string {
	r := strings.NewReplacer(ProblemPlaceholder, problemPath, ConfigPlaceholder, configPath)
	out := make([]string, len(s.args))
	for i, a := range s.args {
		out[i] = r.Replace(a)
	}

	return out
}

// Solve runs the solver once on the problem and configuration files and
// parses its verdict and model.
func (s *Solver) Solve(ctx context.Context, problemPath, configPath string) (Verdict, Model, error) {
	path, err := resolve(s.command)
	if err != nil {
		return Unknown, nil, err
	}
	args := s.Args(problemPath, configPath)
	s.log.Debug("solver started", slog.String("command", path), slog.Any("args", args))

	start := time.Now()
	out, stderr, err := run(ctx, s.timeout, path, args)
	if err != nil {
		if ctx.Err() != nil {
			return Unknown, nil, ctx.Err()
		}
		s.log.Error("solver failed", slog.String("stderr", stderr), slog.Any("error", err))

		return Unknown, nil, fmt.Errorf("%w: %w: %s", ErrSolverFailed, err, stderr)
	}

	verdict, model, err := ParseOutput(bytes.NewReader(out))
	if err != nil {
		return Unknown, nil, err
	}
	s.log.Info("solver finished",
		slog.String("verdict", verdict.String()),
		slog.Int("assignments", len(model)),
		slog.Duration("elapsed", time.Since(start)))

	return verdict, model, nil
}
