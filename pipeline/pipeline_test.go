package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ltlcert/bridge"
	"github.com/katalvlaran/ltlcert/config"
	"github.com/katalvlaran/ltlcert/constraint"
	"github.com/katalvlaran/ltlcert/guard"
	"github.com/katalvlaran/ltlcert/metrics"
	"github.com/katalvlaran/ltlcert/pipeline"
	"github.com/katalvlaran/ltlcert/store"
)

const gfa = `HOA: v1
Start: 0
acc-name: Buchi
Acceptance: 1 Inf(0)
AP: 1 "a"
--BODY--
State: 0
[0] 0 {0}
[!0] 0
--END--
`

// problemWith renders a one-dimensional problem around a specification
// source block.
func problemWith(source string) string {
	return `
stochastic_dynamical_system:
  state_space_dimension: 1
  system_space: "-1 <= S1 <= 1"
  initial_space: "0 <= S1 <= 1/2"
  dynamics:
    - condition: ""
      transforms: ["S1/2"]
specification:
` + source + `
  predicate_lookup: {a: "S1 >= 0"}
synthesis_config:
  maximal_polynomial_degree: 1
  epsilon: 0.1
  probability_threshold: 0.5
`
}

var problem = problemWith("  hoa: |\n" + indent(gfa, "    "))

func indent(text, prefix string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}

	return strings.Join(lines, "\n")
}

func decode(t *testing.T, doc string) config.Problem {
	t.Helper()
	p, err := config.Decode(strings.NewReader(doc))
	require.NoError(t, err)

	return p
}

// script writes an executable shell script into a temporary directory.
func script(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tool.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))

	return path
}

func TestStages(t *testing.T) {
	all := pipeline.Stages()
	require.Len(t, all, 9)
	assert.Equal(t, pipeline.ParseInput, all[0])
	assert.Equal(t, pipeline.Done, all[8])
	for i := 0; i < len(all)-1; i++ {
		assert.Equal(t, all[i+1], all[i].Next())
	}
	assert.Equal(t, pipeline.Done, pipeline.Done.Next())
	assert.Equal(t, "construct_automaton", pipeline.ConstructAutomaton.String())
	assert.Equal(t, "stage(42)", pipeline.Stage(42).String())
}

func TestRunner_Emit(t *testing.T) {
	ctx := context.Background()
	out := t.TempDir()
	st := store.NewMemoryStore()
	require.NoError(t, st.Init(ctx))
	rec := metrics.NewRecorder()

	r := pipeline.NewRunner(pipeline.WithOutDir(out), pipeline.WithSkipSolve(true),
		pipeline.WithStore(st), pipeline.WithMetrics(rec))
	rep, err := r.RunProblem(ctx, decode(t, problem))
	require.NoError(t, err)

	assert.Equal(t, pipeline.Done, rep.Stage)
	assert.Equal(t, bridge.Unknown, rep.Verdict)
	assert.Equal(t, out, rep.OutDir)
	assert.NotEmpty(t, rep.RunID)
	require.NotNil(t, rep.Result)
	assert.Equal(t, 6, rep.Result.Counts[constraint.NonNegativity])
	assert.Equal(t, 1, rep.Result.Counts[constraint.InitialBound])
	assert.Zero(t, rep.Result.Counts[constraint.Safety])

	smt, err := os.ReadFile(rep.Path(pipeline.ProblemFile))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(smt), "(declare-const V_reach_0_1 Real)\n"))
	assert.True(t, strings.HasSuffix(string(smt), "(check-sat)\n(get-model)\n"))
	assert.Equal(t, len(rep.Result.Implications), strings.Count(string(smt), "(assert "))

	f, err := os.Open(rep.Path(pipeline.ConfigFile))
	require.NoError(t, err)
	defer f.Close()
	cfg, err := bridge.ReadSolverConfig(f)
	require.NoError(t, err)
	assert.Equal(t, "handelman", cfg.TheoremName)
	assert.Equal(t, 1, cfg.DegreeOfSat)

	hoa, err := os.ReadFile(rep.Path(pipeline.HOAFile))
	require.NoError(t, err)
	assert.Contains(t, string(hoa), "Acceptance: 1 Inf(0)")
	assert.NoFileExists(t, rep.Path(pipeline.ModelFile))

	row, ok, err := st.GetRun(ctx, rep.RunID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "emitted", row.Status)
	assert.Equal(t, "done", row.Stage)
	assert.Equal(t, len(rep.Result.Implications), row.Implications)
	assert.Equal(t, 6, row.Counts["non_negativity"])
}

func TestRunner_Solve(t *testing.T) {
	solver := bridge.NewSolver(script(t, `test -f "$2" && test -f "$4" || exit 4
echo sat
echo "(model (define-fun V_reach_0_1 () Real (/ 1 2)) (define-fun V_reach_0_2 () Real 0.0))"
`))
	r := pipeline.NewRunner(pipeline.WithOutDir(t.TempDir()), pipeline.WithSolver(solver))
	rep, err := r.RunProblem(context.Background(), decode(t, problem))
	require.NoError(t, err)

	assert.Equal(t, bridge.Sat, rep.Verdict)
	assert.Equal(t, "1/2", rep.Model["V_reach_0_1"].RatString())
	raw, err := os.ReadFile(rep.Path(pipeline.ModelFile))
	require.NoError(t, err)
	assert.Equal(t, "sat\nV_reach_0_1 = 1/2\nV_reach_0_2 = 0\n", string(raw))
}

func TestRunner_RunFromFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gfa.hoa"), []byte(gfa), 0o644))
	path := filepath.Join(dir, "problem.yaml")
	require.NoError(t, os.WriteFile(path, []byte(problemWith("  hoa_path: gfa.hoa")), 0o644))

	rep, err := pipeline.NewRunner(pipeline.WithSkipSolve(true)).Run(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, rep.Input)
	assert.Equal(t, filepath.Join(dir, "temp", rep.RunID), rep.OutDir)
	assert.FileExists(t, rep.Path(pipeline.ProblemFile))
}

func TestRunner_Translator(t *testing.T) {
	owl := script(t, `[ "$1" = "ltl2ldba" ] && [ "$3" = "G F a" ] || exit 1
cat <<'HOA'
`+gfa+`HOA
`)
	p := decode(t, problemWith(`  ltl_formula: "G F a"
  owl_binary_path: `+owl))

	rep, err := pipeline.NewRunner(pipeline.WithOutDir(t.TempDir()), pipeline.WithSkipSolve(true)).
		RunProblem(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Automaton.Len())
	hoa, err := os.ReadFile(rep.Path(pipeline.HOAFile))
	require.NoError(t, err)
	assert.Equal(t, gfa, string(hoa))
}

func TestRunner_StageErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing region", func(t *testing.T) {
		st := store.NewMemoryStore()
		require.NoError(t, st.Init(ctx))
		p := decode(t, strings.Replace(problem, "{a: ", "{b: ", 1))

		rep, err := pipeline.NewRunner(pipeline.WithOutDir(t.TempDir()), pipeline.WithStore(st)).RunProblem(ctx, p)
		require.Error(t, err)
		assert.True(t, pipeline.IsStage(err, pipeline.GenerateConstraints))
		assert.ErrorIs(t, err, guard.ErrUnknownAtom)
		assert.Equal(t, pipeline.GenerateConstraints, rep.Stage)
		assert.Nil(t, rep.Result)

		row, ok, err := st.GetRun(ctx, rep.RunID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "failed", row.Status)
		assert.Contains(t, row.Error, "generate_constraints")
	})

	t.Run("solver failure", func(t *testing.T) {
		solver := bridge.NewSolver(script(t, "exit 1\n"))
		_, err := pipeline.NewRunner(pipeline.WithOutDir(t.TempDir()), pipeline.WithSolver(solver)).
			RunProblem(ctx, decode(t, problem))
		assert.True(t, pipeline.IsStage(err, pipeline.Solve))
		assert.ErrorIs(t, err, bridge.ErrSolverFailed)
	})

	t.Run("missing input", func(t *testing.T) {
		_, err := pipeline.NewRunner().Run(ctx, filepath.Join(t.TempDir(), "absent.yaml"))
		assert.True(t, pipeline.IsStage(err, pipeline.ParseInput))
		assert.ErrorIs(t, err, config.ErrDecode)
	})

	t.Run("canceled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := pipeline.NewRunner(pipeline.WithOutDir(t.TempDir())).RunProblem(cctx, decode(t, problem))
		assert.True(t, pipeline.IsStage(err, pipeline.PrepareRequirements))
		assert.ErrorIs(t, err, context.Canceled)
	})
}
