package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

// fga has a transient state 0 in front of the accepting loop on state 1.
const fga = `HOA: v1
Start: 0
acc-name: Buchi
Acceptance: 1 Inf(0)
AP: 1 "a"
--BODY--
State: 0
[t] 0
[0] 1
State: 1
[0] 1 {0}
--END--
`

const problemYAML = `
stochastic_dynamical_system:
  state_space_dimension: 1
  system_space: "-1 <= S1 <= 1"
  dynamics:
    - condition: ""
      transforms: ["S1/2"]
specification:
  hoa_path: gfa.hoa
  predicate_lookup: {a: "S1 > 0"}
synthesis_config:
  maximal_polynomial_degree: 1
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := execute(context.Background(), append(args, "--log-level", "error"), &out, &errOut)

	return out.String(), err
}

func workspace(t *testing.T) (dir, problem string) {
	t.Helper()
	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gfa.hoa"), []byte(gfa), 0o644))
	problem = filepath.Join(dir, "problem.yaml")
	require.NoError(t, os.WriteFile(problem, []byte(problemYAML), 0o644))

	return dir, problem
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "ltlcert dev\n", out)
}

func TestClassify(t *testing.T) {
	dir, _ := workspace(t)
	out, err := run(t, "classify", filepath.Join(dir, "gfa.hoa"))
	require.NoError(t, err)
	assert.Contains(t, out, "start 0, 1 acceptance sets\n")
	assert.Contains(t, out, "1\taccepting\t[0] synthetic\n")
	assert.Contains(t, out, "accepting component 0: [0 1]\n")
	assert.Contains(t, out, "component 0: [0 1] -> [] bottom\n")
	assert.NotContains(t, out, "path ")

	_, err = run(t, "classify", filepath.Join(dir, "absent.hoa"))
	assert.Error(t, err)
}

func TestClassify_TransientPrefix(t *testing.T) {
	hoa := filepath.Join(t.TempDir(), "fga.hoa")
	require.NoError(t, os.WriteFile(hoa, []byte(fga), 0o644))
	out, err := run(t, "classify", hoa)
	require.NoError(t, err)
	assert.Contains(t, out, "accepting component 0: [1 2]\n")
	assert.Contains(t, out, "component 0: [0] -> [1]\n")
	assert.Contains(t, out, "component 1: [1 2] -> [] bottom\n")
	assert.Contains(t, out, "path 0: [0 1]\n")
}

func TestEmit_StrictMode(t *testing.T) {
	dir, problem := workspace(t)

	// "S1 > 0" is strict and the default rejects it
	_, err := run(t, "emit", problem, "--out", filepath.Join(dir, "rejected"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate_constraints")

	out, err := run(t, "emit", problem, "--out", filepath.Join(dir, "relaxed"), "--strict-mode", "strict_relaxed")
	require.NoError(t, err)
	assert.Contains(t, out, "automaton: 2 states, 1 acceptance sets\n")
	assert.Contains(t, out, "non_negativity")
	assert.FileExists(t, filepath.Join(dir, "relaxed", "problem.smt2"))

	_, err = run(t, "emit", problem, "--strict-mode", "loose")
	assert.Error(t, err)
}

func TestBatchAndRuns(t *testing.T) {
	dir, problem := workspace(t)
	db := filepath.Join(dir, "runs.db")
	metrics := filepath.Join(dir, "ltlcert.prom")

	out, err := run(t, "batch", "--emit-only", "-j", "2", "--strict-mode", "strict_relaxed",
		"--out", filepath.Join(dir, "out"), "--db", db, "--metrics-file", metrics, problem, problem)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "\tunknown\t"))
	assert.DirExists(t, filepath.Join(dir, "out", "00_problem"))
	assert.DirExists(t, filepath.Join(dir, "out", "01_problem"))

	prom, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `ltlcert_runs_total{status="emitted"} 2`)

	out, err = run(t, "runs", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "emitted"))

	_, err = run(t, "runs")
	assert.Error(t, err)

	_, err = run(t, "batch", "-j", "0", problem)
	assert.Error(t, err)
}
