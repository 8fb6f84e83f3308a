package bridge

import (
	"errors"
	"math/big"
	"sort"
	"strings"
)

// Sentinel errors for the external tool bridge.
var (
	// ErrExecutableNotFound indicates a missing solver or translator binary.
	ErrExecutableNotFound = errors.New("bridge: executable not found")

	// ErrSolverFailed indicates a solver run that exited abnormally or
	// printed no verdict.
	ErrSolverFailed = errors.New("bridge: solver failed")

	// ErrTranslatorFailed indicates a translator run that exited abnormally
	// or printed nothing.
	ErrTranslatorFailed = errors.New("bridge: translator failed")

	// ErrInvalidConfig indicates a SolverConfig rejected by validation.
	ErrInvalidConfig = errors.New("bridge: invalid solver config")
)

// Verdict is the solver's answer on the problem file.
type Verdict int

const (
	// Unknown is also the verdict of a run that was not performed.
	Unknown Verdict = iota
	Sat
	Unsat
)

// String returns "sat", "unsat" or "unknown".
func (v Verdict) String() string {
	switch v {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	}

	return "unknown"
}

// ParseVerdict maps a verdict token to a Verdict.
func ParseVerdict(s string) (Verdict, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sat":
		return Sat, true
	case "unsat":
		return Unsat, true
	case "unknown":
		return Unknown, true
	}

	return Unknown, false
}

// Model assigns exact values to the declared unknowns.
type Model map[string]*big.Rat

// Names returns the assigned names in ascending order.
func (m Model) Names() []string {
	out := make([]string, 0, len(m))
	for n := range m {
		out = append(out, n)
	}
	sort.Strings(out)

	return out
}

// Env copies m into an evaluation environment.
func (m Model) Env() map[string]*big.Rat {
	env := make(map[string]*big.Rat, len(m))
	for n, v := range m {
		env[n] = new(big.Rat).Set(v)
	}

	return env
}

// String renders one "name = value" line per assignment, sorted by name.
func (m Model) String() string {
	var b strings.Builder
	for _, n := range m.Names() {
		b.WriteString(n)
		b.WriteString(" = ")
		b.WriteString(m[n].RatString())
		b.WriteByte('\n')
	}

	return b.String()
}
