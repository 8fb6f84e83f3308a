package system

import (
	"errors"
	"math/big"
	"strconv"
)

// Sentinel errors for the system model.
var (
	// ErrDimensionMismatch indicates vectors whose lengths disagree with a declared dimension.
	ErrDimensionMismatch = errors.New("system: dimension mismatch")

	// ErrUnknownVariable indicates a generator outside the declared ranges.
	ErrUnknownVariable = errors.New("system: unknown variable")

	// ErrUnknownDistribution indicates an unsupported disturbance distribution.
	ErrUnknownDistribution = errors.New("system: unknown distribution")

	// ErrInvalidParameter indicates an out-of-range distribution or policy parameter.
	ErrInvalidParameter = errors.New("system: invalid parameter")

	// ErrNoPieces indicates dynamics without any update piece.
	ErrNoPieces = errors.New("system: dynamics has no pieces")
)

// Generator prefixes.
const (
	StatePrefix       = "S"
	ActionPrefix      = "A"
	DisturbancePrefix = "D"
)

// Generators returns prefix1..prefixN.
func Generators(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = prefix + strconv.Itoa(i+1)
	}

	return out
}

// StateVars returns S1..Sn.
func StateVars(n int) []string { return Generators(StatePrefix, n) }

// ActionVars returns A1..Am.
func ActionVars(m int) []string { return Generators(ActionPrefix, m) }

// DisturbanceVars returns D1..Dk.
func DisturbanceVars(k int) []string { return Generators(DisturbancePrefix, k) }

// Rat converts a configuration float to an exact rational using its shortest
// decimal form, so 0.1 becomes 1/10 rather than a binary approximation.
func Rat(f float64) *big.Rat {
	r, _ := new(big.Rat).SetString(strconv.FormatFloat(f, 'g', -1, 64))

	return r
}

// Rats converts every element of fs with Rat.
func Rats(fs []float64) []*big.Rat {
	out := make([]*big.Rat, len(fs))
	for i, f := range fs {
		out[i] = Rat(f)
	}

	return out
}

// generatorIndex splits "S12" into ("S", 12).
func generatorIndex(v string) (string, int, bool) {
	if len(v) < 2 {
		return "", 0, false
	}
	n, err := strconv.Atoi(v[1:])
	if err != nil || n < 1 {
		return "", 0, false
	}

	return v[:1], n, true
}
