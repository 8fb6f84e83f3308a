package polynomial

import "errors"

// Sentinel errors for polynomial operations.
var (
	// ErrParse indicates malformed polynomial or expression text.
	ErrParse = errors.New("polynomial: parse error")

	// ErrDivisionByZero indicates an exact division by a known zero.
	ErrDivisionByZero = errors.New("polynomial: division by zero")

	// ErrNonConstantDivisor indicates a division whose divisor mentions a variable.
	ErrNonConstantDivisor = errors.New("polynomial: divisor is not constant")

	// ErrUnboundName indicates evaluation of a name missing from the environment.
	ErrUnboundName = errors.New("polynomial: unbound name")

	// ErrMissingMoment indicates a power with no entry in the moment table.
	ErrMissingMoment = errors.New("polynomial: missing moment")

	// ErrNegativeExponent indicates a monomial built with a negative exponent.
	ErrNegativeExponent = errors.New("polynomial: negative exponent")

	// ErrStrictComparison indicates a strict or ≠ comparison under StrictRejected.
	ErrStrictComparison = errors.New("polynomial: strict comparison rejected")

	// ErrStrictModeUnset indicates a strict or ≠ comparison with no StrictMode chosen.
	ErrStrictModeUnset = errors.New("polynomial: strict mode not chosen")

	// ErrUnknownComparator indicates comparator text outside >= <= > < == !=.
	ErrUnknownComparator = errors.New("polynomial: unknown comparator")
)
