package template

import (
	"errors"
	"strconv"
)

// Sentinel errors for template synthesis.
var (
	// ErrInvalidDegree indicates a negative polynomial degree.
	ErrInvalidDegree = errors.New("template: invalid degree")

	// ErrNoVariables indicates an empty state variable list.
	ErrNoVariables = errors.New("template: no state variables")

	// ErrUnknownState indicates a state the template has no polynomial for.
	ErrUnknownState = errors.New("template: unknown state")
)

// Kind identifies a certificate family.
type Kind int

const (
	// Reach is the reach-and-stay certificate.
	Reach Kind = iota
	// Safe is the safety certificate.
	Safe
	// Buchi is the certificate for one acceptance set; the instance picks the set.
	Buchi
	// Invariant is the optional inductive invariant.
	Invariant
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case Reach:
		return "reach"
	case Safe:
		return "safe"
	case Buchi:
		return "buchi"
	case Invariant:
		return "invariant"
	}

	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Prefix returns the constant-name prefix of kind k for the given instance.
// The instance only matters for Buchi.
func (k Kind) Prefix(instance int) string {
	switch k {
	case Reach:
		return "V_reach"
	case Safe:
		return "V_safe"
	case Buchi:
		return "V_buchi" + strconv.Itoa(instance)
	case Invariant:
		return "I_inv"
	}

	return "V_" + k.String()
}
