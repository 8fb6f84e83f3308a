package automaton

import (
	"context"
	"errors"
	"log/slog"
	"sort"
)

// Sentinel errors for automaton construction.
var (
	// ErrMalformedRecord indicates an invalid exchange record or HOA text.
	ErrMalformedRecord = errors.New("automaton: malformed record")

	// ErrUnknownState indicates a reference to a state that does not exist.
	ErrUnknownState = errors.New("automaton: unknown state")

	// ErrUnsupported indicates an HOA feature this reader does not handle.
	ErrUnsupported = errors.New("automaton: unsupported HOA feature")
)

// Status is the acceptance classification of a state.
type Status int

const (
	// NonAccepting states are transient: they can still reach acceptance.
	NonAccepting Status = iota
	// Accepting states belong to an accepting bottom component.
	Accepting
	// Rejecting states can never reach an accepting state.
	Rejecting
)

func (s Status) String() string {
	switch s {
	case Accepting:
		return "accepting"
	case Rejecting:
		return "rejecting"
	default:
		return "non-accepting"
	}
}

// Transition is an outgoing edge of a State.
type Transition struct {
	// Destination is the target state ID.
	Destination int
	// Guard is the infix label; "" on ε-transitions.
	Guard string
	// Epsilon marks the unguarded back-edge of a synthetic state.
	Epsilon bool
}

// State is one automaton state after acceptance conversion.
type State struct {
	ID          int
	Signature   []int
	Transitions []Transition
	Status      Status
	Synthetic   bool
}

// InSignature reports whether acceptance set i is in s's signature.
func (s State) InSignature(i int) bool {
	for _, v := range s.Signature {
		if v == i {
			return true
		}
	}

	return false
}

func (s State) clone() State {
	c := s
	c.Signature = append([]int(nil), s.Signature...)
	c.Transitions = append([]Transition(nil), s.Transitions...)

	return c
}

// Header carries the record-level automaton attributes.
type Header struct {
	Name    string
	Tool    string
	AccName string
	Start   int
	// AcceptanceSets lists the Büchi sets that must all be visited infinitely often.
	AcceptanceSets []int
	// Propositions maps AP index to proposition name.
	Propositions []string
	Properties   []string
}

// RecordTransition is a transition as given by the translator.
type RecordTransition struct {
	Label       string
	Destination int
	Signature   []int
}

// RecordState is a state as given by the translator.
type RecordState struct {
	ID          int
	Signature   []int
	Transitions []RecordTransition
}

// Record is the automaton exchange record consumed by Build.
type Record struct {
	Header Header
	States []RecordState
}

// Option configures Build.
type Option func(*buildOptions)

type buildOptions struct {
	logger *slog.Logger
	ctx    context.Context
}

// WithLogger injects the logger used to report classification.
func WithLogger(l *slog.Logger) Option {
	return func(o *buildOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithContext bounds the graph analysis by ctx.
func WithContext(ctx context.Context) Option {
	return func(o *buildOptions) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// sortedSet returns the distinct values of xs in ascending order.
func sortedSet(xs []int) []int {
	if len(xs) == 0 {
		return nil
	}
	seen := make(map[int]struct{}, len(xs))
	out := make([]int, 0, len(xs))
	for _, x := range xs {
		if _, ok := seen[x]; !ok {
			seen[x] = struct{}{}
			out = append(out, x)
		}
	}
	sort.Ints(out)

	return out
}
