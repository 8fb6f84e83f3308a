package system

import (
	"fmt"
	"strconv"

	"github.com/katalvlaran/ltlcert/polynomial"
)

// Piece is one branch of piecewise dynamics: where Condition holds, the
// successor state is S_i' = Update[i-1](S, A, D).
type Piece struct {
	Condition Space
	Update    []polynomial.Equation
}

// ParsePiece parses a condition and one update expression per state dimension.
func ParsePiece(condition string, updates []string, mode polynomial.StrictMode) (Piece, error) {
	cond, err := ParseSpace("condition", condition, mode)
	if err != nil {
		return Piece{}, err
	}
	p := Piece{Condition: cond, Update: make([]polynomial.Equation, len(updates))}
	for i, u := range updates {
		if p.Update[i], err = polynomial.Parse(u); err != nil {
			return Piece{}, fmt.Errorf("update S%d: %w", i+1, err)
		}
	}

	return p, nil
}

// Successor returns S_i -> Update[i-1] with every A_j replaced by actions[j-1].
// Action variables without a corresponding entry are left in place.
func (p Piece) Successor(actions []polynomial.Equation) map[string]polynomial.Equation {
	subst := make(map[string]polynomial.Equation, len(actions))
	for j, a := range actions {
		subst[ActionPrefix+strconv.Itoa(j+1)] = a
	}
	out := make(map[string]polynomial.Equation, len(p.Update))
	for i, u := range p.Update {
		out[StatePrefix+strconv.Itoa(i+1)] = u.SubstituteAll(subst)
	}

	return out
}

// Dynamics is a validated list of pieces over fixed dimensions.
type Dynamics struct {
	StateDim       int
	ActionDim      int
	DisturbanceDim int
	Pieces         []Piece
}

// NewDynamics validates pieces against the declared dimensions: every piece
// needs exactly stateDim updates, and updates and conditions may only mention
// S1..S<stateDim>, A1..A<actionDim> and D1..D<disturbanceDim>.
func NewDynamics(stateDim, actionDim, disturbanceDim int, pieces ...Piece) (*Dynamics, error) {
	// 1. Dimensions
	if stateDim <= 0 || actionDim < 0 || disturbanceDim < 0 {
		return nil, fmt.Errorf("%w: state=%d action=%d disturbance=%d",
			ErrDimensionMismatch, stateDim, actionDim, disturbanceDim)
	}
	if len(pieces) == 0 {
		return nil, ErrNoPieces
	}

	d := &Dynamics{StateDim: stateDim, ActionDim: actionDim, DisturbanceDim: disturbanceDim}
	limits := map[string]int{StatePrefix: stateDim, ActionPrefix: actionDim, DisturbancePrefix: disturbanceDim}

	// 2. Per-piece arity and generator ranges
	for i, p := range pieces {
		if len(p.Update) != stateDim {
			return nil, fmt.Errorf("%w: piece %d has %d updates for %d state variables",
				ErrDimensionMismatch, i, len(p.Update), stateDim)
		}
		for _, u := range p.Update {
			if err := checkVars(u.Variables(), limits); err != nil {
				return nil, fmt.Errorf("piece %d: %w", i, err)
			}
		}
		if err := checkVars(p.Condition.Variables(), limits); err != nil {
			return nil, fmt.Errorf("piece %d condition: %w", i, err)
		}
		d.Pieces = append(d.Pieces, p)
	}

	return d, nil
}

func checkVars(vars []string, limits map[string]int) error {
	for _, v := range vars {
		prefix, n, ok := generatorIndex(v)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownVariable, v)
		}
		if limit, known := limits[prefix]; !known || n > limit {
			return fmt.Errorf("%w: %s", ErrUnknownVariable, v)
		}
	}

	return nil
}

// StateVars returns S1..S<StateDim>.
func (d *Dynamics) StateVars() []string { return StateVars(d.StateDim) }
