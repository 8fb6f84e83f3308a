package bridge

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
)

// configValidate is shared; validator.Validate caches struct metadata.
var configValidate = validator.New()

// Theorems and solvers accepted in a SolverConfig.
var (
	Theorems = []string{"handelman", "putinar", "farkas"}
	Solvers  = []string{"z3", "mathsat"}
)

// SolverConfig is the JSON configuration handed to the solver next to the
// problem file.
type SolverConfig struct {
	TheoremName            string `json:"theorem_name" validate:"required,oneof=handelman putinar farkas"`
	DegreeOfSat            int    `json:"degree_of_sat" validate:"gte=0"`
	DegreeOfNonstrictUnsat int    `json:"degree_of_nonstrict_unsat" validate:"gte=0"`
	DegreeOfStrictUnsat    int    `json:"degree_of_strict_unsat" validate:"gte=0"`
	MaxDOfStrict           int    `json:"max_d_of_strict" validate:"gte=0"`
	SolverName             string `json:"solver_name" validate:"required,oneof=z3 mathsat"`
	OutputPath             string `json:"output_path" validate:"required"`
	UnsatCoreHeuristic     bool   `json:"unsat_core_heuristic"`
	SATHeuristic           bool   `json:"SAT_heuristic"`
	IntegerArithmetic      bool   `json:"integer_arithmetic"`
}

// NewSolverConfig returns a configuration with the given theorem, solver and
// satisfiability degree, zero unsat degrees and every heuristic off.
func NewSolverConfig(theorem, solver string, degree int, outputPath string) (SolverConfig, error) {
	c := SolverConfig{
		TheoremName: theorem,
		DegreeOfSat: degree,
		SolverName:  solver,
		OutputPath:  outputPath,
	}
	if err := c.Validate(); err != nil {
		return SolverConfig{}, err
	}

	return c, nil
}

// Validate checks the struct tags.
func (c SolverConfig) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

// WriteJSON validates c and writes it indented.
func (c SolverConfig) WriteJSON(w io.Writer) error {
	if err := c.Validate(); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")

	return enc.Encode(c)
}

// ReadSolverConfig decodes and validates a JSON configuration.
func ReadSolverConfig(r io.Reader) (SolverConfig, error) {
	var c SolverConfig
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return SolverConfig{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Validate(); err != nil {
		return SolverConfig{}, err
	}

	return c, nil
}
