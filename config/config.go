package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Sentinel errors for problem loading.
var (
	// ErrDecode indicates an unreadable or malformed problem file.
	ErrDecode = errors.New("config: cannot decode problem")

	// ErrInvalid indicates a problem that fails validation.
	ErrInvalid = errors.New("config: invalid problem")
)

var validate = validator.New()

// Problem is one synthesis problem file.
type Problem struct {
	System        System        `yaml:"stochastic_dynamical_system" validate:"required"`
	Actions       Actions       `yaml:"actions"`
	Disturbance   Disturbance   `yaml:"disturbance"`
	Specification Specification `yaml:"specification" validate:"required"`
	Synthesis     Synthesis     `yaml:"synthesis_config"`
	Constraints   Constraints   `yaml:"constraints"`

	// Dir resolves relative paths; Load sets it to the file's directory.
	Dir string `yaml:"-"`
}

// System describes the stochastic dynamical system.
type System struct {
	StateDim       int     `yaml:"state_space_dimension" validate:"gte=1"`
	ActionDim      int     `yaml:"control_space_dimension" validate:"gte=0"`
	DisturbanceDim int     `yaml:"disturbance_space_dimension" validate:"gte=0"`
	SystemSpace    string  `yaml:"system_space"`
	InitialSpace   string  `yaml:"initial_space"`
	Dynamics       []Piece `yaml:"dynamics" validate:"required,min=1,dive"`
}

// Piece is one conditional update; an empty condition always holds.
type Piece struct {
	Condition  string   `yaml:"condition"`
	Transforms []string `yaml:"transforms" validate:"required,min=1"`
}

// Actions carries a provided control policy. Empty lists ask for a templated
// policy of Degree (Synthesis.Degree when nil).
type Actions struct {
	ControlPolicy []string   `yaml:"control_policy"`
	BuchiPolicies [][]string `yaml:"buchi_policies"`
	Degree        *int       `yaml:"maximal_polynomial_degree" validate:"omitempty,gte=0"`
}

// Disturbance names the noise distribution and its parameters.
type Disturbance struct {
	Name       string               `yaml:"distribution_name" validate:"omitempty,oneof=normal uniform"`
	Parameters map[string][]float64 `yaml:"disturbance_parameters"`
}

// Specification gives the automaton source and the proposition regions.
// Exactly one of Formula, HOAPath and HOA is expected; HOA wins over HOAPath,
// which wins over Formula.
type Specification struct {
	Formula string            `yaml:"ltl_formula"`
	HOAPath string            `yaml:"hoa_path"`
	HOA     string            `yaml:"hoa"`
	Lookup  map[string]string `yaml:"predicate_lookup"`
	OwlPath string            `yaml:"owl_binary_path"`
}

// Synthesis holds numeric parameters and the external tools.
type Synthesis struct {
	Degree        int           `yaml:"maximal_polynomial_degree" validate:"gte=1"`
	Epsilon       float64       `yaml:"epsilon" validate:"gt=0"`
	Probability   float64       `yaml:"probability_threshold" validate:"gte=0,lt=1"`
	Theorem       string        `yaml:"theorem_name" validate:"required,oneof=handelman putinar farkas"`
	Solver        string        `yaml:"solver_name" validate:"required,oneof=z3 mathsat"`
	OwlPath       string        `yaml:"owl_path"`
	SolverCommand string        `yaml:"solver_command"`
	SolverArgs    []string      `yaml:"solver_args"`
	Timeout       time.Duration `yaml:"timeout" validate:"gte=0"`
}

// Constraints switches optional obligations and normalization policy.
type Constraints struct {
	StrictMode        string `yaml:"strict_mode" validate:"oneof=strict_rejected strict_relaxed"`
	NonNegativity     string `yaml:"non_negativity" validate:"oneof=over_space unrestricted"`
	Invariant         bool   `yaml:"invariant"`
	BoundedDifference bool   `yaml:"bounded_difference"`
	IncludeRejecting  bool   `yaml:"include_rejecting"`
}

// Default returns degree 2, epsilon 1e-2, probability 0.9, handelman, z3,
// strict comparisons rejected and non-negativity over the system space.
func Default() Problem {
	return Problem{
		Synthesis: Synthesis{
			Degree:      2,
			Epsilon:     1e-2,
			Probability: 0.9,
			Theorem:     "handelman",
			Solver:      "z3",
		},
		Constraints: Constraints{
			StrictMode:       "strict_rejected",
			NonNegativity:    "over_space",
			IncludeRejecting: true,
		},
	}
}

// Load reads and validates the problem at path.
func Load(path string) (Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return Problem{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	defer f.Close()

	p, err := Decode(f)
	if err != nil {
		return Problem{}, fmt.Errorf("%s: %w", path, err)
	}
	p.Dir = filepath.Dir(path)

	return p, nil
}

// Decode reads a problem over Default and validates it.
func Decode(r io.Reader) (Problem, error) {
	p := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return Problem{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if err := p.Validate(); err != nil {
		return Problem{}, err
	}

	return p, nil
}

// Validate checks struct tags, then cross-field consistency.
func (p Problem) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	// 1. Dynamics arity
	for i, pc := range p.System.Dynamics {
		if len(pc.Transforms) != p.System.StateDim {
			return fmt.Errorf("%w: dynamics piece %d has %d transforms, state dimension is %d",
				ErrInvalid, i, len(pc.Transforms), p.System.StateDim)
		}
	}

	// 2. Noise
	if p.System.DisturbanceDim > 0 && p.Disturbance.Name == "" {
		return fmt.Errorf("%w: disturbance dimension %d without distribution_name",
			ErrInvalid, p.System.DisturbanceDim)
	}

	// 3. Automaton source
	s := p.Specification
	if strings.TrimSpace(s.Formula) == "" && s.HOAPath == "" && strings.TrimSpace(s.HOA) == "" {
		return fmt.Errorf("%w: specification needs ltl_formula, hoa_path or hoa", ErrInvalid)
	}
	for name := range s.Lookup {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: empty predicate name", ErrInvalid)
		}
	}

	return nil
}

// PolicyDegree returns Actions.Degree, defaulting to Synthesis.Degree.
func (p Problem) PolicyDegree() int {
	if p.Actions.Degree != nil {
		return *p.Actions.Degree
	}

	return p.Synthesis.Degree
}

// OwlPath returns the translator binary, Specification before Synthesis.
func (p Problem) OwlPath() string {
	if p.Specification.OwlPath != "" {
		return p.Specification.OwlPath
	}

	return p.Synthesis.OwlPath
}

// Resolve makes a relative path relative to Dir.
func (p Problem) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || p.Dir == "" {
		return path
	}

	return filepath.Join(p.Dir, path)
}
