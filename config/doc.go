// Package config loads synthesis problems from YAML.
//
// A problem file has five sections plus optional compiler switches:
//
//	stochastic_dynamical_system:
//	  state_space_dimension: 1
//	  control_space_dimension: 1
//	  disturbance_space_dimension: 1
//	  system_space: "-10 <= S1 <= 10"
//	  initial_space: "-1 <= S1 <= 1"
//	  dynamics:
//	    - condition: ""
//	      transforms: ["S1/2 + A1 + D1"]
//	actions:
//	  control_policy: ["-S1/4"]
//	disturbance:
//	  distribution_name: normal
//	  disturbance_parameters: {mean: [0], std_dev: [1]}
//	specification:
//	  ltl_formula: "F G a"
//	  predicate_lookup: {a: "-1 <= S1 <= 1"}
//	synthesis_config:
//	  maximal_polynomial_degree: 2
//	  epsilon: 0.01
//	  probability_threshold: 0.9
//	  theorem_name: handelman
//	  solver_name: z3
//	constraints:
//	  strict_mode: strict_rejected
//
// Decode starts from Default, so omitted keys keep their defaults; unknown
// keys are rejected. Struct tags are checked with validator/v10, followed by
// the cross-field checks that tags cannot express (dynamics arity against the
// state dimension, a distribution for a noisy system, an automaton source).
//
// Errors:
//
//	ErrDecode  - unreadable file or YAML that does not fit the schema.
//	ErrInvalid - a value outside its allowed range or an inconsistent problem.
package config
