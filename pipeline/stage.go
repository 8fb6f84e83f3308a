package pipeline

import (
	"fmt"
	"strings"
)

// Stage is one step of a run.
type Stage int

const (
	ParseInput Stage = iota
	PrepareRequirements
	ConstructAutomaton
	PreparePolicy
	SynthesizeTemplates
	GenerateConstraints
	Serialize
	Solve
	Done
)

var stageNames = [...]string{
	"parse_input",
	"prepare_requirements",
	"construct_automaton",
	"prepare_policy",
	"synthesize_templates",
	"generate_constraints",
	"serialize",
	"solve",
	"done",
}

// String returns the snake_case stage name.
func (s Stage) String() string {
	if s < ParseInput || s > Done {
		return fmt.Sprintf("stage(%d)", int(s))
	}

	return stageNames[s]
}

// Next returns the successor; Done is terminal.
func (s Stage) Next() Stage {
	if s >= Done {
		return Done
	}

	return s + 1
}

// Stages returns every stage in run order, Done last.
func Stages() []Stage {
	out := make([]Stage, 0, len(stageNames))
	for s := ParseInput; s <= Done; s++ {
		out = append(out, s)
	}

	return out
}

// StageError reports the stage a run failed in.
type StageError struct {
	Stage Stage
	Err   error
}

// Error returns "pipeline: <stage>: <cause>".
func (e *StageError) Error() string {
	return "pipeline: " + e.Stage.String() + ": " + e.Err.Error()
}

// Unwrap returns the cause.
func (e *StageError) Unwrap() error { return e.Err }

// title renders a stage for humans, e.g. "Construct Automaton".
func (s Stage) title() string {
	words := strings.Split(s.String(), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}

	return strings.Join(words, " ")
}
