package template

// Set is the family of templates a synthesis run needs: reach-and-stay,
// safety, one Büchi template per acceptance set and an optional invariant.
type Set struct {
	Reach     *Template
	Safe      *Template
	Buchi     []*Template
	Invariant *Template // nil unless requested
}

// SetOption configures NewSet.
type SetOption func(*setOptions)

type setOptions struct {
	invariant bool
}

// WithInvariant adds an invariant template to the set.
func WithInvariant() SetOption {
	return func(o *setOptions) { o.invariant = true }
}

// NewSet builds every template of a run over the same states, variables and degree.
func NewSet(states []int, vars []string, degree, buchiSets int, opts ...SetOption) (*Set, error) {
	var o setOptions
	for _, opt := range opts {
		opt(&o)
	}

	var (
		s   Set
		err error
	)
	if s.Reach, err = New(Reach, 0, states, vars, degree); err != nil {
		return nil, err
	}
	if s.Safe, err = New(Safe, 0, states, vars, degree); err != nil {
		return nil, err
	}
	for i := 0; i < buchiSets; i++ {
		b, err := New(Buchi, i, states, vars, degree)
		if err != nil {
			return nil, err
		}
		s.Buchi = append(s.Buchi, b)
	}
	if o.invariant {
		if s.Invariant, err = New(Invariant, 0, states, vars, degree); err != nil {
			return nil, err
		}
	}

	return &s, nil
}

// Certificates returns Reach, Safe and the Büchi templates in that order.
func (s *Set) Certificates() []*Template {
	out := []*Template{s.Reach, s.Safe}

	return append(out, s.Buchi...)
}

// All returns Certificates followed by the invariant when present.
func (s *Set) All() []*Template {
	out := s.Certificates()
	if s.Invariant != nil {
		out = append(out, s.Invariant)
	}

	return out
}

// Constants returns the unknown names of every template in All order.
func (s *Set) Constants() []string {
	var out []string
	for _, t := range s.All() {
		out = append(out, t.constants...)
	}

	return out
}
