package system

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/katalvlaran/ltlcert/logging"
	"github.com/katalvlaran/ltlcert/polynomial"
	"github.com/katalvlaran/ltlcert/template"
)

// Selector picks one policy out of a decomposed Policy.
type Selector int

// AcceptancePolicy selects the policy that drives the system into an accepting component.
const AcceptancePolicy Selector = -1

// BuchiPolicy selects the policy that visits acceptance set i.
func BuchiPolicy(i int) Selector { return Selector(i) }

// String returns "acceptance" or "buchi<i>".
func (s Selector) String() string {
	if s == AcceptancePolicy {
		return "acceptance"
	}

	return "buchi" + strconv.Itoa(int(s))
}

// PolicySpec is the policy text as provided by the user: one expression per
// action dimension for the acceptance policy and for every Büchi policy.
type PolicySpec struct {
	Acceptance []string
	Buchi      [][]string
}

// Empty reports whether no policy text was provided.
func (s PolicySpec) Empty() bool { return len(s.Acceptance) == 0 && len(s.Buchi) == 0 }

// PolicyDims are the shapes a policy must agree with. Degree is the degree of
// a templated policy.
type PolicyDims struct {
	State     int
	Action    int
	BuchiSets int
	Degree    int
}

// Policy is a decomposed control policy: an acceptance policy plus one policy
// per Büchi acceptance set, each with one polynomial per action dimension.
type Policy struct {
	acceptance []polynomial.Equation
	buchi      [][]polynomial.Equation
	templated  bool
	constants  []string
}

// Option configures NewPolicy.
type Option func(*policyOptions)

type policyOptions struct {
	logger *slog.Logger
}

// WithLogger injects the logger that reports a discarded policy.
func WithLogger(l *slog.Logger) Option {
	return func(o *policyOptions) { o.logger = logging.OrNop(l) }
}

// NewPolicy parses spec against dims.
//
// An empty spec yields TemplatePolicy(dims). A spec whose arity disagrees with
// dims is discarded with a warning and also replaced by TemplatePolicy; this
// is the one recoverable shape error. Parse errors and expressions over
// anything but S1..S<State> are returned.
func NewPolicy(spec PolicySpec, dims PolicyDims, opts ...Option) (*Policy, error) {
	o := policyOptions{logger: logging.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	// 1. Nothing provided
	if spec.Empty() {
		o.logger.Info("no control policy provided, using templated policy",
			slog.Int("actions", dims.Action), slog.Int("buchi_sets", dims.BuchiSets))

		return TemplatePolicy(dims)
	}

	// 2. Arity check
	if reason := arityMismatch(spec, dims); reason != "" {
		o.logger.Warn("provided control policy discarded, using templated policy",
			slog.String("reason", reason))

		return TemplatePolicy(dims)
	}

	// 3. Parse
	limits := map[string]int{StatePrefix: dims.State}
	parse := func(exprs []string, sel Selector) ([]polynomial.Equation, error) {
		out := make([]polynomial.Equation, len(exprs))
		for a, text := range exprs {
			eq, err := polynomial.Parse(text)
			if err != nil {
				return nil, fmt.Errorf("%s policy A%d: %w", sel, a+1, err)
			}
			if err = checkVars(eq.Variables(), limits); err != nil {
				return nil, fmt.Errorf("%s policy A%d: %w", sel, a+1, err)
			}
			out[a] = eq
		}

		return out, nil
	}
	p := &Policy{}
	var err error
	if p.acceptance, err = parse(spec.Acceptance, AcceptancePolicy); err != nil {
		return nil, err
	}
	for i, exprs := range spec.Buchi {
		b, err := parse(exprs, BuchiPolicy(i))
		if err != nil {
			return nil, err
		}
		p.buchi = append(p.buchi, b)
	}
	p.collectConstants()

	return p, nil
}

func arityMismatch(spec PolicySpec, dims PolicyDims) string {
	if len(spec.Acceptance) != dims.Action {
		return fmt.Sprintf("acceptance policy has %d components for %d actions", len(spec.Acceptance), dims.Action)
	}
	if len(spec.Buchi) != dims.BuchiSets {
		return fmt.Sprintf("%d buchi policies for %d acceptance sets", len(spec.Buchi), dims.BuchiSets)
	}
	for i, b := range spec.Buchi {
		if len(b) != dims.Action {
			return fmt.Sprintf("buchi%d policy has %d components for %d actions", i, len(b), dims.Action)
		}
	}

	return ""
}

// TemplatePolicy builds a policy whose components are degree-dims.Degree
// polynomials over the state variables with unknown coefficients
// P_acc_<a>_<k> and P_buchi<i>_<a>_<k>.
func TemplatePolicy(dims PolicyDims) (*Policy, error) {
	p := &Policy{templated: true}
	if dims.Action == 0 {
		p.buchi = make([][]polynomial.Equation, dims.BuchiSets)
		return p, nil
	}
	vars := StateVars(dims.State)
	build := func(prefix string) ([]polynomial.Equation, error) {
		out := make([]polynomial.Equation, dims.Action)
		for a := range out {
			eq, names, err := template.Polynomial(prefix+"_"+strconv.Itoa(a+1), vars, dims.Degree)
			if err != nil {
				return nil, fmt.Errorf("policy %s: %w", prefix, err)
			}
			out[a] = eq
			p.constants = append(p.constants, names...)
		}

		return out, nil
	}
	var err error
	if p.acceptance, err = build("P_acc"); err != nil {
		return nil, err
	}
	for i := 0; i < dims.BuchiSets; i++ {
		b, err := build("P_buchi" + strconv.Itoa(i))
		if err != nil {
			return nil, err
		}
		p.buchi = append(p.buchi, b)
	}

	return p, nil
}

func (p *Policy) collectConstants() {
	seen := make(map[string]struct{})
	add := func(eqs []polynomial.Equation) {
		for _, eq := range eqs {
			for _, c := range eq.Constants() {
				if _, ok := seen[c]; !ok {
					seen[c] = struct{}{}
					p.constants = append(p.constants, c)
				}
			}
		}
	}
	add(p.acceptance)
	for _, b := range p.buchi {
		add(b)
	}
}

// Actions returns the action polynomials of the selected policy.
func (p *Policy) Actions(sel Selector) ([]polynomial.Equation, error) {
	if sel == AcceptancePolicy {
		return append([]polynomial.Equation(nil), p.acceptance...), nil
	}
	if int(sel) < 0 || int(sel) >= len(p.buchi) {
		return nil, fmt.Errorf("%w: no %s policy among %d", ErrInvalidParameter, sel, len(p.buchi))
	}

	return append([]polynomial.Equation(nil), p.buchi[sel]...), nil
}

// BuchiCount returns the number of Büchi policies.
func (p *Policy) BuchiCount() int { return len(p.buchi) }

// Templated reports whether the policy has unknown coefficients to synthesize.
func (p *Policy) Templated() bool { return p.templated }

// Constants returns the unknown names used by the policy.
func (p *Policy) Constants() []string { return append([]string(nil), p.constants...) }

// String renders one line per policy.
func (p *Policy) String() string {
	var b strings.Builder
	line := func(sel Selector, eqs []polynomial.Equation) {
		parts := make([]string, len(eqs))
		for i, e := range eqs {
			parts[i] = e.String()
		}
		fmt.Fprintf(&b, "%s: [%s]\n", sel, strings.Join(parts, ", "))
	}
	line(AcceptancePolicy, p.acceptance)
	for i, eqs := range p.buchi {
		line(BuchiPolicy(i), eqs)
	}

	return strings.TrimSuffix(b.String(), "\n")
}
