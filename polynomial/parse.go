package polynomial

import (
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// generatorPattern matches state, action and disturbance generators: S1, A2, D1.
var generatorPattern = regexp.MustCompile(`^[SAD][0-9]+$`)

// IsGenerator reports whether ident names a system generator variable.
func IsGenerator(ident string) bool { return generatorPattern.MatchString(ident) }

// ParseOption configures Parse.
type ParseOption func(*parseOptions)

type parseOptions struct {
	isVar func(string) bool
}

// WithVariables makes exactly the given identifiers variables; all other
// identifiers become symbolic constants.
func WithVariables(vars ...string) ParseOption {
	set := make(map[string]struct{}, len(vars))
	for _, v := range vars {
		set[v] = struct{}{}
	}

	return func(o *parseOptions) {
		o.isVar = func(s string) bool { _, ok := set[s]; return ok }
	}
}

// WithVariablePredicate installs a custom variable classifier.
func WithVariablePredicate(fn func(string) bool) ParseOption {
	return func(o *parseOptions) {
		if fn != nil {
			o.isVar = fn
		}
	}
}

// Parse parses a polynomial in infix form.
//
// Grammar (standard precedence, '**' and '^' take integer exponents):
//
//	sum     := product (('+'|'-') product)*
//	product := unary (('*'|'/') unary)*
//	unary   := '-' unary | '+' unary | power
//	power   := atom (('**'|'^') INT)?
//	atom    := NUMBER | IDENT | '(' sum ')'
//
// Division is only allowed by a constant sub-expression, which makes opaque
// coefficient tokens such as 1/(1-p) land in the symbolic coefficient.
func Parse(text string, opts ...ParseOption) (Equation, error) {
	o := parseOptions{isVar: IsGenerator}
	for _, fn := range opts {
		fn(&o)
	}
	toks, err := tokenize(text)
	if err != nil {
		return Equation{}, err
	}
	p := &parser{toks: toks, opts: o}
	e, err := p.sum()
	if err != nil {
		return Equation{}, err
	}
	if !p.done() {
		return Equation{}, fmt.Errorf("%w: unexpected %q in %q", ErrParse, p.peek().text, text)
	}

	return e, nil
}

// MustParse is Parse that panics on error; for literals in tests and tables.
func MustParse(text string, opts ...ParseOption) Equation {
	e, err := Parse(text, opts...)
	if err != nil {
		panic(err)
	}

	return e
}

// ParseCoefficient parses text that must not mention any variable.
func ParseCoefficient(text string) (Coefficient, error) {
	e, err := Parse(text, WithVariablePredicate(func(string) bool { return false }))
	if err != nil {
		return Coefficient{}, err
	}

	return e.ConstantTerm(), nil
}

// ParseExpr parses text as a symbolic coefficient expression.
func ParseExpr(text string) (Expr, error) {
	c, err := ParseCoefficient(text)
	if err != nil {
		return nil, err
	}

	return c.Expr(), nil
}

type tokenKind int

const (
	tokNum tokenKind = iota
	tokIdent
	tokOp
)

type token struct {
	kind tokenKind
	text string
}

func tokenize(s string) ([]token, error) {
	var toks []token
	rs := []rune(s)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case unicode.IsDigit(r) || (r == '.' && i+1 < len(rs) && unicode.IsDigit(rs[i+1])):
			j := i
			for j < len(rs) && (unicode.IsDigit(rs[j]) || rs[j] == '.') {
				j++
			}
			// scientific exponent: 1e-3, 2E+4
			if j < len(rs) && (rs[j] == 'e' || rs[j] == 'E') {
				k := j + 1
				if k < len(rs) && (rs[k] == '+' || rs[k] == '-') {
					k++
				}
				if k < len(rs) && unicode.IsDigit(rs[k]) {
					for k < len(rs) && unicode.IsDigit(rs[k]) {
						k++
					}
					j = k
				}
			}
			toks = append(toks, token{kind: tokNum, text: string(rs[i:j])})
			i = j
		case unicode.IsLetter(r) || r == '_':
			j := i
			for j < len(rs) && (unicode.IsLetter(rs[j]) || unicode.IsDigit(rs[j]) || rs[j] == '_') {
				j++
			}
			toks = append(toks, token{kind: tokIdent, text: string(rs[i:j])})
			i = j
		case r == '*' && i+1 < len(rs) && rs[i+1] == '*':
			toks = append(toks, token{kind: tokOp, text: "**"})
			i += 2
		case strings.ContainsRune("+-*/^()", r):
			toks = append(toks, token{kind: tokOp, text: string(r)})
			i++
		default:
			return nil, fmt.Errorf("%w: unexpected character %q in %q", ErrParse, r, s)
		}
	}

	return toks, nil
}

type parser struct {
	toks []token
	pos  int
	opts parseOptions
}

func (p *parser) done() bool { return p.pos >= len(p.toks) }

func (p *parser) peek() token {
	if p.done() {
		return token{}
	}

	return p.toks[p.pos]
}

func (p *parser) acceptOp(op string) bool {
	if t := p.peek(); !p.done() && t.kind == tokOp && t.text == op {
		p.pos++
		return true
	}

	return false
}

func (p *parser) sum() (Equation, error) {
	acc, err := p.product()
	if err != nil {
		return Equation{}, err
	}
	for {
		switch {
		case p.acceptOp("+"):
			rhs, err := p.product()
			if err != nil {
				return Equation{}, err
			}
			acc = acc.Add(rhs)
		case p.acceptOp("-"):
			rhs, err := p.product()
			if err != nil {
				return Equation{}, err
			}
			acc = acc.Sub(rhs)
		default:
			return acc, nil
		}
	}
}

func (p *parser) product() (Equation, error) {
	acc, err := p.unary()
	if err != nil {
		return Equation{}, err
	}
	for {
		switch {
		case p.acceptOp("*"):
			rhs, err := p.unary()
			if err != nil {
				return Equation{}, err
			}
			acc = acc.Mul(rhs)
		case p.acceptOp("/"):
			rhs, err := p.unary()
			if err != nil {
				return Equation{}, err
			}
			if !rhs.IsConstant() {
				return Equation{}, fmt.Errorf("%w: %s", ErrNonConstantDivisor, rhs)
			}
			var terms []Monomial
			for _, m := range acc.terms {
				c, err := m.coef.Div(rhs.ConstantTerm())
				if err != nil {
					return Equation{}, err
				}
				terms = addInto(terms, term(c, m.powers))
			}
			acc = Equation{terms: terms}
		default:
			return acc, nil
		}
	}
}

func (p *parser) unary() (Equation, error) {
	if p.acceptOp("-") {
		e, err := p.unary()
		if err != nil {
			return Equation{}, err
		}

		return e.Neg(), nil
	}
	if p.acceptOp("+") {
		return p.unary()
	}

	return p.power()
}

func (p *parser) power() (Equation, error) {
	base, err := p.atom()
	if err != nil {
		return Equation{}, err
	}
	if p.acceptOp("**") || p.acceptOp("^") {
		t := p.peek()
		if p.done() || t.kind != tokNum {
			return Equation{}, fmt.Errorf("%w: exponent must be a non-negative integer", ErrParse)
		}
		k, err := strconv.Atoi(t.text)
		if err != nil || k < 0 {
			return Equation{}, fmt.Errorf("%w: bad exponent %q", ErrParse, t.text)
		}
		p.pos++

		return base.Pow(k), nil
	}

	return base, nil
}

func (p *parser) atom() (Equation, error) {
	if p.done() {
		return Equation{}, fmt.Errorf("%w: unexpected end of input", ErrParse)
	}
	t := p.toks[p.pos]
	switch t.kind {
	case tokNum:
		p.pos++
		r, ok := new(big.Rat).SetString(t.text)
		if !ok {
			return Equation{}, fmt.Errorf("%w: bad number %q", ErrParse, t.text)
		}

		return Const(Known(r)), nil
	case tokIdent:
		p.pos++
		if p.opts.isVar(t.text) {
			return Var(t.text), nil
		}

		return Const(Unknown(t.text)), nil
	}
	if p.acceptOp("(") {
		e, err := p.sum()
		if err != nil {
			return Equation{}, err
		}
		if !p.acceptOp(")") {
			return Equation{}, fmt.Errorf("%w: missing ')'", ErrParse)
		}

		return e, nil
	}

	return Equation{}, fmt.Errorf("%w: unexpected %q", ErrParse, t.text)
}
