package polynomial

import (
	"fmt"
	"math/big"
	"sort"
	"strings"
)

// Expr is a symbolic coefficient expression.
// The implementations are exactly Lit, Name, Sum, Product, Neg and Quotient.
type Expr interface {
	// String renders the expression in infix form accepted by Parse.
	String() string
	// Prefix renders the expression in SMT-LIB prefix form.
	Prefix() string

	isExpr()
}

// Lit is an exact rational literal.
type Lit struct{ Value *big.Rat }

// Name is an unknown constant, e.g. a certificate coefficient.
type Name struct{ Ident string }

// Sum is an n-ary sum.
type Sum struct{ Terms []Expr }

// Product is an n-ary product.
type Product struct{ Factors []Expr }

// Neg is an arithmetic negation.
type Neg struct{ X Expr }

// Quotient is an exact division.
type Quotient struct{ Num, Den Expr }

func (Lit) isExpr()      {}
func (Name) isExpr()     {}
func (Sum) isExpr()      {}
func (Product) isExpr()  {}
func (Neg) isExpr()      {}
func (Quotient) isExpr() {}

// NewLit returns a literal holding a copy of r.
func NewLit(r *big.Rat) Lit { return Lit{Value: new(big.Rat).Set(r)} }

// IntLit returns the integer literal n.
func IntLit(n int64) Lit { return Lit{Value: new(big.Rat).SetInt64(n)} }

// NewName returns the named unknown ident.
func NewName(ident string) Name { return Name{Ident: ident} }

func (l Lit) rat() *big.Rat {
	if l.Value == nil {
		return new(big.Rat)
	}

	return l.Value
}

// String renders integers bare and wraps negatives and fractions in parentheses.
func (l Lit) String() string {
	r := l.rat()
	if r.IsInt() && r.Sign() >= 0 {
		return r.RatString()
	}

	return "(" + r.RatString() + ")"
}

// Prefix renders the literal as an SMT-LIB real term.
func (l Lit) Prefix() string { return ratPrefix(l.rat()) }

func (n Name) String() string { return n.Ident }
func (n Name) Prefix() string { return n.Ident }

func (s Sum) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, t := range s.Terms {
		neg, abs := splitSign(t)
		switch {
		case i == 0 && neg:
			b.WriteString("-")
		case i > 0 && neg:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		b.WriteString(abs.String())
	}
	b.WriteByte(')')

	return b.String()
}

// Prefix renders the sum right-nested: (+ a (+ b c)).
func (s Sum) Prefix() string {
	parts := make([]string, len(s.Terms))
	for i, t := range s.Terms {
		parts[i] = t.Prefix()
	}

	return nestRight("+", parts)
}

func (p Product) String() string {
	parts := make([]string, len(p.Factors))
	for i, f := range p.Factors {
		parts[i] = atomString(f)
	}

	return strings.Join(parts, "*")
}

func (p Product) Prefix() string {
	parts := make([]string, len(p.Factors))
	for i, f := range p.Factors {
		parts[i] = f.Prefix()
	}

	return "(* " + strings.Join(parts, " ") + ")"
}

func (n Neg) String() string { return "(-" + atomString(n.X) + ")" }
func (n Neg) Prefix() string { return "(- " + n.X.Prefix() + ")" }

func (q Quotient) String() string {
	return "(" + atomString(q.Num) + "/" + atomString(q.Den) + ")"
}

func (q Quotient) Prefix() string { return "(/ " + q.Num.Prefix() + " " + q.Den.Prefix() + ")" }

// atomString wraps products so they bind correctly inside '*' and '/'.
func atomString(e Expr) string {
	if p, ok := e.(Product); ok && len(p.Factors) > 1 {
		return "(" + p.String() + ")"
	}

	return e.String()
}

// splitSign reports whether e is syntactically negative and returns its magnitude.
func splitSign(e Expr) (bool, Expr) {
	switch v := e.(type) {
	case Neg:
		return true, v.X
	case Lit:
		if v.rat().Sign() < 0 {
			return true, Lit{Value: new(big.Rat).Neg(v.rat())}
		}
	}

	return false, e
}

func ratPrefix(r *big.Rat) string {
	abs := new(big.Rat).Abs(r)
	var s string
	if abs.IsInt() {
		s = abs.Num().String()
	} else {
		s = "(/ " + abs.Num().String() + " " + abs.Denom().String() + ")"
	}
	if r.Sign() < 0 {
		return "(- " + s + ")"
	}

	return s
}

func nestRight(op string, parts []string) string {
	switch len(parts) {
	case 0:
		return "0"
	case 1:
		return parts[0]
	}
	out := parts[len(parts)-1]
	for i := len(parts) - 2; i >= 0; i-- {
		out = "(" + op + " " + parts[i] + " " + out + ")"
	}

	return out
}

// AddExpr returns a+b. Literals fold, sums flatten and like symbolic terms
// (same body up to a literal factor) are combined, so c - c folds to 0.
func AddExpr(a, b Expr) Expr {
	lit := new(big.Rat)
	var (
		order  []string
		bodies = make(map[string]Expr)
		coefs  = make(map[string]*big.Rat)
	)
	var collect func(e Expr)
	collect = func(e Expr) {
		switch v := e.(type) {
		case Lit:
			lit.Add(lit, v.rat())
		case Sum:
			for _, t := range v.Terms {
				collect(t)
			}
		default:
			c, body := splitLiteral(e)
			key := body.String()
			if _, ok := coefs[key]; !ok {
				order = append(order, key)
				bodies[key] = body
				coefs[key] = new(big.Rat)
			}
			coefs[key].Add(coefs[key], c)
		}
	}
	collect(a)
	collect(b)

	var rest []Expr
	for _, key := range order {
		if coefs[key].Sign() == 0 {
			continue
		}
		rest = append(rest, MulExpr(Lit{Value: coefs[key]}, bodies[key]))
	}
	if lit.Sign() != 0 {
		rest = append(rest, Lit{Value: lit})
	}
	switch len(rest) {
	case 0:
		return IntLit(0)
	case 1:
		return rest[0]
	}

	return Sum{Terms: rest}
}

// splitLiteral separates the literal factor of a term from its symbolic body.
func splitLiteral(e Expr) (*big.Rat, Expr) {
	switch v := e.(type) {
	case Neg:
		c, body := splitLiteral(v.X)
		return c.Neg(c), body
	case Product:
		c := new(big.Rat).SetInt64(1)
		var rest []Expr
		for _, f := range v.Factors {
			if l, ok := f.(Lit); ok {
				c.Mul(c, l.rat())
				continue
			}
			rest = append(rest, f)
		}
		switch len(rest) {
		case 0:
			return c, IntLit(1)
		case 1:
			return c, rest[0]
		}

		return c, Product{Factors: rest}
	}

	return new(big.Rat).SetInt64(1), e
}

// MulExpr returns a*b with literal folding and product flattening.
func MulExpr(a, b Expr) Expr {
	lit := new(big.Rat).SetInt64(1)
	var rest []Expr
	var collect func(e Expr)
	collect = func(e Expr) {
		switch v := e.(type) {
		case Lit:
			lit.Mul(lit, v.rat())
		case Neg:
			lit.Neg(lit)
			collect(v.X)
		case Product:
			for _, f := range v.Factors {
				if l, ok := f.(Lit); ok {
					lit.Mul(lit, l.rat())
					continue
				}
				rest = append(rest, f)
			}
		default:
			rest = append(rest, e)
		}
	}
	collect(a)
	collect(b)

	if lit.Sign() == 0 {
		return IntLit(0)
	}
	if len(rest) == 0 {
		return Lit{Value: lit}
	}

	var body Expr
	if len(rest) == 1 {
		body = rest[0]
	} else {
		body = Product{Factors: rest}
	}
	abs := new(big.Rat).Abs(lit)
	if abs.Cmp(big.NewRat(1, 1)) != 0 {
		if p, ok := body.(Product); ok {
			body = Product{Factors: append([]Expr{Lit{Value: abs}}, p.Factors...)}
		} else {
			body = Product{Factors: []Expr{Lit{Value: abs}, body}}
		}
	}
	if lit.Sign() < 0 {
		return Neg{X: body}
	}

	return body
}

// NegExpr returns -a.
func NegExpr(a Expr) Expr {
	switch v := a.(type) {
	case Lit:
		return Lit{Value: new(big.Rat).Neg(v.rat())}
	case Neg:
		return v.X
	}

	return Neg{X: a}
}

// DivExpr returns a/b. Division by a literal zero fails.
func DivExpr(a, b Expr) (Expr, error) {
	if lb, ok := b.(Lit); ok {
		if lb.rat().Sign() == 0 {
			return nil, ErrDivisionByZero
		}
		inv := new(big.Rat).Inv(lb.rat())

		return MulExpr(a, Lit{Value: inv}), nil
	}
	if la, ok := a.(Lit); ok && la.rat().Sign() == 0 {
		return IntLit(0), nil
	}

	return Quotient{Num: a, Den: b}, nil
}

// Eval evaluates e exactly under env.
func Eval(e Expr, env map[string]*big.Rat) (*big.Rat, error) {
	switch v := e.(type) {
	case Lit:
		return new(big.Rat).Set(v.rat()), nil
	case Name:
		r, ok := env[v.Ident]
		if !ok || r == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnboundName, v.Ident)
		}

		return new(big.Rat).Set(r), nil
	case Sum:
		acc := new(big.Rat)
		for _, t := range v.Terms {
			r, err := Eval(t, env)
			if err != nil {
				return nil, err
			}
			acc.Add(acc, r)
		}

		return acc, nil
	case Product:
		acc := new(big.Rat).SetInt64(1)
		for _, f := range v.Factors {
			r, err := Eval(f, env)
			if err != nil {
				return nil, err
			}
			acc.Mul(acc, r)
		}

		return acc, nil
	case Neg:
		r, err := Eval(v.X, env)
		if err != nil {
			return nil, err
		}

		return r.Neg(r), nil
	case Quotient:
		n, err := Eval(v.Num, env)
		if err != nil {
			return nil, err
		}
		d, err := Eval(v.Den, env)
		if err != nil {
			return nil, err
		}
		if d.Sign() == 0 {
			return nil, ErrDivisionByZero
		}

		return n.Quo(n, d), nil
	}

	return nil, fmt.Errorf("polynomial: unsupported expression %T", e)
}

// Names returns the sorted set of identifiers referenced by e.
func Names(e Expr) []string {
	seen := make(map[string]struct{})
	collectNames(e, seen)
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)

	return out
}

func collectNames(e Expr, into map[string]struct{}) {
	switch v := e.(type) {
	case Name:
		into[v.Ident] = struct{}{}
	case Sum:
		for _, t := range v.Terms {
			collectNames(t, into)
		}
	case Product:
		for _, f := range v.Factors {
			collectNames(f, into)
		}
	case Neg:
		collectNames(v.X, into)
	case Quotient:
		collectNames(v.Num, into)
		collectNames(v.Den, into)
	}
}
