package polynomial

import (
	"math/big"
)

// Coefficient is the tagged union Known(*big.Rat) | Symbolic(Expr).
//
// The zero value is Known(0). A symbolic expression that folds to a literal is
// always stored as Known, so IsKnown is a reliable tag.
type Coefficient struct {
	known *big.Rat // valid when sym == nil
	sym   Expr     // non-nil for symbolic coefficients
}

// Known returns the exact coefficient r (copied).
func Known(r *big.Rat) Coefficient {
	if r == nil {
		return Coefficient{known: new(big.Rat)}
	}

	return Coefficient{known: new(big.Rat).Set(r)}
}

// KnownInt returns the integer coefficient n.
func KnownInt(n int64) Coefficient { return Coefficient{known: new(big.Rat).SetInt64(n)} }

// KnownFrac returns the coefficient num/den. den must be non-zero.
func KnownFrac(num, den int64) Coefficient { return Coefficient{known: big.NewRat(num, den)} }

// Symbolic wraps e; literal expressions collapse to Known.
func Symbolic(e Expr) Coefficient {
	if l, ok := e.(Lit); ok {
		return Known(l.rat())
	}

	return Coefficient{sym: e}
}

// Unknown returns the symbolic coefficient consisting of the single name ident.
func Unknown(ident string) Coefficient { return Coefficient{sym: Name{Ident: ident}} }

// IsKnown reports whether c holds an exact rational.
func (c Coefficient) IsKnown() bool { return c.sym == nil }

// Rat returns a copy of the known value, or nil for symbolic coefficients.
func (c Coefficient) Rat() *big.Rat {
	if c.sym != nil {
		return nil
	}
	if c.known == nil {
		return new(big.Rat)
	}

	return new(big.Rat).Set(c.known)
}

// Expr returns c as an expression; Known values become Lit.
func (c Coefficient) Expr() Expr {
	if c.sym != nil {
		return c.sym
	}

	return Lit{Value: c.Rat()}
}

// IsZero reports whether c is Known(0). Symbolic coefficients are never zero.
func (c Coefficient) IsZero() bool { return c.sym == nil && (c.known == nil || c.known.Sign() == 0) }

// IsOne reports whether c is Known(1).
func (c Coefficient) IsOne() bool {
	return c.sym == nil && c.known != nil && c.known.Cmp(big.NewRat(1, 1)) == 0
}

// Add returns c+o. Known+Known is exact; anything else builds a Sum node.
func (c Coefficient) Add(o Coefficient) Coefficient {
	if c.IsKnown() && o.IsKnown() {
		return Coefficient{known: new(big.Rat).Add(c.Rat(), o.Rat())}
	}

	return Symbolic(AddExpr(c.Expr(), o.Expr()))
}

// Mul returns c*o.
func (c Coefficient) Mul(o Coefficient) Coefficient {
	if c.IsKnown() && o.IsKnown() {
		return Coefficient{known: new(big.Rat).Mul(c.Rat(), o.Rat())}
	}
	if c.IsZero() || o.IsZero() {
		return KnownInt(0)
	}

	return Symbolic(MulExpr(c.Expr(), o.Expr()))
}

// Neg returns -c.
func (c Coefficient) Neg() Coefficient {
	if c.IsKnown() {
		return Coefficient{known: new(big.Rat).Neg(c.Rat())}
	}

	return Symbolic(NegExpr(c.sym))
}

// Div returns c/o; o must not mention variables, and a known zero divisor fails.
func (c Coefficient) Div(o Coefficient) (Coefficient, error) {
	if o.IsZero() {
		return Coefficient{}, ErrDivisionByZero
	}
	if c.IsKnown() && o.IsKnown() {
		return Coefficient{known: new(big.Rat).Quo(c.Rat(), o.Rat())}, nil
	}
	e, err := DivExpr(c.Expr(), o.Expr())
	if err != nil {
		return Coefficient{}, err
	}

	return Symbolic(e), nil
}

// Negative reports whether c renders with a leading minus sign.
func (c Coefficient) Negative() bool {
	if c.IsKnown() {
		return c.Rat().Sign() < 0
	}
	neg, _ := splitSign(c.sym)

	return neg
}

// Abs returns c without its syntactic sign.
func (c Coefficient) Abs() Coefficient {
	if c.IsKnown() {
		return Coefficient{known: new(big.Rat).Abs(c.Rat())}
	}
	_, abs := splitSign(c.sym)

	return Symbolic(abs)
}

// Eval evaluates c exactly under env.
func (c Coefficient) Eval(env map[string]*big.Rat) (*big.Rat, error) {
	if c.IsKnown() {
		return c.Rat(), nil
	}

	return Eval(c.sym, env)
}

// Names returns the sorted unknown names in c.
func (c Coefficient) Names() []string {
	if c.IsKnown() {
		return nil
	}

	return Names(c.sym)
}

// String renders c in infix form. Known fractions render as a/b.
func (c Coefficient) String() string {
	if c.IsKnown() {
		return c.Rat().RatString()
	}

	return c.sym.String()
}

// Prefix renders c in SMT-LIB prefix form.
func (c Coefficient) Prefix() string {
	if c.IsKnown() {
		return ratPrefix(c.Rat())
	}

	return c.sym.Prefix()
}
