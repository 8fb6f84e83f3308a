package system

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/katalvlaran/ltlcert/polynomial"
)

// Distribution names accepted by NewDisturbance.
const (
	NormalDistribution  = "normal"
	UniformDistribution = "uniform"
)

// Disturbance is an independent per-dimension noise model.
type Disturbance interface {
	// Dimension returns the number of disturbance variables.
	Dimension() int
	// Moments returns, per dimension, E[D_i**j] for j = 1..order.
	Moments(order int) []map[int]polynomial.Coefficient
	// Bounds returns the support of each dimension; nil when unbounded.
	Bounds() []Bound
}

// Bound is the closed support [Low, High] of one disturbance variable.
type Bound struct {
	Var       string
	Low, High *big.Rat
}

// Inequalities returns Var >= Low and Var <= High.
func (b Bound) Inequalities() []polynomial.Inequality {
	v := polynomial.Var(b.Var)

	return []polynomial.Inequality{
		polynomial.AtLeast(v, polynomial.Const(polynomial.Known(b.Low))),
		polynomial.AtMost(v, polynomial.Const(polynomial.Known(b.High))),
	}
}

// Normal is Gaussian noise with per-dimension mean and standard deviation.
type Normal struct {
	Mean   []*big.Rat
	StdDev []*big.Rat
}

// NewNormal validates that mean and stdDev have dim entries and stdDev >= 0.
func NewNormal(dim int, mean, stdDev []*big.Rat) (*Normal, error) {
	if len(mean) != dim || len(stdDev) != dim {
		return nil, fmt.Errorf("%w: normal mean %d, std_dev %d, dimension %d",
			ErrDimensionMismatch, len(mean), len(stdDev), dim)
	}
	for i, s := range stdDev {
		if mean[i] == nil || s == nil || s.Sign() < 0 {
			return nil, fmt.Errorf("%w: normal dimension %d", ErrInvalidParameter, i+1)
		}
	}

	return &Normal{Mean: mean, StdDev: stdDev}, nil
}

// Dimension implements Disturbance.
func (n *Normal) Dimension() int { return len(n.Mean) }

// Moments implements Disturbance with the exact recurrence
//
//	m_0 = 1, m_1 = μ, m_k = μ m_{k-1} + (k-1) σ² m_{k-2}.
func (n *Normal) Moments(order int) []map[int]polynomial.Coefficient {
	out := make([]map[int]polynomial.Coefficient, len(n.Mean))
	for i, mu := range n.Mean {
		sigma2 := new(big.Rat).Mul(n.StdDev[i], n.StdDev[i])
		table := make(map[int]polynomial.Coefficient, order)
		prev2, prev := big.NewRat(1, 1), new(big.Rat).Set(mu)
		for k := 1; k <= order; k++ {
			if k > 1 {
				a := new(big.Rat).Mul(mu, prev)
				b := new(big.Rat).Mul(sigma2, prev2)
				b.Mul(b, big.NewRat(int64(k-1), 1))
				prev2, prev = prev, a.Add(a, b)
			}
			table[k] = polynomial.Known(prev)
		}
		out[i] = table
	}

	return out
}

// Bounds implements Disturbance; Gaussian noise is unbounded.
func (n *Normal) Bounds() []Bound { return nil }

// Uniform is uniform noise on [Low_i, High_i] per dimension.
type Uniform struct {
	Low  []*big.Rat
	High []*big.Rat
}

// NewUniform validates that low and high have dim entries and low < high.
func NewUniform(dim int, low, high []*big.Rat) (*Uniform, error) {
	if len(low) != dim || len(high) != dim {
		return nil, fmt.Errorf("%w: uniform low %d, high %d, dimension %d",
			ErrDimensionMismatch, len(low), len(high), dim)
	}
	for i := range low {
		if low[i] == nil || high[i] == nil || low[i].Cmp(high[i]) >= 0 {
			return nil, fmt.Errorf("%w: uniform dimension %d needs low < high", ErrInvalidParameter, i+1)
		}
	}

	return &Uniform{Low: low, High: high}, nil
}

// Dimension implements Disturbance.
func (u *Uniform) Dimension() int { return len(u.Low) }

// Moments implements Disturbance with E[D**k] = (b^{k+1} - a^{k+1}) / ((k+1)(b-a)).
func (u *Uniform) Moments(order int) []map[int]polynomial.Coefficient {
	out := make([]map[int]polynomial.Coefficient, len(u.Low))
	for i := range u.Low {
		a, b := u.Low[i], u.High[i]
		width := new(big.Rat).Sub(b, a)
		table := make(map[int]polynomial.Coefficient, order)
		for k := 1; k <= order; k++ {
			num := new(big.Rat).Sub(ratPow(b, k+1), ratPow(a, k+1))
			den := new(big.Rat).Mul(width, big.NewRat(int64(k+1), 1))
			table[k] = polynomial.Known(num.Quo(num, den))
		}
		out[i] = table
	}

	return out
}

// Bounds implements Disturbance.
func (u *Uniform) Bounds() []Bound {
	out := make([]Bound, len(u.Low))
	for i := range u.Low {
		out[i] = Bound{Var: DisturbancePrefix + strconv.Itoa(i+1), Low: u.Low[i], High: u.High[i]}
	}

	return out
}

func ratPow(x *big.Rat, k int) *big.Rat {
	out := big.NewRat(1, 1)
	for i := 0; i < k; i++ {
		out.Mul(out, x)
	}

	return out
}

// NewDisturbance builds a distribution by name. Normal reads params "mean" and
// "std_dev"; uniform reads "low" and "high". A zero dimension yields nil.
func NewDisturbance(name string, dim int, params map[string][]float64) (Disturbance, error) {
	if dim < 0 {
		return nil, fmt.Errorf("%w: disturbance dimension %d", ErrDimensionMismatch, dim)
	}
	if dim == 0 {
		return nil, nil
	}
	switch strings.ToLower(name) {
	case NormalDistribution:
		n, err := NewNormal(dim, Rats(params["mean"]), Rats(params["std_dev"]))
		if err != nil {
			return nil, err
		}

		return n, nil
	case UniformDistribution:
		u, err := NewUniform(dim, Rats(params["low"]), Rats(params["high"]))
		if err != nil {
			return nil, err
		}

		return u, nil
	}

	return nil, fmt.Errorf("%w: %q (valid: %s, %s)", ErrUnknownDistribution, name, NormalDistribution, UniformDistribution)
}

// Expect replaces every disturbance power D_i**j in e by its moment.
// A nil disturbance leaves e unchanged.
func Expect(d Disturbance, e polynomial.Equation) (polynomial.Equation, error) {
	if d == nil {
		return e, nil
	}
	moments := d.Moments(e.Degree())
	var err error
	for i, table := range moments {
		if e, err = e.ReplacePowers(DisturbancePrefix+strconv.Itoa(i+1), table); err != nil {
			return polynomial.Equation{}, err
		}
	}

	return e, nil
}

// BoundInequalities returns the support constraints of every bounded dimension.
func BoundInequalities(d Disturbance) []polynomial.Inequality {
	if d == nil {
		return nil
	}
	var out []polynomial.Inequality
	for _, b := range d.Bounds() {
		out = append(out, b.Inequalities()...)
	}

	return out
}
