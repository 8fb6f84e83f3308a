package system_test

import (
	"fmt"

	"github.com/katalvlaran/ltlcert/polynomial"
	"github.com/katalvlaran/ltlcert/system"
)

// ExampleExpect computes the expected successor of S1' = S1/2 + D1 squared
// under uniform noise on [-1, 1].
func ExampleExpect() {
	d, _ := system.NewDisturbance("uniform", 1, map[string][]float64{"low": {-1}, "high": {1}})
	p, _ := system.ParsePiece("", []string{"S1/2 + D1"}, polynomial.StrictRejected)

	next := p.Successor(nil)["S1"]
	e, _ := system.Expect(d, next.Mul(next))
	fmt.Println(e)
	// Output:
	// 1/4*S1**2 + 1/3
}
