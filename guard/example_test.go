package guard_test

import (
	"fmt"

	"github.com/katalvlaran/ltlcert/guard"
)

// ExampleInfixToPrefix converts an HOA-style label to prefix form.
func ExampleInfixToPrefix() {
	p, _ := guard.InfixToPrefix("a&b|!c")
	fmt.Println(p)
	// Output:
	// (| (& a b) (! c))
}
