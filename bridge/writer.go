package bridge

import (
	"bufio"
	"io"

	"github.com/katalvlaran/ltlcert/constraint"
)

// WriteProblem serializes the declarations, one assertion per implication and
// the closing (check-sat) (get-model) commands.
func WriteProblem(w io.Writer, constants []string, implications []constraint.Implication) error {
	bw := bufio.NewWriter(w)
	for _, n := range constants {
		bw.WriteString("(declare-const ")
		bw.WriteString(n)
		bw.WriteString(" Real)\n")
	}
	bw.WriteByte('\n')
	for _, im := range implications {
		bw.WriteString("(assert ")
		bw.WriteString(im.Prefix())
		bw.WriteString(")\n")
	}
	bw.WriteString("\n(check-sat)\n(get-model)\n")

	return bw.Flush()
}
