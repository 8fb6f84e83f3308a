// Command ltlcert compiles LTL control and verification problems over
// polynomial stochastic systems into supermartingale certificate constraints
// and hands them to a Positivstellensatz solver.
//
//	ltlcert synth problem.yaml          full run: translate, compile, solve
//	ltlcert emit problem.yaml           stop after writing problem.smt2
//	ltlcert classify ldba.hoa           print the LDBA classification and component DAG
//	ltlcert batch -j 4 a.yaml b.yaml    independent runs in parallel
//	ltlcert runs --db runs.db           list stored runs
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "ltlcert:", err)
		os.Exit(1)
	}
}
