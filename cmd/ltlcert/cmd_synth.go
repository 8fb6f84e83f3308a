package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/ltlcert/constraint"
	"github.com/katalvlaran/ltlcert/pipeline"
)

func newSynthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "synth <problem.yaml>",
		Short: "Translate, compile and solve one problem",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.runner("", false)
			if err != nil {
				return err
			}
			rep, err := r.Run(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printSummary(w, rep)
			fmt.Fprintln(w, "verdict:", rep.Verdict)
			fmt.Fprint(w, rep.Model)

			return nil
		},
	}
}

func newEmitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "emit <problem.yaml>",
		Short: "Compile one problem and write problem.smt2 without solving",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.runner("", true)
			if err != nil {
				return err
			}
			rep, err := r.Run(commandContext(cmd), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			printSummary(w, rep)
			for _, k := range constraint.Kinds() {
				if n := rep.Result.Counts[k]; n > 0 {
					fmt.Fprintf(w, "  %-26s %d\n", k, n)
				}
			}

			return nil
		},
	}
}

func printSummary(w io.Writer, rep *pipeline.Report) {
	fmt.Fprintln(w, "run:", rep.RunID)
	fmt.Fprintln(w, "out:", rep.OutDir)
	if rep.Automaton != nil {
		fmt.Fprintf(w, "automaton: %d states, %d acceptance sets\n", rep.Automaton.Len(), rep.Automaton.BuchiSets())
	}
	if rep.Result != nil {
		fmt.Fprintf(w, "implications: %d, unknowns: %d\n", len(rep.Result.Implications), len(rep.Result.Constants))
	}
}
