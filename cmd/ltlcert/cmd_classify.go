package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/ltlcert/automaton"
)

func newClassifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <ldba.hoa>",
		Short: "Print the state classification and component DAG of an LDBA",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			rec, err := automaton.ReadHOA(f)
			if err != nil {
				return err
			}
			aut, err := automaton.Build(rec,
				automaton.WithLogger(a.log()),
				automaton.WithContext(commandContext(cmd)))
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "start %d, %d acceptance sets\n", aut.Start(), aut.BuchiSets())
			for _, s := range aut.States() {
				mark := ""
				if s.Synthetic {
					mark = " synthetic"
				}
				fmt.Fprintf(w, "%d\t%s\t%v%s\n", s.ID, s.Status, s.Signature, mark)
			}
			for i, comp := range aut.AcceptingComponents() {
				fmt.Fprintf(w, "accepting component %d: %v\n", i, comp)
			}
			for i, c := range aut.Condensation() {
				mark := ""
				if c.Bottom {
					mark = " bottom"
				}
				fmt.Fprintf(w, "component %d: %v -> %v%s\n", i, c.States, c.Successors, mark)
			}
			for _, id := range aut.NonAcceptingIDs() {
				if path, ok := aut.PathToAcceptance(id); ok {
					fmt.Fprintf(w, "path %d: %v\n", id, path)
				}
			}

			return nil
		},
	}
}
