package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/ltlcert/pipeline"
)

type batchResult struct {
	input string
	rep   *pipeline.Report
	err   error
}

func newBatchCmd(a *app) *cobra.Command {
	var (
		jobs      int
		skipSolve bool
	)
	cmd := &cobra.Command{
		Use:   "batch <problem.yaml>...",
		Short: "Run independent problems concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if jobs < 1 {
				return fmt.Errorf("--jobs must be positive, got %d", jobs)
			}
			ctx := commandContext(cmd)
			results := make([]batchResult, len(args))

			var g errgroup.Group
			g.SetLimit(jobs)
			for i, input := range args {
				out := ""
				if a.out != "" {
					out = filepath.Join(a.out, fmt.Sprintf("%02d_%s", i, strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))))
				}
				r, err := a.runner(out, skipSolve)
				if err != nil {
					return err
				}
				g.Go(func() error {
					rep, err := r.Run(ctx, input)
					results[i] = batchResult{input: input, rep: rep, err: err}
					return nil
				})
			}
			_ = g.Wait()

			w := cmd.OutOrStdout()
			failed := 0
			for _, res := range results {
				if res.err != nil {
					failed++
					fmt.Fprintf(w, "%s\tfailed\t%v\n", res.input, res.err)
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", res.input, res.rep.Verdict, res.rep.RunID, res.rep.OutDir)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d runs failed", failed, len(args))
			}

			return nil
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 2, "maximum concurrent runs")
	cmd.Flags().BoolVar(&skipSolve, "emit-only", false, "stop every run after serialization")

	return cmd
}
