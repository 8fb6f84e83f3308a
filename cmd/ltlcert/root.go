package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/ltlcert/logging"
	"github.com/katalvlaran/ltlcert/metrics"
	"github.com/katalvlaran/ltlcert/pipeline"
	"github.com/katalvlaran/ltlcert/polynomial"
	"github.com/katalvlaran/ltlcert/store"
)

// version is set with -ldflags "-X main.version=...".
var version = "dev"

// app carries the persistent flags and the resources built from them.
type app struct {
	logLevel    string
	logJSON     bool
	logDir      string
	out         string
	db          string
	metricsFile string
	strictMode  string

	logger *logging.Logger
	rec    *metrics.Recorder
	store  store.Store
}

// execute runs the command line args and releases the resources it opened,
// whether or not the command succeeded.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root, a := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)

	return errors.Join(err, a.teardown())
}

func newRootCmd() (*cobra.Command, *app) {
	a := &app{}
	root := &cobra.Command{
		Use:           "ltlcert",
		Short:         "Supermartingale certificate constraints for LTL objectives",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&a.logLevel, "log-level", "info", "debug, info, warn or error")
	f.BoolVar(&a.logJSON, "log-json", false, "log JSON instead of text")
	f.StringVar(&a.logDir, "log-dir", "", "also write JSON logs into this directory")
	f.StringVarP(&a.out, "out", "o", "", "output directory (default <input dir>/temp/<run id>)")
	f.StringVar(&a.db, "db", "", "SQLite database recording runs")
	f.StringVar(&a.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile on exit")
	f.StringVar(&a.strictMode, "strict-mode", "", "override strict comparison handling: strict_rejected or strict_relaxed")

	root.AddCommand(
		newSynthCmd(a),
		newEmitCmd(a),
		newClassifyCmd(a),
		newBatchCmd(a),
		newRunsCmd(a),
		newVersionCmd(),
	)

	return root, a
}

func (a *app) setup(cmd *cobra.Command) error {
	lvl, err := logging.ParseLevel(a.logLevel)
	if err != nil {
		return err
	}
	a.logger = logging.New(logging.Config{
		Level:   lvl,
		LogDir:  a.logDir,
		Service: "ltlcert",
		JSON:    a.logJSON,
		Output:  cmd.ErrOrStderr(),
	})
	if a.metricsFile != "" {
		a.rec = metrics.NewRecorder()
	}
	if a.db != "" {
		s := store.NewSQLiteStore(a.db)
		if err = s.Init(commandContext(cmd)); err != nil {
			return fmt.Errorf("open %s: %w", a.db, err)
		}
		a.store = s
	}

	return nil
}

// teardown writes metrics and closes the store and the logger, once.
func (a *app) teardown() error {
	var errs []error
	if a.rec != nil {
		errs = append(errs, a.rec.WriteTextfile(a.metricsFile))
		a.rec = nil
	}
	if a.store != nil {
		errs = append(errs, a.store.Close())
		a.store = nil
	}
	if a.logger != nil {
		errs = append(errs, a.logger.Close())
		a.logger = nil
	}

	return errors.Join(errs...)
}

func (a *app) log() *slog.Logger {
	if a.logger == nil {
		return logging.Nop()
	}

	return a.logger.Slog()
}

// runner builds a pipeline runner; outDir overrides --out when non-empty.
func (a *app) runner(outDir string, skipSolve bool) (*pipeline.Runner, error) {
	opts := []pipeline.Option{
		pipeline.WithLogger(a.log()),
		pipeline.WithMetrics(a.rec),
		pipeline.WithSkipSolve(skipSolve),
	}
	if outDir == "" {
		outDir = a.out
	}
	if outDir != "" {
		opts = append(opts, pipeline.WithOutDir(outDir))
	}
	if a.store != nil {
		opts = append(opts, pipeline.WithStore(a.store))
	}
	if a.strictMode != "" {
		m, err := polynomial.ParseStrictMode(a.strictMode)
		if err != nil {
			return nil, err
		}
		opts = append(opts, pipeline.WithStrictMode(m))
	}

	return pipeline.NewRunner(opts...), nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "ltlcert", version)
		},
	}
}
