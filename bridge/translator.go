package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/katalvlaran/ltlcert/logging"
)

// DefaultTranslatorCommand is the owl executable used when none is configured.
const DefaultTranslatorCommand = "owl"

// Translator runs the LTL-to-LDBA translator.
type Translator struct {
	command string
	timeout time.Duration
	log     *slog.Logger
}

// TranslatorOption configures a Translator.
type TranslatorOption func(*Translator)

// WithTranslatorTimeout bounds one run.
func WithTranslatorTimeout(d time.Duration) TranslatorOption {
	return func(t *Translator) { t.timeout = d }
}

// WithTranslatorLogger injects the logger.
func WithTranslatorLogger(l *slog.Logger) TranslatorOption {
	return func(t *Translator) { t.log = logging.OrNop(l) }
}

// NewTranslator returns a Translator running command
// (DefaultTranslatorCommand if empty).
func NewTranslator(command string, opts ...TranslatorOption) *Translator {
	if strings.TrimSpace(command) == "" {
		command = DefaultTranslatorCommand
	}
	t := &Translator{command: command, log: logging.Nop()}
	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Args returns the translator arguments for formula.
func (t *Translator) Args(formula string) []string {
	return []string{"ltl2ldba", "-f", formula, "--state-acceptance", "--complete"}
}

// Translate returns the HOA text of the LDBA for formula.
func (t *Translator) Translate(ctx context.Context, formula string) (string, error) {
	if strings.TrimSpace(formula) == "" {
		return "", fmt.Errorf("%w: empty formula", ErrTranslatorFailed)
	}
	path, err := resolve(t.command)
	if err != nil {
		return "", err
	}
	t.log.Debug("translator started", slog.String("command", path), slog.String("formula", formula))

	out, stderr, err := run(ctx, t.timeout, path, t.Args(formula))
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		return "", fmt.Errorf("%w: %w: %s", ErrTranslatorFailed, err, stderr)
	}
	hoa := strings.TrimSpace(string(out))
	if hoa == "" {
		return "", fmt.Errorf("%w: empty output for %q", ErrTranslatorFailed, formula)
	}

	return hoa + "\n", nil
}
