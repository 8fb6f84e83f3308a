package bridge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// maxStderr bounds the stderr excerpt carried in errors.
const maxStderr = 512

// resolve finds bin on PATH, or checks it directly when it has a separator.
func resolve(bin string) (string, error) {
	bin = strings.TrimSpace(bin)
	if bin == "" {
		return "", fmt.Errorf("%w: empty command", ErrExecutableNotFound)
	}
	path, err := exec.LookPath(bin)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExecutableNotFound, err)
	}

	return path, nil
}

// run executes path with args under ctx (bounded by timeout when positive)
// and returns stdout. A failed run returns the cause and a stderr excerpt.
func run(ctx context.Context, timeout time.Duration, path string, args []string) ([]byte, string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, excerpt(stderr.String()), ctxErr
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, excerpt(stderr.String()), fmt.Errorf("exit status %d", exitErr.ExitCode())
		}

		return nil, excerpt(stderr.String()), err
	}

	return stdout.Bytes(), excerpt(stderr.String()), nil
}

func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > maxStderr {
		return s[:maxStderr] + "..."
	}

	return s
}
