package contract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/pytyped/typescore/schema"
)

// LocalPyrightClient implements the TypeChecker interface by executing
// pyright as a module of the same interpreter that performed the installs.
type LocalPyrightClient struct {
	python string
}

var _ TypeChecker = &LocalPyrightClient{} // Compile-time check

// NewLocalPyrightClient creates a new checker client bound to the given interpreter.
func NewLocalPyrightClient(python string) *LocalPyrightClient {
	return &LocalPyrightClient{python: python}
}

// VerifyTypes runs pyright in verify-type-completeness mode against a module.
// Exit code 0 means a clean report on stdout; exit code 1 is pyright's own
// convention for "ran fine, found incompleteness" and still carries a full
// report on stdout. Any other exit code is a real failure.
func (c *LocalPyrightClient) VerifyTypes(ctx context.Context, module string) (schema.VerifyOutcome, error) {
	cmd := exec.CommandContext(ctx, c.python,
		"-m", "pyright", "--verifytypes", module, "--ignoreexternal", "--outputjson")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return schema.VerifyOutcome{Kind: schema.VerifyClean, Report: stdout.Bytes()}, nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return schema.VerifyOutcome{}, fmt.Errorf("pyright invocation failed: %w. Ensure %q is installed and on your PATH", err, c.python)
	}

	if exitErr.ExitCode() == 1 {
		return schema.VerifyOutcome{Kind: schema.VerifyIncomplete, Report: stdout.Bytes()}, nil
	}

	return schema.VerifyOutcome{
		Kind:   schema.VerifyFailed,
		Code:   exitErr.ExitCode(),
		Stderr: stderr.String(),
	}, nil
}
