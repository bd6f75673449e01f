package contract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// LocalPipClient implements the PipClient interface by executing the package
// manager through a local Python interpreter. All invocations target the one
// environment that interpreter owns, so the client must never be driven
// concurrently.
type LocalPipClient struct {
	python string
}

var _ PipClient = &LocalPipClient{} // Compile-time check

// NewLocalPipClient creates a new pip client bound to the given interpreter.
func NewLocalPipClient(python string) *LocalPipClient {
	return &LocalPipClient{python: python}
}

// run executes a pip subcommand and returns its stdout.
func (c *LocalPipClient) run(ctx context.Context, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-m", "pip"}, args...)
	cmd := exec.CommandContext(ctx, c.python, fullArgs...)
	out, err := cmd.Output()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("pip %s failed: %s", args[0], stderr)
	} else if err != nil {
		return nil, fmt.Errorf("pip %s failed: %w. Ensure %q is installed and on your PATH", args[0], err, c.python)
	}
	return out, nil
}

// Install implements the PipClient interface. Install output is streamed to
// stderr so long bulk installs stay observable.
func (c *LocalPipClient) Install(ctx context.Context, specs []string) error {
	if len(specs) == 0 {
		return nil
	}
	args := append([]string{"-m", "pip", "install"}, specs...)
	cmd := exec.CommandContext(ctx, c.python, args...)
	cmd.Stdout = os.Stderr
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pip install failed: %s: %w", strings.TrimSpace(stderr.String()), err)
	}
	return nil
}

// Uninstall implements the PipClient interface.
func (c *LocalPipClient) Uninstall(ctx context.Context, names []string) error {
	if len(names) == 0 {
		return nil
	}
	args := append([]string{"uninstall", "-y"}, names...)
	_, err := c.run(ctx, args...)
	return err
}

// ShowFiles implements the PipClient interface.
func (c *LocalPipClient) ShowFiles(ctx context.Context, name string) ([]byte, error) {
	return c.run(ctx, "show", "-f", name)
}
