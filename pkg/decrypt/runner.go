// Copyright © 2018 One Concern

package decrypt

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes an external program and waits for it to complete
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs programs as child processes.
//
// The standard output of the child is discarded. Its standard error is reported
// with the error when the program fails.
type ExecRunner struct{}

// Run the program, failing on a non-zero exit status
func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%s: %w", name, ctxErr)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
