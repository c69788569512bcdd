// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"pongpack/pkg/types"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

type (
	// Runner executes one command line in a directory and reports its exit code.
	// A non-zero exit is not an error; err is reserved for commands that could
	// not be parsed or started.
	Runner interface {
		Run(ctx context.Context, dir, command string) (types.ExitCode, error)
	}

	// ShellRunner runs command lines through the mvdan.cc/sh interpreter.
	// External programs inherit the process environment; nil writers default to
	// the process stdout and stderr.
	ShellRunner struct {
		Stdout io.Writer
		Stderr io.Writer
		// Env replaces the process environment when non-nil.
		Env []string
	}
)

// Run implements Runner.
func (r *ShellRunner) Run(ctx context.Context, dir, command string) (types.ExitCode, error) {
	prog, err := syntax.NewParser().Parse(strings.NewReader(command), "command")
	if err != nil {
		return types.ExitFailure, fmt.Errorf("failed to parse command %q: %w", command, err)
	}

	env := r.Env
	if env == nil {
		env = os.Environ()
	}
	stdout, stderr := r.Stdout, r.Stderr
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	runner, err := interp.New(
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, stdout, stderr),
	)
	if err != nil {
		return types.ExitFailure, fmt.Errorf("failed to create interpreter: %w", err)
	}

	if err = runner.Run(ctx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return types.ExitCode(exitStatus), nil
		}
		return types.ExitFailure, fmt.Errorf("command execution failed: %w", err)
	}
	return types.ExitSuccess, nil
}

// commandLine joins program and args into a shell-safe command line.
func commandLine(program string, args ...string) (string, error) {
	words := make([]string, 0, len(args)+1)
	for _, w := range append([]string{program}, args...) {
		q, err := syntax.Quote(w, syntax.LangBash)
		if err != nil {
			return "", fmt.Errorf("failed to quote %q: %w", w, err)
		}
		words = append(words, q)
	}
	return strings.Join(words, " "), nil
}
