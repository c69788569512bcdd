// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pongpack/internal/config"
	"pongpack/internal/issue"
	"pongpack/internal/packager"
	"pongpack/internal/toolchain"
	"pongpack/pkg/types"
)

func run(t *testing.T, args ...string) (code types.ExitCode, stdout, stderr string) {
	t.Helper()

	var out, errOut bytes.Buffer
	code = Run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestGetVersionString(t *testing.T) {
	// Not parallel: subtests mutate package-level Version/Commit/BuildDate vars.

	t.Run("ldflags version takes priority", func(t *testing.T) {
		origVersion, origCommit, origBuildDate := Version, Commit, BuildDate
		t.Cleanup(func() {
			Version, Commit, BuildDate = origVersion, origCommit, origBuildDate
		})

		Version = "v1.2.3"
		Commit = "abc1234"
		BuildDate = "2025-06-15T10:00:00Z"

		got := getVersionString()
		want := "v1.2.3 (commit: abc1234, built: 2025-06-15T10:00:00Z)"
		if got != want {
			t.Errorf("getVersionString() = %q, want %q", got, want)
		}
	})

	t.Run("fallback to dev", func(t *testing.T) {
		origVersion := Version
		t.Cleanup(func() { Version = origVersion })

		Version = "dev"
		if got := getVersionString(); got != "dev (built from source)" {
			t.Errorf("getVersionString() = %q, want %q", got, "dev (built from source)")
		}
	})
}

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		want   issue.Id
		wantOK bool
	}{
		{name: "compiler not found", err: &toolchain.CompilerNotFoundError{}, want: issue.CompilerNotFoundId, wantOK: true},
		{name: "unknown architecture", err: &toolchain.UnknownArchitectureError{Value: "arm"}, want: issue.UnknownArchitectureId, wantOK: true},
		{name: "unknown format", err: &packager.UnknownFormatError{Value: "rar"}, want: issue.UnknownFormatId, wantOK: true},
		{name: "missing name", err: &packager.InvalidPackageNameError{}, want: issue.MissingPackageNameId, wantOK: true},
		{name: "compile failure", err: &toolchain.CompileError{Step: "binary", Arch: "x86", Config: "debug", ExitCode: 1}, want: issue.CompileFailedId, wantOK: true},
		{
			name:   "config failure",
			err:    issue.WrapWithContext(errors.New("bad"), config.LoadOperation, "package-linux.cue"),
			want:   issue.ConfigLoadFailedId,
			wantOK: true,
		},
		{
			name:   "filesystem failure",
			err:    issue.WrapWithContext(&fs.PathError{Op: "mkdir", Path: "pkg", Err: fs.ErrExist}, "assemble package", "pkg"),
			want:   issue.PackagingFailedId,
			wantOK: true,
		},
		{name: "wrapped in exit error", err: fail(&packager.UnknownFormatError{Value: "7z"}), want: issue.UnknownFormatId, wantOK: true},
		{name: "unclassified", err: errors.New("boom"), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := classifyError(tt.err)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("classifyError() = (%d, %v), want (%d, %v)", got, ok, tt.want, tt.wantOK)
			}
			if ok && issue.Get(got) == nil {
				t.Errorf("issue %d has no catalog entry", got)
			}
		})
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("wrapped: %w", packager.ErrUnknownFormat)
	err := fail(cause)
	if err.Error() != cause.Error() {
		t.Errorf("Error() = %q, want %q", err.Error(), cause.Error())
	}
	if !errors.Is(err, packager.ErrUnknownFormat) {
		t.Error("ExitError should unwrap to its cause")
	}

	bare := &ExitError{Code: 3}
	if bare.Error() != "exit status 3" {
		t.Errorf("Error() = %q, want %q", bare.Error(), "exit status 3")
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want types.ExitCode
	}{
		{name: "success", err: nil, want: types.ExitSuccess},
		{name: "plain error", err: errors.New("boom"), want: types.ExitFailure},
		{name: "exit error", err: &ExitError{Code: 3}, want: 3},
		{name: "wrapped exit error", err: fmt.Errorf("run: %w", &ExitError{Code: 2}), want: 2},
		{name: "negative code", err: &ExitError{Code: -1}, want: types.ExitFailure},
		{name: "code above 255", err: &ExitError{Code: 300}, want: types.ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRun_Help(t *testing.T) {
	code, stdout, stderr := run(t, "--help")
	if code != types.ExitSuccess {
		t.Fatalf("Run(--help) = %s, want 0; stderr: %s", code, stderr)
	}
	for _, want := range []string{"PACKAGE_NAME", "--compiler", "--arch", "--format", "--config"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output missing %q", want)
		}
	}
}

func TestRun_UnknownFlag(t *testing.T) {
	code, _, stderr := run(t, "--bogus", "pkg")
	if code != types.ExitFailure {
		t.Fatalf("Run(--bogus) = %s, want 1", code)
	}
	if !strings.Contains(stderr, "unknown flag") || !strings.Contains(stderr, "Usage:") {
		t.Errorf("stderr should contain the parse error and usage, got:\n%s", stderr)
	}
}

func TestRun_NoCompiler(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"with package name", []string{"pkg"}},
		{"without arguments", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("PATH", t.TempDir())
			dir := t.TempDir()

			code, _, stderr := run(t, append([]string{"-C", dir}, tt.args...)...)
			if code != types.ExitFailure {
				t.Fatalf("Run() = %s, want 1", code)
			}
			if !strings.Contains(stderr, "no compiler found") {
				t.Errorf("stderr should report the missing compiler, got:\n%s", stderr)
			}
			if strings.Contains(stderr, "missing package name") {
				t.Errorf("compiler error should be reported before the package name, got:\n%s", stderr)
			}
			if !strings.Contains(stderr, "Usage:") {
				t.Errorf("stderr should contain usage, got:\n%s", stderr)
			}

			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatalf("ReadDir() failed: %v", err)
			}
			if len(entries) != 0 {
				t.Errorf("no files should be created, found %d entries", len(entries))
			}
		})
	}
}

func TestRun_VerboseGuidance(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	code, _, stderr := run(t, "-v", "-C", t.TempDir(), "pkg")
	if code != types.ExitFailure {
		t.Fatalf("Run() = %s, want 1", code)
	}
	if !strings.Contains(stderr, "No D compiler found") {
		t.Errorf("verbose output should include catalog guidance, got:\n%s", stderr)
	}
}

func TestRun_MissingConfigFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.cue")

	code, _, stderr := run(t, "--config", missing, "pkg")
	if code != types.ExitFailure {
		t.Fatalf("Run() = %s, want 1", code)
	}
	if !strings.Contains(stderr, "failed to load configuration") {
		t.Errorf("stderr should report the config failure, got:\n%s", stderr)
	}
}
