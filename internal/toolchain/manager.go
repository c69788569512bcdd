// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"pongpack/internal/issue"
	"pongpack/pkg/platform"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/slices"
)

type (
	// Manager resolves a compiler and a set of architectures once, then builds
	// every debug and release binary on Compile.
	Manager struct {
		compiler Compiler
		archs    []Architecture
		dir      string
		layout   Layout
		runner   Runner
		lookPath func(string) (string, error)
		logger   *log.Logger
	}

	// Option configures a Manager.
	Option func(*Manager)
)

// WithDir sets the directory holding the build script; defaults to ".".
func WithDir(dir string) Option {
	return func(m *Manager) { m.dir = dir }
}

// WithRunner replaces the shell runner.
func WithRunner(r Runner) Option {
	return func(m *Manager) { m.runner = r }
}

// WithLookPath replaces the executable search used for compiler resolution.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(m *Manager) { m.lookPath = fn }
}

// WithLayout overrides the build script and binary names.
func WithLayout(l Layout) Option {
	return func(m *Manager) { m.layout = l }
}

// WithLogger sets the logger that echoes every command before it runs.
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager resolves compiler and archs. An empty compiler probes gdc then dmd;
// empty archs default to x86, plus x64 when the compiler is gdc. Duplicate
// architectures are dropped, keeping the first occurrence.
func NewManager(compiler Compiler, archs []Architecture, opts ...Option) (*Manager, error) {
	m := &Manager{
		dir:      ".",
		layout:   DefaultLayout(),
		runner:   &ShellRunner{},
		lookPath: platform.LookPath,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(m)
	}

	resolved, err := m.resolveCompiler(compiler)
	if err != nil {
		return nil, err
	}
	m.compiler = resolved

	if m.archs, err = resolveArchitectures(resolved, archs); err != nil {
		return nil, err
	}
	return m, nil
}

// Compiler returns the resolved compiler.
func (m *Manager) Compiler() Compiler { return m.compiler }

// Architectures returns a copy of the resolved architectures, in build order.
func (m *Manager) Architectures() []Architecture { return slices.Clone(m.archs) }

// Compile builds the build-control program, then a debug and a release binary
// for each architecture. Each binary is renamed to its architecture-qualified
// name as soon as it is built. The first failure stops the build; binaries
// already produced are left in place.
func (m *Manager) Compile(ctx context.Context) ([]Binary, error) {
	args := []string{m.layout.Script}
	if m.compiler.IsGDC() {
		args = append(args, "-o", m.layout.Control)
	}
	if err := m.run(ctx, &CompileError{Step: stepControl}, string(m.compiler), args...); err != nil {
		return nil, err
	}

	control := "./" + m.layout.Control
	binaries := make([]Binary, 0, len(m.archs)*len(buildConfigs))
	for _, arch := range m.archs {
		for _, cfg := range buildConfigs {
			failure := &CompileError{Step: stepBinary, Arch: arch, Config: cfg}
			if err := m.run(ctx, failure, control, arch.Flag(), string(cfg)); err != nil {
				return binaries, err
			}

			name := m.layout.BinaryName(cfg, arch)
			src := filepath.Join(m.dir, m.layout.outputName(cfg))
			if err := os.Rename(src, filepath.Join(m.dir, name)); err != nil {
				return binaries, issue.WrapWithContext(err, "rename "+string(cfg)+" build output", src)
			}
			binaries = append(binaries, Binary{Arch: arch, Config: cfg, Path: name})
		}
	}
	return binaries, nil
}

// run executes program with args, filling in failure when it exits non-zero.
func (m *Manager) run(ctx context.Context, failure *CompileError, program string, args ...string) error {
	cmdLine, err := commandLine(program, args...)
	if err != nil {
		return err
	}
	m.logger.Info(cmdLine)

	code, err := m.runner.Run(ctx, m.dir, cmdLine)
	if err != nil {
		return err
	}
	if !code.IsSuccess() {
		failure.Command = cmdLine
		failure.ExitCode = code
		return failure
	}
	return nil
}

func (m *Manager) resolveCompiler(name Compiler) (Compiler, error) {
	if name != "" {
		if _, err := m.lookPath(string(name)); err != nil {
			return "", &CompilerNotFoundError{Name: name}
		}
		return name, nil
	}

	for _, candidate := range probeOrder {
		if _, err := m.lookPath(string(candidate)); err == nil {
			return candidate, nil
		}
	}
	return "", &CompilerNotFoundError{}
}

func resolveArchitectures(compiler Compiler, requested []Architecture) ([]Architecture, error) {
	if len(requested) == 0 {
		if compiler.IsGDC() {
			return []Architecture{ArchX86, ArchX64}, nil
		}
		return []Architecture{ArchX86}, nil
	}

	archs := make([]Architecture, 0, len(requested))
	for _, a := range requested {
		if err := a.Validate(); err != nil {
			return nil, err
		}
		if !slices.Contains(archs, a) {
			archs = append(archs, a)
		}
	}
	return archs, nil
}
