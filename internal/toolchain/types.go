// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"fmt"
	"path/filepath"
	"strings"

	"pongpack/internal/issue"
	"pongpack/pkg/types"
)

const (
	// CompilerGDC is the GNU D compiler. It is probed first and builds x64 by default.
	CompilerGDC Compiler = "gdc"
	// CompilerDMD is the reference D compiler, probed when gdc is absent.
	CompilerDMD Compiler = "dmd"

	// ArchX86 targets 32-bit x86.
	ArchX86 Architecture = "x86"
	// ArchX64 targets x86-64.
	ArchX64 Architecture = "x64"

	// ConfigDebug is the unoptimized build with assertions.
	ConfigDebug BuildConfig = "debug"
	// ConfigRelease is the optimized build.
	ConfigRelease BuildConfig = "release"

	stepControl = "build-control program"
	stepBinary  = "binary"
)

var (
	// ErrCompilerNotFound is returned when no compiler can be resolved.
	ErrCompilerNotFound = fmt.Errorf("%w: compiler not found", issue.ErrInput)
	// ErrUnknownArchitecture is the sentinel error wrapped by UnknownArchitectureError.
	ErrUnknownArchitecture = fmt.Errorf("%w: unknown architecture", issue.ErrInput)

	// probeOrder lists the compilers tried, in priority order, when none is named.
	probeOrder = []Compiler{CompilerGDC, CompilerDMD}

	// archFlags maps every supported architecture to its compiler switch.
	archFlags = map[Architecture]string{
		ArchX86: "-m32",
		ArchX64: "-m64",
	}

	// buildConfigs are run for every architecture, in this order.
	buildConfigs = []BuildConfig{ConfigDebug, ConfigRelease}
)

type (
	// Compiler names a compiler executable, either a known one or any program
	// found on the search path.
	Compiler string

	// Architecture is a build target; see SupportedArchitectures.
	Architecture string

	// BuildConfig selects the debug or release variant.
	BuildConfig string

	// Binary is one artifact produced by Compile.
	Binary struct {
		Arch   Architecture
		Config BuildConfig
		// Path is relative to the manager's working directory.
		Path string
	}

	// Layout names the files involved in a build.
	Layout struct {
		// Script is the build-control source compiled first (cdc.d).
		Script string
		// Control is the executable the compiler produces from Script (cdc).
		Control string
		// Program is the base name of the binaries Control produces (pong),
		// written as <Program>-<config> before being renamed per architecture.
		Program string
	}

	// CompilerNotFoundError is returned when a named compiler is missing from
	// the search path, or when no known compiler could be probed (Name empty).
	CompilerNotFoundError struct {
		Name Compiler
	}

	// UnknownArchitectureError is returned for a requested architecture outside
	// SupportedArchitectures.
	UnknownArchitectureError struct {
		Value Architecture
	}

	// CompileError reports a non-zero exit from the compiler or from cdc.
	CompileError struct {
		// Step is "build-control program" or "binary".
		Step string
		// Command is the command line that failed.
		Command string
		// Arch and Config are empty when the build-control program itself failed.
		Arch     Architecture
		Config   BuildConfig
		ExitCode types.ExitCode
	}
)

// DefaultLayout is the DPong source tree layout.
func DefaultLayout() Layout {
	return Layout{Script: "cdc.d", Control: "cdc", Program: "pong"}
}

// SupportedArchitectures returns the architectures Compile can target.
func SupportedArchitectures() []Architecture {
	return []Architecture{ArchX86, ArchX64}
}

// String returns the compiler name.
func (c Compiler) String() string { return string(c) }

// IsGDC reports whether c names gdc, directly or by path.
func (c Compiler) IsGDC() bool {
	return filepath.Base(string(c)) == string(CompilerGDC)
}

// String returns the architecture name.
func (a Architecture) String() string { return string(a) }

// Flag returns the compiler switch selecting a, or "" when a is unsupported.
func (a Architecture) Flag() string { return archFlags[a] }

// Validate returns an UnknownArchitectureError when a is not supported.
func (a Architecture) Validate() error {
	if _, ok := archFlags[a]; !ok {
		return &UnknownArchitectureError{Value: a}
	}
	return nil
}

// BinaryName returns the architecture-qualified name for a build output.
func (l Layout) BinaryName(cfg BuildConfig, arch Architecture) string {
	return l.outputName(cfg) + "." + string(arch)
}

// outputName is the fixed name cdc writes for cfg.
func (l Layout) outputName(cfg BuildConfig) string {
	return l.Program + "-" + string(cfg)
}

// Error implements the error interface.
func (e *CompilerNotFoundError) Error() string {
	if e.Name == "" {
		names := make([]string, len(probeOrder))
		for i, c := range probeOrder {
			names[i] = string(c)
		}
		return fmt.Sprintf("no compiler found or specified (tried %s)", strings.Join(names, ", "))
	}
	return fmt.Sprintf("can't find compiler: %s", e.Name)
}

// Unwrap returns ErrCompilerNotFound for errors.Is() compatibility.
func (e *CompilerNotFoundError) Unwrap() error { return ErrCompilerNotFound }

// Error implements the error interface.
func (e *UnknownArchitectureError) Error() string {
	supported := make([]string, 0, len(archFlags))
	for _, a := range SupportedArchitectures() {
		supported = append(supported, a.String())
	}
	return fmt.Sprintf("unknown architecture: %q (supported: %s)", e.Value, strings.Join(supported, ", "))
}

// Unwrap returns ErrUnknownArchitecture for errors.Is() compatibility.
func (e *UnknownArchitectureError) Unwrap() error { return ErrUnknownArchitecture }

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Arch == "" {
		return fmt.Sprintf("error compiling the %s (exit status %s): %s", e.Step, e.ExitCode, e.Command)
	}
	return fmt.Sprintf("error compiling %s %s for architecture %s (exit status %s): %s",
		e.Config, e.Step, e.Arch, e.ExitCode, e.Command)
}

// Unwrap returns issue.ErrCompile for errors.Is() compatibility.
func (e *CompileError) Unwrap() error { return issue.ErrCompile }
