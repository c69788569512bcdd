// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"pongpack/internal/config"
	"pongpack/internal/packager"
	"pongpack/internal/toolchain"
	"pongpack/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

const appName = config.AppName

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootOptions holds the flag values of one invocation.
type rootOptions struct {
	compiler   string
	archs      []string
	formats    []string
	configPath string
	dir        string
	verbose    bool
}

func newRootCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName + " [flags] PACKAGE_NAME",
		Short: "Build DPong and package it for Linux",
		Long: TitleStyle.Render(appName) + SubtitleStyle.Render(" - Build DPong and package it for Linux") + `

Compiles debug and release builds of DPong for every requested
architecture, bundles them with the documentation and game data,
and writes a package that runs standalone from its own directory.

` + SubtitleStyle.Render("Defaults:") + `
  compiler        gdc if installed, otherwise dmd
  architectures   x86, plus x64 when compiling with gdc
  formats         tgz

Settings can also come from package-linux.cue or package-linux.toml in
the source directory and from PACKAGE_LINUX_* environment variables.`,
		Example: `  # x86 and x64 builds with GDC, written to dpong-pkg.zip and dpong-pkg.tgz
  ` + appName + ` -c gdc -a x86 -a x64 -f zip -f tgz dpong-pkg

  # Build from another directory with verbose output
  ` + appName + ` -C ~/src/dpong -v dpong-pkg`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPackage(cmd, opts, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.compiler, "compiler", "c", "", "compiler to use, e.g. dmd (default: detect gdc, then dmd)")
	flags.StringArrayVarP(&opts.archs, "arch", "a", nil, "architecture to build for: x86 or x64 (repeatable)")
	flags.StringArrayVarP(&opts.formats, "format", "f", nil, "archive format: tgz or zip (repeatable, default tgz)")
	flags.StringVar(&opts.configPath, "config", "", "config file (default is package-linux.cue or .toml in the source directory)")
	flags.StringVarP(&opts.dir, "dir", "C", ".", "source directory containing cdc.d and the game assets")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")

	return cmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the command line and exits with its status.
// This is called by main.main().
func Execute() {
	os.Exit(int(Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)))
}

// Run executes one invocation with the given arguments and returns its exit
// code: 0 after help or a successful package, 1 for every failure.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) types.ExitCode {
	opts := &rootOptions{}
	root := newRootCommand(opts)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := fang.Execute(
		ctx,
		root,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler(root, opts)),
	)
	return exitCode(err)
}

// exitCode maps the result of an invocation to a process exit status. Codes
// carried by an ExitError outside 0-255 become ExitFailure.
func exitCode(err error) types.ExitCode {
	if err == nil {
		return types.ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code.Validate() == nil {
		return exitErr.Code
	}
	return types.ExitFailure
}

// runPackage resolves configuration, validates every input, and only then
// requires the package name, so a bad compiler or format is reported even
// when the name is missing.
func runPackage(cmd *cobra.Command, opts *rootOptions, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.NewProvider().Load(ctx, config.LoadOptions{
		ConfigFilePath: opts.configPath,
		Dir:            opts.dir,
	})
	if err != nil {
		return fail(err)
	}
	applyFlags(cmd, opts, cfg)

	logger := newLogger(cmd.ErrOrStderr(), opts.verbose)
	if cfg.Source != "" {
		logger.Debug("loaded configuration", "file", cfg.Source)
	}

	manager, err := toolchain.NewManager(cfg.CompilerValue(), cfg.ArchitectureValues(),
		toolchain.WithDir(opts.dir),
		toolchain.WithLayout(cfg.Layout()),
		toolchain.WithLogger(logger),
		toolchain.WithRunner(&toolchain.ShellRunner{Stdout: cmd.OutOrStdout(), Stderr: cmd.ErrOrStderr()}),
	)
	if err != nil {
		return fail(err)
	}
	logger.Debug("resolved toolchain", "compiler", manager.Compiler(), "architectures", manager.Architectures())

	pkg, err := packager.New(manager, cfg.FormatValues(),
		packager.WithDir(opts.dir),
		packager.WithAssets(cfg.PackagerAssets()),
		packager.WithLogger(logger),
	)
	if err != nil {
		return fail(err)
	}

	if len(args) == 0 {
		return fail(&packager.InvalidPackageNameError{})
	}
	if len(args) > 1 {
		logger.Warn("ignoring extra arguments", "args", args[1:])
	}

	archives, err := pkg.Package(ctx, args[0])
	if err != nil {
		return fail(err)
	}
	for _, a := range archives {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", SuccessStyle.Render("Created"), PathStyle.Render(a))
	}
	return nil
}

// applyFlags overrides configuration with every flag given on the command line.
func applyFlags(cmd *cobra.Command, opts *rootOptions, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("compiler") {
		cfg.Compiler = opts.compiler
	}
	if flags.Changed("arch") {
		cfg.Architectures = opts.archs
	}
	if flags.Changed("format") {
		cfg.Formats = opts.formats
	}
	if flags.Changed("verbose") {
		cfg.UI.Verbose = opts.verbose
	}
	opts.verbose = cfg.UI.Verbose
}
