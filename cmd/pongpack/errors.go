// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"pongpack/internal/config"
	"pongpack/internal/issue"
	"pongpack/internal/packager"
	"pongpack/internal/toolchain"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// issueStyle is the glamour style used for verbose guidance. "auto" falls
// back to plain text when stderr is not a terminal.
const issueStyle = "auto"

// classifyError maps a failure to the catalog entry that explains it.
func classifyError(err error) (issue.Id, bool) {
	var ae *issue.ActionableError
	switch {
	case errors.Is(err, toolchain.ErrCompilerNotFound):
		return issue.CompilerNotFoundId, true
	case errors.Is(err, toolchain.ErrUnknownArchitecture):
		return issue.UnknownArchitectureId, true
	case errors.Is(err, packager.ErrUnknownFormat):
		return issue.UnknownFormatId, true
	case errors.Is(err, packager.ErrInvalidPackageName):
		return issue.MissingPackageNameId, true
	case errors.Is(err, issue.ErrCompile):
		return issue.CompileFailedId, true
	case errors.As(err, &ae) && ae.Operation == config.LoadOperation:
		return issue.ConfigLoadFailedId, true
	case issue.KindOf(err) == issue.KindFilesystem:
		return issue.PackagingFailedId, true
	}
	return 0, false
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// errorHandler prints the error, the catalog guidance in verbose mode, and the
// usage block. It replaces fang's default handler, which omits usage.
func errorHandler(root *cobra.Command, opts *rootOptions) fang.ErrorHandler {
	return func(w io.Writer, _ fang.Styles, err error) {
		fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, opts.verbose))

		if opts.verbose {
			if id, ok := classifyError(err); ok {
				if guidance, renderErr := issue.Get(id).Render(issueStyle); renderErr == nil {
					fmt.Fprint(w, guidance)
				}
			}
		}

		fmt.Fprintf(w, "\n%s", root.UsageString())
	}
}
