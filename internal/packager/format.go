// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"fmt"
	"strings"

	"pongpack/internal/issue"
	"pongpack/pkg/archive"
)

const (
	// FormatZip produces <name>.zip.
	FormatZip Format = "zip"
	// FormatTgz produces <name>.tgz. It is the default format.
	FormatTgz Format = "tgz"
)

var (
	// ErrUnknownFormat is the sentinel error wrapped by UnknownFormatError.
	ErrUnknownFormat = fmt.Errorf("%w: unknown archive format", issue.ErrInput)

	archivers = map[Format]archive.Func{
		FormatZip: archive.Zip,
		FormatTgz: archive.Tgz,
	}
)

type (
	// Format names an archive format.
	Format string

	// UnknownFormatError is returned for a requested format outside SupportedFormats.
	UnknownFormatError struct {
		Value Format
	}
)

// SupportedFormats returns every format Package can produce.
func SupportedFormats() []Format {
	return []Format{FormatZip, FormatTgz}
}

// String returns the format name.
func (f Format) String() string { return string(f) }

// Validate returns an UnknownFormatError when f is not supported.
func (f Format) Validate() error {
	if _, ok := archivers[f]; !ok {
		return &UnknownFormatError{Value: f}
	}
	return nil
}

// Error implements the error interface.
func (e *UnknownFormatError) Error() string {
	supported := make([]string, 0, len(archivers))
	for _, f := range SupportedFormats() {
		supported = append(supported, f.String())
	}
	return fmt.Sprintf("unknown archive format: %q (supported: %s)", e.Value, strings.Join(supported, ", "))
}

// Unwrap returns ErrUnknownFormat for errors.Is() compatibility.
func (e *UnknownFormatError) Unwrap() error { return ErrUnknownFormat }
