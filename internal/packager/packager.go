// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"pongpack/internal/issue"
	"pongpack/internal/toolchain"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/slices"
)

const assembleOperation = "assemble package"

// ErrInvalidPackageName is the sentinel error wrapped by InvalidPackageNameError.
var ErrInvalidPackageName = fmt.Errorf("%w: invalid package name", issue.ErrInput)

type (
	// Compiler produces the binaries to package. *toolchain.Manager implements it.
	Compiler interface {
		Compile(ctx context.Context) ([]toolchain.Binary, error)
	}

	// Packager builds and archives packages. Its formats are fixed at
	// construction; each Package call is independent.
	Packager struct {
		compiler Compiler
		formats  []Format
		dir      string
		assets   Assets
		logger   *log.Logger
	}

	// Option configures a Packager.
	Option func(*Packager)

	// InvalidPackageNameError is returned for a name that is empty, "." or
	// "..", or that contains a path separator.
	InvalidPackageNameError struct {
		Name string
	}
)

// WithDir sets the source directory the package is assembled in; defaults to ".".
func WithDir(dir string) Option {
	return func(p *Packager) { p.dir = dir }
}

// WithAssets replaces DefaultAssets.
func WithAssets(a Assets) Option {
	return func(p *Packager) { p.assets = a }
}

// WithLogger sets the progress logger.
func WithLogger(l *log.Logger) Option {
	return func(p *Packager) { p.logger = l }
}

// New validates formats and returns a Packager using c. An empty formats list
// means tgz only; duplicates are dropped, keeping the first occurrence.
func New(c Compiler, formats []Format, opts ...Option) (*Packager, error) {
	p := &Packager{
		compiler: c,
		dir:      ".",
		assets:   DefaultAssets(),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(p)
	}

	if len(formats) == 0 {
		formats = []Format{FormatTgz}
	}
	for _, f := range formats {
		if err := f.Validate(); err != nil {
			return nil, err
		}
		if !slices.Contains(p.formats, f) {
			p.formats = append(p.formats, f)
		}
	}

	if err := p.assets.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Formats returns a copy of the resolved formats, in archive order.
func (p *Packager) Formats() []Format { return slices.Clone(p.formats) }

// Package compiles the binaries, stages them with the assets in <dir>/<name>,
// and writes <dir>/<name>.<ext> for every format. It returns the archive paths.
//
// Compilation errors are returned unchanged and leave no files behind. Once the
// staging directory has been created it is removed on every exit path; archives
// written before a later failure are kept. A file or directory already at
// <dir>/<name> is an error and is left untouched rather than removed.
func (p *Packager) Package(ctx context.Context, name string) (archives []string, err error) {
	if err = ValidateName(name); err != nil {
		return nil, err
	}

	binaries, err := p.compiler.Compile(ctx)
	if err != nil {
		return nil, err
	}

	staging := filepath.Join(p.dir, name)
	if err = os.Mkdir(staging, 0o755); err != nil {
		return nil, assembleError(staging, err,
			"Remove or rename the existing file or directory with the package name")
	}
	defer func() {
		if rmErr := os.RemoveAll(staging); rmErr != nil && err == nil {
			err = assembleError(staging, rmErr)
		}
	}()

	p.logger.Debug("staging package", "dir", staging)
	if err = p.stage(staging, binaries); err != nil {
		return nil, err
	}

	for _, f := range p.formats {
		out, archiveErr := archivers[f](staging)
		if archiveErr != nil {
			return archives, assembleError(staging, archiveErr)
		}
		p.logger.Info("wrote archive", "path", out)
		archives = append(archives, out)
	}
	return archives, nil
}

// stage moves the binaries into staging and copies the assets next to them.
func (p *Packager) stage(staging string, binaries []toolchain.Binary) error {
	for _, b := range binaries {
		src := filepath.Join(p.dir, b.Path)
		if err := os.Rename(src, filepath.Join(staging, filepath.Base(b.Path))); err != nil {
			return assembleError(src, err)
		}
	}

	for _, d := range p.assets.Directories {
		src := filepath.Join(p.dir, d.Path)
		patterns := append(slices.Clone(p.assets.Ignore), d.Exclude...)
		if err := copyTree(src, filepath.Join(staging, filepath.Base(d.Path)), patterns); err != nil {
			return assembleError(src, err, "Run the packager from the game's source root")
		}
	}

	for _, f := range p.assets.Files {
		src := filepath.Join(p.dir, f)
		if err := copyFile(src, filepath.Join(staging, filepath.Base(f))); err != nil {
			return assembleError(src, err, "Run the packager from the game's source root")
		}
	}
	return nil
}

// ValidateName rejects package names that would not produce a single
// directory next to the sources.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsRune(name, '/') ||
		strings.ContainsRune(name, filepath.Separator) {
		return &InvalidPackageNameError{Name: name}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidPackageNameError) Error() string {
	if e.Name == "" {
		return "missing package name"
	}
	return fmt.Sprintf("invalid package name %q: must be a single path component", e.Name)
}

// Unwrap returns ErrInvalidPackageName for errors.Is() compatibility.
func (e *InvalidPackageNameError) Unwrap() error { return ErrInvalidPackageName }

func assembleError(resource string, err error, suggestions ...string) error {
	ctx := issue.NewErrorContext().
		WithOperation(assembleOperation).
		WithResource(resource).
		Wrap(err)
	for _, s := range suggestions {
		ctx = ctx.WithSuggestion(s)
	}
	return ctx.BuildError()
}
