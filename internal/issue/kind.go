// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"io/fs"
	"os"
)

var (
	// ErrInput marks invalid user input: an unresolvable compiler, an unsupported
	// architecture or archive format, or a missing package name.
	ErrInput = errors.New("input error")

	// ErrCompile marks a non-zero exit from the compiler or the build-control program.
	ErrCompile = errors.New("compile error")
)

// Kind names the broad class an error belongs to.
type Kind string

const (
	// KindInput is assigned to errors wrapping ErrInput.
	KindInput Kind = "input"
	// KindCompile is assigned to errors wrapping ErrCompile.
	KindCompile Kind = "compile"
	// KindFilesystem is assigned to errors carrying an *fs.PathError or *os.LinkError.
	KindFilesystem Kind = "filesystem"
	// KindOther covers everything else (config parsing, interpreter failures).
	KindOther Kind = "other"
)

// KindOf classifies err. Input and compile markers are checked first because a
// compile error may also wrap an OS error from a rename.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrInput) {
		return KindInput
	}
	if errors.Is(err, ErrCompile) {
		return KindCompile
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return KindFilesystem
	}
	var linkErr *os.LinkError
	if errors.As(err, &linkErr) {
		return KindFilesystem
	}
	return KindOther
}
