// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"os"
	"path/filepath"
)

// Func archives dir and returns the path of the written archive.
type Func func(dir string) (string, error)

// outputPath returns the archive path for dir with the given extension,
// resolving a trailing separator so "pkg/" still yields "pkg.zip".
func outputPath(dir, ext string) string {
	return filepath.Clean(dir) + "." + ext
}

// finish closes f, keeping the first error, and removes the partial archive
// when anything failed.
func finish(f *os.File, path string, err error) error {
	if closeErr := f.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path) // Best-effort cleanup of the partial archive
	}
	return err
}
