// SPDX-License-Identifier: MPL-2.0

package packager

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/u-root/u-root/pkg/core/cp"
	"golang.org/x/exp/slices"
)

type (
	// Assets lists the non-binary content copied into every package.
	Assets struct {
		// Directories are copied recursively.
		Directories []AssetDir
		// Files are copied individually with their permissions.
		Files []string
		// Ignore patterns are matched against entry names at any depth, in
		// every asset directory.
		Ignore []string
	}

	// AssetDir is one directory to copy, with extra name patterns to skip.
	AssetDir struct {
		Path    string
		Exclude []string
	}
)

// DefaultAssets returns the DPong distribution contents: documentation, game
// data, and a user_data directory stripped of screenshots and logs. Editor
// backups and swap files are never copied.
func DefaultAssets() Assets {
	return Assets{
		Directories: []AssetDir{
			{Path: "doc"},
			{Path: "data"},
			{Path: "user_data", Exclude: []string{"screenshots", "logs"}},
		},
		Files:  []string{"README.txt", "README.html", "style.css", "dpong_logo64.png"},
		Ignore: []string{"*~", "*.sw*"},
	}
}

// Validate reports the first malformed ignore or exclude pattern.
func (a Assets) Validate() error {
	patterns := slices.Clone(a.Ignore)
	for _, d := range a.Directories {
		patterns = append(patterns, d.Exclude...)
	}
	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid asset pattern %q: %w", p, doublestar.ErrBadPattern)
		}
	}
	return nil
}

// skip reports whether name matches any of patterns.
func skip(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// copyTree copies src into dst, following symbolic links and leaving out every
// entry with a path component that matches one of patterns.
func copyTree(src, dst string, patterns []string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &os.PathError{Op: "copy", Path: src, Err: syscall.ENOTDIR}
	}
	// filepath.Walk does not descend into a linked root.
	if src, err = filepath.EvalSymlinks(src); err != nil {
		return err
	}

	opts := cp.Options{
		PreCallback: func(from, to string, fi os.FileInfo) error {
			rel, err := filepath.Rel(src, from)
			if err != nil {
				return err
			}
			if rel == "." {
				return nil
			}
			for _, name := range strings.Split(filepath.ToSlash(rel), "/") {
				if skip(name, patterns) {
					return cp.ErrSkip
				}
			}
			// Nor into linked directories below it.
			if fi.IsDir() {
				if lfi, err := os.Lstat(from); err == nil && lfi.Mode()&os.ModeSymlink != 0 {
					if err := copyTree(from, to, patterns); err != nil {
						return err
					}
					return cp.ErrSkip
				}
			}
			return nil
		},
	}
	return opts.CopyTree(src, dst)
}

// copyFile copies the contents and permission bits of src to dst.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := cp.Copy(src, dst); err != nil {
		return err
	}
	// The destination is created through the umask; restore the source bits.
	return os.Chmod(dst, info.Mode().Perm())
}
