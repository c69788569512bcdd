// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/tar"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
)

// Tgz writes dir into a gzip-compressed tar archive at <dir>.tgz. The archive's
// single top-level entry is the base name of dir; directories get their own
// entries and symbolic links are stored as links.
func Tgz(dir string) (archivePath string, err error) {
	out := outputPath(dir, "tgz")
	root := filepath.Base(filepath.Clean(dir))

	info, err := os.Stat(dir)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s: not a directory", dir)
	}

	tgzFile, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("failed to create tgz file: %w", err)
	}
	defer func() {
		if err = finish(tgzFile, out, err); err != nil {
			archivePath = ""
		}
	}()

	gzWriter := gzip.NewWriter(tgzFile)
	tarWriter := tar.NewWriter(gzWriter)

	walkErr := filepath.WalkDir(dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		relPath, relErr := filepath.Rel(dir, p)
		if relErr != nil {
			return fmt.Errorf("failed to get relative path: %w", relErr)
		}
		name := root
		if relPath != "." {
			name = path.Join(root, filepath.ToSlash(relPath))
		}

		return writeTarEntry(tarWriter, p, name, d)
	})
	if walkErr != nil {
		_ = tarWriter.Close()
		_ = gzWriter.Close()
		return "", fmt.Errorf("failed to archive %s: %w", dir, walkErr)
	}

	if err := tarWriter.Close(); err != nil {
		_ = gzWriter.Close()
		return "", fmt.Errorf("failed to finalize tar stream: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize gzip stream: %w", err)
	}

	return out, nil
}

// writeTarEntry adds the filesystem entry at p to tw under name.
func writeTarEntry(tw *tar.Writer, p, name string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		return fmt.Errorf("failed to get file info: %w", err)
	}

	link := ""
	if info.Mode()&fs.ModeSymlink != 0 {
		if link, err = os.Readlink(p); err != nil {
			return err
		}
	}

	header, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return fmt.Errorf("failed to create tar header for %s: %w", p, err)
	}
	header.Name = name
	if info.IsDir() {
		header.Name += "/"
	}

	if err := tw.WriteHeader(header); err != nil {
		return fmt.Errorf("failed to write tar header for %s: %w", p, err)
	}
	if !info.Mode().IsRegular() {
		return nil
	}
	return copyFileTo(tw, p)
}
