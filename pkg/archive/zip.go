// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"
)

// Zip writes every regular file below dir into a deflate-compressed archive at
// <dir>.zip. Member names are relative to dir and always use forward slashes.
func Zip(dir string) (archivePath string, err error) {
	out := outputPath(dir, "zip")

	info, err := os.Stat(dir)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s: not a directory", dir)
	}

	zipFile, err := os.Create(out)
	if err != nil {
		return "", fmt.Errorf("failed to create ZIP file: %w", err)
	}
	defer func() {
		if err = finish(zipFile, out, err); err != nil {
			archivePath = ""
		}
	}()

	zipWriter := zip.NewWriter(zipFile)

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.Type().IsRegular() {
			return nil
		}

		relPath, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return fmt.Errorf("failed to get relative path: %w", relErr)
		}

		fileInfo, infoErr := d.Info()
		if infoErr != nil {
			return fmt.Errorf("failed to get file info: %w", infoErr)
		}

		header, headerErr := zip.FileInfoHeader(fileInfo)
		if headerErr != nil {
			return fmt.Errorf("failed to create file header: %w", headerErr)
		}
		header.Name = filepath.ToSlash(relPath)
		header.Method = zip.Deflate

		writer, writerErr := zipWriter.CreateHeader(header)
		if writerErr != nil {
			return fmt.Errorf("failed to create ZIP entry: %w", writerErr)
		}

		return copyFileTo(writer, path)
	})
	if walkErr != nil {
		_ = zipWriter.Close()
		return "", fmt.Errorf("failed to archive %s: %w", dir, walkErr)
	}

	if err := zipWriter.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize ZIP file: %w", err)
	}

	return out, nil
}

// copyFileTo streams the file at path into w.
func copyFileTo(w io.Writer, path string) (err error) {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to write file data for %s: %w", path, err)
	}
	return nil
}
