// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrExecutableNotFound is the sentinel error wrapped by ExecutableNotFoundError.
var ErrExecutableNotFound = errors.New("executable not found")

// ExecutableNotFoundError is returned when a program cannot be resolved, either
// as a literal path or through the search path.
type ExecutableNotFoundError struct {
	Program string
}

// Error implements the error interface.
func (e *ExecutableNotFoundError) Error() string {
	return fmt.Sprintf("%s: executable not found", e.Program)
}

// Unwrap returns ErrExecutableNotFound for errors.Is() compatibility.
func (e *ExecutableNotFoundError) Unwrap() error { return ErrExecutableNotFound }

// LookPath resolves program against the PATH environment variable.
func LookPath(program string) (string, error) {
	return LookPathIn(program, os.Getenv("PATH"))
}

// LookPathIn resolves program against pathList, a list of directories joined
// with os.PathListSeparator.
//
// A program containing a path separator is tested directly and the search path
// is not consulted. Otherwise the first directory holding an executable entry
// with that name wins. An empty list element stands for the current directory.
func LookPathIn(program, pathList string) (string, error) {
	return lookPathWith(program, pathList, os.Stat)
}

// lookPathWith performs the lookup using the provided stat function so tests can
// observe which candidates are probed.
func lookPathWith(program, pathList string, stat func(string) (fs.FileInfo, error)) (string, error) {
	if program == "" {
		return "", &ExecutableNotFoundError{Program: program}
	}

	if strings.ContainsRune(program, filepath.Separator) || strings.ContainsRune(program, '/') {
		if isExecutable(program, stat) {
			return program, nil
		}
		return "", &ExecutableNotFoundError{Program: program}
	}

	for _, dir := range filepath.SplitList(pathList) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, program)
		if isExecutable(candidate, stat) {
			return candidate, nil
		}
	}

	return "", &ExecutableNotFoundError{Program: program}
}

// isExecutable reports whether path exists, is not a directory, and carries at
// least one execute permission bit.
func isExecutable(path string, stat func(string) (fs.FileInfo, error)) bool {
	info, err := stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir() && info.Mode().Perm()&0o111 != 0
}
