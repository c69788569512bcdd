// SPDX-License-Identifier: MPL-2.0

// Package archive turns a directory into a distributable archive.
//
// Two layouts are produced, and consumers of the packages rely on both:
//
//   - Zip writes <dir>.zip whose members are the regular files below dir, named
//     by their slash-separated path relative to dir (no leading directory).
//   - Tgz writes <dir>.tgz whose single top-level entry is the directory itself,
//     followed by every directory and file below it.
package archive
