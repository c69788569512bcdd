// SPDX-License-Identifier: MPL-2.0

// Package cmd implements the package-linux command line: it parses flags,
// layers them over the project configuration, and drives the toolchain and
// packager to produce DPong release archives.
package cmd
