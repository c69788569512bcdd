// SPDX-License-Identifier: MPL-2.0

// Package packager assembles a distributable DPong package: it compiles every
// binary, stages them together with the game's documentation and data in a
// directory named after the package, archives that directory in each requested
// format, and always removes the staging directory afterwards.
package packager
