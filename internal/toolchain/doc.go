// SPDX-License-Identifier: MPL-2.0

// Package toolchain resolves a D compiler and target architectures and drives
// the two-stage build: the compiler builds the cdc build-control program from
// cdc.d, then cdc builds a debug and a release binary per architecture.
//
// All state is owned by a Manager value; nothing is shared between instances.
package toolchain
