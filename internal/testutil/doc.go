// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Helpers build source and staging trees on disk (WriteTree, MustWriteFile,
// MustMkdirAll) and list them back for comparison (ListFiles).
package testutil
