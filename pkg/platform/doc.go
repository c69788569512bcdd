// SPDX-License-Identifier: MPL-2.0

// Package platform provides host probing utilities.
//
// It holds the executable search used to discover compilers on the search path
// and the OS name constants shared across packages.
package platform
