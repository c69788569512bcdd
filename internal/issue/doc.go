// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// It defines the error kinds the packager distinguishes (input and compile
// errors; filesystem errors stay the wrapped OS errors), an ActionableError that
// carries the failed operation, the resource involved, and remediation hints,
// and a catalog of Markdown guidance rendered with glamour for verbose output.
package issue
