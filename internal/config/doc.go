// SPDX-License-Identifier: MPL-2.0

// Package config handles packager configuration using Viper.
//
// Settings come from built-in defaults, an optional project file in the source
// directory (package-linux.cue, or package-linux.toml when no CUE file exists),
// and PACKAGE_LINUX_* environment variables, in increasing precedence. Command
// line flags are applied on top by the caller.
//
// Both file formats are validated against the embedded CUE schema
// (config_schema.cue), so unknown keys and unsupported architectures or
// formats are rejected with the offending path in the message.
package config
