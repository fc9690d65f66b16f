// SPDX-License-Identifier: MPL-2.0

// Package config handles tool configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/starpack/config.cue (or XDG equivalent on
// Linux, ~/Library/Application Support/starpack/config.cue on macOS,
// %APPDATA%\starpack\config.cue on Windows), falling back to a per-project
// starpack.cue in the working directory. The package provides type-safe access to
// the default packaging policy, the configuration script name, output locations,
// and UI settings.
//
// Configuration validation is performed against a CUE schema (config_schema.cue)
// to ensure type safety and provide clear error messages for invalid configurations.
package config
