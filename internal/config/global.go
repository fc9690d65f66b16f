// SPDX-License-Identifier: MPL-2.0

package config

// configDirOverride, when non-empty, replaces the platform config directory
// lookup. Tests set it through SetConfigDirOverride because os.UserHomeDir
// ignores a test-scoped HOME on some platforms.
var configDirOverride string

// SetConfigDirOverride points config loading at dir instead of the user's
// real config directory. Test-only seam.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// Reset clears the override. Call from test cleanup.
func Reset() {
	configDirOverride = ""
}
