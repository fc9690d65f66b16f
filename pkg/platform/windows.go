// SPDX-License-Identifier: MPL-2.0

package platform

import "strings"

// Windows reserves legacy device names as filenames, case-insensitively and
// regardless of any extension: NUL, NUL.txt, and NUL.tar.gz are all
// unwritable. Everything before the first dot is what counts.
var windowsReservedNames = []string{
	"CON", "PRN", "AUX", "NUL",
	"COM1", "COM2", "COM3", "COM4", "COM5", "COM6", "COM7", "COM8", "COM9",
	"LPT1", "LPT2", "LPT3", "LPT4", "LPT5", "LPT6", "LPT7", "LPT8", "LPT9",
}

// IsWindowsReservedName reports whether a path segment collides with a
// reserved Windows device name. Used to keep bundle layouts extractable on
// Windows no matter where they were produced.
func IsWindowsReservedName(name string) bool {
	base, _, _ := strings.Cut(name, ".")
	for _, reserved := range windowsReservedNames {
		if strings.EqualFold(base, reserved) {
			return true
		}
	}
	return false
}
