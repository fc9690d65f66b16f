// SPDX-License-Identifier: MPL-2.0

package platform

// Operating system names as reported by runtime.GOOS, for the platforms
// starpack produces layouts for.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)
