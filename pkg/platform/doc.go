// SPDX-License-Identifier: MPL-2.0

// Package platform holds operating-system facts: the GOOS names starpack
// recognizes and the Windows reserved filenames a bundle layout must avoid.
package platform
