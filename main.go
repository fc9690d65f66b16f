// SPDX-License-Identifier: MPL-2.0

// Command starpack evaluates Starlark packaging scripts that collect
// Python resources into manifest and bundle outputs.
package main

import cmd "github.com/starpack/starpack/cmd/starpack"

func main() {
	cmd.Execute()
}
