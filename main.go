// SPDX-License-Identifier: MPL-2.0

package main

import cmd "pongpack/cmd/pongpack"

func main() {
	cmd.Execute()
}
