// SPDX-License-Identifier: MPL-2.0

package main

import cmd "cradle-host/cmd/cradle"

func main() {
	cmd.Execute()
}
