// SPDX-License-Identifier: MPL-2.0

package main

import cmd "bifrost-cli/cmd/bifrost"

func main() {
	cmd.Execute()
}
