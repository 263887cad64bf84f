// Copyright © 2024 The XCTLint authors

package main

import "github.com/luthersystems/xctlint/cmd"

func main() {
	cmd.Execute()
}
