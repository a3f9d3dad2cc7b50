// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package main

import (
	"cv-terminal/cmd/cli"
)

func main() {
	// Without a subcommand the CLI runs the TUI.
	cli.RunCLI()
}
