// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// commandCompletionFunc completes terminal command names from the CV,
// skipping ones already on the command line.
func commandCompletionFunc(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := loadCV()
	if err != nil {
		// Ignore config load errors during completion
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var suggestions []string
	for _, name := range cfg.Commands {
		if slices.Contains(args, name) {
			continue
		}
		if strings.HasPrefix(name, toComplete) {
			suggestions = append(suggestions, name)
		}
	}
	return suggestions, cobra.ShellCompDirectiveNoFileComp
}
