// Copyright 2026 The Streetsim Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"strings"
	"testing"

	"github.com/streetsim-foundation/streetsim/cmd/streetsim/cli"
)

// TestCommandTreeShape walks the full production command tree and
// validates that every command is dispatchable: it has a name, a
// summary for help listings, and either a Run function or
// subcommands to route into.
func TestCommandTreeShape(t *testing.T) {
	walkCommands(Root(), nil, func(command *cli.Command, path []string) {
		name := strings.Join(path, " ")
		if command.Name == "" {
			t.Errorf("%s: command with empty name", name)
		}
		if len(path) > 1 && command.Summary == "" {
			t.Errorf("%s: command missing Summary", name)
		}
		if command.Run == nil && len(command.Subcommands) == 0 {
			t.Errorf("%s: command has neither Run nor Subcommands", name)
		}
	})
}

func TestCommandTreeUniqueSiblings(t *testing.T) {
	walkCommands(Root(), nil, func(command *cli.Command, path []string) {
		seen := map[string]bool{}
		for _, sub := range command.Subcommands {
			if seen[sub.Name] {
				t.Errorf("%s: duplicate subcommand %q", strings.Join(path, " "), sub.Name)
			}
			seen[sub.Name] = true
		}
	})
}

// walkCommands recursively visits every command in the tree,
// calling visit for each node with the accumulated command path.
func walkCommands(command *cli.Command, path []string, visit func(*cli.Command, []string)) {
	current := make([]string, len(path)+1)
	copy(current, path)
	current[len(path)] = command.Name
	visit(command, current)
	for _, sub := range command.Subcommands {
		walkCommands(sub, current, visit)
	}
}
