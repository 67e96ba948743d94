// Package scope provides commands that exercise the scope engine.
package scope

import (
	"github.com/spf13/cobra"
)

// NewCmdScope creates the scope command.
func NewCmdScope() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scope",
		Short: "Run grouping and assignment scripts",
		Long: `Commands for driving the scope engine directly.

A scope script lists group openings and closings, environment boundaries,
local and global assignments and command definitions, one per line. It is
useful for checking how a sequence of groups restores values.`,
	}

	cmd.AddCommand(NewCmdRun())

	return cmd
}
