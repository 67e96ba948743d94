// Package root provides the root command for the txml CLI.
package root

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/texml/internal/cmd/completion"
	"github.com/open-cli-collective/texml/internal/cmd/configcmd"
	"github.com/open-cli-collective/texml/internal/cmd/convert"
	initcmd "github.com/open-cli-collective/texml/internal/cmd/init"
	"github.com/open-cli-collective/texml/internal/cmd/scope"
	"github.com/open-cli-collective/texml/internal/version"
)

// NewCmdRoot creates the root command for txml.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "txml",
		Short: "Turn document skeletons into structured XML",
		Long: `txml converts document skeletons into their final XML form.

It folds figure and table environments, lays out subfigures, expands
compositions and resolves citations against the bibliography. The scope
engine that tracks groups and assignments can also be driven directly.

Get started by running: txml init`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/txml/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", "table", "output format: table, json, plain")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	// Set version template
	cmd.SetVersionTemplate("txml version {{.Version}} (commit: " + version.Commit + ", built: " + version.Date + ")\n")

	// Subcommands
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(convert.NewCmdConvert())
	cmd.AddCommand(scope.NewCmdScope())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(completion.NewCmdCompletion())

	return cmd
}
