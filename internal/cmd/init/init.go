// Package init provides the init command for txml.
package init

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/texml/internal/config"
	"github.com/open-cli-collective/texml/internal/input"
)

type initOptions struct {
	encoding      string
	format        string
	rawSubfigures bool
	perRow        int
	doubleQuotes  bool
	noPrompt      bool
	force         bool
}

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize txml configuration",
		Long: `Initialize txml with your preferred conversion settings.

This command will guide you through choosing the input encoding, the
document format and how subfigures are laid out. The configuration will be
saved to ~/.config/txml/config.yml, or to the file given with --config.
A path ending in .toml is written as TOML.`,
		Example: `  # Interactive setup
  txml init

  # Non-interactive setup
  txml init --no-prompt --encoding latin1 --raw-subfigures

  # Write a TOML config
  txml init --config ./txml.toml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				path = config.DefaultConfigPath()
			}
			return runInit(path, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.encoding, "encoding", "", "Input encoding (utf-8, latin1, latin9, cp1252)")
	cmd.Flags().StringVar(&opts.format, "format", "", "Document format (xml, markdown)")
	cmd.Flags().BoolVar(&opts.rawSubfigures, "raw-subfigures", false, "Keep subfigures as elements instead of a table layout")
	cmd.Flags().IntVar(&opts.perRow, "subfigures-per-row", 0, "Subfigures per table row")
	cmd.Flags().BoolVar(&opts.doubleQuotes, "double-quotes", false, "Quote attributes with \" instead of '")
	cmd.Flags().BoolVar(&opts.noPrompt, "no-prompt", false, "Use flags and defaults without asking")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing configuration without asking")

	return cmd
}

// prefill builds the starting configuration from flags and defaults.
func prefill(opts *initOptions) *config.Config {
	cfg := &config.Config{
		InputEncoding:         opts.encoding,
		OutputFormat:          opts.format,
		RawSubfigures:         opts.rawSubfigures,
		SubfiguresPerRow:      opts.perRow,
		DoubleQuoteAttributes: opts.doubleQuotes,
	}
	cfg.ApplyDefaults()
	return cfg
}

func parsePerRow(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("must be a positive number")
	}
	return n, nil
}

func prompt(cfg *config.Config) error {
	encodings := make([]huh.Option[string], 0, len(input.Encodings))
	for _, name := range input.Encodings {
		encodings = append(encodings, huh.NewOption(name, name))
	}
	perRow := strconv.Itoa(cfg.SubfiguresPerRow)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Input encoding").
				Description("Encoding of the documents you convert").
				Options(encodings...).
				Value(&cfg.InputEncoding),

			huh.NewSelect[string]().
				Title("Document format").
				Description("What convert prints by default").
				Options(
					huh.NewOption("XML", config.FormatXML),
					huh.NewOption("Markdown preview", config.FormatMarkdown),
				).
				Value(&cfg.OutputFormat),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Raw subfigures").
				Description("Keep <subfigure> elements instead of laying them out in a table").
				Value(&cfg.RawSubfigures),

			huh.NewInput().
				Title("Subfigures per row").
				Description("Used by the table layout").
				Value(&perRow).
				Validate(func(s string) error {
					_, err := parsePerRow(s)
					return err
				}),

			huh.NewConfirm().
				Title("Double-quoted attributes").
				Description(`Write attr="v" instead of attr='v'`).
				Value(&cfg.DoubleQuoteAttributes),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	n, err := parsePerRow(perRow)
	if err != nil {
		return fmt.Errorf("subfigures per row %w", err)
	}
	cfg.SubfiguresPerRow = n
	return nil
}

func runInit(configPath string, opts *initOptions, w io.Writer) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil && !opts.force {
		if opts.noPrompt {
			return fmt.Errorf("configuration already exists at %s (use --force to overwrite)", configPath)
		}
		var overwrite bool
		err := huh.NewConfirm().
			Title("Configuration already exists").
			Description(fmt.Sprintf("Overwrite %s?", configPath)).
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(w, "Initialization cancelled.")
			return nil
		}
	}

	cfg := prefill(opts)

	if !opts.noPrompt {
		if err := prompt(cfg); err != nil {
			return err
		}
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Save configuration
	if err := cfg.Save(configPath); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nConfiguration saved to %s\n", configPath)
	fmt.Fprintln(w, "\nYou're all set! Try running:")
	fmt.Fprintln(w, "  txml convert paper.md")
	fmt.Fprintln(w, "  txml config show")

	return nil
}
