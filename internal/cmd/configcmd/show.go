package configcmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/texml/internal/config"
)

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the effective txml configuration and where each value comes from.`,
		Example: `  # Show current config
  txml config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runShow(configPath(cmd), noColor, cmd.OutOrStdout())
		},
	}

	return cmd
}

func boolField(b bool) string {
	if !b {
		return ""
	}
	return "true"
}

func intField(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// source reports where value came from: an environment variable that
// produced it, the config file, or the built-in default.
func source(value, fileValue, envVar string) string {
	if envVar != "" {
		if env := os.Getenv(envVar); env != "" {
			if env == value {
				return envVar
			}
			if b, err := strconv.ParseBool(env); err == nil && strconv.FormatBool(b) == value {
				return envVar
			}
		}
	}
	if fileValue != "" && fileValue == value {
		return "config"
	}
	return "default"
}

func runShow(path string, noColor bool, w io.Writer) error {
	if noColor {
		color.NoColor = true
	}

	// Load file config (may not exist)
	fileCfg, fileErr := config.Load(path)
	if fileErr != nil {
		fileCfg = &config.Config{}
	}

	// Load full config with env overrides
	cfg, err := config.LoadWithEnv(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	printField := func(label, value, fileValue, envVar string) {
		_, _ = bold.Fprintf(w, "%-20s", label+":")
		if value == "" {
			_, _ = dim.Fprintln(w, "-")
			return
		}
		fmt.Fprint(w, value)
		_, _ = dim.Fprintf(w, "  (source: %s)\n", source(value, fileValue, envVar))
	}

	printField("Input encoding", cfg.InputEncoding, fileCfg.InputEncoding, "TXML_INPUT_ENCODING")
	printField("Output format", cfg.OutputFormat, fileCfg.OutputFormat, "TXML_OUTPUT_FORMAT")
	printField("Raw subfigures", strconv.FormatBool(cfg.RawSubfigures), boolField(fileCfg.RawSubfigures), "TXML_RAW_SUBFIGURES")
	printField("Subfigures per row", strconv.Itoa(cfg.SubfiguresPerRow), intField(fileCfg.SubfiguresPerRow), "")
	printField("Double quotes", strconv.FormatBool(cfg.DoubleQuoteAttributes), boolField(fileCfg.DoubleQuoteAttributes), "")
	printField("Trace", strconv.FormatBool(cfg.Trace), boolField(fileCfg.Trace), "TXML_TRACE")
	printField("Source name", cfg.SourceName, fileCfg.SourceName, "")

	fmt.Fprintln(w)
	_, _ = dim.Fprintf(w, "Config file: %s\n", path)
	if fileErr != nil {
		_, _ = dim.Fprintln(w, "(file not found)")
	}

	return nil
}
