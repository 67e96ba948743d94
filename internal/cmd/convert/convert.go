// Package convert provides the convert command.
package convert

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/texml/internal/config"
	"github.com/open-cli-collective/texml/internal/input"
	"github.com/open-cli-collective/texml/internal/view"
	"github.com/open-cli-collective/texml/pkg/diag"
	"github.com/open-cli-collective/texml/pkg/mdskel"
	"github.com/open-cli-collective/texml/pkg/postprocess"
	"github.com/open-cli-collective/texml/pkg/render"
	"github.com/open-cli-collective/texml/pkg/symbol"
	"github.com/open-cli-collective/texml/pkg/xmltree"
)

type convertOptions struct {
	from          string
	format        string
	encoding      string
	write         string
	rawSubfigures bool
	output        string
	noColor       bool
	configPath    string

	cfg    *config.Config
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewCmdConvert creates the convert command.
func NewCmdConvert() *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert a document skeleton to final XML",
		Long: `Read a markdown or XML document skeleton, postprocess it and print the result.

Figure and table environments are folded, compositions expanded and
citations resolved. Document problems are reported as diagnostics after the
output; they never make the command fail.`,
		Example: `  # Convert a markdown document
  txml convert paper.md

  # Convert a raw XML skeleton from stdin, writing markdown
  txml convert --from xml --format markdown < skeleton.xml

  # Latin-1 input, raw subfigures, output to a file
  txml convert --encoding latin1 --raw-subfigures -w paper.xml paper.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.stdin = cmd.InOrStdin()
			opts.stdout = cmd.OutOrStdout()
			opts.stderr = cmd.ErrOrStderr()
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runConvert(path, opts)
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "", "Input kind: markdown or xml (default: by file extension)")
	cmd.Flags().StringVar(&opts.format, "format", "", "Document format: xml or markdown (default: from config)")
	cmd.Flags().StringVar(&opts.encoding, "encoding", "", "Input encoding: utf-8, latin1, latin9, cp1252")
	cmd.Flags().StringVarP(&opts.write, "write", "w", "", "Write the document to a file instead of stdout")
	cmd.Flags().BoolVar(&opts.rawSubfigures, "raw-subfigures", false, "Keep subfigures as elements instead of a table layout")

	return cmd
}

func inputKind(from, path string) (string, error) {
	switch from {
	case "markdown", "md":
		return "markdown", nil
	case "xml":
		return "xml", nil
	case "":
		if strings.EqualFold(filepath.Ext(path), ".xml") {
			return "xml", nil
		}
		return "markdown", nil
	}
	return "", fmt.Errorf("invalid input kind %q (valid: markdown, xml)", from)
}

func runConvert(path string, opts *convertOptions) error {
	// Validate output format
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}

	cfg := opts.cfg
	if cfg == nil {
		cfgPath := opts.configPath
		if cfgPath == "" {
			cfgPath = config.DefaultConfigPath()
		}
		var err error
		cfg, err = config.LoadWithEnv(cfgPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}
	resolved := *cfg
	if opts.encoding != "" {
		resolved.InputEncoding = opts.encoding
	}
	if opts.format != "" {
		resolved.OutputFormat = opts.format
	}
	if opts.rawSubfigures {
		resolved.RawSubfigures = true
	}
	resolved.ApplyDefaults()
	if err := resolved.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	kind, err := inputKind(opts.from, path)
	if err != nil {
		return err
	}

	data, err := input.Read(path, resolved.InputEncoding, opts.stdin)
	if err != nil {
		return err
	}

	name := resolved.SourceName
	if name == "" {
		name = path
	}
	if name == "" {
		name = "stdin"
	}

	var logger *log.Logger
	if resolved.Trace {
		logger = log.New(opts.stderr, "", 0)
	}
	sink := diag.New(logger)
	tbl := symbol.NewTable()

	var root *xmltree.Node
	if kind == "xml" {
		root, err = xmltree.Parse(bytes.NewReader(data), tbl)
		if err != nil {
			return err
		}
	} else {
		reader := mdskel.New(tbl, sink)
		reader.Engine().SetTracer(logger)
		root = reader.Read(data, name)
	}

	proc := postprocess.New(tbl, sink, postprocess.Options{
		RawSubfigures:    resolved.RawSubfigures,
		SubfiguresPerRow: resolved.SubfiguresPerRow,
	})
	proc.Document(root, name)

	if opts.write == "" {
		if err := writeDocument(opts.stdout, root, tbl, &resolved); err != nil {
			return err
		}
	} else {
		f, err := os.Create(opts.write)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		if err := writeDocument(f, root, tbl, &resolved); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	loc := diag.Location{File: name}
	for _, id := range proc.Labels().Dangling() {
		sink.Warnf(loc, "Reference to undefined label %s", id)
	}
	if keys := proc.Bibliography().Unsolved(); len(keys) > 0 {
		sink.Warnf(loc, "Unsolved citations: %s", strings.Join(keys, ", "))
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	renderer.SetWriter(opts.stderr)
	if err := renderer.RenderDiagnostics(sink.Entries()); err != nil {
		return err
	}
	renderer.RenderCounts(sink.ErrorCount(), sink.WarningCount())

	return nil
}

func writeDocument(out io.Writer, root *xmltree.Node, tbl *symbol.Table, cfg *config.Config) error {
	if cfg.OutputFormat == config.FormatMarkdown {
		md, err := render.Markdown(root, tbl)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out, md); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := xmltree.Write(out, root, xmltree.WriteOptions{DoubleQuote: cfg.DoubleQuoteAttributes}); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
