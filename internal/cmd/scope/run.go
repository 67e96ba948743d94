package scope

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/texml/internal/input"
	"github.com/open-cli-collective/texml/internal/replay"
	"github.com/open-cli-collective/texml/internal/view"
	"github.com/open-cli-collective/texml/pkg/diag"
	"github.com/open-cli-collective/texml/pkg/eqtb"
)

type runOptions struct {
	trace   bool
	dump    bool
	stats   bool
	output  string
	noColor bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewCmdRun creates the scope run command.
func NewCmdRun() *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [script]",
		Short: "Run a scope script",
		Long: `Run a scope script and print what it shows, followed by the final value of
every slot it assigned.

Statements:
  { } begingroup endgroup     open or close a group
  begin NAME / end NAME       environment boundaries
  push KIND / pop KIND        boundaries of any kind
  set|gset CAT IDX VALUE      local or global assignment
  def|gdef NAME BODY          macro definition (also newcommand,
                              renewcommand, providecommand)
  let|glet NAME TARGET        copy a command
  show CAT IDX|NAME           print one slot
  dump                        print the save stack
  speculate ... endspeculate  run a block that a stray } may cancel

Groups left open at the end are reported, like an unterminated document.`,
		Example: `  # Run a script
  txml scope run groups.scope

  # Trace every change and restore
  txml scope run --trace groups.scope

  # Read the script from stdin
  echo 'set count 1 5' | txml scope run`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			opts.stdin = cmd.InOrStdin()
			opts.stdout = cmd.OutOrStdout()
			opts.stderr = cmd.ErrOrStderr()
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runScript(path, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.trace, "trace", false, "Trace every assignment and restore to stderr")
	cmd.Flags().BoolVar(&opts.dump, "dump", false, "Print the save stack before closing open groups")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "Print save stack statistics")

	return cmd
}

type slotJSON struct {
	Slot  string `json:"slot"`
	Value string `json:"value"`
}

type resultJSON struct {
	Output []string   `json:"output"`
	Dump   []string   `json:"dump,omitempty"`
	Values []slotJSON `json:"values"`
}

func splitValue(shown string) (string, string) {
	slot, value, _ := strings.Cut(shown, "=")
	return slot, value
}

func runScript(path string, opts *runOptions) error {
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}

	src, err := input.Read(path, "", opts.stdin)
	if err != nil {
		return err
	}

	var logger *log.Logger
	if opts.trace {
		logger = log.New(opts.stderr, "", 0)
	}
	sink := diag.New(logger)
	engine := eqtb.NewEngine(sink, nil)
	engine.SetTracer(logger)
	if path != "" && path != "-" {
		engine.SetFile(path)
	}

	r := replay.New(engine)
	if err := r.Run(bytes.NewReader(src)); err != nil {
		return fmt.Errorf("failed to run script: %w", err)
	}
	var dump []string
	if opts.dump {
		dump = engine.Dump()
	}
	r.Finish()

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	renderer.SetWriter(opts.stdout)

	if view.Format(opts.output) == view.FormatJSON {
		res := resultJSON{Output: r.Output(), Dump: dump, Values: []slotJSON{}}
		if res.Output == nil {
			res.Output = []string{}
		}
		for _, v := range r.Values() {
			slot, value := splitValue(v)
			res.Values = append(res.Values, slotJSON{Slot: slot, Value: value})
		}
		if err := renderer.RenderJSON(res); err != nil {
			return err
		}
	} else {
		for _, line := range r.Output() {
			renderer.RenderText(line)
		}
		for _, line := range dump {
			renderer.RenderText(line)
		}
		if values := r.Values(); len(values) > 0 {
			rows := make([][]string, 0, len(values))
			for _, v := range values {
				slot, value := splitValue(v)
				if view.Format(opts.output) != view.FormatPlain {
					value = view.Truncate(value, 60)
				}
				rows = append(rows, []string{slot, value})
			}
			renderer.RenderTable([]string{"SLOT", "VALUE"}, rows)
		}
		if opts.stats {
			st := engine.Stats()
			renderer.RenderKeyValue("Pushes", strconv.Itoa(st.Pushes))
			renderer.RenderKeyValue("Pops", strconv.Itoa(st.Pops))
			renderer.RenderKeyValue("Max depth", strconv.Itoa(st.MaxDepth))
		}
	}

	renderer.SetWriter(opts.stderr)
	if err := renderer.RenderDiagnostics(sink.Entries()); err != nil {
		return err
	}
	renderer.RenderCounts(sink.ErrorCount(), sink.WarningCount())

	return nil
}
