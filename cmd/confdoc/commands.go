package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/confdoc/internal/config"
	"github.com/muurk/confdoc/internal/diff"
	"github.com/muurk/confdoc/internal/format"
	"github.com/muurk/confdoc/internal/query"
	"github.com/muurk/confdoc/internal/ui"
	"github.com/muurk/confdoc/internal/watch"
)

// Command flags
var (
	showRaw       bool
	convertTo     string
	convertOutput string
	convertForce  bool
	diffQuiet     bool
	watchInterval time.Duration
	watchDebounce time.Duration
)

func init() {
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(labelsCmd)
	rootCmd.AddCommand(watchCmd)
}

// loadDocument reads path with the --format override or the format that
// matches its extension
func loadDocument(path string) (*config.ReaderWriter, format.Format, error) {
	f, err := format.Resolve(inputFormat, path)
	if err != nil {
		return nil, format.Format{}, err
	}
	rw := config.NewReaderWriter()
	if !rw.LoadFromFile(path, f.Decoder) {
		return nil, f, fmt.Errorf("failed to load %s: %w", path, rw.Err())
	}
	return rw, f, nil
}

// documentHeader summarizes a loaded document
func documentHeader(title string, rw *config.ReaderWriter, f format.Format) string {
	d := rw.Data().Data
	return ui.NewHeader(title, rw.Source(),
		ui.Param{Key: "Format", Value: f.Name},
		ui.Param{Key: "Nodes", Value: strconv.Itoa(d.Len())},
		ui.Param{Key: "Labels", Value: strconv.Itoa(d.Labels().Len())},
	).Render()
}

// showCmd prints a document as a tree
var showCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Show a document as a tree",
	Long: `Load a document and print it as a tree of groups, arrays and values.

String values are quoted so that "12" and 12 can be told apart. Use --raw
to print the canonical YAML rendering instead.`,
	Example: `  # Tree view of a YAML file
  confdoc show robot.yaml

  # Canonical YAML of an SDF world
  confdoc show --raw empty.world`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().BoolVar(&showRaw, "raw", false, "Print canonical YAML instead of a tree")
}

func runShow(cmd *cobra.Command, args []string) error {
	rw, f, err := loadDocument(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if showRaw {
		return rw.Print(out)
	}
	fmt.Fprintln(out, documentHeader("Document", rw, f))
	fmt.Fprintln(out, ui.RenderTree(rw.Data().Const(), filepath.Base(args[0])))
	return nil
}

// getCmd prints the node or value at a dotted path
var getCmd = &cobra.Command{
	Use:   "get <file> <path>",
	Short: "Print the value or subtree at a path",
	Long: `Resolve a dotted path such as robot.joints[1].id and print what it
names. Values are printed as text, groups and arrays as YAML.`,
	Example: `  confdoc get robot.yaml robot.name
  confdoc get arm.sdf 'model[0].link[1]'`,
	Args: cobra.ExactArgs(2),
	RunE: runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	rw, _, err := loadDocument(args[0])
	if err != nil {
		return err
	}
	m, err := query.Find(rw.Data().Const(), args[1])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if m.IsValue {
		fmt.Fprintln(out, m.Value.String())
		return nil
	}
	raw, err := config.EncodeYAML(m.Node)
	if err != nil {
		return err
	}
	_, err = out.Write(raw)
	return err
}

// queryCmd evaluates JSONPath or dotted paths and prints JSON
var queryCmd = &cobra.Command{
	Use:   "query <file> <expression>",
	Short: "Evaluate a JSONPath expression",
	Long: `Evaluate an RFC 9535 JSONPath expression against a document and print
every match as one line of JSON. Expressions that do not start with "$" are
treated as dotted paths.`,
	Example: `  confdoc query robot.yaml '$.robot.joints[*].id'
  confdoc query arm.sdf '$..link[?@.name=="base"]'`,
	Args: cobra.ExactArgs(2),
	RunE: runQuery,
}

func runQuery(cmd *cobra.Command, args []string) error {
	rw, _, err := loadDocument(args[0])
	if err != nil {
		return err
	}
	results, err := query.Eval(rw.Data().Const(), args[1])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	}
	return nil
}

// convertCmd re-serializes a document in another format
var convertCmd = &cobra.Command{
	Use:   "convert <file>",
	Short: "Convert a document to another format",
	Long: `Load a document and write it in the format given by --to.

Without --output the result goes to stdout. With --output the target
format defaults to the output file's extension, and an existing file is
only replaced after confirmation or with --force.`,
	Example: `  confdoc convert robot.xml --to yaml
  confdoc convert robot.yaml --output robot.xml`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertTo, "to", "", "Output format (yaml, xml, sdf)")
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Output file")
	convertCmd.Flags().BoolVarP(&convertForce, "force", "f", false, "Overwrite the output file without asking")
}

func runConvert(cmd *cobra.Command, args []string) error {
	rw, _, err := loadDocument(args[0])
	if err != nil {
		return err
	}
	target, err := format.Resolve(convertTo, convertOutput)
	if err != nil {
		return fmt.Errorf("cannot pick an output format: %w", err)
	}
	raw, err := target.Encoder.Encode(rw.Data().Const())
	if err != nil {
		return err
	}
	if convertOutput == "" {
		_, err = cmd.OutOrStdout().Write(raw)
		return err
	}
	if _, err := os.Stat(convertOutput); err == nil && !convertForce {
		if !ui.ConfirmOverwrite(cmd.InOrStdin(), cmd.ErrOrStderr(), convertOutput) {
			return fmt.Errorf("not overwriting %s", convertOutput)
		}
	}
	if err := os.WriteFile(convertOutput, raw, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", convertOutput, err)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), ui.RenderSuccess("Converted "+filepath.Base(args[0]),
		ui.Param{Key: "Output", Value: convertOutput},
		ui.Param{Key: "Format", Value: target.Name},
		ui.Param{Key: "Bytes", Value: strconv.Itoa(len(raw))},
	))
	return nil
}

// diffCmd compares two documents
var diffCmd = &cobra.Command{
	Use:   "diff <old> <new>",
	Short: "Compare two documents",
	Long: `Compare the canonical YAML renderings of two documents line by line.

The documents may be in different formats. With --quiet nothing is printed
and the exit status reports whether they differ.`,
	Example: `  confdoc diff robot.yaml robot.xml
  confdoc diff --quiet old.sdf new.sdf`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

func init() {
	diffCmd.Flags().BoolVarP(&diffQuiet, "quiet", "q", false, "Only report through the exit status")
}

func runDiff(cmd *cobra.Command, args []string) error {
	from, _, err := loadDocument(args[0])
	if err != nil {
		return err
	}
	to, _, err := loadDocument(args[1])
	if err != nil {
		return err
	}
	lines, err := diff.Lines(from.Data().Const(), to.Data().Const())
	if err != nil {
		return err
	}
	changed := diff.Changed(lines)
	if diffQuiet {
		if changed {
			return fmt.Errorf("%s and %s differ", args[0], args[1])
		}
		return nil
	}

	out := cmd.OutOrStdout()
	if !changed {
		fmt.Fprintln(out, "No differences.")
		return nil
	}
	fmt.Fprintf(out, "--- %s\n+++ %s\n", args[0], args[1])
	for _, l := range lines {
		text := l.Op.Prefix() + l.Text
		switch l.Op {
		case diff.Insert:
			text = ui.InsertLineStyle.Render(text)
		case diff.Delete:
			text = ui.DeleteLineStyle.Render(text)
		}
		fmt.Fprintln(out, text)
	}
	inserted, deleted := diff.Stats(lines)
	fmt.Fprintf(out, "\n%d insertion(s), %d deletion(s)\n", inserted, deleted)
	return nil
}

// labelsCmd prints the label table of a document
var labelsCmd = &cobra.Command{
	Use:   "labels <file>",
	Short: "List the interned labels of a document",
	Long: `Print every property name interned by the document with how often it
is used as a value, a group and an array.`,
	Args: cobra.ExactArgs(1),
	RunE: runLabels,
}

func runLabels(cmd *cobra.Command, args []string) error {
	rw, _, err := loadDocument(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), ui.RenderLabels(rw.Data().Const()))
	return nil
}

// watchCmd reloads and reprints a document whenever it changes
var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Reprint a document whenever its file changes",
	Long: `Load a document, print it, and reload it whenever the file changes.

Changes are detected through file system events. --interval adds a polling
fallback for file systems that do not deliver events. A reload that fails
keeps the previous document and prints the errors.`,
	Example: `  confdoc watch robot.yaml
  confdoc watch --interval 2s /mnt/share/robot.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", 0, "Polling interval; 0 disables polling")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "Quiet period after file events")
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	rw, f, err := loadDocument(path)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, documentHeader("Watching", rw, f))
	fmt.Fprintln(out, ui.RenderTree(rw.Data().Const(), filepath.Base(path)))

	w, err := watch.New(path, watchDebounce)
	if err != nil {
		if watchInterval <= 0 {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), ui.NewWarningResult("File events unavailable, polling",
			ui.Param{Key: "Interval", Value: watchInterval.String()}).Render())
		w = nil
	} else {
		defer w.Close()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if w != nil {
		go w.Run(ctx)
	}

	watch.Follow(ctx, w, rw, watchInterval, func(err error) {
		stamp := time.Now().Format("15:04:05")
		if err != nil {
			fmt.Fprintln(out, ui.RenderFailure("Reload failed at "+stamp, nil, splitMessages(err)))
			return
		}
		fmt.Fprintln(out, documentHeader("Reloaded at "+stamp, rw, f))
		fmt.Fprintln(out, ui.RenderTree(rw.Data().Const(), filepath.Base(path)))
	})
	return nil
}

// splitMessages returns the individual document messages carried by err
func splitMessages(err error) []string {
	if ce, ok := err.(*config.ConfigError); ok && ce.Type == config.ErrTypeDocument {
		return strings.Split(ce.Message, "\n")
	}
	return []string{err.Error()}
}
