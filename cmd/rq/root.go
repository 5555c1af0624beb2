// Package main is the rq command-line entry point: the "external
// collaborator, fixed contract" CLI surface of spec.md §6, layered over
// the rsonpath and query packages. Grounded on MacroPower-x's
// cmd/magicschema (SilenceErrors/SilenceUsage, RunE returning a wrapped
// sentinel error) and ehrlich-b-wingthing's cobra-based
// command tree.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/V0ldek/rsonpath"
	"github.com/V0ldek/rsonpath/query"
)

var (
	// ErrUsage reports a malformed invocation (bad --result value, missing
	// query). Distinguished from query/input errors so exit codes could
	// diverge later without changing every call site.
	ErrUsage = fmt.Errorf("usage error")
)

var (
	flagJSON    string
	flagResult  string
	flagVerbose bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "rq <QUERY> [FILE]",
		Short: "Query JSON documents with a streaming JSONPath engine",
		Long: `rq evaluates a JSONPath query over a JSON document in a single
pass, without building an intermediate parse tree, and reports every
matching value in document order.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args)
		},
	}

	root.Flags().StringVar(&flagJSON, "json", "", "inline JSON document, instead of a FILE argument")
	root.Flags().StringVar(&flagResult, "result", "nodes", `result format: "nodes", "count", or "spans"`)
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging to stderr")

	root.AddCommand(newVersionCmd())
	return root
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}

func runQuery(_ *cobra.Command, args []string) error {
	logger := newLogger()

	queryText := args[0]
	var fileArg string
	if len(args) == 2 {
		fileArg = args[1]
	}

	if flagJSON != "" && fileArg != "" {
		return fmt.Errorf("%w: provide either a FILE argument or --json, not both", ErrUsage)
	}
	if flagJSON == "" && fileArg == "" {
		return fmt.Errorf("%w: provide a FILE argument or --json", ErrUsage)
	}

	var mode rsonpath.Mode
	switch flagResult {
	case "nodes":
		mode = rsonpath.ModeNodes
	case "count":
		mode = rsonpath.ModeCount
	case "spans":
		mode = rsonpath.ModeSpans
	default:
		return fmt.Errorf("%w: --result must be nodes, count, or spans, got %q", ErrUsage, flagResult)
	}

	logger.Debug("compiling query", "query", queryText)
	q, err := query.Parse(queryText)
	if err != nil {
		return err
	}
	autom, err := rsonpath.Compile(q)
	if err != nil {
		return err
	}

	var raw []byte
	if flagJSON != "" {
		raw = []byte(flagJSON)
	} else {
		logger.Debug("reading input", "file", fileArg)
		raw, err = readInput(fileArg)
		if err != nil {
			return err
		}
	}

	doc := rsonpath.NewDocument(raw)
	sink := newCLISink(mode, os.Stdout)

	n, err := rsonpath.NewEngine(autom).Run(doc, mode, sink)
	if err != nil {
		if k, ok := rsonpath.Kind(err); !ok || k != rsonpath.KindSinkAborted {
			return err
		}
	}
	logger.Debug("query complete", "matches", n)
	return sink.flush()
}
