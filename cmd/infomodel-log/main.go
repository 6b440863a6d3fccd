// Command infomodel-log is a tool for viewing and analyzing call trace files.
//
// Trace files are written by infomodel-server when started with the
// -event-log flag. Every construction call (AddNode, AddReference,
// BindDataSource, RegisterType) and every Read/Write is recorded.
//
// Usage:
//
//	infomodel-log <command> [flags] <file.ilog>
//
// Commands:
//
//	view     View trace file in human-readable format
//	export   Export trace file to JSON or CSV format
//	filter   Filter trace file and write to new file
//	stats    Show statistics about the trace file
//
// Examples:
//
//	# View all events
//	infomodel-log view server.ilog
//
//	# View only reads of one variable
//	infomodel-log view --operation read --node-id "ns=2;i=0x80000004" server.ilog
//
//	# View failed calls
//	infomodel-log view --failed server.ilog
//
//	# Export to CSV
//	infomodel-log export --format csv -o calls.csv server.ilog
//
//	# Keep only service calls in a new file
//	infomodel-log filter --category service -o service.ilog server.ilog
//
//	# Show statistics
//	infomodel-log stats server.ilog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/infomodel/infomodel-go/cmd/infomodel-log/commands"
)

const usage = `infomodel-log - Information Model Call Trace Analyzer

Usage:
  infomodel-log <command> [flags] <file.ilog>

Commands:
  view     View trace file in human-readable format
  export   Export trace file to JSON or CSV format
  filter   Filter trace file and write to new file
  stats    Show statistics about the trace file

Use "infomodel-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// requirePath returns the single positional argument or exits.
func requirePath(fs *flag.FlagSet) string {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: trace file path required")
		fs.Usage()
		os.Exit(1)
	}
	return fs.Arg(0)
}

func runView(args []string) {
	fs := flag.NewFlagSet("view", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `infomodel-log view - View trace file in human-readable format

Usage:
  infomodel-log view [flags] <file.ilog>

Flags:
`)
		fs.PrintDefaults()
	}

	category := fs.String("category", "", "Filter by category (construction, service)")
	operation := fs.String("operation", "", "Filter by operation (add-node, add-reference, bind-data-source, register-type, read, write)")
	nodeID := fs.String("node-id", "", "Filter by node id (e.g. ns=2;i=0x80000004)")
	failed := fs.Bool("failed", false, "Show only failed calls")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	filter := commands.ViewFilter{FailedOnly: *failed}

	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			fail(err)
		}
		filter.Category = &c
	}

	if *operation != "" {
		op, err := commands.ParseOperationFlag(*operation)
		if err != nil {
			fail(err)
		}
		filter.Operation = &op
	}

	if *nodeID != "" {
		id, err := commands.NormalizeNodeID(*nodeID)
		if err != nil {
			fail(err)
		}
		filter.NodeID = id
	}

	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fail(err)
	}
}

func runExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `infomodel-log export - Export trace file to JSON or CSV format

Usage:
  infomodel-log export [flags] <file.ilog>

Flags:
`)
		fs.PrintDefaults()
	}

	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if err := commands.RunExport(path, *format, *output); err != nil {
		fail(err)
	}
}

func runFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `infomodel-log filter - Filter trace file and write to new file

Usage:
  infomodel-log filter [flags] <file.ilog>

Flags:
`)
		fs.PrintDefaults()
	}

	output := fs.String("o", "", "Output file (required)")
	callID := fs.String("call-id", "", "Filter by call ID")
	nodeID := fs.String("node-id", "", "Filter by node id")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")
	category := fs.String("category", "", "Filter by category (construction, service)")
	operation := fs.String("operation", "", "Filter by operation")
	failed := fs.Bool("failed", false, "Keep only failed calls")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	opts := commands.FilterOptions{
		Output:     *output,
		CallID:     *callID,
		NodeID:     *nodeID,
		TimeStart:  *timeStart,
		TimeEnd:    *timeEnd,
		Category:   *category,
		Operation:  *operation,
		FailedOnly: *failed,
	}

	n, err := commands.RunFilter(path, opts)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Filtered %d events to %s\n", n, *output)
}

func runStats(args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `infomodel-log stats - Show statistics about the trace file

Usage:
  infomodel-log stats <file.ilog>

`)
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	path := requirePath(fs)

	if err := commands.RunStats(path, os.Stdout); err != nil {
		fail(err)
	}
}
