// Package interactive provides the interactive command-line interface
// for the information model server.
package interactive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/awcullen/opcua/ua"

	"github.com/infomodel/infomodel-go/pkg/examples"
	"github.com/infomodel/infomodel-go/pkg/inspect"
	"github.com/infomodel/infomodel-go/pkg/model"
)

// Console executes console commands against an enumeration model.
// It holds no terminal state, so it can be driven from tests.
type Console struct {
	model     *examples.EnumerationModel
	inspector *inspect.Inspector
	formatter *inspect.Formatter
}

// NewConsole creates a console for m.
func NewConsole(m *examples.EnumerationModel) *Console {
	return &Console{
		model:     m,
		inspector: inspect.NewInspector(m.Space, m.Registry),
		formatter: inspect.NewFormatter(),
	}
}

// Execute runs one command line and writes its output to w. It returns
// false when the line asks the console to exit.
func (c *Console) Execute(ctx context.Context, line string, w io.Writer) bool {
	parts := strings.Fields(strings.TrimSpace(line))
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		c.printHelp(w)

	case "browse", "b", "ls":
		c.cmdBrowse(w, args)

	case "inspect", "i":
		c.cmdInspect(w, args)

	case "read", "r":
		c.cmdRead(ctx, w, args)

	case "write", "w":
		c.cmdWrite(ctx, w, args)

	case "types", "t":
		c.cmdTypes(w)

	case "enum", "e":
		c.cmdEnum(w, args)

	case "dump", "d":
		c.cmdDump(w, args)

	case "source", "s":
		c.cmdSource(w)

	case "quit", "exit", "q":
		return false

	default:
		fmt.Fprintf(w, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (c *Console) printHelp(w io.Writer) {
	fmt.Fprintln(w, `
Information Model Commands:
  Navigation:
    browse [node]          - List children of a node (default: Objects)
    inspect <node>         - Show attributes and references of a node

  Values:
    read <node> [range]    - Read a variable value (range: "2" or "1:3")
    write <node> <value>   - Write a variable value (enums accept labels)

  Types:
    types                  - List registered custom data types
    enum <node>            - Show the enumeration definition of a type or variable
    source                 - Show the cycling data source state

  Snapshot:
    dump [--all] [file]    - Dump the address space as YAML (.cbor file: CBOR)

  Other:
    help                   - Show this help
    quit                   - Exit

Nodes are given as node ids ("ns=2;i=0x80000004") or browse paths
("Objects/MyFolder/EnumValueTypeVariable").`)
}

// resolve parses a node argument, writing the error to w on failure.
func (c *Console) resolve(w io.Writer, arg string) (ua.NodeID, bool) {
	id, err := inspect.Resolve(c.model.Space, arg)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return nil, false
	}
	return id, true
}

func (c *Console) cmdBrowse(w io.Writer, args []string) {
	var id ua.NodeID = model.ObjectsFolderID
	if len(args) > 0 {
		var ok bool
		if id, ok = c.resolve(w, args[0]); !ok {
			return
		}
	}

	children := c.model.Space.Browse(id, model.HierarchicalReferencesID, true, true)
	if len(children) == 0 {
		fmt.Fprintln(w, "  (no children)")
		return
	}
	for _, child := range children {
		n, ok := c.model.Space.Node(child)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  %-28s %-14s %s\n", n.BrowseName().Name, n.Class(), model.FormatNodeID(child))
	}
}

func (c *Console) cmdInspect(w io.Writer, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(w, "Usage: inspect <node>")
		fmt.Fprintln(w, "  Example: inspect Objects/MyFolder")
		return
	}
	id, ok := c.resolve(w, args[0])
	if !ok {
		return
	}
	info, err := c.inspector.InspectNode(id)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	f := *c.formatter
	f.ShowIDs = true
	f.ShowReferences = true
	fmt.Fprint(w, f.FormatNode(info, 0))
}

func (c *Console) cmdRead(ctx context.Context, w io.Writer, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(w, "Usage: read <node> [range]")
		fmt.Fprintln(w, "  Example: read Objects/MyFolder/EnumValueTypeVariable")
		return
	}
	id, ok := c.resolve(w, args[0])
	if !ok {
		return
	}
	rng := ""
	if len(args) > 1 {
		rng = args[1]
	}

	dv, err := c.inspector.ReadValue(ctx, id, rng)
	if err != nil {
		fmt.Fprintf(w, "Error: %s: %v\n", inspect.FormatStatus(model.StatusCode(err)), err)
		return
	}
	fmt.Fprintf(w, "%s = %s\n", args[0], c.formatter.FormatDataValue(dv, c.inspector.Label(id, dv.Value)))
}

func (c *Console) cmdWrite(ctx context.Context, w io.Writer, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(w, "Usage: write <node> <value>")
		fmt.Fprintln(w, "  Example: write Objects/MyFolder/LocalizedTextVariable \"EnumString 2\"")
		return
	}
	id, ok := c.resolve(w, args[0])
	if !ok {
		return
	}
	text := strings.Join(args[1:], " ")

	if err := c.inspector.WriteValue(ctx, id, text); err != nil {
		fmt.Fprintf(w, "Error: %s: %v\n", inspect.FormatStatus(model.StatusCode(err)), err)
		return
	}
	fmt.Fprintf(w, "OK: %s <- %s\n", args[0], text)
}

func (c *Console) cmdTypes(w io.Writer) {
	descriptors := c.inspector.Types()
	fmt.Fprintf(w, "Registered types (%d of %d):\n", len(descriptors), c.model.Registry.Capacity())
	for _, d := range descriptors {
		fmt.Fprintf(w, "  %s\n", c.formatter.FormatDescriptor(d))
	}
}

func (c *Console) cmdEnum(w io.Writer, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(w, "Usage: enum <node>")
		fmt.Fprintln(w, "  Example: enum Objects/MyFolder/EnumValueTypeVariable")
		return
	}
	id, ok := c.resolve(w, args[0])
	if !ok {
		return
	}
	def, err := c.inspector.EnumDefinition(id)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	fmt.Fprint(w, c.formatter.FormatEnumDefinition(def))
}

func (c *Console) cmdDump(w io.Writer, args []string) {
	includeStandard := false
	path := ""
	for _, a := range args {
		if a == "--all" || a == "-a" {
			includeStandard = true
			continue
		}
		path = a
	}

	nodes := c.inspector.Snapshot(includeStandard)
	if path == "" {
		if err := inspect.EncodeYAML(w, nodes); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
		}
		return
	}

	if err := WriteSnapshot(path, nodes); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(w, "Wrote %d nodes to %s\n", len(nodes), path)
}

func (c *Console) cmdSource(w io.Writer) {
	src := c.model.Source
	fmt.Fprintf(w, "Cycling source: modulus %d, %d reads served\n", src.Modulus(), src.Reads())
	for _, id := range c.model.Variables() {
		fmt.Fprintf(w, "  bound: %s (%s)\n", inspect.BrowsePath(c.model.Space, id), model.FormatNodeID(id))
	}
}

// WriteSnapshot writes nodes to path, as CBOR when the extension is
// ".cbor" and as YAML otherwise.
func WriteSnapshot(path string, nodes []inspect.NodeInfo) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".cbor") {
		err = inspect.EncodeCBOR(f, nodes)
	} else {
		err = inspect.EncodeYAML(f, nodes)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
