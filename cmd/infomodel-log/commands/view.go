// Package commands implements the infomodel-log CLI commands.
package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/infomodel/infomodel-go/pkg/inspect"
	"github.com/infomodel/infomodel-go/pkg/log"
	"github.com/infomodel/infomodel-go/pkg/model"
)

// ViewFilter specifies criteria for filtering events in the view command.
type ViewFilter struct {
	Category   *log.Category
	Operation  *log.Operation
	NodeID     string
	FailedOnly bool
}

func (f ViewFilter) logFilter() log.Filter {
	return log.Filter{
		Category:   f.Category,
		Operation:  f.Operation,
		NodeID:     f.NodeID,
		FailedOnly: f.FailedOnly,
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	// Header line: timestamp [call:id] CATEGORY OPERATION node
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	node := event.NodeID
	if node == "" {
		node = "-"
	}
	fmt.Fprintf(w, "%s [call:%s] %-12s %-16s %s\n",
		ts, shortenCallID(event.CallID), event.Category, event.Operation, node)

	fmt.Fprintf(w, "  Status: %s\n", inspect.FormatStatus(event.Status))
	if event.Value != nil {
		fmt.Fprintf(w, "  Value: %v\n", event.Value)
	}
	if event.Duration > 0 {
		fmt.Fprintf(w, "  Duration: %s\n", formatDuration(event.Duration))
	}
	if event.Failed() && event.Message != "" {
		fmt.Fprintf(w, "  Error: %s\n", event.Message)
	}

	fmt.Fprintln(w)
}

// shortenCallID returns the first 8 characters of the call ID.
func shortenCallID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}

// formatDuration formats a duration for display.
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.3fus", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.3fms", float64(d.Microseconds())/1000)
	}
	return fmt.Sprintf("%.3fs", d.Seconds())
}

// ParseCategoryFlag parses a category string from command-line flag (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "construction":
		return log.CategoryConstruction, nil
	case "service":
		return log.CategoryService, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be construction or service)", s)
	}
}

var operationNames = map[string]log.Operation{
	"add-node":         log.OpAddNode,
	"add-reference":    log.OpAddReference,
	"bind-data-source": log.OpBindDataSource,
	"register-type":    log.OpRegisterType,
	"read":             log.OpRead,
	"write":            log.OpWrite,
}

// ParseOperationFlag parses an operation string. Both "add-node" and the
// logged form "ADD_NODE" are accepted.
func ParseOperationFlag(s string) (log.Operation, error) {
	key := strings.ReplaceAll(strings.ToLower(s), "_", "-")
	if op, ok := operationNames[key]; ok {
		return op, nil
	}
	return 0, fmt.Errorf("invalid operation: %s (must be add-node, add-reference, bind-data-source, register-type, read or write)", s)
}

// NormalizeNodeID rewrites a node id to the form used in the log, so that
// "ns=2;i=0x80000004" matches "ns=2;i=2147483652".
func NormalizeNodeID(s string) (string, error) {
	id, err := inspect.ParseNodeID(s)
	if err != nil {
		return "", err
	}
	return model.FormatNodeID(id), nil
}

// RunView executes the view command.
func RunView(path string, filter ViewFilter, output io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter.logFilter())
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		formatEvent(output, event)
	}

	return nil
}
