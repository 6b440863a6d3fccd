package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/awcullen/opcua/ua"

	"github.com/infomodel/infomodel-go/pkg/log"
	"github.com/infomodel/infomodel-go/pkg/model"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents       int
	EventsByCategory  map[log.Category]int
	EventsByOperation map[log.Operation]int
	EventsByStatus    map[ua.StatusCode]int
	Nodes             map[string]*NodeStats
	Failed            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// NodeStats holds statistics for a single node.
type NodeStats struct {
	Reads    int
	Writes   int
	Failed   int
	LastSeen time.Time
}

// CollectStats reads the log file and aggregates its events.
func CollectStats(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByCategory:  make(map[log.Category]int),
		EventsByOperation: make(map[log.Operation]int),
		EventsByStatus:    make(map[ua.StatusCode]int),
		Nodes:             make(map[string]*NodeStats),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByCategory[event.Category]++
		stats.EventsByOperation[event.Operation]++
		stats.EventsByStatus[event.Status]++
		if event.Failed() {
			stats.Failed++
		}

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		if event.Category != log.CategoryService || event.NodeID == "" {
			continue
		}
		node, ok := stats.Nodes[event.NodeID]
		if !ok {
			node = &NodeStats{}
			stats.Nodes[event.NodeID] = node
		}
		switch event.Operation {
		case log.OpRead:
			node.Reads++
		case log.OpWrite:
			node.Writes++
		}
		if event.Failed() {
			node.Failed++
		}
		if event.Timestamp.After(node.LastSeen) {
			node.LastSeen = event.Timestamp
		}
	}

	return stats, nil
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := CollectStats(path)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Information Model Call Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Millisecond))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryConstruction, log.CategoryService} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-18s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Operation:")
	for _, op := range []log.Operation{log.OpAddNode, log.OpAddReference, log.OpBindDataSource, log.OpRegisterType, log.OpRead, log.OpWrite} {
		if count := stats.EventsByOperation[op]; count > 0 {
			fmt.Fprintf(w, "  %-18s %d\n", op.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Status:")
	codes := make([]ua.StatusCode, 0, len(stats.EventsByStatus))
	for code := range stats.EventsByStatus {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	for _, code := range codes {
		fmt.Fprintf(w, "  %-34s %d\n", model.StatusName(code)+":", stats.EventsByStatus[code])
	}

	if len(stats.Nodes) > 0 {
		ids := make([]string, 0, len(stats.Nodes))
		for id := range stats.Nodes {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		fmt.Fprintln(w)
		fmt.Fprintf(w, "Nodes Served: %d\n", len(ids))
		for _, id := range ids {
			n := stats.Nodes[id]
			fmt.Fprintf(w, "  %s: %d reads, %d writes", id, n.Reads, n.Writes)
			if n.Failed > 0 {
				fmt.Fprintf(w, ", %d failed", n.Failed)
			}
			fmt.Fprintln(w)
		}
	}

	if stats.Failed > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Failed Calls: %d\n", stats.Failed)
	}
}
