package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/infomodel/infomodel-go/pkg/log"
	"github.com/infomodel/infomodel-go/pkg/model"
)

// exportRecord is the JSON shape of one event.
type exportRecord struct {
	Timestamp  string `json:"timestamp"`
	CallID     string `json:"call_id"`
	Category   string `json:"category"`
	Operation  string `json:"operation"`
	NodeID     string `json:"node_id,omitempty"`
	Status     string `json:"status"`
	StatusCode uint32 `json:"status_code"`
	Value      any    `json:"value,omitempty"`
	DurationNS int64  `json:"duration_ns,omitempty"`
	Message    string `json:"message,omitempty"`
}

func newExportRecord(event log.Event) exportRecord {
	return exportRecord{
		Timestamp:  event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z"),
		CallID:     event.CallID,
		Category:   event.Category.String(),
		Operation:  event.Operation.String(),
		NodeID:     event.NodeID,
		Status:     model.StatusName(event.Status),
		StatusCode: uint32(event.Status),
		Value:      event.Value,
		DurationNS: event.Duration.Nanoseconds(),
		Message:    event.Message,
	}
}

// RunExport exports the log file to the specified format.
func RunExport(path, format, output string) error {
	if format != "jsonl" && format != "csv" {
		return fmt.Errorf("unknown format: %s (supported: jsonl, csv)", format)
	}

	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	var w io.Writer = os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if format == "csv" {
		return exportCSV(reader, w)
	}
	return exportJSONL(reader, w)
}

func exportJSONL(reader *log.Reader, w io.Writer) error {
	encoder := json.NewEncoder(w)
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(newExportRecord(event)); err != nil {
			return fmt.Errorf("failed to encode event: %w", err)
		}
	}
	return nil
}

func exportCSV(reader *log.Reader, w io.Writer) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"timestamp", "call_id", "category", "operation", "node_id", "status", "value", "duration_ns", "message"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}

		rec := newExportRecord(event)
		value := ""
		if rec.Value != nil {
			value = fmt.Sprint(rec.Value)
		}
		row := []string{
			rec.Timestamp,
			rec.CallID,
			rec.Category,
			rec.Operation,
			rec.NodeID,
			rec.Status,
			value,
			strconv.FormatInt(rec.DurationNS, 10),
			rec.Message,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return cw.Error()
}
