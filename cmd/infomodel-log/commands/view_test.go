package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/infomodel/infomodel-go/pkg/log"
)

func TestFormatEventRead(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, sampleEvents()[2])
	output := buf.String()

	for _, want := range []string{
		"2026-01-28T10:15:33.123456Z",
		"[call:bbbbbbbb]",
		"SERVICE",
		"READ",
		"ns=2;i=2147483652",
		"Status: Good (0x00000000)",
		"Value: 0",
		"Duration: 1.500us",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in output, got:\n%s", want, output)
		}
	}
	if strings.Contains(output, "Error:") {
		t.Errorf("successful read must not print an error line:\n%s", output)
	}
}

func TestFormatEventFailedWrite(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, sampleEvents()[4])
	output := buf.String()

	if !strings.Contains(output, "Status: BadNotFound (0x803E0000)") {
		t.Errorf("expected BadNotFound status, got:\n%s", output)
	}
	if !strings.Contains(output, "Error: not found: write not supported") {
		t.Errorf("expected error line, got:\n%s", output)
	}
}

func TestFormatEventWithoutNode(t *testing.T) {
	var buf bytes.Buffer
	formatEvent(&buf, log.Event{Timestamp: testBase, CallID: "short"})
	if !strings.Contains(buf.String(), "[call:short]") {
		t.Errorf("short call ids are kept whole: %s", buf.String())
	}
	if !strings.Contains(buf.String(), " -\n") {
		t.Errorf("missing node placeholder: %s", buf.String())
	}
}

func TestRunViewFilters(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	service := log.CategoryService
	read := log.OpRead

	tests := []struct {
		name   string
		filter ViewFilter
		want   int
	}{
		{"All", ViewFilter{}, 6},
		{"Service", ViewFilter{Category: &service}, 4},
		{"Reads", ViewFilter{Operation: &read}, 3},
		{"Node", ViewFilter{NodeID: "ns=2;i=2147483652"}, 4},
		{"Failed", ViewFilter{FailedOnly: true}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := RunView(path, tt.filter, &buf); err != nil {
				t.Fatalf("RunView failed: %v", err)
			}
			if got := strings.Count(buf.String(), "[call:"); got != tt.want {
				t.Errorf("got %d events, want %d", got, tt.want)
			}
		})
	}
}

func TestRunViewMissingFile(t *testing.T) {
	var buf bytes.Buffer
	if err := RunView(filepath.Join(t.TempDir(), "missing.ilog"), ViewFilter{}, &buf); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParseCategoryFlag(t *testing.T) {
	tests := []struct {
		input   string
		want    log.Category
		wantErr bool
	}{
		{"construction", log.CategoryConstruction, false},
		{"SERVICE", log.CategoryService, false},
		{"wire", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseCategoryFlag(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCategoryFlag(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseCategoryFlag(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestParseOperationFlag(t *testing.T) {
	tests := []struct {
		input   string
		want    log.Operation
		wantErr bool
	}{
		{"read", log.OpRead, false},
		{"WRITE", log.OpWrite, false},
		{"add-node", log.OpAddNode, false},
		{"BIND_DATA_SOURCE", log.OpBindDataSource, false},
		{"register-type", log.OpRegisterType, false},
		{"add_reference", log.OpAddReference, false},
		{"browse", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseOperationFlag(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOperationFlag(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseOperationFlag(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeNodeID(t *testing.T) {
	got, err := NormalizeNodeID("ns=2;i=0x80000004")
	if err != nil {
		t.Fatalf("NormalizeNodeID: %v", err)
	}
	if got != "ns=2;i=2147483652" {
		t.Errorf("got %q", got)
	}
	if _, err := NormalizeNodeID("ns=x"); err == nil {
		t.Error("expected error for malformed node id")
	}
}
