package interactive

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infomodel/infomodel-go/pkg/examples"
	"github.com/infomodel/infomodel-go/pkg/inspect"
)

const (
	enumVarPath = "Objects/MyFolder/EnumValueTypeVariable"
	textVarPath = "Objects/MyFolder/LocalizedTextVariable"
)

func newTestConsole(t *testing.T) (*Console, *examples.EnumerationModel) {
	t.Helper()
	m, err := examples.NewEnumerationModel(examples.EnumerationConfig{})
	require.NoError(t, err)
	return NewConsole(m), m
}

func run(t *testing.T, c *Console, line string) string {
	t.Helper()
	var buf bytes.Buffer
	assert.True(t, c.Execute(context.Background(), line, &buf), "command %q should not exit", line)
	return buf.String()
}

func TestConsoleHelpAndUnknown(t *testing.T) {
	c, _ := newTestConsole(t)

	assert.Contains(t, run(t, c, "help"), "Information Model Commands")
	assert.Contains(t, run(t, c, "frobnicate"), "Unknown command: frobnicate")
	assert.Empty(t, run(t, c, "   "))
}

func TestConsoleQuit(t *testing.T) {
	c, _ := newTestConsole(t)
	for _, cmd := range []string{"quit", "exit", "q", "EXIT"} {
		var buf bytes.Buffer
		assert.False(t, c.Execute(context.Background(), cmd, &buf), cmd)
	}
}

func TestConsoleBrowse(t *testing.T) {
	c, _ := newTestConsole(t)

	out := run(t, c, "browse")
	assert.Contains(t, out, "MyFolder")
	assert.Contains(t, out, "ns=2;i=2147483649")

	out = run(t, c, "ls Objects/MyFolder")
	assert.Contains(t, out, "EnumValueTypeVariable")
	assert.Contains(t, out, "LocalizedTextVariable")

	out = run(t, c, "browse "+enumVarPath)
	assert.Contains(t, out, "(no children)")

	out = run(t, c, "browse Objects/Nope")
	assert.Contains(t, out, "Error:")
}

func TestConsoleInspect(t *testing.T) {
	c, m := newTestConsole(t)

	out := run(t, c, "inspect "+enumVarPath)
	assert.Contains(t, out, "[ns=2;i=2147483652] EnumValueTypeVariable (Variable) = 0 <bound>")
	assert.Contains(t, out, "CustomEnumValueType")
	assert.Contains(t, out, "-> HasTypeDefinition i=63")
	assert.Contains(t, out, "<- Organizes ns=2;i=2147483649")
	assert.Zero(t, m.Source.Reads(), "inspect must not read the data source")

	assert.Contains(t, run(t, c, "inspect"), "Usage: inspect")
}

func TestConsoleReadCycles(t *testing.T) {
	c, m := newTestConsole(t)

	out := run(t, c, "read "+enumVarPath)
	assert.Contains(t, out, enumVarPath+" = 0 (EnumValue 0) [Good (0x00000000)]")
	assert.Contains(t, out, "source=")
	assert.Contains(t, out, "server=")

	out = run(t, c, "r "+textVarPath)
	assert.Contains(t, out, "= 1 (EnumString 1)")

	out = run(t, c, "read ns=2;i=0x80000004")
	assert.Contains(t, out, "= 2 (EnumValue 2)")

	assert.Equal(t, uint64(3), m.Source.Reads())
	assert.Contains(t, run(t, c, "source"), "modulus 5, 3 reads served")
}

func TestConsoleReadErrors(t *testing.T) {
	c, _ := newTestConsole(t)

	assert.Contains(t, run(t, c, "read"), "Usage: read")
	assert.Contains(t, run(t, c, "read Objects/MyFolder"), "Error:")
	assert.Contains(t, run(t, c, "read "+enumVarPath+" 3:1"), "Error:")
}

func TestConsoleWriteRejected(t *testing.T) {
	c, m := newTestConsole(t)

	out := run(t, c, "write "+textVarPath+" EnumString 2")
	assert.Contains(t, out, "Error: BadNotFound (0x803E0000)")

	out = run(t, c, "w "+enumVarPath+" 3")
	assert.Contains(t, out, "BadNotFound")

	out = run(t, c, "write "+enumVarPath+" NotALabel")
	assert.Contains(t, out, "Error:")
	assert.NotContains(t, out, "BadNotFound")

	assert.Contains(t, run(t, c, "write "+enumVarPath), "Usage: write")
	assert.Zero(t, m.Source.Reads())
}

func TestConsoleTypesAndEnum(t *testing.T) {
	c, _ := newTestConsole(t)

	out := run(t, c, "types")
	assert.Contains(t, out, "Registered types (2 of 2):")
	assert.Contains(t, out, "CustomEnumValueType ns=2;i=2147483650")
	assert.Contains(t, out, "CustomLocalizedTextType ns=2;i=2147483653")

	out = run(t, c, "enum "+textVarPath)
	assert.Contains(t, out, "dense, 5 entries")
	assert.Contains(t, out, "4: EnumString 4")

	out = run(t, c, "enum ns=2;i=0x80000002")
	assert.Contains(t, out, "sparse, 5 entries")
	assert.Contains(t, out, "0: EnumValue 0 - Description 0")

	assert.Contains(t, run(t, c, "enum Objects/MyFolder"), "Error:")
}

func TestConsoleDump(t *testing.T) {
	c, _ := newTestConsole(t)

	out := run(t, c, "dump")
	nodes, err := inspect.DecodeYAML(strings.NewReader(out))
	require.NoError(t, err)
	assert.Len(t, nodes, 7)
	assert.Equal(t, "MyFolder", nodes[0].BrowseName)

	all := run(t, c, "dump --all")
	full, err := inspect.DecodeYAML(strings.NewReader(all))
	require.NoError(t, err)
	assert.Greater(t, len(full), len(nodes))

	path := filepath.Join(t.TempDir(), "model.cbor")
	out = run(t, c, "dump "+path)
	assert.Contains(t, out, "Wrote 7 nodes")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := inspect.DecodeCBOR(f)
	require.NoError(t, err)
	assert.Equal(t, nodes, decoded)
}

func TestWriteSnapshotYAML(t *testing.T) {
	_, m := newTestConsole(t)
	nodes := inspect.NewInspector(m.Space, m.Registry).Snapshot(false)

	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, WriteSnapshot(path, nodes))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "browse_name: EnumValueTypeVariable")

	assert.Error(t, WriteSnapshot(filepath.Join(t.TempDir(), "missing", "x.yaml"), nodes))
}
