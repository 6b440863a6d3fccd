package inspect

import (
	"fmt"
	"strings"
	"time"

	"github.com/awcullen/opcua/ua"

	"github.com/infomodel/infomodel-go/pkg/model"
	"github.com/infomodel/infomodel-go/pkg/types"
)

// Formatter formats inspection output.
type Formatter struct {
	// ShowMetadata includes data type, rank and access information
	ShowMetadata bool

	// ShowIDs includes node ids alongside browse names
	ShowIDs bool

	// ShowReferences lists each node's references
	ShowReferences bool

	// IndentWidth is the number of spaces per indent level
	IndentWidth int

	// TimeFormat is used for timestamps. Empty means RFC3339Nano.
	TimeFormat string
}

// NewFormatter creates a new Formatter with default settings.
func NewFormatter() *Formatter {
	return &Formatter{
		ShowMetadata: true,
		ShowIDs:      false,
		IndentWidth:  2,
	}
}

// Indent returns the content with indentation.
func (f *Formatter) Indent(depth int, content string) string {
	width := f.IndentWidth
	if width == 0 {
		width = 2
	}
	indent := strings.Repeat(" ", depth*width)
	return indent + content
}

// FormatValue formats a value for display.
func (f *Formatter) FormatValue(value any) string {
	if value == nil {
		return "null"
	}

	switch v := value.(type) {
	case bool:
		if v {
			return "true"
		}
		return "false"

	case string:
		return fmt.Sprintf("%q", v)

	case int32:
		return fmt.Sprintf("%d", v)

	case int64:
		return fmt.Sprintf("%d", v)

	case ua.LocalizedText:
		return formatLocalizedText(v)

	case ua.EnumValueType:
		return formatEnumValue(v)

	case []ua.LocalizedText:
		parts := make([]string, len(v))
		for i, t := range v {
			parts[i] = formatLocalizedText(t)
		}
		return "[" + strings.Join(parts, ", ") + "]"

	case []ua.EnumValueType:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = formatEnumValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"

	case []byte:
		return fmt.Sprintf("0x%x", v)

	default:
		return fmt.Sprintf("%v", v)
	}
}

func formatLocalizedText(t ua.LocalizedText) string {
	if t.Locale != "" {
		return fmt.Sprintf("%q@%s", t.Text, t.Locale)
	}
	return fmt.Sprintf("%q", t.Text)
}

func formatEnumValue(e ua.EnumValueType) string {
	s := fmt.Sprintf("%d=%q", e.Value, e.DisplayName.Text)
	if e.Description.Text != "" {
		s += fmt.Sprintf(" (%s)", e.Description.Text)
	}
	return s
}

// FormatEnumValue formats an enumeration value with its label, e.g.
// `2 (EnumValue 2)`.
func (f *Formatter) FormatEnumValue(value any, label string) string {
	s := f.FormatValue(value)
	if label != "" {
		s += fmt.Sprintf(" (%s)", label)
	}
	return s
}

// FormatDataValue formats a read result on one line.
func (f *Formatter) FormatDataValue(dv model.DataValue, label string) string {
	var sb strings.Builder
	sb.WriteString(f.FormatEnumValue(dv.Value, label))
	sb.WriteString(" [")
	sb.WriteString(FormatStatus(dv.Status))
	sb.WriteString("]")
	if !dv.SourceTimestamp.IsZero() {
		sb.WriteString(" source=")
		sb.WriteString(f.formatTime(dv.SourceTimestamp))
	}
	if !dv.ServerTimestamp.IsZero() {
		sb.WriteString(" server=")
		sb.WriteString(f.formatTime(dv.ServerTimestamp))
	}
	return sb.String()
}

func (f *Formatter) formatTime(t time.Time) string {
	layout := f.TimeFormat
	if layout == "" {
		layout = time.RFC3339Nano
	}
	return t.Format(layout)
}

// FormatStatus formats a status code with its name.
func FormatStatus(code ua.StatusCode) string {
	return fmt.Sprintf("%s (0x%08X)", model.StatusName(code), uint32(code))
}

// FormatAccess formats an access level for display.
func FormatAccess(access model.AccessLevel) string {
	switch access {
	case model.AccessLevelCurrentRead:
		return "read-only"
	case model.AccessLevelCurrentWrite:
		return "write-only"
	case model.AccessLevelReadWrite:
		return "read-write"
	case 0:
		return "none"
	default:
		return fmt.Sprintf("access(%d)", access)
	}
}

// FormatValueRank formats a value rank for display.
func FormatValueRank(rank int32) string {
	switch rank {
	case model.ValueRankScalar:
		return "scalar"
	case model.ValueRankOneDimension:
		return "array"
	case model.ValueRankAny:
		return "any"
	case model.ValueRankScalarOrOneDimension:
		return "scalar-or-array"
	case model.ValueRankOneOrMoreDimensions:
		return "array(n)"
	default:
		return fmt.Sprintf("rank(%d)", rank)
	}
}

// FormatNode formats a node with its metadata at the given depth.
func (f *Formatter) FormatNode(info *NodeInfo, depth int) string {
	header := fmt.Sprintf("%s (%s)", info.BrowseName, info.Class)
	if f.ShowIDs {
		header = fmt.Sprintf("[%s] %s", info.NodeID, header)
	}
	if info.Class == model.NodeClassVariable.String() {
		header += " = " + info.Value
		if info.Bound {
			header += " <bound>"
		}
		if f.ShowMetadata {
			dims := ""
			if len(info.ArrayDimensions) > 0 {
				dims = fmt.Sprintf("%v", info.ArrayDimensions)
			}
			header += fmt.Sprintf(" (%s, %s%s, %s)", info.DataType, FormatValueRank(info.ValueRank), dims, info.AccessLevel)
		}
	} else if f.ShowMetadata && info.TypeDefinition != "" {
		header += " : " + info.TypeDefinition
	}

	var sb strings.Builder
	sb.WriteString(f.Indent(depth, header))
	sb.WriteString("\n")
	if f.ShowReferences {
		for _, ref := range info.References {
			dir := "->"
			if !ref.Forward {
				dir = "<-"
			}
			sb.WriteString(f.Indent(depth+1, fmt.Sprintf("%s %s %s", dir, ref.Type, ref.Target)))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// FormatSnapshot formats a snapshot as an indented list ordered by path.
func (f *Formatter) FormatSnapshot(nodes []NodeInfo) string {
	if len(nodes) == 0 {
		return "  (no nodes)"
	}
	var sb strings.Builder
	for i := range nodes {
		depth := strings.Count(nodes[i].Path, "/")
		sb.WriteString(f.FormatNode(&nodes[i], depth))
	}
	return sb.String()
}

// FormatDescriptor formats a registered data type.
func (f *Formatter) FormatDescriptor(d types.DataTypeDescriptor) string {
	s := fmt.Sprintf("%s %s (%s, size %d)", d.Name, model.FormatNodeID(d.TypeID), d.Kind, d.Size)
	if f.ShowIDs {
		s += fmt.Sprintf(" encoding=%s parent=%s", model.FormatNodeID(d.BinaryEncodingID), model.FormatNodeID(d.Parent))
	}
	return s
}

// FormatEnumDefinition formats every entry of an enumeration definition.
func (f *Formatter) FormatEnumDefinition(def types.EnumDefinition) string {
	if def.Len() == 0 {
		return "  (no entries)"
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s, %d entries\n", def.Representation(), def.Len()))
	for _, e := range def.Entries() {
		line := fmt.Sprintf("%d: %s", e.Value, e.DisplayName.Text)
		if e.Description.Text != "" {
			line += " - " + e.Description.Text
		}
		sb.WriteString(f.Indent(1, line))
		sb.WriteString("\n")
	}
	return sb.String()
}
