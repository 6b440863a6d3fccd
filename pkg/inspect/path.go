// Package inspect provides address-space inspection and value manipulation
// utilities.
//
// The inspect package offers a unified interface for:
//   - Parsing node ids ("ns=2;i=2147483649", "i=85", "ns=1;s=Name", "g=<uuid>")
//   - Resolving browse paths (e.g., "Objects/MyFolder/EnumValueTypeVariable")
//   - Reading and writing variable values
//   - Formatting output for display and dumping snapshots
package inspect

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/awcullen/opcua/ua"
	"github.com/google/uuid"
)

// Path errors.
var (
	ErrEmptyPath     = errors.New("empty path")
	ErrInvalidPath   = errors.New("invalid path format")
	ErrInvalidNodeID = errors.New("invalid node id")
	ErrInvalidNumber = errors.New("invalid numeric value")
)

// ParseNodeID parses the text form of a node id.
//
// Supported formats:
//   - "i=85" - numeric, namespace 0
//   - "ns=2;i=2147483649" - numeric, decimal or hex (0x prefix)
//   - "ns=1;s=Name" - string
//   - "ns=2;g=9f1c...-..." - GUID
func ParseNodeID(input string) (ua.NodeID, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return nil, ErrEmptyPath
	}

	var ns uint16
	if rest, ok := strings.CutPrefix(s, "ns="); ok {
		nsText, body, found := strings.Cut(rest, ";")
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrInvalidNodeID, input)
		}
		v, err := parseUint(nsText, 16)
		if err != nil {
			return nil, fmt.Errorf("%w: namespace %q", ErrInvalidNumber, nsText)
		}
		ns = uint16(v)
		s = body
	}

	kind, body, found := strings.Cut(s, "=")
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrInvalidNodeID, input)
	}
	switch kind {
	case "i":
		v, err := parseUint(body, 32)
		if err != nil {
			return nil, fmt.Errorf("%w: identifier %q", ErrInvalidNumber, body)
		}
		return ua.NodeIDNumeric{NamespaceIndex: ns, ID: uint32(v)}, nil
	case "s":
		if body == "" {
			return nil, fmt.Errorf("%w: empty string identifier", ErrInvalidNodeID)
		}
		return ua.NodeIDString{NamespaceIndex: ns, ID: body}, nil
	case "g":
		g, err := uuid.Parse(body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidNodeID, err)
		}
		return ua.NodeIDGUID{NamespaceIndex: ns, ID: g}, nil
	default:
		return nil, fmt.Errorf("%w: unknown identifier type %q", ErrInvalidNodeID, kind)
	}
}

// SplitPath splits a browse path into its segments. Leading "/" is
// ignored; empty segments are rejected.
func SplitPath(input string) ([]string, error) {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "/")
	if input == "" {
		return nil, ErrEmptyPath
	}
	if strings.Contains(input, "//") || strings.HasSuffix(input, "/") {
		return nil, ErrInvalidPath
	}
	return strings.Split(input, "/"), nil
}

// parseUint parses a decimal or hex (0x prefix) unsigned integer.
func parseUint(s string, bits int) (uint64, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return strconv.ParseUint(s[2:], 16, bits)
	}
	return strconv.ParseUint(s, 10, bits)
}
