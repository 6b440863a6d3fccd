package inspect

import (
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

var snapshotEncMode cbor.EncMode

func init() {
	var err error
	snapshotEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("inspect: failed to create CBOR encoder: %v", err))
	}
}

// EncodeCBOR writes nodes as one CBOR array.
func EncodeCBOR(w io.Writer, nodes []NodeInfo) error {
	if nodes == nil {
		nodes = []NodeInfo{}
	}
	return snapshotEncMode.NewEncoder(w).Encode(nodes)
}

// DecodeCBOR reads a snapshot written by EncodeCBOR.
func DecodeCBOR(r io.Reader) ([]NodeInfo, error) {
	var nodes []NodeInfo
	if err := cbor.NewDecoder(r).Decode(&nodes); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return nodes, nil
}

// EncodeYAML writes nodes as a YAML sequence.
func EncodeYAML(w io.Writer, nodes []NodeInfo) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(nodes); err != nil {
		return err
	}
	return enc.Close()
}

// DecodeYAML reads a snapshot written by EncodeYAML.
func DecodeYAML(r io.Reader) ([]NodeInfo, error) {
	var nodes []NodeInfo
	if err := yaml.NewDecoder(r).Decode(&nodes); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return nodes, nil
}
