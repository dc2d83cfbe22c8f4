package diagram

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when the payload format changes.
const payloadSchemaVersion uint16 = 1

// payload wraps a Graph with a schema version for safe invalidation.
type payload struct {
	Schema uint16 `msgpack:"schema"`
	Graph  *Graph `msgpack:"graph"`
}

// EncodeMsgpack serializes the graph into a versioned msgpack payload.
func EncodeMsgpack(g *Graph) ([]byte, error) {
	return msgpack.Marshal(payload{Schema: payloadSchemaVersion, Graph: g})
}

// DecodeMsgpack deserializes a payload produced by EncodeMsgpack, rejecting
// unknown schema versions.
func DecodeMsgpack(data []byte) (*Graph, error) {
	var p payload
	if err := msgpack.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode diagram payload: %w", err)
	}
	if p.Schema != payloadSchemaVersion {
		return nil, fmt.Errorf("diagram payload schema %d is not supported (want %d)",
			p.Schema, payloadSchemaVersion)
	}
	if p.Graph == nil {
		return nil, fmt.Errorf("diagram payload has no graph")
	}
	return p.Graph, nil
}

// WriteJSON writes the graph as indented JSON.
func WriteJSON(w io.Writer, g *Graph) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(g)
}
