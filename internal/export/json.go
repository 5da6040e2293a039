package export

import (
	"bytes"
	"encoding/json"

	"github.com/ascsn/pubsly/internal/reference"
)

// JSON renders the full snapshot as 2-space indented JSON. The output
// round-trips through importer.ParseSnapshot.
func JSON(snap reference.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap.Clone()); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
