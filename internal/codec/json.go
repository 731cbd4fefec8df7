package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tidwall/jsonc"
)

// JSONCodec handles JSON bodies. Decoding accepts JSONC: // and /* */
// comments and trailing commas are stripped first.
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// ContentType returns the JSON media type
func (c *JSONCodec) ContentType() string {
	return "application/json"
}

// Decode parses JSON or JSONC from r into v
func (c *JSONCodec) Decode(r io.Reader, v any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read JSON: %w", err)
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	return nil
}

// Encode writes v as indented JSON
func (c *JSONCodec) Encode(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
