package codec

import (
	"fmt"
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// CBORCodec handles CBOR bodies using deterministic encoding
type CBORCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// NewCBORCodec creates a new CBOR codec
func NewCBORCodec() *CBORCodec {
	encOptions := cbor.CoreDetEncOptions()
	encOptions.Time = cbor.TimeRFC3339Nano
	enc, err := encOptions.EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}

	// Decoded maps must be map[string]any so they look the same as
	// JSON-decoded arguments to the command validator.
	dec, err := cbor.DecOptions{
		DefaultMapType: reflect.TypeOf(map[string]any(nil)),
	}.DecMode()
	if err != nil {
		panic("codec: CBOR decoder initialization failed: " + err.Error())
	}

	return &CBORCodec{enc: enc, dec: dec}
}

// Format returns the codec format identifier
func (c *CBORCodec) Format() string {
	return "cbor"
}

// ContentType returns the CBOR media type
func (c *CBORCodec) ContentType() string {
	return "application/cbor"
}

// Decode reads one CBOR data item from r into v
func (c *CBORCodec) Decode(r io.Reader, v any) error {
	if err := c.dec.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("failed to parse CBOR: %w", err)
	}
	return nil
}

// Encode writes v as one CBOR data item
func (c *CBORCodec) Encode(w io.Writer, v any) error {
	if err := c.enc.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("failed to encode CBOR: %w", err)
	}
	return nil
}
