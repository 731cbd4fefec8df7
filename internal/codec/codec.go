package codec

import (
	"io"
	"mime"
	"path/filepath"
	"strings"
)

// Codec encodes and decodes request and response bodies
type Codec interface {
	// Format returns the short format identifier ("json", "yaml", "cbor")
	Format() string
	// ContentType returns the media type written in responses
	ContentType() string
	Encode(w io.Writer, v any) error
	Decode(r io.Reader, v any) error
}

var (
	JSON Codec = NewJSONCodec()
	YAML Codec = NewYAMLCodec()
	CBOR Codec = NewCBORCodec()
)

var byMediaType = map[string]Codec{
	"application/json":   JSON,
	"application/x-yaml": YAML,
	"application/yaml":   YAML,
	"text/yaml":          YAML,
	"application/cbor":   CBOR,
}

var byExtension = map[string]Codec{
	".json":  JSON,
	".jsonc": JSON,
	".yaml":  YAML,
	".yml":   YAML,
	".cbor":  CBOR,
}

// ForContentType returns the codec for a Content-Type header value
func ForContentType(contentType string) (Codec, bool) {
	if contentType == "" {
		return JSON, true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, false
	}
	c, ok := byMediaType[mediaType]
	return c, ok
}

// ForExtension returns the codec for a file name extension
func ForExtension(path string) (Codec, bool) {
	c, ok := byExtension[strings.ToLower(filepath.Ext(path))]
	return c, ok
}

// Negotiate picks the response codec for an Accept header, defaulting to JSON
func Negotiate(accept string) Codec {
	for _, part := range strings.Split(accept, ",") {
		mediaType, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if c, ok := byMediaType[mediaType]; ok {
			return c
		}
	}
	return JSON
}
