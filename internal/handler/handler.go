package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"

	"netcommand/internal/codec"
)

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error   string `json:"error" yaml:"error" cbor:"error"`
	Details string `json:"details,omitempty" yaml:"details,omitempty" cbor:"details,omitempty"`
}

// writeData encodes data in the format the client accepts
func writeData(w http.ResponseWriter, r *http.Request, data interface{}, statusCode int) {
	c := codec.Negotiate(r.Header.Get("Accept"))
	w.Header().Set("Content-Type", c.ContentType())
	w.WriteHeader(statusCode)
	if err := c.Encode(w, data); err != nil {
		log.Printf("Failed to encode %s response: %v", c.Format(), err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, error, details string, statusCode int) {
	writeData(w, r, ErrorResponse{
		Error:   error,
		Details: details,
	}, statusCode)
}

var (
	errUnsupportedMediaType = errors.New("unsupported content type")
	errBodyTooLarge         = errors.New("request body too large")
)

// decodeParams reads a parameter object from the request body. An empty
// body yields no parameters. Bodies over maxBodyBytes are rejected whole.
func decodeParams(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	c, ok := codec.ForContentType(r.Header.Get("Content-Type"))
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnsupportedMediaType, r.Header.Get("Content-Type"))
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: limit is %d bytes", errBodyTooLarge, tooLarge.Limit)
		}
		return nil, fmt.Errorf("read body: %w", err)
	}
	params := map[string]any{}
	if len(body) == 0 {
		return params, nil
	}

	var decoded any
	if err := c.Decode(bytes.NewReader(body), &decoded); err != nil {
		return nil, err
	}
	switch v := decoded.(type) {
	case nil:
		return params, nil
	case map[string]any:
		return v, nil
	default:
		return nil, fmt.Errorf("parameters must be an object, got %T", decoded)
	}
}

const maxBodyBytes = 4 << 20
