package catalogsource

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
)

// JSONSource reads the prototypes document exported by the game
type JSONSource struct {
	path string
}

// NewJSONSource creates a source for a JSON prototypes file
func NewJSONSource(path string) *JSONSource {
	return &JSONSource{path: path}
}

// Describe returns the file path
func (s *JSONSource) Describe() string {
	return s.path
}

// Load reads and parses the file. Numbers are decoded exactly so that
// 32-bit prototype ids and fractional counts are never rounded.
func (s *JSONSource) Load(ctx context.Context) (*catalog.Document, error) {
	data, err := readFile(ctx, s.path)
	if err != nil {
		return nil, err
	}
	return DecodeJSON(s.path, data)
}

// DecodeJSON parses a JSON prototypes document
func DecodeJSON(source string, data []byte) (*catalog.Document, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, &catalog.LoadError{Source: source, Reason: "invalid JSON", Err: err}
	}
	return catalog.ParseDocument(source, raw)
}

func readFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		reason := "cannot read file"
		if os.IsNotExist(err) {
			reason = "file not found"
		}
		return nil, &catalog.LoadError{Source: path, Reason: reason, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &catalog.LoadError{Source: path, Reason: "file is empty"}
	}
	return data, nil
}

// errUnsupportedFormat is returned for an unknown explicit format
type errUnsupportedFormat struct {
	format string
}

func (e *errUnsupportedFormat) Error() string {
	return fmt.Sprintf("unsupported catalog format: %s", e.format)
}
