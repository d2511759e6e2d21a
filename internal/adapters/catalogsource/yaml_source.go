package catalogsource

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
)

// YAMLSource reads a hand-maintained YAML prototypes document
type YAMLSource struct {
	path string
}

// NewYAMLSource creates a source for a YAML prototypes file
func NewYAMLSource(path string) *YAMLSource {
	return &YAMLSource{path: path}
}

// Describe returns the file path
func (s *YAMLSource) Describe() string {
	return s.path
}

// Load reads and parses the file
func (s *YAMLSource) Load(ctx context.Context) (*catalog.Document, error) {
	data, err := readFile(ctx, s.path)
	if err != nil {
		return nil, err
	}
	return DecodeYAML(s.path, data)
}

// DecodeYAML parses a YAML prototypes document
func DecodeYAML(source string, data []byte) (*catalog.Document, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &catalog.LoadError{Source: source, Reason: "invalid YAML", Err: err}
	}
	normalized, _ := normalize(raw).(map[string]any)
	return catalog.ParseDocument(source, normalized)
}

// normalize turns the interface-keyed maps yaml produces for numeric keys
// into string-keyed maps, recursively
func normalize(v any) any {
	switch m := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[k] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(m))
		for i, val := range m {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}
