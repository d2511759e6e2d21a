package catalogsource

import (
	"path/filepath"
	"strings"

	"github.com/alesfranek-maf/uwapi/internal/domain/catalog"
)

// Formats accepted by NewFileSource
const (
	FormatAuto = "auto"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// NewFileSource returns the source for path. The auto format picks YAML for
// .yaml and .yml files and JSON otherwise.
func NewFileSource(path, format string) (catalog.Source, error) {
	switch strings.ToLower(format) {
	case FormatJSON:
		return NewJSONSource(path), nil
	case FormatYAML:
		return NewYAMLSource(path), nil
	case FormatAuto, "":
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			return NewYAMLSource(path), nil
		default:
			return NewJSONSource(path), nil
		}
	default:
		return nil, &errUnsupportedFormat{format: format}
	}
}
