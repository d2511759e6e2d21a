package config

import "github.com/alesfranek-maf/uwapi/internal/domain/catalog"

// CatalogConfig selects and tunes the prototype catalog
type CatalogConfig struct {
	// Source: "file" reads Path, "database" reads the prototypes table
	Source string `mapstructure:"source" yaml:"source" validate:"required,oneof=file database"`

	// Path to the prototypes document (JSON or YAML)
	Path string `mapstructure:"path" yaml:"path" validate:"required_if=Source file"`

	// Format: auto picks by file extension
	Format string `mapstructure:"format" yaml:"format" validate:"required,oneof=auto json yaml"`

	// Race scopes plans to one race's constructions. Empty plans globally.
	Race string `mapstructure:"race" yaml:"race"`

	// IgnoredIDs are prototypes every query treats as nonexistent
	IgnoredIDs []int64 `mapstructure:"ignored_ids" yaml:"ignored_ids"`

	// NeutralTransportID is never listed as combat unit or resource. Negative disables it.
	NeutralTransportID int64 `mapstructure:"neutral_transport_id" yaml:"neutral_transport_id"`
}

// Options converts the ignore list into catalog indexing options
func (c CatalogConfig) Options() catalog.Options {
	ids := make([]catalog.ID, 0, len(c.IgnoredIDs))
	for _, id := range c.IgnoredIDs {
		ids = append(ids, catalog.ID(id))
	}
	return catalog.Options{IgnoredIDs: ids}
}

// NeutralTransport returns the configured neutral transport, NoID when disabled
func (c CatalogConfig) NeutralTransport() catalog.ID {
	if c.NeutralTransportID < 0 {
		return catalog.NoID
	}
	return catalog.ID(c.NeutralTransportID)
}
