package catalog

import "context"

// Store is a writable catalog source
type Store interface {
	Source
	// Save replaces the stored catalog with doc and returns the number of entries written
	Save(ctx context.Context, doc *Document) (int, error)
}
