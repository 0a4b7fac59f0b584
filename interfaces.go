// Package hierfs contains core domain types and interfaces for the hierfs
// permission-gated in-memory filesystem
package hierfs

import "context"

// ContentSource resolves the initial content of a file node. Sources are only
// consulted while loading tree definitions; the in-memory tree never calls
// back into them.
type ContentSource interface {
	Content(ctx context.Context) ([]byte, error)
}

// SourceProvider is a factory for concrete [ContentSource] implementations
// generated from a raw JSON source definition
type SourceProvider interface {
	NewSource(raw []byte) (ContentSource, error)
}

// SourceProviderFunc adapts a plain function to [SourceProvider]
type SourceProviderFunc func(raw []byte) (ContentSource, error)

func (f SourceProviderFunc) NewSource(raw []byte) (ContentSource, error) {
	return f(raw)
}
