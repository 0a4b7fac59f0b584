// Package sources resolves the initial content of file nodes from the
// "source" objects of tree definition files
package sources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/brettbedarf/hierfs"
	"github.com/brettbedarf/hierfs/internal/util"
)

// Registry maps a source "type" key to the provider building its sources
type Registry struct {
	providers *xsync.Map[string, hierfs.SourceProvider]
}

func NewRegistry() *Registry {
	return &Registry{providers: xsync.NewMap[string, hierfs.SourceProvider]()}
}

// Register ties a provider to a "type" key. The first registration of a key
// wins; later ones are ignored and logged.
func (r *Registry) Register(sourceType string, provider hierfs.SourceProvider) {
	if _, loaded := r.providers.LoadOrStore(sourceType, provider); loaded {
		logger := util.GetLogger("sources")
		logger.Warn().Str("type", sourceType).Msg("Source provider already registered")
	}
}

// GetProvider returns the provider registered for sourceType
func (r *Registry) GetProvider(sourceType string) (hierfs.SourceProvider, error) {
	p, ok := r.providers.Load(sourceType)
	if !ok {
		return nil, fmt.Errorf("no source provider for %q", sourceType)
	}
	return p, nil
}

// NewSource picks the provider from the "type" field of raw and hands it the
// whole object
func (r *Registry) NewSource(raw []byte) (hierfs.ContentSource, error) {
	var meta struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("invalid source definition: %w", err)
	}
	if meta.Type == "" {
		return nil, fmt.Errorf("source definition has no type")
	}
	p, err := r.GetProvider(meta.Type)
	if err != nil {
		return nil, err
	}
	return p.NewSource(raw)
}

// Resolve builds the source described by raw and fetches its content
func (r *Registry) Resolve(ctx context.Context, raw []byte) ([]byte, error) {
	src, err := r.NewSource(raw)
	if err != nil {
		return nil, err
	}
	return src.Content(ctx)
}

var _ hierfs.SourceProvider = (*Registry)(nil)
