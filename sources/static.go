package sources

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/brettbedarf/hierfs"
)

// InlineSource carries text content in the definition itself
type InlineSource struct {
	Text string `json:"content"`
}

func (s *InlineSource) Content(context.Context) ([]byte, error) {
	return []byte(s.Text), nil
}

// Base64Source carries binary content in the definition itself
type Base64Source struct {
	Data string `json:"data"`
}

func (s *Base64Source) Content(context.Context) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s.Data))
	if err != nil {
		return nil, fmt.Errorf("decode base64 source: %w", err)
	}
	return b, nil
}

// FileSource reads content from the host filesystem when the tree is loaded
type FileSource struct {
	Path string `json:"path"`
}

func (s *FileSource) Content(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read file source: %w", err)
	}
	return b, nil
}

func RegisterInline(r *Registry) {
	r.Register(InlineSourceType, hierfs.SourceProviderFunc(func(raw []byte) (hierfs.ContentSource, error) {
		var s InlineSource
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return &s, nil
	}))
}

func RegisterBase64(r *Registry) {
	r.Register(Base64SourceType, hierfs.SourceProviderFunc(func(raw []byte) (hierfs.ContentSource, error) {
		var s Base64Source
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return &s, nil
	}))
}

func RegisterFile(r *Registry) {
	r.Register(FileSourceType, hierfs.SourceProviderFunc(func(raw []byte) (hierfs.ContentSource, error) {
		var s FileSource
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		if s.Path == "" {
			return nil, fmt.Errorf("file source requires a path")
		}
		return &s, nil
	}))
}
