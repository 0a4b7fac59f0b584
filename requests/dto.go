package requests

import "encoding/json"

// NodeRequestDTO is the JSON representation of [hierfs.NodeRequest]
type NodeRequestDTO struct {
	Path string `json:"path"`
	Type string `json:"type"` // "dir", "text" or "binary"
}

// FileRequestDTO is the JSON representation of [hierfs.FileCreateRequest]
type FileRequestDTO struct {
	NodeRequestDTO
	Owner string `json:"owner"` // Principal name

	// Source is handed to the source registry as is. Additional fields depend
	// on its "type" value, ex. for type="http" (see [sources.HTTPSource]):
	//
	//	URL     string            `json:"url"`
	//	Headers map[string]string `json:"headers,omitempty"`
	//
	// A missing source means empty content.
	Source json.RawMessage `json:"source,omitempty"`
}

type DirRequestDTO struct {
	NodeRequestDTO
}
