package requests

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/brettbedarf/hierfs"
	"github.com/brettbedarf/hierfs/sources"
)

// GetNodeType extracts the node type from JSON without full unmarshaling
func GetNodeType(data []byte) (hierfs.NodeKind, error) {
	var meta struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return 0, err
	}
	return hierfs.ParseNodeKind(meta.Type)
}

// UnmarshalFileRequest decodes a text or binary node and resolves its
// content through reg
func UnmarshalFileRequest(ctx context.Context, data []byte, reg *sources.Registry) (*hierfs.FileCreateRequest, error) {
	var dto FileRequestDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, err
	}

	node, err := convertNodeDTO(dto.NodeRequestDTO)
	if err != nil {
		return nil, err
	}
	if !node.Kind.IsReadable() {
		return nil, fmt.Errorf("%q: node type %s is not a file", dto.Path, node.Kind)
	}
	if dto.Owner == "" {
		return nil, fmt.Errorf("%q: file requires an owner", dto.Path)
	}

	var content []byte
	if len(dto.Source) > 0 && string(dto.Source) != "null" {
		content, err = reg.Resolve(ctx, dto.Source)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", dto.Path, err)
		}
	}

	return &hierfs.FileCreateRequest{
		NodeRequest: node,
		Owner:       dto.Owner,
		Content:     content,
	}, nil
}

// UnmarshalDirRequest handles explicit directory unmarshaling (no source)
func UnmarshalDirRequest(data []byte) (*hierfs.DirCreateRequest, error) {
	var dto DirRequestDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, err
	}

	node, err := convertNodeDTO(dto.NodeRequestDTO)
	if err != nil {
		return nil, err
	}
	if node.Kind != hierfs.KindDirectory {
		return nil, fmt.Errorf("%q: node type %s is not a directory", dto.Path, node.Kind)
	}
	return &hierfs.DirCreateRequest{NodeRequest: node}, nil
}

func convertNodeDTO(dto NodeRequestDTO) (hierfs.NodeRequest, error) {
	kind, err := hierfs.ParseNodeKind(dto.Type)
	if err != nil {
		return hierfs.NodeRequest{}, err
	}
	if dto.Path == "" {
		return hierfs.NodeRequest{}, fmt.Errorf("%s node requires a path", kind)
	}
	return hierfs.NodeRequest{Path: dto.Path, Kind: kind}, nil
}
