package requests

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/brettbedarf/hierfs"
	"github.com/brettbedarf/hierfs/internal/util"
	"github.com/brettbedarf/hierfs/sources"
)

// Requests holds the decoded entries of a tree definition in file order
type Requests struct {
	Dirs    []*hierfs.DirCreateRequest
	Files   []*hierfs.FileCreateRequest
	Skipped int // entries that failed to decode
}

// Load decodes a JSON array of node definitions. Entries that fail to decode
// are logged and skipped; only a malformed array is an error.
func Load(ctx context.Context, data []byte, reg *sources.Registry) (*Requests, error) {
	logger := util.GetLogger("requests")

	var rawNodes []json.RawMessage
	if err := json.Unmarshal(data, &rawNodes); err != nil {
		return nil, fmt.Errorf("unmarshal node definitions: %w", err)
	}

	reqs := &Requests{}
	for i, rawNode := range rawNodes {
		// Determine the node type
		kind, err := GetNodeType(rawNode)
		if err != nil {
			logger.Error().Err(err).Int("index", i).Msg("Failed to get node type")
			reqs.Skipped++
			continue
		}

		switch kind {
		case hierfs.KindText, hierfs.KindBinary:
			fileReq, err := UnmarshalFileRequest(ctx, rawNode, reg)
			if err != nil {
				logger.Error().Err(err).Int("index", i).Msg("Failed to unmarshal file request")
				reqs.Skipped++
				continue
			}
			reqs.Files = append(reqs.Files, fileReq)
			logger.Debug().Str("path", fileReq.Path).Msg("Processed file request")

		case hierfs.KindDirectory:
			dirReq, err := UnmarshalDirRequest(rawNode)
			if err != nil {
				logger.Error().Err(err).Int("index", i).Msg("Failed to unmarshal directory request")
				reqs.Skipped++
				continue
			}
			reqs.Dirs = append(reqs.Dirs, dirReq)
			logger.Debug().Str("path", dirReq.Path).Msg("Processed directory request")
		}
	}

	logger.Debug().
		Int("files", len(reqs.Files)).
		Int("directories", len(reqs.Dirs)).
		Int("skipped", reqs.Skipped).
		Msg("Loaded node requests")
	return reqs, nil
}

// LoadFile reads and decodes the tree definition at path
func LoadFile(ctx context.Context, path string, reg *sources.Registry) (*Requests, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read node definitions: %w", err)
	}
	return Load(ctx, data, reg)
}

// ApplyResult counts what [Apply] added
type ApplyResult struct {
	Dirs   int
	Files  int
	Failed int
}

// Apply adds all directories first, then all files. Rejected requests, such
// as duplicates, are logged and counted but do not stop the others.
func Apply(op hierfs.FileSystemOperator, reqs *Requests) ApplyResult {
	logger := util.GetLogger("requests")
	var res ApplyResult

	for _, req := range reqs.Dirs {
		if _, err := op.AddDirNode(req); err != nil {
			logger.Warn().Str("path", req.Path).Err(err).Msg("Failed to add directory request")
			res.Failed++
			continue
		}
		res.Dirs++
	}
	for _, req := range reqs.Files {
		if _, err := op.AddFileNode(req); err != nil {
			logger.Warn().Str("path", req.Path).Err(err).Msg("Failed to add file request")
			res.Failed++
			continue
		}
		res.Files++
	}

	logger.Info().Int("directories", res.Dirs).Int("files", res.Files).Int("failed", res.Failed).Msg("Added new nodes to filesystem")
	return res
}
