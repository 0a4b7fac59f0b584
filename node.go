package hierfs

import "fmt"

// NodeKind is the closed set of node variants a principal can create
type NodeKind uint8

const (
	KindText NodeKind = iota
	KindBinary
	KindDirectory
)

// Wire names used by tree definition files
const (
	TextNodeType   = "text"
	BinaryNodeType = "binary"
	DirNodeType    = "dir"
)

func (k NodeKind) String() string {
	switch k {
	case KindText:
		return TextNodeType
	case KindBinary:
		return BinaryNodeType
	case KindDirectory:
		return DirNodeType
	default:
		return fmt.Sprintf("NodeKind(%d)", uint8(k))
	}
}

// IsReadable reports whether nodes of this kind carry owned content
func (k NodeKind) IsReadable() bool {
	return k == KindText || k == KindBinary
}

// ParseNodeKind maps a wire name to its NodeKind. "txt" and "directory" are
// accepted as aliases.
func ParseNodeKind(s string) (NodeKind, error) {
	switch s {
	case TextNodeType, "txt":
		return KindText, nil
	case BinaryNodeType:
		return KindBinary, nil
	case DirNodeType, "directory":
		return KindDirectory, nil
	}
	return 0, fmt.Errorf("unknown node type %q", s)
}

// NodeInfo provides read-only access to node information for external consumers
type NodeInfo interface {
	// Name returns the node's name (last path component)
	Name() string

	// Kind returns the node's variant
	Kind() NodeKind
}

// FileSystemOperator defines the filesystem operations that tree loaders need
type FileSystemOperator interface {
	AddFileNode(req *FileCreateRequest) (NodeInfo, error)
	AddDirNode(req *DirCreateRequest) (NodeInfo, error)
}
