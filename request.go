package hierfs

// NodeRequest has common fields embedded in concrete request types
type NodeRequest struct {
	Path string // Slash separated path relative to the root directory
	Kind NodeKind
}

// FileCreateRequest asks for a readable file owned by the named principal.
// Content is already resolved; see [ContentSource].
type FileCreateRequest struct {
	NodeRequest
	Owner   string
	Content []byte
}

// DirCreateRequest asks for a directory and any missing ancestors
type DirCreateRequest struct {
	NodeRequest
}
