package filesystem

import "bytes"

const bytesPerKiB = 1024

// Readable is implemented by the file variants carrying owned content
type Readable interface {
	FileNode
	Read(requester *Principal) ([]byte, error)
	CanRead(requester *Principal) bool
	SetContent(content []byte)
	Owner() PrincipalID
	Size() int
	SizeKiB() float64
}

var (
	_ Readable = (*TextualFile)(nil)
	_ Readable = (*BinaryFile)(nil)
)

// ReadableFile is the content, derived size and authorship tag shared by
// [TextualFile] and [BinaryFile]
type ReadableFile struct {
	nodeBase
	content []byte
	sizeKiB float64     // always len(content) / 1024
	owner   PrincipalID // identity of the creating principal
}

func newReadableFile(name string, content []byte, owner PrincipalID) ReadableFile {
	f := ReadableFile{
		nodeBase: nodeBase{name: name},
		owner:    owner,
	}
	f.SetContent(content)
	return f
}

// CanRead reports whether requester may read the content: its owner or any
// administrator. A nil requester may not.
func (f *ReadableFile) CanRead(requester *Principal) bool {
	if requester == nil {
		return false
	}
	return requester.IsAdministrator() || requester.ID() == f.owner
}

// Read returns a copy of the full content, or ErrAccessDenied
func (f *ReadableFile) Read(requester *Principal) ([]byte, error) {
	if !f.CanRead(requester) {
		return nil, ErrAccessDenied
	}
	return bytes.Clone(f.content), nil
}

// SetContent replaces the content and recomputes the size. It is not
// permission checked.
func (f *ReadableFile) SetContent(content []byte) {
	f.content = bytes.Clone(content)
	f.sizeKiB = float64(len(f.content)) / bytesPerKiB
}

func (f *ReadableFile) Owner() PrincipalID { return f.owner }

// Size is the content length in bytes
func (f *ReadableFile) Size() int { return len(f.content) }

func (f *ReadableFile) SizeKiB() float64 { return f.sizeKiB }
