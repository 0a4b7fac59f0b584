// Package fusefs projects a [filesystem.FileSystem] onto a read-only FUSE
// mount. Every callback goes through the FileSystem facade by path, so the
// kernel view follows the tree without any copy of its own.
package fusefs

import (
	"context"
	"path"
	"sync/atomic"
	"syscall"

	"github.com/hanwen/go-fuse/v2/fs"
	gofuse "github.com/hanwen/go-fuse/v2/fuse"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/brettbedarf/hierfs"
	"github.com/brettbedarf/hierfs/config"
	"github.com/brettbedarf/hierfs/filesystem"
	"github.com/brettbedarf/hierfs/internal/util"
)

const (
	dirMode  = 0o555
	fileMode = 0o444
)

// FS is the state shared by every [Node] of one mount
type FS struct {
	tree *filesystem.FileSystem
	auth *Authenticator

	inos    *xsync.Map[string, uint64] // path -> stable inode number
	lastIno atomic.Uint64
}

func NewFS(tree *filesystem.FileSystem, cfg *config.Config) *FS {
	f := &FS{
		tree: tree,
		auth: NewAuthenticator(tree, cfg),
		inos: xsync.NewMap[string, uint64](),
	}
	f.lastIno.Store(gofuse.FUSE_ROOT_ID)
	f.inos.Store("", gofuse.FUSE_ROOT_ID)
	return f
}

// Root returns the node for the root directory
func (f *FS) Root() *Node {
	return &Node{fsys: f}
}

// ino returns the inode number of p, allocating one on first use. Numbers
// follow the path, not the node: after a rename, or a remove and re-add of
// the same name, whatever now sits at p reuses its number. The mount is
// read-only and Open re-resolves the path, so no stale content is served.
func (f *FS) ino(p string) uint64 {
	if ino, ok := f.inos.Load(p); ok {
		return ino
	}
	// a racing caller may win; its number is kept and ours is skipped
	ino, _ := f.inos.LoadOrStore(p, f.lastIno.Add(1))
	return ino
}

// Node is one path of the mounted tree
type Node struct {
	fs.Inode
	fsys *FS
	path string // slash path relative to the root; "" is the root
}

var (
	_ fs.InodeEmbedder = (*Node)(nil)
	_ fs.NodeGetattrer = (*Node)(nil)
	_ fs.NodeLookuper  = (*Node)(nil)
	_ fs.NodeReaddirer = (*Node)(nil)
	_ fs.NodeOpener    = (*Node)(nil)
	_ fs.NodeReader    = (*Node)(nil)
)

func (n *Node) child(name string) string {
	if n.path == "" {
		return name
	}
	return path.Join(n.path, name)
}

func fillAttr(out *gofuse.Attr, e filesystem.Entry, ino uint64) {
	out.Ino = ino
	if e.Kind == hierfs.KindDirectory {
		out.Mode = dirMode | syscall.S_IFDIR
		out.Nlink = 2
		return
	}
	out.Mode = fileMode | syscall.S_IFREG
	out.Nlink = 1
	out.Size = uint64(e.Size)
	out.Blocks = (out.Size + 511) / 512
}

func stableMode(e filesystem.Entry) uint32 {
	if e.Kind == hierfs.KindDirectory {
		return syscall.S_IFDIR
	}
	return syscall.S_IFREG
}

func (n *Node) Getattr(ctx context.Context, fh fs.FileHandle, out *gofuse.AttrOut) syscall.Errno {
	e, err := n.fsys.tree.Stat(n.path)
	if err != nil {
		return toErrno(err)
	}
	fillAttr(&out.Attr, e, n.fsys.ino(n.path))
	return 0
}

// entry fills out for the child name and returns its stable attributes
func (n *Node) entry(name string, out *gofuse.EntryOut) (fs.StableAttr, syscall.Errno) {
	p := n.child(name)
	e, err := n.fsys.tree.Stat(p)
	if err != nil {
		return fs.StableAttr{}, toErrno(err)
	}
	ino := n.fsys.ino(p)
	fillAttr(&out.Attr, e, ino)
	return fs.StableAttr{Mode: stableMode(e), Ino: ino}, 0
}

func (n *Node) Lookup(ctx context.Context, name string, out *gofuse.EntryOut) (*fs.Inode, syscall.Errno) {
	stable, errno := n.entry(name, out)
	if errno != 0 {
		return nil, errno
	}
	child := &Node{fsys: n.fsys, path: n.child(name)}
	return n.NewInode(ctx, child, stable), 0
}

// Readdir lists children in insertion order
func (n *Node) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	entries, err := n.fsys.tree.List(n.path)
	if err != nil {
		return nil, toErrno(err)
	}

	out := make([]gofuse.DirEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, gofuse.DirEntry{
			Name: e.Name,
			Mode: stableMode(e),
			Ino:  n.fsys.ino(n.child(e.Name)),
		})
	}
	return fs.NewListDirStream(out), 0
}

// Open checks the caller's read permission and snapshots the content.
// Pages are not cached by the kernel since two callers may not be allowed to
// see the same file.
func (n *Node) Open(ctx context.Context, flags uint32) (fs.FileHandle, uint32, syscall.Errno) {
	logger := util.GetLogger("fusefs")

	if flags&(syscall.O_WRONLY|syscall.O_RDWR|syscall.O_TRUNC|syscall.O_APPEND) != 0 {
		return nil, 0, syscall.EROFS
	}

	requester, err := n.fsys.auth.Principal(ctx)
	if err != nil {
		logger.Debug().Str("path", n.path).Err(err).Msg("Open from unmapped caller")
		return nil, 0, toErrno(err)
	}
	data, err := n.fsys.tree.ReadFile(n.path, requester)
	if err != nil {
		return nil, 0, toErrno(err)
	}
	logger.Trace().Str("path", n.path).Str("principal", requester.Name()).Msg("Opened file")
	return &fileHandle{data: data}, gofuse.FOPEN_DIRECT_IO, 0
}

func (n *Node) Read(ctx context.Context, fh fs.FileHandle, dest []byte, off int64) (gofuse.ReadResult, syscall.Errno) {
	h, ok := fh.(*fileHandle)
	if !ok {
		return nil, syscall.EBADF
	}
	return h.read(dest, off), 0
}

// fileHandle holds the content read at open time
type fileHandle struct {
	data []byte
}

func (h *fileHandle) read(dest []byte, off int64) gofuse.ReadResult {
	if off < 0 || off >= int64(len(h.data)) {
		return gofuse.ReadResultData(nil)
	}
	end := min(off+int64(len(dest)), int64(len(h.data)))
	return gofuse.ReadResultData(h.data[off:end])
}
