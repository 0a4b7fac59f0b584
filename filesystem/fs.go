package filesystem

import (
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/brettbedarf/hierfs"
	"github.com/brettbedarf/hierfs/config"
	"github.com/brettbedarf/hierfs/internal/util"
)

// FileSystem owns a root [Directory] and the registered principals. The tree
// types themselves are not safe for concurrent use; FileSystem serializes
// every tree access behind a single lock so it can be shared, e.g. with the
// FUSE server.
type FileSystem struct {
	cfg        *config.Config
	mu         sync.RWMutex // guards every node reachable from root
	root       *Directory
	principals *xsync.Map[PrincipalID, *Principal]
	byName     *xsync.Map[string, *Principal]
}

var _ hierfs.FileSystemOperator = (*FileSystem)(nil)

// Entry is a point-in-time snapshot of a node taken under the tree lock
type Entry struct {
	Name  string
	Kind  hierfs.NodeKind
	Size  int // bytes; 0 for directories
	Owner PrincipalID
}

// NewFS creates an empty tree and registers the principals declared in cfg.
// Principals that fail to register are logged and skipped.
func NewFS(cfg *config.Config) *FileSystem {
	logger := util.GetLogger("NewFS")
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}

	fs := &FileSystem{
		cfg:        cfg,
		root:       NewDirectory(cfg.RootName),
		principals: xsync.NewMap[PrincipalID, *Principal](),
		byName:     xsync.NewMap[string, *Principal](),
	}
	for _, pc := range cfg.Principals {
		privilege := Regular
		if pc.Admin {
			privilege = Administrator
		}
		if err := fs.RegisterPrincipal(NewPrincipal(pc.Name, pc.Credential, privilege)); err != nil {
			logger.Error().Err(err).Str("principal", pc.Name).Msg("Failed to register principal")
		}
	}
	return fs
}

// Root returns the root directory. Callers touching it directly must not
// race with other FileSystem methods.
func (fs *FileSystem) Root() *Directory {
	return fs.root
}

/* Principal registry */

// RegisterPrincipal makes p known by id and by name. Names are unique.
func (fs *FileSystem) RegisterPrincipal(p *Principal) error {
	if p == nil || p.Name() == "" {
		return pathError("register principal", "", ErrInvalidPath)
	}
	if _, loaded := fs.byName.LoadOrStore(p.Name(), p); loaded {
		return pathError("register principal", p.Name(), ErrDuplicateName)
	}
	fs.principals.Store(p.ID(), p)
	logger := util.GetLogger("RegisterPrincipal")
	logger.Debug().
		Str("principal", p.Name()).
		Str("privilege", p.Privilege().String()).
		Msg("Registered principal")
	return nil
}

// Principal looks a registered principal up by identity
func (fs *FileSystem) Principal(id PrincipalID) (*Principal, bool) {
	return fs.principals.Load(id)
}

// PrincipalByName looks a registered principal up by name
func (fs *FileSystem) PrincipalByName(name string) (*Principal, bool) {
	return fs.byName.Load(name)
}

// Principals returns every registered principal sorted by name
func (fs *FileSystem) Principals() []*Principal {
	out := make([]*Principal, 0, fs.byName.Size())
	fs.byName.Range(func(_ string, p *Principal) bool {
		out = append(out, p)
		return true
	})
	slices.SortFunc(out, func(a, b *Principal) int { return strings.Compare(a.Name(), b.Name()) })
	return out
}

/* [hierfs.FileSystemOperator] implementation */

// AddDirNode creates every missing directory along req.Path and returns the
// leaf, like `mkdir -p`. An existing leaf directory is not an error.
func (fs *FileSystem) AddDirNode(req *hierfs.DirCreateRequest) (hierfs.NodeInfo, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	dir, err := fs.mkdirAllLocked(splitPath(req.Path))
	if err != nil {
		return nil, pathError("mkdir", req.Path, err)
	}
	return dir, nil
}

// AddFileNode creates a readable file through its owner's factory, creating
// missing parent directories first. An existing node with the same name is
// left untouched and ErrDuplicateName is returned.
func (fs *FileSystem) AddFileNode(req *hierfs.FileCreateRequest) (hierfs.NodeInfo, error) {
	logger := util.GetLogger("AddFileNode")

	if !req.Kind.IsReadable() {
		return nil, pathError("create", req.Path, ErrInvalidKind)
	}
	owner, ok := fs.PrincipalByName(req.Owner)
	if !ok {
		return nil, pathError("create", req.Path, ErrUnknownPrincipal)
	}
	parts := splitPath(req.Path)
	if len(parts) == 0 {
		return nil, pathError("create", req.Path, ErrInvalidPath)
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	dir, err := fs.mkdirAllLocked(parts[:len(parts)-1])
	if err != nil {
		logger.Error().Err(err).Str("path", req.Path).Msg("Failed to create file's ancestor directory(s)")
		return nil, pathError("create", req.Path, err)
	}
	node := owner.CreateNode(req.Kind, parts[len(parts)-1], req.Content)
	if err := dir.Add(node); err != nil {
		logger.Warn().Err(err).Str("path", req.Path).Msg("Rejected file")
		return nil, pathError("create", req.Path, err)
	}
	logger.Debug().
		Str("path", req.Path).
		Str("kind", req.Kind.String()).
		Str("owner", owner.Name()).
		Int("size", len(req.Content)).
		Msg("Added new file node")
	return node, nil
}

/* Path based operations */

// Add inserts a detached node into the directory at dirPath
func (fs *FileSystem) Add(dirPath string, node FileNode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	dir, err := fs.dirLocked(dirPath)
	if err != nil {
		return pathError("add", dirPath, err)
	}
	if err := dir.Add(node); err != nil {
		logger := util.GetLogger("Add")
		logger.Warn().Err(err).
			Str("dir", dirPath).
			Str("name", node.Name()).
			Msg("Rejected node")
		return pathError("add", path.Join(dirPath, node.Name()), err)
	}
	return nil
}

// Lookup returns the node at p. The root has path "" (or "/").
func (fs *FileSystem) Lookup(p string) (FileNode, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	node, err := fs.resolveLocked(p)
	if err != nil {
		return nil, pathError("lookup", p, err)
	}
	return node, nil
}

// Stat returns a snapshot of the node at p
func (fs *FileSystem) Stat(p string) (Entry, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	node, err := fs.resolveLocked(p)
	if err != nil {
		return Entry{}, pathError("stat", p, err)
	}
	return entryOf(node), nil
}

// List returns snapshots of the children of the directory at p in
// insertion order
func (fs *FileSystem) List(p string) ([]Entry, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	dir, err := fs.dirLocked(p)
	if err != nil {
		return nil, pathError("list", p, err)
	}
	entries := make([]Entry, 0, dir.Len())
	for _, child := range dir.children {
		entries = append(entries, entryOf(child))
	}
	return entries, nil
}

// ReadFile returns the content of the file at p if requester may read it
func (fs *FileSystem) ReadFile(p string, requester *Principal) ([]byte, error) {
	logger := util.GetLogger("ReadFile")
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	f, err := fs.readableLocked(p)
	if err != nil {
		return nil, pathError("read", p, err)
	}
	data, err := f.Read(requester)
	if err != nil {
		logger.Debug().Str("path", p).Str("requester", nameOf(requester)).Msg("Read denied")
		return nil, pathError("read", p, err)
	}
	return data, nil
}

// WriteFile replaces the content of the file at p. Like
// [ReadableFile.SetContent] it is not permission checked.
func (fs *FileSystem) WriteFile(p string, content []byte) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	f, err := fs.readableLocked(p)
	if err != nil {
		return pathError("write", p, err)
	}
	f.SetContent(content)
	logger := util.GetLogger("WriteFile")
	logger.Debug().Str("path", p).Int("size", len(content)).Msg("Replaced content")
	return nil
}

// RemoveNode detaches the node at p together with its subtree
func (fs *FileSystem) RemoveNode(p string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	parts := splitPath(p)
	if len(parts) == 0 {
		return pathError("remove", p, ErrInvalidPath)
	}
	dir, err := fs.dirLocked(strings.Join(parts[:len(parts)-1], "/"))
	if err != nil {
		return pathError("remove", p, err)
	}
	if err := dir.Remove(parts[len(parts)-1]); err != nil {
		return pathError("remove", p, err)
	}
	logger := util.GetLogger("RemoveNode")
	logger.Debug().Str("path", p).Msg("Removed node")
	return nil
}

// Rename changes the name of the node at p. Siblings are not checked, so the
// directory may end up with two children of the same name; Lookup then
// returns the first one.
func (fs *FileSystem) Rename(p, newName string) error {
	if newName == "" || strings.Contains(newName, "/") {
		return pathError("rename", p, ErrInvalidPath)
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if len(splitPath(p)) == 0 {
		return pathError("rename", p, ErrInvalidPath)
	}
	node, err := fs.resolveLocked(p)
	if err != nil {
		return pathError("rename", p, err)
	}
	node.Rename(newName)
	logger := util.GetLogger("Rename")
	logger.Debug().Str("path", p).Str("name", newName).Msg("Renamed node")
	return nil
}

// Search runs [FindContaining] over the whole tree
func (fs *FileSystem) Search(requester *Principal, needle string) []SearchHit {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return FindContaining(fs.root, requester, needle)
}

// Count returns the number of nodes in the tree, root included
func (fs *FileSystem) Count() int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return CountNodes(fs.root)
}

// Render returns the textual rendering of the whole tree
func (fs *FileSystem) Render() string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.root.String()
}

/* Locked helpers; caller must hold fs.mu */

func (fs *FileSystem) resolveLocked(p string) (FileNode, error) {
	var cur FileNode = fs.root
	for _, name := range splitPath(p) {
		dir, ok := cur.(*Directory)
		if !ok {
			return nil, ErrNotDirectory
		}
		child, err := dir.Get(name)
		if err != nil {
			return nil, err
		}
		cur = child
	}
	return cur, nil
}

func (fs *FileSystem) dirLocked(p string) (*Directory, error) {
	node, err := fs.resolveLocked(p)
	if err != nil {
		return nil, err
	}
	dir, ok := node.(*Directory)
	if !ok {
		return nil, ErrNotDirectory
	}
	return dir, nil
}

func (fs *FileSystem) readableLocked(p string) (Readable, error) {
	node, err := fs.resolveLocked(p)
	if err != nil {
		return nil, err
	}
	f, ok := node.(Readable)
	if !ok {
		return nil, ErrNotReadable
	}
	return f, nil
}

// mkdirAllLocked walks parts from the root creating missing directories
func (fs *FileSystem) mkdirAllLocked(parts []string) (*Directory, error) {
	cur := fs.root
	created := 0
	for _, name := range parts {
		child, err := cur.Get(name)
		if err != nil {
			dir := NewDirectory(name)
			if err := cur.Add(dir); err != nil {
				return nil, err
			}
			created++
			cur = dir
			continue
		}
		dir, ok := child.(*Directory)
		if !ok {
			return nil, ErrNotDirectory
		}
		cur = dir
	}
	if created > 0 {
		logger := util.GetLogger("mkdirAll")
		logger.Debug().
			Str("path", strings.Join(parts, "/")).
			Int("created", created).
			Msg("Created directories")
	}
	return cur, nil
}

// splitPath cleans p and returns its components; the root yields none
func splitPath(p string) []string {
	cleaned := strings.Trim(path.Clean("/"+p), "/")
	if cleaned == "" {
		return nil
	}
	return strings.Split(cleaned, "/")
}

func entryOf(node FileNode) Entry {
	e := Entry{Name: node.Name(), Kind: node.Kind()}
	if f, ok := node.(Readable); ok {
		e.Size = f.Size()
		e.Owner = f.Owner()
	}
	return e
}

func nameOf(p *Principal) string {
	if p == nil {
		return "<nil>"
	}
	return p.Name()
}
