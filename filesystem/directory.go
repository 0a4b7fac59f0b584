package filesystem

import (
	"slices"
	"strings"

	"github.com/brettbedarf/hierfs"
)

// Directory owns an ordered list of uniquely named children. Each child has
// exactly one owning directory at a time and the tree never contains cycles.
type Directory struct {
	nodeBase
	children []FileNode // insertion order is the enumeration order
}

// NewDirectory creates an empty, detached directory
func NewDirectory(name string) *Directory {
	return &Directory{nodeBase: nodeBase{name: name}}
}

func (d *Directory) Kind() hierfs.NodeKind { return hierfs.KindDirectory }

// Parent returns the owning directory, or nil if d is detached or a root
func (d *Directory) Parent() *Directory { return d.parent }

// Len returns the number of direct children
func (d *Directory) Len() int { return len(d.children) }

// Children returns the direct children in insertion order. The slice is a
// copy; the nodes are not.
func (d *Directory) Children() []FileNode {
	return slices.Clone(d.children)
}

// Add appends node as the last child. It fails, leaving d unchanged, with
// ErrCycle if node is d or one of its ancestors, ErrAttached if node already
// belongs to a directory and ErrDuplicateName if a child has the same name.
func (d *Directory) Add(node FileNode) error {
	if node == nil {
		panic("filesystem: cannot add nil node")
	}
	if dir, ok := node.(*Directory); ok && d.within(dir) {
		return ErrCycle
	}
	if node.parentDir() != nil {
		return ErrAttached
	}
	if d.indexOf(node.Name()) >= 0 {
		return ErrDuplicateName
	}
	d.children = append(d.children, node)
	node.setParent(d)
	return nil
}

// Get returns the first child with the exact name
func (d *Directory) Get(name string) (FileNode, error) {
	i := d.indexOf(name)
	if i < 0 {
		return nil, ErrNotFound
	}
	return d.children[i], nil
}

// Remove detaches the first child with the exact name. The removed subtree
// is no longer reachable from d.
func (d *Directory) Remove(name string) error {
	i := d.indexOf(name)
	if i < 0 {
		return ErrNotFound
	}
	child := d.children[i]
	d.children = slices.Delete(d.children, i, i+1)
	child.setParent(nil)
	return nil
}

// Walk visits every node below d depth-first in insertion order, parents
// before children. p is the path relative to d. Returning false from fn
// skips the children of a directory.
func (d *Directory) Walk(fn func(p string, node FileNode) bool) {
	d.walk("", fn)
}

func (d *Directory) walk(prefix string, fn func(string, FileNode) bool) {
	for _, child := range d.children {
		p := child.Name()
		if prefix != "" {
			p = prefix + "/" + p
		}
		descend := fn(p, child)
		if sub, ok := child.(*Directory); ok && descend {
			sub.walk(p, fn)
		}
	}
}

// String renders the directory header line followed by the children joined
// by newlines, in insertion order. Child directories render their whole
// block, so an empty one contributes a trailing newline.
func (d *Directory) String() string {
	var b strings.Builder
	b.WriteString("In directory named: ")
	b.WriteString(d.name)
	b.WriteByte('\n')
	for i, child := range d.children {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(child.String())
	}
	return b.String()
}

func (d *Directory) indexOf(name string) int {
	return slices.IndexFunc(d.children, func(n FileNode) bool {
		return n.Name() == name
	})
}

// within reports whether d is dir or lies in dir's subtree
func (d *Directory) within(dir *Directory) bool {
	for cur := d; cur != nil; cur = cur.parent {
		if cur == dir {
			return true
		}
	}
	return false
}
