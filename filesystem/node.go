package filesystem

import (
	"strings"

	"github.com/brettbedarf/hierfs"
)

// FileNode is one item of the tree: a *TextualFile, *BinaryFile or
// *Directory. The set is closed; other packages cannot implement it.
type FileNode interface {
	hierfs.NodeInfo

	// Rename changes the node's name. Uniqueness among siblings is only
	// enforced when a node is added, so a rename can produce a duplicate.
	Rename(newName string)
	String() string

	parentDir() *Directory
	setParent(d *Directory)
}

// nodeBase holds the fields shared by every variant
type nodeBase struct {
	name   string
	parent *Directory // owning directory; nil while detached
}

func (n *nodeBase) Name() string           { return n.name }
func (n *nodeBase) Rename(newName string)  { n.name = newName }
func (n *nodeBase) String() string         { return n.name }
func (n *nodeBase) parentDir() *Directory  { return n.parent }
func (n *nodeBase) setParent(d *Directory) { n.parent = d }

// PathOf returns the slash separated path of n relative to the top of its
// tree; the top directory itself has path "".
func PathOf(n FileNode) string {
	var parts []string
	for cur := n; cur.parentDir() != nil; cur = cur.parentDir() {
		parts = append(parts, cur.Name())
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}
