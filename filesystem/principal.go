package filesystem

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/brettbedarf/hierfs"
)

// PrincipalID is the identity token of a [Principal]. Files store it instead
// of a pointer so a file never keeps a principal alive.
type PrincipalID uuid.UUID

// NilPrincipalID is the zero identity; no principal ever has it
var NilPrincipalID PrincipalID

func (id PrincipalID) String() string {
	return uuid.UUID(id).String()
}

// Privilege is fixed when a principal is created
type Privilege uint8

const (
	Regular Privilege = iota
	Administrator
)

func (p Privilege) String() string {
	switch p {
	case Regular:
		return "regular"
	case Administrator:
		return "administrator"
	default:
		return fmt.Sprintf("Privilege(%d)", uint8(p))
	}
}

// Principal is a user able to create and own files
type Principal struct {
	id         PrincipalID
	name       string
	credential string // opaque, never consulted for access decisions
	privilege  Privilege
}

// NewPrincipal creates a principal with a fresh identity. Two principals with
// the same name are still different principals.
func NewPrincipal(name, credential string, privilege Privilege) *Principal {
	return &Principal{
		id:         PrincipalID(uuid.New()),
		name:       name,
		credential: credential,
		privilege:  privilege,
	}
}

// NewRegularUser creates a principal without elevated privileges
func NewRegularUser(name, credential string) *Principal {
	return NewPrincipal(name, credential, Regular)
}

// NewAdministrator creates a principal allowed to read every file
func NewAdministrator(name, credential string) *Principal {
	return NewPrincipal(name, credential, Administrator)
}

func (p *Principal) ID() PrincipalID      { return p.id }
func (p *Principal) Name() string         { return p.name }
func (p *Principal) Credential() string   { return p.credential }
func (p *Principal) Privilege() Privilege { return p.privilege }

// IsAdministrator reports whether ownership checks are bypassed for p
func (p *Principal) IsAdministrator() bool {
	return p.privilege == Administrator
}

// SameAs compares identities, never names. A nil principal matches nothing.
func (p *Principal) SameAs(other *Principal) bool {
	if p == nil || other == nil {
		return false
	}
	return p.id == other.id
}

func (p *Principal) String() string {
	return fmt.Sprintf("%s (%s)", p.name, p.privilege)
}

// CreateNode constructs a detached node of the requested kind. Readable kinds
// are owned by p; directories carry no owner. kind must be one of the
// [hierfs.NodeKind] constants.
func (p *Principal) CreateNode(kind hierfs.NodeKind, name string, content []byte) FileNode {
	switch kind {
	case hierfs.KindText:
		return newTextualFile(name, content, p.id)
	case hierfs.KindBinary:
		return newBinaryFile(name, content, p.id)
	case hierfs.KindDirectory:
		return NewDirectory(name)
	}
	panic(fmt.Sprintf("filesystem: unknown node kind %v", kind))
}

// CreateTextFile is CreateNode(hierfs.KindText, ...) without the type assertion
func (p *Principal) CreateTextFile(name, content string) *TextualFile {
	return newTextualFile(name, []byte(content), p.id)
}

// CreateBinaryFile is CreateNode(hierfs.KindBinary, ...) without the type assertion
func (p *Principal) CreateBinaryFile(name string, content []byte) *BinaryFile {
	return newBinaryFile(name, content, p.id)
}

// CreateDirectory is CreateNode(hierfs.KindDirectory, ...) without the type assertion
func (p *Principal) CreateDirectory(name string) *Directory {
	return NewDirectory(name)
}
