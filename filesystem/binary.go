package filesystem

import (
	"github.com/brettbedarf/hierfs"
	"github.com/brettbedarf/hierfs/internal/imagemeta"
)

// DimensionDecoder reports the pixel dimensions of an encoded image
type DimensionDecoder interface {
	Dimensions(content []byte) (width, height int, err error)
}

// DefaultDimensionDecoder is used by binary files without their own decoder
var DefaultDimensionDecoder DimensionDecoder = imagemeta.Decoder{}

// BinaryFile holds raw bytes, typically an image
type BinaryFile struct {
	ReadableFile
	decoder DimensionDecoder
}

func newBinaryFile(name string, content []byte, owner PrincipalID) *BinaryFile {
	return &BinaryFile{ReadableFile: newReadableFile(name, content, owner)}
}

func (f *BinaryFile) Kind() hierfs.NodeKind { return hierfs.KindBinary }

// SetDimensionDecoder overrides [DefaultDimensionDecoder] for this file; nil
// restores the default
func (f *BinaryFile) SetDimensionDecoder(d DimensionDecoder) {
	f.decoder = d
}

// GetDimensions returns the width and height of the content as decoded by
// the file's decoder. Decoder failures are returned as is.
func (f *BinaryFile) GetDimensions() (width, height int, err error) {
	d := f.decoder
	if d == nil {
		d = DefaultDimensionDecoder
	}
	return d.Dimensions(f.content)
}
