package filesystem

import (
	"strings"

	"github.com/brettbedarf/hierfs"
)

// TextualFile holds UTF-8 text
type TextualFile struct {
	ReadableFile
}

func newTextualFile(name string, content []byte, owner PrincipalID) *TextualFile {
	return &TextualFile{ReadableFile: newReadableFile(name, content, owner)}
}

func (f *TextualFile) Kind() hierfs.NodeKind { return hierfs.KindText }

// ReadText is Read returning a string
func (f *TextualFile) ReadText(requester *Principal) (string, error) {
	b, err := f.Read(requester)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// SetText is SetContent taking a string
func (f *TextualFile) SetText(content string) {
	f.SetContent([]byte(content))
}

// CountOccurrences counts non-overlapping, case-insensitive occurrences of
// needle. An empty needle counts 0.
func (f *TextualFile) CountOccurrences(needle string) int {
	if needle == "" {
		return 0
	}
	return strings.Count(strings.ToLower(string(f.content)), strings.ToLower(needle))
}
