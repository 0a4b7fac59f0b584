package filesystem

// SearchHit is a readable text file containing the searched string
type SearchHit struct {
	Path  string // relative to the searched directory
	File  *TextualFile
	Count int
}

// FindContaining returns the text files below root that requester may read
// and whose content contains needle, ignoring case. Files requester cannot
// read are skipped silently.
func FindContaining(root *Directory, requester *Principal, needle string) []SearchHit {
	var hits []SearchHit
	root.Walk(func(p string, node FileNode) bool {
		f, ok := node.(*TextualFile)
		if !ok || !f.CanRead(requester) {
			return true
		}
		if n := f.CountOccurrences(needle); n > 0 {
			hits = append(hits, SearchHit{Path: p, File: f, Count: n})
		}
		return true
	})
	return hits
}

// CountNodes counts root and every node below it
func CountNodes(root *Directory) int {
	count := 1
	root.Walk(func(string, FileNode) bool {
		count++
		return true
	})
	return count
}
