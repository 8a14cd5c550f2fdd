// Package artifacts persists generated files to a per-run output directory.
// Writes are atomic (temp file + rename), empty artifacts are dropped rather
// than written, and every stage directory gets a manifest describing what was
// produced.
package artifacts

import "strings"

// File is one generated artifact: a path relative to its stage directory and
// its full content.
type File struct {
	Path    string
	Content string
}

// Set is an ordered collection of artifacts keyed by relative path. Adding a
// path twice replaces the content in place; insertion order is preserved so
// output listings are stable.
type Set struct {
	files []File
	index map[string]int
}

// NewSet returns an empty set.
func NewSet() *Set {
	return &Set{index: map[string]int{}}
}

// Add records an artifact. Content that is empty after trimming is dropped
// and Add reports false; writing empty files would mask upstream generation
// failures as success.
func (s *Set) Add(path, content string) bool {
	if strings.TrimSpace(content) == "" {
		return false
	}
	if i, ok := s.index[path]; ok {
		s.files[i].Content = content
		return true
	}
	s.index[path] = len(s.files)
	s.files = append(s.files, File{Path: path, Content: content})
	return true
}

// Files returns the artifacts in insertion order.
func (s *Set) Files() []File {
	out := make([]File, len(s.files))
	copy(out, s.files)
	return out
}

// Len returns the number of non-empty artifacts.
func (s *Set) Len() int { return len(s.files) }
