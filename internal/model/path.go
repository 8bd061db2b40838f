package model

import "strings"

// Path is an ordered sequence of article titles.
// The first element is the search start; a successful search ends with the target.
type Path []string

// NewPath returns a single-element path.
func NewPath(start string) Path {
	return Path{start}
}

// Last returns the final title in the path, or "" for an empty path.
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Hops returns the number of links followed, which is len(p)-1.
func (p Path) Hops() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// Extend returns a new path with title appended.
// The receiver is never modified and the result never shares its backing
// array, so sibling frontier paths cannot overwrite each other.
func (p Path) Extend(title string) Path {
	next := make(Path, len(p), len(p)+1)
	copy(next, p)
	return append(next, title)
}

// String renders the path as "A -> B -> C".
func (p Path) String() string {
	return strings.Join(p, " -> ")
}
