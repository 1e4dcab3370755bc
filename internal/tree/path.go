package tree

import (
	"strconv"
	"strings"
)

// PathSep joins sibling indices in a path string ("0-2-1").
const PathSep = "-"

// Path addresses a node by positional descent from the forest:
// forest[p[0]].Children[p[1]]...Children[p[n-1]].
//
// Paths are not stable: any add or delete that shifts sibling indices along the way
// invalidates them, so they must be re-resolved at the moment of use.
type Path []int

// ParsePath parses a dash-joined path string. Empty strings, empty segments and
// negative or non-numeric indices are rejected with a PathNotFoundError.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errPathNotFound(s)
	}
	parts := strings.Split(s, PathSep)
	out := make(Path, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			return nil, errPathNotFound(s)
		}
		for _, r := range part {
			if r < '0' || r > '9' {
				return nil, errPathNotFound(s)
			}
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, errPathNotFound(s)
		}
		out = append(out, n)
	}
	return out, nil
}

func (p Path) String() string {
	if len(p) == 0 {
		return ""
	}
	var b strings.Builder
	for i, n := range p {
		if i > 0 {
			b.WriteString(PathSep)
		}
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

// Child returns a new path addressing the i-th child of p.
func (p Path) Child(i int) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, i)
}

// Parent returns the path of p's parent; nil for roots and for the empty path.
func (p Path) Parent() Path {
	if len(p) <= 1 {
		return nil
	}
	out := make(Path, len(p)-1)
	copy(out, p[:len(p)-1])
	return out
}

// Last returns the final sibling index, or -1 for the empty path.
func (p Path) Last() int {
	if len(p) == 0 {
		return -1
	}
	return p[len(p)-1]
}

func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}
