// Package tree holds the in-memory task forest and its positional path addressing.
package tree

import (
	"strings"
)

// Node is a task. Children are owned exclusively by their parent and are never nil
// for nodes created by a Store.
type Node struct {
	ID       string
	Text     string
	Children []*Node
}

// Store owns an ordered forest of task nodes. It is not safe for concurrent use;
// callers serialize commands so each one runs to completion before the next.
type Store struct {
	roots []*Node
	// index maps node id -> current path. Rebuilt after every structural mutation.
	index map[string]Path
}

func NewStore() *Store {
	return &Store{index: map[string]Path{}}
}

// Roots returns the forest. The slice and nodes are owned by the store; callers
// must not mutate them.
func (s *Store) Roots() []*Node {
	return s.roots
}

// Len returns the number of root tasks.
func (s *Store) Len() int {
	return len(s.roots)
}

// Count returns the number of nodes in the whole forest.
func (s *Store) Count() int {
	return len(s.index)
}

// AddRoot appends a new root task and returns its path.
func (s *Store) AddRoot(text string) (Path, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}
	n := s.newNode(text)
	s.roots = append(s.roots, n)
	p := Path{len(s.roots) - 1}
	s.index[n.ID] = p
	return p, nil
}

// AddChild appends a new child to the node at p and returns the child's path.
func (s *Store) AddChild(p Path, text string) (Path, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}
	parent, ok := s.Resolve(p)
	if !ok {
		return nil, errPathNotFound(p.String())
	}
	n := s.newNode(text)
	parent.Children = append(parent.Children, n)
	cp := p.Child(len(parent.Children) - 1)
	s.index[n.ID] = cp
	return cp, nil
}

// Edit replaces the text of the node at p.
func (s *Store) Edit(p Path, text string) error {
	n, ok := s.Resolve(p)
	if !ok {
		return errPathNotFound(p.String())
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyInput
	}
	n.Text = text
	return nil
}

// Delete removes the node at p together with its subtree and returns how many
// nodes were removed. Later siblings shift left by one.
func (s *Store) Delete(p Path) (int, error) {
	n, ok := s.Resolve(p)
	if !ok {
		return 0, errPathNotFound(p.String())
	}
	removed := 1 + s.Descendants(n)

	if len(p) == 1 {
		s.roots = removeAt(s.roots, p[0])
	} else {
		parent, _ := s.Resolve(p.Parent())
		parent.Children = removeAt(parent.Children, p.Last())
	}
	s.reindex()
	return removed, nil
}

// Resolve walks p from the forest root. Any out-of-bounds index at any depth, or an
// empty path, fails; there is no partial success.
func (s *Store) Resolve(p Path) (*Node, bool) {
	if len(p) == 0 {
		return nil, false
	}
	level := s.roots
	var cur *Node
	for _, i := range p {
		if i < 0 || i >= len(level) {
			return nil, false
		}
		cur = level[i]
		level = cur.Children
	}
	return cur, true
}

// ResolveString parses and resolves a path string in one step.
func (s *Store) ResolveString(path string) (*Node, Path, error) {
	p, err := ParsePath(path)
	if err != nil {
		return nil, nil, err
	}
	n, ok := s.Resolve(p)
	if !ok {
		return nil, nil, errPathNotFound(p.String())
	}
	return n, p, nil
}

// Locate returns the current path of the node with the given id.
func (s *Store) Locate(id string) (Path, bool) {
	p, ok := s.index[strings.TrimSpace(id)]
	if !ok {
		return nil, false
	}
	out := make(Path, len(p))
	copy(out, p)
	return out, true
}

// Descendants counts every node below n.
func (s *Store) Descendants(n *Node) int {
	if n == nil {
		return 0
	}
	total := 0
	for _, ch := range n.Children {
		total += 1 + s.Descendants(ch)
	}
	return total
}

// Walk visits every node depth-first in display order. Returning false stops the walk.
func (s *Store) Walk(fn func(n *Node, p Path) bool) {
	var walk func(nodes []*Node, parent Path) bool
	walk = func(nodes []*Node, parent Path) bool {
		for i, n := range nodes {
			p := parent.Child(i)
			if !fn(n, p) {
				return false
			}
			if !walk(n.Children, p) {
				return false
			}
		}
		return true
	}
	walk(s.roots, nil)
}

func (s *Store) newNode(text string) *Node {
	if s.index == nil {
		s.index = map[string]Path{}
	}
	return &Node{ID: s.newNodeID(), Text: text, Children: []*Node{}}
}

func (s *Store) reindex() {
	idx := make(map[string]Path, len(s.index))
	s.Walk(func(n *Node, p Path) bool {
		idx[n.ID] = p
		return true
	})
	s.index = idx
}

func removeAt(nodes []*Node, i int) []*Node {
	out := make([]*Node, 0, len(nodes)-1)
	out = append(out, nodes[:i]...)
	return append(out, nodes[i+1:]...)
}
