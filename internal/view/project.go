// Package view projects the task forest into a nested, path-addressed view tree.
package view

import (
	"strconv"

	"tasktree/internal/tree"
)

// Node mirrors a tree.Node for rendering. Path is the only token surfaces should
// thread into controls; it is valid until the next mutation.
type Node struct {
	ID       string `json:"id" yaml:"id"`
	Text     string `json:"text" yaml:"text"`
	Path     string `json:"path" yaml:"path"`
	Children []Node `json:"children" yaml:"children"`
}

// Project rebuilds the whole view tree from the forest, depth-first, preserving
// sibling order.
func Project(roots []*tree.Node) []Node {
	return projectLevel(roots, "")
}

func projectLevel(nodes []*tree.Node, parentPath string) []Node {
	out := make([]Node, 0, len(nodes))
	for i, n := range nodes {
		p := strconv.Itoa(i)
		if parentPath != "" {
			p = parentPath + tree.PathSep + p
		}
		out = append(out, Node{
			ID:       n.ID,
			Text:     n.Text,
			Path:     p,
			Children: projectLevel(n.Children, p),
		})
	}
	return out
}

// Find returns the view node at path, searching the projected tree.
func Find(nodes []Node, path string) (Node, bool) {
	p, err := tree.ParsePath(path)
	if err != nil {
		return Node{}, false
	}
	level := nodes
	var cur Node
	for _, i := range p {
		if i >= len(level) {
			return Node{}, false
		}
		cur = level[i]
		level = cur.Children
	}
	return cur, true
}

// Count returns the number of nodes in the view tree.
func Count(nodes []Node) int {
	total := 0
	for _, n := range nodes {
		total += 1 + Count(n.Children)
	}
	return total
}
