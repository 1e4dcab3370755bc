package view

// Row is one line of a flattened view tree, for list-style surfaces.
type Row struct {
	Node        Node
	Depth       int
	HasChildren bool
}

// Flatten walks the view tree depth-first. Nodes in collapsed (keyed by path) are
// emitted but their children are skipped.
func Flatten(nodes []Node, collapsed map[string]bool) []Row {
	var out []Row
	var walk func(n Node, depth int)
	walk = func(n Node, depth int) {
		out = append(out, Row{
			Node:        n,
			Depth:       depth,
			HasChildren: len(n.Children) > 0,
		})
		if collapsed[n.Path] {
			return
		}
		for _, ch := range n.Children {
			walk(ch, depth+1)
		}
	}
	for _, n := range nodes {
		walk(n, 0)
	}
	return out
}
