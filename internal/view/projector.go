package view

import (
	"strings"

	"tasktree/internal/tree"
)

// Frame is one full projection of the forest plus the view-only state that goes
// with it. Frames are replaced wholesale; nothing carries over between revisions
// except what the forest itself holds.
type Frame struct {
	Revision uint64 `json:"revision" yaml:"revision"`
	Count    int    `json:"count" yaml:"count"`
	Tasks    []Node `json:"tasks" yaml:"tasks"`
	// ChildInput holds the paths whose child-input box is open.
	ChildInput map[string]bool `json:"childInput,omitempty" yaml:"childInput,omitempty"`
}

// ChildInputVisible reports whether the child-input box for path is open.
func (f Frame) ChildInputVisible(path string) bool {
	return f.ChildInput[strings.TrimSpace(path)]
}

// Projector performs full re-renders and keeps the ephemeral child-input toggles
// for the current revision.
type Projector struct {
	rev     uint64
	visible map[string]bool
}

func NewProjector() *Projector {
	return &Projector{visible: map[string]bool{}}
}

// Render rebuilds the frame from scratch. Every toggle is reset to hidden.
func (p *Projector) Render(roots []*tree.Node) Frame {
	p.rev++
	p.visible = map[string]bool{}
	tasks := Project(roots)
	return Frame{
		Revision:   p.rev,
		Count:      Count(tasks),
		Tasks:      tasks,
		ChildInput: map[string]bool{},
	}
}

// Toggle flips the child-input visibility of path and returns the new state.
// Callers validate path against the store first.
func (p *Projector) Toggle(path string) bool {
	if p.visible == nil {
		p.visible = map[string]bool{}
	}
	path = strings.TrimSpace(path)
	if p.visible[path] {
		delete(p.visible, path)
		return false
	}
	p.visible[path] = true
	return true
}

// Visible reports the current toggle state of path.
func (p *Projector) Visible(path string) bool {
	return p.visible[strings.TrimSpace(path)]
}

// Apply copies the current toggles into f.
func (p *Projector) Apply(f Frame) Frame {
	vis := make(map[string]bool, len(p.visible))
	for k, v := range p.visible {
		if v {
			vis[k] = true
		}
	}
	f.ChildInput = vis
	return f
}

// Revision returns the number of renders performed so far.
func (p *Projector) Revision() uint64 {
	return p.rev
}

// Outline renders the frame as indented text.
func (f Frame) Outline() string {
	return Outline(f.Tasks)
}

// Markdown renders the frame as a nested bullet list.
func (f Frame) Markdown() string {
	return Markdown(f.Tasks)
}
