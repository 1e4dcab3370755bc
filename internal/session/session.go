// Package session routes path-addressed commands from a rendering surface to the
// task store and re-renders the view after every mutation.
package session

import (
	"errors"
	"strings"

	"tasktree/internal/logging"
	"tasktree/internal/tree"
	"tasktree/internal/view"

	"github.com/charmbracelet/log"
)

// Outcome reports what a command did when it did not fail.
type Outcome int

const (
	// Applied means the store was mutated (or view state changed) and a new frame exists.
	Applied Outcome = iota
	// Cancelled means a collaborator backed out; nothing changed and nothing is wrong.
	Cancelled
)

func (o Outcome) String() string {
	switch o {
	case Applied:
		return "applied"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Session owns one forest and its current projection. Like the store it is not safe
// for concurrent use; surfaces serialize commands.
type Session struct {
	store *tree.Store
	proj  *view.Projector
	frame view.Frame
	log   *log.Logger
}

type Option func(*Session)

// WithLogger sets the logger used for command tracing.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

func New(opts ...Option) *Session {
	s := &Session{
		store: tree.NewStore(),
		proj:  view.NewProjector(),
		log:   logging.Discard(),
	}
	for _, o := range opts {
		o(s)
	}
	s.render()
	return s
}

// Frame returns the current projection including open child inputs.
func (s *Session) Frame() view.Frame {
	return s.proj.Apply(s.frame)
}

// Store exposes the underlying store for read-only inspection.
func (s *Session) Store() *tree.Store {
	return s.store
}

// AddRootTask appends a new top-level task.
func (s *Session) AddRootTask(text string) error {
	p, err := s.store.AddRoot(text)
	if err != nil {
		return s.fail("add", "", err)
	}
	s.applied("add", p.String())
	return nil
}

// AddChildTask appends a child to the task at path.
func (s *Session) AddChildTask(path, text string) error {
	if strings.TrimSpace(text) == "" {
		return s.fail("add-child", path, tree.ErrEmptyInput)
	}
	p, err := tree.ParsePath(path)
	if err != nil {
		return s.fail("add-child", path, err)
	}
	cp, err := s.store.AddChild(p, text)
	if err != nil {
		return s.fail("add-child", path, err)
	}
	s.applied("add-child", cp.String())
	return nil
}

// EditTask replaces the text of the task at path.
func (s *Session) EditTask(path, newText string) error {
	p, err := tree.ParsePath(path)
	if err != nil {
		return s.fail("edit", path, err)
	}
	if err := s.store.Edit(p, newText); err != nil {
		return s.fail("edit", path, err)
	}
	s.applied("edit", path)
	return nil
}

// DeleteTask removes the task at path and its whole subtree.
func (s *Session) DeleteTask(path string) error {
	p, err := tree.ParsePath(path)
	if err != nil {
		return s.fail("delete", path, err)
	}
	removed, err := s.store.Delete(p)
	if err != nil {
		return s.fail("delete", path, err)
	}
	s.applied("delete", path, "removed", removed)
	return nil
}

// ToggleChildInputVisibility flips the child-input box of the task at path and
// returns whether it is now open. This is view state only: no re-render happens,
// and the next mutation closes every box.
func (s *Session) ToggleChildInputVisibility(path string) (bool, error) {
	_, p, err := s.store.ResolveString(path)
	if err != nil {
		return false, s.fail("toggle", path, err)
	}
	open := s.proj.Toggle(p.String())
	s.log.Debug("command", "op", "toggle", "path", p.String(), "open", open)
	return open, nil
}

// TaskText returns the current text of the task at path, for pre-filling prompts.
func (s *Session) TaskText(path string) (string, error) {
	n, _, err := s.store.ResolveString(path)
	if err != nil {
		return "", err
	}
	return n.Text, nil
}

// PathOf returns the current path string of the task with the given id.
func (s *Session) PathOf(id string) (string, bool) {
	p, ok := s.store.Locate(id)
	if !ok {
		return "", false
	}
	return p.String(), true
}

func (s *Session) render() {
	s.frame = s.proj.Render(s.store.Roots())
}

func (s *Session) applied(op, path string, kv ...any) {
	s.render()
	fields := append([]any{"op", op, "path", path, "revision", s.frame.Revision, "count", s.frame.Count}, kv...)
	s.log.Debug("command", fields...)
}

func (s *Session) fail(op, path string, err error) error {
	level := log.WarnLevel
	if errors.Is(err, tree.ErrEmptyInput) {
		level = log.InfoLevel
	}
	s.log.Log(level, "command rejected", "op", op, "path", path, "err", err)
	return err
}
