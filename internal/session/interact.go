package session

import (
	"errors"
	"strings"

	"tasktree/internal/tree"
)

// Prompter supplies replacement text. ok is false when the user dismissed the prompt,
// which is distinct from submitting an empty string.
type Prompter interface {
	Prompt(label, initial string) (text string, ok bool)
}

// Confirmer answers a yes/no question.
type Confirmer interface {
	Confirm(question string) bool
}

// PromptFunc adapts a function to Prompter.
type PromptFunc func(label, initial string) (string, bool)

func (f PromptFunc) Prompt(label, initial string) (string, bool) { return f(label, initial) }

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(question string) bool

func (f ConfirmFunc) Confirm(question string) bool { return f(question) }

const (
	EditPromptLabel = "Edit task:"
	DeleteQuestion  = "Are you sure you want to delete this task?"
)

// Edit asks p for new text (pre-filled with the current text) and applies it.
// A dismissed prompt and a whitespace-only submission both end as Cancelled.
func (s *Session) Edit(path string, p Prompter) (Outcome, error) {
	current, err := s.TaskText(path)
	if err != nil {
		return Cancelled, s.fail("edit", path, err)
	}
	text, ok := p.Prompt(EditPromptLabel, current)
	if !ok || strings.TrimSpace(text) == "" {
		s.log.Debug("command", "op", "edit", "path", path, "outcome", Cancelled)
		return Cancelled, nil
	}
	if err := s.EditTask(path, text); err != nil {
		return Cancelled, err
	}
	return Applied, nil
}

// Delete asks c for confirmation before removing the task at path.
func (s *Session) Delete(path string, c Confirmer) (Outcome, error) {
	if _, _, err := s.store.ResolveString(path); err != nil {
		return Cancelled, s.fail("delete", path, err)
	}
	if c != nil && !c.Confirm(DeleteQuestion) {
		s.log.Debug("command", "op", "delete", "path", path, "outcome", Cancelled)
		return Cancelled, nil
	}
	if err := s.DeleteTask(path); err != nil {
		return Cancelled, err
	}
	return Applied, nil
}

// Notice returns the user-facing message for a command error.
func Notice(op string, err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, tree.ErrEmptyInput):
		if op == OpAddChild {
			return "Please enter a child task!"
		}
		return "Please enter a task!"
	case errors.Is(err, tree.ErrPathNotFound):
		return "That task no longer exists (the list changed). Showing the current list."
	default:
		return err.Error()
	}
}
