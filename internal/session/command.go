package session

import (
	"errors"
	"fmt"
	"strings"
)

const (
	OpAdd      = "add"
	OpAddChild = "add-child"
	OpEdit     = "edit"
	OpDelete   = "delete"
	OpToggle   = "toggle"
)

// Command is a single path-addressed request from a surface. Only primitive
// strings travel; the path is resolved when the command runs.
type Command struct {
	Op   string `json:"op"`
	Path string `json:"path,omitempty"`
	Text string `json:"text,omitempty"`
	// Cancel makes the edit prompt report a dismissal.
	Cancel bool `json:"cancel,omitempty"`
	// Confirm answers the delete question; nil means yes.
	Confirm *bool `json:"confirm,omitempty"`
}

// Interaction bundles the collaborators a command may need.
type Interaction struct {
	Prompter  Prompter
	Confirmer Confirmer
}

// CommandInteraction answers prompts from the command's own fields.
func CommandInteraction(cmd Command) Interaction {
	return Interaction{
		Prompter: PromptFunc(func(string, string) (string, bool) {
			if cmd.Cancel {
				return "", false
			}
			return cmd.Text, true
		}),
		Confirmer: ConfirmFunc(func(string) bool {
			return cmd.Confirm == nil || *cmd.Confirm
		}),
	}
}

var ErrUnknownOp = errors.New("unknown op")

// Dispatch runs cmd against the session.
func (s *Session) Dispatch(cmd Command, in Interaction) (Outcome, error) {
	switch strings.TrimSpace(cmd.Op) {
	case OpAdd:
		return outcomeOf(s.AddRootTask(cmd.Text))
	case OpAddChild:
		return outcomeOf(s.AddChildTask(cmd.Path, cmd.Text))
	case OpEdit:
		if in.Prompter == nil {
			return outcomeOf(s.EditTask(cmd.Path, cmd.Text))
		}
		return s.Edit(cmd.Path, in.Prompter)
	case OpDelete:
		return s.Delete(cmd.Path, in.Confirmer)
	case OpToggle:
		_, err := s.ToggleChildInputVisibility(cmd.Path)
		return outcomeOf(err)
	default:
		return Cancelled, fmt.Errorf("%w: %q", ErrUnknownOp, cmd.Op)
	}
}

func outcomeOf(err error) (Outcome, error) {
	if err != nil {
		return Cancelled, err
	}
	return Applied, nil
}
