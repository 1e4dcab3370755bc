package tui

import (
	"tasktree/internal/view"

	"github.com/charmbracelet/bubbles/list"
)

// taskRowItem is one projected task in the outline list.
type taskRowItem struct {
	row       view.Row
	collapsed bool
}

func (i taskRowItem) FilterValue() string { return i.row.Node.Text }
func (i taskRowItem) Title() string       { return i.row.Node.Text }
func (i taskRowItem) Description() string { return i.row.Node.Path }

// childInputRow is the inline "add child" box shown under a task whose child input
// is open. inputView is the rendered text input when the row has focus.
type childInputRow struct {
	parentPath string
	depth      int
	draft      string
	inputView  string
}

func (i childInputRow) FilterValue() string { return "" }
func (i childInputRow) Title() string       { return "+ Add child task" }

// emptyRow is shown when the forest has no tasks.
type emptyRow struct{}

func (emptyRow) FilterValue() string { return "" }
func (emptyRow) Title() string       { return "No tasks yet. Press a to add one." }

func buildOutlineItems(f view.Frame, collapsed map[string]bool, drafts map[string]string) []list.Item {
	rows := view.Flatten(f.Tasks, collapsed)
	if len(rows) == 0 {
		return []list.Item{emptyRow{}}
	}
	items := make([]list.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, taskRowItem{row: r, collapsed: collapsed[r.Node.Path]})
		if f.ChildInputVisible(r.Node.Path) {
			items = append(items, childInputRow{
				parentPath: r.Node.Path,
				depth:      r.Depth + 1,
				draft:      drafts[r.Node.Path],
			})
		}
	}
	return items
}

func newList(items []list.Item) list.Model {
	l := list.New(items, newOutlineItemDelegate(), 0, 0)
	// The app renders its own header, footer and help.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	cursorUpKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	l.KeyMap.CursorUp.SetKeys(append(cursorUpKeys, "ctrl+p")...)
	cursorDownKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	l.KeyMap.CursorDown.SetKeys(append(cursorDownKeys, "ctrl+n")...)
	return l
}
