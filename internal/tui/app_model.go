package tui

import (
	"tasktree/internal/logging"
	"tasktree/internal/session"
	"tasktree/internal/view"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/log"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalAddRoot
	modalEdit
	modalConfirmDelete
	modalPreview
)

// Options configures the terminal surface.
type Options struct {
	Logger *log.Logger
	// ConfirmDelete shows a yes/no modal before a delete reaches the store.
	ConfirmDelete bool
	// PreviewWidth is the wrap width of the markdown preview.
	PreviewWidth int
}

type appModel struct {
	sess  *session.Session
	frame view.Frame
	opts  Options
	log   *log.Logger

	width  int
	height int

	itemsList list.Model
	keys      keyMap
	help      help.Model

	// collapsed holds node ids whose children are folded away in the list.
	collapsed map[string]bool

	modal        modalKind
	modalForPath string
	modalForID   string
	input        textinput.Model
	confirmFocus confirmModalFocus

	// childInput edits the add-child row that currently has the cursor. Drafts are
	// kept per parent path and dropped whenever the frame revision changes.
	childInput   textinput.Model
	childFor     string
	childDrafts  map[string]string
	draftsForRev uint64

	minibufferText string
}

func newAppModel(sess *session.Session, opts Options) appModel {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.PreviewWidth <= 0 {
		opts.PreviewWidth = 60
	}

	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 500

	child := textinput.New()
	child.Prompt = "+ "
	child.Placeholder = "child task"
	child.CharLimit = 500

	m := appModel{
		sess:        sess,
		opts:        opts,
		log:         opts.Logger,
		keys:        defaultKeyMap(),
		help:        help.New(),
		collapsed:   map[string]bool{},
		input:       in,
		childInput:  child,
		childDrafts: map[string]string{},
	}
	m.frame = sess.Frame()
	m.itemsList = newList(m.items())
	m.syncChildInput()
	return m
}

func (m *appModel) items() []list.Item {
	if m.frame.Revision != m.draftsForRev {
		m.childDrafts = map[string]string{}
		m.draftsForRev = m.frame.Revision
	}
	return buildOutlineItems(m.frame, m.collapsedPaths(), m.childDrafts)
}

// collapsedPaths maps folded node ids to their paths in the current frame.
func (m *appModel) collapsedPaths() map[string]bool {
	if len(m.collapsed) == 0 {
		return nil
	}
	out := map[string]bool{}
	for id := range m.collapsed {
		p, ok := m.sess.PathOf(id)
		if !ok {
			delete(m.collapsed, id)
			continue
		}
		out[p] = true
	}
	return out
}

// refresh pulls the session's current frame and rebuilds the list, keeping the
// cursor on selectID when it is still present.
func (m *appModel) refresh(selectID string) {
	prev := m.itemsList.Index()
	m.frame = m.sess.Frame()
	m.itemsList.SetItems(m.items())
	if !m.selectTask(selectID) {
		m.selectIndex(prev)
	}
	m.syncChildInput()
}

func (m *appModel) selectTask(id string) bool {
	if id == "" {
		return false
	}
	for i, it := range m.itemsList.Items() {
		if row, ok := it.(taskRowItem); ok && row.row.Node.ID == id {
			m.itemsList.Select(i)
			return true
		}
	}
	return false
}

func (m *appModel) selectChildRow(parentPath string) bool {
	for i, it := range m.itemsList.Items() {
		if row, ok := it.(childInputRow); ok && row.parentPath == parentPath {
			m.itemsList.Select(i)
			return true
		}
	}
	return false
}

func (m *appModel) selectIndex(i int) {
	n := len(m.itemsList.Items())
	if n == 0 {
		return
	}
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	m.itemsList.Select(i)
}

func (m appModel) selectedTask() (view.Node, bool) {
	if row, ok := m.itemsList.SelectedItem().(taskRowItem); ok {
		return row.row.Node, true
	}
	return view.Node{}, false
}

func (m appModel) selectedChildRow() (childInputRow, bool) {
	row, ok := m.itemsList.SelectedItem().(childInputRow)
	return row, ok
}

// syncChildInput focuses the child text input when the cursor sits on an add-child
// row and mirrors its view into that row.
func (m *appModel) syncChildInput() {
	row, ok := m.selectedChildRow()
	if !ok {
		if m.childFor != "" {
			m.childInput.Blur()
			m.childFor = ""
		}
		return
	}
	if m.childFor != row.parentPath {
		m.childFor = row.parentPath
		m.childInput.SetValue(m.childDrafts[row.parentPath])
		m.childInput.CursorEnd()
	}
	m.childInput.Focus()
	m.childInput.Width = m.childInputWidth(row.depth)
	row.draft = m.childInput.Value()
	row.inputView = m.childInput.View()
	m.itemsList.SetItem(m.itemsList.Index(), row)
}

func (m appModel) childInputWidth(depth int) int {
	w := m.width - 2*depth - 8
	if w < 10 {
		w = 10
	}
	return w
}

func (m *appModel) showMinibuffer(text string) {
	m.minibufferText = text
}

func (m *appModel) resizeList() {
	h := m.height - 4
	if m.help.ShowAll {
		h -= 3
	}
	if h < 1 {
		h = 1
	}
	w := m.width
	if w < 10 {
		w = 10
	}
	m.itemsList.SetSize(w, h)
	m.help.Width = w
	m.input.Width = modalBodyWidth(m.width) - 4
}
