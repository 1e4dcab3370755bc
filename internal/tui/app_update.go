package tui

import (
	"errors"

	"tasktree/internal/session"
	"tasktree/internal/tree"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeList()
		m.syncChildInput()
		return m, nil

	case tea.KeyMsg:
		if m.modal != modalNone {
			return m.updateModal(msg)
		}
		if _, ok := m.selectedChildRow(); ok {
			return m.updateChildInput(msg)
		}
		return m.updateOutline(msg)
	}

	var cmd tea.Cmd
	m.itemsList, cmd = m.itemsList.Update(msg)
	return m, cmd
}

func (m appModel) updateOutline(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.minibufferText = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resizeList()
		return m, nil

	case key.Matches(msg, m.keys.AddRoot):
		m.openInputModal(modalAddRoot, "", "", "")
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Up):
		m.itemsList.CursorUp()
		m.syncChildInput()
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.itemsList.CursorDown()
		m.syncChildInput()
		return m, nil
	}

	n, ok := m.selectedTask()
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.ChildInput):
		open, err := m.sess.ToggleChildInputVisibility(n.Path)
		if err != nil {
			m.fail(session.OpToggle, err)
			return m, nil
		}
		m.refresh(n.ID)
		if open && m.selectChildRow(n.Path) {
			m.syncChildInput()
			return m, textinput.Blink
		}
		return m, nil

	case key.Matches(msg, m.keys.Collapse):
		if len(n.Children) == 0 {
			return m, nil
		}
		if m.collapsed[n.ID] {
			delete(m.collapsed, n.ID)
		} else {
			m.collapsed[n.ID] = true
		}
		m.refresh(n.ID)
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		text, err := m.sess.TaskText(n.Path)
		if err != nil {
			m.fail(session.OpEdit, err)
			return m, nil
		}
		m.openInputModal(modalEdit, n.Path, n.ID, text)
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Delete):
		if !m.opts.ConfirmDelete {
			m.deleteSelected(n.Path, true)
			return m, nil
		}
		m.modal = modalConfirmDelete
		m.modalForPath = n.Path
		m.modalForID = n.ID
		m.confirmFocus = confirmFocusCancel
		return m, nil

	case key.Matches(msg, m.keys.Preview):
		m.modal = modalPreview
		m.modalForPath = n.Path
		m.modalForID = n.ID
		return m, nil
	}
	return m, nil
}

func (m appModel) updateChildInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	row, _ := m.selectedChildRow()
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEnter:
		m.minibufferText = ""
		if err := m.sess.AddChildTask(row.parentPath, m.childInput.Value()); err != nil {
			m.fail(session.OpAddChild, err)
			return m, nil
		}
		m.childInput.Reset()
		m.childFor = ""
		// Appending a child leaves the parent's own path unchanged.
		newID := ""
		if parent, _, err := m.sess.Store().ResolveString(row.parentPath); err == nil && len(parent.Children) > 0 {
			newID = parent.Children[len(parent.Children)-1].ID
		}
		m.refresh(newID)
		return m, nil

	case tea.KeyEsc:
		m.minibufferText = ""
		parentID := m.taskIDAt(row.parentPath)
		if _, err := m.sess.ToggleChildInputVisibility(row.parentPath); err != nil {
			m.fail(session.OpToggle, err)
		}
		m.childInput.Reset()
		m.childFor = ""
		m.refresh(parentID)
		return m, nil

	case tea.KeyUp, tea.KeyDown, tea.KeyCtrlP, tea.KeyCtrlN:
		m.childDrafts[row.parentPath] = m.childInput.Value()
		if msg.Type == tea.KeyUp || msg.Type == tea.KeyCtrlP {
			m.itemsList.CursorUp()
		} else {
			m.itemsList.CursorDown()
		}
		m.syncChildInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.childInput, cmd = m.childInput.Update(msg)
	m.childDrafts[row.parentPath] = m.childInput.Value()
	m.syncChildInput()
	return m, cmd
}

func (m appModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	switch m.modal {
	case modalAddRoot:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.closeModal()
			return m, nil
		case key.Matches(msg, m.keys.Submit):
			if err := m.sess.AddRootTask(m.input.Value()); err != nil {
				// The modal stays open so the user can type something.
				m.fail(session.OpAdd, err)
				return m, nil
			}
			m.closeModal()
			roots := m.sess.Store().Roots()
			m.refresh(roots[len(roots)-1].ID)
			return m, nil
		}

	case modalEdit:
		switch {
		case key.Matches(msg, m.keys.Cancel):
			m.finishEdit("", false)
			return m, nil
		case key.Matches(msg, m.keys.Submit):
			m.finishEdit(m.input.Value(), true)
			return m, nil
		}

	case modalConfirmDelete:
		switch {
		case key.Matches(msg, m.keys.Cancel), msg.String() == "n":
			m.deleteSelected(m.modalForPath, false)
			return m, nil
		case msg.String() == "y":
			m.deleteSelected(m.modalForPath, true)
			return m, nil
		case key.Matches(msg, m.keys.ToggleFocus):
			m.confirmFocus = m.confirmFocus.next()
			return m, nil
		case key.Matches(msg, m.keys.Submit):
			m.deleteSelected(m.modalForPath, m.confirmFocus == confirmFocusConfirm)
			return m, nil
		}
		return m, nil

	case modalPreview:
		if key.Matches(msg, m.keys.Cancel, m.keys.Preview, m.keys.Quit) {
			m.closeModal()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *appModel) openInputModal(kind modalKind, path, id, initial string) {
	m.modal = kind
	m.modalForPath = path
	m.modalForID = id
	m.input.Reset()
	m.input.SetValue(initial)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *appModel) closeModal() {
	m.modal = modalNone
	m.modalForPath = ""
	m.modalForID = ""
	m.input.Blur()
	m.input.Reset()
}

// finishEdit hands the modal's answer to the session as the edit prompt's reply.
func (m *appModel) finishEdit(text string, submitted bool) {
	path, id := m.modalForPath, m.modalForID
	m.closeModal()
	answer := session.PromptFunc(func(string, string) (string, bool) { return text, submitted })
	if _, err := m.sess.Edit(path, answer); err != nil {
		m.fail(session.OpEdit, err)
	}
	m.refresh(id)
}

func (m *appModel) deleteSelected(path string, yes bool) {
	id := m.modalForID
	m.closeModal()
	answer := session.ConfirmFunc(func(string) bool { return yes })
	out, err := m.sess.Delete(path, answer)
	if err != nil {
		m.fail(session.OpDelete, err)
		m.refresh("")
		return
	}
	if out == session.Cancelled {
		m.refresh(id)
		return
	}
	delete(m.collapsed, id)
	m.refresh("")
}

func (m *appModel) fail(op string, err error) {
	m.showMinibuffer(session.Notice(op, err))
	if errors.Is(err, tree.ErrPathNotFound) {
		m.refresh("")
	}
}

func (m appModel) taskIDAt(path string) string {
	n, _, err := m.sess.Store().ResolveString(path)
	if err != nil {
		return ""
	}
	return n.ID
}
