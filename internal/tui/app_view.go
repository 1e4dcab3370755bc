package tui

import (
	"fmt"
	"strings"

	"tasktree/internal/session"
	"tasktree/internal/view"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

func (m appModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	header := m.renderHeader()
	body := m.itemsList.View()
	footer := m.renderFooter()
	base := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)

	overlay := m.renderModal()
	if overlay == "" {
		return base
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, overlay,
		lipgloss.WithWhitespaceChars(" "))
}

func (m appModel) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("tasktree")
	count := styleMuted().Render(fmt.Sprintf("%d tasks", m.frame.Count))
	gap := m.width - xansi.StringWidth(title) - xansi.StringWidth(count) - 2
	if gap < 1 {
		gap = 1
	}
	line := " " + title + strings.Repeat(" ", gap) + count + " "
	return xansi.Truncate(line, m.width, "") + "\n"
}

func (m appModel) renderFooter() string {
	mini := ""
	if m.minibufferText != "" {
		mini = styleNotice().Render(xansi.Truncate(" "+m.minibufferText, m.width, "…"))
	}
	var helpLine string
	if _, ok := m.selectedChildRow(); ok && m.modal == modalNone {
		helpLine = m.help.View(childInputKeys{k: m.keys})
	} else {
		helpLine = m.help.View(m.keys)
	}
	return mini + "\n" + helpLine
}

func (m appModel) renderModal() string {
	switch m.modal {
	case modalAddRoot:
		return m.renderInputModal("New task", "")
	case modalEdit:
		return m.renderInputModal("Edit task", m.modalForPath)
	case modalConfirmDelete:
		return m.renderDeleteModal()
	case modalPreview:
		return m.renderPreviewModal()
	}
	return ""
}

func (m appModel) renderInputModal(title, path string) string {
	bodyW := modalBodyWidth(m.width)
	lines := []string{}
	if path != "" {
		lines = append(lines, styleMuted().Render("path "+path), "")
	}
	lines = append(lines, renderInputLine(bodyW, m.input.View()))
	if m.minibufferText != "" {
		lines = append(lines, "", styleNotice().Render(m.minibufferText))
	}
	lines = append(lines, "", styleMuted().Width(bodyW).Render("enter: save   esc: cancel"))
	return renderModalBox(m.width, title, strings.Join(lines, "\n"))
}

func (m appModel) renderDeleteModal() string {
	bodyW := modalBodyWidth(m.width)
	body := lipgloss.NewStyle().Width(bodyW).Render(session.DeleteQuestion)
	if n, ok := view.Find(m.frame.Tasks, m.modalForPath); ok {
		desc := view.Count([]view.Node{n}) - 1
		detail := fmt.Sprintf("%q", n.Text)
		if desc > 0 {
			detail += fmt.Sprintf(" and %d subtask(s)", desc)
		}
		body += "\n" + styleMuted().Width(bodyW).Render(detail)
	}
	return renderConfirmModal(m.width, "Delete task", body, "Delete", "Cancel", m.confirmFocus)
}

func (m appModel) renderPreviewModal() string {
	n, ok := view.Find(m.frame.Tasks, m.modalForPath)
	if !ok {
		return renderModalBox(m.width, "Preview", styleMuted().Render("(task no longer exists)"))
	}
	w := m.opts.PreviewWidth
	if bw := modalBodyWidth(m.width); w > bw {
		w = bw
	}
	md := renderMarkdown(view.Markdown([]view.Node{n}), w)
	if maxH := m.height - 8; maxH > 3 {
		if lines := strings.Split(md, "\n"); len(lines) > maxH {
			md = strings.Join(append(lines[:maxH-1], "…"), "\n")
		}
	}
	return renderModalBox(m.width, "Preview "+n.Path, md+"\n\n"+styleMuted().Render("esc: close"))
}
