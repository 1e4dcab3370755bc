package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type outlineItemDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	path     lipgloss.Style
	addRow   lipgloss.Style
}

func newOutlineItemDelegate() outlineItemDelegate {
	return outlineItemDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
		path:   styleMuted(),
		addRow: lipgloss.NewStyle().Foreground(colorMuted).Italic(true),
	}
}

func (d outlineItemDelegate) Height() int  { return 1 }
func (d outlineItemDelegate) Spacing() int { return 0 }
func (d outlineItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d outlineItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		return
	}
	focused := index == m.Index()

	switch it := item.(type) {
	case taskRowItem:
		fmt.Fprint(w, d.renderTaskRow(contentW, it, focused))
	case childInputRow:
		indent := strings.Repeat("  ", it.depth) + "  "
		if focused && it.inputView != "" {
			fmt.Fprint(w, indent+renderInputLine(contentW-xansi.StringWidth(indent), it.inputView))
			return
		}
		label := it.Title()
		if strings.TrimSpace(it.draft) != "" {
			label = "+ " + it.draft
		}
		base := d.addRow
		if focused {
			base = d.selected
		}
		fmt.Fprint(w, fitRow(contentW, base, indent+label))
	default:
		txt := ""
		if t, ok := item.(interface{ Title() string }); ok {
			txt = t.Title()
		}
		fmt.Fprint(w, fitRow(contentW, d.addRow, "  "+txt))
	}
}

func (d outlineItemDelegate) renderTaskRow(width int, it taskRowItem, focused bool) string {
	indent := strings.Repeat("  ", it.row.Depth)
	twisty := "•"
	switch {
	case it.row.HasChildren && it.collapsed:
		twisty = "▸"
	case it.row.HasChildren:
		twisty = "▾"
	}
	lead := indent + twisty + " "
	tail := "  " + it.row.Node.Path

	base := d.normal
	pathStyle := d.path
	if focused {
		base = d.selected
		// Keep the path segment on the selection background so its reset doesn't
		// clear the highlight for the rest of the row.
		pathStyle = d.selected.Bold(false).Faint(true)
	}

	title := it.row.Node.Text
	avail := width - xansi.StringWidth(lead) - xansi.StringWidth(tail)
	if avail < 1 {
		tail = ""
		avail = width - xansi.StringWidth(lead)
	}
	if avail < 1 {
		return fitRow(width, base, lead)
	}
	if xansi.StringWidth(title) > avail {
		title = xansi.Truncate(title, avail, "…")
	}

	left := base.Render(lead + title)
	right := ""
	if tail != "" {
		right = pathStyle.Render(tail)
	}
	gap := width - xansi.StringWidth(lead+title) - xansi.StringWidth(tail)
	if gap < 0 {
		gap = 0
	}
	return left + base.Render(strings.Repeat(" ", gap)) + right
}

func fitRow(width int, style lipgloss.Style, line string) string {
	lineW := xansi.StringWidth(line)
	if lineW < width {
		line += strings.Repeat(" ", width-lineW)
	} else if lineW > width {
		line = xansi.Truncate(line, width, "")
	}
	return style.Render(line)
}
