package view

import (
	"strings"
)

// Markdown renders nodes as a nested bullet list. Task text is escaped so that
// user input cannot turn into markdown structure.
func Markdown(nodes []Node) string {
	var b strings.Builder
	writeMarkdown(&b, nodes, 0)
	return b.String()
}

func writeMarkdown(b *strings.Builder, nodes []Node, depth int) {
	for _, n := range nodes {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString("- ")
		b.WriteString(escapeMarkdown(n.Text))
		b.WriteByte('\n')
		writeMarkdown(b, n.Children, depth+1)
	}
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"#", `\#`,
	"<", `\<`,
	">", `\>`,
	"\n", " ",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// Outline renders nodes as plain indented text, one task per line, prefixed with
// its path.
func Outline(nodes []Node) string {
	var b strings.Builder
	for _, r := range Flatten(nodes, nil) {
		b.WriteString(strings.Repeat("  ", r.Depth))
		b.WriteString("[")
		b.WriteString(r.Node.Path)
		b.WriteString("] ")
		b.WriteString(r.Node.Text)
		b.WriteByte('\n')
	}
	return b.String()
}
