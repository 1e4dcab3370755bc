package web

import (
	"bytes"
	"html/template"
	"strings"

	"tasktree/internal/view"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// previewVM feeds the "preview" template for one task's subtree.
type previewVM struct {
	Path  string
	Count int
	Body  template.HTML
}

// Task text reaches the converter as escaped list items and html.WithUnsafe is
// not set, so raw HTML never survives into Body.
var previewMarkdown = goldmark.New(
	goldmark.WithExtensions(
		extension.Strikethrough,
		extension.Linkify,
		emoji.Emoji,
	),
	goldmark.WithRendererOptions(html.WithXHTML()),
)

func buildPreviewVM(n view.Node) previewVM {
	sub := []view.Node{n}
	return previewVM{
		Path:  n.Path,
		Count: view.Count(sub),
		Body:  subtreeHTML(view.Markdown(sub)),
	}
}

func subtreeHTML(md string) template.HTML {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	var b bytes.Buffer
	if err := previewMarkdown.Convert([]byte(md), &b); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(md) + "</pre>")
	}
	return template.HTML(b.String())
}
