package format

import (
	"bytes"
	"strings"
	"testing"
)

type sample struct {
	Text       string   `json:"text" yaml:"text"`
	ChildInput bool     `json:"childInput" yaml:"childInput"`
	Children   []sample `json:"children" yaml:"children"`
}

func (s sample) Outline() string  { return "- " + s.Text + "\n" }
func (s sample) Markdown() string { return "* " + s.Text + "\n" }

func TestWrite_Formats(t *testing.T) {
	t.Parallel()

	v := sample{Text: "Buy milk", Children: []sample{{Text: "2%", Children: []sample{}}}}

	tests := []struct {
		format string
		pretty bool
		want   string
	}{
		{format: "json", want: `{"text":"Buy milk","childInput":false,"children":[{"text":"2%","childInput":false,"children":[]}]}` + "\n"},
		{format: "", want: `{"text":"Buy milk","childInput":false,"children":[{"text":"2%","childInput":false,"children":[]}]}` + "\n"},
		{format: "edn", want: `{:child-input false :children [{:child-input false :children [] :text "2%"}] :text "Buy milk"}` + "\n"},
		{format: "outline", want: "- Buy milk\n"},
		{format: "markdown", want: "* Buy milk\n"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if err := Write(&buf, v, tt.format, tt.pretty); err != nil {
				t.Fatalf("Write(%q): %v", tt.format, err)
			}
			if got := buf.String(); got != tt.want {
				t.Fatalf("Write(%q):\n got: %q\nwant: %q", tt.format, got, tt.want)
			}
		})
	}
}

func TestWriteEDN_Pretty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEDN(&buf, map[string]any{"count": 2, "tasks": []string{"a"}}, true); err != nil {
		t.Fatalf("WriteEDN: %v", err)
	}
	want := "{\n  :count 2\n  :tasks [\n    \"a\"\n  ]\n}\n"
	if got := buf.String(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	v := sample{Text: "Buy milk", Children: []sample{}}
	if err := Write(&buf, v, "yaml", false); err != nil {
		t.Fatalf("Write yaml: %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, "text: Buy milk") || !strings.Contains(got, "children: []") {
		t.Fatalf("unexpected yaml:\n%s", got)
	}
}

func TestWrite_Errors(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, 3, "outline", false); err == nil {
		t.Fatalf("expected error for outline of a non-Outliner")
	}
	if err := Write(&buf, 3, "markdown", false); err == nil {
		t.Fatalf("expected error for markdown of a non-Markdowner")
	}
	if err := Write(&buf, 3, "xml", false); err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Fatalf("expected unknown format error, got %v", err)
	}
}
