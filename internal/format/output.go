package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Outliner is implemented by values with a plain-text rendering.
type Outliner interface {
	Outline() string
}

// Markdowner is implemented by values with a markdown rendering.
type Markdowner interface {
	Markdown() string
}

// Formats lists the accepted values of --format.
var Formats = []string{"json", "edn", "yaml", "outline", "markdown"}

// Write writes v in the requested format.
//
// Supported formats:
// - json (default)
// - edn
// - yaml
// - outline (values implementing Outliner only)
// - markdown (values implementing Markdowner only)
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "edn":
		return WriteEDN(w, v, pretty)
	case "yaml", "yml":
		return WriteYAML(w, v)
	case "outline":
		o, ok := v.(Outliner)
		if !ok {
			return fmt.Errorf("format outline: %T has no outline rendering", v)
		}
		_, err := io.WriteString(w, o.Outline())
		return err
	case "markdown", "md":
		m, ok := v.(Markdowner)
		if !ok {
			return fmt.Errorf("format markdown: %T has no markdown rendering", v)
		}
		_, err := io.WriteString(w, m.Markdown())
		return err
	default:
		return fmt.Errorf("unknown format: %s (expected %s)", format, strings.Join(Formats, "|"))
	}
}

// WriteJSON writes strict JSON followed by a newline.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// WriteYAML writes v as YAML using its yaml (or lowercased field) names.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
