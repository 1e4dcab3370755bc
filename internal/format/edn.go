package format

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// WriteEDN writes an EDN representation of v.
//
// Values go through JSON first so struct tags decide the key names; object keys
// become keywords and are emitted in sorted order.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var x any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&x); err != nil {
		return err
	}

	var buf bytes.Buffer
	e := ednEncoder{buf: &buf, pretty: pretty}
	e.value(x, 0)
	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())
	return err
}

type ednEncoder struct {
	buf    *bytes.Buffer
	pretty bool
}

func (e ednEncoder) value(v any, level int) {
	switch t := v.(type) {
	case nil:
		e.buf.WriteString("nil")
	case bool:
		e.buf.WriteString(strconv.FormatBool(t))
	case string:
		e.buf.WriteString(strconv.Quote(t))
	case json.Number:
		e.buf.WriteString(t.String())
	case []any:
		e.seq('[', ']', len(t), level, func(i int) { e.value(t[i], level+1) })
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		e.seq('{', '}', len(keys), level, func(i int) {
			e.buf.WriteByte(':')
			e.buf.WriteString(ednKeyword(keys[i]))
			e.buf.WriteByte(' ')
			e.value(t[keys[i]], level+1)
		})
	default:
		e.buf.WriteString(strconv.Quote(fmt.Sprint(v)))
	}
}

func (e ednEncoder) seq(open, close byte, n, level int, item func(i int)) {
	e.buf.WriteByte(open)
	if n == 0 {
		e.buf.WriteByte(close)
		return
	}
	for i := 0; i < n; i++ {
		if e.pretty {
			e.buf.WriteByte('\n')
			e.buf.WriteString(strings.Repeat("  ", level+1))
		} else if i > 0 {
			e.buf.WriteByte(' ')
		}
		item(i)
	}
	if e.pretty {
		e.buf.WriteByte('\n')
		e.buf.WriteString(strings.Repeat("  ", level))
	}
	e.buf.WriteByte(close)
}

// ednKeyword turns a JSON field name into a keyword name (camelCase -> kebab-case).
func ednKeyword(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	for i, r := range s {
		switch {
		case r == ' ' || r == '_':
			b.WriteByte('-')
		case r >= 'A' && r <= 'Z':
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
